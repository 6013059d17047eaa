package processor

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile selects which stages run and with which parameters.
type Profile int

const (
	ProfileBalanced Profile = iota
	ProfileFast
	ProfileAccurate
)

var profileNames = map[Profile]string{
	ProfileBalanced: "balanced",
	ProfileFast:     "fast",
	ProfileAccurate: "accurate",
}

func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// ParseProfile parses a profile name. The empty string is the balanced profile.
func ParseProfile(s string) (Profile, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ProfileBalanced, nil
	}
	for p, name := range profileNames {
		if name == s {
			return p, nil
		}
	}
	return ProfileBalanced, fmt.Errorf("unknown profile %q", s)
}

func (p Profile) MarshalYAML() (any, error) {
	return p.String(), nil
}

func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseProfile(value.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// QuantizeParams configures Quantize.
type QuantizeParams struct {
	// Subdivision is the number of grid steps per beat; 4 is a sixteenth grid, 0 disables snapping.
	Subdivision int     `yaml:"subdivision"`
	MinDuration float64 `yaml:"min_duration"`
	PitchMin    int     `yaml:"pitch_min"`
	PitchMax    int     `yaml:"pitch_max"`
}

// PolyphonyParams configures ResolvePolyphony.
type PolyphonyParams struct {
	OnsetWindow      float64 `yaml:"onset_window"`
	MaxNotesPerOnset int     `yaml:"max_notes_per_onset"`
}

// RangeParams configures LimitRange.
type RangeParams struct {
	PitchMin    int     `yaml:"pitch_min"`
	PitchMax    int     `yaml:"pitch_max"`
	MinDuration float64 `yaml:"min_duration"`
}

// HumanizeParams configures Humanize.
type HumanizeParams struct {
	TimingJitter   float64 `yaml:"timing_jitter"`
	VelocityJitter int     `yaml:"velocity_jitter"`
	SmoothVelocity bool    `yaml:"smooth_velocity"`
}

// PedalParams configures SynthesizePedal.
type PedalParams struct {
	Enabled      bool    `yaml:"enabled"`
	GapThreshold float64 `yaml:"gap_threshold"`
	// Lead is how long before the next note the pedal is lifted.
	Lead float64 `yaml:"lead"`
}

// RefineParams configures Refine.
type RefineParams struct {
	Enabled bool `yaml:"enabled"`
	// SupportThreshold is the minimum normalized chroma support a note needs to survive pruning.
	SupportThreshold float64 `yaml:"support_threshold"`
	// PeakFraction is the fraction of the block's peak energy a filler candidate must reach.
	PeakFraction float64 `yaml:"peak_fraction"`
	// AbsoluteThreshold is the minimum globally-normalized energy of a filler candidate.
	AbsoluteThreshold float64 `yaml:"absolute_threshold"`
	MaxPoly           int     `yaml:"max_poly"`
	FillVelocity      int     `yaml:"fill_velocity"`
	FillCenter        int     `yaml:"fill_center"`
}

// MergeParams configures MergeScores.
type MergeParams struct {
	Enabled     bool    `yaml:"enabled"`
	DedupWindow float64 `yaml:"dedup_window"`
}

// ArrangeParams configures Arrange.
type ArrangeParams struct {
	Style          Style `yaml:"style"`
	BassOctave     int   `yaml:"bass_octave"`
	TrebleCenter   int   `yaml:"treble_center"`
	AlbertiRepeats int   `yaml:"alberti_repeats"`
}

// PerformParams configures Perform.
type PerformParams struct {
	TimingJitter   float64 `yaml:"timing_jitter"`
	VelocityJitter int     `yaml:"velocity_jitter"`
	LegatoGap      float64 `yaml:"legato_gap"`
	Sustain        bool    `yaml:"sustain"`
	GapThreshold   float64 `yaml:"gap_threshold"`
	PedalLead      float64 `yaml:"pedal_lead"`
}

// Config holds every tunable of the pipeline.
type Config struct {
	Profile   Profile         `yaml:"profile"`
	Quantize  QuantizeParams  `yaml:"quantize"`
	Humanize  HumanizeParams  `yaml:"humanize"`
	Range     RangeParams     `yaml:"range"`
	Polyphony PolyphonyParams `yaml:"polyphony"`
	Merge     MergeParams     `yaml:"merge"`
	Refine    RefineParams    `yaml:"refine"`
	Pedal     PedalParams     `yaml:"pedal"`
	Arrange   ArrangeParams   `yaml:"arrange"`
	Perform   PerformParams   `yaml:"perform"`
}

// DefaultConfig returns the parameter record of a profile.
func DefaultConfig(p Profile) Config {
	c := Config{
		Profile: p,
		Quantize: QuantizeParams{
			Subdivision: 4,
			MinDuration: 0.05,
			PitchMin:    21, // A0
			PitchMax:    108, // C8
		},
		Humanize: HumanizeParams{
			SmoothVelocity: true,
		},
		Range: RangeParams{
			PitchMin: 36,
			PitchMax: 96,
		},
		Polyphony: PolyphonyParams{
			OnsetWindow: 0.03,
		},
		Merge: MergeParams{
			DedupWindow: 0.02,
		},
		Refine: RefineParams{
			SupportThreshold:  0.12,
			PeakFraction:      0.5,
			AbsoluteThreshold: 0.15,
			FillVelocity:      82,
			FillCenter:        60,
		},
		Pedal: PedalParams{
			GapThreshold: 0.12,
			Lead:         0.02,
		},
		Arrange: ArrangeParams{
			Style:          StyleBlock,
			BassOctave:     3,
			TrebleCenter:   60,
			AlbertiRepeats: 4,
		},
		Perform: PerformParams{
			TimingJitter:   0.015,
			VelocityJitter: 8,
			LegatoGap:      0.05,
			Sustain:        true,
			GapThreshold:   0.1,
			PedalLead:      0.02,
		},
	}
	switch p {
	case ProfileFast:
		c.Humanize.VelocityJitter = 2
		c.Polyphony.MaxNotesPerOnset = 4
		c.Range.MinDuration = 0.05
	case ProfileAccurate:
		c.Polyphony.MaxNotesPerOnset = 2
		c.Range.MinDuration = 0.07
		c.Merge.Enabled = true
		c.Refine.Enabled = true
	default:
		c.Profile = ProfileBalanced
		c.Humanize.TimingJitter = 0.015
		c.Humanize.VelocityJitter = 6
		c.Pedal.Enabled = true
		c.Polyphony.MaxNotesPerOnset = 3
		c.Range.MinDuration = 0.06
	}
	c.Refine.MaxPoly = c.Polyphony.MaxNotesPerOnset
	return c
}

func mergeReflect(t reflect.Type, a, b, out reflect.Value) {
	switch t.Kind() {
	case reflect.Struct:
		for _, f := range reflect.VisibleFields(t) {
			mergeReflect(f.Type, a.FieldByIndex(f.Index), b.FieldByIndex(f.Index), out.FieldByIndex(f.Index))
		}
	case reflect.Pointer:
		if a.IsNil() {
			out.Set(b)
		} else if b.IsNil() {
			out.Set(a)
		} else {
			out.Set(reflect.New(t.Elem()))
			mergeReflect(t.Elem(), a.Elem(), b.Elem(), out.Elem())
		}
	default:
		if b.IsZero() {
			out.Set(a)
		} else {
			out.Set(b)
		}
	}
}

// Merge overlays the non-zero fields of b onto a.
func Merge[T any](a T, b T) T {
	var out T
	mergeReflect(reflect.TypeFor[T](), reflect.ValueOf(a), reflect.ValueOf(b), reflect.ValueOf(&out).Elem())
	return out
}
