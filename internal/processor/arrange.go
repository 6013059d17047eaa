package processor

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keyscribe/keyscribe/internal/score"
)

// Style is a rule for turning a chord per block into keyboard notes.
type Style int

const (
	StyleBlock Style = iota
	StyleArpeggio
	StyleAlberti
)

var styleNames = map[Style]string{
	StyleBlock:    "block",
	StyleArpeggio: "arpeggio",
	StyleAlberti:  "alberti",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle parses a style name. The empty string is the block style.
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StyleBlock, nil
	}
	for st, name := range styleNames {
		if name == s {
			return st, nil
		}
	}
	return StyleBlock, fmt.Errorf("unknown arrangement style %q", s)
}

func (s Style) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *Style) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseStyle(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

const (
	blockBassVelocity   = 72
	blockTrebleVelocity = 85
	arpeggioVelocity    = 82
	albertiVelocity     = 78
)

// Treble window around the treble center, in semitones.
const (
	trebleBelow = -7
	trebleAbove = 9
)

// voiceTriad places every chord tone independently in the treble window
// around center and returns the distinct pitches in ascending order.
func voiceTriad(c Chord, center int) []int {
	voiced := make([]int, 0, len(c.Tones))
	for _, t := range c.Tones {
		voiced = append(voiced, placeNear(t, center, trebleBelow, trebleAbove))
	}
	slices.Sort(voiced)
	return slices.Compact(voiced)
}

// Arrange re-renders a score as a keyboard pattern. The timeline is split
// into eighth-note blocks; every block with a classifiable chord becomes a
// bass note plus a treble triad in the given style. Blocks without a chord
// stay silent. The result is a new single-instrument score with sustain
// pedal applied.
func Arrange(s *score.Score, bpm float64, p ArrangeParams, pedal PedalParams) *score.Score {
	bpm = score.TempoOr(bpm)
	out := score.New(bpm)
	out.TimeSigNum = s.TimeSigNum
	inst := out.Instruments[0]

	forEachBlock(s.EndTime(), gridSeconds(bpm, 2), func(t0, t1 float64) {
		c, ok := ClassifyChord(activePitchClasses(s, t0, t1))
		if !ok {
			return
		}
		bass := clamp(pitchClass(c.Root)+12*p.BassOctave, 0, 127)
		treble := voiceTriad(c, p.TrebleCenter)
		for i := range treble {
			treble[i] = clamp(treble[i], 0, 127)
		}
		inst.Notes = append(inst.Notes, renderBlock(p, bass, treble, t0, t1)...)
	})

	score.SortNotes(inst.Notes)
	SynthesizePedal(out, pedal)
	return out
}

func renderBlock(p ArrangeParams, bass int, treble []int, t0, t1 float64) []score.Note {
	var notes []score.Note
	add := func(pitch, velocity int, start, end float64) {
		notes = append(notes, score.Note{Pitch: pitch, Velocity: velocity, Start: start, End: end})
	}
	switch p.Style {
	case StyleArpeggio:
		seq := append([]int{bass}, treble...)
		step := (t1 - t0) / float64(len(seq))
		for i, pitch := range seq {
			start := t0 + float64(i)*step
			add(pitch, arpeggioVelocity, start, start+step)
		}
	case StyleAlberti:
		pattern := []int{bass, treble[2], treble[0], treble[2]}
		reps := max(1, p.AlbertiRepeats)
		step := (t1 - t0) / float64(reps*len(pattern))
		for r := 0; r < reps; r++ {
			for i, pitch := range pattern {
				start := t0 + float64(r*len(pattern)+i)*step
				add(pitch, albertiVelocity, start, start+step)
			}
		}
	default:
		add(bass, blockBassVelocity, t0, t1)
		for _, pitch := range treble {
			add(pitch, blockTrebleVelocity, t0, t1)
		}
	}
	return notes
}
