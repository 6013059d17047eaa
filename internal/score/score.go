package score

import (
	"math"
	"slices"
)

const (
	// DefaultBPM is assumed when a score has no usable tempo estimate.
	DefaultBPM = 120.0
	// DefaultTimeSigNum is assumed when a score has no time signature.
	DefaultTimeSigNum = 4

	// AcousticGrandPiano is the General MIDI program every instrument is forced to.
	AcousticGrandPiano = 0

	// SustainPedal is the MIDI controller number of the damper pedal.
	SustainPedal = 64
	PedalUp      = 0
	PedalDown    = 127
)

// Note is a single note event, in seconds.
type Note struct {
	Pitch    int
	Velocity int
	Start    float64
	End      float64
}

// Duration returns End - Start.
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// PitchClass returns the pitch modulo 12.
func (n Note) PitchClass() int {
	return ((n.Pitch % 12) + 12) % 12
}

// ControlEvent is a controller change, e.g. the sustain pedal.
type ControlEvent struct {
	Time   float64
	Number uint8
	Value  uint8
}

// Instrument is one playback channel.
type Instrument struct {
	Name     string
	Program  uint8
	Notes    []Note
	Controls []ControlEvent
}

// Score is a set of instruments plus tempo metadata.
type Score struct {
	Instruments []*Instrument
	// BPM is the estimated tempo. Zero means unknown.
	BPM float64
	// TimeSigNum is the time signature numerator. Zero means unknown.
	TimeSigNum int
}

// New returns a score with a single empty piano instrument.
func New(bpm float64) *Score {
	return &Score{
		Instruments: []*Instrument{{Program: AcousticGrandPiano}},
		BPM:         bpm,
	}
}

// Tempo returns the tempo, falling back to DefaultBPM if unknown.
func (s *Score) Tempo() float64 {
	return TempoOr(s.BPM)
}

// TempoOr returns bpm if it is a usable tempo, DefaultBPM otherwise.
func TempoOr(bpm float64) float64 {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return DefaultBPM
	}
	return bpm
}

// Meter returns the time signature numerator, falling back to DefaultTimeSigNum.
func (s *Score) Meter() int {
	if s.TimeSigNum <= 0 {
		return DefaultTimeSigNum
	}
	return s.TimeSigNum
}

// EndTime returns the latest note end of the score.
func (s *Score) EndTime() float64 {
	var end float64
	for _, inst := range s.Instruments {
		for _, n := range inst.Notes {
			end = max(end, n.End)
		}
	}
	return end
}

// NoteCount returns the number of notes over all instruments.
func (s *Score) NoteCount() int {
	var count int
	for _, inst := range s.Instruments {
		count += len(inst.Notes)
	}
	return count
}

// AllNotes returns a copy of all notes of all instruments.
func (s *Score) AllNotes() []Note {
	notes := make([]Note, 0, s.NoteCount())
	for _, inst := range s.Instruments {
		notes = append(notes, inst.Notes...)
	}
	return notes
}

// Clone returns a deep copy of the score.
func (s *Score) Clone() *Score {
	out := &Score{
		Instruments: make([]*Instrument, 0, len(s.Instruments)),
		BPM:         s.BPM,
		TimeSigNum:  s.TimeSigNum,
	}
	for _, inst := range s.Instruments {
		out.Instruments = append(out.Instruments, inst.Clone())
	}
	return out
}

// Clone returns a deep copy of the instrument.
func (inst *Instrument) Clone() *Instrument {
	return &Instrument{
		Name:     inst.Name,
		Program:  inst.Program,
		Notes:    slices.Clone(inst.Notes),
		Controls: slices.Clone(inst.Controls),
	}
}

// Sort sorts notes by start, then pitch, and controls by time.
func (inst *Instrument) Sort() {
	SortNotes(inst.Notes)
	slices.SortStableFunc(inst.Controls, func(a, b ControlEvent) int {
		return compareFloat(a.Time, b.Time)
	})
}

// SortNotes sorts by (start, pitch), keeping the relative order of equal notes.
func SortNotes(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		if c := compareFloat(a.Start, b.Start); c != 0 {
			return c
		}
		return a.Pitch - b.Pitch
	})
}

func compareFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return +1
	}
	return 0
}

// Flatten moves all notes and control events into a single piano instrument.
//
// Several stages assume one instrument per score; this is the one place that
// establishes it. The first instrument's name is kept.
func Flatten(s *Score) {
	flat := &Instrument{Program: AcousticGrandPiano}
	for i, inst := range s.Instruments {
		if i == 0 {
			flat.Name = inst.Name
		}
		flat.Notes = append(flat.Notes, inst.Notes...)
		flat.Controls = append(flat.Controls, inst.Controls...)
	}
	flat.Sort()
	s.Instruments = []*Instrument{flat}
}
