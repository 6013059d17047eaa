package score

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformed classifies scores rejected at ingestion.
var ErrMalformed = errors.New("malformed score")

// MalformedError describes the first invalid note or event of a score.
type MalformedError struct {
	Instrument int
	// Note is the note index, or -1 if a control event is at fault.
	Note   int
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Note < 0 {
		return fmt.Sprintf("malformed score: instrument %d: %s", e.Instrument, e.Reason)
	}
	return fmt.Sprintf("malformed score: instrument %d note %d: %s", e.Instrument, e.Note, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate checks the invariants a score must satisfy when handed over by a
// transcription step. Invalid scores are rejected rather than repaired.
func Validate(s *Score) error {
	if s == nil {
		return &MalformedError{Instrument: -1, Note: -1, Reason: "nil score"}
	}
	for i, inst := range s.Instruments {
		if inst == nil {
			return &MalformedError{Instrument: i, Note: -1, Reason: "nil instrument"}
		}
		for j, n := range inst.Notes {
			switch {
			case n.Pitch < 0 || n.Pitch > 127:
				return &MalformedError{Instrument: i, Note: j, Reason: fmt.Sprintf("pitch %d out of range [0,127]", n.Pitch)}
			case n.Velocity < 1 || n.Velocity > 127:
				return &MalformedError{Instrument: i, Note: j, Reason: fmt.Sprintf("velocity %d out of range [1,127]", n.Velocity)}
			case !finite(n.Start) || !finite(n.End):
				return &MalformedError{Instrument: i, Note: j, Reason: "non-finite time"}
			case n.Start < 0:
				return &MalformedError{Instrument: i, Note: j, Reason: fmt.Sprintf("negative start %v", n.Start)}
			case n.End <= n.Start:
				return &MalformedError{Instrument: i, Note: j, Reason: fmt.Sprintf("end %v not after start %v", n.End, n.Start)}
			}
		}
		for _, c := range inst.Controls {
			if !finite(c.Time) || c.Time < 0 {
				return &MalformedError{Instrument: i, Note: -1, Reason: fmt.Sprintf("control event at invalid time %v", c.Time)}
			}
			if c.Number > 127 || c.Value > 127 {
				return &MalformedError{Instrument: i, Note: -1, Reason: "control event out of 7-bit range"}
			}
		}
	}
	return nil
}
