package processor

import (
	"github.com/keyscribe/keyscribe/internal/score"
)

// minTrimmedLength is the shortest a note clipped at the window end may become.
const minTrimmedLength = 0.01

// Trim cuts the window [start, start+duration) out of a score. Notes that
// overlap the window are kept, shifted so the window begins at 0 and clipped
// at its end. Control events at the window end are kept so a final pedal
// release survives. A non-positive duration means until the end of the score.
func Trim(s *score.Score, start, duration float64) *score.Score {
	start = max(0, start)
	end := s.EndTime()
	if duration > 0 {
		end = min(end, start+duration)
	}
	out := &score.Score{BPM: s.BPM, TimeSigNum: s.TimeSigNum}
	for _, inst := range s.Instruments {
		trimmed := &score.Instrument{Name: inst.Name, Program: inst.Program}
		for _, n := range inst.Notes {
			if n.End <= start || n.Start >= end {
				continue
			}
			n.Start = max(0, n.Start-start)
			n.End = max(n.Start+minTrimmedLength, min(n.End, end)-start)
			trimmed.Notes = append(trimmed.Notes, n)
		}
		for _, c := range inst.Controls {
			if c.Time < start || c.Time > end {
				continue
			}
			c.Time -= start
			trimmed.Controls = append(trimmed.Controls, c)
		}
		trimmed.Sort()
		out.Instruments = append(out.Instruments, trimmed)
	}
	return out
}
