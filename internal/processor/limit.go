package processor

import (
	"github.com/keyscribe/keyscribe/internal/score"
)

// LimitRange drops notes shorter than the minimum duration and clamps the pitch
// of the remaining ones into range.
func LimitRange(s *score.Score, p RangeParams) {
	for _, inst := range s.Instruments {
		kept := inst.Notes[:0]
		for _, n := range inst.Notes {
			if n.Duration() < p.MinDuration {
				continue
			}
			n.Pitch = clamp(n.Pitch, p.PitchMin, p.PitchMax)
			kept = append(kept, n)
		}
		inst.Notes = kept
	}
}
