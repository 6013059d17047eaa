package processor

import (
	"math"

	"github.com/keyscribe/keyscribe/internal/score"
)

// gridSeconds returns the length of one grid step, or 0 if subdivision is disabled.
func gridSeconds(bpm float64, subdivision int) float64 {
	if subdivision <= 0 {
		return 0
	}
	return 60.0 / score.TempoOr(bpm) / float64(subdivision)
}

// quantizeTime snaps x to the nearest multiple of grid. Ties round to even.
func quantizeTime(x, grid float64) float64 {
	if grid <= 0 {
		return x
	}
	return math.RoundToEven(x/grid) * grid
}

// Quantize snaps note times to the tempo grid, enforces a minimum note length
// and clamps pitch. Notes are modified in place and not reordered.
func Quantize(s *score.Score, bpm float64, p QuantizeParams) {
	grid := gridSeconds(bpm, p.Subdivision)
	for _, inst := range s.Instruments {
		inst.Program = score.AcousticGrandPiano
		for i := range inst.Notes {
			n := &inst.Notes[i]
			n.Pitch = clamp(n.Pitch, p.PitchMin, p.PitchMax)
			if grid > 0 {
				n.Start = quantizeTime(n.Start, grid)
				n.End = quantizeTime(n.End, grid)
				if n.End <= n.Start {
					n.End = n.Start + grid
				}
			}
			if n.End-n.Start < p.MinDuration {
				n.End = n.Start + p.MinDuration
			}
		}
	}
}
