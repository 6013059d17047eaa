package processor

import (
	"math"
	"math/rand/v2"

	"github.com/keyscribe/keyscribe/internal/score"
)

// smoothingKernel is a triangular local average.
var smoothingKernel = []float64{1, 2, 1}

// smoothVelocities convolves the velocity sequence with the normalized
// kernel. The sequence is zero-padded, so the first and last notes come out
// softer.
func smoothVelocities(notes []score.Note) {
	if len(notes) < len(smoothingKernel) {
		return
	}
	var total float64
	for _, w := range smoothingKernel {
		total += w
	}
	half := len(smoothingKernel) / 2
	smoothed := make([]int, len(notes))
	for i := range notes {
		var sum float64
		for k, w := range smoothingKernel {
			j := i + k - half
			if j < 0 || j >= len(notes) {
				continue
			}
			sum += w * float64(notes[j].Velocity)
		}
		smoothed[i] = clampVelocity(int(math.RoundToEven(sum / total)))
	}
	for i, v := range smoothed {
		notes[i].Velocity = v
	}
}

// jitter applies one uniform timing offset per note (keeping its duration and
// a non-negative start) and one uniform velocity offset.
func jitter(notes []score.Note, timing float64, velocity int, rng *rand.Rand) {
	for i := range notes {
		n := &notes[i]
		if timing > 0 {
			dt := (2*rng.Float64() - 1) * timing
			if n.Start+dt < 0 {
				dt = -n.Start
			}
			n.Start += dt
			n.End += dt
		}
		if velocity > 0 {
			dv := rng.IntN(2*velocity+1) - velocity
			n.Velocity = clampVelocity(n.Velocity + dv)
		}
	}
}

// Humanize smooths the velocity curve and adds bounded random jitter.
// A nil rng disables jitter.
func Humanize(s *score.Score, p HumanizeParams, rng *rand.Rand) {
	for _, inst := range s.Instruments {
		score.SortNotes(inst.Notes)
		if p.SmoothVelocity {
			smoothVelocities(inst.Notes)
		}
		if rng == nil || (p.TimingJitter <= 0 && p.VelocityJitter <= 0) {
			continue
		}
		jitter(inst.Notes, p.TimingJitter, p.VelocityJitter, rng)
		score.SortNotes(inst.Notes)
	}
}
