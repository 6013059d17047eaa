package processor

import (
	"math"
	"math/rand/v2"

	"github.com/keyscribe/keyscribe/internal/score"
)

var (
	accentsDuple  = []int{16, 4, 10, 4}
	accentsTriple = []int{14, 4, 6}
)

const (
	performVelocityScale = 0.9
	registerCompensation = -0.08
	legatoOverlap        = 0.04
	legatoMargin         = 0.005
)

// beatAccent returns the velocity accent of a note starting at t.
func beatAccent(t, beat float64, meter int) int {
	accents := accentsDuple
	if meter == 3 {
		accents = accentsTriple
	}
	if beat <= 0 {
		return accents[0]
	}
	i := int(math.Floor(t/beat + 1e-9))
	return accents[i%len(accents)]
}

// legato extends the end of a note towards the next onset when the gap to it
// is shorter than maxGap. Notes are never shortened.
func legato(notes []score.Note, maxGap float64) {
	for i := 0; i+1 < len(notes); i++ {
		n, next := &notes[i], notes[i+1]
		gap := next.Start - n.End
		if gap <= 0 || gap >= maxGap {
			continue
		}
		end := min(n.End+(legatoOverlap-gap), next.Start-legatoMargin)
		n.End = max(n.End, end)
	}
}

// Perform renders a plain score expressively: beat accents, softer high
// register, random velocity and timing deviations, legato over short gaps
// and sustain pedal. A nil rng disables the random deviations.
func Perform(s *score.Score, p PerformParams, rng *rand.Rand) {
	beat := 60.0 / s.Tempo()
	meter := s.Meter()
	for _, inst := range s.Instruments {
		score.SortNotes(inst.Notes)
		for i := range inst.Notes {
			n := &inst.Notes[i]
			v := float64(n.Velocity)*performVelocityScale +
				float64(beatAccent(n.Start, beat, meter)) +
				math.Round(registerCompensation*float64(n.Pitch-60))
			if rng != nil && p.VelocityJitter > 0 {
				v += float64(rng.IntN(2*p.VelocityJitter+1) - p.VelocityJitter)
			}
			n.Velocity = clampVelocity(int(v))
		}
		if rng != nil && p.TimingJitter > 0 {
			jitter(inst.Notes, p.TimingJitter, 0, rng)
			score.SortNotes(inst.Notes)
		}
		legato(inst.Notes, p.LegatoGap)
	}
	if p.Sustain {
		SynthesizePedal(s, PedalParams{Enabled: true, GapThreshold: p.GapThreshold, Lead: p.PedalLead})
	}
}
