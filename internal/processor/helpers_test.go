package processor

import (
	"math/rand/v2"

	"github.com/keyscribe/keyscribe/internal/score"
)

func pianoScore(bpm float64, notes ...score.Note) *score.Score {
	s := score.New(bpm)
	s.Instruments[0].Notes = notes
	return s
}

// randomScore returns a dense, unordered single-instrument score.
func randomScore(rng *rand.Rand, n int) *score.Score {
	var notes []score.Note
	for range n {
		start := rng.Float64() * 8
		notes = append(notes, score.Note{
			Pitch:    30 + rng.IntN(70),
			Velocity: 1 + rng.IntN(127),
			Start:    start,
			End:      start + 0.01 + rng.Float64()*1.5,
		})
	}
	return pianoScore(120, notes...)
}

// maxSounding returns the largest number of notes with start <= t < end over
// all note onsets t.
func maxSounding(notes []score.Note) int {
	most := 0
	for _, at := range notes {
		count := 0
		for _, n := range notes {
			if n.Start <= at.Start && at.Start < n.End {
				count++
			}
		}
		most = max(most, count)
	}
	return most
}
