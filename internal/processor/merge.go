package processor

import (
	"slices"

	"github.com/keyscribe/keyscribe/internal/score"
)

// MergeScores unions the notes of two scores of the same performance into a
// new single-instrument score. A note that has the same pitch as an already
// kept note and starts within the dedup window of it is a duplicate; the
// longer of the two survives, ties going to the louder one.
//
// Control events are not carried over; pedalling is synthesized afterwards.
func MergeScores(a, b *score.Score, p MergeParams) *score.Score {
	notes := append(a.AllNotes(), b.AllNotes()...)
	slices.SortStableFunc(notes, func(x, y score.Note) int {
		if c := compareFloat(x.Start, y.Start); c != 0 {
			return c
		}
		if x.Pitch != y.Pitch {
			return x.Pitch - y.Pitch
		}
		return y.Velocity - x.Velocity
	})

	var kept []score.Note
	lastByPitch := map[int]int{}
	for _, n := range notes {
		i, ok := lastByPitch[n.Pitch]
		if ok && n.Start-kept[i].Start <= p.DedupWindow {
			k := kept[i]
			if n.Duration() > k.Duration() || (n.Duration() == k.Duration() && n.Velocity > k.Velocity) {
				kept[i] = n
			}
			continue
		}
		lastByPitch[n.Pitch] = len(kept)
		kept = append(kept, n)
	}
	score.SortNotes(kept)

	bpm := a.BPM
	if score.TempoOr(bpm) != bpm {
		bpm = b.BPM
	}
	out := score.New(bpm)
	out.TimeSigNum = a.TimeSigNum
	if out.TimeSigNum == 0 {
		out.TimeSigNum = b.TimeSigNum
	}
	out.Instruments[0].Notes = kept
	return out
}

// MergeAll folds MergeScores over any number of scores.
func MergeAll(p MergeParams, scores ...*score.Score) *score.Score {
	if len(scores) == 0 {
		return score.New(0)
	}
	out := scores[0]
	if len(scores) == 1 {
		return MergeScores(out, &score.Score{}, p)
	}
	for _, s := range scores[1:] {
		out = MergeScores(out, s, p)
	}
	return out
}
