package processor

import (
	"slices"

	"github.com/keyscribe/keyscribe/internal/score"
)

// ResolvePolyphony merges near-identical onsets of the same pitch and caps the
// number of notes per onset cluster and per instant.
func ResolvePolyphony(s *score.Score, p PolyphonyParams) {
	for _, inst := range s.Instruments {
		if len(inst.Notes) == 0 {
			continue
		}
		notes := slices.Clone(inst.Notes)
		slices.SortStableFunc(notes, func(a, b score.Note) int {
			if c := compareFloat(a.Start, b.Start); c != 0 {
				return c
			}
			if a.Velocity != b.Velocity {
				return b.Velocity - a.Velocity
			}
			return a.Pitch - b.Pitch
		})
		merged := mergeDuplicateOnsets(notes, p.OnsetWindow)
		capped := capOnsetClusters(merged, p.OnsetWindow, p.MaxNotesPerOnset)
		releaseExcess(capped, p.MaxNotesPerOnset)
		inst.Notes = capped
	}
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

// mergeDuplicateOnsets folds a note into the last kept note of the same pitch
// if it starts within window of it. Input must be sorted by start.
func mergeDuplicateOnsets(notes []score.Note, window float64) []score.Note {
	var kept []score.Note
	lastByPitch := map[int]int{}
	for _, n := range notes {
		if i, ok := lastByPitch[n.Pitch]; ok && n.Start-kept[i].Start <= window {
			kept[i].End = max(kept[i].End, n.End)
			kept[i].Velocity = max(kept[i].Velocity, n.Velocity)
			continue
		}
		lastByPitch[n.Pitch] = len(kept)
		kept = append(kept, n)
	}
	return kept
}

// capOnsetClusters keeps the strongest maxNotes of every onset cluster.
// A cluster is a run of notes starting within window of its first note.
func capOnsetClusters(notes []score.Note, window float64, maxNotes int) []score.Note {
	if maxNotes <= 0 {
		return slices.Clone(notes)
	}
	var result []score.Note
	for i := 0; i < len(notes); {
		j := i + 1
		for j < len(notes) && notes[j].Start-notes[i].Start <= window {
			j++
		}
		group := slices.Clone(notes[i:j])
		if len(group) > maxNotes {
			slices.SortStableFunc(group, func(a, b score.Note) int {
				if a.Velocity != b.Velocity {
					return b.Velocity - a.Velocity
				}
				return b.Pitch - a.Pitch
			})
			group = group[:maxNotes]
		}
		score.SortNotes(group)
		result = append(result, group...)
		i = j
	}
	return result
}

// releaseExcess ends still-sounding notes early so that no more than maxNotes
// sound at any instant. The oldest sounding note is released at the onset of
// the note that would exceed the cap. Notes must be in chronological order
// with every onset cluster already capped.
func releaseExcess(notes []score.Note, maxNotes int) {
	if maxNotes <= 0 {
		return
	}
	var active []int
	for i := range notes {
		start := notes[i].Start
		active = slices.DeleteFunc(active, func(k int) bool {
			return notes[k].End <= start
		})
		for len(active) >= maxNotes {
			oldest := 0
			for a := 1; a < len(active); a++ {
				if notes[active[a]].Start < notes[active[oldest]].Start {
					oldest = a
				}
			}
			k := active[oldest]
			if notes[k].Start >= start {
				// Only notes of the current cluster are left; cannot happen
				// once clusters are capped.
				break
			}
			notes[k].End = start
			active = slices.Delete(active, oldest, oldest+1)
		}
		active = append(active, i)
	}
}
