package processor

import (
	"github.com/keyscribe/keyscribe/internal/score"
)

// prune drops notes whose pitch class has too little chroma support over the
// span of the note. Support is the mean energy normalized by the profile
// maximum.
func prune(s *score.Score, chroma *ChromaProfile, threshold float64) int {
	cmax := chroma.Max()
	dropped := 0
	for _, inst := range s.Instruments {
		kept := inst.Notes[:0]
		for _, n := range inst.Notes {
			i0 := chroma.FrameAt(n.Start)
			i1 := max(i0+1, chroma.FrameAt(n.End))
			support := chroma.MeanEnergy(n.PitchClass(), i0, i1) / cmax
			if support < threshold {
				dropped++
				continue
			}
			kept = append(kept, n)
		}
		inst.Notes = kept
	}
	return dropped
}

// fill adds short notes for pitch classes that are strongly present in the
// audio but missing from the score, one sixteenth block at a time, keeping
// each block at no more than MaxPoly pitch classes.
func fill(s *score.Score, chroma *ChromaProfile, bpm float64, p RefineParams) []score.Note {
	cmax := chroma.Max()
	var additions []score.Note
	forEachBlock(s.EndTime(), gridSeconds(bpm, 4), func(t0, t1 float64) {
		active := map[int]bool{}
		for _, pc := range activePitchClasses(s, t0, t1) {
			active[pc] = true
		}
		ci := chroma.FrameAt(t0 + 0.5*(t1-t0))
		var peak float64
		for pc := 0; pc < 12; pc++ {
			peak = max(peak, chroma.Energy(ci, pc))
		}
		threshold := p.PeakFraction * peak
		var toAdd []int
		for pc := 0; pc < 12; pc++ {
			v := chroma.Energy(ci, pc)
			if v < threshold || v/cmax < p.AbsoluteThreshold {
				continue
			}
			if len(active)+len(toAdd) >= p.MaxPoly {
				break
			}
			if !active[pc] {
				toAdd = append(toAdd, pc)
			}
		}
		for _, pc := range toAdd {
			additions = append(additions, score.Note{
				Pitch:    clamp(placeNear(pc, p.FillCenter, -7, 9), 0, 127),
				Velocity: clampVelocity(p.FillVelocity),
				Start:    t0,
				End:      t1,
			})
		}
	})
	return additions
}

// RefineStats reports what Refine changed.
type RefineStats struct {
	Pruned int
	Filled int
}

// Refine uses the chroma profile of the source audio to drop notes the audio
// does not support and to add notes it clearly does, then resolves polyphony
// again with the MaxPoly cap. An empty profile leaves the score unchanged.
func Refine(s *score.Score, chroma *ChromaProfile, bpm float64, p RefineParams, poly PolyphonyParams) RefineStats {
	var stats RefineStats
	if chroma == nil || chroma.Len() == 0 {
		return stats
	}
	stats.Pruned = prune(s, chroma, p.SupportThreshold)

	additions := fill(s, chroma, score.TempoOr(bpm), p)
	stats.Filled = len(additions)
	if len(additions) == 0 {
		return stats
	}
	if len(s.Instruments) == 0 {
		s.Instruments = append(s.Instruments, &score.Instrument{Program: score.AcousticGrandPiano})
	}
	first := s.Instruments[0]
	first.Notes = append(first.Notes, additions...)
	score.SortNotes(first.Notes)
	poly.MaxNotesPerOnset = p.MaxPoly
	ResolvePolyphony(s, poly)
	return stats
}
