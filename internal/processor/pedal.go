package processor

import (
	"slices"

	"github.com/keyscribe/keyscribe/internal/score"
)

// SynthesizePedal inserts sustain pedal events: the pedal rides through dense
// passages and is lifted across gaps longer than the threshold. This is a
// note-density heuristic; it does not look at the audio.
//
// Existing sustain events of an instrument are replaced.
func SynthesizePedal(s *score.Score, p PedalParams) {
	for _, inst := range s.Instruments {
		inst.Controls = slices.DeleteFunc(inst.Controls, func(c score.ControlEvent) bool {
			return c.Number == score.SustainPedal
		})
		if len(inst.Notes) == 0 {
			continue
		}
		score.SortNotes(inst.Notes)
		var events []score.ControlEvent
		first := true
		var lastEnd float64
		for _, n := range inst.Notes {
			if first || n.Start-lastEnd > p.GapThreshold {
				events = append(events,
					score.ControlEvent{Time: max(0, n.Start-p.Lead), Number: score.SustainPedal, Value: score.PedalUp},
					score.ControlEvent{Time: n.Start, Number: score.SustainPedal, Value: score.PedalDown})
			}
			if first {
				lastEnd = n.End
				first = false
			} else {
				lastEnd = max(lastEnd, n.End)
			}
		}
		events = append(events, score.ControlEvent{Time: lastEnd, Number: score.SustainPedal, Value: score.PedalUp})
		inst.Controls = append(inst.Controls, events...)
		inst.Sort()
	}
}
