package processor

import (
	"github.com/rs/zerolog"

	"github.com/keyscribe/keyscribe/internal/score"
)

// dumpScore logs the shape of a score in concise form.
func dumpScore(log zerolog.Logger, prefix string, s *score.Score) {
	if e := log.Debug(); e.Enabled() {
		lo, hi := 127, 0
		pedal := 0
		for _, inst := range s.Instruments {
			for _, n := range inst.Notes {
				lo, hi = min(lo, n.Pitch), max(hi, n.Pitch)
			}
			for _, c := range inst.Controls {
				if c.Number == score.SustainPedal && c.Value >= 64 {
					pedal++
				}
			}
		}
		if lo > hi {
			lo, hi = 0, 0
		}
		e.Str("score", prefix).
			Int("instruments", len(s.Instruments)).
			Int("notes", s.NoteCount()).
			Float64("end", s.EndTime()).
			Float64("bpm", s.Tempo()).
			Int("meter", s.Meter()).
			Int("lowest", lo).
			Int("highest", hi).
			Int("pedal_downs", pedal).
			Msg("score summary")
	}
}
