package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyscribe/keyscribe/internal/score"
)

// cAndEChroma is two seconds of audio with a strong C and a weaker E.
func cAndEChroma() *ChromaProfile {
	frames := make([][12]float64, 20)
	for i := range frames {
		frames[i][0] = 1
		frames[i][4] = 0.8
		frames[i][7] = 0.1
	}
	return NewChromaProfile(0.1, frames)
}

func refineParams() (RefineParams, PolyphonyParams) {
	cfg := DefaultConfig(ProfileAccurate)
	cfg.Refine.MaxPoly = 3
	return cfg.Refine, cfg.Polyphony
}

func TestRefinePrunesUnsupportedNotes(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 60, Velocity: 90, Start: 0, End: 1},
		score.Note{Pitch: 66, Velocity: 90, Start: 0, End: 1},
	)
	p, poly := refineParams()
	p.MaxPoly = 1
	stats := Refine(s, cAndEChroma(), 120, p, poly)
	assert.Equal(t, 1, stats.Pruned)
	assert.Equal(t, 0, stats.Filled)
	require.Len(t, s.Instruments[0].Notes, 1)
	assert.Equal(t, 60, s.Instruments[0].Notes[0].Pitch)
}

func TestRefineFillsStrongPitchClasses(t *testing.T) {
	s := pianoScore(120, score.Note{Pitch: 60, Velocity: 90, Start: 0, End: 1})
	p, poly := refineParams()
	stats := Refine(s, cAndEChroma(), 120, p, poly)
	assert.Equal(t, 0, stats.Pruned)
	assert.Equal(t, 8, stats.Filled)

	notes := s.Instruments[0].Notes
	require.Len(t, notes, 9)
	var fillers int
	for _, n := range notes {
		if n.Pitch == 60 {
			continue
		}
		fillers++
		assert.Equal(t, 64, n.Pitch)
		assert.Equal(t, p.FillVelocity, n.Velocity)
		assert.InDelta(t, 0.125, n.Duration(), 1e-12)
	}
	assert.Equal(t, 8, fillers)
	assert.LessOrEqual(t, maxSounding(notes), p.MaxPoly)
}

func TestRefineIgnoresWeakPitchClasses(t *testing.T) {
	s := pianoScore(120, score.Note{Pitch: 60, Velocity: 90, Start: 0, End: 0.25})
	p, poly := refineParams()
	p.AbsoluteThreshold = 0.9
	stats := Refine(s, cAndEChroma(), 120, p, poly)
	assert.Equal(t, 0, stats.Filled)
	assert.Len(t, s.Instruments[0].Notes, 1)
}

func TestRefineEmptyChromaIsNoop(t *testing.T) {
	s := pianoScore(120, score.Note{Pitch: 66, Velocity: 90, Start: 0, End: 1})
	before := s.Clone()
	p, poly := refineParams()
	Refine(s, &ChromaProfile{}, 120, p, poly)
	assert.Equal(t, before, s)
	Refine(s, nil, 120, p, poly)
	assert.Equal(t, before, s)
}

func TestRefineEmptyScore(t *testing.T) {
	s := &score.Score{BPM: 120}
	p, poly := refineParams()
	stats := Refine(s, cAndEChroma(), 120, p, poly)
	assert.Equal(t, RefineStats{}, stats)
	assert.Empty(t, s.Instruments)
}
