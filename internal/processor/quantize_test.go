package processor

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyscribe/keyscribe/internal/score"
)

func sixteenths() QuantizeParams {
	return QuantizeParams{Subdivision: 4, MinDuration: 0.05, PitchMin: 21, PitchMax: 108}
}

func TestQuantizeSnapsToGrid(t *testing.T) {
	s := pianoScore(120, score.Note{Pitch: 60, Velocity: 100, Start: 0.103, End: 0.245})
	Quantize(s, 120, sixteenths())
	n := s.Instruments[0].Notes[0]
	assert.InDelta(t, 0.125, n.Start, 1e-12)
	assert.InDelta(t, 0.25, n.End, 1e-12)
	assert.Equal(t, 100, n.Velocity)
}

func TestQuantizeGridAlignment(t *testing.T) {
	s := randomScore(rand.New(rand.NewPCG(1, 2)), 200)
	Quantize(s, 120, sixteenths())
	for _, n := range s.Instruments[0].Notes {
		assert.InDelta(t, 0, math.Remainder(n.Start, 0.125), 1e-9)
		assert.InDelta(t, 0, math.Remainder(n.End, 0.125), 1e-9)
		assert.Greater(t, n.End, n.Start)
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	once := randomScore(rand.New(rand.NewPCG(3, 4)), 200)
	Quantize(once, 120, sixteenths())
	twice := once.Clone()
	Quantize(twice, 120, sixteenths())
	require.Equal(t, len(once.Instruments[0].Notes), len(twice.Instruments[0].Notes))
	for i, n := range once.Instruments[0].Notes {
		m := twice.Instruments[0].Notes[i]
		assert.Equal(t, n.Pitch, m.Pitch)
		assert.InDelta(t, n.Start, m.Start, 1e-9)
		assert.InDelta(t, n.End, m.End, 1e-9)
	}
}

func TestQuantizeCollapsedNoteGetsOneStep(t *testing.T) {
	s := pianoScore(120, score.Note{Pitch: 60, Velocity: 100, Start: 0.26, End: 0.28})
	Quantize(s, 120, sixteenths())
	n := s.Instruments[0].Notes[0]
	assert.InDelta(t, 0.25, n.Start, 1e-12)
	assert.InDelta(t, 0.375, n.End, 1e-12)
}

func TestQuantizeWithoutGrid(t *testing.T) {
	p := sixteenths()
	p.Subdivision = 0
	s := pianoScore(120, score.Note{Pitch: 60, Velocity: 100, Start: 0.103, End: 0.11})
	Quantize(s, 120, p)
	n := s.Instruments[0].Notes[0]
	assert.Equal(t, 0.103, n.Start)
	assert.InDelta(t, 0.153, n.End, 1e-12)
}

func TestQuantizeClampsPitchAndProgram(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 5, Velocity: 100, Start: 0, End: 0.5},
		score.Note{Pitch: 120, Velocity: 100, Start: 0, End: 0.5})
	s.Instruments[0].Program = 40
	Quantize(s, 120, sixteenths())
	assert.Equal(t, uint8(score.AcousticGrandPiano), s.Instruments[0].Program)
	assert.Equal(t, 21, s.Instruments[0].Notes[0].Pitch)
	assert.Equal(t, 108, s.Instruments[0].Notes[1].Pitch)
}

func TestQuantizeUnknownTempo(t *testing.T) {
	s := pianoScore(0, score.Note{Pitch: 60, Velocity: 100, Start: 0.103, End: 0.245})
	Quantize(s, math.NaN(), sixteenths())
	assert.InDelta(t, 0.125, s.Instruments[0].Notes[0].Start, 1e-12)
}
