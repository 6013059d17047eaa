package processor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyscribe/keyscribe/internal/score"
)

func TestResolvePolyphonyKeepsLoudestOfCluster(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 60, Velocity: 40, Start: 0.000, End: 0.5},
		score.Note{Pitch: 62, Velocity: 90, Start: 0.002, End: 0.5},
		score.Note{Pitch: 64, Velocity: 60, Start: 0.004, End: 0.5},
		score.Note{Pitch: 65, Velocity: 110, Start: 0.006, End: 0.5},
		score.Note{Pitch: 67, Velocity: 70, Start: 0.008, End: 0.5},
	)
	ResolvePolyphony(s, PolyphonyParams{OnsetWindow: 0.03, MaxNotesPerOnset: 3})
	notes := s.Instruments[0].Notes
	require.Len(t, notes, 3)
	var pitches, velocities []int
	for _, n := range notes {
		pitches = append(pitches, n.Pitch)
		velocities = append(velocities, n.Velocity)
	}
	assert.Equal(t, []int{62, 65, 67}, pitches)
	assert.Equal(t, []int{90, 110, 70}, velocities)
}

func TestResolvePolyphonyMergesDuplicateOnsets(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 60, Velocity: 80, Start: 0, End: 0.5},
		score.Note{Pitch: 64, Velocity: 70, Start: 0.01, End: 0.5},
		score.Note{Pitch: 60, Velocity: 100, Start: 0.02, End: 0.6},
	)
	ResolvePolyphony(s, PolyphonyParams{OnsetWindow: 0.03, MaxNotesPerOnset: 3})
	notes := s.Instruments[0].Notes
	require.Len(t, notes, 2)
	assert.Equal(t, score.Note{Pitch: 60, Velocity: 100, Start: 0, End: 0.6}, notes[0])
	assert.Equal(t, 64, notes[1].Pitch)
}

func TestResolvePolyphonyKeepsDistinctRepeats(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 60, Velocity: 80, Start: 0, End: 0.1},
		score.Note{Pitch: 60, Velocity: 80, Start: 0.25, End: 0.35},
	)
	ResolvePolyphony(s, PolyphonyParams{OnsetWindow: 0.03, MaxNotesPerOnset: 3})
	assert.Len(t, s.Instruments[0].Notes, 2)
}

func TestResolvePolyphonyReleasesHeldNotes(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 48, Velocity: 80, Start: 0, End: 4},
		score.Note{Pitch: 52, Velocity: 80, Start: 1, End: 4},
		score.Note{Pitch: 55, Velocity: 80, Start: 2, End: 4},
	)
	ResolvePolyphony(s, PolyphonyParams{OnsetWindow: 0.03, MaxNotesPerOnset: 2})
	notes := s.Instruments[0].Notes
	require.Len(t, notes, 3)
	assert.Equal(t, 2.0, notes[0].End)
	assert.Equal(t, 4.0, notes[1].End)
	assert.Equal(t, 2, maxSounding(notes))
}

func TestResolvePolyphonyInvariants(t *testing.T) {
	for _, maxNotes := range []int{1, 2, 3, 4} {
		s := randomScore(rand.New(rand.NewPCG(uint64(maxNotes), 7)), 300)
		p := PolyphonyParams{OnsetWindow: 0.03, MaxNotesPerOnset: maxNotes}
		ResolvePolyphony(s, p)
		notes := s.Instruments[0].Notes

		assert.LessOrEqual(t, maxSounding(notes), maxNotes)
		for i, a := range notes {
			assert.Greater(t, a.End, a.Start)
			if i > 0 {
				assert.LessOrEqual(t, notes[i-1].Start, a.Start)
			}
			for _, b := range notes[i+1:] {
				if a.Pitch == b.Pitch {
					assert.Greater(t, b.Start-a.Start, p.OnsetWindow)
				}
			}
		}
	}
}

func TestResolvePolyphonyEmpty(t *testing.T) {
	s := pianoScore(120)
	ResolvePolyphony(s, PolyphonyParams{OnsetWindow: 0.03, MaxNotesPerOnset: 3})
	assert.Empty(t, s.Instruments[0].Notes)
}
