package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyscribe/keyscribe/internal/score"
)

func cMajorBlock() *score.Score {
	return pianoScore(120,
		score.Note{Pitch: 60, Velocity: 80, Start: 0, End: 0.25},
		score.Note{Pitch: 64, Velocity: 80, Start: 0, End: 0.25},
		score.Note{Pitch: 67, Velocity: 80, Start: 0, End: 0.25},
	)
}

func arrangeParams(style Style) ArrangeParams {
	p := DefaultConfig(ProfileBalanced).Arrange
	p.Style = style
	return p
}

func TestArrangeBlock(t *testing.T) {
	cfg := DefaultConfig(ProfileBalanced)
	out := Arrange(cMajorBlock(), 120, arrangeParams(StyleBlock), cfg.Pedal)
	require.Len(t, out.Instruments, 1)
	notes := out.Instruments[0].Notes
	require.Len(t, notes, 4)
	var pitches []int
	for _, n := range notes {
		pitches = append(pitches, n.Pitch)
		assert.Equal(t, 0.0, n.Start)
		assert.Equal(t, 0.25, n.End)
	}
	assert.Equal(t, []int{36, 55, 60, 64}, pitches)
	assert.Equal(t, blockBassVelocity, notes[0].Velocity)
	assert.Equal(t, blockTrebleVelocity, notes[1].Velocity)
	assert.NotEmpty(t, out.Instruments[0].Controls)
	assert.Equal(t, 120.0, out.BPM)
}

func TestArrangeArpeggio(t *testing.T) {
	out := Arrange(cMajorBlock(), 120, arrangeParams(StyleArpeggio), PedalParams{GapThreshold: 0.12})
	notes := out.Instruments[0].Notes
	require.Len(t, notes, 4)
	for i, want := range []int{36, 55, 60, 64} {
		assert.Equal(t, want, notes[i].Pitch)
		assert.InDelta(t, float64(i)*0.0625, notes[i].Start, 1e-12)
		assert.InDelta(t, 0.0625, notes[i].Duration(), 1e-12)
	}
}

func TestArrangeAlberti(t *testing.T) {
	out := Arrange(cMajorBlock(), 120, arrangeParams(StyleAlberti), PedalParams{GapThreshold: 0.12})
	notes := out.Instruments[0].Notes
	require.Len(t, notes, 16)
	for i, n := range notes {
		want := []int{36, 64, 55, 64}[i%4]
		assert.Equal(t, want, n.Pitch, "note %d", i)
		assert.InDelta(t, float64(i)*0.25/16, n.Start, 1e-12)
	}
}

func TestArrangeSilentBlocks(t *testing.T) {
	s := pianoScore(120,
		score.Note{Pitch: 62, Velocity: 80, Start: 0, End: 0.25},
		score.Note{Pitch: 69, Velocity: 80, Start: 0.75, End: 1.0},
	)
	out := Arrange(s, 120, arrangeParams(StyleBlock), PedalParams{GapThreshold: 0.12})
	for _, n := range out.Instruments[0].Notes {
		assert.True(t, n.Start == 0 || n.Start == 0.75, "note at %v", n.Start)
	}
	assert.Len(t, out.Instruments[0].Notes, 8)
}

func TestArrangeEmpty(t *testing.T) {
	out := Arrange(pianoScore(120), 120, arrangeParams(StyleBlock), PedalParams{})
	assert.Empty(t, out.Instruments[0].Notes)
}

func TestVoiceTriad(t *testing.T) {
	for _, tc := range []struct {
		chord Chord
		want  []int
	}{
		{triad(0, Major), []int{55, 60, 64}},
		{triad(9, Minor), []int{57, 60, 64}},
		{triad(7, Major), []int{55, 59, 62}},
		{triad(5, Major), []int{53, 57, 60}},
		{triad(4, Major), []int{56, 59, 64}},
		{triad(4, Minor), []int{55, 59, 64}},
	} {
		t.Run(tc.chord.Name(), func(t *testing.T) {
			got := voiceTriad(tc.chord, 60)
			assert.Equal(t, tc.want, got)
			for _, p := range got {
				assert.GreaterOrEqual(t, p, 60+trebleBelow)
				assert.LessOrEqual(t, p, 60+trebleAbove)
			}
		})
	}
}

func TestArrangeStaysInTrebleWindow(t *testing.T) {
	for _, pcs := range [][]int{{4, 8, 11}, {5, 9, 0}, {4, 7, 11}} {
		var notes []score.Note
		for _, pc := range pcs {
			notes = append(notes, score.Note{Pitch: 60 + pc, Velocity: 80, Start: 0, End: 0.25})
		}
		out := Arrange(pianoScore(120, notes...), 120, arrangeParams(StyleBlock), PedalParams{})
		treble := out.Instruments[0].Notes[1:]
		require.Len(t, treble, 3)
		for _, n := range treble {
			assert.GreaterOrEqual(t, n.Pitch, 60+trebleBelow, "chord %v", pcs)
			assert.LessOrEqual(t, n.Pitch, 60+trebleAbove, "chord %v", pcs)
		}
	}
}

func TestParseStyle(t *testing.T) {
	st, err := ParseStyle("Alberti")
	require.NoError(t, err)
	assert.Equal(t, StyleAlberti, st)
	st, err = ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleBlock, st)
	_, err = ParseStyle("stride")
	assert.Error(t, err)
}
