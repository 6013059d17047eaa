package file

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/keyscribe/keyscribe/internal/score"
)

func testScore() *score.Score {
	return &score.Score{
		BPM:        100,
		TimeSigNum: 3,
		Instruments: []*score.Instrument{
			{
				Program: 5,
				Notes: []score.Note{
					{Pitch: 60, Velocity: 90, Start: 0, End: 0.6},
					{Pitch: 64, Velocity: 70, Start: 0, End: 0.3},
					{Pitch: 60, Velocity: 80, Start: 0.6, End: 1.2},
				},
				Controls: []score.ControlEvent{
					{Time: 0, Number: score.SustainPedal, Value: score.PedalDown},
					{Time: 1.2, Number: score.SustainPedal, Value: score.PedalUp},
				},
			},
			{
				Notes: []score.Note{{Pitch: 36, Velocity: 100, Start: 0.3, End: 0.9}},
			},
		},
	}
}

func TestScoreRoundTrip(t *testing.T) {
	in := testScore()
	var buf bytes.Buffer
	require.NoError(t, WriteScore(&buf, in))

	out, err := ReadScore(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 100, out.BPM, 1e-6)
	assert.Equal(t, 3, out.TimeSigNum)
	require.Len(t, out.Instruments, 2)
	for i, inst := range out.Instruments {
		want := in.Instruments[i]
		assert.Equal(t, uint8(score.AcousticGrandPiano), inst.Program)
		require.Len(t, inst.Notes, len(want.Notes))
		for j, n := range inst.Notes {
			assert.Equal(t, want.Notes[j].Pitch, n.Pitch)
			assert.Equal(t, want.Notes[j].Velocity, n.Velocity)
			assert.InDelta(t, want.Notes[j].Start, n.Start, 1e-6)
			assert.InDelta(t, want.Notes[j].End, n.End, 1e-6)
		}
		require.Len(t, inst.Controls, len(want.Controls))
		for j, c := range inst.Controls {
			assert.Equal(t, want.Controls[j].Number, c.Number)
			assert.Equal(t, want.Controls[j].Value, c.Value)
			assert.InDelta(t, want.Controls[j].Time, c.Time, 1e-6)
		}
	}
}

func TestWriteScoreFileRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.mid")
	require.NoError(t, WriteScoreFile(name, testScore()))
	out, err := ReadScoreFile(name)
	require.NoError(t, err)
	assert.Equal(t, 4, out.NoteCount())
}

func TestReadScoreTempoMap(t *testing.T) {
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(480)
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, midi.NoteOn(0, 60, 100))
	track.Add(480, midi.NoteOff(0, 60))
	track.Add(0, smf.MetaTempo(60))
	track.Add(0, midi.NoteOn(0, 62, 100))
	track.Add(480, midi.NoteOff(0, 62))
	track.Close(0)
	require.NoError(t, mid.Add(track))
	var buf bytes.Buffer
	_, err := mid.WriteTo(&buf)
	require.NoError(t, err)

	s, err := ReadScore(&buf)
	require.NoError(t, err)
	assert.Equal(t, 120.0, s.BPM)
	notes := s.Instruments[0].Notes
	require.Len(t, notes, 2)
	assert.InDelta(t, 0.5, notes[0].End, 1e-6)
	assert.InDelta(t, 0.5, notes[1].Start, 1e-6)
	assert.InDelta(t, 1.5, notes[1].End, 1e-6)
}

func TestReadScoreClosesHangingNotes(t *testing.T) {
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(480)
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, midi.NoteOn(0, 60, 100))
	track.Add(960, midi.NoteOn(0, 64, 100))
	track.Close(480)
	require.NoError(t, mid.Add(track))
	var buf bytes.Buffer
	_, err := mid.WriteTo(&buf)
	require.NoError(t, err)

	s, err := ReadScore(&buf)
	require.NoError(t, err)
	notes := s.Instruments[0].Notes
	// The note started on the last event has no length and is dropped.
	require.Len(t, notes, 1)
	assert.InDelta(t, 1.0, notes[0].End, 1e-6)
}

func TestReadScoreGarbage(t *testing.T) {
	_, err := ReadScore(bytes.NewReader([]byte("not a midi file")))
	assert.Error(t, err)
}

func TestReadScoreFileMissing(t *testing.T) {
	_, err := ReadScoreFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChannelFor(t *testing.T) {
	assert.Equal(t, uint8(0), channelFor(0))
	assert.Equal(t, uint8(8), channelFor(8))
	assert.Equal(t, uint8(10), channelFor(9))
	assert.Equal(t, uint8(15), channelFor(14))
	assert.Equal(t, uint8(0), channelFor(15))
}
