package file

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/keyscribe/keyscribe/internal/score"
)

// ReadScore parses a Standard MIDI File into a score, one instrument per
// track that has notes or controls. Times are converted to seconds through
// the file's tempo map. The result is validated.
func ReadScore(r io.Reader) (*score.Score, error) {
	mid, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse MIDI: %w", err)
	}
	if _, ok := mid.TimeFormat.(smf.MetricTicks); !ok {
		return nil, fmt.Errorf("unsupported MIDI time format %v", mid.TimeFormat)
	}
	events := mergeTracks(mid)
	s := &score.Score{}
	s.BPM, s.TimeSigNum = readMeta(events)

	seconds := func(tick int64) float64 {
		return float64(mid.TimeAt(tick)) / 1e6
	}
	tracker := newNoteTracker()
	names := make([]string, len(mid.Tracks))
	programs := make([]uint8, len(mid.Tracks))
	controls := make([][]score.ControlEvent, len(mid.Tracks))
	var lastTick int64
	for _, ev := range events {
		lastTick = ev.Tick
		var ch, note, velocity, controller, value, program uint8
		var name string
		switch {
		case ev.Msg.GetNoteStart(&ch, &note, &velocity):
			tracker.Start(key{ev.Track, ch, note}, seconds(ev.Tick), velocity)
		case ev.Msg.GetNoteEnd(&ch, &note):
			tracker.End(key{ev.Track, ch, note}, seconds(ev.Tick))
		case ev.Msg.GetControlChange(&ch, &controller, &value):
			controls[ev.Track] = append(controls[ev.Track], score.ControlEvent{
				Time:   seconds(ev.Tick),
				Number: controller,
				Value:  value,
			})
		case ev.Msg.GetProgramChange(&ch, &program):
			programs[ev.Track] = program
		case ev.Msg.GetMetaTrackName(&name):
			names[ev.Track] = name
		}
	}
	tracker.Close(seconds(lastTick))

	for i := range mid.Tracks {
		notes := tracker.Notes(i)
		if len(notes) == 0 && len(controls[i]) == 0 {
			continue
		}
		inst := &score.Instrument{
			Name:     names[i],
			Program:  programs[i],
			Notes:    notes,
			Controls: controls[i],
		}
		inst.Sort()
		s.Instruments = append(s.Instruments, inst)
	}
	if err := score.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadScoreFile reads a MIDI file from disk.
func ReadScoreFile(name string) (*score.Score, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", name, err)
	}
	defer f.Close()
	s, err := ReadScore(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", name, err)
	}
	return s, nil
}

// channelFor maps instrument i to a MIDI channel, skipping the drum channel.
func channelFor(i int) uint8 {
	ch := uint8(i % 15)
	if ch >= 9 {
		ch++
	}
	return ch
}

type tickEvent struct {
	tick int64
	msg  smf.Message
}

func buildTrack(inst *score.Instrument, ch uint8, bpm float64) smf.Track {
	events := []tickEvent{{0, smf.Message(midi.ProgramChange(ch, score.AcousticGrandPiano))}}
	if inst.Name != "" {
		events = append([]tickEvent{{0, smf.MetaTrackSequenceName(inst.Name)}}, events...)
	}
	for _, c := range inst.Controls {
		events = append(events, tickEvent{secondsToTicks(c.Time, bpm), smf.Message(midi.ControlChange(ch, c.Number, c.Value))})
	}
	for _, n := range inst.Notes {
		start := secondsToTicks(n.Start, bpm)
		end := max(start+1, secondsToTicks(n.End, bpm))
		events = append(events,
			tickEvent{start, smf.Message(midi.NoteOn(ch, uint8(n.Pitch), uint8(n.Velocity)))},
			tickEvent{end, smf.Message(midi.NoteOff(ch, uint8(n.Pitch)))})
	}
	slices.SortStableFunc(events, func(a, b tickEvent) int {
		return int(a.tick - b.tick)
	})

	var track smf.Track
	var prev int64
	for _, ev := range events {
		track.Add(uint32(ev.tick-prev), ev.msg)
		prev = ev.tick
	}
	sortNoteOffFirst(track)
	track.Close(0)
	return track
}

// WriteScore writes a score as a type 1 Standard MIDI File: a tempo track
// carrying the tempo and meter, then one track per instrument, all programs
// set to acoustic grand piano.
func WriteScore(w io.Writer, s *score.Score) error {
	bpm := s.Tempo()
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var meta smf.Track
	meta.Add(0, smf.MetaMeter(uint8(s.Meter()), 4))
	meta.Add(0, smf.MetaTempo(bpm))
	meta.Close(0)
	if err := mid.Add(meta); err != nil {
		return fmt.Errorf("could not add tempo track: %w", err)
	}
	for i, inst := range s.Instruments {
		if err := mid.Add(buildTrack(inst, channelFor(i), bpm)); err != nil {
			return fmt.Errorf("could not add track %d: %w", i, err)
		}
	}
	if _, err := mid.WriteTo(w); err != nil {
		return fmt.Errorf("could not encode MIDI: %w", err)
	}
	return nil
}

// WriteScoreFile writes a MIDI file to disk.
func WriteScoreFile(name string, s *score.Score) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", name, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return WriteScore(f, s)
}
