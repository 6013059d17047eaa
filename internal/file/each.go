package file

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// timedEvent is a message of a track at an absolute tick.
type timedEvent struct {
	Tick  int64
	Track int
	Msg   smf.Message
}

// mergeTracks returns the events of all tracks in time order. On equal ticks,
// note ends come before anything else, and otherwise lower tracks come first.
// End of track markers are dropped.
func mergeTracks(mid *smf.SMF) []timedEvent {
	var events []timedEvent
	// pos is the index of the NEXT event of each track.
	pos := make([]int, len(mid.Tracks))
	// tick is the time of the LAST event of each track.
	tick := make([]int64, len(mid.Tracks))
	for {
		next := -1
		var nextTick int64
		var nextOff bool
		for i, t := range mid.Tracks {
			if pos[i] >= len(t) {
				continue
			}
			at := tick[i] + int64(t[pos[i]].Delta)
			off := t[pos[i]].Message.GetNoteEnd(nil, nil)
			if next < 0 || at < nextTick || (at == nextTick && off && !nextOff) {
				next, nextTick, nextOff = i, at, off
			}
		}
		if next < 0 {
			return events
		}
		msg := mid.Tracks[next][pos[next]].Message
		if !msg.Is(smf.MetaEndOfTrackMsg) {
			events = append(events, timedEvent{Tick: nextTick, Track: next, Msg: msg})
		}
		pos[next]++
		tick[next] = nextTick
	}
}
