package file

import (
	"github.com/keyscribe/keyscribe/internal/score"
)

type key struct {
	track   int
	ch, key uint8
}

type openNote struct {
	start    float64
	velocity uint8
}

// noteTracker pairs note starts with note ends. Repeated starts of a sounding
// key are stacked and ended first in, first out.
type noteTracker struct {
	active map[key][]openNote
	notes  map[int][]score.Note
}

func newNoteTracker() *noteTracker {
	return &noteTracker{
		active: map[key][]openNote{},
		notes:  map[int][]score.Note{},
	}
}

func (t *noteTracker) Start(k key, at float64, velocity uint8) {
	t.active[k] = append(t.active[k], openNote{start: at, velocity: velocity})
}

// End ends the oldest sounding note of k. It returns false if none was sounding.
func (t *noteTracker) End(k key, at float64) bool {
	open := t.active[k]
	if len(open) == 0 {
		return false
	}
	n := open[0]
	if len(open) == 1 {
		delete(t.active, k)
	} else {
		t.active[k] = open[1:]
	}
	t.add(k, n, at)
	return true
}

// Close ends every note still sounding at the given time.
func (t *noteTracker) Close(at float64) {
	for k, open := range t.active {
		for _, n := range open {
			t.add(k, n, at)
		}
		delete(t.active, k)
	}
}

func (t *noteTracker) add(k key, n openNote, end float64) {
	if end <= n.start {
		// Zero length after tick rounding; nothing sounds.
		return
	}
	t.notes[k.track] = append(t.notes[k.track], score.Note{
		Pitch:    int(k.key),
		Velocity: int(n.velocity),
		Start:    n.start,
		End:      end,
	})
}

// Notes returns the paired notes of a track.
func (t *noteTracker) Notes(track int) []score.Note {
	return t.notes[track]
}
