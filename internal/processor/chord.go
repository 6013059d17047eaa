package processor

import (
	"fmt"
	"slices"

	"github.com/keyscribe/keyscribe/internal/score"
)

// Quality is the kind of triad.
type Quality int

const (
	Major Quality = iota
	Minor
)

func (q Quality) String() string {
	if q == Minor {
		return "minor"
	}
	return "major"
}

var pitchClassNames = []string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// Chord is a triad classification of a set of pitch classes.
type Chord struct {
	Root    int
	Quality Quality
	// Tones are the pitch classes of the triad in ascending order.
	Tones [3]int
}

// Name returns a lead-sheet name such as "C" or "F#m".
func (c Chord) Name() string {
	name := pitchClassNames[pitchClass(c.Root)]
	if c.Quality == Minor {
		name += "m"
	}
	return name
}

func (c Chord) String() string {
	return fmt.Sprintf("%s %v", c.Name(), c.Tones)
}

func triad(root int, q Quality) Chord {
	third := 4
	if q == Minor {
		third = 3
	}
	tones := []int{pitchClass(root), pitchClass(root + third), pitchClass(root + 7)}
	slices.Sort(tones)
	return Chord{Root: root, Quality: q, Tones: [3]int(tones)}
}

// ClassifyChord approximates a set of pitch classes by the major or minor
// triad with the largest overlap. Roots are scanned upwards, major before
// minor, and the first maximal candidate wins. Sevenths, inversions and
// voice leading are not considered.
//
// It returns false if the set is empty.
func ClassifyChord(pcs []int) (Chord, bool) {
	var present [12]bool
	found := false
	for _, pc := range pcs {
		present[pitchClass(pc)] = true
		found = true
	}
	if !found {
		return Chord{}, false
	}
	var best Chord
	bestScore := -1
	for r := 0; r < 12; r++ {
		for _, q := range []Quality{Major, Minor} {
			c := triad(r, q)
			overlap := 0
			for _, t := range c.Tones {
				if present[t] {
					overlap++
				}
			}
			if overlap > bestScore {
				best, bestScore = c, overlap
			}
		}
	}
	return best, true
}

// ChordSpan is the classification of one time block.
type ChordSpan struct {
	Start, End float64
	Chord      Chord
}

// activePitchClasses returns the pitch classes of all notes overlapping [t0, t1).
func activePitchClasses(s *score.Score, t0, t1 float64) []int {
	var pcs []int
	for _, inst := range s.Instruments {
		for _, n := range inst.Notes {
			if n.Start < t1 && n.End > t0 {
				pcs = append(pcs, n.PitchClass())
			}
		}
	}
	return pcs
}

// forEachBlock calls yield for consecutive blocks of length grid covering
// [0, end), the last one truncated at end.
func forEachBlock(end, grid float64, yield func(t0, t1 float64)) {
	if grid <= 0 {
		return
	}
	for i := 0; ; i++ {
		t0 := float64(i) * grid
		if t0 >= end {
			return
		}
		yield(t0, min(end, t0+grid))
	}
}

// ChordTimeline classifies every eighth-note block of the score. Blocks
// without notes are omitted.
func ChordTimeline(s *score.Score, bpm float64) []ChordSpan {
	var spans []ChordSpan
	forEachBlock(s.EndTime(), gridSeconds(bpm, 2), func(t0, t1 float64) {
		if c, ok := ClassifyChord(activePitchClasses(s, t0, t1)); ok {
			spans = append(spans, ChordSpan{Start: t0, End: t1, Chord: c})
		}
	})
	return spans
}
