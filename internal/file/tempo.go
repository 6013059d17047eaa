package file

import (
	"math"

	"github.com/keyscribe/keyscribe/internal/score"
)

// ticksPerQuarter is the resolution of written files.
const ticksPerQuarter = 480

// readMeta returns the first tempo and time signature numerator of the
// events, or zero for either if absent.
func readMeta(events []timedEvent) (bpm float64, num int) {
	for _, ev := range events {
		var tempo float64
		if bpm == 0 && ev.Msg.GetMetaTempo(&tempo) {
			bpm = tempo
		}
		var n, denom, cpt, dsqpq uint8
		if num == 0 && ev.Msg.GetMetaTimeSig(&n, &denom, &cpt, &dsqpq) {
			num = int(n)
		}
		if bpm != 0 && num != 0 {
			break
		}
	}
	return bpm, num
}

// secondsToTicks converts a time at constant tempo to ticks.
func secondsToTicks(t, bpm float64) int64 {
	return int64(math.Round(t * score.TempoOr(bpm) / 60 * ticksPerQuarter))
}
