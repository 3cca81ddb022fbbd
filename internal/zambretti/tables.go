package zambretti

import "github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"

// textKeys are the 26 universal classes, indexed by universal index
// (letter − 'A'). Lower indexes are more settled weather.
var textKeys = [26]string{
	"settled_fine",
	"fine_weather",
	"becoming_fine",
	"fine_becoming_less_settled",
	"fine_possible_showers",
	"fairly_fine_improving",
	"fairly_fine_possible_showers_early",
	"fairly_fine_showery_later",
	"showery_early_improving",
	"changeable_mending",
	"fairly_fine_showers_likely",
	"rather_unsettled_clearing_later",
	"unsettled_probably_improving",
	"showery_bright_intervals",
	"showery_becoming_less_settled",
	"changeable_some_rain",
	"unsettled_short_fine_intervals",
	"unsettled_rain_later",
	"unsettled_some_rain",
	"mostly_very_unsettled",
	"occasional_rain_worsening",
	"rain_at_times_very_unsettled",
	"rain_at_frequent_intervals",
	"rain_very_unsettled",
	"stormy_may_improve",
	"stormy_much_rain",
}

// codeTable maps a method's raw numbers to letters, one map per trend.
// The two methods deliberately do not share tables: the older revision keyed
// both off a single chart, which silently misclassified the Negretti raws
// that fall outside the Zambretti domain.
type codeTable struct {
	falling map[int]byte
	steady  map[int]byte
	rising  map[int]byte
	// risingGapFill handles the Negretti chart's unprinted high-pressure
	// rising raws (17–20, from p0 above ≈1030): they resolve to the settled
	// terminal class instead of being unmapped.
	risingGapFill byte
}

// zambrettiTable is the classic chart: falling 1–9, steady 10–19,
// rising 20–32.
var zambrettiTable = codeTable{
	falling: map[int]byte{
		1: 'A', 2: 'B', 3: 'D', 4: 'H', 5: 'O', 6: 'R', 7: 'U', 8: 'V', 9: 'X',
	},
	steady: map[int]byte{
		10: 'A', 11: 'B', 12: 'E', 13: 'K', 14: 'N', 15: 'P', 16: 'S', 17: 'W', 18: 'X', 19: 'X',
	},
	rising: map[int]byte{
		20: 'A', 21: 'B', 22: 'C', 23: 'F', 24: 'G', 25: 'I', 26: 'J',
		27: 'L', 28: 'M', 29: 'Q', 30: 'T', 31: 'Y', 32: 'Z',
	},
	risingGapFill: 'A',
}

// negrettiTable covers the wider raw domains the unadjusted formulas produce
// across the full calibration range: falling 1–13, steady 7–21, rising 21–35.
var negrettiTable = codeTable{
	falling: map[int]byte{
		1: 'A', 2: 'B', 3: 'D', 4: 'H', 5: 'O', 6: 'R', 7: 'U', 8: 'V',
		9: 'X', 10: 'X', 11: 'Z', 12: 'Z', 13: 'Z',
	},
	steady: map[int]byte{
		7: 'A', 8: 'A', 9: 'A', 10: 'B', 11: 'B', 12: 'E', 13: 'K', 14: 'N',
		15: 'P', 16: 'S', 17: 'W', 18: 'X', 19: 'X', 20: 'Z', 21: 'Z',
	},
	rising: map[int]byte{
		21: 'B', 22: 'C', 23: 'F', 24: 'G', 25: 'I', 26: 'J', 27: 'L',
		28: 'M', 29: 'Q', 30: 'T', 31: 'Y', 32: 'Z', 33: 'Z', 34: 'Z', 35: 'Z',
	},
	risingGapFill: 'A',
}

func table(m Method) *codeTable {
	if m == MethodNegretti {
		return &negrettiTable
	}
	return &zambrettiTable
}

// lookup resolves a raw number against the trend's chart, clamping raws that
// adjustments pushed past either end back onto the printed domain.
func (t *codeTable) lookup(trend history.Direction, raw int) byte {
	var chart map[int]byte
	switch trend {
	case history.Falling:
		chart = t.falling
	case history.Rising:
		chart = t.rising
	default:
		chart = t.steady
	}

	if letter, ok := chart[raw]; ok {
		return letter
	}

	lo, hi := domain(chart)
	if raw < lo {
		if trend == history.Rising {
			return t.risingGapFill
		}
		return chart[lo]
	}
	return chart[hi]
}

func domain(chart map[int]byte) (lo, hi int) {
	first := true
	for raw := range chart {
		if first {
			lo, hi = raw, raw
			first = false
			continue
		}
		if raw < lo {
			lo = raw
		}
		if raw > hi {
			hi = raw
		}
	}
	return lo, hi
}
