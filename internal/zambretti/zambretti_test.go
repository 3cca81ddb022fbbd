package zambretti

import (
	"testing"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/history"
)

func TestFormulaExactness(t *testing.T) {
	tests := []struct {
		name    string
		trend   history.Direction
		wantRaw int
	}{
		{name: "falling at 1000", trend: history.Falling, wantRaw: 7},
		{name: "steady at 1000", trend: history.Steady, wantRaw: 14},
		{name: "rising at 1000", trend: history.Rising, wantRaw: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := Forecast(MethodNegretti, Input{
				SeaLevelPressure: 1000,
				Trend:            tt.trend,
				Month:            time.April, // no seasonal adjustment
				Latitude:         48.2,
			})
			if code.RawNumber != tt.wantRaw {
				t.Errorf("raw = %d, want %d", code.RawNumber, tt.wantRaw)
			}
		})
	}
}

func TestSeasonalAdjustments(t *testing.T) {
	steadyWinter := Forecast(MethodNegretti, Input{SeaLevelPressure: 1000, Trend: history.Steady, Month: time.January, Latitude: 48.2})
	if steadyWinter.RawNumber != 13 {
		t.Errorf("steady winter raw = %d, want 13 (14 with winter -1)", steadyWinter.RawNumber)
	}

	risingSummer := Forecast(MethodNegretti, Input{SeaLevelPressure: 1000, Trend: history.Rising, Month: time.July, Latitude: 48.2})
	if risingSummer.RawNumber != 26 {
		t.Errorf("rising summer raw = %d, want 26 (25 with summer +1)", risingSummer.RawNumber)
	}

	// Southern hemisphere: July is winter, so the steady adjustment applies.
	steadySouth := Forecast(MethodNegretti, Input{SeaLevelPressure: 1000, Trend: history.Steady, Month: time.July, Latitude: -36.8})
	if steadySouth.RawNumber != 13 {
		t.Errorf("southern steady July raw = %d, want 13", steadySouth.RawNumber)
	}
}

func TestMethodsUseDisjointTables(t *testing.T) {
	// Raw 13 falling exists only on the Negretti chart; the Zambretti chart
	// clamps it to its own printed domain. The two must resolve separately.
	in := Input{SeaLevelPressure: 950, Trend: history.Falling, Month: time.April, Latitude: 48.2}

	neg := Forecast(MethodNegretti, in)
	zam := Forecast(MethodZambretti, in)

	if neg.RawNumber != 13 {
		t.Fatalf("negretti raw = %d, want 13", neg.RawNumber)
	}
	if neg.Letter != 'Z' {
		t.Errorf("negretti letter = %c, want Z", neg.Letter)
	}
	if zam.Letter != 'X' {
		t.Errorf("zambretti letter = %c, want X (clamped to falling chart)", zam.Letter)
	}
}

func TestRisingGapFill(t *testing.T) {
	// High pressure while rising lands below the printed rising raws on both
	// charts; the gap fills to the settled terminal class.
	in := Input{SeaLevelPressure: 1045, Trend: history.Rising, Month: time.April, Latitude: 48.2}

	for _, m := range []Method{MethodNegretti, MethodZambretti} {
		code := Forecast(m, in)
		if code.Letter != 'A' || code.UniversalIndex != 0 {
			t.Errorf("%s: letter = %c index = %d, want settled fine A/0", m, code.Letter, code.UniversalIndex)
		}
		if code.TextKey != "settled_fine" {
			t.Errorf("%s: text key = %s, want settled_fine", m, code.TextKey)
		}
	}
}

func TestWindAdjustment(t *testing.T) {
	base := Input{SeaLevelPressure: 1000, Trend: history.Steady, Month: time.April, Latitude: 48.2}

	calm := Forecast(MethodZambretti, base)

	south := base
	bearing := 180.0
	south.WindBearing = &bearing
	withWind := Forecast(MethodZambretti, south)

	if withWind.RawNumber != calm.RawNumber+3 {
		t.Errorf("southerly raw = %d, want %d (equatorward +3)", withWind.RawNumber, calm.RawNumber+3)
	}

	// The same bearing in the southern hemisphere is poleward: no adjustment.
	southHemi := south
	southHemi.Latitude = -36.8
	mirrored := Forecast(MethodZambretti, southHemi)
	if mirrored.RawNumber != calm.RawNumber {
		t.Errorf("southern hemisphere southerly raw = %d, want %d", mirrored.RawNumber, calm.RawNumber)
	}

	// Negretti ignores wind entirely.
	neg := Forecast(MethodNegretti, south)
	negCalm := Forecast(MethodNegretti, base)
	if neg.RawNumber != negCalm.RawNumber {
		t.Errorf("negretti raw changed with wind: %d vs %d", neg.RawNumber, negCalm.RawNumber)
	}
}

func TestExceptionalPressure(t *testing.T) {
	low := Forecast(MethodZambretti, Input{SeaLevelPressure: 930, Trend: history.Falling, Month: time.April, Latitude: 48.2})
	if !low.Exceptional {
		t.Error("930 hPa should flag exceptional")
	}
	if low.Letter != 'X' {
		t.Errorf("letter = %c, want X (clamped falling terminal)", low.Letter)
	}

	high := Forecast(MethodZambretti, Input{SeaLevelPressure: 1062, Trend: history.Rising, Month: time.April, Latitude: 48.2})
	if !high.Exceptional {
		t.Error("1062 hPa should flag exceptional")
	}
	if high.Letter != 'A' {
		t.Errorf("letter = %c, want A", high.Letter)
	}

	normal := Forecast(MethodZambretti, Input{SeaLevelPressure: 1013, Trend: history.Steady, Month: time.April, Latitude: 48.2})
	if normal.Exceptional {
		t.Error("1013 hPa should not flag exceptional")
	}
}

func TestDeterminism(t *testing.T) {
	bearing := 225.0
	in := Input{SeaLevelPressure: 1008.4, Trend: history.Falling, Month: time.October, Latitude: 48.2, WindBearing: &bearing}

	first := Forecast(MethodZambretti, in)
	for i := 0; i < 10; i++ {
		if got := Forecast(MethodZambretti, in); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestUniversalIndexMatchesLetter(t *testing.T) {
	for p := 940.0; p <= 1060; p += 2.5 {
		for _, trend := range []history.Direction{history.Falling, history.Steady, history.Rising} {
			for _, m := range []Method{MethodNegretti, MethodZambretti} {
				code := Forecast(m, Input{SeaLevelPressure: p, Trend: trend, Month: time.April, Latitude: 48.2})
				if code.UniversalIndex != int(code.Letter-'A') {
					t.Fatalf("index %d does not match letter %c", code.UniversalIndex, code.Letter)
				}
				if code.UniversalIndex < 0 || code.UniversalIndex > 25 {
					t.Fatalf("index %d out of range for p=%v trend=%s", code.UniversalIndex, p, trend)
				}
				if code.TextKey == "" {
					t.Fatalf("empty text key for p=%v trend=%s", p, trend)
				}
			}
		}
	}
}
