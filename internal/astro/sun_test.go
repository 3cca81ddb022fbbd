package astro

import (
	"testing"
	"time"
)

func TestSunTimesMidLatitudes(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		lat, lon float64
		// Coarse UTC-hour windows; the approximation is good to a few
		// minutes, which is plenty for a diurnal anchor.
		riseMin, riseMax int
		setMin, setMax   int
	}{
		{
			name: "Vienna June solstice",
			date: time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC),
			lat:  48.2, lon: 16.37,
			riseMin: 2, riseMax: 4, setMin: 18, setMax: 20,
		},
		{
			name: "Vienna December solstice",
			date: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC),
			lat:  48.2, lon: 16.37,
			riseMin: 6, riseMax: 8, setMin: 14, setMax: 16,
		},
		{
			name: "southern hemisphere June",
			date: time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC),
			lat:  -36.8, lon: 146.98,
			riseMin: 21, riseMax: 23, setMin: 7, setMax: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rise, set, ok := SunTimes(tt.date, tt.lat, tt.lon)
			if !ok {
				t.Fatal("expected sun to rise and set")
			}
			if h := rise.Hour(); h < tt.riseMin || h > tt.riseMax {
				t.Errorf("sunrise hour = %d, want within [%d, %d]", h, tt.riseMin, tt.riseMax)
			}
			if h := set.Hour(); h < tt.setMin || h > tt.setMax {
				t.Errorf("sunset hour = %d, want within [%d, %d]", h, tt.setMin, tt.setMax)
			}
		})
	}
}

func TestPolarNight(t *testing.T) {
	// Tromsø area in late December: no sunrise.
	_, _, ok := SunTimes(time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC), 78.2, 15.6)
	if ok {
		t.Error("expected polar night at 78°N in December")
	}

	// And midnight sun in June.
	_, _, ok = SunTimes(time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC), 78.2, 15.6)
	if ok {
		t.Error("expected midnight sun at 78°N in June")
	}
}

func TestElevation(t *testing.T) {
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	noon := SolarNoon(date, 16.37)

	atNoon := Elevation(noon, 48.2, 16.37)
	if atNoon < 60 || atNoon > 68 {
		t.Errorf("solstice noon elevation = %.1f, want ~65", atNoon)
	}

	atMidnight := Elevation(noon.Add(12*time.Hour), 48.2, 16.37)
	if atMidnight > 0 {
		t.Errorf("midnight elevation = %.1f, want below horizon", atMidnight)
	}
}

func TestClearSkyRadiation(t *testing.T) {
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	noon := SolarNoon(date, 16.37)

	atNoon := ClearSkyRadiation(noon, 48.2, 16.37)
	if atNoon < 700 || atNoon > 1100 {
		t.Errorf("noon clear-sky radiation = %.0f W/m², want in [700, 1100]", atNoon)
	}

	if night := ClearSkyRadiation(noon.Add(12*time.Hour), 48.2, 16.37); night != 0 {
		t.Errorf("night radiation = %.0f, want 0", night)
	}
}
