// Package history maintains bounded, time-windowed rolling histories of
// scalar sensor variables and derives trends from them. Each Tracker owns its
// window outright; there is no shared cache between variables.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrInsufficientHistory is returned by Trend when the window holds fewer
// than two samples or spans less than the configured minimum. Callers treat
// it as "steady/unknown", not as a failed cycle.
var ErrInsufficientHistory = errors.New("history: not enough samples for a trend")

// Direction classifies the sign of a trend after the dead-band is applied.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Steady  Direction = "steady"
)

// Trend is the net change across the retained window.
type Trend struct {
	Delta         float64
	WindowMinutes float64
	Direction     Direction
}

// Config bounds a tracker's window. Records are evicted by age only once the
// minimum count is satisfied, so sparse update periods cannot starve the
// trend down to zero samples.
type Config struct {
	Window       time.Duration
	MinCount     int
	MinTrendSpan time.Duration
	// DeadBand is the absolute change over a full window below which the
	// direction reports steady. Shorter retained spans scale it down
	// proportionally.
	DeadBand float64
}

// Defaults matching the calibration of the pressure formulas: pressure keeps
// 3 h / 36 records with a ±1.6 hPa dead-band, temperature 1 h / 12 records.
func PressureConfig() Config {
	return Config{Window: 180 * time.Minute, MinCount: 36, MinTrendSpan: 10 * time.Minute, DeadBand: 1.6}
}

func TemperatureConfig() Config {
	return Config{Window: 60 * time.Minute, MinCount: 12, MinTrendSpan: 10 * time.Minute, DeadBand: 0.5}
}

// Sample is one retained (timestamp, canonical value) pair.
type Sample struct {
	At    time.Time
	Value float64
}

// Tracker is a bounded deque of samples in ascending timestamp order.
// It is mutated only by its owning update cycle; readers must take a
// Samples() copy before computing.
type Tracker struct {
	cfg     Config
	samples []Sample
}

func New(cfg Config) *Tracker {
	if cfg.Window <= 0 {
		cfg.Window = 180 * time.Minute
	}
	if cfg.MinCount <= 0 {
		cfg.MinCount = 2
	}
	if cfg.MinTrendSpan <= 0 {
		cfg.MinTrendSpan = 10 * time.Minute
	}
	return &Tracker{cfg: cfg}
}

// Record appends a sample, keeping the window sorted and bounded. A sample
// sharing a timestamp (at second resolution) with an existing one replaces
// that entry rather than appearing twice. The newest record is never evicted.
func (t *Tracker) Record(value float64, at time.Time) {
	at = at.Truncate(time.Second)

	i := sort.Search(len(t.samples), func(i int) bool {
		return !t.samples[i].At.Before(at)
	})
	switch {
	case i < len(t.samples) && t.samples[i].At.Equal(at):
		t.samples[i].Value = value
	case i == len(t.samples):
		t.samples = append(t.samples, Sample{At: at, Value: value})
	default:
		t.samples = append(t.samples, Sample{})
		copy(t.samples[i+1:], t.samples[i:])
		t.samples[i] = Sample{At: at, Value: value}
	}

	t.prune()
}

// prune drops aged records, but only while more than MinCount remain.
func (t *Tracker) prune() {
	if len(t.samples) == 0 {
		return
	}
	cutoff := t.samples[len(t.samples)-1].At.Add(-t.cfg.Window)
	for len(t.samples) > t.cfg.MinCount && t.samples[0].At.Before(cutoff) {
		t.samples = t.samples[1:]
	}
}

// Len returns the number of retained samples.
func (t *Tracker) Len() int {
	return len(t.samples)
}

// Warm reports whether the window has reached its minimum count.
func (t *Tracker) Warm() bool {
	return len(t.samples) >= t.cfg.MinCount
}

// Latest returns the newest sample, if any.
func (t *Tracker) Latest() (Sample, bool) {
	if len(t.samples) == 0 {
		return Sample{}, false
	}
	return t.samples[len(t.samples)-1], true
}

// Samples returns an immutable copy of the window for snapshot-then-compute
// consumers.
func (t *Tracker) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Trend computes the net change between the oldest and newest retained
// samples. The dead-band scales with the actually-retained span so a short
// window is not held to the full-window threshold.
func (t *Tracker) Trend() (Trend, error) {
	if len(t.samples) < 2 {
		return Trend{Direction: Steady}, ErrInsufficientHistory
	}
	oldest := t.samples[0]
	newest := t.samples[len(t.samples)-1]
	span := newest.At.Sub(oldest.At)
	if span < t.cfg.MinTrendSpan {
		return Trend{Direction: Steady}, ErrInsufficientHistory
	}

	delta := newest.Value - oldest.Value
	band := t.cfg.DeadBand * math.Min(1, span.Minutes()/t.cfg.Window.Minutes())

	dir := Steady
	if delta > band {
		dir = Rising
	} else if delta < -band {
		dir = Falling
	}
	return Trend{Delta: delta, WindowMinutes: span.Minutes(), Direction: dir}, nil
}

// snapshotPayload is the persisted form. Samples stay raw so one malformed
// entry can be skipped without losing the rest.
type snapshotPayload struct {
	WindowMinutes float64           `json:"window_minutes"`
	MinCount      int               `json:"min_count"`
	Samples       []json.RawMessage `json:"samples"`
}

type sampleRecord struct {
	T int64   `json:"t"`
	V float64 `json:"v"`
}

// Snapshot serializes the window for the external collaborator to persist.
func (t *Tracker) Snapshot() ([]byte, error) {
	p := snapshotPayload{
		WindowMinutes: t.cfg.Window.Minutes(),
		MinCount:      t.cfg.MinCount,
		Samples:       make([]json.RawMessage, 0, len(t.samples)),
	}
	for _, s := range t.samples {
		raw, err := json.Marshal(sampleRecord{T: s.At.Unix(), V: s.Value})
		if err != nil {
			return nil, fmt.Errorf("marshal sample: %w", err)
		}
		p.Samples = append(p.Samples, raw)
	}
	return json.Marshal(p)
}

// Restore replaces the window with a persisted payload. Individually
// malformed entries are skipped and counted; only an unparsable envelope
// fails. Restore never fabricates a synthetic current reading; seeding an
// empty history is the ingest cycle's decision.
func (t *Tracker) Restore(data []byte) (skipped int, err error) {
	var p snapshotPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return 0, fmt.Errorf("parse history snapshot: %w", err)
	}

	restored := make([]Sample, 0, len(p.Samples))
	for _, raw := range p.Samples {
		var rec sampleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			skipped++
			continue
		}
		if rec.T <= 0 || math.IsNaN(rec.V) || math.IsInf(rec.V, 0) {
			skipped++
			continue
		}
		restored = append(restored, Sample{At: time.Unix(rec.T, 0).UTC(), Value: rec.V})
	}

	sort.Slice(restored, func(i, j int) bool { return restored[i].At.Before(restored[j].At) })

	// Merge duplicate timestamps, keeping the later entry.
	t.samples = t.samples[:0]
	for _, s := range restored {
		if n := len(t.samples); n > 0 && t.samples[n-1].At.Equal(s.At) {
			t.samples[n-1] = s
			continue
		}
		t.samples = append(t.samples, s)
	}
	t.prune()
	return skipped, nil
}
