package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/wajo666/homeassistant-local-weather-forecast-sub002/internal/models"
)

// AggregateDaily reduces hourly points into day summaries: temperature
// min/max, mean rain probability, and the day's condition picked by
// frequency with severity breaking ties, so a day split evenly between storm
// and sun reads as storm.
func AggregateDaily(hourly []models.ForecastPoint) []models.DailyForecast {
	if len(hourly) == 0 {
		return nil
	}

	byDay := make(map[time.Time][]models.ForecastPoint)
	for _, p := range hourly {
		day := time.Date(p.At.Year(), p.At.Month(), p.At.Day(), 0, 0, 0, 0, p.At.Location())
		byDay[day] = append(byDay[day], p)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]models.DailyForecast, 0, len(days))
	for _, day := range days {
		out = append(out, summarizeDay(day, byDay[day]))
	}
	return out
}

func summarizeDay(day time.Time, points []models.ForecastPoint) models.DailyForecast {
	tempMin, tempMax := points[0].Temperature, points[0].Temperature
	var probSum float64
	counts := make(map[models.Condition]int)
	confidence := models.ConfidenceHigh

	for _, p := range points {
		tempMin = math.Min(tempMin, p.Temperature)
		tempMax = math.Max(tempMax, p.Temperature)
		probSum += float64(p.RainProbability)
		counts[p.Condition]++
		confidence = lowerConfidence(confidence, p.Confidence)
	}

	return models.DailyForecast{
		Date:            day,
		TempMin:         tempMin,
		TempMax:         tempMax,
		RainProbability: int(math.Round(probSum / float64(len(points)))),
		Condition:       dominantCondition(counts),
		Confidence:      confidence,
	}
}

// dominantCondition picks the most frequent condition; equal counts resolve
// to the more severe one, and full ties to the earliest condition in the
// canonical order. Walking conditionOrder instead of the map keeps the pick
// independent of map iteration order.
func dominantCondition(counts map[models.Condition]int) models.Condition {
	var best models.Condition
	bestCount := -1
	for _, c := range conditionOrder {
		n, ok := counts[c]
		if !ok {
			continue
		}
		if n > bestCount || (n == bestCount && Severity(c) > Severity(best)) {
			best, bestCount = c, n
		}
	}
	return best
}

var confidenceRank = map[models.Confidence]int{
	models.ConfidenceLow:    0,
	models.ConfidenceMedium: 1,
	models.ConfidenceHigh:   2,
}

func lowerConfidence(a, b models.Confidence) models.Confidence {
	if confidenceRank[b] < confidenceRank[a] {
		return b
	}
	return a
}
