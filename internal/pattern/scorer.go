package pattern

import (
	"math"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// Scoring weights and limits.
const (
	weightFrequency  = 0.4
	weightTime       = 0.4
	weightRegularity = 0.2

	// A pattern bought this often scores full frequency.
	saturatingFrequency = 10.0
	// Time score for items with no measurable interval.
	neutralTimeScore = 0.5
	// Regularity floor when the weekly rate is zero.
	minRegularity = 0.1
)

// Breakdown shows how a pattern's confidence was computed. Every component
// is in [0,1].
type Breakdown struct {
	Frequency  float64
	Time       float64
	Regularity float64
	// Decay is the multiplier applied for items not bought recently.
	Decay      float64
	Confidence float64
}

// Score rates how strongly p should be suggested as of now.
//
// Frequency saturates at ten purchases. Time compares the days since the last
// purchase with the average interval, so an item is fully "due" once a whole
// interval has passed. Regularity is purchases per week over the days since
// the item was first seen. Items untouched for over 30 days lose 20% and
// over 60 days lose half.
func Score(p model.PurchasePattern, now time.Time) Breakdown {
	b := Breakdown{
		Frequency: model.Clamp01(float64(p.Frequency) / saturatingFrequency),
		Time:      neutralTimeScore,
		Decay:     1,
	}

	if p.AvgIntervalDays > 0 {
		b.Time = model.Clamp01(float64(p.DaysSinceLast) / p.AvgIntervalDays)
	}

	totalDays := wholeDays(now.Sub(p.FirstSeen))
	if totalDays < 1 {
		totalDays = 1
	}
	perWeek := float64(p.Frequency) * 7 / float64(totalDays)
	b.Regularity = math.Min(perWeek, 1)
	if perWeek <= 0 {
		b.Regularity = minRegularity
	}

	switch {
	case p.DaysSinceLast > 60:
		b.Decay = 0.5
	case p.DaysSinceLast > 30:
		b.Decay = 0.8
	}

	confidence := weightFrequency*b.Frequency + weightTime*b.Time + weightRegularity*b.Regularity
	b.Confidence = model.Clamp01(confidence * b.Decay)
	return b
}
