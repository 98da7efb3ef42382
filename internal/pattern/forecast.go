package pattern

import (
	"sort"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// MinForecastRecords is the history size PredictNextShoppingDay needs.
const MinForecastRecords = 3

// PredictNextShoppingDay estimates the user's next shopping day from the
// average gap between distinct days with purchases. It reports false when
// there are fewer than MinForecastRecords records or only one shopping day.
func PredictNextShoppingDay(records []model.PurchaseRecord) (time.Time, bool) {
	if len(records) < MinForecastRecords {
		return time.Time{}, false
	}

	days := make(map[time.Time]bool)
	for _, rec := range records {
		y, m, d := rec.PurchaseDate.Date()
		days[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)] = true
	}
	if len(days) < 2 {
		return time.Time{}, false
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var total int
	for i := 1; i < len(sorted); i++ {
		total += int(sorted[i].Sub(sorted[i-1]) / day)
	}
	avg := total / (len(sorted) - 1)

	last := sorted[len(sorted)-1]
	return last.AddDate(0, 0, avg), true
}
