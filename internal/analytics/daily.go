// Package analytics folds meal and water logs into daily summaries, weekly
// reports and CSV exports. Nothing here mutates its inputs or keeps state
// between calls.
package analytics

import (
	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/nutrition"
)

// DailySummary is one local calendar day's totals. Days without logs are
// present with zero values.
type DailySummary struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalFat      float64 `json:"total_fat"`
	TotalCarbs    float64 `json:"total_carbs"`
	WaterIntake   float64 `json:"water_intake"`
	MealCount     int     `json:"meal_count"`
}

// HasActivity reports whether anything (calories or water) was logged.
func (s DailySummary) HasActivity() bool {
	return s.TotalCalories != 0 || s.WaterIntake != 0
}

// DailySummaries returns exactly windowDays summaries for the last windowDays
// local calendar days, today first. Each meal lands in the single day whose
// [start, end] bounds contain its timestamp.
func DailySummaries(meals []nutrition.MealLog, water nutrition.WaterLog, windowDays int, clock dayclock.Clock) []DailySummary {
	if windowDays <= 0 {
		return []DailySummary{}
	}

	now := clock.Today()
	summaries := make([]DailySummary, windowDays)
	for i := 0; i < windowDays; i++ {
		day := clock.DaysAgo(now, i)
		start := clock.StartOfDay(day).UnixMilli()
		end := clock.EndOfDay(day).UnixMilli()
		key := clock.DateKey(day)

		s := DailySummary{Date: key, WaterIntake: water.On(key)}
		for _, m := range meals {
			if m.Timestamp < start || m.Timestamp > end {
				continue
			}
			t := m.Totals()
			s.TotalCalories += t.Calories
			s.TotalProtein += t.Protein
			s.TotalFat += t.Fat
			s.TotalCarbs += t.Carbs
			s.MealCount++
		}
		summaries[i] = s
	}
	return summaries
}
