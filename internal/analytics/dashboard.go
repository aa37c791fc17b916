package analytics

import (
	"math"

	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/metabolic"
	"lg/nutrivision-go-api/internal/nutrition"
)

// DayStatus is today's intake measured against the profile targets.
type DayStatus struct {
	Today       DailySummary      `json:"today"`
	Targets     metabolic.Targets `json:"targets"`
	Remaining   float64           `json:"remaining"`
	Surplus     float64           `json:"surplus"`
	ProgressPct float64           `json:"progress_pct"`
	// Projected weight change over 7 days if every day looked like today.
	WeeklyDeltaKg float64 `json:"weekly_delta_kg"`
}

// Dashboard computes today's status. Progress is 0 when the calorie target
// is not positive.
func Dashboard(meals []nutrition.MealLog, water nutrition.WaterLog, profile metabolic.Profile, clock dayclock.Clock) DayStatus {
	today := DailySummaries(meals, water, 1, clock)[0]
	target := profile.DailyCalorieTarget
	consumed := today.TotalCalories

	st := DayStatus{
		Today:         today,
		Targets:       profile.Targets(),
		Remaining:     math.Max(0, target-consumed),
		Surplus:       math.Max(0, consumed-target),
		WeeklyDeltaKg: metabolic.PredictWeightChange(consumed-profile.TDEE) * 7,
	}
	if target > 0 {
		st.ProgressPct = consumed / target * 100
	}
	return st
}
