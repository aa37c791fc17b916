package analytics

import (
	"errors"
	"fmt"
	"math"

	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/metabolic"
	"lg/nutrivision-go-api/internal/nutrition"
)

// ErrNoData means the report window holds no day with calories or water.
// Callers render an empty state instead of averages.
var ErrNoData = errors.New("not enough data yet")

const reportWindowDays = 7

// WeeklyReport summarises the last seven local days against the profile.
type WeeklyReport struct {
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	ActiveDays       int      `json:"active_days"`
	AvgCalories      float64  `json:"avg_calories"`
	AvgProtein       float64  `json:"avg_protein"`
	AvgFat           float64  `json:"avg_fat"`
	AvgCarbs         float64  `json:"avg_carbs"`
	AvgWater         float64  `json:"avg_water"`
	AvgMeals         float64  `json:"avg_meals"`
	WeightChangePred float64  `json:"weight_change_pred"`
	ComplianceScore  int      `json:"compliance_score"`
	Insights         []string `json:"insights"`
}

// GenerateWeeklyReport builds the 7-day report. Averages divide by the number
// of active days rather than by 7, so a new user is not diluted by empty days.
func GenerateWeeklyReport(meals []nutrition.MealLog, water nutrition.WaterLog, profile metabolic.Profile, clock dayclock.Clock) (WeeklyReport, error) {
	summaries := DailySummaries(meals, water, reportWindowDays, clock)

	activeDays := 0
	var cals, protein, fat, carbs, waterMl float64
	var mealCount int
	for _, s := range summaries {
		if s.HasActivity() {
			activeDays++
		}
		cals += s.TotalCalories
		protein += s.TotalProtein
		fat += s.TotalFat
		carbs += s.TotalCarbs
		waterMl += s.WaterIntake
		mealCount += s.MealCount
	}
	if activeDays == 0 {
		return WeeklyReport{}, ErrNoData
	}

	den := float64(max(activeDays, 1))
	r := WeeklyReport{
		StartDate:        summaries[len(summaries)-1].Date,
		EndDate:          summaries[0].Date,
		ActiveDays:       activeDays,
		AvgCalories:      cals / den,
		AvgProtein:       protein / den,
		AvgFat:           fat / den,
		AvgCarbs:         carbs / den,
		AvgWater:         waterMl / den,
		AvgMeals:         float64(mealCount) / den,
		WeightChangePred: metabolic.PredictWeightChange(cals - profile.TDEE*den),
	}

	targets := profile.Targets()
	r.ComplianceScore = complianceScore(r, profile, targets)
	r.Insights = insights(r, profile, targets)
	return r, nil
}

// complianceScore starts at 100 and deducts for caloric deviation (two stacked
// tiers), protein shortfall and hydration shortfall, clamped to [0, 100].
func complianceScore(r WeeklyReport, p metabolic.Profile, t metabolic.Targets) int {
	score := 100.0
	diff := math.Abs(r.AvgCalories - p.DailyCalorieTarget)
	if diff > 300 {
		score -= 10
	}
	if diff > 600 {
		score -= 10
	}
	if r.AvgProtein < t.Macros.Protein {
		score -= 15
	}
	if r.AvgWater < t.WaterMl {
		score -= 10
	}
	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// insights evaluates each rule independently; no rule suppresses another.
func insights(r WeeklyReport, p metabolic.Profile, t metabolic.Targets) []string {
	out := []string{}

	switch diff := r.AvgCalories - p.DailyCalorieTarget; {
	case diff > 500:
		out = append(out, "Weekly average exceeds your calorie target. Reduce intake to prevent unwanted fat gain.")
	case diff < -500:
		out = append(out, "Severe deficit detected. Risk of metabolic adaptation and muscle loss; increase intake.")
	default:
		out = append(out, "Caloric intake is within the optimal range for your goal.")
	}

	if minProtein := p.WeightKg * 1.6; r.AvgProtein < minProtein {
		out = append(out, fmt.Sprintf("Protein intake (%.0fg) is below the %.0fg needed for muscle retention, a gap of %.0fg.",
			r.AvgProtein, minProtein, minProtein-r.AvgProtein))
	} else {
		out = append(out, "Protein intake is optimal for nitrogen balance.")
	}

	if r.AvgWater < t.WaterMl*0.8 {
		out = append(out, fmt.Sprintf("Chronic dehydration detected (%.0fml average against a %.0fml target).", r.AvgWater, t.WaterMl))
	}

	if r.AvgMeals < 2 && r.AvgCalories > 1000 {
		out = append(out, "Low meal frequency with high caloric density. Consider splitting intake for better glycemic control.")
	}
	return out
}
