package main

import (
	"time"

	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/metabolic"
	"lg/nutrivision-go-api/internal/nutrition"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dayclock.DateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dayclock.DateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

/* ─── Request / Response types ───────────────────────────────────────── */

// profileRequest is the request body for PUT /api/profile. All biometric
// fields are required; derived figures are computed server-side.
type profileRequest struct {
	Age            *float64                 `json:"age"`
	Sex            *metabolic.Sex           `json:"sex"`
	HeightCm       *float64                 `json:"height_cm"`
	WeightKg       *float64                 `json:"weight_kg"`
	ActivityLevel  *metabolic.ActivityLevel `json:"activity_level"`
	TargetWeightKg *float64                 `json:"target_weight_kg"`
}

// profileOption describes one selectable activity tier.
type profileOption struct {
	Value       metabolic.ActivityLevel `json:"value"`
	Multiplier  float64                 `json:"multiplier"`
	Description string                  `json:"description"`
}

// updateItemsRequest is the request body for PUT /api/meals/:id/items.
type updateItemsRequest struct {
	Items []nutrition.FoodItem `json:"items"`
}

// reanalyzeRequest is the optional body for POST /api/meals/:id/reanalyze.
type reanalyzeRequest struct {
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// mealSummary is one row of GET /api/meals: the meal plus its derived figures
// and a link to the stored image.
type mealSummary struct {
	Meal     nutrition.MealLog `json:"meal"`
	ImageURL string            `json:"image_url,omitempty"`
}

// waterRequest is the request body for POST /api/water.
type waterRequest struct {
	AmountMl float64 `json:"amount_ml"`
}

// waterDay is the response shape for the water endpoints.
type waterDay struct {
	Date     DateOnly `json:"date"`
	AmountMl float64  `json:"amount_ml"`
	TargetMl *float64 `json:"target_ml,omitempty"`
}
