// Package nutrition holds the logged event types: food items, meals and the
// daily water log.
package nutrition

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Uncertainty half-widths around total calories.
const (
	EstimateSpread  = 0.20 // pure AI estimate
	CorrectedSpread = 0.05 // edited by the user, or any item corrected
)

// FoodItem is one detected (or user-entered) component of a meal.
type FoodItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PortionGrams  float64  `json:"portion_grams"`
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`
	Fat           float64  `json:"fat"`
	Carbs         float64  `json:"carbs"`
	Fiber         *float64 `json:"fiber,omitempty"`
	SodiumMg      *float64 `json:"sodium,omitempty"`
	Confidence    float64  `json:"confidence"`
	UserCorrected bool     `json:"is_user_corrected"`
}

// sameEstimate reports whether two items carry the same name and numbers.
func (f FoodItem) sameEstimate(o FoodItem) bool {
	return f.Name == o.Name &&
		f.PortionGrams == o.PortionGrams &&
		f.Calories == o.Calories &&
		f.Protein == o.Protein &&
		f.Fat == o.Fat &&
		f.Carbs == o.Carbs &&
		equalOpt(f.Fiber, o.Fiber) &&
		equalOpt(f.SodiumMg, o.SodiumMg)
}

func equalOpt(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Totals is the macro sum over a meal's items.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MealLog is one analysed meal. Totals and uncertainty are private and always
// derived from the item list; the only way to change them is through the
// item-mutating methods.
type MealLog struct {
	ID        string
	Timestamp int64 // epoch ms
	ImageRef  string

	items       []FoodItem
	edited      bool // saved through EditItems since the last analysis
	totals      Totals
	uncertainty Range
}

// NewMealLog builds a meal from freshly analysed items. Missing or duplicate
// item IDs are replaced so IDs stay unique within the meal.
func NewMealLog(id string, at time.Time, imageRef string, items []FoodItem) MealLog {
	m := MealLog{ID: id, Timestamp: at.UnixMilli(), ImageRef: imageRef}
	m.setItems(items)
	return m
}

func (m *MealLog) setItems(items []FoodItem) {
	seen := make(map[string]bool, len(items))
	out := make([]FoodItem, len(items))
	for i, it := range items {
		if it.ID == "" || seen[it.ID] {
			it.ID = uuid.NewString()
		}
		seen[it.ID] = true
		it.Confidence = clamp01(it.Confidence)
		out[i] = it
	}
	m.items = out
	m.recompute()
}

func (m *MealLog) recompute() {
	var t Totals
	corrected := false
	for _, it := range m.items {
		t.Calories += it.Calories
		t.Protein += it.Protein
		t.Fat += it.Fat
		t.Carbs += it.Carbs
		corrected = corrected || it.UserCorrected
	}
	spread := EstimateSpread
	if corrected || m.edited {
		spread = CorrectedSpread
	}
	m.totals = t
	m.uncertainty = Range{Min: t.Calories * (1 - spread), Max: t.Calories * (1 + spread)}
}

// Items returns a copy of the meal's items in order.
func (m MealLog) Items() []FoodItem {
	out := make([]FoodItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m MealLog) Totals() Totals     { return m.totals }
func (m MealLog) Uncertainty() Range { return m.uncertainty }
func (m MealLog) Time() time.Time    { return time.UnixMilli(m.Timestamp) }

// EditItems applies a user edit. Items whose values differ from the stored
// version (or that are new) are flagged user-corrected; items missing from
// edited are removed. Totals are recomputed and the uncertainty interval
// narrows even when the edit only removed items.
func (m *MealLog) EditItems(edited []FoodItem) {
	prev := make(map[string]FoodItem, len(m.items))
	for _, it := range m.items {
		prev[it.ID] = it
	}

	next := make([]FoodItem, 0, len(edited))
	for _, it := range edited {
		old, ok := prev[it.ID]
		switch {
		case !ok:
			it.UserCorrected = true
		case !it.sameEstimate(old):
			it.UserCorrected = true
			it.Confidence = old.Confidence
		default:
			it.UserCorrected = old.UserCorrected
			it.Confidence = old.Confidence
		}
		next = append(next, it)
	}
	m.edited = true
	m.setItems(next)
}

// MergeReanalysis folds a fresh vision result into the meal. User-corrected
// items are authoritative and kept as they are; every other item is replaced by
// the fresh estimate.
func (m *MealLog) MergeReanalysis(fresh []FoodItem) {
	next := make([]FoodItem, 0, len(m.items)+len(fresh))
	kept := make(map[string]bool)
	for _, it := range m.items {
		if it.UserCorrected {
			next = append(next, it)
			kept[it.ID] = true
		}
	}
	for _, it := range fresh {
		if kept[it.ID] {
			it.ID = ""
		}
		it.UserCorrected = false
		next = append(next, it)
	}
	m.edited = false
	m.setItems(next)
}

// mealLogJSON is the persisted shape. Totals and uncertainty are written for
// readers of the raw record but recomputed from items on load.
type mealLogJSON struct {
	ID               string     `json:"id"`
	Timestamp        int64      `json:"timestamp"`
	ImageRef         string     `json:"image_ref"`
	Items            []FoodItem `json:"items"`
	Edited           bool       `json:"is_edited,omitempty"`
	TotalCalories    float64    `json:"total_calories"`
	TotalProtein     float64    `json:"total_protein"`
	TotalFat         float64    `json:"total_fat"`
	TotalCarbs       float64    `json:"total_carbs"`
	UncertaintyRange [2]float64 `json:"uncertainty_range"`
}

func (m MealLog) MarshalJSON() ([]byte, error) {
	items := m.items
	if items == nil {
		items = []FoodItem{}
	}
	return json.Marshal(mealLogJSON{
		ID:               m.ID,
		Timestamp:        m.Timestamp,
		ImageRef:         m.ImageRef,
		Items:            items,
		Edited:           m.edited,
		TotalCalories:    m.totals.Calories,
		TotalProtein:     m.totals.Protein,
		TotalFat:         m.totals.Fat,
		TotalCarbs:       m.totals.Carbs,
		UncertaintyRange: [2]float64{m.uncertainty.Min, m.uncertainty.Max},
	})
}

func (m *MealLog) UnmarshalJSON(b []byte) error {
	var raw mealLogJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.ID = raw.ID
	m.Timestamp = raw.Timestamp
	m.ImageRef = raw.ImageRef
	m.edited = raw.Edited
	m.setItems(raw.Items)
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
