package nutrition

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []FoodItem {
	return []FoodItem{
		{ID: "rice", Name: "Rice", PortionGrams: 150, Calories: 200, Protein: 4, Fat: 1, Carbs: 44, Confidence: 0.9},
		{ID: "chicken", Name: "Chicken", PortionGrams: 120, Calories: 300, Protein: 36, Fat: 12, Carbs: 0, Confidence: 0.8},
	}
}

func TestNewMealLog_DerivesTotalsAndWideInterval(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m := NewMealLog("m1", at, "img/m1.jpg", sampleItems())

	assert.Equal(t, Totals{Calories: 500, Protein: 40, Fat: 13, Carbs: 44}, m.Totals())
	assert.InDelta(t, 400, m.Uncertainty().Min, 1e-9)
	assert.InDelta(t, 600, m.Uncertainty().Max, 1e-9)
	assert.Equal(t, at.UnixMilli(), m.Timestamp)
}

func TestNewMealLog_FixesDuplicateAndMissingIDs(t *testing.T) {
	items := []FoodItem{{ID: "a", Calories: 1}, {ID: "a", Calories: 2}, {Calories: 3}}
	m := NewMealLog("m", time.Now(), "", items)

	ids := map[string]bool{}
	for _, it := range m.Items() {
		require.NotEmpty(t, it.ID)
		ids[it.ID] = true
	}
	assert.Len(t, ids, 3)
	assert.Equal(t, "a", m.Items()[0].ID)
}

func TestNewMealLog_ClampsConfidence(t *testing.T) {
	m := NewMealLog("m", time.Now(), "", []FoodItem{{ID: "x", Confidence: 1.7}, {ID: "y", Confidence: -0.2}})
	assert.Equal(t, 1.0, m.Items()[0].Confidence)
	assert.Equal(t, 0.0, m.Items()[1].Confidence)
}

func TestEditItems_FlagsChangedItemsAndNarrowsInterval(t *testing.T) {
	m := NewMealLog("m1", time.Now(), "", sampleItems())

	edited := m.Items()
	edited[1].Calories = 250
	m.EditItems(edited)

	items := m.Items()
	assert.False(t, items[0].UserCorrected, "unchanged item stays an AI estimate")
	assert.True(t, items[1].UserCorrected)
	assert.Equal(t, 450.0, m.Totals().Calories)
	assert.InDelta(t, 427.5, m.Uncertainty().Min, 1e-9)
	assert.InDelta(t, 472.5, m.Uncertainty().Max, 1e-9)
}

func TestEditItems_RemovesAndAdds(t *testing.T) {
	m := NewMealLog("m1", time.Now(), "", sampleItems())

	m.EditItems([]FoodItem{
		m.Items()[0],
		{Name: "Salad", Calories: 50, Protein: 1, Fat: 3, Carbs: 5},
	})

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "rice", items[0].ID)
	assert.True(t, items[1].UserCorrected)
	assert.NotEmpty(t, items[1].ID)
	assert.Equal(t, 250.0, m.Totals().Calories)
}

// Removing an item is still a manual edit and narrows the interval.
func TestEditItems_DeleteOnlyNarrowsInterval(t *testing.T) {
	m := NewMealLog("m1", time.Now(), "", sampleItems())

	m.EditItems([]FoodItem{m.Items()[1]})

	require.Len(t, m.Items(), 1)
	assert.False(t, m.Items()[0].UserCorrected)
	assert.Equal(t, 300.0, m.Totals().Calories)
	assert.InDelta(t, 285, m.Uncertainty().Min, 1e-9)
	assert.InDelta(t, 315, m.Uncertainty().Max, 1e-9)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	var back MealLog
	require.NoError(t, json.Unmarshal(b, &back))
	assert.InDelta(t, 285, back.Uncertainty().Min, 1e-9, "edit survives a reload")

	back.MergeReanalysis([]FoodItem{{ID: "soup", Name: "Soup", Calories: 100}})
	assert.InDelta(t, 80, back.Uncertainty().Min, 1e-9, "fresh estimate widens again")
}

func TestItems_ReturnsCopy(t *testing.T) {
	m := NewMealLog("m1", time.Now(), "", sampleItems())
	items := m.Items()
	items[0].Calories = 9999
	assert.Equal(t, 500.0, m.Totals().Calories)
	assert.Equal(t, 200.0, m.Items()[0].Calories)
}

// A corrected item must survive re-analysis untouched.
func TestMergeReanalysis_KeepsCorrectedItems(t *testing.T) {
	m := NewMealLog("m1", time.Now(), "", sampleItems())
	edited := m.Items()
	edited[1].Calories = 280
	m.EditItems(edited)

	m.MergeReanalysis([]FoodItem{
		{ID: "chicken", Name: "Chicken", Calories: 400, Confidence: 0.6},
		{ID: "rice", Name: "Rice", Calories: 210, Confidence: 0.7},
	})

	var chicken []FoodItem
	var rice FoodItem
	for _, it := range m.Items() {
		switch it.Name {
		case "Chicken":
			chicken = append(chicken, it)
		case "Rice":
			rice = it
		}
	}
	require.Len(t, chicken, 2)
	assert.Equal(t, "chicken", chicken[0].ID)
	assert.Equal(t, 280.0, chicken[0].Calories)
	assert.True(t, chicken[0].UserCorrected)
	assert.NotEqual(t, "chicken", chicken[1].ID, "fresh duplicate gets a new ID")
	assert.Equal(t, 210.0, rice.Calories)
	assert.False(t, rice.UserCorrected)
	assert.Equal(t, 890.0, m.Totals().Calories)
}

func TestMergeReanalysis_AllEstimatesKeepWideInterval(t *testing.T) {
	m := NewMealLog("m1", time.Now(), "", sampleItems())
	m.MergeReanalysis([]FoodItem{{ID: "soup", Name: "Soup", Calories: 100}})

	require.Len(t, m.Items(), 1)
	assert.InDelta(t, 80, m.Uncertainty().Min, 1e-9)
	assert.InDelta(t, 120, m.Uncertainty().Max, 1e-9)
}

// Persisted totals are ignored on load; items are the source of truth.
func TestMealLogJSON_RecomputesOnLoad(t *testing.T) {
	raw := `{"id":"m1","timestamp":1760870000000,"image_ref":"img","items":[
		{"id":"a","name":"Egg","portion_grams":50,"calories":70,"protein":6,"fat":5,"carbs":0,"confidence":0.9,"is_user_corrected":true}
	],"total_calories":99999,"uncertainty_range":[0,1]}`

	var m MealLog
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.Equal(t, 70.0, m.Totals().Calories)
	assert.InDelta(t, 66.5, m.Uncertainty().Min, 1e-9)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 70.0, back["total_calories"])
	assert.Equal(t, "img", back["image_ref"])
}

func TestWaterLog_AddIsAdditive(t *testing.T) {
	w := WaterLog{}
	total, err := w.Add("2026-10-19", 250)
	require.NoError(t, err)
	assert.Equal(t, 250.0, total)

	total, err = w.Add("2026-10-19", 500)
	require.NoError(t, err)
	assert.Equal(t, 750.0, total)

	_, err = w.Add("2026-10-19", -100)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = w.Add("2026-10-19", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 750.0, w.On("2026-10-19"))
	assert.Equal(t, 0.0, w.On("2026-10-18"))
}

func TestWaterLog_Clone(t *testing.T) {
	w := WaterLog{"2026-10-19": 500}
	c := w.Clone()
	c["2026-10-19"] = 1
	assert.Equal(t, 500.0, w["2026-10-19"])
}
