package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/nutrition"
	"lg/nutrivision-go-api/internal/store"
)

func setupExportTest(t *testing.T) (*store.Repository, dayclock.Clock) {
	t.Helper()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := dayclock.Clock{Loc: time.UTC, Now: func() time.Time { return now }}

	repo := store.NewRepository(store.NewMemoryStore())
	ctx := context.Background()
	meal := nutrition.NewMealLog("m1", now.Add(-time.Hour), "", []nutrition.FoodItem{
		{ID: "a", Name: "Oatmeal", Calories: 300, Protein: 10, Fat: 5, Carbs: 54},
	})
	if err := repo.SaveMeals(ctx, []nutrition.MealLog{meal}); err != nil {
		t.Fatalf("save meals: %v", err)
	}
	if err := repo.SaveWater(ctx, nutrition.WaterLog{"2026-10-19": 500}); err != nil {
		t.Fatalf("save water: %v", err)
	}
	return repo, clock
}

func TestExport_Summary(t *testing.T) {
	repo, clock := setupExportTest(t)

	name, body, err := export(context.Background(), repo, "summary", 2, clock)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "nutrivision_summary_2026-10-19.csv" {
		t.Errorf("unexpected name %q", name)
	}
	lines := strings.Split(body, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", body)
	}
	if lines[1] != "2026-10-19,300,10.0,5.0,54.0,500,1" {
		t.Errorf("unexpected today row %q", lines[1])
	}
	if lines[2] != "2026-10-18,0,0.0,0.0,0.0,0,0" {
		t.Errorf("unexpected yesterday row %q", lines[2])
	}
}

func TestExport_Meals(t *testing.T) {
	repo, clock := setupExportTest(t)

	name, body, err := export(context.Background(), repo, "meals", 0, clock)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "nutrivision_meals_2026-10-19.csv" {
		t.Errorf("unexpected name %q", name)
	}
	if !strings.Contains(body, "2026-10-19T11:00:00Z,MEAL,Oatmeal,300,10,54,5") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestExport_BadArgs(t *testing.T) {
	repo, clock := setupExportTest(t)

	if _, _, err := export(context.Background(), repo, "summary", 0, clock); err == nil {
		t.Error("expected an error for days=0")
	}
	if _, _, err := export(context.Background(), repo, "weights", 7, clock); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
