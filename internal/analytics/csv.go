package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lg/nutrivision-go-api/internal/nutrition"
)

// SummaryHeader is the fixed column order of the summary export. Spreadsheet
// users depend on these names; do not reorder.
var SummaryHeader = []string{"Date", "Calories", "Protein(g)", "Fat(g)", "Carbs(g)", "Water(ml)", "MealCount"}

// SummariesCSV renders summaries in the order received, one header row, rows
// joined by "\n" with no trailing newline.
func SummariesCSV(summaries []DailySummary) string {
	lines := make([]string, 0, len(summaries)+1)
	lines = append(lines, strings.Join(SummaryHeader, ","))
	for _, s := range summaries {
		lines = append(lines, strings.Join([]string{
			s.Date,
			strconv.FormatFloat(s.TotalCalories, 'f', 0, 64),
			strconv.FormatFloat(s.TotalProtein, 'f', 1, 64),
			strconv.FormatFloat(s.TotalFat, 'f', 1, 64),
			strconv.FormatFloat(s.TotalCarbs, 'f', 1, 64),
			strconv.FormatFloat(s.WaterIntake, 'f', 0, 64),
			strconv.Itoa(s.MealCount),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// MealHeader is the column order of the per-meal export.
var MealHeader = []string{"Timestamp", "Category", "Item", "Calories", "Protein", "Carbs", "Fat"}

// MealsCSV renders one row per meal with item names joined by "; ". Item
// names are free text, so fields are quoted as needed.
func MealsCSV(meals []nutrition.MealLog) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(MealHeader); err != nil {
		return "", err
	}
	for _, m := range meals {
		items := m.Items()
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name
		}
		t := m.Totals()
		row := []string{
			m.Time().UTC().Format(time.RFC3339),
			"MEAL",
			strings.Join(names, "; "),
			strconv.FormatFloat(t.Calories, 'f', -1, 64),
			strconv.FormatFloat(t.Protein, 'f', -1, 64),
			strconv.FormatFloat(t.Carbs, 'f', -1, 64),
			strconv.FormatFloat(t.Fat, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write meals csv: %w", err)
	}
	return buf.String(), nil
}

// ExportFilename embeds the export date, e.g. nutrivision_summary_2026-10-19.csv.
func ExportFilename(kind string, at time.Time) string {
	return fmt.Sprintf("nutrivision_%s_%s.csv", kind, at.Format("2006-01-02"))
}
