// CLI tool to write the saved logs to a CSV file without running the server.
// Reads the same configuration as the API (STORE_BACKEND etc).
// Usage: go run ./cmd/export [-kind summary|meals] [-days 30] [-out .]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"lg/nutrivision-go-api/internal/analytics"
	"lg/nutrivision-go-api/internal/config"
	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/store"
)

func main() {
	kind := flag.String("kind", "summary", "what to export: summary or meals")
	days := flag.Int("days", 30, "number of days in a summary export")
	out := flag.String("out", ".", "directory to write the CSV into")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	kv, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.StoreBackend, err)
		os.Exit(1)
	}
	defer kv.Close()

	name, body, err := export(ctx, store.NewRepository(kv), *kind, *days, dayclock.In(cfg.Location))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(*out, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

// export renders the requested CSV and its file name.
func export(ctx context.Context, repo *store.Repository, kind string, days int, clock dayclock.Clock) (string, string, error) {
	meals, err := repo.LoadMeals(ctx)
	if err != nil {
		return "", "", err
	}
	name := analytics.ExportFilename(kind, clock.Today())

	switch kind {
	case "summary":
		if days < 1 {
			return "", "", fmt.Errorf("days must be at least 1 (got %d)", days)
		}
		water, err := repo.LoadWater(ctx)
		if err != nil {
			return "", "", err
		}
		return name, analytics.SummariesCSV(analytics.DailySummaries(meals, water, days, clock)), nil
	case "meals":
		body, err := analytics.MealsCSV(meals)
		return name, body, err
	}
	return "", "", fmt.Errorf("unknown export kind %q", kind)
}
