// Package session owns the user profile and the meal and water logs for the
// lifetime of the process. Every mutation goes through a Session method that
// persists the affected record; reads hand the analytics functions a
// snapshot so no aggregation ever observes a half-applied change.
package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/google/uuid"

	"lg/nutrivision-go-api/internal/analytics"
	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/imagestore"
	"lg/nutrivision-go-api/internal/metabolic"
	"lg/nutrivision-go-api/internal/nutrition"
	"lg/nutrivision-go-api/internal/store"
	"lg/nutrivision-go-api/internal/vision"
)

var (
	// ErrAnalysisFailed wraps every failure of the vision call itself, so
	// callers can tell an upstream problem from a local one.
	ErrAnalysisFailed = errors.New("meal analysis failed")

	ErrNoProfile     = errors.New("no profile saved yet")
	ErrMealNotFound  = errors.New("meal not found")
	ErrNoImage       = errors.New("meal has no stored image")
	ErrEmptyItemList = errors.New("a meal needs at least one item")
)

// Session is safe for concurrent use by the HTTP handlers.
type Session struct {
	repo     *store.Repository
	images   imagestore.Store
	analyzer vision.Analyzer
	hinter   vision.Hinter // optional
	clock    dayclock.Clock

	mu      sync.RWMutex
	profile *metabolic.Profile
	meals   []nutrition.MealLog // newest first
	water   nutrition.WaterLog
}

// Deps are the collaborators a Session needs. Hinter may be nil.
type Deps struct {
	Repo     *store.Repository
	Images   imagestore.Store
	Analyzer vision.Analyzer
	Hinter   vision.Hinter
	Clock    dayclock.Clock
}

func New(d Deps) *Session {
	return &Session{
		repo:     d.Repo,
		images:   d.Images,
		analyzer: d.Analyzer,
		hinter:   d.Hinter,
		clock:    d.Clock,
		meals:    []nutrition.MealLog{},
		water:    nutrition.WaterLog{},
	}
}

// Load replaces in-memory state with the persisted records.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return err
	}
	log.Printf("[session] loaded profile=%t meals=%d water_days=%d", s.profile != nil, len(s.meals), len(s.water))
	return nil
}

// reload reads every record from the repository. Callers hold s.mu; state is
// only replaced when all three reads succeed.
func (s *Session) reload(ctx context.Context) error {
	profile, err := s.repo.LoadProfile(ctx)
	if err != nil {
		return err
	}
	meals, err := s.repo.LoadMeals(ctx)
	if err != nil {
		return err
	}
	water, err := s.repo.LoadWater(ctx)
	if err != nil {
		return err
	}

	slices.SortStableFunc(meals, func(a, b nutrition.MealLog) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	s.profile, s.meals, s.water = profile, meals, water
	return nil
}

// Clock returns the day-boundary clock used by the session.
func (s *Session) Clock() dayclock.Clock { return s.clock }

/* ─── Profile ────────────────────────────────────────────────────────── */

// Profile returns the saved profile or ErrNoProfile.
func (s *Session) Profile() (metabolic.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return metabolic.Profile{}, ErrNoProfile
	}
	return *s.profile, nil
}

// SaveProfile validates in, derives BMR, TDEE and the calorie target, and
// persists the result.
func (s *Session) SaveProfile(ctx context.Context, in metabolic.ProfileInput) (metabolic.Profile, error) {
	if err := in.Validate(); err != nil {
		return metabolic.Profile{}, err
	}
	p := metabolic.NewProfile(in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return metabolic.Profile{}, err
	}
	s.profile = &p
	return p, nil
}

/* ─── Meals ──────────────────────────────────────────────────────────── */

// Meals returns a snapshot of the meal log, newest first.
func (s *Session) Meals() []nutrition.MealLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.meals)
}

func (s *Session) Meal(id string) (nutrition.MealLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nutrition.MealLog{}, ErrMealNotFound
	}
	return s.meals[i], nil
}

func (s *Session) indexOf(id string) int {
	return slices.IndexFunc(s.meals, func(m nutrition.MealLog) bool { return m.ID == id })
}

// CaptureMeal stores image, analyses it and admits the resulting meal at the
// head of the log. The vision call happens outside the lock; a failed
// analysis leaves no meal and no stored image behind.
func (s *Session) CaptureMeal(ctx context.Context, image []byte, contextHint string) (nutrition.MealLog, error) {
	m, err := imagestore.Sniff(image)
	if err != nil {
		return nutrition.MealLog{}, err
	}
	items, err := s.analyze(ctx, image, m.String(), contextHint)
	if err != nil {
		return nutrition.MealLog{}, err
	}

	ref, _, err := s.images.Put(ctx, image)
	if err != nil {
		return nutrition.MealLog{}, fmt.Errorf("store image: %w", err)
	}

	meal := nutrition.NewMealLog(uuid.NewString(), s.clock.Today(), ref, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	meals := append([]nutrition.MealLog{meal}, s.meals...)
	if err := s.repo.SaveMeals(ctx, meals); err != nil {
		if derr := s.images.Delete(ctx, ref); derr != nil {
			log.Printf("[session] cleanup image %s: %v", ref, derr)
		}
		return nutrition.MealLog{}, err
	}
	s.meals = meals
	log.Printf("[session] captured meal %s: %d items, %.0f kcal", meal.ID, len(items), meal.Totals().Calories)
	return meal, nil
}

// analyze runs the optional label pass and then the vision call. A label
// failure only costs the extra hint.
func (s *Session) analyze(ctx context.Context, image []byte, contentType, hint string) ([]nutrition.FoodItem, error) {
	if s.hinter != nil {
		labels, err := s.hinter.Labels(ctx, image)
		if err != nil {
			log.Printf("[session] label pass failed: %v", err)
		} else {
			hint = vision.WithLabels(hint, labels)
		}
	}
	items, err := s.analyzer.Analyze(ctx, image, contentType, hint)
	if errors.Is(err, vision.ErrNoItemsDetected) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if len(items) == 0 {
		return nil, vision.ErrNoItemsDetected
	}
	return items, nil
}

// EditMealItems replaces a meal's items with the user's edited list.
func (s *Session) EditMealItems(ctx context.Context, id string, items []nutrition.FoodItem) (nutrition.MealLog, error) {
	if len(items) == 0 {
		return nutrition.MealLog{}, ErrEmptyItemList
	}
	return s.updateMeal(ctx, id, func(m *nutrition.MealLog) { m.EditItems(items) })
}

// Reanalyze re-runs the vision call on the stored image and merges the fresh
// estimates, keeping every user-corrected item.
func (s *Session) Reanalyze(ctx context.Context, id, contextHint string) (nutrition.MealLog, error) {
	meal, err := s.Meal(id)
	if err != nil {
		return nutrition.MealLog{}, err
	}
	if meal.ImageRef == "" {
		return nutrition.MealLog{}, ErrNoImage
	}
	image, contentType, err := s.images.Get(ctx, meal.ImageRef)
	if err != nil {
		return nutrition.MealLog{}, fmt.Errorf("load image: %w", err)
	}
	items, err := s.analyze(ctx, image, contentType, contextHint)
	if err != nil {
		return nutrition.MealLog{}, err
	}
	return s.updateMeal(ctx, id, func(m *nutrition.MealLog) { m.MergeReanalysis(items) })
}

func (s *Session) updateMeal(ctx context.Context, id string, mutate func(*nutrition.MealLog)) (nutrition.MealLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nutrition.MealLog{}, ErrMealNotFound
	}

	meals := slices.Clone(s.meals)
	mutate(&meals[i])
	if err := s.repo.SaveMeals(ctx, meals); err != nil {
		return nutrition.MealLog{}, err
	}
	s.meals = meals
	return meals[i], nil
}

// DeleteMeal removes a meal and its image.
func (s *Session) DeleteMeal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrMealNotFound
	}
	ref := s.meals[i].ImageRef

	meals := slices.Delete(slices.Clone(s.meals), i, i+1)
	if err := s.repo.SaveMeals(ctx, meals); err != nil {
		return err
	}
	s.meals = meals

	if ref != "" {
		if err := s.images.Delete(ctx, ref); err != nil {
			log.Printf("[session] delete image %s: %v", ref, err)
		}
	}
	return nil
}

// MealImage returns the stored photo for a meal.
func (s *Session) MealImage(ctx context.Context, id string) ([]byte, string, error) {
	meal, err := s.Meal(id)
	if err != nil {
		return nil, "", err
	}
	if meal.ImageRef == "" {
		return nil, "", ErrNoImage
	}
	return s.images.Get(ctx, meal.ImageRef)
}

/* ─── Water ──────────────────────────────────────────────────────────── */

// LogWater adds ml to today's local total and returns the new total.
func (s *Session) LogWater(ctx context.Context, ml float64) (string, float64, error) {
	key := s.clock.DateKey(s.clock.Today())

	s.mu.Lock()
	defer s.mu.Unlock()
	water := s.water.Clone()
	total, err := water.Add(key, ml)
	if err != nil {
		return "", 0, err
	}
	if err := s.repo.SaveWater(ctx, water); err != nil {
		return "", 0, err
	}
	s.water = water
	return key, total, nil
}

// WaterOn returns the amount logged on a local date key.
func (s *Session) WaterOn(dateKey string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.water.On(dateKey)
}

// Today returns today's local date key.
func (s *Session) Today() string {
	return s.clock.DateKey(s.clock.Today())
}

/* ─── Reports ────────────────────────────────────────────────────────── */

// snapshot copies the logs for a pure aggregation call.
func (s *Session) snapshot() ([]nutrition.MealLog, nutrition.WaterLog, *metabolic.Profile) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.meals), s.water.Clone(), s.profile
}

func (s *Session) DailySummaries(windowDays int) []analytics.DailySummary {
	meals, water, _ := s.snapshot()
	return analytics.DailySummaries(meals, water, windowDays, s.clock)
}

// WeeklyReport returns analytics.ErrNoData when the last 7 days are empty.
func (s *Session) WeeklyReport() (analytics.WeeklyReport, error) {
	meals, water, profile := s.snapshot()
	if profile == nil {
		return analytics.WeeklyReport{}, ErrNoProfile
	}
	return analytics.GenerateWeeklyReport(meals, water, *profile, s.clock)
}

func (s *Session) Dashboard() (analytics.DayStatus, error) {
	meals, water, profile := s.snapshot()
	if profile == nil {
		return analytics.DayStatus{}, ErrNoProfile
	}
	return analytics.Dashboard(meals, water, *profile, s.clock), nil
}

// SummaryExport renders windowDays of summaries as CSV with its download name.
func (s *Session) SummaryExport(windowDays int) (filename, body string) {
	return analytics.ExportFilename("summary", s.clock.Today()), analytics.SummariesCSV(s.DailySummaries(windowDays))
}

// MealExport renders the full meal log as CSV with its download name.
func (s *Session) MealExport() (string, string, error) {
	body, err := analytics.MealsCSV(s.Meals())
	if err != nil {
		return "", "", err
	}
	return analytics.ExportFilename("meals", s.clock.Today()), body, nil
}

/* ─── Reset ──────────────────────────────────────────────────────────── */

// Reset deletes every record and every stored meal image. When the records
// cannot all be deleted, the in-memory state is re-read from the store so it
// matches whatever survived, and no image is touched.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Reset(ctx); err != nil {
		if rerr := s.reload(ctx); rerr != nil {
			log.Printf("[session] reload after failed reset: %v", rerr)
			return errors.Join(err, rerr)
		}
		return err
	}

	var errs []error
	for _, m := range s.meals {
		if m.ImageRef == "" {
			continue
		}
		if err := s.images.Delete(ctx, m.ImageRef); err != nil && !errors.Is(err, imagestore.ErrNotFound) {
			errs = append(errs, err)
		}
	}

	s.profile = nil
	s.meals = []nutrition.MealLog{}
	s.water = nutrition.WaterLog{}
	log.Printf("[session] reset all data")
	return errors.Join(errs...)
}
