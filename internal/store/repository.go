package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lg/nutrivision-go-api/internal/metabolic"
	"lg/nutrivision-go-api/internal/nutrition"
)

// Repository reads and writes the typed session records over a Store.
type Repository struct {
	kv Store
}

func NewRepository(kv Store) *Repository {
	return &Repository{kv: kv}
}

// LoadProfile returns nil when no profile has been saved. Derived fields are
// recomputed from the stored biometrics so they never go stale.
func (r *Repository) LoadProfile(ctx context.Context) (*metabolic.Profile, error) {
	var p metabolic.Profile
	found, err := r.load(ctx, KeyProfile, &p)
	if err != nil || !found {
		return nil, err
	}
	p = metabolic.NewProfile(p.ProfileInput)
	return &p, nil
}

func (r *Repository) SaveProfile(ctx context.Context, p metabolic.Profile) error {
	return r.save(ctx, KeyProfile, p)
}

// LoadMeals returns an empty slice when nothing has been saved.
func (r *Repository) LoadMeals(ctx context.Context) ([]nutrition.MealLog, error) {
	meals := []nutrition.MealLog{}
	if _, err := r.load(ctx, KeyMeals, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *Repository) SaveMeals(ctx context.Context, meals []nutrition.MealLog) error {
	if meals == nil {
		meals = []nutrition.MealLog{}
	}
	return r.save(ctx, KeyMeals, meals)
}

// LoadWater returns an empty log when nothing has been saved.
func (r *Repository) LoadWater(ctx context.Context) (nutrition.WaterLog, error) {
	water := nutrition.WaterLog{}
	if _, err := r.load(ctx, KeyWater, &water); err != nil {
		return nil, err
	}
	if water == nil {
		water = nutrition.WaterLog{}
	}
	return water, nil
}

func (r *Repository) SaveWater(ctx context.Context, water nutrition.WaterLog) error {
	if water == nil {
		water = nutrition.WaterLog{}
	}
	return r.save(ctx, KeyWater, water)
}

// Reset deletes every session record.
func (r *Repository) Reset(ctx context.Context) error {
	var errs []error
	for _, k := range Keys {
		if err := r.kv.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) load(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
