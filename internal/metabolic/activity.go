package metabolic

import (
	"encoding/json"
	"fmt"
)

// ActivityLevel is one of the five fixed activity tiers. Each tier carries its
// TDEE multiplier; code never compares raw floats to identify a tier.
type ActivityLevel int

const (
	Sedentary ActivityLevel = iota + 1
	LightlyActive
	ModeratelyActive
	VeryActive
	ExtremelyActive
)

// activityLevels is the single source of truth for valid tiers: wire name,
// multiplier and a short description shown to the user.
var activityLevels = map[ActivityLevel]struct {
	name        string
	multiplier  float64
	description string
}{
	Sedentary:        {"sedentary", 1.2, "Little to no exercise."},
	LightlyActive:    {"light", 1.375, "Exercise 1-3 times/week."},
	ModeratelyActive: {"moderate", 1.55, "Exercise 4-5 times/week."},
	VeryActive:       {"active", 1.725, "Intense exercise 6-7 times/week."},
	ExtremelyActive:  {"very_active", 1.9, "Very intense daily exercise or physical job."},
}

// ActivityLevels lists the tiers from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, VeryActive, ExtremelyActive}
}

// Valid reports whether a is one of the five defined tiers.
func (a ActivityLevel) Valid() bool {
	_, ok := activityLevels[a]
	return ok
}

// Multiplier returns the TDEE multiplier. Unknown values fall back to the
// sedentary multiplier so a corrupted record never inflates targets.
func (a ActivityLevel) Multiplier() float64 {
	if l, ok := activityLevels[a]; ok {
		return l.multiplier
	}
	return activityLevels[Sedentary].multiplier
}

// Description is the short explanation shown next to the tier.
func (a ActivityLevel) Description() string {
	return activityLevels[a].description
}

// String returns the wire name, e.g. "moderate".
func (a ActivityLevel) String() string {
	if l, ok := activityLevels[a]; ok {
		return l.name
	}
	return fmt.Sprintf("ActivityLevel(%d)", int(a))
}

// ParseActivityLevel maps a wire name ("sedentary", "light", "moderate",
// "active", "very_active") to its tier.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	for lvl, l := range activityLevels {
		if l.name == s {
			return lvl, nil
		}
	}
	return 0, fmt.Errorf("activity_level must be one of: sedentary, light, moderate, active, very_active (got %q)", s)
}

func (a ActivityLevel) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid activity level %d", int(a))
	}
	return json.Marshal(a.String())
}

func (a *ActivityLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	lvl, err := ParseActivityLevel(s)
	if err != nil {
		return err
	}
	*a = lvl
	return nil
}

// Sex is the biological sex used by the Mifflin-St Jeor constant.
type Sex string

const (
	Male   Sex = "MALE"
	Female Sex = "FEMALE"
)

// Valid reports whether s is MALE or FEMALE.
func (s Sex) Valid() bool { return s == Male || s == Female }
