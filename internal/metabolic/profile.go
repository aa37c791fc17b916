package metabolic

import "fmt"

// ProfileInput is the biometric data entered at onboarding or on settings save.
type ProfileInput struct {
	Age            float64       `json:"age"`
	Sex            Sex           `json:"sex"`
	HeightCm       float64       `json:"height_cm"`
	WeightKg       float64       `json:"weight_kg"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
	TargetWeightKg float64       `json:"target_weight_kg"`
}

// Validate checks the closed enums. Numeric ranges are not rejected here:
// negative biometrics are absorbed by the BMR fallback.
func (in ProfileInput) Validate() error {
	if !in.Sex.Valid() {
		return fmt.Errorf("sex must be MALE or FEMALE (got %q)", in.Sex)
	}
	if !in.ActivityLevel.Valid() {
		return fmt.Errorf("invalid activity level %d", int(in.ActivityLevel))
	}
	return nil
}

// Profile is the persisted user profile with its derived energy figures.
// Build it with NewProfile so the derived fields always match the inputs.
type Profile struct {
	ProfileInput

	BMR                float64 `json:"bmr"`
	TDEE               float64 `json:"tdee"`
	DailyCalorieTarget float64 `json:"daily_calorie_target"`
}

// NewProfile derives BMR, TDEE and the daily calorie target from in.
func NewProfile(in ProfileInput) Profile {
	bmr := CalculateBMR(in.Age, in.Sex, in.WeightKg, in.HeightCm)
	tdee := CalculateTDEE(bmr, in.ActivityLevel)
	return Profile{
		ProfileInput:       in,
		BMR:                bmr,
		TDEE:               tdee,
		DailyCalorieTarget: DailyCalorieTarget(tdee, in.WeightKg, in.TargetWeightKg),
	}
}

// Targets bundles every daily target derived from a profile.
type Targets struct {
	BMR         float64      `json:"bmr"`
	TDEE        float64      `json:"tdee"`
	CalorieGoal float64      `json:"daily_calorie_target"`
	Macros      MacroTargets `json:"macros"`
	WaterMl     float64      `json:"water_ml"`
}

// Targets returns the macro and hydration targets for p.
func (p Profile) Targets() Targets {
	return Targets{
		BMR:         p.BMR,
		TDEE:        p.TDEE,
		CalorieGoal: p.DailyCalorieTarget,
		Macros:      CalculateMacroTargets(p.TDEE, p.WeightKg),
		WaterMl:     CalculateWaterTarget(p.WeightKg, p.ActivityLevel),
	}
}
