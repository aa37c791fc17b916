// Package metabolic maps biometric inputs to energy, macro and hydration
// targets. Every function is pure and total.
package metabolic

import (
	"log"
	"math"
)

const (
	// FallbackBMR is returned when any biometric input is negative.
	FallbackBMR = 1500.0

	// KcalPerKg is the energy content of ~1 kg of adipose tissue.
	KcalPerKg = 7700.0

	ProteinKcalPerGram = 4.0
	CarbsKcalPerGram   = 4.0
	FatKcalPerGram     = 9.0

	// GoalStepKcal is the fixed daily deficit/surplus applied by the goal policy.
	GoalStepKcal = 500.0
)

// MacroTargets holds daily macronutrient targets in grams.
type MacroTargets struct {
	Protein float64 `json:"protein_g"`
	Fat     float64 `json:"fat_g"`
	Carbs   float64 `json:"carbs_g"`
}

// CalculateBMR computes basal metabolic rate via Mifflin-St Jeor.
// Negative inputs are logged and replaced by FallbackBMR rather than producing
// a nonsensical (possibly negative) rate.
func CalculateBMR(age float64, sex Sex, weightKg, heightCm float64) float64 {
	if age < 0 || weightKg < 0 || heightCm < 0 {
		log.Printf("[metabolic] invalid inputs age=%v weight=%v height=%v, using fallback BMR", age, weightKg, heightCm)
		return FallbackBMR
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*age
	if sex == Male {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateTDEE scales BMR by the activity tier multiplier.
func CalculateTDEE(bmr float64, level ActivityLevel) float64 {
	return bmr * level.Multiplier()
}

// CalculateMacroTargets partitions TDEE: protein 1.8 g/kg, fat 0.8 g/kg, carbs
// take the remaining energy. Remaining energy is clamped at zero so a low TDEE
// with a heavy body weight never yields negative carbs.
func CalculateMacroTargets(tdee, weightKg float64) MacroTargets {
	protein := math.Round(weightKg * 1.8)
	fat := math.Round(weightKg * 0.8)

	remaining := math.Max(0, tdee-(protein*ProteinKcalPerGram+fat*FatKcalPerGram))
	return MacroTargets{
		Protein: protein,
		Fat:     fat,
		Carbs:   math.Round(remaining / CarbsKcalPerGram),
	}
}

// CalculateWaterTarget returns the daily hydration target in ml: 35 ml/kg plus
// 1000 ml per unit of multiplier above sedentary.
func CalculateWaterTarget(weightKg float64, level ActivityLevel) float64 {
	baseline := weightKg * 35
	adder := math.Max(0, (level.Multiplier()-Sedentary.Multiplier())*1000)
	return math.Round(baseline + adder)
}

// PredictWeightChange converts a net energy balance (kcal) to kg.
func PredictWeightChange(netEnergyKcal float64) float64 {
	return netEnergyKcal / KcalPerKg
}

// DailyCalorieTarget applies the goal policy: a fixed 500 kcal deficit when
// losing, a 500 kcal surplus when gaining, maintenance otherwise.
func DailyCalorieTarget(tdee, currentWeightKg, targetWeightKg float64) float64 {
	switch {
	case targetWeightKg < currentWeightKg:
		return tdee - GoalStepKcal
	case targetWeightKg > currentWeightKg:
		return tdee + GoalStepKcal
	default:
		return tdee
	}
}
