package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrivision-go-api/internal/metabolic"
)

// getProfile returns the saved profile with BMR, TDEE and calorie target.
// GET /api/profile. 404 until onboarding has saved one.
func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.sess.Profile()
	if err != nil {
		sessionError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// putProfile saves the biometric profile (onboarding and settings both use
// this). Derived figures are recomputed on every save so they can never
// drift from the inputs.
// PUT /api/profile.
func (h *Handler) putProfile(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Age == nil || body.Sex == nil || body.HeightCm == nil || body.WeightKg == nil ||
		body.ActivityLevel == nil || body.TargetWeightKg == nil {
		apiError(c, http.StatusBadRequest, "age, sex, height_cm, weight_kg, activity_level and target_weight_kg are required")
		return
	}

	in := metabolic.ProfileInput{
		Age:            *body.Age,
		Sex:            *body.Sex,
		HeightCm:       *body.HeightCm,
		WeightKg:       *body.WeightKg,
		ActivityLevel:  *body.ActivityLevel,
		TargetWeightKg: *body.TargetWeightKg,
	}
	// Validate enums here so the client gets a 400 with the reason.
	if err := in.Validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.sess.SaveProfile(c.Request.Context(), in)
	if err != nil {
		sessionError(c, err, "failed to save profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// getTargets returns the macro and hydration targets derived from the profile.
// GET /api/profile/targets.
func (h *Handler) getTargets(c *gin.Context) {
	p, err := h.sess.Profile()
	if err != nil {
		sessionError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p.Targets())
}

// getProfileOptions lists the activity tiers for the onboarding form.
// GET /api/profile/options.
func (h *Handler) getProfileOptions(c *gin.Context) {
	levels := metabolic.ActivityLevels()
	opts := make([]profileOption, len(levels))
	for i, l := range levels {
		opts[i] = profileOption{Value: l, Multiplier: l.Multiplier(), Description: l.Description()}
	}
	c.JSON(http.StatusOK, gin.H{
		"activity_levels": opts,
		"sexes":           []metabolic.Sex{metabolic.Male, metabolic.Female},
	})
}
