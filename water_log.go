package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/nutrivision-go-api/internal/dayclock"
)

// getWater returns the water logged on a local date, with the daily target
// when a profile exists.
// GET /api/water?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getWater(c *gin.Context) {
	date := c.DefaultQuery("date", h.sess.Today())

	// Validate date format before the lookup; an invalid key silently reads 0.
	t, err := time.Parse(dayclock.DateLayout, date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	resp := waterDay{Date: DateOnly{t}, AmountMl: h.sess.WaterOn(date)}
	if p, err := h.sess.Profile(); err == nil {
		target := p.Targets().WaterMl
		resp.TargetMl = &target
	}
	c.JSON(http.StatusOK, resp)
}

// logWater adds to today's water total. Logging is additive only.
// POST /api/water. Body: { "amount_ml": 250 }.
func (h *Handler) logWater(c *gin.Context) {
	var body waterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.AmountMl > 10000 {
		apiError(c, http.StatusBadRequest, "amount_ml must be at most 10000")
		return
	}

	date, total, err := h.sess.LogWater(c.Request.Context(), body.AmountMl)
	if err != nil {
		sessionError(c, err, "failed to log water")
		return
	}
	t, _ := time.Parse(dayclock.DateLayout, date)
	c.JSON(http.StatusCreated, waterDay{Date: DateOnly{t}, AmountMl: total})
}
