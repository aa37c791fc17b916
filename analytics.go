package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getDashboard returns today's intake against the profile targets.
// GET /api/dashboard.
func (h *Handler) getDashboard(c *gin.Context) {
	st, err := h.sess.Dashboard()
	if err != nil {
		sessionError(c, err, "failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, st)
}

// getDailySummaries returns one summary per local day, today first. Days
// without logs are included with zero totals.
// GET /api/analytics/daily?days=N (defaults to 7).
func (h *Handler) getDailySummaries(c *gin.Context) {
	days, ok := daysParam(c, 7)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sess.DailySummaries(days))
}

// getWeeklyReport returns the 7-day compliance report. An empty week is a 422
// with a guidance message rather than a report of zeros.
// GET /api/analytics/weekly.
func (h *Handler) getWeeklyReport(c *gin.Context) {
	r, err := h.sess.WeeklyReport()
	if err != nil {
		sessionError(c, err, "failed to build weekly report")
		return
	}
	c.JSON(http.StatusOK, r)
}

// exportSummaryCSV downloads the daily summaries as CSV.
// GET /api/export/summary.csv?days=N (defaults to 30).
func (h *Handler) exportSummaryCSV(c *gin.Context) {
	days, ok := daysParam(c, 30)
	if !ok {
		return
	}
	name, body := h.sess.SummaryExport(days)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// exportMealsCSV downloads every meal as one CSV row.
// GET /api/export/meals.csv.
func (h *Handler) exportMealsCSV(c *gin.Context) {
	name, body, err := h.sess.MealExport()
	if err != nil {
		sessionError(c, err, "failed to export meals")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// resetAll deletes the profile, every meal and image, and the water log.
// POST /api/reset.
func (h *Handler) resetAll(c *gin.Context) {
	if err := h.sess.Reset(c.Request.Context()); err != nil {
		sessionError(c, err, "failed to reset data")
		return
	}
	c.Status(http.StatusNoContent)
}
