package main

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrivision-go-api/internal/session"
	"lg/nutrivision-go-api/internal/vision"
)

// maxImageBytes caps a single meal photo.
const maxImageBytes = 10 << 20

// captureError reports capture and re-analysis failures. Only a failed vision
// call is returned as 502 with the upstream message, so the user can decide
// whether to retry; local failures go through sessionError.
func captureError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrAnalysisFailed) && !errors.Is(err, vision.ErrNoItemsDetected) {
		log.Printf("[capture] analysis error: %v", err)
		apiError(c, http.StatusBadGateway, err.Error())
		return
	}
	sessionError(c, err, "failed to save meal")
}

// captureMeal handles POST /api/meals/capture (multipart/form-data).
// Fields: "image" (file, required), "reference" (scale reference id,
// optional), "notes" (free text, optional). The photo is analysed, stored
// and the resulting meal prepended to the log.
func (h *Handler) captureMeal(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		apiError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fh.Size > maxImageBytes {
		apiError(c, http.StatusRequestEntityTooLarge, "image must be 10MB or smaller")
		return
	}
	ref, err := vision.LookupReference(c.PostForm("reference"))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		apiError(c, http.StatusBadRequest, "could not read image")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		apiError(c, http.StatusBadRequest, "could not read image")
		return
	}
	if len(data) > maxImageBytes {
		apiError(c, http.StatusRequestEntityTooLarge, "image must be 10MB or smaller")
		return
	}

	meal, err := h.sess.CaptureMeal(c.Request.Context(), data, vision.BuildHint(ref, c.PostForm("notes")))
	if err != nil {
		captureError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mealSummary{Meal: meal, ImageURL: imageURL(meal)})
}

// reanalyzeMeal re-runs analysis on a meal's stored photo. Items the user
// corrected are kept; the rest are replaced by the fresh estimate.
// POST /api/meals/:id/reanalyze. Body (optional): { "reference", "notes" }.
func (h *Handler) reanalyzeMeal(c *gin.Context) {
	var body reanalyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			apiError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	ref, err := vision.LookupReference(body.Reference)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	meal, err := h.sess.Reanalyze(c.Request.Context(), c.Param("id"), vision.BuildHint(ref, body.Notes))
	if err != nil {
		captureError(c, err)
		return
	}
	c.JSON(http.StatusOK, mealSummary{Meal: meal, ImageURL: imageURL(meal)})
}
