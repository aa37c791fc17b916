package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrivision-go-api/internal/nutrition"
)

func imageURL(m nutrition.MealLog) string {
	if m.ImageRef == "" {
		return ""
	}
	return "/api/meals/" + m.ID + "/image"
}

// listMeals returns every logged meal, newest first.
// GET /api/meals. Returns an empty array (not null) when nothing is logged.
func (h *Handler) listMeals(c *gin.Context) {
	meals := h.sess.Meals()
	out := make([]mealSummary, len(meals))
	for i, m := range meals {
		out[i] = mealSummary{Meal: m, ImageURL: imageURL(m)}
	}
	c.JSON(http.StatusOK, out)
}

// getMeal returns one meal with its items, totals and uncertainty range.
// GET /api/meals/:id.
func (h *Handler) getMeal(c *gin.Context) {
	m, err := h.sess.Meal(c.Param("id"))
	if err != nil {
		sessionError(c, err, "failed to fetch meal")
		return
	}
	c.JSON(http.StatusOK, mealSummary{Meal: m, ImageURL: imageURL(m)})
}

// getMealImage streams the stored photo with its sniffed content type.
// GET /api/meals/:id/image.
func (h *Handler) getMealImage(c *gin.Context) {
	data, contentType, err := h.sess.MealImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		sessionError(c, err, "failed to fetch image")
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

// updateMealItems replaces a meal's item list with the user's edit. Changed
// and added items are flagged as corrected, which narrows the meal's
// uncertainty range.
// PUT /api/meals/:id/items. Body: { "items": [...] }.
func (h *Handler) updateMealItems(c *gin.Context) {
	var body updateItemsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, it := range body.Items {
		if it.Calories < 0 || it.Protein < 0 || it.Fat < 0 || it.Carbs < 0 || it.PortionGrams < 0 {
			apiError(c, http.StatusBadRequest, "item values must not be negative")
			return
		}
	}

	m, err := h.sess.EditMealItems(c.Request.Context(), c.Param("id"), body.Items)
	if err != nil {
		sessionError(c, err, "failed to update meal")
		return
	}
	c.JSON(http.StatusOK, mealSummary{Meal: m, ImageURL: imageURL(m)})
}

// deleteMeal removes a meal and its stored image.
// DELETE /api/meals/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteMeal(c *gin.Context) {
	if err := h.sess.DeleteMeal(c.Request.Context(), c.Param("id")); err != nil {
		sessionError(c, err, "failed to delete meal")
		return
	}
	c.Status(http.StatusNoContent)
}
