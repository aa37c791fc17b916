package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lg/nutrivision-go-api/internal/analytics"
	"lg/nutrivision-go-api/internal/config"
	"lg/nutrivision-go-api/internal/imagestore"
	"lg/nutrivision-go-api/internal/nutrition"
	"lg/nutrivision-go-api/internal/session"
	"lg/nutrivision-go-api/internal/vision"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	sess *session.Session
}

/* ─── Response helpers ───────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// sessionError maps domain errors to a status and user-facing message.
// Anything unrecognised is logged and reported as fallback.
func sessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrNoProfile):
		apiError(c, http.StatusNotFound, "profile not set up yet")
	case errors.Is(err, session.ErrMealNotFound):
		apiError(c, http.StatusNotFound, "meal not found")
	case errors.Is(err, session.ErrNoImage), errors.Is(err, imagestore.ErrNotFound):
		apiError(c, http.StatusNotFound, "image not found")
	case errors.Is(err, session.ErrEmptyItemList):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, nutrition.ErrInvalidAmount):
		apiError(c, http.StatusBadRequest, "amount_ml must be positive")
	case errors.Is(err, imagestore.ErrUnsupportedType):
		apiError(c, http.StatusUnsupportedMediaType, "upload must be an image")
	case errors.Is(err, vision.ErrNoItemsDetected):
		apiError(c, http.StatusUnprocessableEntity, "Plate decomposition failed. No items detected.")
	case errors.Is(err, analytics.ErrNoData):
		apiError(c, http.StatusUnprocessableEntity, "Not enough data yet. Log meals or water to see your weekly report.")
	default:
		log.Printf("[handler] %s: %v", fallback, err)
		apiError(c, http.StatusInternalServerError, fallback)
	}
}

// daysParam reads ?days=N, defaulting to def and bounded to [1, 366].
func daysParam(c *gin.Context, def int) (int, bool) {
	s := c.Query("days")
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 366 {
		apiError(c, http.StatusBadRequest, "days must be an integer between 1 and 366")
		return 0, false
	}
	return n, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// openImages connects the configured image backend.
func openImages(ctx context.Context, cfg *config.Config) (imagestore.Store, error) {
	if cfg.ImageBackend == config.ImagesS3 {
		return imagestore.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket)
	}
	return imagestore.NewLocalStore(cfg.ImageDir)
}

// newHinter returns the Rekognition label pass when enabled, else nil.
func newHinter(ctx context.Context, cfg *config.Config) (vision.Hinter, error) {
	if !cfg.RekognitionEnabled {
		return nil, nil
	}
	return vision.NewRekognitionHinter(ctx, cfg.AWSRegion)
}

// newRouter builds the engine with CORS for the local web client.
func newRouter(h *Handler, origins []string) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies(nil)

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = origins
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsCfg))

	h.registerRoutes(router)
	return router
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.GET("/profile/targets", h.getTargets)
	api.GET("/profile/options", h.getProfileOptions)

	api.GET("/meals", h.listMeals)
	api.POST("/meals/capture", h.captureMeal)
	api.GET("/meals/:id", h.getMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.GET("/meals/:id/image", h.getMealImage)
	api.PUT("/meals/:id/items", h.updateMealItems)
	api.POST("/meals/:id/reanalyze", h.reanalyzeMeal)

	api.GET("/water", h.getWater)
	api.POST("/water", h.logWater)

	api.GET("/dashboard", h.getDashboard)
	api.GET("/analytics/daily", h.getDailySummaries)
	api.GET("/analytics/weekly", h.getWeeklyReport)
	api.GET("/export/summary.csv", h.exportSummaryCSV)
	api.GET("/export/meals.csv", h.exportMealsCSV)
	api.POST("/reset", h.resetAll)
}
