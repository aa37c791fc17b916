// Package vision turns a meal photo into estimated food items. The estimate
// comes from an OpenAI-compatible chat completions endpoint; an optional
// Rekognition label pass can add detected labels to the context hint.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lg/nutrivision-go-api/internal/nutrition"
)

// ErrNoItemsDetected is returned when the model answers but finds no food.
var ErrNoItemsDetected = errors.New("plate decomposition failed: no items detected")

// Analyzer estimates the food items in an image. contextHint carries scale
// references and user notes; it may be empty.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, contentType, contextHint string) ([]nutrition.FoodItem, error)
}

// Hinter returns short labels describing an image.
type Hinter interface {
	Labels(ctx context.Context, image []byte) ([]string, error)
}

/* ─── Scale references ───────────────────────────────────────────────── */

// Reference is an object of known size placed next to the meal for scale.
type Reference struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// References lists the supported scale references; the first is the default.
var References = []Reference{
	{ID: "auto", Label: "Auto", Description: "Internal calibration"},
	{ID: "card", Label: "Card", Description: "Credit card size"},
	{ID: "coin", Label: "Coin", Description: "Standard 24mm"},
	{ID: "plate", Label: "Plate", Description: "Standard 10-inch"},
	{ID: "fork", Label: "Fork", Description: "Standard length"},
}

// LookupReference returns the reference with id, or the default for "".
func LookupReference(id string) (Reference, error) {
	if id == "" {
		return References[0], nil
	}
	for _, r := range References {
		if r.ID == id {
			return r, nil
		}
	}
	return Reference{}, fmt.Errorf("unknown reference object %q", id)
}

// BuildHint formats the context hint sent with the image.
func BuildHint(ref Reference, notes string) string {
	return fmt.Sprintf("Reference: %s (%s). Notes: %s", ref.Label, ref.Description, strings.TrimSpace(notes))
}

// WithLabels appends pre-detected labels to hint.
func WithLabels(hint string, labels []string) string {
	if len(labels) == 0 {
		return hint
	}
	return hint + " Detected labels: " + strings.Join(labels, ", ") + "."
}
