package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"lg/nutrivision-go-api/internal/nutrition"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

const mealSystemPrompt = `You are a quantitative dietitian performing volumetric plate decomposition.
1. Identify every discrete food component in the photo.
2. Infer each component's density from its food type.
3. Estimate its volume in cubic centimetres using the plate, utensils and any reference object.
4. Convert volume to mass in grams.
5. Map mass to nutrient data.

Return a JSON object {"items": [...]} where each item has:
- "id" (string, short unique id)
- "name" (string, common food name)
- "portion_grams" (number)
- "calories" (number, kcal for the whole portion)
- "protein", "fat", "carbs" (number, grams)
- "fiber" (number, grams, optional)
- "sodium" (number, milligrams, optional)
- "confidence" (number 0-1)

Return {"items": []} if the photo contains no food. Return only valid JSON, no explanation.`

// OpenAIClient calls the chat completions API with the image inlined as a
// data URI. Uses raw net/http to avoid pulling in an SDK.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// OpenAIOptions configures NewOpenAIClient. Zero values take the defaults.
type OpenAIOptions struct {
	BaseURL string // overridable for tests
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &OpenAIClient{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		http:    &http.Client{Timeout: opts.Timeout},
	}
}

/* ─── Wire types ─────────────────────────────────────────────────────── */

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentPart
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format"`
}

type analysisResult struct {
	Items []nutrition.FoodItem `json:"items"`
}

/* ─── Analyze ────────────────────────────────────────────────────────── */

// Analyze sends image with contextHint and parses the returned items. An
// empty item list yields ErrNoItemsDetected. No retries.
func (c *OpenAIClient) Analyze(ctx context.Context, image []byte, contentType, contextHint string) ([]nutrition.FoodItem, error) {
	if c.apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if contextHint == "" {
		contextHint = "Standard visual cues."
	}

	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image)
	messages := []chatMessage{
		{Role: "system", Content: mealSystemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: "REFERENCE: " + contextHint},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
		}},
	}

	content, err := c.complete(ctx, messages)
	if err != nil {
		log.Printf("[vision] OpenAI error: %v", err)
		return nil, err
	}

	var result analysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.Printf("[vision] Failed to parse analysis JSON: %v", err)
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, ErrNoItemsDetected
	}
	for i := range result.Items {
		result.Items[i].UserCorrected = false
	}
	return result.Items, nil
}

// complete sends a chat completions request and returns the content string
// of the first choice.
func (c *OpenAIClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
		ResponseFormat: map[string]any{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", errors.New("vision interface returned no content")
	}
	return result.Choices[0].Message.Content, nil
}
