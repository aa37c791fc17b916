package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// setupMockOpenAI starts a mock chat completions server and returns a client
// pointed at it plus a function to set the next response. The last request
// body is captured for assertions.
func setupMockOpenAI(t *testing.T) (*OpenAIClient, func(int, interface{}), *chatRequest) {
	t.Helper()
	var mockStatus int
	var mockBody interface{}
	var lastReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var raw map[string]json.RawMessage
		json.NewDecoder(r.Body).Decode(&raw)
		json.Unmarshal(raw["model"], &lastReq.Model)
		lastReq.Messages = nil
		var msgs []map[string]json.RawMessage
		json.Unmarshal(raw["messages"], &msgs)
		for _, m := range msgs {
			var role string
			json.Unmarshal(m["role"], &role)
			lastReq.Messages = append(lastReq.Messages, chatMessage{Role: role, Content: string(m["content"])})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))
	t.Cleanup(srv.Close)

	c := NewOpenAIClient(OpenAIOptions{BaseURL: srv.URL, APIKey: "test-key", Timeout: 5 * time.Second})
	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}
	return c, setMock, &lastReq
}

// chatResponse wraps content in the chat completions response shape.
func chatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
}

var jpegBytes = []byte("\xff\xd8\xff\xe0fake-jpeg")

/* ─── OpenAIClient ───────────────────────────────────────────────────── */

func TestAnalyze_Success(t *testing.T) {
	c, setMock, lastReq := setupMockOpenAI(t)
	setMock(http.StatusOK, chatResponse(`{"items":[
		{"id":"1","name":"Grilled Chicken","portion_grams":150,"calories":250,"protein":46,"fat":5,"carbs":0,"confidence":0.9},
		{"id":"2","name":"Rice","portion_grams":180,"calories":230,"protein":4,"fat":1,"carbs":50,"sodium":5,"confidence":0.8,"is_user_corrected":true}
	]}`))

	items, err := c.Analyze(context.Background(), jpegBytes, "image/jpeg", "Reference: Coin (Standard 24mm). Notes: ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Grilled Chicken" || items[0].Calories != 250 || items[0].Protein != 46 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].SodiumMg == nil || *items[1].SodiumMg != 5 {
		t.Errorf("expected sodium 5, got %v", items[1].SodiumMg)
	}
	// The model can never claim an item was user-corrected.
	if items[1].UserCorrected {
		t.Error("expected fresh estimates to be uncorrected")
	}

	if lastReq.Model != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, lastReq.Model)
	}
	if len(lastReq.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(lastReq.Messages))
	}
	user := lastReq.Messages[1].Content.(string)
	if !strings.Contains(user, "data:image/jpeg;base64,") {
		t.Error("expected the image inlined as a data URI")
	}
	if !strings.Contains(user, "Standard 24mm") {
		t.Error("expected the context hint in the user message")
	}
}

func TestAnalyze_NoItems(t *testing.T) {
	c, setMock, _ := setupMockOpenAI(t)
	setMock(http.StatusOK, chatResponse(`{"items":[]}`))

	_, err := c.Analyze(context.Background(), jpegBytes, "image/jpeg", "")
	if !errors.Is(err, ErrNoItemsDetected) {
		t.Fatalf("expected ErrNoItemsDetected, got %v", err)
	}
}

// Upstream failures are returned with the service's message preserved.
func TestAnalyze_UpstreamError(t *testing.T) {
	c, setMock, _ := setupMockOpenAI(t)
	setMock(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})

	_, err := c.Analyze(context.Background(), jpegBytes, "image/jpeg", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected status and message in error, got %v", err)
	}
}

func TestAnalyze_MalformedContent(t *testing.T) {
	c, setMock, _ := setupMockOpenAI(t)
	setMock(http.StatusOK, chatResponse(`not json`))

	_, err := c.Analyze(context.Background(), jpegBytes, "image/jpeg", "")
	if err == nil || errors.Is(err, ErrNoItemsDetected) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestAnalyze_MissingAPIKey(t *testing.T) {
	c := NewOpenAIClient(OpenAIOptions{BaseURL: "http://127.0.0.1:0"})
	if _, err := c.Analyze(context.Background(), jpegBytes, "image/jpeg", ""); err == nil {
		t.Fatal("expected error without API key")
	}
}

/* ─── Hints ──────────────────────────────────────────────────────────── */

func TestBuildHint(t *testing.T) {
	ref, err := LookupReference("plate")
	if err != nil {
		t.Fatal(err)
	}
	got := BuildHint(ref, "  oversized bowl ")
	want := "Reference: Plate (Standard 10-inch). Notes: oversized bowl"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	def, _ := LookupReference("")
	if def.ID != "auto" {
		t.Errorf("expected auto default, got %s", def.ID)
	}
	if _, err := LookupReference("spoon"); err == nil {
		t.Error("expected error for unknown reference")
	}
}

func TestWithLabels(t *testing.T) {
	if got := WithLabels("h", nil); got != "h" {
		t.Errorf("expected unchanged hint, got %q", got)
	}
	if got := WithLabels("h", []string{"Food", "Pizza"}); got != "h Detected labels: Food, Pizza." {
		t.Errorf("unexpected hint %q", got)
	}
}

/* ─── Rekognition ────────────────────────────────────────────────────── */

type fakeRekognition struct {
	in *rekognition.DetectLabelsInput
}

func (f *fakeRekognition) DetectLabels(_ context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.in = in
	return &rekognition.DetectLabelsOutput{Labels: []types.Label{
		{Name: aws.String("Food")},
		{Name: nil},
		{Name: aws.String("Salad")},
	}}, nil
}

func TestRekognitionHinter_Labels(t *testing.T) {
	fake := &fakeRekognition{}
	h := &RekognitionHinter{client: fake, maxLabels: 5, minConfidence: 75}

	labels, err := h.Labels(context.Background(), jpegBytes)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(labels, ",") != "Food,Salad" {
		t.Errorf("unexpected labels %v", labels)
	}
	if aws.ToInt32(fake.in.MaxLabels) != 5 || aws.ToFloat32(fake.in.MinConfidence) != 75 {
		t.Errorf("unexpected request %+v", fake.in)
	}
}
