package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	"github.com/smarttimetable/timetable-ace-api/pkg/config"
)

// GeminiEngine calls the Generative Language REST API. Each Generate call is
// a single best-effort request: no retry loop, the HTTP client timeout is the
// only deadline this layer adds.
type GeminiEngine struct {
	apiKey          string
	baseURL         string
	model           string
	temperature     float64
	maxOutputTokens int
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewGeminiEngine constructs the engine from configuration.
func NewGeminiEngine(cfg config.GeneratorConfig, logger *zap.Logger) *GeminiEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &GeminiEngine{
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		model:           model,
		temperature:     cfg.Temperature,
		maxOutputTokens: maxTokens,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
	}
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64                `json:"temperature"`
	MaxOutputTokens  int                    `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseJsonSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate posts the payload and decodes the structured outcome. Missing
// slices are normalized to empty and a missing report gets the fixed
// fallback text so callers can rely on the outcome shape.
func (e *GeminiEngine) Generate(ctx context.Context, payload dto.EnginePayload) (*GenerationOutcome, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("generator API key not configured")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: userPrompt(payload.StudentData, payload.FacultyData, payload.CourseData, payload.RoomData, payload.Constraints)}},
		}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      e.temperature,
			MaxOutputTokens:  e.maxOutputTokens,
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal engine request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", e.baseURL, e.model, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse engine response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("engine error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("engine returned no candidates")
	}

	var text strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	var outcome GenerationOutcome
	if err := json.Unmarshal([]byte(strings.TrimSpace(text.String())), &outcome); err != nil {
		return nil, fmt.Errorf("decode generation outcome: %w", err)
	}

	if outcome.Timetable == nil {
		outcome.Timetable = []models.TimetableEntry{}
	}
	if outcome.Conflicts == nil {
		outcome.Conflicts = []models.Conflict{}
	}
	if strings.TrimSpace(outcome.Report) == "" {
		outcome.Report = fallbackReport
	}

	e.logger.Info("generation_engine_call",
		zap.String("model", e.model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("timetable_entries", len(outcome.Timetable)),
		zap.Int("conflicts", len(outcome.Conflicts)),
	)
	return &outcome, nil
}
