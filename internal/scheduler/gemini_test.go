package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/pkg/config"
)

func geminiBody(t *testing.T, text string) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func testEngine(baseURL string) *GeminiEngine {
	return NewGeminiEngine(config.GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestGeminiEngineGenerate(t *testing.T) {
	var gotPath string
	var gotReq map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiBody(t, `{"timetable":[{"day":"Monday","timeSlot":"09:00 - 10:00","courseCode":"CS301","courseName":"Algorithms","faculty":"Dr. Iyer","room":"Lab 1"}],"conflicts":[],"report":"dense"}`))
	}))
	defer srv.Close()

	engine := testEngine(srv.URL)
	outcome, err := engine.Generate(context.Background(), dto.EnginePayload{
		StudentData: "[]", FacultyData: "[]", CourseData: "[]", RoomData: "[]", Constraints: "{}",
	})
	require.NoError(t, err)
	require.Len(t, outcome.Timetable, 1)
	assert.Equal(t, "CS301", outcome.Timetable[0].CourseCode)
	assert.Equal(t, "dense", outcome.Report)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)

	genCfg, ok := gotReq["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
}

func TestGeminiEngineNormalizesMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiBody(t, `{"report":""}`))
	}))
	defer srv.Close()

	outcome, err := testEngine(srv.URL).Generate(context.Background(), dto.EnginePayload{})
	require.NoError(t, err)
	assert.NotNil(t, outcome.Timetable)
	assert.Empty(t, outcome.Timetable)
	assert.NotNil(t, outcome.Conflicts)
	assert.Equal(t, fallbackReport, outcome.Report)
}

func TestGeminiEngineUpstreamErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testEngine(srv.URL).Generate(context.Background(), dto.EnginePayload{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGeminiEngineRequiresAPIKey(t *testing.T) {
	engine := NewGeminiEngine(config.GeneratorConfig{}, nil)
	_, err := engine.Generate(context.Background(), dto.EnginePayload{})
	require.Error(t, err)
}
