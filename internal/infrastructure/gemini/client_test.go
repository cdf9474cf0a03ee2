package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/shared/config"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.GeminiConfig{
		APIKey:         "test-key",
		Model:          "gemini-2.0-flash",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}, logger.NewLogger())
}

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

// =====================================================================
// TestGenerateText
// =====================================================================

func TestGenerateText_Success(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		require.NoError(t, json.NewEncoder(w).Encode(candidateResponse("Hello from the model")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	text, err := client.GenerateText(context.Background(), "Say hello")

	require.NoError(t, err)
	assert.Equal(t, "Hello from the model", text)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent?key=test-key", gotPath)
	assert.Contains(t, gotPayload, "contents")
	assert.Contains(t, gotPayload, "generationConfig")
}

func TestGenerateText_MissingAPIKey(t *testing.T) {
	client := NewClient(&config.GeminiConfig{Model: "m", BaseURL: "http://unused"}, logger.NewLogger())

	_, err := client.GenerateText(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestGenerateText_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GenerateText(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateText_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GenerateText(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

// =====================================================================
// TestParseJSONObject
// =====================================================================

func TestParseJSONObject_FencedBlock(t *testing.T) {
	reply := "Here you go:\n```json\n{\"title\": \"Go Engineer\", \"skills\": [\"go\"]}\n```\nLet me know!"

	parsed, ok := ParseJSONObject(reply)

	require.True(t, ok)
	assert.Equal(t, "Go Engineer", parsed["title"])
}

func TestParseJSONObject_BareObject(t *testing.T) {
	parsed, ok := ParseJSONObject(`The result is {"match_score": 85} as requested.`)

	require.True(t, ok)
	assert.Equal(t, float64(85), parsed["match_score"])
}

func TestParseJSONObject_PlainJSON(t *testing.T) {
	parsed, ok := ParseJSONObject(`{"company": "Acme"}`)

	require.True(t, ok)
	assert.Equal(t, "Acme", parsed["company"])
}

func TestParseJSONObject_NotJSON(t *testing.T) {
	_, ok := ParseJSONObject("Sorry, I cannot help with that.")

	assert.False(t, ok)
}

func TestParseJSONObject_Empty(t *testing.T) {
	_, ok := ParseJSONObject("   ")

	assert.False(t, ok)
}

func TestParseJSONObject_MultilineFenced(t *testing.T) {
	reply := "```json\n{\n  \"requirements\": [\n    \"5 years Go\"\n  ]\n}\n```"

	parsed, ok := ParseJSONObject(reply)

	require.True(t, ok)
	require.Contains(t, parsed, "requirements")
}
