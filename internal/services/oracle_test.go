package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func oracleConfig(endpoint string) *common.OpenAIConfig {
	return &common.OpenAIConfig{
		Endpoint:       endpoint,
		Deployment:     "gpt-test",
		APIVersion:     "2024-06-01",
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}
}

func TestOracleFailsFastOnMissingConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*common.OpenAIConfig)
	}{
		{"endpoint", func(c *common.OpenAIConfig) { c.Endpoint = "" }},
		{"deployment", func(c *common.OpenAIConfig) { c.Deployment = "" }},
		{"api version", func(c *common.OpenAIConfig) { c.APIVersion = "" }},
		{"api key", func(c *common.OpenAIConfig) { c.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := oracleConfig("https://example.openai.azure.com")
			tt.mutate(config)

			oracle := NewAzureOpenAIOracle(config, arbor.NewLogger())
			_, err := oracle.Complete(context.Background(), interfaces.CompletionRequest{UserPrompt: "hi"})
			require.Error(t, err)
			assert.True(t, common.IsErrorType(err, common.ErrorTypeConfiguration))
		})
	}
}

func TestOracleComplete(t *testing.T) {
	var gotPath, gotKey, gotAPIVersion string
	var gotBody chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		gotAPIVersion = r.URL.Query().Get("api-version")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": `{"action": "create_draft"}`}},
			},
		})
	}))
	defer server.Close()

	oracle := NewAzureOpenAIOracle(oracleConfig(server.URL), arbor.NewLogger())

	content, err := oracle.Complete(context.Background(), interfaces.CompletionRequest{
		SystemPrompt: "classify",
		UserPrompt:   "notes here",
		Temperature:  0,
		JSONMode:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"action": "create_draft"}`, content)
	assert.Equal(t, "/openai/deployments/gpt-test/chat/completions", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2024-06-01", gotAPIVersion)

	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "classify", gotBody.Messages[0].Content)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
	require.NotNil(t, gotBody.ResponseFormat)
	assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
}

func TestOracleOmitsResponseFormatWithoutJSONMode(t *testing.T) {
	var gotBody chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": "plain text"}},
			},
		})
	}))
	defer server.Close()

	oracle := NewAzureOpenAIOracle(oracleConfig(server.URL), arbor.NewLogger())

	content, err := oracle.Complete(context.Background(), interfaces.CompletionRequest{UserPrompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "plain text", content)
	assert.Nil(t, gotBody.ResponseFormat)
}

func TestOracleBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": "429", "message": "rate limited"}}`))
	}))
	defer server.Close()

	oracle := NewAzureOpenAIOracle(oracleConfig(server.URL), arbor.NewLogger())

	_, err := oracle.Complete(context.Background(), interfaces.CompletionRequest{UserPrompt: "hi"})
	require.Error(t, err)
	assert.True(t, common.IsErrorType(err, common.ErrorTypeOracle))

	ae := common.AsAssistantError(err)
	assert.Equal(t, http.StatusTooManyRequests, ae.Context["status"])
}

func TestOracleEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	oracle := NewAzureOpenAIOracle(oracleConfig(server.URL), arbor.NewLogger())

	content, err := oracle.Complete(context.Background(), interfaces.CompletionRequest{UserPrompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "", content)
}
