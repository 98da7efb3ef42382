package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/smartshop/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantModel string
		wantErr   bool
	}{
		{
			name:      "generic key",
			config:    Config{APIKey: "test-key"},
			wantModel: DefaultOpenAIModel,
		},
		{
			name:      "provider key wins",
			config:    Config{APIKey: "generic", OpenAIKey: "openai-key", Model: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:    "missing key",
			config:  Config{GeminiKey: "other"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newOpenAIClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, client.model)
			assert.Equal(t, DefaultMaxTokens, client.maxTokens)
		})
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOpenAIModel, req.Model)
		assert.Equal(t, 100, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "what goes with pasta?", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":" Parmesan, Basil \n"}}]}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), "what goes with pasta?")
	require.NoError(t, err)
	assert.Equal(t, "Parmesan, Basil", reply)
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		status        int
		wantRateLimit bool
		wantRetryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantRateLimit: true, wantRetryable: true},
		{name: "server error", status: http.StatusBadGateway, body: `bad gateway`, wantRetryable: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"nope"}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := newOpenAIClient(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tt.wantRateLimit, errors.Is(err, common.ErrRateLimit))

			var permanent *common.RetryableError
			isPermanent := errors.As(err, &permanent) && !permanent.Retryable
			assert.Equal(t, tt.wantRetryable, !isPermanent)

			if tt.status != http.StatusOK {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, "OpenAI", apiErr.Provider)
			}
		})
	}
}
