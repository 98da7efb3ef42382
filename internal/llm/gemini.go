package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Veraticus/smartshop/internal/common"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient implements Client against the generateContent API.
type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newGeminiClient(cfg Config) (*geminiClient, error) {
	apiKey := cfg.key(ProviderGemini)
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &geminiClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		httpClient:  newHTTPClient(cfg.Timeout),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Complete sends prompt as a single content part.
func (c *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	request := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	}

	var response geminiResponse
	url := c.baseURL + "/models/" + c.model + ":generateContent"
	err := postJSON(ctx, c.httpClient, "Gemini", url,
		map[string]string{"x-goog-api-key": c.apiKey}, request, &response)
	if err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", common.Permanent(errors.New("no candidates returned"))
	}

	var b strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
