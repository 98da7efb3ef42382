package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Veraticus/smartshop/internal/common"
)

const openAIBaseURL = "https://api.openai.com/v1"

// openAIClient implements Client against the chat completions API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	apiKey := cfg.key(ProviderOpenAI)
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	return &openAIClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		httpClient:  newHTTPClient(cfg.Timeout),
	}, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
		Index        int           `json:"index"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message.
func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	request := openAIRequest{
		Model:       c.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var response openAIResponse
	err := postJSON(ctx, c.httpClient, "OpenAI", c.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + c.apiKey}, request, &response)
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", common.Permanent(errors.New("no completion choices returned"))
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
