package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"support-relay/configs"
	"support-relay/internal/domain"
	"support-relay/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure OpenAIClientAdapter implements CompletionClient interface
var _ output.CompletionClient = (*OpenAIClientAdapter)(nil)

// Default configuration values
const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second

	// maxErrorBodyBytes bounds how much of an error body is read
	maxErrorBodyBytes = 64 << 10
	// maxLoggedBodyBytes bounds how much of an error body ends up in logs
	maxLoggedBodyBytes = 512
)

// OpenAIClientAdapter struct - Output adapter for the OpenAI chat completions API.
// Every call is a single attempt; there is no retry.
type OpenAIClientAdapter struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
}

// NewOpenAIClientAdapter func - Creates new OpenAI client adapter.
// A missing API key is not an error here; ChatCompletion reports it per request.
func NewOpenAIClientAdapter(config configs.OpenAI) *OpenAIClientAdapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	if config.APIKey == "" {
		logrus.Warn("OPENAI_API_KEY is not configured; completion requests will fail")
	}
	logrus.Infof("OpenAI client adapter initialized with base URL: %s, model: %s, timeout: %v", baseURL, model, timeout)

	return &OpenAIClientAdapter{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		model:      model,
		timeout:    timeout,
	}
}

// ChatCompletion sends a non-streaming chat completion request
func (a *OpenAIClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrMissingCredential)
	}

	model := a.model
	if request.Model != "" {
		model = request.Model
	}

	reqBody := chatCompletionAPIRequest{
		Model:       model,
		Messages:    make([]chatMessageAPI, len(request.Messages)),
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}
	for i, msg := range request.Messages {
		reqBody.Messages[i] = chatMessageAPI{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, a.classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		logged := strings.TrimSpace(string(body))
		if len(logged) > maxLoggedBodyBytes {
			logged = logged[:maxLoggedBodyBytes]
		}
		if json.Valid(body) {
			return nil, fmt.Errorf("%w: status %d - %s", domain.ErrUpstreamRejected, resp.StatusCode, logged)
		}
		return nil, fmt.Errorf("%w: status %d - %s", domain.ErrUpstreamStatus, resp.StatusCode, logged)
	}

	var apiResp chatCompletionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamMalformed, err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, domain.ErrEmptyCompletion
	}

	response := &domain.ChatCompletionResponse{
		Content:          apiResp.Choices[0].Message.Content,
		Model:            apiResp.Model,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
		TotalTokens:      apiResp.Usage.TotalTokens,
	}

	logrus.Infof("Chat completion successful, model: %s, tokens: %d", response.Model, response.TotalTokens)

	return response, nil
}

// classifyTransportError maps a failed round trip onto the upstream error family
func (a *OpenAIClientAdapter) classifyTransportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: request cancelled: %v", domain.ErrUpstreamUnavailable, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// API request/response structures for the OpenAI chat completions API

// chatMessageAPI represents a message in the API request
type chatMessageAPI struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionAPIRequest represents the request body for chat completions
type chatCompletionAPIRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessageAPI `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   *int             `json:"max_tokens,omitempty"`
}

// chatCompletionAPIResponse represents the response from chat completions
type chatCompletionAPIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
