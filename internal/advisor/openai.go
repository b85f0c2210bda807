package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds the settings for the OpenAI-compatible advice client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// openAIClient implements Client against an OpenAI-compatible
// chat-completions API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// NewOpenAIClient creates an advice client for an OpenAI-compatible API.
func NewOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("advisor API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.4
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 600
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

const systemPrompt = "You are a personal finance advisor. You MUST respond with ONLY a valid JSON object " +
	`of the form {"tips": ["...", "..."]}. Do not include any explanatory text, markdown ` +
	"formatting, or commentary before or after the JSON."

// Tips asks the model for budgeting suggestions.
func (c *openAIClient) Tips(ctx context.Context, req TipsRequest) ([]string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(req)},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advice API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	return parseTips(response.Choices[0].Message.Content)
}

// buildPrompt renders the user's finances the way the advisor expects them.
func buildPrompt(req TipsRequest) string {
	var b strings.Builder
	b.WriteString("Analyze the user's income and expenses and provide personalized budgeting tips.\n\n")
	fmt.Fprintf(&b, "Income: %s\n", req.Income.String())
	b.WriteString("Expenses:\n")
	for _, e := range req.Expenses {
		fmt.Fprintf(&b, "- Category: %s, Amount: %s\n", e.Category.String(), e.Amount.String())
	}
	b.WriteString("\nProvide tips on how the user can save money and improve their financial habits. ")
	b.WriteString("Be specific and actionable. Tips should be concise and easy to understand.\n")
	b.WriteString(`Format your answer as a JSON object: {"tips": ["...", "..."]}`)
	return b.String()
}

// parseTips extracts the tip list from the model's JSON answer. Some models
// wrap the object in prose; only the outermost braces are considered.
func parseTips(content string) ([]string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parse tips: %w", err)
	}
	if len(parsed.Tips) == 0 {
		return nil, fmt.Errorf("empty tip list in response")
	}
	return parsed.Tips, nil
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
