package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIURL    = "https://api.openai.com/v1/chat/completions"
	defaultModel     = "gpt-3.5-turbo"
	defaultMaxTokens = 512
)

// ErrMalformedResponse means the model replied with something that is not the
// expected JSON object. Callers degrade this into a "could not understand"
// message rather than failing the turn.
var ErrMalformedResponse = errors.New("extraction response is not valid JSON")

// IsMalformedResponse reports whether err means the model output could not be
// parsed (as opposed to a transport or API failure).
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// Client is an OpenAI chat-completions client for event field extraction.
type Client struct {
	apiKey      string
	model       string
	apiURL      string
	httpClient  *http.Client
	temperature float64
}

// NewClient creates a new extraction client.
func NewClient(apiKey, model string, temperature float64) *Client {
	if model == "" {
		model = defaultModel
	}
	if temperature <= 0 {
		temperature = 0.2
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		apiURL:      defaultAPIURL,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Extraction is the structured result of one extraction call. String fields
// may carry the literal "null" when the model could not fill them; callers
// normalize that.
type Extraction struct {
	Title      string   `json:"title"`
	Date       string   `json:"date"`     // YYYY-MM-DD
	Time       string   `json:"time"`     // HH:MM 24-hour
	Duration   int      `json:"duration"` // minutes
	Recurrence string   `json:"recurrence"`
	Missing    []string `json:"missing,omitempty"`
	Questions  []string `json:"questions,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ExtractEvent sends the user message (plus any known partial fields) to the
// model and parses the JSON object it returns. partial may be nil; when
// non-nil it is serialized into the prompt so the model only asks for what is
// still missing.
func (c *Client) ExtractEvent(ctx context.Context, message string, partial any) (*Extraction, error) {
	userPrompt := fmt.Sprintf("Message: %q", message)
	if partial != nil {
		if partialJSON, err := json.Marshal(partial); err == nil {
			userPrompt += fmt.Sprintf("\nPartial info: %s", partialJSON)
		}
	}

	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   defaultMaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(time.Now())},
			{Role: "user", Content: userPrompt},
		},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return nil, fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	// The model is instructed to answer with bare JSON but may still wrap it
	// in a markdown fence.
	responseText := apiResp.Choices[0].Message.Content
	jsonStr := extractJSON(responseText)

	var extraction Extraction
	if err := json.Unmarshal([]byte(jsonStr), &extraction); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, responseText)
	}

	return &extraction, nil
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// extractJSON pulls the first top-level JSON object out of a response that
// might be wrapped in markdown or prose.
func extractJSON(text string) string {
	start := 0
	if idx := findJSONStart(text); idx >= 0 {
		start = idx
	}

	end := len(text)
	if idx := findJSONEnd(text, start); idx >= 0 {
		end = idx + 1
	}

	return text[start:end]
}

func findJSONStart(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			return i
		}
	}
	return -1
}

func findJSONEnd(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
