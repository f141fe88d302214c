// Package advisor wraps the external chat-completion gateway used by the
// AI financial advisor.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrRateLimited     = errors.New("completion gateway rate limited")
	ErrPaymentRequired = errors.New("completion gateway quota exhausted")
	ErrUnavailable     = errors.New("completion gateway unavailable")
	ErrEmptyCompletion = errors.New("completion gateway returned no choices")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
}

func NewClient(url, apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        url,
		apiKey:     apiKey,
		model:      model,
	}
}

// Complete sends one completion request and returns the assistant content
// and the total token usage reported by the gateway. Upstream 429 and 402
// map to their sentinel errors; any other non-2xx status maps to
// ErrUnavailable. There is no retry.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, int, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", 0, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", 0, ErrPaymentRequired
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", 0, ErrEmptyCompletion
	}

	return completion.Choices[0].Message.Content, completion.Usage.TotalTokens, nil
}
