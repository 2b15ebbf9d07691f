// Package openai is a minimal chat-completions client for the demo's
// cold-outreach message generator. Only the fields this service touches
// are modeled.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateMessage produces a personalized cold-outreach message for the
// given industry and location.
func (c *Client) GenerateMessage(ctx context.Context, targetIndustry, location string) (string, error) {
	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	payload := chatCompletionRequest{
		Model: "gpt-4",
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a sales expert who writes personalized cold outreach messages that get high reply rates. Keep messages concise, professional, and focused on value proposition.",
			},
			{
				Role: "user",
				Content: fmt.Sprintf(
					"Write a personalized cold outreach message for prospects in the %s industry located in %s. The message should be professional, personalized, and designed to get a response. Include specific details about the industry and location to make it feel authentic.",
					targetIndustry, location),
			},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai completion failed (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "Unable to generate message", nil
	}
	return response.Choices[0].Message.Content, nil
}
