// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIURL   = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-3.5-turbo"
	maxResponseSize = 1 * 1024 * 1024 // 1 MB
)

// OpenAISummarizer summarizes descriptions through the OpenAI chat
// completions API.
type OpenAISummarizer struct {
	APIURL string
	Model  string
	Client *http.Client

	apiKey string
}

// NewOpenAISummarizer creates a summarizer authenticated with apiKey.
func NewOpenAISummarizer(apiKey string) *OpenAISummarizer {
	return &OpenAISummarizer{
		APIURL: defaultAPIURL,
		Model:  defaultModel,
		Client: &http.Client{Timeout: 30 * time.Second},
		apiKey: apiKey,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize asks the model for a concise rewrite of the description.
func (s *OpenAISummarizer) Summarize(id, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize this vulnerability description for security professionals. Be concise but keep the key characteristics and impact.\n\nCVE: %s\n\nDescription: %s", id, text)

	body, err := json.Marshal(chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a cybersecurity expert who summarizes vulnerability information clearly and concisely."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("HTTP %d from completion API", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
