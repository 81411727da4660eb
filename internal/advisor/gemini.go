package advisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// TextGenerator is the single outbound AI capability: one prompt string in,
// one free-text response out. The rest of the system only depends on this
// interface plus its own parsing and fallbacks.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	http   *resty.Client
	apiKey string
	model  string
}

var _ TextGenerator = (*GeminiClient)(nil)

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	return &GeminiClient{
		http:   resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
		model:  model,
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("gemini: no API key configured")
	}

	var out generateContentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(generateContentRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini: %s", resp.Status())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
