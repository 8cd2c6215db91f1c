package textgen

import (
	"context"
	"fmt"
	"strings"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4.1-mini"
)

// openAI talks to the Responses API.
type openAI struct {
	baseClient
	url   string
	model string
}

func newOpenAI(base baseClient, baseURL, model string) *openAI {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAI{baseClient: base, url: baseURL + "/v1/responses", model: model}
}

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text"`
			Refusal string `json:"refusal"`
		} `json:"content"`
	} `json:"output"`
}

func extractOutputText(resp responsesResponse) (string, string) {
	var out, refusal strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch c.Type {
			case "output_text":
				out.WriteString(c.Text)
			case "refusal":
				refusal.WriteString(c.Refusal)
			}
		}
	}
	return out.String(), refusal.String()
}

func (o *openAI) Complete(ctx context.Context, prompt string) (string, error) {
	var resp responsesResponse
	req := responsesRequest{Model: o.model, Input: prompt}
	if err := o.postJSON(ctx, o.url, map[string]string{"Authorization": "Bearer " + o.apiKey}, req, &resp); err != nil {
		return "", err
	}
	text, refusal := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		if refusal != "" {
			return "", fmt.Errorf("model refused: %s", refusal)
		}
		return "", ErrEmptyCompletion
	}
	return text, nil
}
