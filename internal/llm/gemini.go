// Package llm implements the completion boundary on top of the official
// genai client. Cross-cutting policy (fallback utterances, suppression)
// lives in the brain; this package only does the API call.
package llm

import (
	"context"
	"errors"

	genai "google.golang.org/genai"

	"coopbuddy/internal/brain"
)

var ErrEmptyResponse = errors.New("empty response from model")

type GeminiClient struct {
	cli       *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiClient builds a client for model. The genai client reads its
// API key from the environment.
func NewGeminiClient(ctx context.Context, model string, maxTokens int32) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &GeminiClient{cli: cli, model: model, maxTokens: maxTokens}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// Complete satisfies brain.CompleteFunc as a method value.
func (g *GeminiClient) Complete(ctx context.Context, system string, turns []brain.Turn) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == brain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents,
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			MaxOutputTokens:   g.maxTokens,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
