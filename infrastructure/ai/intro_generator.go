// Package ai drafts digest introductions with an LLM. Calls are single
// request/response with a fixed prompt; the caller treats the result as a
// draft to edit, not final copy.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notebookmark-backend/domain"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	maxOutputTokens int64 = 1024

	introPrompt = `Write a short, friendly introduction paragraph for a weekly
"Reading Notes" blog digest. The digest collects the notes listed below,
grouped by category. Mention the overall themes, keep it under 120 words,
and do not enumerate every item. Output plain text, no markdown.`
)

// IntroGenerator calls the OpenAI Responses API to draft a digest intro.
type IntroGenerator struct {
	client openai.Client
}

// NewIntroGenerator builds a generator bound to the given API key.
func NewIntroGenerator(apiKey string) *IntroGenerator {
	return &IntroGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// GenerateIntro drafts an introduction paragraph from the digest's notes.
func (g *IntroGenerator) GenerateIntro(ctx context.Context, digest *domain.ReadingNotes) (string, error) {
	input := digestOutline(digest)
	if input == "" {
		return "", errors.New("digest has no notes")
	}

	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           openai.ChatModelGPT5Mini2025_08_07,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(introPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	intro := strings.TrimSpace(resp.OutputText())
	if intro == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}
	return intro, nil
}

// digestOutline flattens the digest into a category/title/comment outline
// that fits a prompt.
func digestOutline(digest *domain.ReadingNotes) string {
	var b strings.Builder
	for category, notes := range digest.Notes {
		for _, note := range notes {
			fmt.Fprintf(&b, "[%s] %s - %s\n", category, note.Title, note.Comment)
		}
	}
	return strings.TrimSpace(b.String())
}
