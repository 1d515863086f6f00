package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/genai"
)

// TextModel is the surface the service needs from a text-generation
// endpoint. Both the scorer and the synthesizer speak through it, which is
// also the seam the tests fake.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ImageModel produces raw encoded image bytes for a prompt. ErrNoImage is
// returned when the endpoint answers without an image part.
type ImageModel interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
	Model() string
}

// GeminiText calls the Gemini text API with a fixed model.
type GeminiText struct {
	llm   *googleai.GoogleAI
	model string
}

// NewGeminiText builds a text client bound to one model id.
func NewGeminiText(ctx context.Context, apiKey, model string) (*GeminiText, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("init gemini client (%s): %w", model, err)
	}
	return &GeminiText{llm: llm, model: model}, nil
}

// Generate sends one prompt and returns the model's reply text verbatim.
func (g *GeminiText) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}
	return strings.TrimSpace(out), nil
}

// Model returns the fixed model id this client talks to.
func (g *GeminiText) Model() string { return g.model }

// GeminiImage calls the Gemini image-generation API. The model must accept
// TEXT+IMAGE response modalities; the first inline image part wins.
type GeminiImage struct {
	client *genai.Client
	model  string
}

// NewGeminiImage builds an image client bound to one model id.
func NewGeminiImage(ctx context.Context, apiKey, model string) (*GeminiImage, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini image client (%s): %w", model, err)
	}
	return &GeminiImage{client: client, model: model}, nil
}

// Generate asks for a rendering of the prompt and returns the encoded
// bytes of the first image-bearing part.
func (g *GeminiImage) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", g.model, err)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, ErrNoImage
}

// Model returns the fixed model id this client talks to.
func (g *GeminiImage) Model() string { return g.model }

// RetryableAPIError reports whether an error from the Gemini API is worth
// another attempt. Credential and malformed-request failures repeat
// identically on every try, so retrying them only burns the backoff budget.
func RetryableAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"API_KEY_INVALID",
		"PERMISSION_DENIED",
		"INVALID_ARGUMENT",
		"API key not valid",
	} {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	return true
}
