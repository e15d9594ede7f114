package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultRequestTimeout = 60 * time.Second

// GeminiProvider implements CompletionProvider using Google's Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiProvider creates a Gemini-backed completion provider.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &GeminiProvider{client: client, modelName: modelName, timeout: timeout}, nil
}

// Complete issues a single bounded generation request.
func (g *GeminiProvider) Complete(ctx context.Context, instructions, prompt string) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	m := g.client.GenerativeModel(g.modelName)
	if instructions != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(instructions)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini generate: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	completion := &Completion{Text: b.String()}
	if resp.UsageMetadata != nil {
		completion.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	// Citation metadata is only present when the model grounded its answer
	// in retrieved sources.
	if resp.Candidates[0].CitationMetadata != nil {
		completion.RetrievalUsed = true
	}
	return completion, nil
}

// ModelName identifies the configured model.
func (g *GeminiProvider) ModelName() string {
	return g.modelName
}

// Close releases the underlying client.
func (g *GeminiProvider) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
