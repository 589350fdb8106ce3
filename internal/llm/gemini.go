package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	googleoption "google.golang.org/api/option"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/config"
)

const defaultGeminiModel = "gemini-1.5-flash"

// geminiProvider implements Provider using the Google Generative AI SDK:
// a single concatenated prompt with the credential passed as an inline key
// parameter. The key is stored at construction time; a new genai.Client is
// created per Complete call so the caller's context governs the connection
// and the client is always closed after use.
type geminiProvider struct {
	apiKey string
	model  string
}

func newGeminiProvider(settings config.Settings) (Provider, error) {
	return &geminiProvider{apiKey: settings.Credential, model: settings.ModelOr(defaultGeminiModel)}, nil
}

func (p *geminiProvider) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	maxTokens int,
	temperature float64,
) (string, error) {
	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini: genai client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(p.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	maxOut := int32(maxTokens)
	m.MaxOutputTokens = &maxOut
	temp32 := float32(temperature)
	m.Temperature = &temp32
	// Force JSON output mode to prevent the model from wrapping the response
	// in markdown code fences.
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: response contained no text content")
	}
	return strings.Join(parts, ""), nil
}
