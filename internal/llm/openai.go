package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openaiProvider implements Provider using the OpenAI SDK: a flat message
// list carrying the credential as a bearer header.
type openaiProvider struct {
	client openai.Client
	model  string
}

func newOpenAIProvider(settings config.Settings) (Provider, error) {
	client := openai.NewClient(option.WithAPIKey(settings.Credential))
	return &openaiProvider{client: client, model: settings.ModelOr(defaultOpenAIModel)}, nil
}

func (p *openaiProvider) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	maxTokens int,
	temperature float64,
) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat.completions.new: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: response contained no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("openai: response contained no content")
	}
	return content, nil
}
