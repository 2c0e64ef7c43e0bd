package llm

import (
	"context"
	"fmt"
	"log/slog"

	"agri-chat/internal/chat"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const DefaultOllamaModel = "llama3"

// Ollama talks to a local ollama server, so no API key is needed.
type Ollama struct {
	client *ollama.LLM
	model  string
}

func NewOllama(model, serverURL string) (*Ollama, error) {
	if model == "" {
		model = DefaultOllamaModel
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}

	return &Ollama{client: client, model: model}, nil
}

func toMessageContent(req chat.GenerateRequest) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(req.History)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction))

	for _, turn := range req.History {
		msgType := llms.ChatMessageTypeHuman
		if turn.Role == chat.RoleModel {
			msgType = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(msgType, turn.Text))
	}

	return append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Message))
}

func (o *Ollama) Generate(ctx context.Context, req chat.GenerateRequest) (string, error) {
	resp, err := o.client.GenerateContent(ctx, toMessageContent(req), llms.WithMaxTokens(req.MaxOutputTokens))
	if err != nil {
		slog.Error("ollama error: generate content failed", "model", o.model, "error", err)
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}

	return resp.Choices[0].Content, nil
}

func (o *Ollama) Name() string {
	return "ollama:" + o.model
}
