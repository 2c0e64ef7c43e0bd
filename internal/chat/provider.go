package chat

import "context"

const DefaultMaxOutputTokens = 200

type GenerateRequest struct {
	SystemInstruction string
	History           []Turn
	Message           string
	MaxOutputTokens   int
}

// Provider generates the model's reply to Message given the system
// instruction and the prior turns of the conversation.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
