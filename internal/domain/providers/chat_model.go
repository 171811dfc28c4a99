package providers

import (
	"context"
)

// ChatModel defines the interface for single-shot LLM completions
type ChatModel interface {
	// Complete sends one system+user prompt pair and returns the raw
	// response text
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ChatRequest is a single system+user prompt pair
type ChatRequest struct {
	System string
	User   string
}
