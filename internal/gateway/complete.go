package gateway

import (
	"context"
	"errors"
	"fmt"

	"modelgw/internal/engine"
	"modelgw/pkg/types"
)

// Complete is a non-streaming convenience over Handle: one user prompt in,
// the first choice's text out. Used by the text-transform wrappers, which
// never stream.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	req := types.ChatRequest{
		Messages: []types.ChatMessage{{Role: "user", Content: prompt}},
	}
	switch r := g.Handle(ctx, req).(type) {
	case engine.CompleteResult:
		if len(r.Response.Choices) == 0 {
			return "", errors.New("backend returned no choices")
		}
		return r.Response.Choices[0].Message.Content, nil
	case engine.ErrorResult:
		return "", fmt.Errorf("completion failed: %d %s", r.Code, r.Message)
	case engine.StreamResult:
		_ = r.Stream.Close()
		return "", errors.New("backend streamed a non-streaming request")
	default:
		return "", errors.New("unclassified completion result")
	}
}
