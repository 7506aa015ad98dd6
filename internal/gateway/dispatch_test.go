package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgw/internal/engine"
	"modelgw/pkg/types"
)

func chatReq(stream bool) types.ChatRequest {
	return types.ChatRequest{
		Messages: []types.ChatMessage{{Role: "user", Content: "hi"}},
		Stream:   stream,
	}
}

func TestHandleRoutesToCurrentEngineOnly(t *testing.T) {
	a, b := &fakeEngine{}, &fakeEngine{}
	g, _ := testGateway(t, map[string]*fakeEngine{"a": a, "b": b}, []string{"a", "b"}, "a")

	g.Handle(context.Background(), chatReq(false))
	assert.Equal(t, 1, a.calls())
	assert.Equal(t, 0, b.calls())

	require.NoError(t, g.Switch("b"))
	g.Handle(context.Background(), chatReq(false))
	assert.Equal(t, 1, a.calls())
	assert.Equal(t, 1, b.calls())
}

func TestHandleCompleteDocumentPassedThroughUnmodified(t *testing.T) {
	doc := types.ChatResponse{
		ID:      "chatcmpl-1",
		Object:  "chat.completion",
		Model:   "t5-small",
		Choices: []types.ChatChoice{{Message: types.ChatMessage{Role: "assistant", Content: "bonjour"}, FinishReason: "stop"}},
		Usage:   types.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}
	eng := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		return engine.CompleteResult{Response: doc}, nil
	}}
	g, reg := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(false))
	cr, ok := res.(engine.CompleteResult)
	require.True(t, ok, "expected CompleteResult, got %T", res)
	assert.Equal(t, doc, cr.Response)
	assert.Equal(t, 0.0, metricValue(t, reg, "error_count"))
}

func TestHandleBindsResponseRoleWhenMissing(t *testing.T) {
	eng := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		return engine.CompleteResult{Response: types.ChatResponse{
			Choices: []types.ChatChoice{{Message: types.ChatMessage{Content: "hello"}}},
		}}, nil
	}}
	g, _ := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(false))
	cr := res.(engine.CompleteResult)
	assert.Equal(t, "assistant", cr.Response.Choices[0].Message.Role)
}

func TestHandleBindsServedNameIntoRequest(t *testing.T) {
	eng := &fakeEngine{describe: func(ctx context.Context) (types.ModelConfig, error) {
		return types.ModelConfig{ServedName: "served-x"}, nil
	}}
	g, _ := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	g.Handle(context.Background(), chatReq(false))
	assert.Equal(t, "served-x", eng.lastReq.Model)
}

func TestHandleBackendErrorPassedThroughVerbatim(t *testing.T) {
	eng := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		return engine.ErrorResult{Code: http.StatusTeapot, Message: "malformed request"}, nil
	}}
	g, reg := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(false))
	er, ok := res.(engine.ErrorResult)
	require.True(t, ok)
	assert.Equal(t, http.StatusTeapot, er.Code)
	assert.Equal(t, "malformed request", er.Message)
	assert.Equal(t, 1.0, metricValue(t, reg, "error_count"))
}

func TestHandleGenerationFailureBecomesInternalError(t *testing.T) {
	eng := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		return nil, errors.New("engine crashed")
	}}
	g, reg := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(false))
	er, ok := res.(engine.ErrorResult)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, er.Code)
	assert.Equal(t, 1.0, metricValue(t, reg, "error_count"))
}

func TestHandleDescribeFailureTreatedAsGenerationFailure(t *testing.T) {
	eng := &fakeEngine{describe: func(ctx context.Context) (types.ModelConfig, error) {
		return types.ModelConfig{}, errors.New("backend gone")
	}}
	g, reg := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(false))
	er, ok := res.(engine.ErrorResult)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, er.Code)
	assert.Equal(t, 0, eng.calls(), "generate must not run after a failed describe")
	assert.Equal(t, 1.0, metricValue(t, reg, "error_count"))
}

func TestHandlePanicIsRecoveredAndClassified(t *testing.T) {
	eng := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		panic("boom")
	}}
	g, reg := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(false))
	er, ok := res.(engine.ErrorResult)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, er.Code)
	assert.Equal(t, 1.0, metricValue(t, reg, "error_count"))
}

func TestHandleStreamResultWrappedNotConsumed(t *testing.T) {
	s := &sliceStream{chunks: []types.ChatChunk{{ID: "c1"}}}
	eng := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		return engine.StreamResult{Stream: s}, nil
	}}
	g, _ := testGateway(t, map[string]*fakeEngine{"m": eng}, []string{"m"}, "m")

	res := g.Handle(context.Background(), chatReq(true))
	sr, ok := res.(engine.StreamResult)
	require.True(t, ok)
	// The dispatcher must hand the lazy sequence over untouched.
	chunk, err := sr.Stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "c1", chunk.ID)
	_, err = sr.Stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestHandleObservesLatencyRegardlessOfOutcome(t *testing.T) {
	failing := &fakeEngine{generate: func(ctx context.Context, req types.ChatRequest) (engine.Result, error) {
		return nil, errors.New("kaput")
	}}
	g, reg := testGateway(t, map[string]*fakeEngine{"m": failing}, []string{"m"}, "m")

	g.Handle(context.Background(), chatReq(false))
	g.Handle(context.Background(), chatReq(false))
	assert.Equal(t, 2.0, metricValue(t, reg, "request_processing_seconds"))
}

// sliceStream replays canned chunks, then errs (or io.EOF when err is nil).
type sliceStream struct {
	chunks []types.ChatChunk
	err    error
	pos    int
	closed bool
}

func (s *sliceStream) Recv() (types.ChatChunk, error) {
	if s.pos < len(s.chunks) {
		c := s.chunks[s.pos]
		s.pos++
		return c, nil
	}
	if s.err != nil {
		return types.ChatChunk{}, s.err
	}
	return types.ChatChunk{}, io.EOF
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}
