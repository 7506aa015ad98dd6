package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"modelgw/internal/engine"
	"modelgw/pkg/types"
)

// Handle dispatches one completion request against the currently selected
// engine and classifies the outcome. It never returns nil and never panics
// out: unexpected failures become a 500-class ErrorResult. Wall-clock
// duration is recorded regardless of outcome.
func (g *Gateway) Handle(ctx context.Context, req types.ChatRequest) (res engine.Result) {
	start := time.Now()
	log := g.log.With().Str("dispatch_id", uuid.NewString()).Logger()
	defer func() {
		g.metrics.ObserveLatency(time.Since(start))
	}()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("dispatch panicked")
			g.metrics.IncErrors()
			res = engine.ErrorResult{Code: http.StatusInternalServerError, Message: "Internal server error"}
		}
	}()

	name := g.Current()
	eng, ok := g.lookup(name)
	if !ok {
		// Cannot happen while the selector invariant holds; classified
		// rather than trusted.
		log.Error().Str("model", name).Msg("current model missing from registry")
		g.metrics.IncErrors()
		return engine.ErrorResult{Code: http.StatusNotFound, Message: "model not found: " + name}
	}

	cfg, err := eng.Describe(ctx)
	if err != nil {
		return g.internalError(log, name, "describe failed", err)
	}
	// Bind the backend's served name into the outgoing request.
	req.Model = cfg.ServedName
	if req.Model == "" {
		req.Model = name
	}

	result, err := eng.Generate(ctx, req)
	if err != nil {
		return g.internalError(log, name, "generation failed", err)
	}
	switch r := result.(type) {
	case engine.ErrorResult:
		log.Error().Str("model", name).Int("code", r.Code).Str("message", r.Message).Msg("backend error")
		g.metrics.IncErrors()
		return r
	case engine.CompleteResult:
		return g.bindRole(r)
	case engine.StreamResult:
		return r
	default:
		return g.internalError(log, name, "unclassified result", nil)
	}
}

// bindRole fills in the configured response role on completed messages that
// arrived without one.
func (g *Gateway) bindRole(r engine.CompleteResult) engine.CompleteResult {
	for i := range r.Response.Choices {
		if r.Response.Choices[i].Message.Role == "" {
			r.Response.Choices[i].Message.Role = g.responseRole
		}
	}
	return r
}

func (g *Gateway) internalError(log zerolog.Logger, model, msg string, err error) engine.ErrorResult {
	log.Error().Err(err).Str("model", model).Msg(msg)
	g.metrics.IncErrors()
	return engine.ErrorResult{Code: http.StatusInternalServerError, Message: "Internal server error"}
}
