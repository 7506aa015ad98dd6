package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelgw/internal/engine"
	"modelgw/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Handle(ctx context.Context, req types.ChatRequest) engine.Result
	ListModels() []string
	Current() string
	Switch(name string) error
	CheckHealth(ctx context.Context, name string) (types.HealthStatus, error)
	Ready() bool
}

// Transformer is the reconfigurable text-transform surface mounted next to
// the gateway routes.
type Transformer interface {
	Translate(ctx context.Context, text string) (string, error)
	SummarizeTranslated(ctx context.Context, text string) (string, error)
	ReconfigureTranslator(cfg map[string]any)
	ReconfigureSummarizer(cfg map[string]any)
}

// NewMux builds the gateway router. xf may be nil, in which case the
// text-transform routes are not mounted.
func NewMux(svc Service, xf Transformer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/models/completions", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeJSON[types.ChatRequest](w, r)
		if !ok {
			return
		}
		if len(req.Messages) == 0 {
			writeJSONError(w, http.StatusBadRequest, "messages are required")
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("path", r.URL.Path).Bool("stream", req.Stream)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("completion start")
		}
		// Join server base context with request context so shutdown cancels
		// in-flight generations too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		res := svc.Handle(joinedCtx, req)
		writeResult(w, r, res)
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Int("status", resultStatus(res)).Dur("dur", time.Since(start))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("completion end")
		}
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{
			Models:       svc.ListModels(),
			CurrentModel: svc.Current(),
		})
	})

	r.Get("/models/{name}/health", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		status, err := svc.CheckHealth(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, status)
	})

	r.Post("/models/{name}/switch", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := svc.Switch(name); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, types.SwitchResponse{Message: "Switched to model " + name})
	})

	if xf != nil {
		mountTransforms(r, xf)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func mountTransforms(r chi.Router, xf Transformer) {
	r.Post("/translate", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeJSON[types.TranslateRequest](w, r)
		if !ok {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		out, err := xf.Translate(r.Context(), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, types.TranslateResponse{Translation: out})
	})

	r.Post("/summarize", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeJSON[types.SummarizeRequest](w, r)
		if !ok {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		out, err := xf.SummarizeTranslated(r.Context(), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, types.SummarizeResponse{Summary: out})
	})

	r.Post("/translate/config", func(w http.ResponseWriter, r *http.Request) {
		cfg, ok := decodeJSON[map[string]any](w, r)
		if !ok {
			return
		}
		xf.ReconfigureTranslator(cfg)
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/summarize/config", func(w http.ResponseWriter, r *http.Request) {
		cfg, ok := decodeJSON[map[string]any](w, r)
		if !ok {
			return
		}
		xf.ReconfigureSummarizer(cfg)
		w.WriteHeader(http.StatusOK)
	})
}

// decodeJSON enforces the JSON content type and body size cap, then decodes
// the request body into T. On failure it writes the error response itself.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return v, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return v, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
