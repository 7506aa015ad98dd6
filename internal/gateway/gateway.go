package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"modelgw/internal/engine"
	"modelgw/internal/metrics"
)

// EngineFactory constructs the engine for one configured model name. The
// per-model engine parameters live in the closure; the gateway only knows
// names.
type EngineFactory func(ctx context.Context, name string) (engine.Engine, error)

const defaultResponseRole = "assistant"

// Config encapsulates all tunables for Gateway construction.
type Config struct {
	// Models is the full configured name list, in order. Names that fail to
	// load are remembered for listing but omitted from the registry.
	Models []string
	// DefaultModel must load successfully or construction fails.
	DefaultModel string
	// ResponseRole is attached to completed assistant messages. Defaults to
	// "assistant".
	ResponseRole string
	Factory      EngineFactory
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
}

// Gateway owns the model registry and the current-model selector. The
// registry map is never mutated after New returns; mu guards only current.
type Gateway struct {
	mu      sync.RWMutex
	current string

	engines      map[string]engine.Engine
	configured   []string
	failed       []string
	responseRole string
	metrics      *metrics.Metrics
	log          zerolog.Logger
}

// New builds the registry by attempting to construct an engine for every
// configured name. A failure for one name is logged and error-counted, and
// that name is simply omitted; construction as a whole fails only when the
// default model did not make it into the registry, or the configuration is
// empty.
func New(ctx context.Context, cfg Config) (*Gateway, error) {
	if len(cfg.Models) == 0 {
		return nil, ErrConfiguration("no models configured")
	}
	if strings.TrimSpace(cfg.DefaultModel) == "" {
		return nil, ErrConfiguration("no default model configured")
	}
	if cfg.Factory == nil {
		return nil, ErrConfiguration("no engine factory configured")
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	role := cfg.ResponseRole
	if role == "" {
		role = defaultResponseRole
	}
	g := &Gateway{
		engines:      make(map[string]engine.Engine, len(cfg.Models)),
		configured:   append([]string(nil), cfg.Models...),
		responseRole: role,
		metrics:      m,
		log:          cfg.Logger,
	}
	for _, name := range cfg.Models {
		eng, err := cfg.Factory(ctx, name)
		if err != nil {
			g.log.Error().Err(err).Str("model", name).Msg("failed to load model")
			m.IncErrors()
			g.failed = append(g.failed, name)
			continue
		}
		g.log.Info().Str("model", name).Msg("loaded model")
		g.engines[name] = eng
	}
	if _, ok := g.engines[cfg.DefaultModel]; !ok {
		g.Close()
		return nil, ErrConfiguration("default model " + cfg.DefaultModel + " is not among the loaded models")
	}
	g.current = cfg.DefaultModel
	return g, nil
}

// ListModels returns all configured model names in their configured order,
// including names whose engines failed to load.
func (g *Gateway) ListModels() []string {
	out := make([]string, len(g.configured))
	copy(out, g.configured)
	return out
}

// FailedModels returns the configured names whose engines did not load.
func (g *Gateway) FailedModels() []string {
	return append([]string(nil), g.failed...)
}

// Ready reports whether the gateway can serve requests. True from the moment
// New succeeds: the default model is guaranteed loaded.
func (g *Gateway) Ready() bool {
	return len(g.engines) > 0
}

// Close releases every loaded engine. Engines failing to close are logged
// and skipped so the rest still get released.
func (g *Gateway) Close() {
	for name, eng := range g.engines {
		if err := eng.Close(); err != nil {
			g.log.Error().Err(err).Str("model", name).Msg("engine close failed")
		}
	}
}

// lookup resolves a loaded engine by name.
func (g *Gateway) lookup(name string) (engine.Engine, bool) {
	eng, ok := g.engines[name]
	return eng, ok
}
