package gateway

import (
	"context"

	"modelgw/pkg/types"
)

// CheckHealth probes the named engine with a cheap Describe call. Unknown
// names fail with InvalidModel so the transport reports a request error, not
// a health status. A failed probe yields Unhealthy and counts as an error;
// nothing here touches the selector or registry. Health is always per named
// model, independent of which model is currently selected.
func (g *Gateway) CheckHealth(ctx context.Context, name string) (types.HealthStatus, error) {
	eng, ok := g.lookup(name)
	if !ok {
		return types.HealthStatus{}, ErrInvalidModel(name)
	}
	if _, err := eng.Describe(ctx); err != nil {
		g.log.Error().Err(err).Str("model", name).Msg("health check failed")
		g.metrics.IncErrors()
		return types.HealthStatus{Model: name, Status: types.StatusUnhealthy}, nil
	}
	return types.HealthStatus{Model: name, Status: types.StatusHealthy}, nil
}
