package gateway

// Current returns the currently selected model name. Cheap: an RLock around
// one string read.
func (g *Gateway) Current() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// Switch atomically repoints the selector at name. The membership check and
// the write happen under one write lock, so concurrent switches serialize
// and a concurrent reader observes either the old name or the new one, both
// always present in the registry. An unknown name fails with InvalidModel
// and mutates nothing.
func (g *Gateway) Switch(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.engines[name]; !ok {
		return ErrInvalidModel(name)
	}
	g.current = name
	g.log.Info().Str("model", name).Msg("switched to model")
	return nil
}
