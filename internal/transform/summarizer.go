package transform

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const (
	defaultMinLength = 5
	defaultMaxLength = 15
)

// Summarizer condenses text to a bounded length and hands the summary to a
// Translator, so the combined call returns a translated summary.
type Summarizer struct {
	mu         sync.RWMutex
	minLength  int
	maxLength  int
	backend    Completer
	translator *Translator
}

// NewSummarizer constructs a Summarizer composing translator. Non-positive
// length bounds fall back to the defaults (5, 15).
func NewSummarizer(backend Completer, translator *Translator, minLength, maxLength int) *Summarizer {
	s := &Summarizer{
		minLength:  defaultMinLength,
		maxLength:  defaultMaxLength,
		backend:    backend,
		translator: translator,
	}
	if minLength > 0 {
		s.minLength = minLength
	}
	if maxLength > 0 {
		s.maxLength = maxLength
	}
	return s
}

// Lengths returns the configured (min, max) summary length in tokens.
func (s *Summarizer) Lengths() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.minLength, s.maxLength
}

// Reconfigure applies a config map with optional "min_length" and
// "max_length" entries. Numeric values survive JSON decoding as float64.
func (s *Summarizer) Reconfigure(cfg map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := asInt(cfg["min_length"]); ok {
		s.minLength = v
	}
	if v, ok := asInt(cfg["max_length"]); ok {
		s.maxLength = v
	}
}

// Summarize condenses text within the configured length bounds.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.mu.RLock()
	minLen, maxLen := s.minLength, s.maxLength
	s.mu.RUnlock()
	prompt := fmt.Sprintf("summarize in %d to %d words: %s", minLen, maxLen, text)
	out, err := s.backend.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SummarizeTranslated summarizes text and translates the summary into the
// translator's configured language. This is the shape the HTTP endpoint
// serves.
func (s *Summarizer) SummarizeTranslated(ctx context.Context, text string) (string, error) {
	summary, err := s.Summarize(ctx, text)
	if err != nil {
		return "", err
	}
	return s.translator.Translate(ctx, summary)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
