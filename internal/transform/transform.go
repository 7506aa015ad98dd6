// Package transform holds the stateless text-transform wrappers: a
// translation step and a summarization step with reconfigurable parameters.
// Both are thin request/response adapters over a completion backend; they
// keep no state beyond their tunables.
package transform

import "context"

// Completer is the completion capability the wrappers run their prompts
// through. The gateway satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service bundles the translator and summarizer behind the surface the HTTP
// layer mounts.
type Service struct {
	translator *Translator
	summarizer *Summarizer
}

// NewService wires a translator and a summarizer composing it over backend.
func NewService(backend Completer, language string, minLength, maxLength int) *Service {
	tr := NewTranslator(backend, language)
	return &Service{
		translator: tr,
		summarizer: NewSummarizer(backend, tr, minLength, maxLength),
	}
}

// Translate translates text into the configured language.
func (s *Service) Translate(ctx context.Context, text string) (string, error) {
	return s.translator.Translate(ctx, text)
}

// SummarizeTranslated summarizes text and translates the summary.
func (s *Service) SummarizeTranslated(ctx context.Context, text string) (string, error) {
	return s.summarizer.SummarizeTranslated(ctx, text)
}

// ReconfigureTranslator applies a translator config map at runtime.
func (s *Service) ReconfigureTranslator(cfg map[string]any) {
	s.translator.Reconfigure(cfg)
}

// ReconfigureSummarizer applies a summarizer config map at runtime.
func (s *Service) ReconfigureSummarizer(cfg map[string]any) {
	s.summarizer.Reconfigure(cfg)
}
