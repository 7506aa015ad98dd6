package transform

import (
	"context"
	"strings"
	"sync"
)

const defaultLanguage = "french"

// targetNames maps supported target languages to the name used in the
// translation prompt.
var targetNames = map[string]string{
	"french":   "French",
	"german":   "German",
	"romanian": "Romanian",
}

// Translator translates English text into a configurable target language.
type Translator struct {
	mu       sync.RWMutex
	language string
	target   string // prompt target; only rebuilt for known languages
	backend  Completer
}

// NewTranslator constructs a Translator. An empty or unknown language falls
// back to the default target ("french").
func NewTranslator(backend Completer, language string) *Translator {
	t := &Translator{
		language: defaultLanguage,
		target:   targetNames[defaultLanguage],
		backend:  backend,
	}
	if language != "" {
		t.Reconfigure(map[string]any{"language": language})
	}
	return t
}

// Language returns the currently configured target language.
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.language
}

// Reconfigure applies a config map. "language" accepts any string; the
// translation target is only rebuilt when the language is a known one, so an
// unknown value is remembered but keeps translating to the previous target.
func (t *Translator) Reconfigure(cfg map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := cfg["language"].(string); ok && v != "" {
		t.language = v
		if name, known := targetNames[strings.ToLower(v)]; known {
			t.target = name
		}
	}
}

// Translate runs one translation of text into the configured language.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	t.mu.RLock()
	target := t.target
	t.mu.RUnlock()
	out, err := t.backend.Complete(ctx, "translate English to "+target+": "+text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
