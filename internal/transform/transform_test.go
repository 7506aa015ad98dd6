package transform

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoCompleter records prompts and answers from a canned map keyed by
// prompt prefix.
type echoCompleter struct {
	prompts []string
	answers map[string]string
}

func (c *echoCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	for prefix, out := range c.answers {
		if strings.HasPrefix(prompt, prefix) {
			return out, nil
		}
	}
	return "ok", nil
}

func TestTranslatorDefaultLanguage(t *testing.T) {
	tr := NewTranslator(&echoCompleter{}, "")
	assert.Equal(t, "french", tr.Language())
}

func TestTranslatorTranslate(t *testing.T) {
	c := &echoCompleter{answers: map[string]string{"translate English to French:": "Bonjour"}}
	tr := NewTranslator(c, "")
	out, err := tr.Translate(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	require.Len(t, c.prompts, 1)
	assert.Equal(t, "translate English to French: Hello", c.prompts[0])
}

func TestTranslatorReconfigureLanguage(t *testing.T) {
	c := &echoCompleter{}
	tr := NewTranslator(c, "")
	tr.Reconfigure(map[string]any{"language": "german"})
	assert.Equal(t, "german", tr.Language())
	_, err := tr.Translate(context.Background(), "Hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.prompts[0], "translate English to German:"), "prompt=%q", c.prompts[0])
}

func TestTranslatorUnknownLanguageKeepsPreviousTarget(t *testing.T) {
	c := &echoCompleter{}
	tr := NewTranslator(c, "")
	tr.Reconfigure(map[string]any{"language": "invalid_language"})
	// Any string is accepted as the configured language...
	assert.Equal(t, "invalid_language", tr.Language())
	// ...but translation keeps using the last known target.
	_, err := tr.Translate(context.Background(), "Hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.prompts[0], "translate English to French:"), "prompt=%q", c.prompts[0])
}

func TestTranslatorEmptyReconfigureKeepsDefault(t *testing.T) {
	tr := NewTranslator(&echoCompleter{}, "")
	tr.Reconfigure(map[string]any{})
	assert.Equal(t, "french", tr.Language())
}

func TestSummarizerDefaultLengths(t *testing.T) {
	s := NewSummarizer(&echoCompleter{}, NewTranslator(&echoCompleter{}, ""), 0, 0)
	minLen, maxLen := s.Lengths()
	assert.Equal(t, 5, minLen)
	assert.Equal(t, 15, maxLen)
}

func TestSummarizerReconfigure(t *testing.T) {
	s := NewSummarizer(&echoCompleter{}, NewTranslator(&echoCompleter{}, ""), 0, 0)
	// JSON-decoded config maps carry numbers as float64.
	s.Reconfigure(map[string]any{"min_length": float64(10), "max_length": float64(20)})
	minLen, maxLen := s.Lengths()
	assert.Equal(t, 10, minLen)
	assert.Equal(t, 20, maxLen)
}

func TestSummarizerBoundsInPrompt(t *testing.T) {
	c := &echoCompleter{}
	s := NewSummarizer(c, NewTranslator(&echoCompleter{}, ""), 5, 15)
	_, err := s.Summarize(context.Background(), "This is a long text.")
	require.NoError(t, err)
	assert.Equal(t, "summarize in 5 to 15 words: This is a long text.", c.prompts[0])
}

func TestSummarizeTranslatedComposes(t *testing.T) {
	c := &echoCompleter{answers: map[string]string{
		"summarize": "This is a summary.",
		"translate": "Ceci est un résumé.",
	}}
	tr := NewTranslator(c, "")
	s := NewSummarizer(c, tr, 0, 0)
	out, err := s.SummarizeTranslated(context.Background(), "This is a long text.")
	require.NoError(t, err)
	assert.Equal(t, "Ceci est un résumé.", out)
	require.Len(t, c.prompts, 2)
	assert.Contains(t, c.prompts[1], "This is a summary.")
}

func TestServiceWiring(t *testing.T) {
	c := &echoCompleter{answers: map[string]string{"translate": "Bonjour"}}
	svc := NewService(c, "", 0, 0)
	out, err := svc.Translate(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	svc.ReconfigureTranslator(map[string]any{"language": "romanian"})
	svc.ReconfigureSummarizer(map[string]any{"max_length": float64(30)})
}
