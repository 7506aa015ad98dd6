package types

// ChatMessage is a single turn in a chat completion conversation.
type ChatMessage struct {
	// Role of the author ("system", "user", "assistant").
	// example: user
	Role string `json:"role" example:"user"`
	// Message text.
	// example: Write a haiku about the ocean.
	Content string `json:"content" example:"Write a haiku about the ocean."`
}

// ChatRequest represents a chat completion request payload.
type ChatRequest struct {
	// Model field is bound by the dispatcher to the served name of the
	// currently selected engine; any caller-supplied value is overwritten.
	// example: t5-small
	Model string `json:"model,omitempty" example:"t5-small"`
	// Conversation so far, oldest message first.
	Messages []ChatMessage `json:"messages"`
	// If true, stream results as server-sent events. When false, the full
	// completion document is returned in one response.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Optional stop sequences. Generation stops when any sequence is matched.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
	// Random seed for reproducibility; 0 or omitted lets the engine choose.
	// example: 42
	Seed int64 `json:"seed,omitempty" example:"42"`
}

// ChatChoice is one completed alternative in a ChatResponse.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty" example:"stop"`
}

// Usage contains token accounting for a completed generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens" example:"9"`
	CompletionTokens int `json:"completion_tokens" example:"12"`
	TotalTokens      int `json:"total_tokens" example:"21"`
}

// ChatResponse is the single-shot completion document.
type ChatResponse struct {
	// example: chatcmpl-6f1c9c4e
	ID string `json:"id" example:"chatcmpl-6f1c9c4e"`
	// example: chat.completion
	Object string `json:"object" example:"chat.completion"`
	// Creation time in unix seconds.
	// example: 1700000000
	Created int64 `json:"created" example:"1700000000"`
	// example: t5-small
	Model   string       `json:"model" example:"t5-small"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChunkDelta carries the incremental content of one streamed chunk.
type ChunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChunkChoice is one alternative within a streamed chunk.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// ChatChunk is one element of a streamed completion.
type ChatChunk struct {
	ID      string        `json:"id,omitempty"`
	Object  string        `json:"object,omitempty" example:"chat.completion.chunk"`
	Created int64         `json:"created,omitempty"`
	Model   string        `json:"model,omitempty"`
	Choices []ChunkChoice `json:"choices"`
}

// ModelsResponse is returned by GET /models.
type ModelsResponse struct {
	// Names of all configured models, including ones that failed to load.
	Models []string `json:"models"`
	// Name of the currently selected model.
	// example: t5-small
	CurrentModel string `json:"current_model" example:"t5-small"`
}

// SwitchResponse confirms a successful model switch.
type SwitchResponse struct {
	// example: Switched to model t5-large
	Message string `json:"message" example:"Switched to model t5-large"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unsupported model
	Error string `json:"error" example:"unsupported model"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// TranslateRequest is the payload for POST /translate.
type TranslateRequest struct {
	// Text to translate.
	// example: Hello
	Text string `json:"text" example:"Hello"`
}

// TranslateResponse is the result of a translation.
type TranslateResponse struct {
	// example: Bonjour
	Translation string `json:"translation" example:"Bonjour"`
}

// SummarizeRequest is the payload for POST /summarize.
type SummarizeRequest struct {
	// Text to summarize.
	// example: This is a long text.
	Text string `json:"text" example:"This is a long text."`
}

// SummarizeResponse is the result of a summarization, translated into the
// translator's configured language.
type SummarizeResponse struct {
	// example: Ceci est un résumé.
	Summary string `json:"summary" example:"Ceci est un résumé."`
}
