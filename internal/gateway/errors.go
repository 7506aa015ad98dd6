package gateway

import "net/http"

// invalidModelError signals a caller-supplied model name that is not in the
// registry (switch or health probe against an unknown model).
type invalidModelError struct{ name string }

func (e invalidModelError) Error() string { return "unsupported model: " + e.name }

// StatusCode maps the error to a client-side failure for the HTTP layer.
func (e invalidModelError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidModel constructs an invalidModelError for name.
func ErrInvalidModel(name string) error { return invalidModelError{name: name} }

// IsInvalidModel reports whether err indicates an unknown model name.
func IsInvalidModel(err error) bool {
	_, ok := err.(invalidModelError)
	return ok
}

// configurationError is fatal and startup-only: the gateway refuses to start
// rather than run without a usable default model.
type configurationError struct{ msg string }

func (e configurationError) Error() string { return "configuration: " + e.msg }

// ErrConfiguration constructs a configurationError.
func ErrConfiguration(msg string) error { return configurationError{msg: msg} }

// IsConfiguration reports whether err is a fatal startup configuration error.
func IsConfiguration(err error) bool {
	_, ok := err.(configurationError)
	return ok
}
