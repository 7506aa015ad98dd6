package types

// ModelConfig is the immutable metadata an engine reports about the model it
// serves. The gateway treats it as opaque beyond the served name binding.
type ModelConfig struct {
	// Name the backend serves the model under.
	// example: t5-small
	ServedName string `json:"served_name" example:"t5-small"`
	// Maximum context length supported by the engine.
	// example: 4096
	MaxModelLen int `json:"max_model_len,omitempty" example:"4096"`
	// Tensor parallelism degree the engine was constructed with.
	// example: 2
	TensorParallelSize int `json:"tensor_parallel_size,omitempty" example:"2"`
	// Data type of the loaded weights.
	// example: float16
	DType string `json:"dtype,omitempty" example:"float16"`
}

// Health state values reported per named model.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the per-model liveness report. Computed on demand, never
// persisted.
type HealthStatus struct {
	// Model name the probe ran against.
	// example: t5-small
	Model string `json:"model" example:"t5-small"`
	// Either "healthy" or "unhealthy".
	// example: healthy
	Status string `json:"status" example:"healthy"`
}
