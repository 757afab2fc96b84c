package models

// GenerateRequest is the body accepted by POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Model  string `json:"model,omitempty"`
}

// GenerateResponse is the normalized success payload of the relay.
// Duration is the upstream total_duration in nanoseconds.
type GenerateResponse struct {
	Response string `json:"response"`
	Duration *int64 `json:"duration,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// OllamaGenerateRequest is the body sent to Ollama's /api/generate.
// Stream is always serialized so the server never falls back to streaming.
type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type OllamaGenerateResponse struct {
	Model         string `json:"model"`
	Response      string `json:"response"`
	Done          bool   `json:"done"`
	TotalDuration *int64 `json:"total_duration,omitempty"`
	LoadDuration  int64  `json:"load_duration,omitempty"`
	EvalCount     int    `json:"eval_count,omitempty"`
}

type OllamaErrorResponse struct {
	Error string `json:"error"`
}
