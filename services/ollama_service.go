package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"autotestgen/models"

	"github.com/go-resty/resty/v2"
)

const generatePath = "/api/generate"

// OllamaService relays prompts to Ollama's generate endpoint. It keeps no
// state between calls.
type OllamaService struct {
	client       *resty.Client
	baseURL      string
	defaultModel string
	systemPrompt string
}

// NewOllamaService builds a relay for the Ollama server at baseURL. A zero
// timeout leaves outbound calls bounded only by the caller's context.
func NewOllamaService(baseURL, defaultModel string, timeout time.Duration) *OllamaService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &OllamaService{
		client:       client,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		systemPrompt: SystemPrompt,
	}
}

func (s *OllamaService) DefaultModel() string {
	return s.defaultModel
}

// Generate validates req, forwards it with the QA system prompt and maps the
// upstream answer. Every returned error is a *RelayError.
func (s *OllamaService) Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error) {
	if req.Prompt == "" {
		return models.GenerateResponse{}, NewInvalidRequest("Prompt is required")
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	payload := models.OllamaGenerateRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: s.systemPrompt,
		Stream: false,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(generatePath)
	if err != nil {
		log.Printf("Error calling Ollama at %s: %v", s.baseURL, err)
		return models.GenerateResponse{}, &RelayError{
			Kind:    KindUpstreamUnavailable,
			Status:  http.StatusBadGateway,
			Message: fmt.Sprintf("Ollama is unreachable at %s: %v", s.baseURL, err),
			Err:     err,
		}
	}

	if !resp.IsSuccess() {
		log.Printf("Ollama API Error: %s", resp.String())
		return models.GenerateResponse{}, s.upstreamError(resp.StatusCode(), resp.Body())
	}

	var result models.OllamaGenerateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return models.GenerateResponse{}, NewInternalError(fmt.Errorf("failed to parse Ollama response: %w", err))
	}
	logGeneration(result)

	return models.GenerateResponse{
		Response: result.Response,
		Duration: result.TotalDuration,
	}, nil
}

func logGeneration(result models.OllamaGenerateResponse) {
	var total time.Duration
	if result.TotalDuration != nil {
		total = time.Duration(*result.TotalDuration)
	}
	log.Printf("Ollama generated with %s: done=%t eval_count=%d load=%v total=%v",
		result.Model, result.Done, result.EvalCount, time.Duration(result.LoadDuration), total)
}

// upstreamError turns a non-2xx answer into a RelayError carrying the
// upstream status. A missing model becomes a pull instruction.
func (s *OllamaService) upstreamError(status int, body []byte) *RelayError {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("status %d", status)
	}

	relayErr := &RelayError{
		Kind:    KindUpstreamError,
		Status:  status,
		Message: "Ollama API error: " + statusText,
	}

	var payload models.OllamaErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return relayErr
	}

	switch {
	case strings.Contains(payload.Error, "not found"):
		relayErr.Kind = KindModelNotFound
		relayErr.Message = fmt.Sprintf("Model '%s' not found in Ollama. Please run 'ollama pull %s' in your terminal.", s.defaultModel, s.defaultModel)
	case payload.Error != "":
		relayErr.Message = payload.Error
	}
	return relayErr
}
