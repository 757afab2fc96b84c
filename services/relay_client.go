package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"autotestgen/models"

	"github.com/go-resty/resty/v2"
)

// RelayClient calls a running relay over HTTP. Relay failures come back as
// *RelayError with the relay's status and error text.
type RelayClient struct {
	client  *resty.Client
	baseURL string
}

func NewRelayClient(baseURL string) *RelayClient {
	return &RelayClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
		baseURL: baseURL,
	}
}

func (c *RelayClient) Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(generatePath)
	if err != nil {
		return models.GenerateResponse{}, &RelayError{
			Kind:    KindUpstreamUnavailable,
			Status:  http.StatusBadGateway,
			Message: fmt.Sprintf("relay is unreachable at %s: %v", c.baseURL, err),
			Err:     err,
		}
	}

	if !resp.IsSuccess() {
		message := "Error: " + http.StatusText(resp.StatusCode())
		var payload models.ErrorResponse
		if err := json.Unmarshal(resp.Body(), &payload); err == nil && payload.Error != "" {
			message = payload.Error
		}
		return models.GenerateResponse{}, &RelayError{
			Kind:    kindForStatus(resp.StatusCode()),
			Status:  resp.StatusCode(),
			Message: message,
		}
	}

	var result models.GenerateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return models.GenerateResponse{}, NewInternalError(fmt.Errorf("failed to parse relay response: %w", err))
	}
	return result, nil
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindInvalidRequest
	case http.StatusBadGateway:
		return KindUpstreamUnavailable
	case http.StatusInternalServerError:
		return KindInternalError
	default:
		return KindUpstreamError
	}
}
