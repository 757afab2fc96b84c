package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"autotestgen/models"
)

func TestRelayClientSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Prompt != "checkout" || req.Model != "llama3.2" {
			t.Errorf("unexpected request %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"table","duration":42}`))
	}))
	defer server.Close()

	resp, err := NewRelayClient(server.URL).Generate(context.Background(), models.GenerateRequest{Prompt: "checkout", Model: "llama3.2"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != "table" || resp.Duration == nil || *resp.Duration != 42 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestRelayClientErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Model 'llama3.2' not found in Ollama."}`))
	}))
	defer server.Close()

	_, err := NewRelayClient(server.URL).Generate(context.Background(), models.GenerateRequest{Prompt: "p"})
	relayErr := AsRelayError(err)
	if relayErr.Status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", relayErr.Status)
	}
	if relayErr.Message != "Model 'llama3.2' not found in Ollama." {
		t.Errorf("unexpected message %q", relayErr.Message)
	}
}

func TestRelayClientErrorWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewRelayClient(server.URL).Generate(context.Background(), models.GenerateRequest{Prompt: "p"})
	relayErr := AsRelayError(err)
	if relayErr.Message != "Error: Service Unavailable" {
		t.Errorf("unexpected message %q", relayErr.Message)
	}
	if relayErr.Kind != KindUpstreamError {
		t.Errorf("unexpected kind %s", relayErr.Kind)
	}
}

func TestRelayClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewRelayClient(url).Generate(context.Background(), models.GenerateRequest{Prompt: "p"})
	if AsRelayError(err).Kind != KindUpstreamUnavailable {
		t.Errorf("expected UpstreamUnavailable, got %v", err)
	}
}
