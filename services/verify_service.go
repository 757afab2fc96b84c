package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// ModelLister is the part of the Ollama API client the verifier needs.
type ModelLister interface {
	List(ctx context.Context) (*api.ListResponse, error)
}

type VerifyReport struct {
	Models     []string
	Model      string
	ModelFound bool
}

// Verifier checks that Ollama answers on /api/tags and that the default
// model has been pulled.
type Verifier struct {
	lister ModelLister
	model  string
}

func NewVerifier(baseURL, model string, httpClient *http.Client) (*Verifier, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return NewVerifierWithLister(api.NewClient(u, httpClient), model), nil
}

func NewVerifierWithLister(lister ModelLister, model string) *Verifier {
	return &Verifier{lister: lister, model: model}
}

// Check lists the installed models. A name matches the default model when
// it contains it, so "llama3.2:latest" counts for "llama3.2".
func (v *Verifier) Check(ctx context.Context) (VerifyReport, error) {
	report := VerifyReport{Model: v.model}

	resp, err := v.lister.List(ctx)
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return report, fmt.Errorf("Ollama responded with status %d: %s", statusErr.StatusCode, statusErr.ErrorMessage)
		}
		return report, fmt.Errorf("connection failed: %w", err)
	}

	for _, m := range resp.Models {
		report.Models = append(report.Models, m.Name)
		if strings.Contains(m.Name, v.model) {
			report.ModelFound = true
		}
	}
	return report, nil
}
