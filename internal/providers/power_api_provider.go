package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"urbanlight/columnforge/internal/models/catalog"
)

// PowerAPIProvider implements the power budget contract against a remote
// calculation service, for deployments where the electrical formula lives
// outside this process. The response is trusted verbatim; nothing is
// re-derived locally.
type PowerAPIProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPowerAPIProvider builds a provider from POWER_API_* environment variables
func NewPowerAPIProvider() *PowerAPIProvider {
	baseURL := os.Getenv("POWER_API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9090/api/v1"
	}
	apiKey := os.Getenv("POWER_API_KEY")

	return &PowerAPIProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// powerCalcRequest is the wire shape: only the non-empty slots travel.
type powerCalcRequest struct {
	Modules catalog.SelectionState `json:"modules"`
}

// Calculate posts the selection to the remote service and decodes its
// verdict.
func (p *PowerAPIProvider) Calculate(ctx context.Context, selection catalog.SelectionState) (*catalog.PowerCalculation, error) {
	body, err := json.Marshal(powerCalcRequest{Modules: selection})
	if err != nil {
		return nil, fmt.Errorf("failed to encode power request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/power/calculate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build power request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("power service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("power service returned %d: %s", resp.StatusCode, string(payload))
	}

	var calc catalog.PowerCalculation
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		return nil, fmt.Errorf("failed to decode power response: %w", err)
	}

	return &calc, nil
}
