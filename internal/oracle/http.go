package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resilinet/internal/history"
	"resilinet/internal/network"
)

// HTTPOracle delegates scoring to an external model service. The service
// receives the extracted feature vectors plus the weighted edge list and
// answers with one probability per bank.
type HTTPOracle struct {
	Client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTP creates an oracle client for the scoring service at baseURL.
// The timeout bounds the whole request, a slow model never stalls a round.
func NewHTTP(baseURL, apiKey string, timeout time.Duration) *HTTPOracle {
	return &HTTPOracle{
		Client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (o *HTTPOracle) Name() string { return "http" }

type scoreEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type scoreRequest struct {
	Features map[string]Features `json:"features"`
	Edges    []scoreEdge         `json:"edges"`
}

type scoreResponse struct {
	Scores map[string]float64 `json:"scores"`
}

func (o *HTTPOracle) Predict(ctx context.Context, net *network.State, hist *history.Store) (map[string]float64, error) {
	payload := scoreRequest{Features: ExtractFeatures(net, hist)}
	for _, e := range net.Edges() {
		payload.Edges = append(payload.Edges, scoreEdge{
			Source: e.Lender,
			Target: e.Borrower,
			Weight: edgeWeight(e),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("oracle encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("X-API-Key", o.apiKey)
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if out.Scores == nil {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return out.Scores, nil
}
