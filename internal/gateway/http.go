package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"inferdash/pkg/types"
)

const defaultTimeout = 15 * time.Second

// HTTPGateway reaches the inference backend over its REST API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// HTTPOption customizes an HTTPGateway.
type HTTPOption func(*HTTPGateway)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGateway) { g.client = c }
}

// WithLogger installs a structured logger for request logging.
func WithLogger(l zerolog.Logger) HTTPOption {
	return func(g *HTTPGateway) { g.log = l }
}

// NewHTTP constructs an HTTPGateway for the backend at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *HTTPGateway) Configuration(ctx context.Context) (types.Configuration, error) {
	return getJSON[types.Configuration](ctx, g, "configuration", "/api/v1/config")
}

func (g *HTTPGateway) BackendStatuses(ctx context.Context) ([]types.BackendStatus, error) {
	return getJSON[[]types.BackendStatus](ctx, g, "backend_statuses", "/api/v1/backends/status")
}

func (g *HTTPGateway) LocalInventory(ctx context.Context) (types.LocalInventory, error) {
	return getJSON[types.LocalInventory](ctx, g, "local_inventory", "/api/v1/models/local")
}

func (g *HTTPGateway) RemoteStatus(ctx context.Context) (types.RemoteStatus, error) {
	return getJSON[types.RemoteStatus](ctx, g, "remote_status", "/api/v1/remote/status")
}

func (g *HTTPGateway) RemoteCatalog(ctx context.Context) (types.RemoteCatalog, error) {
	return getJSON[types.RemoteCatalog](ctx, g, "remote_catalog", "/api/v1/remote/models")
}

func (g *HTTPGateway) HealthSummary(ctx context.Context) (types.HealthSummary, error) {
	return getJSON[types.HealthSummary](ctx, g, "health_summary", "/api/v1/health/summary")
}

func (g *HTTPGateway) PerformanceReports(ctx context.Context) ([]types.PerformanceReport, error) {
	return getJSON[[]types.PerformanceReport](ctx, g, "performance_reports", "/api/v1/performance/reports")
}

func (g *HTTPGateway) SwitchActiveModel(ctx context.Context, backend, model string) error {
	return g.postJSON(ctx, "switch", "/api/v1/models/switch",
		types.SwitchRequest{Backend: backend, Model: model})
}

func (g *HTTPGateway) LoadLocalModel(ctx context.Context, name string) error {
	return g.postJSON(ctx, "load", "/api/v1/models/local/load",
		types.LocalModelRequest{Name: name})
}

func (g *HTTPGateway) UnloadLocalModel(ctx context.Context, name string) error {
	return g.postJSON(ctx, "unload", "/api/v1/models/local/unload",
		types.LocalModelRequest{Name: name})
}

func getJSON[T any](ctx context.Context, g *HTTPGateway, op, path string) (T, error) {
	var out T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := g.do(op, req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, statusError(op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (g *HTTPGateway) postJSON(ctx context.Context, op, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.do(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	// Response body is ignored on success.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (g *HTTPGateway) do(op string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error().Err(err).Str("op", op).Str("url", req.URL.String()).Msg("gateway request failed")
		return nil, err
	}
	g.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("dur", time.Since(start)).
		Msg("gateway request")
	return resp, nil
}

// statusError builds a StatusError, decoding the backend's JSON error
// payload when present.
func statusError(op string, resp *http.Response) error {
	e := &StatusError{Op: op, Code: resp.StatusCode}
	var payload types.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		e.Message = payload.Error
	}
	return e
}
