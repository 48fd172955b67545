package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inferdash/internal/dashboard"
	"inferdash/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Current() dashboard.State
	Refresh(ctx context.Context, force bool) error
	SwitchActiveModel(ctx context.Context, backend, model string) error
	LoadLocalModel(ctx context.Context, name string) error
	UnloadLocalModel(ctx context.Context, name string) error
	Subscribe(fn func(dashboard.State)) (func(), error)
}

// NewMux builds the dashboard HTTP surface.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	// GetDashboard godoc
	// @Summary  Current dashboard state
	// @Produce  json
	// @Success  200 {object} types.DashboardResponse
	// @Router   /dashboard [get]
	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toDashboardResponse(svc.Current()))
	})

	// Refresh godoc
	// @Summary  Re-fetch the full aggregate
	// @Produce  json
	// @Param    force query bool false "assert caller intent; all sources are re-fetched either way"
	// @Success  200 {object} types.RefreshResponse
	// @Failure  502 {object} types.ErrorResponse
	// @Router   /dashboard/refresh [post]
	r.Post("/dashboard/refresh", func(w http.ResponseWriter, r *http.Request) {
		force := r.URL.Query().Get("force") == "1" || strings.EqualFold(r.URL.Query().Get("force"), "true")
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Refresh(ctx, force); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, types.RefreshResponse{State: string(svc.Current().Phase)})
	})

	// Events streams every state transition as NDJSON until the client
	// disconnects. Transitions arriving faster than the client reads are
	// dropped, not buffered without bound.
	r.Get("/dashboard/events", func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		ch := make(chan dashboard.State, 16)
		cancel, err := svc.Subscribe(func(st dashboard.State) {
			select {
			case ch <- st:
			default:
			}
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for {
			select {
			case <-r.Context().Done():
				return
			case <-serverBaseCtx.Done():
				return
			case st := <-ch:
				if err := enc.Encode(toDashboardResponse(st)); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	})

	// Switch godoc
	// @Summary  Switch the active backend and model
	// @Accept   json
	// @Produce  json
	// @Param    request body types.SwitchRequest true "target backend and model"
	// @Success  200 {object} types.RefreshResponse
	// @Failure  400 {object} types.ErrorResponse
	// @Failure  502 {object} types.ErrorResponse
	// @Router   /models/switch [post]
	r.Post("/models/switch", func(w http.ResponseWriter, r *http.Request) {
		var req types.SwitchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Backend) == "" || strings.TrimSpace(req.Model) == "" {
			writeJSONError(w, http.StatusBadRequest, "backend and model are required")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.SwitchActiveModel(ctx, req.Backend, req.Model); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, types.RefreshResponse{State: string(svc.Current().Phase)})
	})

	r.Post("/models/local/load", func(w http.ResponseWriter, r *http.Request) {
		handleLocalModel(w, r, svc.LoadLocalModel, svc)
	})

	r.Post("/models/local/unload", func(w http.ResponseWriter, r *http.Request) {
		handleLocalModel(w, r, svc.UnloadLocalModel, svc)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Current().Phase == dashboard.PhaseReady {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(string(svc.Current().Phase)))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func handleLocalModel(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error, svc Service) {
	var req types.LocalModelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if err := op(ctx, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.RefreshResponse{State: string(svc.Current().Phase)})
}

// decodeJSON enforces content type and body size, reporting failures to w.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlogError(err, "failed to encode response")
	}
}

// toDashboardResponse flattens the controller state into the wire shape.
func toDashboardResponse(st dashboard.State) types.DashboardResponse {
	resp := types.DashboardResponse{State: string(st.Phase)}
	switch st.Phase {
	case dashboard.PhaseFailed:
		resp.Error = st.Err.Error()
	case dashboard.PhaseReady:
		snap := st.Snapshot
		resp.IsRefreshing = snap.IsRefreshing
		resp.Configuration = &snap.Configuration
		resp.BackendStatuses = snap.BackendStatuses
		resp.LocalInventory = &snap.LocalInventory
		resp.RemoteStatus = &snap.RemoteStatus
		resp.RemoteCatalog = &snap.RemoteCatalog
		resp.HealthSummary = &snap.HealthSummary
		resp.PerformanceReports = snap.PerformanceReports
	}
	return resp
}
