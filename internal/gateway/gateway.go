package gateway

import (
	"context"

	"inferdash/pkg/types"
)

// Gateway is the narrow boundary through which the dashboard reaches the
// backend services. Seven reads return snapshot sub-structures; three
// writes mutate backend state. Implementations own transport, auth and
// serialization; callers treat every error as opaque.
type Gateway interface {
	Configuration(ctx context.Context) (types.Configuration, error)
	BackendStatuses(ctx context.Context) ([]types.BackendStatus, error)
	LocalInventory(ctx context.Context) (types.LocalInventory, error)
	RemoteStatus(ctx context.Context) (types.RemoteStatus, error)
	RemoteCatalog(ctx context.Context) (types.RemoteCatalog, error)
	HealthSummary(ctx context.Context) (types.HealthSummary, error)
	PerformanceReports(ctx context.Context) ([]types.PerformanceReport, error)

	SwitchActiveModel(ctx context.Context, backend, model string) error
	LoadLocalModel(ctx context.Context, name string) error
	UnloadLocalModel(ctx context.Context, name string) error
}
