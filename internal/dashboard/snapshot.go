package dashboard

import (
	"maps"
	"slices"
	"time"

	"inferdash/pkg/types"
)

// Snapshot is the immutable aggregate of all backend status sources. A
// Snapshot is only ever assembled wholesale from one complete set of
// gateway fetches; the sole permitted derivation is withRefreshing, which
// flips the transient flag on an existing value. Consumers must treat the
// contained slices and maps as read-only.
type Snapshot struct {
	Configuration      types.Configuration
	BackendStatuses    []types.BackendStatus
	LocalInventory     types.LocalInventory
	RemoteStatus       types.RemoteStatus
	RemoteCatalog      types.RemoteCatalog
	HealthSummary      types.HealthSummary
	PerformanceReports []types.PerformanceReport
	// True exactly while a refresh or control operation has started a
	// gateway round-trip and not yet completed.
	IsRefreshing bool
}

// withRefreshing returns a copy with the transient flag set. The copy is
// shallow: the substantive fields are shared, which is safe because they
// are never mutated after publish.
func (s Snapshot) withRefreshing(v bool) Snapshot {
	s.IsRefreshing = v
	return s
}

// Equal reports structural equality across all seven substantive fields
// plus the refreshing flag.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.IsRefreshing == o.IsRefreshing &&
		configurationEqual(s.Configuration, o.Configuration) &&
		backendStatusesEqual(s.BackendStatuses, o.BackendStatuses) &&
		inventoryEqual(s.LocalInventory, o.LocalInventory) &&
		remoteStatusEqual(s.RemoteStatus, o.RemoteStatus) &&
		slices.Equal(s.RemoteCatalog.ModelNames, o.RemoteCatalog.ModelNames) &&
		s.RemoteCatalog.Total == o.RemoteCatalog.Total &&
		healthSummaryEqual(s.HealthSummary, o.HealthSummary) &&
		reportsEqual(s.PerformanceReports, o.PerformanceReports)
}

func configurationEqual(a, b types.Configuration) bool {
	return a.ActiveBackend == b.ActiveBackend &&
		a.ActiveModel == b.ActiveModel &&
		maps.Equal(a.Backends, b.Backends) &&
		maps.Equal(a.Models, b.Models)
}

func backendStatusesEqual(a, b []types.BackendStatus) bool {
	return slices.EqualFunc(a, b, func(x, y types.BackendStatus) bool {
		return x.Backend == y.Backend &&
			x.Available == y.Available &&
			x.Healthy == y.Healthy &&
			x.ResponseTimeMs == y.ResponseTimeMs &&
			x.ErrorMessage == y.ErrorMessage &&
			x.LastCheckedAt.Equal(y.LastCheckedAt)
	})
}

func inventoryEqual(a, b types.LocalInventory) bool {
	if !slices.EqualFunc(a.Models, b.Models, func(x, y types.LocalModel) bool {
		return x.Name == y.Name &&
			x.SizeGB == y.SizeGB &&
			x.Loaded == y.Loaded &&
			x.ContextWindow == y.ContextWindow &&
			x.MaxTokens == y.MaxTokens &&
			timePtrEqual(x.LastUsedAt, y.LastUsedAt)
	}) {
		return false
	}
	// Loaded names are a set; order on the wire is not significant.
	return a.LoadedSet().Equal(b.LoadedSet())
}

func remoteStatusEqual(a, b types.RemoteStatus) bool {
	return a.Connected == b.Connected &&
		ptrEqual(a.CreditsRemaining, b.CreditsRemaining) &&
		ptrEqual(a.RateLimitRemaining, b.RateLimitRemaining) &&
		a.ErrorMessage == b.ErrorMessage
}

func healthSummaryEqual(a, b types.HealthSummary) bool {
	return maps.Equal(a.PerBackendStatus, b.PerBackendStatus) &&
		a.LocalLoadedCount == b.LocalLoadedCount &&
		a.LocalAvailableCount == b.LocalAvailableCount &&
		a.RemoteConnected == b.RemoteConnected &&
		a.ActiveBackend == b.ActiveBackend &&
		a.ActiveModel == b.ActiveModel &&
		a.SystemHealthy == b.SystemHealthy
}

func reportsEqual(a, b []types.PerformanceReport) bool {
	return slices.EqualFunc(a, b, func(x, y types.PerformanceReport) bool {
		return x.Backend == y.Backend &&
			x.TimeRange == y.TimeRange &&
			x.Metrics == y.Metrics &&
			x.GeneratedAt.Equal(y.GeneratedAt)
	})
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
