package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"inferdash/pkg/types"
)

// stubGateway counts every call, records write arguments and lets tests
// fail individual operations.
type stubGateway struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error
	delay time.Duration

	cfg      types.Configuration
	switches [][2]string
	loads    []string
	unloads  []string
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		calls: make(map[string]int),
		errs:  make(map[string]error),
		cfg: types.Configuration{
			ActiveBackend: "local",
			ActiveModel:   "llama-2-7b",
			Backends:      map[string]types.BackendSettings{"local": {Enabled: true}},
			Models:        map[string]types.ModelDescriptor{"llama-2-7b": {Backend: "local", ContextWindow: 4096}},
		},
	}
}

func (g *stubGateway) step(op string) error {
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
	return g.errs[op]
}

func (g *stubGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *stubGateway) failOp(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[op] = err
}

var readOps = []string{
	"configuration", "backend_statuses", "local_inventory", "remote_status",
	"remote_catalog", "health_summary", "performance_reports",
}

func (g *stubGateway) Configuration(ctx context.Context) (types.Configuration, error) {
	if err := g.step("configuration"); err != nil {
		return types.Configuration{}, err
	}
	return g.cfg, nil
}

func (g *stubGateway) BackendStatuses(ctx context.Context) ([]types.BackendStatus, error) {
	if err := g.step("backend_statuses"); err != nil {
		return nil, err
	}
	return []types.BackendStatus{}, nil
}

func (g *stubGateway) LocalInventory(ctx context.Context) (types.LocalInventory, error) {
	if err := g.step("local_inventory"); err != nil {
		return types.LocalInventory{}, err
	}
	return types.LocalInventory{Models: []types.LocalModel{}, LoadedNames: []string{}}, nil
}

func (g *stubGateway) RemoteStatus(ctx context.Context) (types.RemoteStatus, error) {
	if err := g.step("remote_status"); err != nil {
		return types.RemoteStatus{}, err
	}
	return types.RemoteStatus{}, nil
}

func (g *stubGateway) RemoteCatalog(ctx context.Context) (types.RemoteCatalog, error) {
	if err := g.step("remote_catalog"); err != nil {
		return types.RemoteCatalog{}, err
	}
	return types.RemoteCatalog{ModelNames: []string{}}, nil
}

func (g *stubGateway) HealthSummary(ctx context.Context) (types.HealthSummary, error) {
	if err := g.step("health_summary"); err != nil {
		return types.HealthSummary{}, err
	}
	return types.HealthSummary{}, nil
}

func (g *stubGateway) PerformanceReports(ctx context.Context) ([]types.PerformanceReport, error) {
	if err := g.step("performance_reports"); err != nil {
		return nil, err
	}
	return []types.PerformanceReport{}, nil
}

func (g *stubGateway) SwitchActiveModel(ctx context.Context, backend, model string) error {
	if err := g.step("switch"); err != nil {
		return err
	}
	g.mu.Lock()
	g.switches = append(g.switches, [2]string{backend, model})
	g.mu.Unlock()
	return nil
}

func (g *stubGateway) LoadLocalModel(ctx context.Context, name string) error {
	if err := g.step("load"); err != nil {
		return err
	}
	g.mu.Lock()
	g.loads = append(g.loads, name)
	g.mu.Unlock()
	return nil
}

func (g *stubGateway) UnloadLocalModel(ctx context.Context, name string) error {
	if err := g.step("unload"); err != nil {
		return err
	}
	g.mu.Lock()
	g.unloads = append(g.unloads, name)
	g.mu.Unlock()
	return nil
}

// waitForPhase blocks until the controller publishes one of the wanted
// phases, or fails the test after two seconds.
func waitForPhase(t *testing.T, c *Controller, want ...Phase) State {
	t.Helper()
	ch := make(chan State, 64)
	cancel, err := c.Subscribe(func(st State) {
		select {
		case ch <- st:
		default:
		}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			for _, p := range want {
				if st.Phase == p {
					return st
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v; current=%v", want, c.Current().Phase)
		}
	}
}
