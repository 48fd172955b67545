package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewPublishesReadySnapshot(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	defer c.Close()

	st := waitForPhase(t, c, PhaseReady)
	if st.Snapshot.Configuration.ActiveModel != "llama-2-7b" {
		t.Fatalf("active model = %q", st.Snapshot.Configuration.ActiveModel)
	}
	if st.Snapshot.IsRefreshing {
		t.Fatalf("fresh snapshot marked refreshing")
	}
	// Construction triggers exactly one call to each read.
	for _, op := range readOps {
		if n := gw.count(op); n != 1 {
			t.Fatalf("%s called %d times, want 1", op, n)
		}
	}
}

func TestRefreshReissuesAllReadsRegardlessOfForce(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	defer c.Close()
	waitForPhase(t, c, PhaseReady)

	if err := c.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := c.Refresh(context.Background(), true); err != nil {
		t.Fatalf("forced refresh: %v", err)
	}
	for _, op := range readOps {
		if n := gw.count(op); n != 3 {
			t.Fatalf("%s called %d times, want 3", op, n)
		}
	}
}

func TestRefreshSingleFailureDiscardsGoodSnapshot(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	defer c.Close()
	waitForPhase(t, c, PhaseReady)

	boom := errors.New("summary unavailable")
	gw.failOp("health_summary", boom)
	err := c.Refresh(context.Background(), true)
	if !errors.Is(err, boom) {
		t.Fatalf("refresh err = %v, want %v", err, boom)
	}
	st := c.Current()
	if st.Phase != PhaseFailed {
		t.Fatalf("phase = %v, want failed", st.Phase)
	}
	if !errors.Is(st.Err, boom) {
		t.Fatalf("published err = %v", st.Err)
	}
	// A later successful refresh recovers.
	gw.failOp("health_summary", nil)
	if err := c.Refresh(context.Background(), false); err != nil {
		t.Fatalf("recovery refresh: %v", err)
	}
	if c.Current().Phase != PhaseReady {
		t.Fatalf("phase after recovery = %v", c.Current().Phase)
	}
}

func TestSwitchActiveModel(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	defer c.Close()
	waitForPhase(t, c, PhaseReady)

	var sawRefreshing bool
	cancel, err := c.Subscribe(func(st State) {
		if st.Phase == PhaseReady && st.Snapshot.IsRefreshing {
			sawRefreshing = true
		}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if err := c.SwitchActiveModel(context.Background(), "remote", "gpt-4"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	gw.mu.Lock()
	switches := gw.switches
	gw.mu.Unlock()
	if len(switches) != 1 || switches[0] != [2]string{"remote", "gpt-4"} {
		t.Fatalf("switch calls = %v", switches)
	}
	if !sawRefreshing {
		t.Fatalf("no intermediate refreshing state published")
	}
	st := c.Current()
	if st.Phase != PhaseReady || st.Snapshot.IsRefreshing {
		t.Fatalf("terminal state %v refreshing=%v", st.Phase, st.Snapshot.IsRefreshing)
	}
	// The write triggered a full reconciliation.
	if n := gw.count("configuration"); n != 2 {
		t.Fatalf("configuration called %d times, want 2", n)
	}
}

func TestLoadAndUnloadLocalModel(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	defer c.Close()
	waitForPhase(t, c, PhaseReady)

	if err := c.LoadLocalModel(context.Background(), "phi-2"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.UnloadLocalModel(context.Background(), "phi-2"); err != nil {
		t.Fatalf("unload: %v", err)
	}
	gw.mu.Lock()
	loads, unloads := gw.loads, gw.unloads
	gw.mu.Unlock()
	if len(loads) != 1 || loads[0] != "phi-2" {
		t.Fatalf("loads = %v", loads)
	}
	if len(unloads) != 1 || unloads[0] != "phi-2" {
		t.Fatalf("unloads = %v", unloads)
	}
	if st := c.Current(); st.Phase != PhaseReady || st.Snapshot.IsRefreshing {
		t.Fatalf("terminal state %v refreshing=%v", st.Phase, st.Snapshot.IsRefreshing)
	}
}

func TestControlOpFailureClearsRefreshingFlag(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	defer c.Close()
	waitForPhase(t, c, PhaseReady)

	boom := errors.New("load rejected")
	gw.failOp("load", boom)
	err := c.LoadLocalModel(context.Background(), "phi-2")
	if !errors.Is(err, boom) {
		t.Fatalf("load err = %v, want %v", err, boom)
	}
	st := c.Current()
	if st.Phase != PhaseReady {
		t.Fatalf("phase = %v, want ready (last good data kept on write failure)", st.Phase)
	}
	if st.Snapshot.IsRefreshing {
		t.Fatalf("refreshing flag stuck after failed control op")
	}
	// The failed write must not have triggered a reconciliation.
	if n := gw.count("configuration"); n != 1 {
		t.Fatalf("configuration called %d times, want 1", n)
	}
}

func TestConcurrentOperationsSettleConsistently(t *testing.T) {
	gw := newStubGateway()
	gw.delay = 5 * time.Millisecond
	c := New(gw)
	defer c.Close()
	waitForPhase(t, c, PhaseReady)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(3)
	go func() { defer wg.Done(); errs[0] = c.SwitchActiveModel(context.Background(), "remote", "gpt-4") }()
	go func() { defer wg.Done(); errs[1] = c.LoadLocalModel(context.Background(), "phi-2") }()
	go func() { defer wg.Done(); errs[2] = c.Refresh(context.Background(), false) }()
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
	}
	st := waitForPhase(t, c, PhaseReady)
	if st.Snapshot.IsRefreshing {
		t.Fatalf("refreshing flag set after all ops settled")
	}
	if st.Snapshot.Configuration.ActiveModel == "" {
		t.Fatalf("half-written snapshot published: %+v", st.Snapshot.Configuration)
	}
}

func TestControllersAreIsolated(t *testing.T) {
	gwA, gwB := newStubGateway(), newStubGateway()
	a, b := New(gwA), New(gwB)
	defer a.Close()
	defer b.Close()
	waitForPhase(t, a, PhaseReady)
	waitForPhase(t, b, PhaseReady)

	gwB.failOp("remote_status", errors.New("remote down"))
	if err := b.Refresh(context.Background(), true); err == nil {
		t.Fatalf("expected b refresh to fail")
	}
	if a.Current().Phase != PhaseReady {
		t.Fatalf("a observed b's failure: %v", a.Current().Phase)
	}
	// a's gateway saw only its own eager refresh.
	if n := gwA.count("remote_status"); n != 1 {
		t.Fatalf("gwA remote_status called %d times, want 1", n)
	}
}

func TestClosedControllerFailsDeterministically(t *testing.T) {
	gw := newStubGateway()
	c := New(gw)
	waitForPhase(t, c, PhaseReady)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := c.Refresh(context.Background(), true); !IsClosed(err) {
		t.Fatalf("refresh after close: %v", err)
	}
	if err := c.SwitchActiveModel(context.Background(), "remote", "gpt-4"); !IsClosed(err) {
		t.Fatalf("switch after close: %v", err)
	}
	if err := c.LoadLocalModel(context.Background(), "m"); !IsClosed(err) {
		t.Fatalf("load after close: %v", err)
	}
	if err := c.UnloadLocalModel(context.Background(), "m"); !IsClosed(err) {
		t.Fatalf("unload after close: %v", err)
	}
	if _, err := c.Subscribe(func(State) {}); !IsClosed(err) {
		t.Fatalf("subscribe after close: %v", err)
	}
	// No gateway call is attempted after close.
	n := gw.count("configuration")
	if n != 1 {
		t.Fatalf("configuration called %d times after close, want 1", n)
	}
}
