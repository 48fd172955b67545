package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"inferdash/internal/gateway"
	"inferdash/pkg/types"
)

// Controller owns the published dashboard state and drives the gateway.
// Construction publishes Pending and kicks off one eager forced refresh;
// after that every accepted operation may replace the published state.
//
// Concurrently issued operations are not serialized: each completes or
// fails independently and the last completed publish wins. The published
// state itself is always one complete value, never a partial one.
type Controller struct {
	gw    gateway.Gateway
	log   zerolog.Logger
	store *Store
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New constructs a Controller over gw and starts the eager refresh in the
// background. Callers observe the outcome through Subscribe or Current.
func New(gw gateway.Gateway, opts ...Option) *Controller {
	c := &Controller{gw: gw, log: zerolog.Nop(), store: newStore()}
	for _, opt := range opts {
		opt(c)
	}
	go func() {
		if err := c.Refresh(context.Background(), true); err != nil {
			c.log.Error().Err(err).Msg("eager refresh failed")
		}
	}()
	return c
}

// Current returns the last published state.
func (c *Controller) Current() State { return c.store.Current() }

// Subscribe registers fn for the current state and all transitions.
func (c *Controller) Subscribe(fn func(State)) (func(), error) {
	return c.store.Subscribe(fn)
}

// Close tears the controller down. Every later operation fails with
// ErrClosed; in-flight gateway calls run to completion but their results
// are dropped.
func (c *Controller) Close() error {
	c.store.Close()
	return nil
}

// Refresh fans out all seven gateway reads and publishes the outcome.
// Every read must succeed for a snapshot to be published; a single failure
// publishes Failed and discards any previously good snapshot. The force
// flag only asserts caller intent: there is no cache to bypass, all reads
// are re-issued either way.
func (c *Controller) Refresh(ctx context.Context, force bool) error {
	if c.store.isClosed() {
		return ErrClosed()
	}
	start := time.Now()

	var (
		cfg      types.Configuration
		statuses []types.BackendStatus
		inv      types.LocalInventory
		remote   types.RemoteStatus
		catalog  types.RemoteCatalog
		summary  types.HealthSummary
		reports  []types.PerformanceReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { var err error; cfg, err = c.gw.Configuration(gctx); return err })
	g.Go(func() error { var err error; statuses, err = c.gw.BackendStatuses(gctx); return err })
	g.Go(func() error { var err error; inv, err = c.gw.LocalInventory(gctx); return err })
	g.Go(func() error { var err error; remote, err = c.gw.RemoteStatus(gctx); return err })
	g.Go(func() error { var err error; catalog, err = c.gw.RemoteCatalog(gctx); return err })
	g.Go(func() error { var err error; summary, err = c.gw.HealthSummary(gctx); return err })
	g.Go(func() error { var err error; reports, err = c.gw.PerformanceReports(gctx); return err })
	if err := g.Wait(); err != nil {
		refreshesTotal.WithLabelValues("error").Inc()
		c.log.Error().Err(err).Dur("dur", time.Since(start)).Msg("refresh failed")
		c.store.publish(FailedState(err))
		return err
	}

	snap := Snapshot{
		Configuration:      cfg,
		BackendStatuses:    statuses,
		LocalInventory:     inv,
		RemoteStatus:       remote,
		RemoteCatalog:      catalog,
		HealthSummary:      summary,
		PerformanceReports: reports,
	}
	refreshesTotal.WithLabelValues("ok").Inc()
	refreshDuration.Observe(time.Since(start).Seconds())
	c.store.publish(ReadyState(snap))
	c.log.Debug().
		Str("active_backend", cfg.ActiveBackend).
		Str("active_model", cfg.ActiveModel).
		Dur("dur", time.Since(start)).
		Msg("refresh ok")
	return nil
}

// SwitchActiveModel selects the active backend and model, then reconciles
// the full aggregate.
func (c *Controller) SwitchActiveModel(ctx context.Context, backend, model string) error {
	return c.control(ctx, "switch_active_model", func(ctx context.Context) error {
		return c.gw.SwitchActiveModel(ctx, backend, model)
	})
}

// LoadLocalModel loads a model into the local runtime, then reconciles.
func (c *Controller) LoadLocalModel(ctx context.Context, name string) error {
	return c.control(ctx, "load_local_model", func(ctx context.Context) error {
		return c.gw.LoadLocalModel(ctx, name)
	})
}

// UnloadLocalModel unloads a model from the local runtime, then reconciles.
func (c *Controller) UnloadLocalModel(ctx context.Context, name string) error {
	return c.control(ctx, "unload_local_model", func(ctx context.Context) error {
		return c.gw.UnloadLocalModel(ctx, name)
	})
}

// control runs the two-phase mutate-then-reconcile protocol: mark the
// current snapshot refreshing so subscribers keep the last good data while
// showing progress, issue the write, then either reconcile with a forced
// refresh or clear the flag and surface the error. Whatever path is taken,
// the terminal published state never has IsRefreshing set.
func (c *Controller) control(ctx context.Context, op string, write func(context.Context) error) error {
	if c.store.isClosed() {
		return ErrClosed()
	}
	c.setRefreshing(true)
	if err := write(ctx); err != nil {
		c.setRefreshing(false)
		controlOpsTotal.WithLabelValues(op, "error").Inc()
		c.log.Error().Err(err).Str("op", op).Msg("control op failed")
		return err
	}
	controlOpsTotal.WithLabelValues(op, "ok").Inc()
	c.log.Info().Str("op", op).Msg("control op ok")
	return c.Refresh(ctx, true)
}

// setRefreshing republishes the current Ready snapshot with the transient
// flag flipped. Pending and Failed carry no snapshot, so there is nothing
// to mark and the call is a no-op.
func (c *Controller) setRefreshing(v bool) {
	cur := c.store.Current()
	if cur.Phase != PhaseReady || cur.Snapshot.IsRefreshing == v {
		return
	}
	c.store.publish(ReadyState(cur.Snapshot.withRefreshing(v)))
}
