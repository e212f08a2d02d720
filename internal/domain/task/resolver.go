package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

var (
	// ErrNotResolved means no running task matched the app
	ErrNotResolved = errors.New("task not resolved")
	// ErrObserverRegistration means the external task observer refused a listener
	ErrObserverRegistration = errors.New("task observer registration failed")
)

// SnapshotLimit bounds how many running tasks one snapshot asks for
const SnapshotLimit = 50

// Listener receives the ID of every task the platform removes
type Listener func(task types.TaskID)

// ProcessObserver is the platform's view of running tasks
type ProcessObserver interface {
	SnapshotRunningProcesses(ctx context.Context, limit int) ([]types.ProcessInfo, error)
	RegisterTaskListener(listener Listener) error
	UnregisterTaskListener() error
}

// ResolverConfig bounds resolution retries. Zero retries means one attempt.
type ResolverConfig struct {
	Retries       int
	RetryInterval time.Duration
}

// Resolver maps a launched app to its running task by package name
type Resolver struct {
	observer ProcessObserver
	config   ResolverConfig
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewResolver creates a resolver over observer
func NewResolver(observer ProcessObserver, config ResolverConfig, metrics *monitoring.Metrics, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	return &Resolver{
		observer: observer,
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve returns the first running task whose package matches pkg.
// Snapshot errors and misses both count as a failed attempt.
func (r *Resolver) Resolve(ctx context.Context, pkg string) (types.TaskID, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(r.config.RetryInterval):
			}
		}

		task, err := r.attempt(ctx, pkg)
		if err == nil {
			r.metrics.RecordTaskResolution("resolved")
			return task, nil
		}
		lastErr = err
	}

	r.metrics.RecordTaskResolution("unresolved")
	r.logger.Debug("Task resolution failed",
		zap.String("package", pkg),
		zap.Int("attempts", r.config.Retries+1),
		zap.Error(lastErr),
	)
	return 0, lastErr
}

func (r *Resolver) attempt(ctx context.Context, pkg string) (types.TaskID, error) {
	procs, err := r.observer.SnapshotRunningProcesses(ctx, SnapshotLimit)
	if err != nil {
		return 0, fmt.Errorf("%w: snapshot: %w", ErrNotResolved, err)
	}
	for _, p := range procs {
		if p.Package == pkg {
			return p.TaskID, nil
		}
	}
	return 0, fmt.Errorf("%w: no running task for %s", ErrNotResolved, pkg)
}

// Watch registers listener with the observer. Registration failure is
// non-fatal: it is logged and a no-op stop function is returned.
func Watch(observer ProcessObserver, listener Listener, logger *zap.Logger) (stop func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := observer.RegisterTaskListener(listener); err != nil {
		logger.Warn("Task removal notifications unavailable",
			zap.Error(fmt.Errorf("%w: %w", ErrObserverRegistration, err)))
		return func() {}
	}

	return func() {
		if err := observer.UnregisterTaskListener(); err != nil {
			logger.Debug("Task listener unregister failed", zap.Error(err))
		}
	}
}
