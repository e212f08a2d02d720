package input

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// ErrInjection wraps every failure to deliver an event to the input pipeline
var ErrInjection = errors.New("input injection failed")

// Injector submits events to the platform input pipeline
type Injector interface {
	Inject(ctx context.Context, ev types.InputEvent) error
}

// Router delivers input to render targets. Delivery is best effort: failures
// are logged and counted, never returned to the caller.
type Router struct {
	injector Injector
	breaker  *resilience.Breaker
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	now      func() time.Time

	pool sync.Pool
}

// Option configures a Router
type Option func(*Router)

// WithBreaker routes injection through b
func WithBreaker(b *resilience.Breaker) Option {
	return func(r *Router) { r.breaker = b }
}

// WithMetrics records delivery outcomes to m
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithClock overrides the timestamp source for synthesized events
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// NewRouter creates an input router
func NewRouter(injector Injector, logger *zap.Logger, opts ...Option) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		injector: injector,
		logger:   logger,
		now:      time.Now,
	}
	r.pool.New = func() any { return new(types.PointerEvent) }
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ForwardPointer submits a copy of ev retargeted to target. The copy goes back
// to the pool whatever the outcome; ev itself is never modified.
func (r *Router) ForwardPointer(ctx context.Context, ev types.PointerEvent, target types.DisplayID) {
	clone := r.pool.Get().(*types.PointerEvent)
	*clone = ev
	clone.DisplayID = target

	err := r.inject(ctx, types.InputEvent{Pointer: clone})

	*clone = types.PointerEvent{}
	r.pool.Put(clone)

	r.record("pointer", err, zap.Int("display_id", int(target)), zap.String("action", string(ev.Action)))
}

// ForwardKey synthesizes a key press (down then up) with identical
// timestamps, tagged with target.
func (r *Router) ForwardKey(ctx context.Context, code types.KeyCode, target types.DisplayID) {
	ts := r.now().UnixMilli()

	for _, action := range []types.KeyAction{types.KeyDown, types.KeyUp} {
		err := r.inject(ctx, types.InputEvent{Key: &types.KeyEvent{
			Action:    action,
			Code:      code,
			DownTime:  ts,
			EventTime: ts,
			DisplayID: target,
		}})
		r.record("key", err, zap.Int("display_id", int(target)), zap.String("action", string(action)), zap.Int("code", int(code)))
	}
}

func (r *Router) inject(ctx context.Context, ev types.InputEvent) error {
	call := func() (err error) {
		// An injector panic is a failed injection, not a dead caller.
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		return r.injector.Inject(ctx, ev)
	}
	if r.breaker == nil {
		if err := call(); err != nil {
			return fmt.Errorf("%w: %w", ErrInjection, err)
		}
		return nil
	}

	if err := r.breaker.Execute(call); err != nil {
		return fmt.Errorf("%w: %w", ErrInjection, err)
	}
	return nil
}

func (r *Router) record(kind string, err error, fields ...zap.Field) {
	switch {
	case err == nil:
		r.metrics.RecordInput(kind, "injected")
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		r.metrics.RecordInput(kind, "dropped")
		r.logger.Debug("Input dropped, injector unavailable", append(fields, zap.Error(err))...)
	default:
		r.metrics.RecordInput(kind, "failed")
		r.logger.Warn("Input injection failed", append(fields, zap.Error(err))...)
	}
}
