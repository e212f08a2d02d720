package window

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/display"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/input"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/layout"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/task"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidState    = errors.New("invalid session state")
	ErrInvalidApp      = errors.New("invalid app identity")
	ErrManagerStopped  = errors.New("window manager stopped")
)

// Shell is the overlay process that owns on-screen surfaces. The manager
// only instructs it; widget construction and animation stay on its side.
type Shell interface {
	AddOverlaySurface(ctx context.Context, session id.SessionID, app types.AppIdentity, geom types.Geometry) error
	UpdateOverlayGeometry(ctx context.Context, session id.SessionID, geom types.Geometry) error
	RemoveOverlaySurface(ctx context.Context, session id.SessionID) error
	SetVisibility(ctx context.Context, session id.SessionID, v types.Visibility) error
	SetLoading(ctx context.Context, session id.SessionID, loading bool) error
	PlaceEdgeHandle(ctx context.Context, placement layout.HandlePlacement) error
}

// AppStarter asks the platform to launch an app onto a display
type AppStarter interface {
	RequestAppStart(ctx context.Context, app types.AppIdentity, display types.DisplayID) error
}

// Config holds the manager's sizing and timing policy
type Config struct {
	Policy           layout.Policy
	Screen           types.ScreenMetrics
	Handle           layout.HandlePrefs
	DensityDPI       int
	ChromeHeight     int
	ResizeDebounce   time.Duration
	TaskResolveDelay time.Duration
	QueueSize        int
}

// DefaultConfig returns the stock policy for a 1080x2400 screen
func DefaultConfig() Config {
	return Config{
		Policy:           layout.DefaultPolicy(),
		Screen:           types.ScreenMetrics{Width: 1080, Height: 2400, DensityDPI: 320},
		Handle:           layout.HandlePrefs{Left: true, VerticalOffset: 50, Width: 20, Height: 300, Opacity: 255},
		DensityDPI:       320,
		ChromeHeight:     160,
		ResizeDebounce:   150 * time.Millisecond,
		TaskResolveDelay: 500 * time.Millisecond,
		QueueSize:        64,
	}
}

// Deps are the manager's collaborators. Shell, AppStarter, Displays, Input,
// Resolver and Observer are required.
type Deps struct {
	Shell    Shell
	Starter  AppStarter
	Displays *display.Provider
	Input    *input.Router
	Resolver *task.Resolver
	Observer task.ProcessObserver

	Bus     *Bus
	Clock   Clock
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// Manager owns every floating window session. All state lives on a single
// controller goroutine started by Run; exported methods enqueue work there
// and wait for the result.
type Manager struct {
	cfg      Config
	shell    Shell
	starter  AppStarter
	displays *display.Provider
	router   *input.Router
	resolver *task.Resolver
	observer task.ProcessObserver
	bus      *Bus
	clock    Clock
	metrics  *monitoring.Metrics
	logger   *zap.Logger

	ops      chan func()
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	runCtx   context.Context

	// Loop-owned
	sessions    map[id.SessionID]*session
	byPackage   map[string]id.SessionID
	order       []id.SessionID
	tasks       *task.Registry
	screen      types.ScreenMetrics
	focused     id.SessionID
	minimizeSeq uint64
}

// NewManager creates a window session manager. Call Run to start it.
func NewManager(cfg Config, deps Deps) *Manager {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.DensityDPI <= 0 {
		cfg.DensityDPI = 320
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = RealClock()
	}
	if deps.Bus == nil {
		deps.Bus = NewBus(deps.Logger)
	}

	return &Manager{
		cfg:       cfg,
		shell:     deps.Shell,
		starter:   deps.Starter,
		displays:  deps.Displays,
		router:    deps.Input,
		resolver:  deps.Resolver,
		observer:  deps.Observer,
		bus:       deps.Bus,
		clock:     deps.Clock,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		ops:       make(chan func(), cfg.QueueSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		runCtx:    context.Background(),
		sessions:  make(map[id.SessionID]*session),
		byPackage: make(map[string]id.SessionID),
		tasks:     task.NewRegistry(),
		screen:    cfg.Screen,
	}
}

// Bus returns the event bus the manager publishes on
func (m *Manager) Bus() *Bus {
	return m.bus
}

// Run processes operations until ctx is cancelled or Shutdown is called.
// Sessions still open when the loop ends are closed.
func (m *Manager) Run(ctx context.Context) error {
	m.runCtx = ctx

	var unwatch func()
	if m.observer != nil {
		unwatch = task.Watch(m.observer, m.OnExternalTaskRemoved, m.logger)
	}

	m.logger.Info("Window manager started",
		zap.Int("screen_width", m.screen.Width),
		zap.Int("screen_height", m.screen.Height),
	)
	m.placeEdgeHandle(ctx)

	defer func() {
		m.closeAll(context.WithoutCancel(ctx))
		if unwatch != nil {
			unwatch()
		}
		close(m.done)
		m.logger.Info("Window manager stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stop:
			return nil
		case op := <-m.ops:
			op()
			m.refreshGauges()
		}
	}
}

// Shutdown closes every session and stops the loop
func (m *Manager) Shutdown(ctx context.Context) error {
	err := m.do(ctx, func() error {
		m.closeAll(ctx)
		return nil
	})
	if err != nil && !errors.Is(err, ErrManagerStopped) {
		return err
	}

	m.stopOnce.Do(func() { close(m.stop) })

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// do runs fn on the controller loop and waits for its result
func (m *Manager) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	op := func() { reply <- fn() }

	select {
	case m.ops <- op:
	case <-m.done:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-m.done:
		select {
		case err := <-reply:
			return err
		default:
			return ErrManagerStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post enqueues fn without waiting for it. Safe from any goroutine except
// the loop itself.
func (m *Manager) post(fn func()) bool {
	select {
	case m.ops <- fn:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) lookup(sid id.SessionID) (*session, error) {
	s, ok := m.sessions[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) publish(eventType string, s *session) {
	m.metrics.RecordSessionEvent(eventType)
	m.bus.Publish(Event{
		Type:      eventType,
		SessionID: s.id,
		App:       s.app,
		State:     s.state,
		Geometry:  s.geometry,
		Time:      m.clock.Now(),
	})
}

// propagateSize pushes the session's window size to its render target.
// The target is shorter than the window by the chrome height.
func (m *Manager) propagateSize(ctx context.Context, s *session) {
	if s.handle == nil {
		return
	}
	h := max(1, s.geometry.Height-m.cfg.ChromeHeight)
	err := s.handle.Resize(ctx, s.geometry.Width, h, m.cfg.DensityDPI)
	m.metrics.RecordDisplayOp("resize", err)
	if err != nil && !errors.Is(err, display.ErrReleased) {
		m.logger.Warn("Render target resize failed",
			zap.String("session_id", s.id.String()),
			zap.Error(err),
		)
	}
}

// restack recomputes every bubble position from minimize order
func (m *Manager) restack(ctx context.Context) {
	var minimized []*session
	for _, sid := range m.order {
		if s := m.sessions[sid]; s.state == types.StateMinimized {
			minimized = append(minimized, s)
		}
	}
	sort.SliceStable(minimized, func(i, j int) bool {
		return minimized[i].minimizeOrder < minimized[j].minimizeOrder
	})

	points := m.cfg.Policy.Bubbles(len(minimized), m.screen)
	for i, s := range minimized {
		s.geometry = m.cfg.Policy.BubbleGeometry(points[i])
		m.shellCall("update_geometry", s.id, m.shell.UpdateOverlayGeometry(ctx, s.id, s.geometry))
	}
}

// shellCall logs a failed shell instruction. The shell is the source of
// truth for what is on screen; the manager keeps its own state either way.
func (m *Manager) shellCall(op string, sid id.SessionID, err error) {
	if err != nil {
		m.logger.Warn("Shell call failed",
			zap.String("op", op),
			zap.String("session_id", sid.String()),
			zap.Error(err),
		)
	}
}

func (m *Manager) refreshGauges() {
	var loading, active, minimized int
	for _, s := range m.sessions {
		switch s.state {
		case types.StateLoading:
			loading++
		case types.StateActive:
			active++
		case types.StateMinimized:
			minimized++
		}
	}
	m.metrics.SetSessions(loading, active, minimized)
	m.metrics.SetTasksBound(m.tasks.Len())
}
