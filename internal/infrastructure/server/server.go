package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/GriffinCanCode/EdgeLink/backend/internal/api/http"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/api/middleware"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/api/ws"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/display"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/input"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/layout"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/task"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/window"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Server wires the window manager, the shell bridge and the control API
type Server struct {
	config   *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	bridge   *ws.Bridge
	manager  *window.Manager
	router   *gin.Engine
	http     *http.Server
	registry *prometheus.Registry
}

// NewServer creates a new server instance. Nothing runs until Run.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing EdgeLink backend",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	prefs, err := config.LoadShellPrefs(cfg.Shell.PrefsPath)
	if err != nil {
		// The shell keeps working with factory defaults
		logger.Warn("Shell preferences not loaded, using defaults",
			zap.String("path", cfg.Shell.PrefsPath),
			zap.Error(err),
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	tracer := tracing.New("edgelink", logger.Component("tracing"))

	bridgeBreaker := resilience.New("shell-bridge", resilience.Settings{
		Timeout:       cfg.Input.BreakerTimeout,
		ReadyToTrip:   resilience.ConsecutiveFailures(5),
		OnStateChange: logStateChange(logger.Component("resilience")),
	})
	inputBreaker := resilience.New("input", resilience.Settings{
		Timeout:       cfg.Input.BreakerTimeout,
		ReadyToTrip:   resilience.ConsecutiveFailures(cfg.Input.BreakerFailures),
		OnStateChange: logStateChange(logger.Component("resilience")),
	})

	bridge := ws.NewBridge(ws.Config{
		RequestTimeout: cfg.Bridge.RequestTimeout,
		WriteTimeout:   cfg.Bridge.WriteTimeout,
		PingInterval:   cfg.Bridge.PingInterval,
	}, bridgeBreaker, metrics, logger.Component("bridge"))

	displays := display.NewProvider(bridge, logger.Component("display"))
	router := input.NewRouter(bridge, logger.Component("input"),
		input.WithBreaker(inputBreaker),
		input.WithMetrics(metrics),
	)
	resolver := task.NewResolver(bridge, task.ResolverConfig{
		Retries:       cfg.Task.ResolveRetries,
		RetryInterval: cfg.Task.RetryInterval,
	}, metrics, logger.Component("task"))

	manager := window.NewManager(managerConfig(cfg, prefs), window.Deps{
		Shell:    bridge,
		Starter:  bridge,
		Displays: displays,
		Input:    router,
		Resolver: resolver,
		Observer: bridge,
		Metrics:  metrics,
		Logger:   logger.Component("window"),
	})

	bridge.Bind(manager)
	bridge.ForwardEvents(manager.Bus())

	engine := newRouter(cfg, logger, metrics, tracer, registry)
	httpapi.NewHandlers(manager, bridge, logger.Component("api")).Register(engine)
	engine.GET("/shell", bridge.HandleConnection)

	logger.Info("Server initialized successfully",
		zap.Bool("edge_left", prefs.EdgePosition == config.EdgeLeft),
		zap.Int("pinned_apps", len(prefs.PinnedApps)),
	)

	return &Server{
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		bridge:   bridge,
		manager:  manager,
		router:   engine,
		registry: registry,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func newRouter(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics, tracer *tracing.Tracer, registry *prometheus.Registry) *gin.Engine {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	return router
}

// managerConfig maps process config and shell preferences onto the window
// manager's policy
func managerConfig(cfg *config.Config, prefs config.ShellPrefs) window.Config {
	w := cfg.Window
	mc := window.DefaultConfig()
	mc.Policy = layout.Policy{
		PortraitWidth:        w.PortraitWidth,
		PortraitHeight:       w.PortraitHeight,
		LandscapeHeightRatio: w.LandscapeHeightRatio,
		LandscapeAspect:      w.LandscapeAspect,
		MinSize:              w.MinSize,
		ScreenMargin:         w.ScreenMargin,
		BubbleSize:           w.BubbleSize,
		BubbleInsetX:         w.BubbleInsetX,
		BubbleTop:            w.BubbleTop,
		BubbleSpacing:        w.BubbleSpacing,
	}
	mc.Screen = types.ScreenMetrics{Width: w.ScreenWidth, Height: w.ScreenHeight, DensityDPI: w.DensityDPI}
	mc.Handle = layout.HandlePrefs{
		Left:           prefs.EdgePosition != config.EdgeRight,
		VerticalOffset: prefs.VerticalOffset,
		Width:          prefs.HandleWidth,
		Height:         prefs.HandleHeight,
		Opacity:        prefs.HandleOpacity,
	}
	mc.DensityDPI = w.DensityDPI
	mc.ChromeHeight = w.ChromeHeight
	mc.ResizeDebounce = w.ResizeDebounce
	mc.TaskResolveDelay = cfg.Task.ResolveDelay
	return mc
}

func logStateChange(logger *zap.Logger) func(string, resilience.State, resilience.State) {
	return func(name string, from, to resilience.State) {
		logger.Warn("Circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
}

// Router returns the HTTP handler, for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the window manager and serves HTTP until ctx is cancelled or
// the listener fails. It shuts everything down before returning.
func (s *Server) Run(ctx context.Context) error {
	managerErr := make(chan error, 1)
	go func() { managerErr <- s.manager.Run(ctx) }()

	httpErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
			return
		}
		httpErr <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case err := <-managerErr:
		if ctx.Err() == nil {
			runErr = fmt.Errorf("window manager stopped: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(runErr, s.Shutdown(shutdownCtx))
}

// Shutdown stops accepting requests, closes every session and flushes logs
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.manager.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("manager shutdown: %w", err))
	}
	s.tracer.Close()
	s.logger.Sync()

	return errors.Join(errs...)
}
