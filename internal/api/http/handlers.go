package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/window"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// SessionService is the window manager surface exposed over HTTP
type SessionService interface {
	LaunchOrFocus(ctx context.Context, app types.AppIdentity) (id.SessionID, error)
	Sessions(ctx context.Context) ([]types.SessionInfo, error)
	Session(ctx context.Context, sid id.SessionID) (types.SessionInfo, error)
	Stats(ctx context.Context) (types.Stats, error)
	MinimizeSession(ctx context.Context, sid id.SessionID) error
	MaximizeSession(ctx context.Context, sid id.SessionID) error
	ResizeSession(ctx context.Context, sid id.SessionID, width, height int) error
	MoveSession(ctx context.Context, sid id.SessionID, x, y int) error
	Expand(ctx context.Context, sid id.SessionID) error
	PressBack(ctx context.Context, sid id.SessionID) error
	CloseSession(ctx context.Context, sid id.SessionID) error
}

// BridgeStatus reports whether the shell host is attached
type BridgeStatus interface {
	Connected() bool
}

// Handlers contains HTTP request handlers
type Handlers struct {
	sessions SessionService
	bridge   BridgeStatus
	logger   *zap.Logger
}

// NewHandlers creates HTTP handlers. bridge may be nil.
func NewHandlers(sessions SessionService, bridge BridgeStatus, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{sessions: sessions, bridge: bridge, logger: logger}
}

// Register mounts the session routes on r
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)

	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.Launch)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.CloseSession)
	r.POST("/sessions/:id/minimize", h.Minimize)
	r.POST("/sessions/:id/maximize", h.Maximize)
	r.POST("/sessions/:id/resize", h.Resize)
	r.POST("/sessions/:id/move", h.Move)
	r.POST("/sessions/:id/expand", h.Expand)
	r.POST("/sessions/:id/back", h.Back)
}

// Health returns health status
func (h *Handlers) Health(c *gin.Context) {
	stats, err := h.sessions.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	connected := h.bridge != nil && h.bridge.Connected()
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"shell_connected": connected,
		"sessions":        stats.TotalSessions,
	})
}

// Stats returns window manager statistics
func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.sessions.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListSessions returns every open session in creation order
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.Sessions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	info, err := h.sessions.Session(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Launch opens a floating window for an app, or focuses the existing one
func (h *Handlers) Launch(c *gin.Context) {
	var req struct {
		Package string `json:"package" binding:"required"`
		Label   string `json:"label"`
		Icon    string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	app := types.AppIdentity{Package: req.Package, Label: req.Label, Icon: req.Icon}
	sid, err := h.sessions.LaunchOrFocus(c.Request.Context(), app)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sid})
}

func (h *Handlers) Minimize(c *gin.Context) { h.sessionOp(c, h.sessions.MinimizeSession) }
func (h *Handlers) Maximize(c *gin.Context) { h.sessionOp(c, h.sessions.MaximizeSession) }
func (h *Handlers) Expand(c *gin.Context)   { h.sessionOp(c, h.sessions.Expand) }
func (h *Handlers) Back(c *gin.Context)     { h.sessionOp(c, h.sessions.PressBack) }

// CloseSession closes a session in any state
func (h *Handlers) CloseSession(c *gin.Context) { h.sessionOp(c, h.sessions.CloseSession) }

// Resize sets an active window's size. The manager clamps it.
func (h *Handlers) Resize(c *gin.Context) {
	var req struct {
		Width  int `json:"width" binding:"required,gt=0"`
		Height int `json:"height" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.sessionOp(c, func(ctx context.Context, sid id.SessionID) error {
		return h.sessions.ResizeSession(ctx, sid, req.Width, req.Height)
	})
}

// Move places a window's top-left corner
func (h *Handlers) Move(c *gin.Context) {
	var req struct {
		X *int `json:"x" binding:"required"`
		Y *int `json:"y" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.sessionOp(c, func(ctx context.Context, sid id.SessionID) error {
		return h.sessions.MoveSession(ctx, sid, *req.X, *req.Y)
	})
}

func (h *Handlers) sessionOp(c *gin.Context, op func(context.Context, id.SessionID) error) {
	if err := op(c.Request.Context(), sessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fail maps manager errors to status codes
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("trace", string(tracing.GetTraceID(c.Request.Context()))),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, window.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, window.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, window.ErrInvalidApp):
		return http.StatusBadRequest
	case errors.Is(err, window.ErrManagerStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func sessionID(c *gin.Context) id.SessionID {
	return id.SessionID(c.Param("id"))
}
