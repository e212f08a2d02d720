package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/window"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) LaunchOrFocus(ctx context.Context, app types.AppIdentity) (id.SessionID, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(id.SessionID), args.Error(1)
}

func (m *mockSessions) Sessions(ctx context.Context) ([]types.SessionInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]types.SessionInfo), args.Error(1)
}

func (m *mockSessions) Session(ctx context.Context, sid id.SessionID) (types.SessionInfo, error) {
	args := m.Called(ctx, sid)
	return args.Get(0).(types.SessionInfo), args.Error(1)
}

func (m *mockSessions) Stats(ctx context.Context) (types.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.Stats), args.Error(1)
}

func (m *mockSessions) MinimizeSession(ctx context.Context, sid id.SessionID) error {
	return m.Called(ctx, sid).Error(0)
}

func (m *mockSessions) MaximizeSession(ctx context.Context, sid id.SessionID) error {
	return m.Called(ctx, sid).Error(0)
}

func (m *mockSessions) ResizeSession(ctx context.Context, sid id.SessionID, w, h int) error {
	return m.Called(ctx, sid, w, h).Error(0)
}

func (m *mockSessions) MoveSession(ctx context.Context, sid id.SessionID, x, y int) error {
	return m.Called(ctx, sid, x, y).Error(0)
}

func (m *mockSessions) Expand(ctx context.Context, sid id.SessionID) error {
	return m.Called(ctx, sid).Error(0)
}

func (m *mockSessions) PressBack(ctx context.Context, sid id.SessionID) error {
	return m.Called(ctx, sid).Error(0)
}

func (m *mockSessions) CloseSession(ctx context.Context, sid id.SessionID) error {
	return m.Called(ctx, sid).Error(0)
}

type staticBridge bool

func (b staticBridge) Connected() bool { return bool(b) }

func setup(t *testing.T) (*gin.Engine, *mockSessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := new(mockSessions)
	r := gin.New()
	NewHandlers(sessions, staticBridge(true), nil).Register(r)
	return r, sessions
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, sessions := setup(t)
	sessions.On("Stats", mock.Anything).Return(types.Stats{TotalSessions: 2}, nil)

	w := perform(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["shell_connected"])
	assert.Equal(t, float64(2), body["sessions"])
}

func TestLaunch(t *testing.T) {
	r, sessions := setup(t)
	app := types.AppIdentity{Package: "com.example.mail", Label: "Mail"}
	sessions.On("LaunchOrFocus", mock.Anything, app).Return(id.SessionID("sess_mail"), nil)

	w := perform(r, http.MethodPost, "/sessions", `{"package":"com.example.mail","label":"Mail"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session_id":"sess_mail"}`, w.Body.String())
	sessions.AssertExpectations(t)
}

func TestLaunchRequiresPackage(t *testing.T) {
	r, sessions := setup(t)

	w := perform(r, http.MethodPost, "/sessions", `{"label":"Mail"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	sessions.AssertNotCalled(t, "LaunchOrFocus", mock.Anything, mock.Anything)
}

func TestListSessions(t *testing.T) {
	r, sessions := setup(t)
	sessions.On("Sessions", mock.Anything).Return([]types.SessionInfo{
		{ID: "sess_a", State: types.StateActive},
		{ID: "sess_b", State: types.StateMinimized},
	}, nil)

	w := perform(r, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sessions []types.SessionInfo `json:"sessions"`
		Count    int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, types.StateMinimized, body.Sessions[1].State)
}

func TestResizeAndMove(t *testing.T) {
	r, sessions := setup(t)
	sessions.On("ResizeSession", mock.Anything, id.SessionID("sess_a"), 700, 900).Return(nil)
	sessions.On("MoveSession", mock.Anything, id.SessionID("sess_a"), 0, 40).Return(nil)

	w := perform(r, http.MethodPost, "/sessions/sess_a/resize", `{"width":700,"height":900}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPost, "/sessions/sess_a/move", `{"x":0,"y":40}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPost, "/sessions/sess_a/resize", `{"width":0,"height":900}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/sessions/sess_a/move", `{"x":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sessions.AssertExpectations(t)
}

func TestSessionOps(t *testing.T) {
	ops := []struct {
		method string
		path   string
		mock   string
	}{
		{http.MethodPost, "/sessions/sess_a/minimize", "MinimizeSession"},
		{http.MethodPost, "/sessions/sess_a/maximize", "MaximizeSession"},
		{http.MethodPost, "/sessions/sess_a/expand", "Expand"},
		{http.MethodPost, "/sessions/sess_a/back", "PressBack"},
		{http.MethodDelete, "/sessions/sess_a", "CloseSession"},
	}

	for _, op := range ops {
		t.Run(op.mock, func(t *testing.T) {
			r, sessions := setup(t)
			sessions.On(op.mock, mock.Anything, id.SessionID("sess_a")).Return(nil)

			w := perform(r, op.method, op.path, "")
			assert.Equal(t, http.StatusOK, w.Code)
			sessions.AssertExpectations(t)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("%w: sess_x", window.ErrSessionNotFound), http.StatusNotFound},
		{"invalid state", fmt.Errorf("%w: minimize from loading", window.ErrInvalidState), http.StatusConflict},
		{"invalid app", window.ErrInvalidApp, http.StatusBadRequest},
		{"stopped", window.ErrManagerStopped, http.StatusServiceUnavailable},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, sessions := setup(t)
			sessions.On("MinimizeSession", mock.Anything, id.SessionID("sess_x")).Return(tt.err)

			w := perform(r, http.MethodPost, "/sessions/sess_x/minimize", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestGetSessionNotFound(t *testing.T) {
	r, sessions := setup(t)
	sessions.On("Session", mock.Anything, id.SessionID("sess_gone")).
		Return(types.SessionInfo{}, window.ErrSessionNotFound)

	w := perform(r, http.MethodGet, "/sessions/sess_gone", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
