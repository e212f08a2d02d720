// Package testutil provides test doubles for the window manager's
// collaborators.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/display"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/layout"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/task"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// ErrInjected is returned by fakes configured to fail
var ErrInjected = errors.New("injected failure")

// FakeShell records what the manager asked the overlay shell to show.
type FakeShell struct {
	mu sync.Mutex

	FailAdd bool

	Surfaces   map[id.SessionID]types.Geometry
	Visibility map[id.SessionID]types.Visibility
	Loading    map[id.SessionID]bool
	Removed    []id.SessionID
	Placements []layout.HandlePlacement
}

// NewFakeShell creates an empty fake shell
func NewFakeShell() *FakeShell {
	return &FakeShell{
		Surfaces:   make(map[id.SessionID]types.Geometry),
		Visibility: make(map[id.SessionID]types.Visibility),
		Loading:    make(map[id.SessionID]bool),
	}
}

// AddOverlaySurface records a new surface
func (f *FakeShell) AddOverlaySurface(_ context.Context, sid id.SessionID, _ types.AppIdentity, geom types.Geometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAdd {
		return ErrInjected
	}
	f.Surfaces[sid] = geom
	f.Visibility[sid] = types.VisibilityNormal
	return nil
}

// UpdateOverlayGeometry records the latest geometry
func (f *FakeShell) UpdateOverlayGeometry(_ context.Context, sid id.SessionID, geom types.Geometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Surfaces[sid] = geom
	return nil
}

// RemoveOverlaySurface records a removal
func (f *FakeShell) RemoveOverlaySurface(_ context.Context, sid id.SessionID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Surfaces, sid)
	f.Removed = append(f.Removed, sid)
	return nil
}

// SetVisibility records the visual form
func (f *FakeShell) SetVisibility(_ context.Context, sid id.SessionID, v types.Visibility) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Visibility[sid] = v
	return nil
}

// SetLoading records the loading indicator
func (f *FakeShell) SetLoading(_ context.Context, sid id.SessionID, loading bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loading[sid] = loading
	return nil
}

// PlaceEdgeHandle records a placement
func (f *FakeShell) PlaceEdgeHandle(_ context.Context, p layout.HandlePlacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Placements = append(f.Placements, p)
	return nil
}

// Geometry returns the last geometry recorded for sid
func (f *FakeShell) Geometry(sid id.SessionID) (types.Geometry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.Surfaces[sid]
	return g, ok
}

// VisibilityOf returns the visual form recorded for sid
func (f *FakeShell) VisibilityOf(sid id.SessionID) types.Visibility {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Visibility[sid]
}

// IsLoading reports whether sid shows the loading indicator
func (f *FakeShell) IsLoading(sid id.SessionID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Loading[sid]
}

// RemovedCount returns how many times sid was removed
func (f *FakeShell) RemovedCount(sid id.SessionID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.Removed {
		if r == sid {
			n++
		}
	}
	return n
}

// LastPlacement returns the most recent edge handle placement
func (f *FakeShell) LastPlacement() (layout.HandlePlacement, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Placements) == 0 {
		return layout.HandlePlacement{}, false
	}
	return f.Placements[len(f.Placements)-1], true
}

// ResizeCall is one recorded render target resize
type ResizeCall struct {
	Display       types.DisplayID
	Width, Height int
	DensityDPI    int
}

// FakePrimitive hands out sequential display IDs and records every call.
type FakePrimitive struct {
	mu sync.Mutex

	FailCreate bool

	next     types.DisplayID
	Created  []display.CreateRequest
	Attached map[types.DisplayID][]types.Surface
	Resizes  []ResizeCall
	Released map[types.DisplayID]int

	hold    chan struct{}
	entered chan struct{}
}

// NewFakePrimitive creates a primitive whose first display is 1
func NewFakePrimitive() *FakePrimitive {
	return &FakePrimitive{
		next:     1,
		Attached: make(map[types.DisplayID][]types.Surface),
		Released: make(map[types.DisplayID]int),
	}
}

// CreateVirtualDisplay records the request
func (f *FakePrimitive) CreateVirtualDisplay(_ context.Context, req display.CreateRequest) (types.DisplayID, error) {
	f.mu.Lock()
	hold, entered := f.hold, f.entered
	f.hold, f.entered = nil, nil
	f.mu.Unlock()
	if hold != nil {
		close(entered)
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreate {
		return 0, ErrInjected
	}
	f.Created = append(f.Created, req)
	displayID := f.next
	f.next++
	return displayID, nil
}

// HoldNextCreate makes the next CreateVirtualDisplay block until release is
// called. entered is closed once that call is blocked.
func (f *FakePrimitive) HoldNextCreate() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	f.entered = make(chan struct{})
	hold := f.hold
	var once sync.Once
	return f.entered, func() { once.Do(func() { close(hold) }) }
}

// Attach records a surface rebind
func (f *FakePrimitive) Attach(_ context.Context, d types.DisplayID, s types.Surface) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Attached[d] = append(f.Attached[d], s)
	return nil
}

// Resize records a resize
func (f *FakePrimitive) Resize(_ context.Context, d types.DisplayID, w, h, density int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Resizes = append(f.Resizes, ResizeCall{Display: d, Width: w, Height: h, DensityDPI: density})
	return nil
}

// Release records a release
func (f *FakePrimitive) Release(_ context.Context, d types.DisplayID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Released[d]++
	return nil
}

// CreateCount returns the number of displays created
func (f *FakePrimitive) CreateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created)
}

// ResizeCount returns the number of resizes recorded for d
func (f *FakePrimitive) ResizeCount(d types.DisplayID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.Resizes {
		if r.Display == d {
			n++
		}
	}
	return n
}

// LastResize returns the most recent resize of d
func (f *FakePrimitive) LastResize(d types.DisplayID) (ResizeCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Resizes) - 1; i >= 0; i-- {
		if f.Resizes[i].Display == d {
			return f.Resizes[i], true
		}
	}
	return ResizeCall{}, false
}

// ReleaseCount returns how many times d was released
func (f *FakePrimitive) ReleaseCount(d types.DisplayID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Released[d]
}

// AttachedSurfaces returns the surfaces rebound to d
func (f *FakePrimitive) AttachedSurfaces(d types.DisplayID) []types.Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Surface(nil), f.Attached[d]...)
}

// MockAppStarter is a mock implementation of window.AppStarter.
type MockAppStarter struct {
	mock.Mock
}

// RequestAppStart mocks the RequestAppStart method.
func (m *MockAppStarter) RequestAppStart(ctx context.Context, app types.AppIdentity, d types.DisplayID) error {
	return m.Called(ctx, app, d).Error(0)
}

// NewMockAppStarter creates an app starter that accepts every request.
func NewMockAppStarter(t *testing.T) *MockAppStarter {
	t.Helper()
	m := new(MockAppStarter)
	m.On("RequestAppStart", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// MockInjector is a mock implementation of input.Injector.
type MockInjector struct {
	mock.Mock
}

// Inject mocks the Inject method.
func (m *MockInjector) Inject(ctx context.Context, ev types.InputEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// NewMockInjector creates an injector that accepts every event.
func NewMockInjector(t *testing.T) *MockInjector {
	t.Helper()
	m := new(MockInjector)
	m.On("Inject", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// FakeObserver serves a settable process snapshot and keeps the registered
// task listener so tests can fire removals.
type FakeObserver struct {
	mu        sync.Mutex
	procs     []types.ProcessInfo
	listener  task.Listener
	FailWatch bool
}

// NewFakeObserver creates an observer with no running processes
func NewFakeObserver() *FakeObserver {
	return &FakeObserver{}
}

// SetProcesses replaces the running process snapshot
func (f *FakeObserver) SetProcesses(procs ...types.ProcessInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
}

// SnapshotRunningProcesses returns the current snapshot
func (f *FakeObserver) SnapshotRunningProcesses(_ context.Context, limit int) ([]types.ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.procs) > limit {
		return append([]types.ProcessInfo(nil), f.procs[:limit]...), nil
	}
	return append([]types.ProcessInfo(nil), f.procs...), nil
}

// RegisterTaskListener keeps listener
func (f *FakeObserver) RegisterTaskListener(listener task.Listener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWatch {
		return ErrInjected
	}
	f.listener = listener
	return nil
}

// UnregisterTaskListener drops the listener
func (f *FakeObserver) UnregisterTaskListener() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = nil
	return nil
}

// Registered reports whether a listener is registered
func (f *FakeObserver) Registered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listener != nil
}

// RemoveTask fires the registered listener, as the platform would
func (f *FakeObserver) RemoveTask(taskID types.TaskID) {
	f.mu.Lock()
	listener := f.listener
	f.mu.Unlock()
	if listener != nil {
		listener(taskID)
	}
}

// App returns an app identity for pkg
func App(pkg string) types.AppIdentity {
	return types.AppIdentity{Package: pkg, Label: pkg}
}
