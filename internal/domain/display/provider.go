package display

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

var (
	// ErrDisplayCreation is returned when the platform refuses to create a render target
	ErrDisplayCreation = errors.New("display creation failed")
	// ErrReleased is returned by operations on a released handle
	ErrReleased = errors.New("display already released")
)

// Flags select render target behavior
type Flags uint32

// Values match the platform's virtual display flags.
const (
	FlagPresentation            Flags = 1 << 2
	FlagOwnContentOnly          Flags = 1 << 3
	FlagPublic                  Flags = 1 << 8
	FlagDestroyContentOnRemoval Flags = 1 << 10

	// FloatingWindowFlags is what every session's render target is created with
	FloatingWindowFlags = FlagDestroyContentOnRemoval | FlagPublic | FlagOwnContentOnly | FlagPresentation
)

// Has reports whether all bits of f2 are set
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// CreateRequest describes a render target to create
type CreateRequest struct {
	Name       string        `json:"name"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	DensityDPI int           `json:"density_dpi"`
	Surface    types.Surface `json:"surface"`
	Flags      Flags         `json:"flags"`
}

// Primitive is the platform's isolated render target API
type Primitive interface {
	CreateVirtualDisplay(ctx context.Context, req CreateRequest) (types.DisplayID, error)
	Attach(ctx context.Context, display types.DisplayID, surface types.Surface) error
	Resize(ctx context.Context, display types.DisplayID, width, height, densityDPI int) error
	Release(ctx context.Context, display types.DisplayID) error
}

// Provider creates render targets that mirror into shell-owned surfaces
type Provider struct {
	primitive Primitive
	logger    *zap.Logger
}

// NewProvider creates a display provider over the given primitive
func NewProvider(primitive Primitive, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{primitive: primitive, logger: logger}
}

// Create makes a public, presentation-style render target that shows only
// its own content and destroys that content when released.
func (p *Provider) Create(ctx context.Context, name string, width, height, densityDPI int, surface types.Surface) (*Handle, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrDisplayCreation, width, height)
	}

	displayID, err := p.primitive.CreateVirtualDisplay(ctx, CreateRequest{
		Name:       name,
		Width:      width,
		Height:     height,
		DensityDPI: densityDPI,
		Surface:    surface,
		Flags:      FloatingWindowFlags,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDisplayCreation, name, err)
	}

	p.logger.Debug("Render target created",
		zap.String("name", name),
		zap.Int("display_id", int(displayID)),
		zap.Int("width", width),
		zap.Int("height", height),
	)

	return &Handle{
		id:        displayID,
		name:      name,
		surface:   surface,
		width:     width,
		height:    height,
		density:   densityDPI,
		primitive: p.primitive,
		logger:    p.logger,
	}, nil
}

// Handle owns one render target. Release is idempotent; other calls after
// release return ErrReleased without touching the primitive.
type Handle struct {
	id        types.DisplayID
	name      string
	primitive Primitive
	logger    *zap.Logger

	mu       sync.Mutex
	surface  types.Surface
	width    int
	height   int
	density  int
	released bool
}

// ID returns the render target's display identity
func (h *Handle) ID() types.DisplayID {
	return h.id
}

// Size returns the last size the target was created or resized to
func (h *Handle) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// Surface returns the currently attached drawable surface, empty when detached
func (h *Handle) Surface() types.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surface
}

// Released reports whether Release has run
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// AttachSurface rebinds the target to a freshly created surface. The target
// and its app content are kept.
func (h *Handle) AttachSurface(ctx context.Context, surface types.Surface) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return ErrReleased
	}
	if err := h.primitive.Attach(ctx, h.id, surface); err != nil {
		return fmt.Errorf("attach surface to display %d: %w", h.id, err)
	}
	h.surface = surface
	return nil
}

// Detach forgets the current surface after the shell destroyed it
func (h *Handle) Detach() {
	h.mu.Lock()
	h.surface = ""
	h.mu.Unlock()
}

// Resize resizes the target in place
func (h *Handle) Resize(ctx context.Context, width, height, densityDPI int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return ErrReleased
	}
	if err := h.primitive.Resize(ctx, h.id, width, height, densityDPI); err != nil {
		return fmt.Errorf("resize display %d: %w", h.id, err)
	}
	h.width, h.height, h.density = width, height, densityDPI
	return nil
}

// Release frees the render target. Only the first call reaches the
// primitive; a primitive error is logged, not returned, because the target
// is unusable either way.
func (h *Handle) Release(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true

	if err := h.primitive.Release(ctx, h.id); err != nil {
		h.logger.Warn("Render target release failed",
			zap.Int("display_id", int(h.id)),
			zap.String("name", h.name),
			zap.Error(err),
		)
	}
}
