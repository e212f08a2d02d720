package display

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

type mockPrimitive struct {
	mock.Mock
}

func (m *mockPrimitive) CreateVirtualDisplay(ctx context.Context, req CreateRequest) (types.DisplayID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.DisplayID), args.Error(1)
}

func (m *mockPrimitive) Attach(ctx context.Context, display types.DisplayID, surface types.Surface) error {
	return m.Called(ctx, display, surface).Error(0)
}

func (m *mockPrimitive) Resize(ctx context.Context, display types.DisplayID, width, height, densityDPI int) error {
	return m.Called(ctx, display, width, height, densityDPI).Error(0)
}

func (m *mockPrimitive) Release(ctx context.Context, display types.DisplayID) error {
	return m.Called(ctx, display).Error(0)
}

func TestCreateUsesFloatingWindowFlags(t *testing.T) {
	ctx := context.Background()
	prim := new(mockPrimitive)
	prim.On("CreateVirtualDisplay", ctx, mock.MatchedBy(func(req CreateRequest) bool {
		return req.Flags == FloatingWindowFlags && req.DensityDPI == 320 && req.Surface == "surf-1"
	})).Return(types.DisplayID(7), nil)

	h, err := NewProvider(prim, zap.NewNop()).Create(ctx, "EdgeLink-mail", 800, 1040, 320, "surf-1")
	require.NoError(t, err)

	assert.Equal(t, types.DisplayID(7), h.ID())
	assert.Equal(t, types.Surface("surf-1"), h.Surface())
	w, hgt := h.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 1040, hgt)
	assert.False(t, h.Released())
	prim.AssertExpectations(t)
}

func TestFloatingWindowFlagBits(t *testing.T) {
	assert.Equal(t, Flags(1024|256|8|4), FloatingWindowFlags)
	assert.True(t, FloatingWindowFlags.Has(FlagPublic|FlagPresentation))
}

func TestCreateFailureWrapsErrDisplayCreation(t *testing.T) {
	ctx := context.Background()
	prim := new(mockPrimitive)
	prim.On("CreateVirtualDisplay", ctx, mock.Anything).Return(types.DisplayID(0), errors.New("no permission"))

	_, err := NewProvider(prim, nil).Create(ctx, "x", 800, 1200, 320, "s")
	assert.ErrorIs(t, err, ErrDisplayCreation)

	_, err = NewProvider(prim, nil).Create(ctx, "x", 0, 1200, 320, "s")
	assert.ErrorIs(t, err, ErrDisplayCreation)
	prim.AssertNumberOfCalls(t, "CreateVirtualDisplay", 1)
}

func TestReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	prim := new(mockPrimitive)
	prim.On("CreateVirtualDisplay", ctx, mock.Anything).Return(types.DisplayID(3), nil)
	prim.On("Release", ctx, types.DisplayID(3)).Return(nil).Once()

	h, err := NewProvider(prim, nil).Create(ctx, "x", 800, 1200, 320, "s")
	require.NoError(t, err)

	h.Release(ctx)
	h.Release(ctx)
	h.Release(ctx)

	assert.True(t, h.Released())
	prim.AssertNumberOfCalls(t, "Release", 1)
}

func TestReleaseErrorIsSwallowed(t *testing.T) {
	ctx := context.Background()
	prim := new(mockPrimitive)
	prim.On("CreateVirtualDisplay", ctx, mock.Anything).Return(types.DisplayID(3), nil)
	prim.On("Release", ctx, types.DisplayID(3)).Return(errors.New("gone"))

	h, err := NewProvider(prim, nil).Create(ctx, "x", 800, 1200, 320, "s")
	require.NoError(t, err)

	assert.NotPanics(t, func() { h.Release(ctx) })
	assert.True(t, h.Released())
}

func TestOperationsAfterRelease(t *testing.T) {
	ctx := context.Background()
	prim := new(mockPrimitive)
	prim.On("CreateVirtualDisplay", ctx, mock.Anything).Return(types.DisplayID(3), nil)
	prim.On("Release", ctx, types.DisplayID(3)).Return(nil)

	h, err := NewProvider(prim, nil).Create(ctx, "x", 800, 1200, 320, "s")
	require.NoError(t, err)
	h.Release(ctx)

	assert.ErrorIs(t, h.Resize(ctx, 500, 500, 320), ErrReleased)
	assert.ErrorIs(t, h.AttachSurface(ctx, "s2"), ErrReleased)
	prim.AssertNotCalled(t, "Resize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	prim.AssertNotCalled(t, "Attach", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachAndResize(t *testing.T) {
	ctx := context.Background()
	prim := new(mockPrimitive)
	prim.On("CreateVirtualDisplay", ctx, mock.Anything).Return(types.DisplayID(9), nil)
	prim.On("Attach", ctx, types.DisplayID(9), types.Surface("s2")).Return(nil)
	prim.On("Resize", ctx, types.DisplayID(9), 600, 440, 320).Return(nil)

	h, err := NewProvider(prim, nil).Create(ctx, "x", 800, 1200, 320, "s1")
	require.NoError(t, err)

	h.Detach()
	assert.Empty(t, h.Surface())

	require.NoError(t, h.AttachSurface(ctx, "s2"))
	require.NoError(t, h.Resize(ctx, 600, 440, 320))

	assert.Equal(t, types.Surface("s2"), h.Surface())
	w, hgt := h.Size()
	assert.Equal(t, 600, w)
	assert.Equal(t, 440, hgt)
}
