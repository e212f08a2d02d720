package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/task"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/window"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/resilience"
)

var (
	ErrNotConnected   = errors.New("shell host not connected")
	ErrRequestTimeout = errors.New("shell host request timed out")
	ErrQueueFull      = errors.New("shell host send queue full")
)

const (
	sendQueueSize = 256
	maxFrameSize  = 1 << 20
)

// Config holds bridge timing settings
type Config struct {
	RequestTimeout time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
}

// DefaultConfig returns the stock bridge settings
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 2 * time.Second,
		WriteTimeout:   time.Second,
		PingInterval:   15 * time.Second,
	}
}

// Bridge connects the core to the overlay shell process over a WebSocket.
// It implements every platform collaborator of the window manager by
// exchanging frames with whichever shell host is currently connected.
type Bridge struct {
	cfg        Config
	controller Controller
	breaker    *resilience.Breaker
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	conn     *connection
	listener task.Listener
	pending  map[string]chan Frame
}

type connection struct {
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// NewBridge creates a bridge. Bind a Controller before serving connections.
func NewBridge(cfg Config, breaker *resilience.Breaker, metrics *monitoring.Metrics, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultConfig().PingInterval
	}
	return &Bridge{
		cfg:     cfg,
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			// The shell host is a local process, not a browser
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pending: make(map[string]chan Frame),
	}
}

// Bind sets the controller that shell gestures and callbacks are routed to
func (b *Bridge) Bind(controller Controller) {
	b.mu.Lock()
	b.controller = controller
	b.mu.Unlock()
}

// ForwardEvents relays manager events to the shell host
func (b *Bridge) ForwardEvents(bus *window.Bus) {
	bus.SubscribeAll(func(ev window.Event) {
		if err := b.send(TypeEvent, ev); err != nil && !errors.Is(err, ErrNotConnected) {
			b.logger.Debug("Event not forwarded", zap.String("event", ev.Type), zap.Error(err))
		}
	})
}

// Connected reports whether a shell host is attached
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// HandleConnection upgrades the request and serves the shell host until it
// disconnects. A new host replaces the previous one.
func (b *Bridge) HandleConnection(c *gin.Context) {
	wsConn, err := b.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		b.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	conn := &connection{
		ws:   wsConn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	b.attach(conn)
	defer b.detach(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbound := make(chan Frame, sendQueueSize)
	go b.writeLoop(conn)
	go b.dispatchLoop(ctx, inbound)

	b.readLoop(conn, inbound)
	close(inbound)
}

func (b *Bridge) attach(conn *connection) {
	b.mu.Lock()
	prev := b.conn
	b.conn = conn
	watching := b.listener != nil
	b.mu.Unlock()

	if prev != nil {
		b.logger.Info("Shell host replaced")
		prev.close()
	}
	b.metrics.IncWSConnections()
	b.logger.Info("Shell host connected", zap.String("remote", conn.ws.RemoteAddr().String()))

	if watching {
		if err := b.send(TypeWatchTasks, nil); err != nil {
			b.logger.Warn("Task watch not forwarded", zap.Error(err))
		}
	}
}

// detach drops conn and fails every request still waiting on it. Failure
// frames carry no ReplyTo.
func (b *Bridge) detach(conn *connection) {
	conn.close()

	b.mu.Lock()
	current := b.conn == conn
	if current {
		b.conn = nil
	}
	var waiting []chan Frame
	if current {
		for reqID, ch := range b.pending {
			waiting = append(waiting, ch)
			delete(b.pending, reqID)
		}
	}
	b.mu.Unlock()

	for _, ch := range waiting {
		ch <- Frame{Type: TypeReply, Error: ErrNotConnected.Error()}
	}
	b.metrics.DecWSConnections()
	b.logger.Info("Shell host disconnected")
}

func (b *Bridge) readLoop(conn *connection, inbound chan<- Frame) {
	conn.ws.SetReadLimit(maxFrameSize)
	deadline := 3 * b.cfg.PingInterval
	_ = conn.ws.SetReadDeadline(time.Now().Add(deadline))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(deadline))

		var f Frame
		if err := sonic.Unmarshal(data, &f); err != nil {
			b.logger.Warn("Malformed frame", zap.Error(err))
			continue
		}
		b.metrics.RecordWSMessage("in", f.Type)

		if f.ReplyTo != "" {
			b.resolve(f)
			continue
		}

		select {
		case inbound <- f:
		case <-conn.done:
			return
		}
	}
}

func (b *Bridge) writeLoop(conn *connection) {
	ticker := time.NewTicker(b.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-conn.send:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(b.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				b.logger.Warn("WebSocket write error", zap.Error(err))
				conn.close()
				return
			}
		case <-ticker.C:
			if err := conn.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(b.cfg.WriteTimeout)); err != nil {
				conn.close()
				return
			}
		case <-conn.done:
			return
		}
	}
}

func (b *Bridge) resolve(f Frame) {
	b.mu.Lock()
	ch, ok := b.pending[f.ReplyTo]
	delete(b.pending, f.ReplyTo)
	b.mu.Unlock()

	if !ok {
		b.logger.Debug("Reply for unknown request", zap.String("reply_to", f.ReplyTo))
		return
	}
	ch <- f
}

// send queues a frame without waiting for it to be written
func (b *Bridge) send(typ string, payload any) error {
	f, err := encodeFrame(typ, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", typ, err)
	}
	return b.write(f)
}

func (b *Bridge) write(f Frame) error {
	data, err := sonic.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	select {
	case conn.send <- data:
		b.metrics.RecordWSMessage("out", f.Type)
		return nil
	case <-conn.done:
		return ErrNotConnected
	default:
		return ErrQueueFull
	}
}

// request sends a frame and waits for the shell's reply, decoding its
// payload into out. Round trips run through the breaker.
func (b *Bridge) request(ctx context.Context, service, typ string, payload, out any) error {
	timer := monitoring.NewTimer(b.metrics, service, typ)
	call := func() error { return b.roundTrip(ctx, typ, payload, out) }

	var err error
	if b.breaker != nil {
		err = b.breaker.Execute(call)
	} else {
		err = call()
	}
	timer.StopErr(err)
	return err
}

func (b *Bridge) roundTrip(ctx context.Context, typ string, payload, out any) error {
	f, err := encodeFrame(typ, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", typ, err)
	}
	f.ID = uuid.NewString()

	reply := make(chan Frame, 1)
	b.mu.Lock()
	b.pending[f.ID] = reply
	b.mu.Unlock()

	forget := func() {
		b.mu.Lock()
		delete(b.pending, f.ID)
		b.mu.Unlock()
	}

	if err := b.write(f); err != nil {
		forget()
		return err
	}

	timeout := time.NewTimer(b.cfg.RequestTimeout)
	defer timeout.Stop()

	select {
	case r := <-reply:
		if r.ReplyTo == "" {
			return fmt.Errorf("%w: %s", ErrNotConnected, typ)
		}
		if r.Error != "" {
			return fmt.Errorf("%s: %s", typ, r.Error)
		}
		if out != nil {
			if err := decodePayload(r, out); err != nil {
				return fmt.Errorf("failed to decode %s reply: %w", typ, err)
			}
		}
		return nil
	case <-timeout.C:
		forget()
		return fmt.Errorf("%w: %s", ErrRequestTimeout, typ)
	case <-ctx.Done():
		forget()
		return ctx.Err()
	}
}
