package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/observability"
)

// ErrHubClosed is returned when registering on a hub that has shut down.
var ErrHubClosed = errors.New("realtime hub closed")

// Conn is the subset of a websocket connection the hub drives.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Frame is the JSON envelope written to clients.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Session is one connected client. Sessions carry no identity; every session
// receives every broadcast.
type Session struct {
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Hub tracks live sessions and fans broadcasts out to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	closed   bool

	buffer  int
	ping    time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewHub creates an empty hub.
func NewHub(cfg config.RealtimeConfig, logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = 64
	}
	var ping time.Duration
	if cfg.PingSeconds > 0 {
		ping = time.Duration(cfg.PingSeconds) * time.Second
	}
	return &Hub{
		sessions: make(map[*Session]struct{}),
		buffer:   buffer,
		ping:     ping,
		logger:   logger,
		metrics:  metrics,
	}
}

// Attach subscribes the hub to every client-facing event on the dispatcher.
func (h *Hub) Attach(dispatcher events.Dispatcher) {
	for _, eventType := range events.BroadcastTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, evt events.Event) error {
			return h.Broadcast(string(evt.Type), evt.Payload)
		})
	}
}

// Register adds a session.
func (h *Hub) Register() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	s := &Session{send: make(chan []byte, h.buffer), done: make(chan struct{})}
	h.sessions[s] = struct{}{}
	if h.metrics != nil {
		h.metrics.Sessions.Inc()
	}
	return s, nil
}

// Unregister removes a session; unknown sessions are ignored.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	h.mu.Unlock()
	if !ok {
		return
	}
	s.close()
	if h.metrics != nil {
		h.metrics.Sessions.Dec()
	}
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast enqueues one frame for every session without blocking. Sessions
// whose buffer is full miss the frame.
func (h *Hub) Broadcast(event string, data interface{}) error {
	raw, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", event, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for s := range h.sessions {
		select {
		case s.send <- raw:
		default:
			dropped++
		}
	}
	if h.metrics != nil {
		h.metrics.BroadcastFrames.WithLabelValues(event).Add(float64(len(h.sessions) - dropped))
		if dropped > 0 {
			h.metrics.DroppedFrames.WithLabelValues(event).Add(float64(dropped))
		}
	}
	if dropped > 0 {
		h.logger.Warn("realtime frames dropped", zap.String("event", event), zap.Int("sessions", dropped))
	}
	return nil
}

// Close unregisters every session and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := h.sessions
	h.sessions = make(map[*Session]struct{})
	h.mu.Unlock()

	for s := range sessions {
		s.close()
		if h.metrics != nil {
			h.metrics.Sessions.Dec()
		}
	}
}

// Serve registers conn and pumps frames to it until the client disconnects,
// ctx is cancelled or the hub closes. Inbound frames are discarded.
func (h *Hub) Serve(ctx context.Context, conn Conn) error {
	s, err := h.Register()
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer h.Unregister(s)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(ctx, s, conn)
		// Unblocks the read loop below.
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.close()
	<-writerDone
	return nil
}

func (h *Hub) writeLoop(ctx context.Context, s *Session, conn Conn) {
	var pings <-chan time.Time
	if h.ping > 0 {
		ticker := time.NewTicker(h.ping)
		defer ticker.Stop()
		pings = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case frame := <-s.send:
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.logger.Debug("realtime write failed", zap.Error(err))
				return
			}
		case <-pings:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
