package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultURL is the local tracking service endpoint for protocol version 6.
const DefaultURL = "ws://127.0.0.1:6437/v6.json"

// Config holds configuration options for the WebSocket source.
type Config struct {
	// URL of the tracking service WebSocket endpoint.
	URL string

	// Background requests frames even when the application is not focused.
	Background bool

	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		URL:         DefaultURL,
		DialTimeout: 3 * time.Second,
	}
}

// WebSocketSource implements Source on top of the tracking service's
// WebSocket JSON protocol. A reader goroutine keeps the latest frame.
type WebSocketSource struct {
	conn   *websocket.Conn
	logger *slog.Logger

	mu             sync.Mutex
	latest         *Frame
	err            error
	serviceVersion string
	enabled        map[GestureType]bool

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the tracking service and starts reading frames.
func Dial(ctx context.Context, cfg Config) (*WebSocketSource, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial tracking service %s: %w", cfg.URL, err)
	}

	s := &WebSocketSource{
		conn:    conn,
		logger:  cfg.Logger,
		enabled: make(map[GestureType]bool),
		done:    make(chan struct{}),
	}

	if err := s.send(map[string]bool{"focused": true}); err != nil {
		conn.Close()
		return nil, err
	}
	if cfg.Background {
		if err := s.send(map[string]bool{"background": true}); err != nil {
			conn.Close()
			return nil, err
		}
	}

	go s.readLoop()
	return s, nil
}

// Frame returns the latest decoded frame, or nil when disconnected.
func (s *WebSocketSource) Frame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil
	}
	return s.latest
}

// EnableGesture turns on gesture reporting. The service enables all
// recognizers with a single message, so only the first call is sent.
func (s *WebSocketSource) EnableGesture(t GestureType) error {
	if t == GestureTypeInvalid {
		return fmt.Errorf("enable gesture: unsupported type %v", t)
	}

	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return err
	}
	first := len(s.enabled) == 0
	s.enabled[t] = true
	s.mu.Unlock()

	if !first {
		return nil
	}
	return s.send(map[string]bool{"enableGestures": true})
}

// ServiceVersion returns the version banner reported by the service, if any.
func (s *WebSocketSource) ServiceVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serviceVersion
}

// Err returns the reason the source stopped receiving frames, if any.
func (s *WebSocketSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close shuts the connection down and waits for the reader to exit.
func (s *WebSocketSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.err == nil {
			s.err = ErrClosed
		}
		s.mu.Unlock()

		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()

		err = s.conn.Close()
		<-s.done
	})
	return err
}

func (s *WebSocketSource) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (s *WebSocketSource) readLoop() {
	defer close(s.done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if s.err == nil {
				s.err = fmt.Errorf("%w: %v", ErrNotConnected, err)
				s.logger.Error("tracking service connection lost", "error", err)
			}
			s.latest = nil
			s.mu.Unlock()
			return
		}

		frame, err := DecodeFrame(data)
		if errors.Is(err, ErrNotFrame) {
			s.handleServiceMessage(data)
			continue
		}
		if err != nil {
			s.logger.Debug("skipping undecodable message", "error", err)
			continue
		}

		s.mu.Lock()
		s.latest = frame
		s.mu.Unlock()
	}
}

func (s *WebSocketSource) handleServiceMessage(data []byte) {
	var msg struct {
		ServiceVersion string `json:"serviceVersion"`
		Version        int    `json:"version"`
		Event          *struct {
			Type string `json:"type"`
		} `json:"event"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	if msg.ServiceVersion != "" {
		s.mu.Lock()
		s.serviceVersion = msg.ServiceVersion
		s.mu.Unlock()
		s.logger.Info("connected to tracking service", "service_version", msg.ServiceVersion, "protocol", msg.Version)
	}
	if msg.Event != nil {
		s.logger.Info("tracking service event", "type", msg.Event.Type)
	}
}
