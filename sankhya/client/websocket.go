package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/deevus/sankhya-tui/sankhya"
	"github.com/gorilla/websocket"
)

// StreamConfig configures a WebSocketStreamer.
type StreamConfig struct {
	BaseURL            string
	EventsPath         string
	SessionID          string
	InsecureSkipVerify bool
	HandshakeTimeout   time.Duration
	// Buffer is the capacity of the delivered event channel (default 64).
	Buffer int
	// Logger receives frames that could not be decoded. Nil discards them.
	Logger *slog.Logger
}

// WebSocketStreamer opens the push-event channel over a WebSocket. Each text
// frame is a JSON sankhya.Event. Frames that do not decode are skipped.
type WebSocketStreamer struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	buffer int
	logger *slog.Logger
}

// NewWebSocketStreamer resolves the stream URL from cfg.
func NewWebSocketStreamer(cfg StreamConfig) (*WebSocketStreamer, error) {
	u, err := WebSocketURL(cfg.BaseURL, cfg.EventsPath)
	if err != nil {
		return nil, err
	}
	hs := cfg.HandshakeTimeout
	if hs == 0 {
		hs = 10 * time.Second
	}
	buf := cfg.Buffer
	if buf <= 0 {
		buf = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	header := http.Header{}
	if cfg.SessionID != "" {
		header.Set(SessionHeader, cfg.SessionID)
	}
	return &WebSocketStreamer{
		url:    u,
		header: header,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: hs,
			TLSClientConfig:  &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
		},
		buffer: buf,
		logger: logger,
	}, nil
}

// URL returns the resolved ws:// or wss:// address.
func (s *WebSocketStreamer) URL() string {
	return s.url
}

// Stream dials the backend and delivers frames until the connection drops,
// ctx is cancelled, or the returned closer is closed. The channel is closed
// when delivery stops.
func (s *WebSocketStreamer) Stream(ctx context.Context) (<-chan sankhya.Event, io.Closer, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, s.header)
	if err != nil {
		if resp != nil {
			return nil, nil, fmt.Errorf("dialing %s: %w (status %d)", s.url, err, resp.StatusCode)
		}
		return nil, nil, fmt.Errorf("dialing %s: %w", s.url, err)
	}

	sc := &streamConn{conn: conn, done: make(chan struct{})}
	out := make(chan sankhya.Event, s.buffer)

	go func() {
		select {
		case <-ctx.Done():
			_ = sc.Close()
		case <-sc.done:
		}
	}()

	go func() {
		defer close(out)
		defer sc.Close()
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
				continue
			}
			var ev sankhya.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				s.logger.Debug("skipping undecodable frame", "err", err, "size", len(data))
				continue
			}
			if ev.Kind == "" {
				continue
			}
			select {
			case out <- ev:
			case <-sc.done:
				return
			}
		}
	}()

	return out, sc, nil
}

type streamConn struct {
	conn *websocket.Conn
	once sync.Once
	done chan struct{}
	err  error
}

func (c *streamConn) Close() error {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.err = c.conn.Close()
	})
	return c.err
}

// WebSocketURL maps an http(s) base URL and path onto the matching ws(s) URL.
func WebSocketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("base url %q must use http or https", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String(), nil
}
