package stream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the time allowed to write a frame to the backend.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the backend.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the backend at this period; must be less
	// than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds a single incoming delta frame.
	maxMessageSize = 512 * 1024
)

// Conn is one outbound WebSocket connection to a streaming model backend.
type Conn struct {
	ws *websocket.Conn
}

// Dial opens an outbound connection to a streaming backend at url.
func Dial(ctx context.Context, url string, header http.Header) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: writeWait}
	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("stream: dial %s: %w", url, err)
	}
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &Conn{ws: ws}, nil
}

// WriteRequest sends the initial request frame (arbitrary JSON payload,
// typically a rendered PromptRequest) to open the stream.
func (c *Conn) WriteRequest(v interface{}) error {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// ReadDelta blocks for the next streamed delta frame.
func (c *Conn) ReadDelta() (*Delta, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("stream: read: %w", err)
	}
	return unmarshalDelta(data)
}

// Ping sends a keepalive ping; callers on a read loop typically run this
// off a pingPeriod ticker in a separate goroutine.
func (c *Conn) Ping() error {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

// PingPeriod exposes the keepalive interval for callers driving their own
// ticker loop.
func PingPeriod() time.Duration { return pingPeriod }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.ws.Close() }
