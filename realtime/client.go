package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID    string
	SessionID string
	Send      chan []byte

	conn   *websocket.Conn
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded connection. The caller registers it with a Hub
// and runs WritePump in its own goroutine.
func NewClient(userID, sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID:    userID,
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		conn:      conn,
	}
}

// Close tears the connection down once; safe to call from any goroutine.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()

	if c.hub != nil {
		c.hub.unregister(c)
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// WritePump drains the Send channel onto the wire and keeps the connection
// alive with pings. It returns when Send closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadLoop consumes incoming frames, refreshing the read deadline on pongs,
// and hands each text message to onMessage. It returns on read error.
func (c *Client) ReadLoop(onMessage func(raw []byte)) {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if onMessage != nil {
			onMessage(raw)
		}
	}
}
