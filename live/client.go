// Package live connects a map host to the game server over a websocket. The
// server pushes attribute updates; the host pushes selected locations back.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/hostcfg"
	"github.com/olablt/worldmap/tiles"
)

var (
	ErrClosed    = errors.New("live: connection closed")
	ErrQueueFull = errors.New("live: send queue full")
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 90 * time.Second
	queueSize    = 16
)

type Client struct {
	conn      *websocket.Conn
	sessionID string
	log       *slog.Logger

	out     chan []byte
	updates chan engine.Update

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Dial connects to url and introduces itself with a fresh session id
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn:      conn,
		sessionID: uuid.NewString(),
		log:       logger.With("component", "live"),
		out:       make(chan []byte, queueSize),
		updates:   make(chan engine.Update, queueSize),
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(HelloMsg{Type: TypeHello, SessionID: c.sessionID}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.wg.Add(2)
	go c.writer()
	go c.reader()
	return c, nil
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// Updates delivers server pushes. It is closed when the connection ends.
// Hosts must apply them on their UI goroutine.
func (c *Client) Updates() <-chan engine.Update {
	return c.updates
}

// Done is closed once the connection has failed or been closed
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Push queues a selection for the server. Selections made during the reveal
// are dropped without error.
func (c *Client) Push(mode engine.Mode, ll tiles.LatLng) error {
	event, ok := EventForMode(mode)
	if !ok {
		return nil
	}
	b, err := json.Marshal(PushMsg{Type: TypePush, Event: event, Payload: ll})
	if err != nil {
		return err
	}
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case c.out <- b:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	default:
		return ErrQueueFull
	}
}

func (c *Client) writer() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case b := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.log.Warn("write failed", "err", err)
				c.cancel()
				return
			}
		}
	}
}

func (c *Client) reader() {
	defer c.wg.Done()
	defer close(c.updates)
	defer c.cancel()

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil {
				c.log.Info("connection closed", "err", err)
			}
			return
		}
		base, err := DecodeBase(msg)
		if err != nil || base.Type != TypeUpdate {
			continue
		}
		var upd UpdateMsg
		if err := json.Unmarshal(msg, &upd); err != nil {
			c.log.Warn("bad UPDATE", "err", err)
			continue
		}
		select {
		case c.updates <- hostcfg.Extract(upd.Attrs):
		case <-c.ctx.Done():
			return
		}
	}
}

// Close ends the session. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
		c.wg.Wait()
	})
	return err
}
