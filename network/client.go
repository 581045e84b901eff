package network

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ClientOptions règle la file de réception et le délai d'écriture.
type ClientOptions struct {
	QueueSize    int
	WriteTimeout time.Duration
}

// Client est une connexion persistante au relais. Les snapshots reçus attendent dans une
// file bornée jusqu'au prochain Drain ; si elle est pleine le plus ancien est jeté.
type Client struct {
	log  *zap.Logger
	conn *websocket.Conn
	opts ClientOptions

	connected atomic.Bool
	writeMu   sync.Mutex
	drainMu   sync.Mutex
	inbound   chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

// Dial se connecte au relais et démarre le récepteur.
func Dial(ctx context.Context, url string, opts ClientOptions, log *zap.Logger) (*Client, error) {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("dial %s: %w", url, ErrRelayFull)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		log:     log.With(zap.String("relay", url)),
		conn:    conn,
		opts:    opts,
		inbound: make(chan Snapshot, opts.QueueSize),
		done:    make(chan struct{}),
	}
	c.connected.Store(true)
	go c.receive()
	c.log.Info("connected to relay")
	return c, nil
}

func (c *Client) Connected() bool { return c.connected.Load() }

// Send envoie un snapshot sans attendre de réponse. Une erreur coupe la connexion ;
// il n'y a pas de nouvelle tentative.
func (c *Client) Send(s Snapshot) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.disconnect("send failed", err)
		return fmt.Errorf("send snapshot: %w", err)
	}
	c.log.Debug("snapshot sent", zap.Int("bytes", len(data)))
	return nil
}

// Drain applique dans l'ordre d'arrivée tous les snapshots en attente et retourne leur nombre.
func (c *Client) Drain(apply func(Snapshot)) int {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()
	n := 0
	for {
		select {
		case s := <-c.inbound:
			apply(s)
			n++
		default:
			return n
		}
	}
}

// Close ferme la connexion et attend la fin du récepteur.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.connected.Store(false)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	<-c.done
	return err
}

func (c *Client) receive() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.disconnect("receive failed", err)
			return
		}
		s, err := Decode(data)
		if err != nil {
			c.log.Warn("dropping malformed snapshot", zap.Error(err))
			continue
		}
		c.enqueue(s)
	}
}

func (c *Client) enqueue(s Snapshot) {
	for {
		select {
		case c.inbound <- s:
			return
		default:
		}
		select {
		case <-c.inbound:
			c.log.Warn("inbound queue full, dropping oldest snapshot")
		default:
		}
	}
}

func (c *Client) disconnect(msg string, err error) {
	if c.connected.Swap(false) {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.log.Info("relay closed the connection")
		} else {
			c.log.Warn(msg, zap.Error(err))
		}
	}
	_ = c.conn.Close()
}
