package network

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRelayPort = 5555
	RelayPath        = "/ws"
)

type peer struct {
	id   string
	slot int
	conn *websocket.Conn
}

// Relay relaie les snapshots entre exactement deux joueurs. Il ne les interprète pas :
// un message valide est renvoyé tel quel à l'autre slot.
type Relay struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	// mu protège slots et lastState, et sérialise toutes les écritures vers les peers.
	mu        sync.Mutex
	slots     [2]*peer
	lastState map[int][]byte

	handlers sync.WaitGroup
}

func NewRelay(log *zap.Logger) *Relay {
	return &Relay{
		log:       log,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		lastState: make(map[int][]byte),
	}
}

// Handler expose le websocket sur /ws et un /healthz.
func (r *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(RelayPath, r.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Clients retourne le nombre de slots occupés.
func (r *Relay) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.slots {
		if p != nil {
			n++
		}
	}
	return n
}

// Serve sert jusqu'à l'annulation du contexte puis ferme les deux connexions.
func (r *Relay) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: r.Handler(), ReadHeaderTimeout: 10 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.log.Info("relay listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		r.closeAll()
		r.handlers.Wait()
		r.log.Info("relay stopped")
		return err
	})
	return g.Wait()
}

// ListenAndServe écoute sur addr (":5555" par défaut).
func (r *Relay) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return r.Serve(ctx, ln)
}

// reserve prend le premier slot libre avant l'upgrade pour qu'un troisième client soit refusé.
func (r *Relay) reserve() (*peer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if r.slots[i] == nil {
			p := &peer{id: uuid.NewString(), slot: i}
			r.slots[i] = p
			return p, nil
		}
	}
	return nil, ErrRelayFull
}

func (r *Relay) handleWS(w http.ResponseWriter, req *http.Request) {
	r.handlers.Add(1)
	defer r.handlers.Done()

	p, err := r.reserve()
	if err != nil {
		r.log.Warn("rejecting connection", zap.String("remote", req.RemoteAddr), zap.Error(err))
		http.Error(w, "game full", http.StatusServiceUnavailable)
		return
	}
	log := r.log.With(zap.String("conn", p.id), zap.Int("slot", p.slot))

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		r.release(p)
		return
	}

	r.mu.Lock()
	p.conn = conn
	if last, ok := r.lastState[1-p.slot]; ok {
		if err := conn.WriteMessage(websocket.TextMessage, last); err != nil {
			log.Warn("catch-up failed", zap.Error(err))
		} else {
			log.Debug("sent last known state", zap.Int("bytes", len(last)))
		}
	}
	r.mu.Unlock()
	log.Info("player connected", zap.String("remote", req.RemoteAddr))

	defer func() {
		r.release(p)
		_ = conn.Close()
		log.Info("player disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read ended", zap.Error(err))
			}
			return
		}
		if !json.Valid(data) {
			log.Warn("skipping malformed payload", zap.Int("bytes", len(data)))
			continue
		}
		r.forward(p, data, log)
	}
}

func (r *Relay) forward(from *peer, data []byte, log *zap.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastState[from.slot] = data
	to := r.slots[1-from.slot]
	if to == nil || to.conn == nil {
		log.Debug("no peer, state kept", zap.Int("bytes", len(data)))
		return
	}
	_ = to.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := to.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn("forward failed", zap.String("to", to.id), zap.Error(err))
		_ = to.conn.Close()
		return
	}
	log.Debug("forwarded snapshot", zap.String("to", to.id), zap.Int("bytes", len(data)))
}

func (r *Relay) release(p *peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots[p.slot] == p {
		r.slots[p.slot] = nil
		delete(r.lastState, p.slot)
	}
}

func (r *Relay) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.slots {
		if p != nil && p.conn != nil {
			_ = p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "relay shutting down"),
				time.Now().Add(time.Second))
			_ = p.conn.Close()
		}
	}
}
