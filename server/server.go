// Package server streams driver frames over websocket and applies remote controls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/lesson"
	"github.com/lixenwraith/fingerpath/path"
	"github.com/lixenwraith/fingerpath/status"
)

const (
	DefaultWriteDeadline = 200 * time.Millisecond
	sendBuffer           = 16
	maxMessageSize       = 4096
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrStopped       = errors.New("loop stopped")
)

// Options tunes a Hub; zero fields take defaults
type Options struct {
	FrameInterval time.Duration
	WriteDeadline time.Duration
	Lessons       *lesson.Catalog // nil disables the lesson action
	Registry      *status.Registry
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub owns the websocket clients; driver access goes through the loop
type Hub struct {
	loop    *engine.Loop
	driver  *engine.Driver
	lessons *lesson.Catalog
	reg     *status.Registry
	opts    Options
	started time.Time

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	lastPath    *path.Path
	statClients *atomic.Int64
	statDropped *atomic.Int64
}

// NewHub wires a hub to the loop and the driver it owns
func NewHub(loop *engine.Loop, driver *engine.Driver, opts Options) *Hub {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = loop.FrameInterval()
	}
	if opts.WriteDeadline <= 0 {
		opts.WriteDeadline = DefaultWriteDeadline
	}
	if opts.Registry == nil {
		opts.Registry = status.NewRegistry()
	}
	return &Hub{
		loop:        loop,
		driver:      driver,
		lessons:     opts.Lessons,
		reg:         opts.Registry,
		opts:        opts,
		started:     time.Now(),
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:     make(map[*client]struct{}),
		statClients: opts.Registry.Ints.Get(status.KeyClients),
		statDropped: opts.Registry.Ints.Get(status.KeyDropped),
	}
}

// Handler routes /ws, /health and /lessons
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/lessons", h.HandleLessons)
	return mux
}

// Run broadcasts a frame every interval until ctx is done or the loop stops
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.FrameInterval)
	defer ticker.Stop()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.broadcastFrame() {
				return
			}
		}
	}
}

func (h *Hub) snapshot() (engine.Frame, bool) {
	var f engine.Frame
	ok := h.loop.Do(func() { f = h.driver.Snapshot() })
	return f, ok
}

func (h *Hub) broadcastFrame() bool {
	f, ok := h.snapshot()
	if !ok {
		return false
	}
	if f.Path != h.lastPath && f.Path != nil {
		h.lastPath = f.Path
		h.broadcast(Message{Type: TypePath, Path: newPathMessage(f.Path)})
	}
	h.broadcast(Message{Type: TypeFrame, Frame: &f})
	return true
}

func (h *Hub) broadcast(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Str("type", m.Type).Msg("encode message")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, b)
	}
}

// enqueue drops the message when the client is behind
func (h *Hub) enqueue(c *client, b []byte) {
	select {
	case c.send <- b:
	case <-c.done:
	default:
		h.statDropped.Add(1)
	}
}

func (h *Hub) reply(c *client, m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	h.enqueue(c, b)
}

// HandleWS upgrades and serves one client until it disconnects
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("upgrade")
		return
	}
	conn.SetReadLimit(maxMessageSize)
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.statClients.Add(1)
	log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	if f, ok := h.snapshot(); ok {
		if f.Path != nil {
			h.reply(c, Message{Type: TypePath, Path: newPathMessage(f.Path)})
		}
		h.reply(c, Message{Type: TypeFrame, Frame: &f})
	}

	go h.writePump(c)
	h.readPump(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	h.statClients.Add(-1)
	c.close()
	log.Info().Str("remote", r.RemoteAddr).Msg("client disconnected")
}

func (h *Hub) writePump(c *client) {
	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Debug().Err(err).Msg("write")
				c.close()
				return
			}
		}
	}
}

func (h *Hub) readPump(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var ctrl Control
		if err := json.Unmarshal(data, &ctrl); err != nil {
			h.reply(c, Message{Type: TypeError, Error: fmt.Sprintf("decode: %v", err)})
			continue
		}
		if err := h.Apply(ctrl); err != nil {
			h.reply(c, Message{Type: TypeError, Action: ctrl.Action, Error: err.Error()})
			continue
		}
		h.reply(c, Message{Type: TypeAck, Action: ctrl.Action})
	}
}

// Apply runs a control on the loop goroutine and waits for it
func (h *Hub) Apply(ctrl Control) error {
	var err error
	if !h.loop.Do(func() { err = h.apply(ctrl) }) {
		return ErrStopped
	}
	if err != nil {
		log.Debug().Err(err).Str("action", ctrl.Action).Msg("control rejected")
	}
	return err
}

func (h *Hub) apply(ctrl Control) error {
	d := h.driver
	switch ctrl.Action {
	case ActionStartFlat:
		d.StartFlat()
	case ActionStartMountains:
		d.StartMountains()
	case ActionReset:
		d.Reset()
	case ActionStop:
		d.Stop()
	case ActionTempo:
		if ctrl.Value <= 0 {
			return fmt.Errorf("tempo %v must be positive", ctrl.Value)
		}
		d.SetTempo(ctrl.Value)
	case ActionSpeed:
		if ctrl.Value <= 0 {
			return fmt.Errorf("speed %v must be positive", ctrl.Value)
		}
		d.SetSpeed(ctrl.Value)
	case ActionFingers:
		d.SetFingerCount(ctrl.Count)
	case ActionColors:
		return d.SetFingerColors(ctrl.Colors)
	case ActionMountains:
		d.SetMountains(ctrl.Count, ctrl.Plateaus)
	case ActionResize:
		if ctrl.Width <= 0 || ctrl.Height <= 0 {
			return fmt.Errorf("resize %vx%v must be positive", ctrl.Width, ctrl.Height)
		}
		d.Resize(ctrl.Width, ctrl.Height)
	case ActionLesson:
		if h.lessons == nil {
			return fmt.Errorf("%w: no lesson catalog", lesson.ErrNotFound)
		}
		l, err := h.lessons.Get(ctrl.Lesson)
		if err != nil {
			return err
		}
		d.Configure(l.Apply(d.Settings()))
		d.Start(d.Path())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, ctrl.Action)
	}
	return nil
}

// HandleHealth reports uptime, driver state and metrics
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var state engine.State
	alive := h.loop.Do(func() { state = h.driver.State() })

	h.mu.RLock()
	clients := len(h.clients)
	h.mu.RUnlock()

	resp := map[string]any{
		"alive":    alive,
		"state":    state.String(),
		"uptime_s": time.Since(h.started).Seconds(),
		"frames":   h.loop.Frames(),
		"clients":  clients,
		"metrics":  h.reg.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	if !alive {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type lessonEntry struct {
	ID       string    `json:"id"`
	ParentID int       `json:"parent_id"`
	Name     string    `json:"name"`
	PathType path.Kind `json:"path_type"`
}

// HandleLessons lists the catalog
func (h *Hub) HandleLessons(w http.ResponseWriter, r *http.Request) {
	out := []lessonEntry{}
	if h.lessons != nil {
		for _, id := range h.lessons.IDs() {
			l, _ := h.lessons.Get(id)
			out = append(out, lessonEntry{ID: l.ID, ParentID: l.ParentID, Name: l.Name, PathType: l.PathType})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Clients returns the connected client count
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.close()
	}
}
