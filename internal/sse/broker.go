// Package sse streams post change notifications to browsers as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Event types sent to clients.
const (
	TypePostCreated  = "post.created"
	TypePostUpdated  = "post.updated"
	TypePostDeleted  = "post.deleted"
	TypePostsChanged = "posts.changed"
)

// DefaultThrottle is the minimum gap between posts.changed events.
const DefaultThrottle = 2 * time.Second

// keepAlive is how often an idle stream receives a comment line so
// proxies do not drop it.
const keepAlive = 30 * time.Second

// Event is a message broadcast to every client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// hub is the broker state. Only the broker goroutine touches it.
type hub struct {
	clients     map[chan []byte]struct{}
	seq         uint64
	throttle    time.Duration
	lastChanged time.Time
}

// broadcast frames ev with the next sequence id and offers it to every
// client. A client whose buffer is full misses the message.
func (h *hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		slog.Warn("sse: drop unencodable event", slog.String("type", ev.Type), slog.String("error", err.Error()))
		return
	}
	h.seq++
	msg := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", h.seq, ev.Type, payload))
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// postChanged announces one post and, at most once per throttle window,
// the listing-wide posts.changed hint.
func (h *hub) postChanged(kind, slug string, now time.Time) {
	typ, ok := postEventTypes[kind]
	if !ok {
		return
	}
	h.broadcast(Event{Type: typ, Data: map[string]string{"slug": slug}})
	if now.Sub(h.lastChanged) < h.throttle {
		return
	}
	h.lastChanged = now
	h.broadcast(Event{Type: TypePostsChanged, Data: map[string]string{}})
}

func (h *hub) remove(ch chan []byte) {
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *hub) closeAll() {
	for ch := range h.clients {
		h.remove(ch)
	}
}

var postEventTypes = map[string]string{
	"created": TypePostCreated,
	"updated": TypePostUpdated,
	"deleted": TypePostDeleted,
}

// Broker fans events out to connected clients.
//
// One goroutine owns the hub. Every public method hands it a closure over
// an unbuffered channel, so an accepted operation always runs before the
// broker shuts down, and a refused one never runs.
type Broker struct {
	ops     chan func(*hub)
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewBroker starts a broker. throttle <= 0 means DefaultThrottle.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	b := &Broker{
		ops:     make(chan func(*hub)),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	h := &hub{clients: make(map[chan []byte]struct{}), throttle: throttle}
	go b.run(h)
	return b
}

func (b *Broker) run(h *hub) {
	defer close(b.stopped)
	for {
		select {
		case op := <-b.ops:
			op(h)
		case <-b.done:
			h.closeAll()
			return
		}
	}
}

// do runs op on the broker goroutine. It reports false once the broker is
// closed.
func (b *Broker) do(op func(*hub)) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ops <- op:
		return true
	case <-b.done:
		return false
	}
}

// Close disconnects every client and stops the broker. It is safe to call
// more than once.
func (b *Broker) Close() {
	b.once.Do(func() { close(b.done) })
	<-b.stopped
}

// Subscribe registers a client and returns its message channel. After
// Close the channel comes back already closed.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if !b.do(func(h *hub) { h.clients[ch] = struct{}{} }) {
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.do(func(h *hub) { h.remove(ch) })
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	n := make(chan int, 1)
	if !b.do(func(h *hub) { n <- len(h.clients) }) {
		return 0
	}
	return <-n
}

// Publish broadcasts an arbitrary event.
func (b *Broker) Publish(ev Event) {
	b.do(func(h *hub) { h.broadcast(ev) })
}

// PublishPostEvent broadcasts a post change (kind is created, updated or
// deleted) followed by a throttled posts.changed hint. Unknown kinds are
// ignored. Its signature matches watch.Callback.
func (b *Broker) PublishPostEvent(kind, slug string) {
	now := time.Now()
	b.do(func(h *hub) { h.postChanged(kind, slug, now) })
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("retry: 3000\n\n"))
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)
	slog.Debug("sse: client connected", slog.Int("clients", b.ClientCount()))

	ping := time.NewTicker(keepAlive)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
