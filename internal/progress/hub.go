package progress

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Hub broadcasts progress events to websocket clients.
//
// Hub implements both Sink and http.Handler: mount it on a mux and pass it to
// the sampler. Slow clients drop events instead of stalling the sweep.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Event]struct{}
	last    *Event
	done    chan struct{}
	closed  bool
	logger  *log.Logger
}

// NewHub creates a Hub. A nil logger disables connection logging.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[chan Event]struct{}),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Report implements Sink.
func (h *Hub) Report(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &ev
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
}

func (h *Hub) subscribe() (chan Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}

	ch := make(chan Event, 16)
	// New clients immediately see the latest state.
	if h.last != nil {
		ch <- *h.last
	}
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

// ServeHTTP upgrades the request to a websocket and streams events as JSON
// until the client goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logf("progress: websocket accept: %v", err)
		return
	}

	events, ok := h.subscribe()
	if !ok {
		c.Close(websocket.StatusGoingAway, "run finished")
		return
	}
	defer h.unsubscribe(events)

	h.logf("progress: client connected from %s", r.RemoteAddr)

	// Clients never send; CloseRead handles control frames and reports
	// disconnects through ctx.
	ctx := c.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			c.CloseNow()
			return
		case <-h.done:
			// Flush what is still queued so the final event is delivered.
		drain:
			for {
				select {
				case ev := <-events:
					if err := h.write(ctx, c, ev); err != nil {
						h.logf("progress: write to %s: %v", r.RemoteAddr, err)
						c.CloseNow()
						return
					}
				default:
					break drain
				}
			}
			c.Close(websocket.StatusNormalClosure, "run finished")
			return
		case ev := <-events:
			if err := h.write(ctx, c, ev); err != nil {
				h.logf("progress: write to %s: %v", r.RemoteAddr, err)
				c.CloseNow()
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, c *websocket.Conn, ev Event) error {
	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(wctx, c, ev)
}
