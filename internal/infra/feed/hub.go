package feed

import (
	"sync"
	"time"

	"github.com/verilens/verilens/internal/domain/analysis"
)

// Event is one sequenced job change delivered to feed subscribers.
type Event struct {
	Seq       int64               `json:"seq"`
	Timestamp time.Time           `json:"timestamp"`
	Kind      analysis.ChangeKind `json:"kind"`
	Job       analysis.Job        `json:"job"`
}

// Hub stores recent events per tenant and fans them out to live
// subscribers. Delivery is at least once: a slow subscriber may drop
// events from its channel and recover them through Since, and the same
// terminal state may be seen twice. Consumers treat repeats as no-ops.
type Hub struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    map[string][]Event // keyed by tenant
	subs      map[*Subscriber]struct{}
}

// Subscriber is one live feed connection.
type Subscriber struct {
	Tenant string
	C      chan Event
}

// NewHub creates a hub with a bounded per-tenant event buffer.
func NewHub(maxEvents int) *Hub {
	if maxEvents <= 0 {
		maxEvents = 500
	}
	return &Hub{
		maxEvents: maxEvents,
		events:    make(map[string][]Event),
		subs:      make(map[*Subscriber]struct{}),
	}
}

// Notify implements the analysis.Notifier port.
func (h *Hub) Notify(c analysis.Change) {
	h.Publish(Event{Kind: c.Kind, Job: c.Job})
}

// Publish assigns sequence and timestamp, buffers the event, and pushes it
// to matching subscribers without blocking.
func (h *Hub) Publish(event Event) Event {
	h.mu.Lock()

	h.nextSeq++
	event.Seq = h.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	tenant := event.Job.TenantID
	buf := append(h.events[tenant], event)
	if len(buf) > h.maxEvents {
		trim := len(buf) - h.maxEvents
		buf = append([]Event(nil), buf[trim:]...)
	}
	h.events[tenant] = buf

	targets := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		if sub.Tenant == tenant {
			targets = append(targets, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.C <- event:
		default:
			// Full channel: the subscriber catches up via Since.
		}
	}
	return event
}

// Since returns buffered events for tenant with sequence strictly greater
// than seq.
func (h *Hub) Since(tenant string, seq int64) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf := h.events[tenant]
	if len(buf) == 0 {
		return nil
	}
	out := make([]Event, 0, len(buf))
	for _, event := range buf {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}

// Subscribe registers a live subscriber for tenant.
func (h *Hub) Subscribe(tenant string) *Subscriber {
	sub := &Subscriber{Tenant: tenant, C: make(chan Event, 64)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber. Its channel is not closed; the reader
// simply stops receiving.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
