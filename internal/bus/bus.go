// Package bus provides the process contract and the synchronous event bus
// that decouples the node's components.
//
// The bus is not safe for concurrent use. Everything that touches it runs
// on the scheduler goroutine; work finishing elsewhere must be handed over
// through the scheduler's mailbox first.
package bus

import (
	"log"

	"github.com/sweeney/beacon-scanner/internal/event"
)

// Process is a long-lived component driven by the scheduler.
type Process interface {
	// Setup is called once at boot, before the first Update.
	Setup(b *Bus)
	// Update is called once per scheduler tick and must not block.
	Update()
	// OnEvent receives events the process subscribed to.
	OnEvent(e event.Event)
}

// Bus dispatches events to subscribed processes.
type Bus struct {
	subs        map[event.Kind][]Process
	dispatching map[event.Kind]bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		subs:        make(map[event.Kind][]Process),
		dispatching: make(map[event.Kind]bool),
	}
}

// Subscribe registers p for events of kind k. Delivery follows registration order.
func (b *Bus) Subscribe(k event.Kind, p Process) {
	if p == nil {
		return
	}
	b.subs[k] = append(b.subs[k], p)
}

// Publish delivers e synchronously to every subscriber of its kind and
// returns once all of them have handled it. Kinds with no subscribers are
// a no-op.
//
// A subscriber publishing the kind it is currently handling would recurse
// without bound; such nested publishes are dropped.
func (b *Bus) Publish(e event.Event) {
	if e == nil {
		return
	}
	k := e.Kind()
	subs := b.subs[k]
	if len(subs) == 0 {
		return
	}
	if b.dispatching[k] {
		log.Printf("bus: dropped re-entrant %s publish", k)
		return
	}

	b.dispatching[k] = true
	defer delete(b.dispatching, k)

	for _, p := range subs {
		p.OnEvent(e)
	}
}

// Subscribers returns how many processes are subscribed to k.
func (b *Bus) Subscribers(k event.Kind) int {
	return len(b.subs[k])
}
