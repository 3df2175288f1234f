package led

import (
	"log"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
)

// Outcome reports how a directive was applied.
type Outcome int

const (
	// Patched means the active behavior's parameters were updated in place.
	Patched Outcome = iota + 1
	// Activated means a different behavior kind was switched in.
	Activated
)

func (o Outcome) String() string {
	switch o {
	case Patched:
		return "patched"
	case Activated:
		return "activated"
	}
	return "none"
}

// Manager owns the strip and the active behavior. It never interprets
// behavior semantics; Update is pure delegation.
type Manager struct {
	out      Strip
	registry *Registry
	current  Behavior
}

// NewManager creates a Manager drawing on out with behaviors from reg.
func NewManager(out Strip, reg *Registry) *Manager {
	return &Manager{out: out, registry: reg}
}

// Current returns the active behavior, or nil.
func (m *Manager) Current() Behavior { return m.current }

// CurrentKind returns the active behavior kind, or "".
func (m *Manager) CurrentKind() Kind {
	if m.current == nil {
		return ""
	}
	return m.current.Kind()
}

// SetBehavior makes b active and runs its Setup. The previous behavior is
// simply dropped; the registry owns its lifetime.
func (m *Manager) SetBehavior(b Behavior) {
	if b == nil {
		return
	}
	m.current = b
	b.Setup(m.out)
}

// Apply selects a behavior by kind name. If that kind is already active its
// parameters are patched in place and the animation phase is preserved;
// otherwise the registry instance is configured and activated. On error the
// current behavior is left untouched.
func (m *Manager) Apply(kind string, p Params) (Outcome, error) {
	b, err := m.registry.Lookup(kind)
	if err != nil {
		return 0, err
	}
	if m.current != nil && m.current.Kind() == b.Kind() {
		if err := m.current.UpdateParams(p); err != nil {
			return 0, err
		}
		return Patched, nil
	}
	if err := b.configure(p); err != nil {
		return 0, err
	}
	m.SetBehavior(b)
	return Activated, nil
}

// Setup turns the strip off if nothing is active yet.
func (m *Manager) Setup(*bus.Bus) {
	if m.current != nil {
		return
	}
	if _, err := m.Apply(string(KindOff), Params{}); err != nil {
		log.Printf("led: initial off: %v", err)
	}
}

// Update advances the active behavior.
func (m *Manager) Update() {
	if m.current != nil {
		m.current.Update()
	}
}

// OnEvent is unused; directives arrive through Apply.
func (m *Manager) OnEvent(event.Event) {}
