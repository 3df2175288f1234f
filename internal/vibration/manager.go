package vibration

import (
	"fmt"
	"log"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/timer"
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

// Registry holds one reusable instance per behavior kind.
type Registry struct {
	clock     timer.Clock
	instances map[Kind]Behavior
}

// NewRegistry creates an empty registry whose behaviors read clock.
func NewRegistry(clock timer.Clock) *Registry {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &Registry{clock: clock, instances: make(map[Kind]Behavior)}
}

// Lookup returns the instance for the named kind, allocating it on first use.
func (r *Registry) Lookup(name string) (Behavior, error) {
	k := Kind(name)
	if b, ok := r.instances[k]; ok {
		return b, nil
	}

	var b Behavior
	switch k {
	case KindOff:
		b = &Off{base: base{clock: r.clock}}
	case KindConstant:
		b = &Constant{base: base{clock: r.clock}}
	case KindBurst:
		b = newBurst(r.clock)
	case KindPulse:
		b = newPulse(r.clock)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	r.instances[k] = b
	return b, nil
}

// Manager owns the motor and the active behavior. It never interprets
// behavior semantics; Update is pure delegation.
type Manager struct {
	out      Motor
	registry *Registry
	current  Behavior
}

// NewManager creates a Manager driving out with behaviors from reg.
func NewManager(out Motor, reg *Registry) *Manager {
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

// SetBehavior makes b active and runs its Setup.
func (m *Manager) SetBehavior(b Behavior) {
	if b == nil {
		return
	}
	m.current = b
	b.Setup(m.out)
}

// Apply selects a behavior by kind name, patching in place when that kind
// is already active. On error the current behavior is left untouched.
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

// Setup holds the motor off until a directive arrives.
func (m *Manager) Setup(*bus.Bus) {
	if m.current != nil {
		return
	}
	if _, err := m.Apply(string(KindOff), Params{}); err != nil {
		log.Printf("vibration: initial off: %v", err)
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
