package led

import (
	"fmt"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Registry holds one reusable instance per behavior kind. An instance is
// allocated on its kind's first activation and reused after that.
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

// Lookup returns the instance for the named kind.
func (r *Registry) Lookup(name string) (Behavior, error) {
	k := Kind(name)
	if b, ok := r.instances[k]; ok {
		return b, nil
	}

	var b Behavior
	switch k {
	case KindOff:
		b = &Off{base: base{clock: r.clock}}
	case KindSolid:
		b = &Solid{base: base{clock: r.clock}}
	case KindBreathing:
		b = newBreathing(r.clock)
	case KindHeartBeat:
		b = newHeartBeat(r.clock)
	case KindCycle:
		b = newCycle(r.clock)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	r.instances[k] = b
	return b, nil
}

// Allocated returns how many kinds have been instantiated.
func (r *Registry) Allocated() int { return len(r.instances) }
