// Package button watches the maintenance button and asks the node to
// enter maintenance mode when it is pressed.
package button

import (
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/debounce"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/gpio"
	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Watcher samples the button every tick and calls OnPress once per
// debounced press.
type Watcher struct {
	in      gpio.Input
	deb     *debounce.Debouncer
	clock   timer.Clock
	onPress func()

	readFailed bool
}

// NewWatcher creates a Watcher over in with the given debounce window.
func NewWatcher(in gpio.Input, clock timer.Clock, window time.Duration, onPress func()) *Watcher {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if window <= 0 {
		window = debounce.DefaultWindow
	}
	return &Watcher{in: in, deb: debounce.New(window), clock: clock, onPress: onPress}
}

// Presses returns the number of debounced presses seen.
func (w *Watcher) Presses() int { return w.deb.Counts().Rising }

func (w *Watcher) Setup(*bus.Bus) {}

func (w *Watcher) Update() {
	if w.in == nil {
		return
	}
	pressed, err := w.in.Read()
	if err != nil {
		if !w.readFailed {
			log.Printf("button: read: %v", err)
			w.readFailed = true
		}
		return
	}
	w.readFailed = false

	if w.deb.Process(pressed, w.clock.Now()) == debounce.Rising {
		log.Printf("button: pressed, requesting maintenance mode")
		if w.onPress != nil {
			w.onPress()
		}
	}
}

func (w *Watcher) OnEvent(event.Event) {}
