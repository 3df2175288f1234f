// Package sched runs the node's processes cooperatively on one goroutine.
//
// Every tick each registered process gets exactly one Update call, in
// registration order. Work that completes on other goroutines (scan
// completions, upload responses) is handed in through Post and runs on the
// scheduler goroutine between updates, so processes never need locks.
package sched

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
)

// DefaultMailboxLen bounds pending out-of-band completions.
const DefaultMailboxLen = 16

// Mailbox accepts work to be run on the scheduler goroutine.
type Mailbox interface {
	Post(fn func()) bool
}

// Scheduler owns the process table and the event bus.
type Scheduler struct {
	bus     *bus.Bus
	procs   []bus.Process
	mailbox chan func()
	setup   bool
	ticks   uint64
}

// New creates a Scheduler dispatching on b.
func New(b *bus.Bus, mailboxLen int) *Scheduler {
	if mailboxLen <= 0 {
		mailboxLen = DefaultMailboxLen
	}
	return &Scheduler{
		bus:     b,
		mailbox: make(chan func(), mailboxLen),
	}
}

// Bus returns the scheduler's event bus.
func (s *Scheduler) Bus() *bus.Bus { return s.bus }

// Register adds processes to the tick table. Processes registered after
// Setup are set up immediately.
func (s *Scheduler) Register(procs ...bus.Process) {
	for _, p := range procs {
		if p == nil {
			continue
		}
		s.procs = append(s.procs, p)
		if s.setup {
			p.Setup(s.bus)
		}
	}
}

// Setup calls Setup on every registered process once.
func (s *Scheduler) Setup() {
	if s.setup {
		return
	}
	s.setup = true
	for _, p := range s.procs {
		p.Setup(s.bus)
	}
}

// Post queues fn to run on the scheduler goroutine. It is safe to call from
// any goroutine and never blocks; it returns false if the mailbox is full.
func (s *Scheduler) Post(fn func()) bool {
	select {
	case s.mailbox <- fn:
		return true
	default:
		log.Printf("sched: mailbox full, dropping completion")
		return false
	}
}

// Send queues fn to run on the scheduler goroutine, waiting for room in
// the mailbox until ctx is done.
func (s *Scheduler) Send(ctx context.Context, fn func()) error {
	select {
	case s.mailbox <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs pending mailbox work, then one Update per process.
func (s *Scheduler) Tick() {
	s.Setup()
	s.drain()
	for _, p := range s.procs {
		p.Update()
	}
	s.ticks++
}

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

func (s *Scheduler) drain() {
	for {
		select {
		case fn := <-s.mailbox:
			fn()
		default:
			return
		}
	}
}

// Run ticks on every value from tick and runs mailbox work as it arrives,
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, tick <-chan time.Time) error {
	s.Setup()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-s.mailbox:
			fn()
		case <-tick:
			s.Tick()
		}
	}
}
