// Package motion samples the accelerometer and aggregates tilt and
// movement into per-interval statistics.
package motion

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/timer"
)

// DefaultSampleInterval is how often the sensor is read.
const DefaultSampleInterval = 100 * time.Millisecond

// ErrNoSensor is returned when no accelerometer answers on the bus.
var ErrNoSensor = errors.New("motion: accelerometer not found")

// Accelerometer reports acceleration on three axes in g.
type Accelerometer interface {
	Acceleration() (x, y, z float64, err error)
}

// Aggregator accumulates samples for the current interval and exposes the
// previous interval's statistics once latched by PrepareForNextInterval.
// A nil sensor is allowed: the node then reports zero motion.
type Aggregator struct {
	sensor Accelerometer
	sample timer.Timer

	sumXZ     float64
	sumYZ     float64
	deviation float64
	count     int

	latched    event.Movement
	readFailed bool
}

// NewAggregator creates an aggregator reading sensor every interval.
func NewAggregator(sensor Accelerometer, clock timer.Clock, interval time.Duration) *Aggregator {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Aggregator{sensor: sensor, sample: timer.New(clock, interval)}
}

// Setup starts the sampling timer.
func (a *Aggregator) Setup(*bus.Bus) {
	if a.sensor == nil {
		log.Printf("motion: no accelerometer, reporting zero movement")
	}
	a.sample.Reset()
}

// Update takes one sample when the sampling timer has elapsed.
func (a *Aggregator) Update() {
	if a.sensor == nil || !a.sample.CheckAndReset() {
		return
	}
	x, y, z, err := a.sensor.Acceleration()
	if err != nil {
		if !a.readFailed {
			log.Printf("motion: read: %v", err)
			a.readFailed = true
		}
		return
	}
	a.readFailed = false
	a.Record(x, y, z)
}

// OnEvent is unused.
func (a *Aggregator) OnEvent(event.Event) {}

// Record adds one sample in g to the live accumulators.
func (a *Aggregator) Record(x, y, z float64) {
	a.sumXZ += math.Atan2(x, z) * 180 / math.Pi
	a.sumYZ += math.Atan2(y, z) * 180 / math.Pi
	a.deviation += math.Abs(math.Sqrt(x*x+y*y+z*z) - 1)
	a.count++
}

// PrepareForNextInterval latches the current interval's statistics and
// zeroes the accumulators. With no samples the latched values are zero.
func (a *Aggregator) PrepareForNextInterval() event.Movement {
	m := event.Movement{Samples: a.count}
	if a.count > 0 {
		n := float64(a.count)
		m.AvgAngleXZ = a.sumXZ / n
		m.AvgAngleYZ = a.sumYZ / n
		m.TotalMovement = a.deviation
	}
	a.latched = m
	a.sumXZ, a.sumYZ, a.deviation, a.count = 0, 0, 0, 0
	return m
}

// Latched returns the statistics of the last completed interval.
func (a *Aggregator) Latched() event.Movement { return a.latched }

// Pending returns the number of samples in the current interval.
func (a *Aggregator) Pending() int { return a.count }

// FakeAccelerometer returns scripted readings.
type FakeAccelerometer struct {
	X, Y, Z float64
	Err     error
	Reads   int
}

func (f *FakeAccelerometer) Acceleration() (float64, float64, float64, error) {
	f.Reads++
	if f.Err != nil {
		return 0, 0, 0, f.Err
	}
	return f.X, f.Y, f.Z, nil
}
