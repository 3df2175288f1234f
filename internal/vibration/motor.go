package vibration

// Motor is the output handle for the vibration motor. Duty is 0 (off) to
// 255 (full).
type Motor interface {
	SetDuty(duty uint8) error
}

// Switch is an on/off output line, such as a GPIO pin driving the motor
// through a transistor.
type Switch interface {
	Set(on bool) error
}

// LineMotor drives a motor from a plain on/off line: any non-zero duty
// turns it on.
type LineMotor struct {
	Line Switch

	on    bool
	known bool
}

// SetDuty switches the line, skipping writes that would not change it.
func (m *LineMotor) SetDuty(duty uint8) error {
	on := duty > 0
	if m.known && m.on == on {
		return nil
	}
	if err := m.Line.Set(on); err != nil {
		m.known = false
		return err
	}
	m.on, m.known = on, true
	return nil
}

// FakeMotor records duty writes for test assertions.
type FakeMotor struct {
	// Duty is the last duty written.
	Duty uint8

	// Writes holds every duty written, in order.
	Writes []uint8

	// Err, if set, is returned by SetDuty after recording.
	Err error
}

// SetDuty records the write.
func (f *FakeMotor) SetDuty(duty uint8) error {
	f.Writes = append(f.Writes, duty)
	if f.Err != nil {
		return f.Err
	}
	f.Duty = duty
	return nil
}
