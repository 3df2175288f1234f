package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// DefaultBufferSize bounds messages held while the broker is unreachable.
const DefaultBufferSize = 64

// RealPublisher publishes to an actual MQTT broker. Messages produced while
// disconnected are held in a ring buffer and replayed on reconnect.
type RealPublisher struct {
	client   paho.Client
	deviceID string

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher starts connecting to the broker in the background and
// returns immediately; the client keeps retrying until Close.
func NewRealPublisher(broker, deviceID string) *RealPublisher {
	p := &RealPublisher{
		deviceID: deviceID,
		buf:      newRingBuffer(DefaultBufferSize),
	}

	will, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "connection lost"})
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("beacon-scanner-"+deviceID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(SystemTopic(deviceID), string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.replay() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// PublishReport mirrors a report. QoS 0, not retained, never waits.
func (p *RealPublisher) PublishReport(payload []byte) error {
	return p.send(bufferedMsg{topic: ReportTopic(p.deviceID), payload: payload}, 0)
}

// PublishSystem sends a system lifecycle event. Retained events (startup,
// shutdown) wait for the broker acknowledgement.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	var wait time.Duration
	if event.Retained {
		wait = 5 * time.Second
	}
	return p.send(bufferedMsg{
		topic:    SystemTopic(p.deviceID),
		payload:  payload,
		qos:      1,
		retained: event.Retained,
	}, wait)
}

func (p *RealPublisher) send(msg bufferedMsg, wait time.Duration) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if wait <= 0 {
		return nil
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

func (p *RealPublisher) replay() {
	p.mu.Lock()
	msgs, dropped := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		log.Printf("mqtt: connected")
		return
	}
	for _, m := range msgs {
		p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	log.Printf("mqtt: connected, replayed %d buffered messages (%d dropped)", len(msgs), dropped)
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
