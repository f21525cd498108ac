package mqtt

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/buzzer-sweep/internal/logic"
)

// ClientID is the MQTT client identifier.
const ClientID = "buzzer-sweep"

const (
	connectRetry   = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker. Connection is
// asynchronous: messages published while disconnected are buffered and
// replayed in order once the client (re)connects.
type RealPublisher struct {
	client paho.Client
	now    func() time.Time

	mu            sync.Mutex
	buf           *ringBuffer
	everConnected bool
	connected     atomic.Bool
}

// NewRealPublisher creates a publisher for the given broker and starts
// connecting in the background. It never blocks on the network.
func NewRealPublisher(broker string) *RealPublisher {
	p := newRealPublisher(time.Now)

	will, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetry).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { p.onConnectionLost(err) })

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

func newRealPublisher(now func() time.Time) *RealPublisher {
	return &RealPublisher{
		now: now,
		buf: newRingBuffer(bufferCapacity),
	}
}

// onConnect replays buffered messages and, after a reconnect, announces it.
func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	reconnect := p.everConnected
	p.everConnected = true
	p.connected.Store(true)
	pending := p.buf.drainAll()
	p.mu.Unlock()

	log.Printf("mqtt: connected (replaying %d buffered messages)", len(pending))

	for _, msg := range pending {
		if err := p.publish(msg); err != nil {
			log.Printf("mqtt: replay error: %v", err)
		}
	}

	if reconnect {
		if err := p.PublishSystem(SystemEvent{Timestamp: p.now(), Event: "RECONNECTED"}); err != nil {
			log.Printf("mqtt: reconnected publish error: %v", err)
		}
	}
}

func (p *RealPublisher) onConnectionLost(err error) {
	p.connected.Store(false)
	log.Printf("mqtt: connection lost: %v", err)
}

// publish sends msg or buffers it when offline. A failed send is buffered
// too, so it is retried on the next connect.
func (p *RealPublisher) publish(msg bufferedMsg) error {
	p.mu.Lock()
	if !p.connected.Load() {
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		p.requeue(msg)
		return fmt.Errorf("publish to %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		p.requeue(msg)
		return fmt.Errorf("publish to %s: %w", msg.topic, err)
	}
	return nil
}

func (p *RealPublisher) requeue(msg bufferedMsg) {
	p.mu.Lock()
	p.buf.push(msg)
	p.mu.Unlock()
}

// Publish sends a state transition to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	return p.publish(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// IsConnected reports whether the client currently holds a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.connected.Load()
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	if n := p.Buffered(); n > 0 {
		log.Printf("mqtt: closing with %d unsent messages", n)
	}
	p.connected.Store(false)
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
