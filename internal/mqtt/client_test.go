package mqtt

import (
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken completes immediately unless it simulates a timeout.
type fakeToken struct {
	err     error
	timeout bool
}

func (t fakeToken) Wait() bool                     { return !t.timeout }
func (t fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t fakeToken) Error() error                   { return t.err }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.timeout {
		close(ch)
	}
	return ch
}

// fakeClient records publishes in place of a broker connection.
type fakeClient struct {
	mu      sync.Mutex
	msgs    []bufferedMsg
	err     error
	timeout bool
	closed  bool
}

var _ paho.Client = (*fakeClient)(nil)

func newTestPublisher() (*RealPublisher, *fakeClient) {
	c := &fakeClient{}
	p := newRealPublisher(func() time.Time { return time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC) })
	p.client = c
	return p, c
}

func (c *fakeClient) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *fakeClient) setTimeout(v bool) {
	c.mu.Lock()
	c.timeout = v
	c.mu.Unlock()
}

func (c *fakeClient) sent() []bufferedMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bufferedMsg(nil), c.msgs...)
}

func (c *fakeClient) disconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeClient) IsConnected() bool      { return true }
func (c *fakeClient) IsConnectionOpen() bool { return true }
func (c *fakeClient) Connect() paho.Token    { return fakeToken{} }

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil || c.timeout {
		return fakeToken{err: c.err, timeout: c.timeout}
	}
	c.msgs = append(c.msgs, bufferedMsg{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return fakeToken{}
}

func (c *fakeClient) Subscribe(string, byte, paho.MessageHandler) paho.Token {
	return fakeToken{}
}

func (c *fakeClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return fakeToken{}
}

func (c *fakeClient) Unsubscribe(...string) paho.Token        { return fakeToken{} }
func (c *fakeClient) AddRoute(string, paho.MessageHandler)    {}
func (c *fakeClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
