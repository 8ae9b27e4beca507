package session

import (
	"sync"
	"time"
)

// WindowProbe reports whether the external payment window is still
// alive. In the browser flow this was a window.closed poll; the
// service-side equivalent is fed by client heartbeats.
type WindowProbe interface {
	Closed() bool
}

// WindowOpener opens the external payment window for a donate URL and
// hands back the probe watching it. An error means the window could
// not be opened at all (the popup-blocked case).
type WindowOpener interface {
	Open(url string) (WindowProbe, error)
}

// heartbeatProbe treats the window as closed once no heartbeat has
// arrived within ttl, or once the client explicitly reported closure.
type heartbeatProbe struct {
	mu       sync.Mutex
	lastBeat time.Time
	closed   bool
	ttl      time.Duration
	now      func() time.Time
}

func newHeartbeatProbe(ttl time.Duration) *heartbeatProbe {
	p := &heartbeatProbe{
		ttl: ttl,
		now: time.Now,
	}
	p.lastBeat = p.now()
	return p
}

func (p *heartbeatProbe) Beat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastBeat = p.now()
}

func (p *heartbeatProbe) MarkClosed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *heartbeatProbe) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return true
	}
	return p.now().Sub(p.lastBeat) > p.ttl
}

type heartbeatOpener struct {
	ttl time.Duration
}

func NewHeartbeatOpener(ttl time.Duration) *heartbeatOpener {
	return &heartbeatOpener{ttl: ttl}
}

func (o *heartbeatOpener) Open(_ string) (WindowProbe, error) {
	return newHeartbeatProbe(o.ttl), nil
}
