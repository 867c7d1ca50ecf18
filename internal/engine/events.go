package engine

import (
	"sync"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

const defaultEventBuffer = 256

// publisher fans engine events into a buffered channel without ever
// blocking the polling loop. Events that do not fit are dropped.
type publisher struct {
	mu     sync.Mutex
	ch     chan domain.Event
	closed bool
}

func newPublisher(size int) *publisher {
	if size <= 0 {
		size = defaultEventBuffer
	}
	return &publisher{ch: make(chan domain.Event, size)}
}

func (p *publisher) publish(ev domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.ch <- ev:
	default:
		metrics.EventsDroppedTotal.Inc()
	}
}

func (p *publisher) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.ch)
	}
}
