package check

import (
	"sync"

	"github.com/hamed0406/geocheck/internal/domain"
)

type subscribers struct {
	mu     sync.Mutex
	m      map[int]chan domain.CheckAttempt
	next   int
	closed bool
}

// publish never blocks; a subscriber whose buffer is full misses the event
// and is expected to re-read the list.
func (s *subscribers) publish(a domain.CheckAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.m {
		select {
		case ch <- a:
		default:
		}
	}
}

func (s *subscribers) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.m {
		close(ch)
		delete(s.m, id)
	}
	s.closed = true
}

// Subscribe returns a channel receiving every created or resolved attempt,
// plus a func to stop the subscription. The channel is closed on cancel or
// Shutdown.
func (o *Orchestrator) Subscribe(buffer int) (<-chan domain.CheckAttempt, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.CheckAttempt, buffer)

	s := &o.subs
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.next
	s.next++
	s.m[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.m[id]; ok {
				close(c)
				delete(s.m, id)
			}
		})
	}
}
