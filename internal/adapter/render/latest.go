package render

import (
	"sync"

	"quakenav/internal/app/ports"
)

// Latest keeps the most recent frame for polling readers.
type Latest struct {
	mu    sync.RWMutex
	frame ports.Frame
	ok    bool
}

func NewLatest() *Latest {
	return &Latest{}
}

func (l *Latest) Render(frame ports.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frame = frame
	l.ok = true
}

func (l *Latest) Frame() (ports.Frame, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame, l.ok
}

var _ ports.Renderer = (*Latest)(nil)
