package render

import "quakenav/internal/app/ports"

// Multi forwards each frame to every renderer in order.
type Multi []ports.Renderer

func (m Multi) Render(frame ports.Frame) {
	for _, r := range m {
		if r != nil {
			r.Render(frame)
		}
	}
}

var _ ports.Renderer = Multi(nil)
