package controller

import (
	"sync"
	"time"
)

// Banner shows a message and hides it again after a fixed duration.
// Showing a new message restarts the countdown.
type Banner struct {
	mu         sync.Mutex
	duration   time.Duration
	timer      *time.Timer
	generation int
	show       func(string)
	hide       func()
}

func NewBanner(duration time.Duration, show func(string), hide func()) *Banner {
	return &Banner{
		duration: duration,
		show:     show,
		hide:     hide,
	}
}

func (b *Banner) Show(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.generation++
	generation := b.generation

	b.show(message)
	b.timer = time.AfterFunc(b.duration, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// A stopped timer may already have fired; only the latest one hides.
		if b.generation == generation {
			b.hide()
		}
	})
}

// Stop cancels a pending hide.
func (b *Banner) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.generation++
}
