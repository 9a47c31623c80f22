package client

import (
	"sync"
	"time"
)

// Banner lifetimes.
const (
	MessageTTL = 3500 * time.Millisecond
	ErrorTTL   = 5 * time.Second
)

// Feedback holds the transient message and error banners. Each banner clears
// itself after its TTL; setting a new value restarts the countdown.
type Feedback struct {
	MessageTTL time.Duration
	ErrorTTL   time.Duration

	mu      sync.Mutex
	message banner
	err     banner
}

type banner struct {
	text  string
	gen   int
	timer *time.Timer
}

// NewFeedback returns banners with the default lifetimes.
func NewFeedback() *Feedback {
	return &Feedback{MessageTTL: MessageTTL, ErrorTTL: ErrorTTL}
}

// SetMessage shows text in the message banner.
func (f *Feedback) SetMessage(text string) { f.set(&f.message, text, f.MessageTTL) }

// SetError shows text in the error banner.
func (f *Feedback) SetError(text string) { f.set(&f.err, text, f.ErrorTTL) }

// Message returns the visible message banner, or "".
func (f *Feedback) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message.text
}

// Error returns the visible error banner, or "".
func (f *Feedback) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err.text
}

// Clear removes both banners immediately.
func (f *Feedback) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message.reset()
	f.err.reset()
}

func (f *Feedback) set(b *banner, text string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b.reset()
	if text == "" {
		return
	}
	b.text = text
	gen := b.gen
	b.timer = time.AfterFunc(ttl, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// A newer value owns the banner now.
		if b.gen == gen {
			b.text = ""
			b.timer = nil
		}
	})
}

func (b *banner) reset() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.text = ""
	b.gen++
}
