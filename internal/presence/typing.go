package presence

import (
	"sync"
	"time"
)

// DefaultTypingDecay is how long the typing label survives without a fresh
// typing event.
const DefaultTypingDecay = 1500 * time.Millisecond

// TypingIndicator shows at most one "user is typing" label. Each typing
// event supersedes the previous one and restarts the decay timer; when the
// timer fires the label clears. Events never queue.
type TypingIndicator struct {
	mu    sync.Mutex
	label string
	timer *time.Timer
	decay time.Duration
}

// NewTypingIndicator constructs an indicator with the given decay window;
// zero selects DefaultTypingDecay.
func NewTypingIndicator(decay time.Duration) *TypingIndicator {
	if decay <= 0 {
		decay = DefaultTypingDecay
	}
	return &TypingIndicator{decay: decay}
}

// Bump records a typing event for username: the label switches to the last
// sender and the decay deadline restarts.
func (t *TypingIndicator) Bump(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.label = username
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.decay, t.expire)
}

func (t *TypingIndicator) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.label = ""
	t.timer = nil
}

// Current returns the active label, if any.
func (t *TypingIndicator) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.label, t.label != ""
}

// Reset cancels the timer and clears the label, used on room switch.
func (t *TypingIndicator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.label = ""
}
