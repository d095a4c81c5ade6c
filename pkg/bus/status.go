package bus

import (
	"sync"
	"time"
)

// StatusNotifier invokes a callback with the elapsed time at a
// throttled interval while a long remote call is in flight. This lets
// the channel refresh a "processing" message without excessive
// Telegram API edits.
type StatusNotifier struct {
	mu       sync.Mutex
	started  time.Time
	onUpdate func(elapsed time.Duration)
	ticker   *time.Ticker
	done     chan struct{}
	stopped  bool
}

// NewStatusNotifier starts a notifier that calls onUpdate every
// interval until Stop is called.
func NewStatusNotifier(interval time.Duration, onUpdate func(elapsed time.Duration)) *StatusNotifier {
	sn := &StatusNotifier{
		started:  time.Now(),
		onUpdate: onUpdate,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}

	go sn.loop()
	return sn
}

func (sn *StatusNotifier) loop() {
	for {
		select {
		case <-sn.ticker.C:
			sn.onUpdate(time.Since(sn.started))
		case <-sn.done:
			return
		}
	}
}

// Stop halts updates. Safe to call more than once.
func (sn *StatusNotifier) Stop() {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	if sn.stopped {
		return
	}
	sn.stopped = true
	sn.ticker.Stop()
	close(sn.done)
}

// Elapsed returns the time since the notifier was started.
func (sn *StatusNotifier) Elapsed() time.Duration {
	return time.Since(sn.started)
}
