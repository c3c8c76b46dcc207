package watch

import (
	"context"
	"time"
)

// DefaultDelay is used when Debounce is given a non-positive delay.
const DefaultDelay = 100 * time.Millisecond

// Debounce coalesces bursts from in. An event is emitted once no further
// event has arrived for delay; its Op combines every operation in the
// burst. The returned channel closes when ctx is done or in closes.
func Debounce(ctx context.Context, in <-chan Event, delay time.Duration) <-chan Event {
	if delay <= 0 {
		delay = DefaultDelay
	}

	out := make(chan Event)
	go func() {
		defer close(out)

		timer := time.NewTimer(delay)
		timer.Stop()
		defer timer.Stop()

		var (
			pending Event
			waiting bool
		)

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-in:
				if !ok {
					return
				}
				if waiting {
					ev.Op |= pending.Op
				}
				pending, waiting = ev, true
				timer.Reset(delay)

			case <-timer.C:
				if !waiting {
					continue
				}
				select {
				case out <- pending:
				case <-ctx.Done():
					return
				}
				waiting = false
			}
		}
	}()
	return out
}
