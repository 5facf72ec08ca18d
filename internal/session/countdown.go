package session

import (
	"context"
	"time"
)

// countdown fires expire once limit has passed unless it is stopped first.
type countdown struct {
	cancel context.CancelFunc
}

func startCountdown(limit, tick time.Duration, onTick func(time.Duration), expire func(*countdown)) *countdown {
	ctx, cancel := context.WithCancel(context.Background())
	c := &countdown{cancel: cancel}

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		remaining := limit
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining -= tick
				if remaining <= 0 {
					if ctx.Err() == nil {
						expire(c)
					}
					return
				}
				if onTick != nil {
					onTick(remaining)
				}
			}
		}
	}()
	return c
}

// Stop cancels the countdown. It does not wait, so it is safe to call while
// holding a lock that expire takes.
func (c *countdown) Stop() {
	c.cancel()
}
