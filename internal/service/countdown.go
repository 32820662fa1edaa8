package service

import (
	"sync"
	"time"
)

// Countdown ticks a fixed number of seconds down to zero and fires onExpire
// exactly once. The tick interval is injectable so tests don't wait wall
// seconds; production uses one logical second per tick.
//
// Construction and start are separate steps: the ticking goroutine only
// launches on Start, so the owner can publish the Countdown (store it in a
// field) before any callback can run.
type Countdown struct {
	seconds  int
	tick     time.Duration
	onTick   func(remaining int)
	onExpire func()

	stop     chan struct{}
	stopOnce sync.Once
}

// NewCountdown builds a countdown without starting it. onTick receives the
// remaining second count after each tick; onExpire fires when it hits zero.
func NewCountdown(seconds int, tick time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	return &Countdown{
		seconds:  seconds,
		tick:     tick,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

// Start launches the ticking goroutine. Call once.
func (c *Countdown) Start() {
	go c.run()
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	remaining := c.seconds
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining--
			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining <= 0 {
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
		}
	}
}

// Stop halts the countdown without firing onExpire. Safe to call repeatedly
// and safe to call after expiry.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
