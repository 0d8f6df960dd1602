/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"time"
)

// DefaultTickInterval is the refresh rate of running countdowns.
const DefaultTickInterval = time.Second / 30

// Channel identifies one of the two countdowns of a game.
type Channel int

const (
	ChannelQuestion Channel = iota
	ChannelFriend
)

func (c Channel) String() string {
	switch c {
	case ChannelQuestion:
		return "question"
	case ChannelFriend:
		return "friend"
	}
	return "unknown"
}

type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
	TimerPaused
	TimerExpired
)

func (s TimerState) String() string {
	switch s {
	case TimerStopped:
		return "stopped"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerExpired:
		return "expired"
	}
	return "unknown"
}

// Scheduler runs fn once after d. The returned function cancels the call and
// reports whether it was still pending. Implementations must run fn on the
// same goroutine that mutates the game.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type countdown struct {
	state     TimerState
	timeout   time.Duration
	banked    time.Duration
	startedAt time.Time
	stop      func() bool
	gen       uint64
}

// Timers drives the question and friend countdowns. At most one channel runs
// at a time: starting one pauses the other, which resumes with its banked
// elapsed time once the newer one expires or is stopped.
type Timers struct {
	sched    Scheduler
	now      func() time.Time
	interval time.Duration

	channels [2]countdown

	onProgress func(Channel, float64)
	onExpire   func(Channel)
}

type TimersConfig struct {
	Scheduler Scheduler
	Now       func() time.Time
	Interval  time.Duration

	// OnProgress receives the normalised progress of the running channel at
	// every tick.
	OnProgress func(Channel, float64)
	// OnExpire is called once when a channel runs out of time.
	OnExpire func(Channel)
}

func NewTimers(c TimersConfig) *Timers {
	t := &Timers{
		sched:      c.Scheduler,
		now:        c.Now,
		interval:   c.Interval,
		onProgress: c.OnProgress,
		onExpire:   c.OnExpire,
	}

	if t.now == nil {
		t.now = time.Now
	}
	if t.interval <= 0 {
		t.interval = DefaultTickInterval
	}
	if t.onProgress == nil {
		t.onProgress = func(Channel, float64) {}
	}
	if t.onExpire == nil {
		t.onExpire = func(Channel) {}
	}

	return t
}

func other(ch Channel) Channel {
	return 1 - ch
}

// Start runs ch from zero for timeout, pausing the other channel if it runs.
func (t *Timers) Start(ch Channel, timeout time.Duration) {
	if o := &t.channels[other(ch)]; o.state == TimerRunning {
		t.pause(other(ch))
	}

	c := &t.channels[ch]
	t.cancel(c)
	*c = countdown{
		state:     TimerRunning,
		timeout:   timeout,
		startedAt: t.now(),
		gen:       c.gen,
	}

	t.onProgress(ch, 0)
	t.schedule(ch)
}

// Stop cancels ch and resumes the other channel if it was paused.
func (t *Timers) Stop(ch Channel) {
	c := &t.channels[ch]
	wasActive := c.state == TimerRunning || c.state == TimerPaused
	t.cancel(c)
	c.state = TimerStopped
	c.banked = 0

	if wasActive {
		t.resume(other(ch))
	}
}

// Reset stops both channels without resuming anything.
func (t *Timers) Reset() {
	for i := range t.channels {
		c := &t.channels[i]
		t.cancel(c)
		c.state = TimerStopped
		c.banked = 0
	}
}

func (t *Timers) State(ch Channel) TimerState {
	return t.channels[ch].state
}

// Elapsed returns the time consumed by ch so far, paused time excluded.
func (t *Timers) Elapsed(ch Channel) time.Duration {
	c := &t.channels[ch]
	switch c.state {
	case TimerRunning:
		return c.banked + t.now().Sub(c.startedAt)
	case TimerPaused:
		return c.banked
	case TimerExpired:
		return c.timeout
	}
	return 0
}

// Progress returns the elapsed fraction of ch in [0,1].
func (t *Timers) Progress(ch Channel) float64 {
	c := &t.channels[ch]
	if c.timeout <= 0 {
		if c.state == TimerExpired {
			return 1
		}
		return 0
	}

	p := float64(t.Elapsed(ch)) / float64(c.timeout)
	return min(max(p, 0), 1)
}

func (t *Timers) pause(ch Channel) {
	c := &t.channels[ch]
	c.banked += t.now().Sub(c.startedAt)
	t.cancel(c)
	c.state = TimerPaused
}

func (t *Timers) resume(ch Channel) {
	c := &t.channels[ch]
	if c.state != TimerPaused {
		return
	}

	c.state = TimerRunning
	c.startedAt = t.now()
	t.onProgress(ch, t.Progress(ch))
	t.schedule(ch)
}

// cancel drops the pending tick of c. Bumping the generation also discards a
// tick whose callback was already queued when stop came too late.
func (t *Timers) cancel(c *countdown) {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.gen++
}

func (t *Timers) schedule(ch Channel) {
	c := &t.channels[ch]
	gen := c.gen
	c.stop = t.sched.AfterFunc(t.interval, func() {
		t.tick(ch, gen)
	})
}

func (t *Timers) tick(ch Channel, gen uint64) {
	c := &t.channels[ch]
	if c.gen != gen || c.state != TimerRunning {
		return
	}
	c.stop = nil

	elapsed := c.banked + t.now().Sub(c.startedAt)
	if elapsed < c.timeout {
		t.onProgress(ch, float64(elapsed)/float64(c.timeout))
		t.schedule(ch)
		return
	}

	c.state = TimerExpired
	c.banked = c.timeout
	c.gen++
	t.onProgress(ch, 1)
	t.onExpire(ch)
	t.resume(other(ch))
}
