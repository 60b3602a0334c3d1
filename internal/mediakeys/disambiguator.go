package mediakeys

import (
	"context"
	"sync"
	"time"
)

// Key is the class of a raw media-button press. Dedicated next/previous keys
// carry the press weight of the gesture they stand for, so a single
// KeyNext press resolves like a double tap of the play/pause button.
type Key int

const (
	KeyPlayPause Key = iota
	KeyNext
	KeyPrevious
)

func (k Key) presses() int {
	switch k {
	case KeyNext:
		return 2
	case KeyPrevious:
		return 3
	default:
		return 1
	}
}

func (k Key) String() string {
	switch k {
	case KeyPlayPause:
		return "play_pause"
	case KeyNext:
		return "next"
	case KeyPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// Intent is the disambiguated gesture emitted for a press cluster.
type Intent int

const (
	IntentNone Intent = iota
	IntentSingle
	IntentDouble
	IntentTriple
)

func (i Intent) String() string {
	switch i {
	case IntentSingle:
		return "single"
	case IntentDouble:
		return "double"
	case IntentTriple:
		return "triple"
	default:
		return "none"
	}
}

// pressCap is the cluster size that resolves immediately without waiting for
// the timeout.
const pressCap = 3

type outcome struct {
	intent Intent
	ok     bool
}

// Disambiguator groups repeated presses into one intent per cluster.
type Disambiguator struct {
	timeout time.Duration

	mu      sync.Mutex
	pending int
	gen     uint64
	timer   *time.Timer
	waiters []chan outcome
}

// New returns a disambiguator using the given cluster timeout.
func New(timeout time.Duration) *Disambiguator {
	if timeout <= 0 {
		timeout = 400 * time.Millisecond
	}
	return &Disambiguator{timeout: timeout}
}

// Tap records a press and blocks until the press's cluster resolves. It
// returns the cluster intent, or ok=false when a later press superseded this
// caller or ctx expired first.
func (d *Disambiguator) Tap(ctx context.Context, key Key) (Intent, bool) {
	wait := make(chan outcome, 1)

	d.mu.Lock()
	d.pending += key.presses()
	d.waiters = append(d.waiters, wait)
	if d.pending >= pressCap {
		d.resolveLocked(IntentTriple)
	} else {
		d.restartTimerLocked()
	}
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return IntentNone, false
	case out := <-wait:
		return out.intent, out.ok
	}
}

// restartTimerLocked arms a fresh deadline for the current cluster. The
// generation counter invalidates any previously scheduled expiry.
func (d *Disambiguator) restartTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.timeout, func() { d.expire(gen) })
}

func (d *Disambiguator) expire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		// A newer press re-armed the deadline; this expiry lost the race.
		return
	}
	switch d.pending {
	case 1:
		d.resolveLocked(IntentSingle)
	case 2:
		d.resolveLocked(IntentDouble)
	default:
		d.resolveLocked(IntentNone)
	}
}

// resolveLocked emits the intent to the most recent waiter and releases all
// superseded ones, then resets to idle.
func (d *Disambiguator) resolveLocked(intent Intent) {
	for i, wait := range d.waiters {
		if i == len(d.waiters)-1 && intent != IntentNone {
			wait <- outcome{intent: intent, ok: true}
		} else {
			wait <- outcome{}
		}
	}
	d.waiters = nil
	d.pending = 0
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
