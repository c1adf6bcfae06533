/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package vclock turns a fixed-width, wrapping tick counter into an
unbounded wall-clock value. Clock accumulates elapsed ticks into an
absolute instant; Resync makes sure that accumulation happens at least
once per counter wraparound period even when nobody reads the clock, so
no interval is ever lost to an unobserved wraparound.
*/
package vclock

import (
	"fmt"
	"sync"
	"time"

	"github.com/virtrtc/virtrtc/rtc"
	"github.com/virtrtc/virtrtc/tick"
)

// Clock is a virtual wall clock backed by a tick counter. All state
// lives behind one mutex: the instant accurate as of the last commit and
// the counter value observed at that commit. The true current time is
// always committed time plus the duration of the ticks elapsed since,
// which is what ReadTime returns.
//
// The modular delta arithmetic is unambiguous only while at most one
// counter wraparound happens between commits; Resync maintains that
// bound when the clock is otherwise idle.
type Clock struct {
	src   tick.Source
	scale tick.Scale

	mu        sync.Mutex
	committed time.Time // accurate as of the last commit
	tickv     uint64    // counter value at the last commit
}

// New returns a Clock reading the Unix epoch, based at the counter's
// current value.
func New(src tick.Source, scale tick.Scale) *Clock {
	return &Clock{
		src:       src,
		scale:     scale,
		committed: time.Unix(0, 0).UTC(),
		tickv:     src.Ticks(),
	}
}

// commit folds the ticks elapsed since the last commit into the
// committed time and re-bases on the current counter value. Must be
// called with c.mu held. Calling it again immediately is harmless: the
// delta is zero or near zero.
func (c *Clock) commit() {
	now := c.src.Ticks()
	c.committed = c.committed.Add(c.scale.Duration(c.scale.Delta(now, c.tickv)))
	c.tickv = now
}

// commitNow commits under the lock and returns the new committed counter
// value, for the resync scheduler to derive its next deadline from.
func (c *Clock) commitNow() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit()
	return c.tickv
}

// ReadTime commits any elapsed ticks and returns the current instant.
// The instant is taken in the same lock acquisition as the commit, so a
// reader never observes a half-updated state. Returns an error wrapping
// rtc.ErrInvalidTime if the accumulated instant has run out of the
// representable range.
func (c *Clock) ReadTime() (time.Time, error) {
	c.mu.Lock()
	c.commit()
	t := c.committed
	c.mu.Unlock()
	if err := rtc.ValidInstant(t); err != nil {
		return time.Time{}, fmt.Errorf("reading clock: %w", err)
	}
	return t, nil
}

// SetTime overwrites the clock with an arbitrary instant, discarding any
// ticks not yet folded in, and re-bases on the current counter value.
// An out-of-range instant fails with rtc.ErrInvalidTime and leaves the
// clock untouched.
func (c *Clock) SetTime(t time.Time) error {
	if err := rtc.ValidInstant(t); err != nil {
		return fmt.Errorf("setting clock: %w", err)
	}
	c.mu.Lock()
	c.committed = t.UTC()
	c.tickv = c.src.Ticks()
	c.mu.Unlock()
	return nil
}

// Snapshot returns the committed instant and counter value as one
// consistent pair. It does not commit; it is a monitoring and test
// surface, not a read path.
func (c *Clock) Snapshot() (time.Time, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed, c.tickv
}

// Scale returns the counter geometry the clock accumulates against.
func (c *Clock) Scale() tick.Scale {
	return c.scale
}
