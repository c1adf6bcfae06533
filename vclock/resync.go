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

package vclock

import (
	"sync"

	"github.com/virtrtc/virtrtc/tick"
)

// Resync is the periodic commit driver. After every commit it arms a
// one-shot deadline at committed tick minus one, i.e. one tick short of the
// counter coming back around to the committed value, which is the latest
// moment a commit can still measure the elapsed interval unambiguously.
// If the clock was read or set in between, the firing commits a small
// delta and pushes the deadline out again; either way the clock never
// goes a full wraparound period without a commit.
type Resync struct {
	clock *Clock
	timer tick.Timer

	// Notify, when non-nil, runs after every automatic commit. Set it
	// before Start; it is used for counting firings in monitoring and
	// must be cheap.
	Notify func()

	mu    sync.Mutex
	armed bool
}

// NewResync returns a Resync for the given clock. It does not arm
// anything until Start.
func NewResync(c *Clock, t tick.Timer) *Resync {
	return &Resync{clock: c, timer: t}
}

// Start commits once to establish a fresh base and arms the first
// deadline. Calling Start on an already armed Resync does nothing.
func (r *Resync) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.armed {
		return
	}
	r.armed = true
	r.rearm(r.clock.commitNow())
}

// Stop disarms the pending deadline. Both Stop and the firing serialize
// on r.mu, so Stop cannot return while a firing is mid-commit, and a
// firing that was already in flight but had not yet checked the armed
// flag will see it cleared and do nothing. Once Stop returns, no further
// automatic commit happens until the next Start.
func (r *Resync) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.armed {
		return
	}
	r.armed = false
	r.timer.Stop()
}

// Armed reports whether a future firing is scheduled.
func (r *Resync) Armed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armed
}

// onTickElapsed is the periodic callback body: commit, then reschedule
// just short of the counter wrapping back to the committed value.
func (r *Resync) onTickElapsed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.armed {
		return
	}
	r.rearm(r.clock.commitNow())
	if r.Notify != nil {
		r.Notify()
	}
}

// rearm must be called with r.mu held.
func (r *Resync) rearm(committed uint64) {
	r.timer.ScheduleAt(r.clock.scale.Sub(committed, 1), r.onTickElapsed)
}
