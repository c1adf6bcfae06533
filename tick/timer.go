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

package tick

import (
	"sync"
	"time"
)

// Timer arms a one-shot callback for the moment the tick counter reaches
// a target value. ScheduleAt replaces any previously armed deadline.
// Stop disarms the pending deadline; a callback that already started
// running is not interrupted, so callers who need hard cancellation
// guarantees must gate the callback body themselves.
type Timer interface {
	ScheduleAt(target uint64, f func())
	Stop()
}

// SystemTimer implements Timer on top of time.AfterFunc, translating a
// tick target into a wall-clock delay against a live Source. The target
// is interpreted as the next time the counter reaches that value, so a
// target just behind the current counter means almost a full wraparound
// period away.
type SystemTimer struct {
	src   Source
	scale Scale

	mu    sync.Mutex
	timer *time.Timer
}

// NewSystemTimer returns a SystemTimer over the given source.
func NewSystemTimer(src Source, scale Scale) *SystemTimer {
	return &SystemTimer{src: src, scale: scale}
}

// ScheduleAt arms f to run when the counter reaches target.
func (t *SystemTimer) ScheduleAt(target uint64, f func()) {
	delay := t.scale.Duration(t.scale.Delta(target, t.src.Ticks()))
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(delay, f)
}

// Stop disarms the pending deadline, if any.
func (t *SystemTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
