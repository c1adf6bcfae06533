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
	"sync/atomic"
	"time"
)

// Simulated is a tick counter driven by the test instead of by time.
// It starts at zero and only moves when told to.
type Simulated struct {
	scale Scale
	ticks atomic.Uint64
}

// NewSimulated returns a Simulated counter at zero.
func NewSimulated(scale Scale) *Simulated {
	return &Simulated{scale: scale}
}

// Ticks returns the current counter value.
func (s *Simulated) Ticks() uint64 {
	return s.ticks.Load() & s.scale.Mask()
}

// Advance moves the counter forward by n ticks.
func (s *Simulated) Advance(n uint64) {
	s.ticks.Add(n)
}

// AdvanceBy moves the counter forward by the whole ticks in d.
func (s *Simulated) AdvanceBy(d time.Duration) {
	s.ticks.Add(s.scale.Ticks(d))
}

// Set forces the counter to v. Useful for starting a test right before
// the wraparound boundary.
func (s *Simulated) Set(v uint64) {
	s.ticks.Store(v)
}

// Scale returns the counter geometry.
func (s *Simulated) Scale() Scale {
	return s.scale
}
