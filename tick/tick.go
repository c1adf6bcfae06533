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
Package tick models the host tick counter: a free-running, fixed-width
counter that increments at a known rate and wraps to zero after running
through its full range. It provides the modular arithmetic needed to
measure elapsed ticks across a wraparound, a counter source backed by the
Go monotonic clock, a simulated source for tests, and a one-shot timer
that fires when the counter reaches a target value.
*/
package tick

import (
	"fmt"
	"time"
)

// DefaultScale is a 32-bit counter with a 10ms tick, the same shape as a
// HZ=100 jiffies counter. Wraparound period is about 497 days.
var DefaultScale = Scale{Width: 32, PerTick: 10 * time.Millisecond}

// Scale describes the geometry of a tick counter: how wide it is and how
// much wall-clock time one tick represents.
type Scale struct {
	Width   uint          // counter width in bits, between 1 and 64
	PerTick time.Duration // duration of a single tick
}

// Validate checks that the scale describes a usable counter.
func (s Scale) Validate() error {
	if s.Width < 1 || s.Width > 64 {
		return fmt.Errorf("tick counter width %d is not between 1 and 64", s.Width)
	}
	if s.PerTick <= 0 {
		return fmt.Errorf("tick interval %v is not positive", s.PerTick)
	}
	return nil
}

// Mask returns the bitmask covering the counter's full range.
func (s Scale) Mask() uint64 {
	if s.Width >= 64 {
		return ^uint64(0)
	}
	return 1<<s.Width - 1
}

// Delta returns now - then in counter units. The subtraction is modular
// over the counter width, so a single wraparound between then and now is
// absorbed transparently. If more than one full period has elapsed the
// result is ambiguous; keeping commits more frequent than the wraparound
// period is the caller's job.
func (s Scale) Delta(now, then uint64) uint64 {
	return (now - then) & s.Mask()
}

// Sub returns v - n in counter units, wrapping below zero.
func (s Scale) Sub(v, n uint64) uint64 {
	return (v - n) & s.Mask()
}

// Duration converts a tick count to wall-clock duration.
func (s Scale) Duration(ticks uint64) time.Duration {
	return time.Duration(ticks) * s.PerTick
}

// Ticks converts a duration to whole ticks, truncating the remainder.
func (s Scale) Ticks(d time.Duration) uint64 {
	return uint64(d / s.PerTick)
}

// WrapPeriod returns the time the counter takes to run through its full
// range and return to the same value.
func (s Scale) WrapPeriod() time.Duration {
	if s.Width >= 64 {
		// Saturates; a 64-bit nanosecond-scale counter outlives the process.
		return time.Duration(1<<63 - 1)
	}
	return s.Duration(s.Mask() + 1)
}

// Source is a live tick counter. Ticks returns the current counter value,
// already masked to the scale's width. Implementations must be safe for
// concurrent use.
type Source interface {
	Ticks() uint64
}

// SystemSource derives the tick counter from the Go monotonic clock,
// quantized to the scale's tick interval and masked to its width. The
// counter starts near zero at construction time.
type SystemSource struct {
	scale Scale
	base  time.Time
}

// NewSystemSource returns a SystemSource counting from now.
func NewSystemSource(scale Scale) *SystemSource {
	return &SystemSource{scale: scale, base: time.Now()}
}

// Ticks returns the current counter value.
func (s *SystemSource) Ticks() uint64 {
	return s.scale.Ticks(time.Since(s.base)) & s.scale.Mask()
}

// Scale returns the counter geometry.
func (s *SystemSource) Scale() Scale {
	return s.scale
}
