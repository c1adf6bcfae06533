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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/virtrtc/virtrtc/tick"
)

// fakeTimer records deadlines and lets the test fire them by hand.
type fakeTimer struct {
	mu        sync.Mutex
	target    uint64
	f         func()
	scheduled int
	stops     int
}

func (t *fakeTimer) ScheduleAt(target uint64, f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.target = target
	t.f = f
	t.scheduled++
}

func (t *fakeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.f = nil
	t.stops++
}

// fire simulates the counter reaching the armed deadline.
func (t *fakeTimer) fire() {
	t.mu.Lock()
	f := t.f
	t.mu.Unlock()
	if f != nil {
		f()
	}
}

func (t *fakeTimer) lastTarget() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

func TestStartArmsBeforeWraparound(t *testing.T) {
	src := tick.NewSimulated(testScale)
	src.Set(1000)
	c := New(src, testScale)
	timer := &fakeTimer{}
	r := NewResync(c, timer)

	require.False(t, r.Armed())
	r.Start()
	require.True(t, r.Armed())
	// deadline is one tick short of coming back around to the committed value
	require.Equal(t, uint64(999), timer.lastTarget())
	require.Equal(t, 1, timer.scheduled)

	// second Start is a no-op
	r.Start()
	require.Equal(t, 1, timer.scheduled)
}

func TestFiringCommitsAndRearms(t *testing.T) {
	src := tick.NewSimulated(testScale)
	c := New(src, testScale)
	timer := &fakeTimer{}
	r := NewResync(c, timer)
	r.Start()

	src.Advance(500)
	timer.fire()

	committed, tickv := c.Snapshot()
	require.Equal(t, int64(5*time.Second), committed.UnixNano())
	require.Equal(t, uint64(500), tickv)
	require.Equal(t, uint64(499), timer.lastTarget())
	require.Equal(t, 2, timer.scheduled)
	require.True(t, r.Armed())
}

func TestStopCancels(t *testing.T) {
	src := tick.NewSimulated(testScale)
	c := New(src, testScale)
	timer := &fakeTimer{}
	r := NewResync(c, timer)
	r.Start()
	r.Stop()

	require.False(t, r.Armed())
	require.Equal(t, 1, timer.stops)

	// a firing that races past the timer's own Stop commits nothing
	src.Advance(1000)
	before, beforeTick := c.Snapshot()
	r.onTickElapsed()
	after, afterTick := c.Snapshot()
	require.Equal(t, before.UnixNano(), after.UnixNano())
	require.Equal(t, beforeTick, afterTick)

	// Stop on an idle scheduler is a no-op
	r.Stop()
	require.Equal(t, 1, timer.stops)
}

func TestIdleResyncKeepsUpAcrossWraparounds(t *testing.T) {
	src := tick.NewSimulated(testScale)
	c := New(src, testScale)
	timer := &fakeTimer{}
	r := NewResync(c, timer)
	r.Start()

	// nobody reads the clock; the periodic firing alone must carry it
	// across several full counter periods without losing an interval
	step := testScale.Mask() // one tick short of a full period
	for i := 1; i <= 5; i++ {
		src.Advance(step)
		timer.fire()
		committed, tickv := c.Snapshot()
		require.Equal(t, int64(testScale.Duration(step))*int64(i), committed.UnixNano())
		require.Equal(t, uint64(0), testScale.Delta(src.Ticks(), tickv))
	}
}

func TestNotifyCountsFirings(t *testing.T) {
	src := tick.NewSimulated(testScale)
	c := New(src, testScale)
	timer := &fakeTimer{}
	r := NewResync(c, timer)
	var fired int64
	r.Notify = func() { atomic.AddInt64(&fired, 1) }

	r.Start()
	require.Equal(t, int64(0), atomic.LoadInt64(&fired))
	timer.fire()
	timer.fire()
	require.Equal(t, int64(2), atomic.LoadInt64(&fired))
}

func TestConcurrentReadersAndFirings(t *testing.T) {
	src := tick.NewSimulated(testScale)
	c := New(src, testScale)
	timer := &fakeTimer{}
	r := NewResync(c, timer)
	r.Start()

	stop := make(chan struct{})
	firingDone := make(chan struct{})
	go func() {
		defer close(firingDone)
		for {
			select {
			case <-stop:
				return
			default:
				src.Advance(5)
				timer.fire()
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := int64(0)
			for j := 0; j < 300; j++ {
				got, err := c.ReadTime()
				require.NoError(t, err)
				require.GreaterOrEqual(t, got.UnixNano(), prev)
				prev = got.UnixNano()
			}
		}()
	}
	wg.Wait()
	close(stop)
	<-firingDone
	r.Stop()
}
