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

package daemon

// Stats is a stats server interface
type Stats interface {
	// IncReads atomically adds 1 to the read counter
	IncReads()
	// IncSets atomically adds 1 to the set counter
	IncSets()
	// IncInvalidTime atomically adds 1 to the out-of-range failure counter
	IncInvalidTime()
	// IncResyncs atomically adds 1 to the periodic commit counter
	IncResyncs()
	// SetClockTime reports the committed clock time, unix nanoseconds
	SetClockTime(ns int64)
	// SetTickDelta reports ticks elapsed since the last commit
	SetTickDelta(ticks int64)
	// Start runs the stats server on the given port
	Start(monitoringPort int)
}

// NoopStats discards everything. Used when monitoring is disabled and in
// tests that don't care.
type NoopStats struct{}

// IncReads does nothing
func (NoopStats) IncReads() {}

// IncSets does nothing
func (NoopStats) IncSets() {}

// IncInvalidTime does nothing
func (NoopStats) IncInvalidTime() {}

// IncResyncs does nothing
func (NoopStats) IncResyncs() {}

// SetClockTime does nothing
func (NoopStats) SetClockTime(_ int64) {}

// SetTickDelta does nothing
func (NoopStats) SetTickDelta(_ int64) {}

// Start does nothing
func (NoopStats) Start(_ int) {}
