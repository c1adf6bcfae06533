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

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONStatsCounters(t *testing.T) {
	s := NewJSONStats()
	s.IncReads()
	s.IncReads()
	s.IncSets()
	s.IncInvalidTime()
	s.IncResyncs()
	s.SetClockTime(123)
	s.SetTickDelta(7)

	m := s.toMap()
	require.Equal(t, int64(2), m["reads"])
	require.Equal(t, int64(1), m["sets"])
	require.Equal(t, int64(1), m["invalid_time"])
	require.Equal(t, int64(1), m["resyncs"])
	require.Equal(t, int64(123), m["clock_time"])
	require.Equal(t, int64(7), m["tick_delta"])
}

func TestJSONStatsHandler(t *testing.T) {
	s := NewJSONStats()
	s.IncReads()

	w := httptest.NewRecorder()
	s.handleRequest(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	m := map[string]int64{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Equal(t, int64(1), m["reads"])
}

func TestPrometheusStats(t *testing.T) {
	s := NewPrometheusStats()
	s.IncReads()
	s.IncSets()
	s.IncInvalidTime()
	s.IncResyncs()
	s.SetClockTime(1000)
	s.SetTickDelta(42)

	mfs, err := s.registry.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				values[mf.GetName()] = m.GetCounter().GetValue()
			} else if m.GetGauge() != nil {
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	require.Equal(t, float64(1), values["virtrtc_reads_total"])
	require.Equal(t, float64(1), values["virtrtc_sets_total"])
	require.Equal(t, float64(1), values["virtrtc_invalid_time_total"])
	require.Equal(t, float64(1), values["virtrtc_resyncs_total"])
	require.Equal(t, float64(1000), values["virtrtc_clock_time_ns"])
	require.Equal(t, float64(42), values["virtrtc_tick_delta"])
}

func TestNoopStats(t *testing.T) {
	// nothing to assert beyond it not blowing up
	s := NoopStats{}
	s.IncReads()
	s.IncSets()
	s.IncInvalidTime()
	s.IncResyncs()
	s.SetClockTime(0)
	s.SetTickDelta(0)
	s.Start(0)
}
