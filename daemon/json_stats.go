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
	"fmt"
	"net/http"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// JSONStats is what we want to report as stats via http
type JSONStats struct {
	reads       int64
	sets        int64
	invalidTime int64
	resyncs     int64
	clockTime   int64
	tickDelta   int64
}

// NewJSONStats returns a new JSONStats
func NewJSONStats() *JSONStats {
	return &JSONStats{}
}

// Start runs http server on the monitoring port
func (s *JSONStats) Start(monitoringPort int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	addr := fmt.Sprintf(":%d", monitoringPort)
	log.Infof("Starting http json server on %s", addr)
	err := http.ListenAndServe(addr, mux)
	if err != nil {
		log.Fatalf("Failed to start listener: %v", err)
	}
}

// handleRequest is a handler used for all http monitoring requests
func (s *JSONStats) handleRequest(w http.ResponseWriter, _ *http.Request) {
	js, err := json.Marshal(s.toMap())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(js); err != nil {
		log.Errorf("Failed to reply: %v", err)
	}
}

func (s *JSONStats) toMap() map[string]int64 {
	return map[string]int64{
		"reads":        atomic.LoadInt64(&s.reads),
		"sets":         atomic.LoadInt64(&s.sets),
		"invalid_time": atomic.LoadInt64(&s.invalidTime),
		"resyncs":      atomic.LoadInt64(&s.resyncs),
		"clock_time":   atomic.LoadInt64(&s.clockTime),
		"tick_delta":   atomic.LoadInt64(&s.tickDelta),
	}
}

// IncReads atomically adds 1 to the counter
func (s *JSONStats) IncReads() {
	atomic.AddInt64(&s.reads, 1)
}

// IncSets atomically adds 1 to the counter
func (s *JSONStats) IncSets() {
	atomic.AddInt64(&s.sets, 1)
}

// IncInvalidTime atomically adds 1 to the counter
func (s *JSONStats) IncInvalidTime() {
	atomic.AddInt64(&s.invalidTime, 1)
}

// IncResyncs atomically adds 1 to the counter
func (s *JSONStats) IncResyncs() {
	atomic.AddInt64(&s.resyncs, 1)
}

// SetClockTime atomically sets the committed clock time gauge
func (s *JSONStats) SetClockTime(ns int64) {
	atomic.StoreInt64(&s.clockTime, ns)
}

// SetTickDelta atomically sets the unfolded tick gauge
func (s *JSONStats) SetTickDelta(ticks int64) {
	atomic.StoreInt64(&s.tickDelta, ticks)
}
