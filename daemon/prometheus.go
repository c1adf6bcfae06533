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
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PrometheusStats exposes the same counters and gauges as JSONStats in
// prometheus format on /metrics.
type PrometheusStats struct {
	registry *prometheus.Registry

	reads       prometheus.Counter
	sets        prometheus.Counter
	invalidTime prometheus.Counter
	resyncs     prometheus.Counter
	clockTime   prometheus.Gauge
	tickDelta   prometheus.Gauge
}

// NewPrometheusStats creates a new instance of PrometheusStats with all
// collectors registered.
func NewPrometheusStats() *PrometheusStats {
	s := &PrometheusStats{
		registry:    prometheus.NewRegistry(),
		reads:       prometheus.NewCounter(prometheus.CounterOpts{Name: "virtrtc_reads_total", Help: "Number of read_time calls served"}),
		sets:        prometheus.NewCounter(prometheus.CounterOpts{Name: "virtrtc_sets_total", Help: "Number of set_time calls served"}),
		invalidTime: prometheus.NewCounter(prometheus.CounterOpts{Name: "virtrtc_invalid_time_total", Help: "Number of out-of-range time failures"}),
		resyncs:     prometheus.NewCounter(prometheus.CounterOpts{Name: "virtrtc_resyncs_total", Help: "Number of periodic resync commits"}),
		clockTime:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "virtrtc_clock_time_ns", Help: "Committed clock time, unix nanoseconds"}),
		tickDelta:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "virtrtc_tick_delta", Help: "Ticks elapsed since the last commit"}),
	}
	s.registry.MustRegister(s.reads, s.sets, s.invalidTime, s.resyncs, s.clockTime, s.tickDelta)
	return s
}

// Start runs the prometheus listener on the monitoring port
func (s *PrometheusStats) Start(monitoringPort int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	addr := fmt.Sprintf(":%d", monitoringPort)
	log.Infof("Starting prometheus server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// IncReads adds 1 to the counter
func (s *PrometheusStats) IncReads() {
	s.reads.Inc()
}

// IncSets adds 1 to the counter
func (s *PrometheusStats) IncSets() {
	s.sets.Inc()
}

// IncInvalidTime adds 1 to the counter
func (s *PrometheusStats) IncInvalidTime() {
	s.invalidTime.Inc()
}

// IncResyncs adds 1 to the counter
func (s *PrometheusStats) IncResyncs() {
	s.resyncs.Inc()
}

// SetClockTime sets the committed clock time gauge
func (s *PrometheusStats) SetClockTime(ns int64) {
	s.clockTime.Set(float64(ns))
}

// SetTickDelta sets the unfolded tick gauge
func (s *PrometheusStats) SetTickDelta(ticks int64) {
	s.tickDelta.Set(float64(ticks))
}
