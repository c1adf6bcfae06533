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
Package daemon registers a virtual RTC device and exposes it over a
small HTTP control API: GET /time and POST /time are the read_time and
set_time entry points, GET /state is the inspection surface used by
monitoring and by virtrtcheck. The clock itself lives in vclock; the
daemon only wires it to the host tick counter, the resync timer, the
stats sink and the listener.
*/
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/virtrtc/virtrtc/rtc"
	"github.com/virtrtc/virtrtc/tick"
	"github.com/virtrtc/virtrtc/vclock"
)

// TimePayload is the wire form of a clock reading. On reads both fields
// are filled in; on sets unixnano wins when non-zero, otherwise the
// broken-down rtc form is used.
type TimePayload struct {
	UnixNano int64    `json:"unixnano"`
	RTC      rtc.Time `json:"rtc"`
}

// StatePayload is the wire form of the clock's internal state.
type StatePayload struct {
	CommittedUnixNano int64  `json:"committed_unixnano"`
	CommittedTick     uint64 `json:"committed_tick"`
	CurrentTick       uint64 `json:"current_tick"`
	Armed             bool   `json:"armed"`
	TickWidth         uint   `json:"tick_width"`
	TickIntervalNs    int64  `json:"tick_interval_ns"`
}

// Server owns the virtual RTC device for the lifetime of the daemon.
type Server struct {
	Config *Config
	Stats  Stats

	clock  *vclock.Clock
	resync *vclock.Resync
	src    tick.Source
	http   *http.Server
}

// NewServer wires a Server over the host tick counter.
func NewServer(cfg *Config, st Stats) *Server {
	src := tick.NewSystemSource(cfg.Scale())
	return NewServerWithSource(cfg, st, src, tick.NewSystemTimer(src, cfg.Scale()))
}

// NewServerWithSource wires a Server over an arbitrary counter source
// and timer. Tests use it with a simulated counter.
func NewServerWithSource(cfg *Config, st Stats, src tick.Source, timer tick.Timer) *Server {
	clk := vclock.New(src, cfg.Scale())
	rs := vclock.NewResync(clk, timer)
	rs.Notify = st.IncResyncs
	return &Server{
		Config: cfg,
		Stats:  st,
		clock:  clk,
		resync: rs,
		src:    src,
	}
}

// Start registers the device and serves the control API until ctx is
// done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s.Config.InitFromHost {
		if err := s.clock.SetTime(time.Now()); err != nil {
			return fmt.Errorf("seeding clock from host: %w", err)
		}
	}
	s.resync.Start()
	scale := s.Config.Scale()
	log.Infof("Registered virtual rtc: %d bit counter, %v per tick, wraparound every %v", scale.Width, scale.PerTick, scale.WrapPeriod())

	mux := http.NewServeMux()
	mux.HandleFunc("/time", s.handleTime)
	mux.HandleFunc("/state", s.handleState)

	ln, err := net.Listen("tcp", s.Config.ListenAddr)
	if err != nil {
		s.resync.Stop()
		return fmt.Errorf("starting control listener: %w", err)
	}
	log.Infof("Starting control listener on %s", s.Config.ListenAddr)
	s.http = &http.Server{Handler: mux}

	go s.runStatsLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		errc <- s.http.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errc:
		s.resync.Stop()
		return err
	}
}

// Stop tears the device down: cancels the periodic resync, then closes
// the listener. After Stop returns the clock only moves on explicit
// reads and sets.
func (s *Server) Stop() {
	s.resync.Stop()
	if s.http != nil {
		if err := s.http.Close(); err != nil {
			log.Errorf("Closing control listener: %v", err)
		}
	}
}

// runStatsLoop refreshes the monitoring gauges periodically.
func (s *Server) runStatsLoop(ctx context.Context) {
	t := time.NewTicker(s.Config.StatsInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			committed, tickv := s.clock.Snapshot()
			s.Stats.SetClockTime(committed.UnixNano())
			s.Stats.SetTickDelta(int64(s.clock.Scale().Delta(s.src.Ticks(), tickv)))
		}
	}
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.readTime(w)
	case http.MethodPost:
		s.setTime(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) readTime(w http.ResponseWriter) {
	t, err := s.clock.ReadTime()
	if err != nil {
		s.Stats.IncInvalidTime()
		log.Errorf("read_time: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.Stats.IncReads()
	writeJSON(w, TimePayload{UnixNano: t.UnixNano(), RTC: rtc.FromTime(t)})
}

func (s *Server) setTime(w http.ResponseWriter, r *http.Request) {
	p := TimePayload{}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}
	var target time.Time
	if p.UnixNano != 0 {
		target = time.Unix(0, p.UnixNano).UTC()
	} else {
		if err := p.RTC.Valid(); err != nil {
			s.Stats.IncInvalidTime()
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		target = p.RTC.Time()
	}
	if err := s.clock.SetTime(target); err != nil {
		s.Stats.IncInvalidTime()
		log.Errorf("set_time: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.Stats.IncSets()
	log.Infof("Clock set to %v", target)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	committed, tickv := s.clock.Snapshot()
	scale := s.clock.Scale()
	writeJSON(w, StatePayload{
		CommittedUnixNano: committed.UnixNano(),
		CommittedTick:     tickv,
		CurrentTick:       s.src.Ticks(),
		Armed:             s.resync.Armed(),
		TickWidth:         scale.Width,
		TickIntervalNs:    int64(scale.PerTick),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	js, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(js); err != nil {
		log.Errorf("Failed to reply: %v", err)
	}
}
