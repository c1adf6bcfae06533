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

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/virtrtc/virtrtc/daemon"
)

const pprofHTTP = "localhost:6060"

func main() {
	c := daemon.DefaultConfig()

	var (
		configFile string
		debugger   bool
		logLevel   string
	)

	flag.StringVar(&configFile, "config", "", "Path to a yaml config. Flags override values from file")
	flag.StringVar(&logLevel, "loglevel", "info", "Set a log level. Can be: debug, info, warning, error")
	flag.StringVar(&c.ListenAddr, "listenaddr", c.ListenAddr, "Address to serve the control API on")
	flag.IntVar(&c.MonitoringPort, "monitoringport", c.MonitoringPort, "Port to run monitoring server on, 0 to disable")
	flag.UintVar(&c.TickWidth, "tickwidth", c.TickWidth, "Tick counter width in bits")
	flag.DurationVar(&c.TickInterval, "tickinterval", c.TickInterval, "Duration of a single tick")
	flag.BoolVar(&c.InitFromHost, "initfromhost", c.InitFromHost, "Seed the clock from the host wall clock at startup")
	flag.StringVar(&c.Metrics, "metrics", c.Metrics, fmt.Sprintf("Monitoring flavor. Can be: %s, %s", daemon.MetricsJSON, daemon.MetricsPrometheus))
	flag.BoolVar(&debugger, "pprof", false, "Enable pprof")

	flag.Parse()

	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Fatalf("Unrecognized log level: %v", logLevel)
	}

	if configFile != "" {
		fromFile, err := daemon.ReadConfig(configFile)
		if err != nil {
			log.Fatalf("Failed to read config %q: %v", configFile, err)
		}
		// explicitly set flags win over file values
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "listenaddr":
				fromFile.ListenAddr = c.ListenAddr
			case "monitoringport":
				fromFile.MonitoringPort = c.MonitoringPort
			case "tickwidth":
				fromFile.TickWidth = c.TickWidth
			case "tickinterval":
				fromFile.TickInterval = c.TickInterval
			case "initfromhost":
				fromFile.InitFromHost = c.InitFromHost
			case "metrics":
				fromFile.Metrics = c.Metrics
			}
		})
		c = fromFile
	}

	if err := c.EvalAndValidate(); err != nil {
		log.Fatalf("Config is invalid: %v", err)
	}

	if debugger {
		log.Warningf("Starting profiler on %s", pprofHTTP)
		go func() {
			log.Println(http.ListenAndServe(pprofHTTP, nil))
		}()
	}

	var st daemon.Stats = daemon.NoopStats{}
	if c.MonitoringPort != 0 {
		switch c.Metrics {
		case daemon.MetricsPrometheus:
			st = daemon.NewPrometheusStats()
		default:
			st = daemon.NewJSONStats()
		}
		go st.Start(c.MonitoringPort)
	}

	s := daemon.NewServer(c, st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigStop := make(chan os.Signal, 1)
	signal.Notify(sigStop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	go func() {
		sig := <-sigStop
		log.Infof("Got signal %v, shutting down", sig)
		cancel()
	}()

	if err := s.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
