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
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/virtrtc/virtrtc/tick"
)

// Metrics flavors the daemon can expose on the monitoring port.
const (
	MetricsJSON       = "json"
	MetricsPrometheus = "prometheus"
)

// Config represents configuration we expect to read from file
type Config struct {
	ListenAddr     string        // address the control API binds to
	MonitoringPort int           // port for stats, 0 disables monitoring
	TickWidth      uint          // tick counter width in bits
	TickInterval   time.Duration // duration of one tick
	InitFromHost   bool          // seed the clock from the host wall clock at startup
	Metrics        string        // "json" or "prometheus"
	StatsInterval  time.Duration // how often to refresh monitoring gauges
}

// DefaultConfig returns the config the daemon runs with when given
// nothing: the classic 32-bit, 10ms-per-tick counter.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     "localhost:9123",
		MonitoringPort: 0,
		TickWidth:      tick.DefaultScale.Width,
		TickInterval:   tick.DefaultScale.PerTick,
		InitFromHost:   true,
		Metrics:        MetricsJSON,
		StatsInterval:  time.Second,
	}
}

// Scale returns the tick counter geometry described by the config.
func (c *Config) Scale() tick.Scale {
	return tick.Scale{Width: c.TickWidth, PerTick: c.TickInterval}
}

// EvalAndValidate makes sure config is valid.
func (c *Config) EvalAndValidate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("bad config: 'listenaddr' must be specified")
	}
	if err := c.Scale().Validate(); err != nil {
		return fmt.Errorf("bad config: %w", err)
	}
	if c.Metrics != MetricsJSON && c.Metrics != MetricsPrometheus {
		return fmt.Errorf("bad config: 'metrics' must be %q or %q", MetricsJSON, MetricsPrometheus)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("bad config: 'statsinterval' must be positive")
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	err = yaml.UnmarshalStrict(data, c)
	return c, err
}
