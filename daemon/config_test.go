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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().EvalAndValidate())
}

func TestEvalAndValidate(t *testing.T) {
	c := DefaultConfig()
	c.ListenAddr = ""
	require.Error(t, c.EvalAndValidate())

	c = DefaultConfig()
	c.TickWidth = 0
	require.Error(t, c.EvalAndValidate())

	c = DefaultConfig()
	c.TickInterval = 0
	require.Error(t, c.EvalAndValidate())

	c = DefaultConfig()
	c.Metrics = "statsd"
	require.Error(t, c.EvalAndValidate())

	c = DefaultConfig()
	c.StatsInterval = 0
	require.Error(t, c.EvalAndValidate())
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virtrtcd.yaml")
	config := `listenaddr: ":8889"
tickwidth: 24
tickinterval: 1ms
initfromhost: false
metrics: prometheus
`
	require.NoError(t, os.WriteFile(path, []byte(config), 0644))

	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":8889", c.ListenAddr)
	require.Equal(t, uint(24), c.TickWidth)
	require.Equal(t, time.Millisecond, c.TickInterval)
	require.False(t, c.InitFromHost)
	require.Equal(t, MetricsPrometheus, c.Metrics)
	// untouched keys keep their defaults
	require.Equal(t, time.Second, c.StatsInterval)
	require.NoError(t, c.EvalAndValidate())
}

func TestReadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virtrtcd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nosuchkey: 1\n"), 0644))
	_, err := ReadConfig(path)
	require.Error(t, err)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfigScale(t *testing.T) {
	c := DefaultConfig()
	s := c.Scale()
	require.Equal(t, uint(32), s.Width)
	require.Equal(t, 10*time.Millisecond, s.PerTick)
}
