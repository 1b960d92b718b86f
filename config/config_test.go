/*
Copyright 2024 The Scitix Authors.

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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultLaunchConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := "tp_size: 4\nbatch_size: 256\nlauncher_bin: /opt/conda/bin/colossalai\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.TPSize)
	require.Equal(t, 256, cfg.BatchSize)
	require.Equal(t, "/opt/conda/bin/colossalai", cfg.LauncherBin)
	// untouched keys keep their defaults
	require.Equal(t, DefaultLaunchConfig().PPSize, cfg.PPSize)
	require.Equal(t, DefaultLaunchConfig().MaxSteps, cfg.MaxSteps)
}

func TestSaveRoundTrip(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := DefaultLaunchConfig()
	want.TPSize = 8
	want.OutputParent = "/data/runs"
	require.NoError(t, want.Save(configFile))

	got, err := Load(configFile)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadEnvOverridesWithoutConfigFile(t *testing.T) {
	t.Setenv("CLBENCH_TP_SIZE", "4")
	t.Setenv("CLBENCH_LAUNCHER_BIN", "/usr/local/bin/colossalai")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, 4, cfg.TPSize)
	require.Equal(t, "/usr/local/bin/colossalai", cfg.LauncherBin)
	require.Equal(t, DefaultLaunchConfig().PPSize, cfg.PPSize)
}

func TestLoadEnvOverridesConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("tp_size: 2\nbatch_size: 64\n"), 0644))
	t.Setenv("CLBENCH_TP_SIZE", "4")

	cfg, err := Load(configFile)
	require.NoError(t, err)
	// env beats the file; untouched file keys still apply
	require.Equal(t, 4, cfg.TPSize)
	require.Equal(t, 64, cfg.BatchSize)
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("tp_size: [oops"), 0644))

	_, err := Load(configFile)
	require.Error(t, err)
}
