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

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scitix/clbench/internal/launcher"
	"github.com/stretchr/testify/require"
)

func TestWriteRunMetrics(t *testing.T) {
	run := &launcher.Run{
		Params: launcher.Params{
			TPSize:    2,
			PPSize:    1,
			BatchSize: 8,
			ZeroLevel: 1,
			MaxSteps:  10,
		},
		WorldSize:  4,
		MicroBatch: 1,
		Name:       "colossal_tp2_pp1_mbs1_gpus4",
		OutputDir:  filepath.Join(t.TempDir(), "colossal_tp2_pp1_mbs1_gpus4-20241105-131415"),
	}
	res := &launcher.Result{ExitCode: 0, Duration: 90 * time.Second}

	path, err := WriteRunMetrics(run, res)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(run.OutputDir, "metrics.prom"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "clbench_run_duration_seconds")
	require.Contains(t, content, "clbench_micro_batch_size")
	require.Contains(t, content, `run="colossal_tp2_pp1_mbs1_gpus4"`)
}

func TestWriteRunMetricsCreatesDir(t *testing.T) {
	run := &launcher.Run{
		Name:      "colossal_tp1_pp1_mbs8_gpus1",
		OutputDir: filepath.Join(t.TempDir(), "nested", "colossal_tp1_pp1_mbs8_gpus1-20241105-131415"),
	}
	res := &launcher.Result{ExitCode: 2, Duration: time.Second}

	path, err := WriteRunMetrics(run, res)
	require.NoError(t, err)
	require.FileExists(t, path)
}
