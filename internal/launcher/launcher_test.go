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
package launcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRun() *Run {
	return &Run{
		Params: Params{
			LauncherBin: "colossalai",
			TrainScript: "/workspace/train_gpt_demo.py",
			ModelPreset: "gpt2_10b",
			Plugin:      "3d",
			TPSize:      2,
			PPSize:      1,
			BatchSize:   8,
			ZeroLevel:   1,
			MaxSteps:    10,
			OMPThreads:  8,
			Devices:     "0,1,2,3",
		},
		WorldSize:  4,
		MicroBatch: 1,
		Name:       "colossal_tp2_pp1_mbs1_gpus4",
		OutputDir:  "/var/log/clbench/runs/colossal_tp2_pp1_mbs1_gpus4-20241105-131415",
	}
}

func TestRunArgs(t *testing.T) {
	run := testRun()
	require.Equal(t, []string{
		"run",
		"--nproc_per_node", "4",
		"/workspace/train_gpt_demo.py",
		"--config", "gpt2_10b",
		"--plugin", "3d",
		"--tp", "2",
		"--pp", "1",
		"--zero", "1",
		"-b", "8",
		"--mbs", "1",
		"-s", "10",
		"--profile",
		"--tboard_dir", "/var/log/clbench/runs/colossal_tp2_pp1_mbs1_gpus4-20241105-131415",
	}, run.Args())
}

func TestRunEnv(t *testing.T) {
	run := testRun()
	require.Equal(t, []string{
		"OMP_NUM_THREADS=8",
		"CUDA_VISIBLE_DEVICES=0,1,2,3",
	}, run.Env())
}

func TestRunCommandLine(t *testing.T) {
	run := testRun()
	line := run.CommandLine()
	require.Contains(t, line, "OMP_NUM_THREADS=8 CUDA_VISIBLE_DEVICES=0,1,2,3 colossalai run")
	require.Contains(t, line, "--tboard_dir "+run.OutputDir)
}

func TestExecutePropagatesExitCode(t *testing.T) {
	run := testRun()
	run.LauncherBin = "false"
	run.Params.TrainScript = "ignored"

	res, err := run.Execute(context.Background())
	require.NoError(t, err)
	require.NotZero(t, res.ExitCode)
}

func TestExecuteSuccess(t *testing.T) {
	run := testRun()
	run.LauncherBin = "true"

	res, err := run.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
}

func TestExecuteMissingLauncher(t *testing.T) {
	run := testRun()
	run.LauncherBin = "definitely-not-a-real-launcher"

	res, err := run.Execute(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, res.ExitCode)
}

func TestExecuteTimeout(t *testing.T) {
	run := testRun()
	run.LauncherBin = "true"
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	_, err := run.Execute(ctx)
	require.Error(t, err)
}
