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
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/scitix/clbench/consts"
	"github.com/sirupsen/logrus"
)

// Run is a fully derived launch: parameters plus the values computed
// from them.
type Run struct {
	Params

	WorldSize  int
	MicroBatch int
	Name       string
	OutputDir  string
}

// Args builds the command line handed to the external launcher:
//
//	colossalai run --nproc_per_node N <script> --config <model> --plugin 3d \
//	    --tp T --pp P --zero Z -b B --mbs M -s S --profile --tboard_dir DIR
func (r *Run) Args() []string {
	return []string{
		"run",
		"--nproc_per_node", strconv.Itoa(r.WorldSize),
		r.TrainScript,
		"--config", r.ModelPreset,
		"--plugin", r.Plugin,
		"--tp", strconv.Itoa(r.TPSize),
		"--pp", strconv.Itoa(r.PPSize),
		"--zero", strconv.Itoa(r.ZeroLevel),
		"-b", strconv.Itoa(r.BatchSize),
		"--mbs", strconv.Itoa(r.MicroBatch),
		"-s", strconv.Itoa(r.MaxSteps),
		"--profile",
		"--tboard_dir", r.OutputDir,
	}
}

// Env returns the variables appended to the inherited environment.
func (r *Run) Env() []string {
	return []string{
		fmt.Sprintf("%s=%d", consts.EnvOMPNumThreads, r.OMPThreads),
		fmt.Sprintf("%s=%s", consts.EnvCUDAVisibleDevices, r.Devices),
	}
}

// CommandLine renders the invocation for logging and --dry-run output.
func (r *Run) CommandLine() string {
	line := ""
	for _, kv := range r.Env() {
		line += kv + " "
	}
	line += r.LauncherBin
	for _, arg := range r.Args() {
		line += " " + arg
	}
	return line
}

// Result reports how an invocation ended.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Execute runs the external launcher synchronously with stdio passed
// through. The child's exit code is propagated in the Result; err is
// non-nil only when the child could not be started or timed out.
func (r *Run) Execute(ctx context.Context) (*Result, error) {
	command := exec.CommandContext(ctx, r.LauncherBin, r.Args()...)
	command.Env = append(os.Environ(), r.Env()...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	logrus.WithFields(logrus.Fields{
		"run":         r.Name,
		"output_dir":  r.OutputDir,
		"micro_batch": r.MicroBatch,
	}).Infof("launching: %s", r.CommandLine())

	start := time.Now()
	err := command.Run()
	res := &Result{Duration: time.Since(start)}

	if err == nil {
		return res, nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = 1
		return res, fmt.Errorf("benchmark `%s` timed out after %s", r.Name, res.Duration.Round(time.Second))
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = 1
	return res, fmt.Errorf("failed to start launcher `%s`: %w", r.LauncherBin, err)
}
