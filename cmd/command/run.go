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
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scitix/clbench/config"
	"github.com/scitix/clbench/consts"
	"github.com/scitix/clbench/internal/launcher"
	"github.com/scitix/clbench/metrics"
	"github.com/scitix/clbench/pkg/gpu"
	"github.com/scitix/clbench/pkg/utils"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	var (
		devices    string
		dryRun     bool
		timeoutSec int
	)

	p := &launcher.Params{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Derive launch parameters and run the training benchmark",
		Long: `Usage: clbench run [flags]

Computes the micro batch size (batch / nproc / tp, truncating), names the
run after the parallelism layout, creates a timestamped telemetry directory
under the output parent, and execs the ColossalAI launcher with the derived
command line. The benchmark's exit status becomes clbench's exit status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ConfigFilePath())
			if err != nil {
				return err
			}
			applyConfig(cmd, p, cfg)
			p.Devices = devices

			if p.OMPThreads == 0 {
				p.OMPThreads = autoOMPThreads(p.NprocPerNode)
			}
			if needsRootWarning(p.OutputParent, utils.IsRoot()) {
				logrus.Warnf("telemetry parent %s may require root to create", p.OutputParent)
			}

			run, err := launcher.Derive(p, time.Now())
			if err != nil {
				return err
			}
			checkDeviceVisibility(run)

			if dryRun {
				fmt.Println(run.CommandLine())
				return nil
			}

			ctx := context.Background()
			if timeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}

			res, err := run.Execute(ctx)
			// telemetry is written for failed launches too: a timed-out
			// run still has a duration and exit code worth keeping
			if path, merr := metrics.WriteRunMetrics(run, res); merr != nil {
				logrus.Warnf("failed to write run metrics: %v", merr)
			} else {
				logrus.Infof("run metrics written to %s", path)
			}
			if err != nil {
				logrus.Errorf("benchmark launch failed: %v", err)
				RunExitCode = res.ExitCode
				return nil
			}
			printRunSummary(run, res)
			RunExitCode = res.ExitCode
			return nil
		},
	}

	flags := runCmd.Flags()
	flags.IntVar(&p.TPSize, "tp", consts.DefaultTPSize, "Tensor parallel size")
	flags.IntVar(&p.PPSize, "pp", consts.DefaultPPSize, "Pipeline parallel size")
	flags.IntVar(&p.NprocPerNode, "nproc-per-node", consts.DefaultNprocPerNode, "Processes (GPUs) to launch on this node")
	flags.IntVarP(&p.BatchSize, "batch-size", "b", consts.DefaultBatchSize, "Global batch size")
	flags.IntVar(&p.ZeroLevel, "zero", consts.DefaultZeroLevel, "ZeRO optimizer sharding level")
	flags.IntVarP(&p.MaxSteps, "steps", "s", consts.DefaultMaxSteps, "Training steps to run")
	flags.IntVar(&p.OMPThreads, "omp-threads", consts.DefaultOMPThreads, "OMP_NUM_THREADS hint (0 = cores/nproc)")
	flags.StringVar(&p.LauncherBin, "launcher-bin", consts.DefaultLauncherBin, "Path to the colossalai launcher")
	flags.StringVar(&p.TrainScript, "script", consts.DefaultTrainScript, "Training benchmark script")
	flags.StringVar(&p.ModelPreset, "model", consts.DefaultModelPreset, "Model preset passed as --config")
	flags.StringVar(&p.Plugin, "plugin", consts.DefaultPlugin, "Booster plugin (parallelism mode)")
	flags.StringVar(&p.OutputParent, "output-dir", consts.DefaultTelemetryParent, "Parent directory for run telemetry")
	flags.StringVar(&devices, "devices", "", "CUDA_VISIBLE_DEVICES list (default 0..nproc-1)")
	flags.IntVar(&timeoutSec, "timeout", 0, "Timeout for the benchmark in seconds (0 = none)")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the derived command line without running it")

	return runCmd
}

// applyConfig layers the config file under the flags: a flag the user
// did not set on the command line takes its value from the file.
func applyConfig(cmd *cobra.Command, p *launcher.Params, cfg *config.LaunchConfig) {
	fromConfig := map[string]func(){
		"tp":             func() { p.TPSize = cfg.TPSize },
		"pp":             func() { p.PPSize = cfg.PPSize },
		"nproc-per-node": func() { p.NprocPerNode = cfg.NprocPerNode },
		"batch-size":     func() { p.BatchSize = cfg.BatchSize },
		"zero":           func() { p.ZeroLevel = cfg.ZeroLevel },
		"steps":          func() { p.MaxSteps = cfg.MaxSteps },
		"omp-threads":    func() { p.OMPThreads = cfg.OMPThreads },
		"launcher-bin":   func() { p.LauncherBin = cfg.LauncherBin },
		"script":         func() { p.TrainScript = cfg.TrainScript },
		"model":          func() { p.ModelPreset = cfg.ModelPreset },
		"plugin":         func() { p.Plugin = cfg.Plugin },
		"output-dir":     func() { p.OutputParent = cfg.OutputParent },
	}
	for name, apply := range fromConfig {
		if !cmd.Flags().Changed(name) {
			apply()
		}
	}
}

// needsRootWarning reports whether creating the telemetry parent is
// likely to fail for an unprivileged user.
func needsRootWarning(parent string, isRoot bool) bool {
	return !isRoot && strings.HasPrefix(parent, "/var/log")
}

// autoOMPThreads spreads the physical cores over the local processes.
func autoOMPThreads(nproc int) int {
	cores, err := cpu.Counts(false)
	if err != nil || nproc <= 0 {
		return consts.DefaultOMPThreads
	}
	threads := cores / nproc
	if threads < 1 {
		threads = 1
	}
	return threads
}

// checkDeviceVisibility warns when the visibility list names more
// devices than NVML can see. Best effort: nodes without GPUs (or
// without the driver) still dry-run.
func checkDeviceVisibility(run *launcher.Run) {
	inv, err := gpu.Collect()
	if err != nil {
		logrus.Debugf("skipping device visibility check: %v", err)
		return
	}
	visible := len(strings.Split(run.Devices, ","))
	if visible > len(inv.Devices) {
		logrus.Warnf("visibility list %q names %d devices but only %d present",
			run.Devices, visible, len(inv.Devices))
	}
}

func printRunSummary(run *launcher.Run, res *launcher.Result) {
	utils.PrintTitle("Benchmark Summary", "-")
	status := fmt.Sprintf("%s%s%s", consts.Green, "PASS", consts.Reset)
	if res.ExitCode != 0 {
		status = fmt.Sprintf("%s%s%s", consts.Red, "FAIL", consts.Reset)
	}
	fmt.Printf(" - run        : %s\n", run.Name)
	fmt.Printf(" - status     : %s (exit %d)\n", status, res.ExitCode)
	fmt.Printf(" - duration   : %s\n", res.Duration.Round(time.Second))
	fmt.Printf(" - telemetry  : %s\n", run.OutputDir)
}
