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
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/scitix/clbench/consts"
	"github.com/scitix/clbench/internal/launcher"
)

const metricPrefix = "clbench"

// WriteRunMetrics renders one run's telemetry in Prometheus textfile
// format into the run output directory, so a node-exporter textfile
// collector (or a human) can pick it up. No server is involved.
func WriteRunMetrics(run *launcher.Run, res *launcher.Result) (string, error) {
	nodeName, err := os.Hostname()
	if err != nil {
		nodeName = "unknown"
	}
	labels := prometheus.Labels{"run": run.Name, "node": nodeName}

	reg := prometheus.NewRegistry()
	gauges := map[string]float64{
		"run_duration_seconds": res.Duration.Seconds(),
		"run_exit_code":        float64(res.ExitCode),
		"tp_size":              float64(run.TPSize),
		"pp_size":              float64(run.PPSize),
		"world_size":           float64(run.WorldSize),
		"batch_size":           float64(run.BatchSize),
		"micro_batch_size":     float64(run.MicroBatch),
		"zero_level":           float64(run.ZeroLevel),
		"max_steps":            float64(run.MaxSteps),
	}
	for name, value := range gauges {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_%s", metricPrefix, name),
		}, []string{"run", "node"})
		if err := reg.Register(g); err != nil {
			return "", fmt.Errorf("failed to register metric %s: %w", name, err)
		}
		g.With(labels).Set(value)
	}

	if err := os.MkdirAll(run.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(run.OutputDir, consts.RunMetricsFile)
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return "", fmt.Errorf("failed to write run metrics: %w", err)
	}
	return path, nil
}
