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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/scitix/clbench/consts"
	"github.com/sirupsen/logrus"
)

// Params holds the benchmark launch parameters as given on the command
// line or in the config file, before derivation.
type Params struct {
	LauncherBin  string
	TrainScript  string
	ModelPreset  string
	Plugin       string
	NprocPerNode int
	TPSize       int
	PPSize       int
	BatchSize    int
	ZeroLevel    int
	MaxSteps     int
	OMPThreads   int
	Devices      string
	OutputParent string
}

// MicroBatchSize divides the global batch across the world and the
// tensor-parallel dimension. Both divisions truncate, matching the
// benchmark's own batch split.
func MicroBatchSize(batchSize, worldSize, tpSize int) int {
	return batchSize / worldSize / tpSize
}

// RunName embeds the parallelism layout and the derived micro batch,
// e.g. colossal_tp2_pp1_mbs1_gpus4.
func RunName(tpSize, ppSize, microBatch, worldSize int) string {
	return fmt.Sprintf(consts.RunNameFormat, tpSize, ppSize, microBatch, worldSize)
}

// OutputDir joins the telemetry parent with "<run name>-<timestamp>".
func OutputDir(parent, runName string, now time.Time) string {
	return filepath.Join(parent, runName+"-"+now.Format(consts.RunTimestampLayout))
}

// Derive resolves a Params into a concrete Run. The world size is the
// per-node process count (single-node launch). A zero micro batch is
// refused: the benchmark would abort long after allocation otherwise.
func Derive(p *Params, now time.Time) (*Run, error) {
	worldSize := p.NprocPerNode
	if worldSize < 1 || p.TPSize < 1 || p.PPSize < 1 {
		return nil, fmt.Errorf("invalid parallelism layout: nproc=%d tp=%d pp=%d", worldSize, p.TPSize, p.PPSize)
	}
	microBatch := MicroBatchSize(p.BatchSize, worldSize, p.TPSize)
	if microBatch < 1 {
		return nil, fmt.Errorf("batch size %d splits to zero micro batch over %d procs with tp=%d",
			p.BatchSize, worldSize, p.TPSize)
	}
	if microBatch*worldSize*p.TPSize != p.BatchSize {
		logrus.WithFields(logrus.Fields{
			"batch_size":  p.BatchSize,
			"world_size":  worldSize,
			"tp_size":     p.TPSize,
			"micro_batch": microBatch,
		}).Warn("global batch does not split evenly, remainder is dropped")
	}
	if worldSize%(p.TPSize*p.PPSize) != 0 {
		logrus.Warnf("world size %d is not divisible by tp*pp=%d", worldSize, p.TPSize*p.PPSize)
	}

	name := RunName(p.TPSize, p.PPSize, microBatch, worldSize)
	run := &Run{
		Params:     *p,
		WorldSize:  worldSize,
		MicroBatch: microBatch,
		Name:       name,
		OutputDir:  OutputDir(p.OutputParent, name, now),
	}
	if run.Devices == "" {
		run.Devices = DefaultDeviceList(worldSize)
	}
	return run, nil
}

// DefaultDeviceList exposes devices 0..n-1, e.g. "0,1,2,3" for n=4.
func DefaultDeviceList(n int) string {
	if n <= 0 {
		return ""
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return strings.Join(ids, ",")
}
