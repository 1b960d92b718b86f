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
package consts

const (
	ServiceName = "clbench"

	/*---------------------launcher defaults--------------------*/
	DefaultLauncherBin  = "colossalai"
	DefaultTrainScript  = "/workspace/ColossalAI/examples/language/gpt/gemini/train_gpt_demo.py"
	DefaultModelPreset  = "gpt2_10b"
	DefaultPlugin       = "3d"
	DefaultNprocPerNode = 4
	DefaultTPSize       = 2
	DefaultPPSize       = 1
	DefaultBatchSize    = 8
	DefaultZeroLevel    = 1
	DefaultMaxSteps     = 10
	DefaultOMPThreads   = 8

	/*---------------------run artifacts------------------------*/
	DefaultTelemetryParent = "/var/log/clbench/runs"
	RunNameFormat          = "colossal_tp%d_pp%d_mbs%d_gpus%d"
	RunTimestampLayout     = "20060102-150405"
	RunMetricsFile         = "metrics.prom"

	/*---------------------child environment--------------------*/
	EnvOMPNumThreads      = "OMP_NUM_THREADS"
	EnvCUDAVisibleDevices = "CUDA_VISIBLE_DEVICES"

	/*---------------------config file--------------------------*/
	ConfigDirName  = ".clbench"
	ConfigFileName = "config.yaml"
	EnvPrefix      = "clbench"

	/*---------------------terminal colors----------------------*/
	Red   = "\033[31m"
	Green = "\033[32m"
	Reset = "\033[0m"
)
