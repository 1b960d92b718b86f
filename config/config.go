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
	"fmt"
	"os"
	"path/filepath"

	"github.com/scitix/clbench/consts"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LaunchConfig carries the configurable launch defaults. Command-line
// flags override these; these override the built-in defaults.
type LaunchConfig struct {
	LauncherBin  string `json:"launcher_bin" yaml:"launcher_bin" mapstructure:"launcher_bin"`
	TrainScript  string `json:"train_script" yaml:"train_script" mapstructure:"train_script"`
	ModelPreset  string `json:"model_preset" yaml:"model_preset" mapstructure:"model_preset"`
	Plugin       string `json:"plugin" yaml:"plugin" mapstructure:"plugin"`
	NprocPerNode int    `json:"nproc_per_node" yaml:"nproc_per_node" mapstructure:"nproc_per_node"`
	TPSize       int    `json:"tp_size" yaml:"tp_size" mapstructure:"tp_size"`
	PPSize       int    `json:"pp_size" yaml:"pp_size" mapstructure:"pp_size"`
	BatchSize    int    `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
	ZeroLevel    int    `json:"zero_level" yaml:"zero_level" mapstructure:"zero_level"`
	MaxSteps     int    `json:"max_steps" yaml:"max_steps" mapstructure:"max_steps"`
	OMPThreads   int    `json:"omp_threads" yaml:"omp_threads" mapstructure:"omp_threads"`
	OutputParent string `json:"output_parent" yaml:"output_parent" mapstructure:"output_parent"`
}

// Keys lists every config file key, in display order.
var Keys = []string{
	"launcher_bin",
	"train_script",
	"model_preset",
	"plugin",
	"nproc_per_node",
	"tp_size",
	"pp_size",
	"batch_size",
	"zero_level",
	"max_steps",
	"omp_threads",
	"output_parent",
}

// DefaultLaunchConfig returns the built-in defaults, matching the
// benchmark's own demo invocation.
func DefaultLaunchConfig() *LaunchConfig {
	return &LaunchConfig{
		LauncherBin:  consts.DefaultLauncherBin,
		TrainScript:  consts.DefaultTrainScript,
		ModelPreset:  consts.DefaultModelPreset,
		Plugin:       consts.DefaultPlugin,
		NprocPerNode: consts.DefaultNprocPerNode,
		TPSize:       consts.DefaultTPSize,
		PPSize:       consts.DefaultPPSize,
		BatchSize:    consts.DefaultBatchSize,
		ZeroLevel:    consts.DefaultZeroLevel,
		MaxSteps:     consts.DefaultMaxSteps,
		OMPThreads:   consts.DefaultOMPThreads,
		OutputParent: consts.DefaultTelemetryParent,
	}
}

// ConfigFilePath is ~/.clbench/config.yaml.
func ConfigFilePath() string {
	return filepath.Join(os.Getenv("HOME"), consts.ConfigDirName, consts.ConfigFileName)
}

// Load reads the config file through viper, layered over the defaults,
// with CLBENCH_* environment variables on top. A missing file is not an
// error: the defaults (plus env) are returned.
func Load(configFile string) (*LaunchConfig, error) {
	cfg := DefaultLaunchConfig()

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetEnvPrefix(consts.EnvPrefix)
	// bind every key: Unmarshal only visits known keys, so env-only
	// values (CLBENCH_TP_SIZE=4 with no file) are lost otherwise
	for _, key := range Keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
		}
		// fall through: env bindings still apply without a file
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}
	return cfg, nil
}

// Save writes the config as yaml, creating the config dir when needed.
func (c *LaunchConfig) Save(configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configFile, err)
	}
	return nil
}
