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
	"github.com/scitix/clbench/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RunExitCode is the benchmark's exit status, propagated by main.
var RunExitCode int

// NewRootCmd creates and returns the root command (clbench command) instance, configures basic usage information, and adds subcommands.
func NewRootCmd() *cobra.Command {
	var (
		verbose bool
		jsonLog bool
		logFile string
	)

	rootCmd := &cobra.Command{
		Use:   "clbench",
		Short: "ColossalAI training benchmark launcher",
		Long:  "A command-line tool that derives distributed-training launch parameters and runs the ColossalAI GPT benchmark",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logrus.InfoLevel
			if verbose {
				level = logrus.DebugLevel
			}
			utils.InitLogger(level, jsonLog)
			if logFile != "" {
				utils.AddFileSink(logFile)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also log to a rotating file")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewGpusCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}
