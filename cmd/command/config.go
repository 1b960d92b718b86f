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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scitix/clbench/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage clbench configuration",
		Long:  "Create, view and update ~/.clbench/config.yaml",
	}

	cmd.AddCommand(newConfigCreateCmd())
	cmd.AddCommand(newConfigViewCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Write a config file with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := config.ConfigFilePath()
			if _, err := os.Stat(configFile); err == nil {
				fmt.Printf("Config already exists at %s, leaving it alone\n", configFile)
				return nil
			}
			if err := config.DefaultLaunchConfig().Save(configFile); err != nil {
				return err
			}
			fmt.Printf("✅ Config saved to %s\n", configFile)
			return nil
		},
	}
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := config.ConfigFilePath()
			v := viper.New()
			v.SetConfigFile(configFile)

			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config: %v", err)
			}

			fmt.Println("Current configuration:")
			for _, key := range config.Keys {
				fmt.Printf("  %-14s : %s\n", key, v.GetString(key))
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key>=<value> ...",
		Short: "Update configuration values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := config.ConfigFilePath()
			v := viper.New()
			v.SetConfigFile(configFile)
			_ = v.ReadInConfig()

			known := map[string]bool{}
			for _, key := range config.Keys {
				known[key] = true
			}

			for _, arg := range args {
				key, val, ok := strings.Cut(arg, "=")
				if !ok || val == "" {
					return fmt.Errorf("expected <key>=<value>, got %q", arg)
				}
				if !known[key] {
					return fmt.Errorf("unknown config key %q (see `clbench config view`)", key)
				}
				// keep numeric keys numeric in the yaml
				if n, err := strconv.Atoi(val); err == nil {
					v.Set(key, n)
				} else {
					v.Set(key, val)
				}
				fmt.Printf("✅ Updated %s = %s\n", key, val)
			}
			return v.WriteConfigAs(configFile)
		},
	}
}
