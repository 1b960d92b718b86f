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

	"github.com/scitix/clbench/pkg/gpu"
	"github.com/scitix/clbench/pkg/utils"

	"github.com/spf13/cobra"
)

func NewGpusCmd() *cobra.Command {
	gpusCmd := &cobra.Command{
		Use:     "gpus",
		Aliases: []string{"g"},
		Short:   "List the GPUs visible to the launcher",
		Long:    "Query NVML for the local device inventory, the same devices CUDA_VISIBLE_DEVICES selects from",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := gpu.Collect()
			if err != nil {
				return fmt.Errorf("failed to collect GPU inventory: %w", err)
			}
			utils.PrintTitle("GPU Inventory", "-")
			fmt.Printf("Driver version: %s\n", inv.DriverVersion)
			for _, d := range inv.Devices {
				fmt.Printf(" - [%d] %-24s %6d MiB  %s\n", d.Index, d.Name, d.TotalMemMiB, d.UUID)
			}
			if len(inv.Devices) == 0 {
				fmt.Println(" (no devices)")
			}
			return nil
		},
	}
	return gpusCmd
}
