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
package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/sirupsen/logrus"
)

// Device is the subset of NVML device state the launcher cares about.
type Device struct {
	Index       int    `json:"index" yaml:"index"`
	Name        string `json:"name" yaml:"name"`
	UUID        string `json:"uuid" yaml:"uuid"`
	TotalMemMiB uint64 `json:"total_mem_mib" yaml:"total_mem_mib"`
}

// Inventory holds the visible devices and the driver version.
type Inventory struct {
	DriverVersion string   `json:"driver_version" yaml:"driver_version"`
	Devices       []Device `json:"devices" yaml:"devices"`
}

// Collect initializes NVML, reads every device, and shuts NVML down
// again. Callers treat failure as "no GPUs on this node".
func Collect() (*Inventory, error) {
	nvmlInst := nvml.New()
	if ret := nvmlInst.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to initialize NVML: %v", nvml.ErrorString(ret))
	}
	defer func() {
		if ret := nvmlInst.Shutdown(); ret != nvml.SUCCESS {
			logrus.WithField("component", "gpu").Errorf("failed to shutdown NVML: %v", nvml.ErrorString(ret))
		}
	}()

	inv := &Inventory{}

	driverVersion, ret := nvmlInst.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		logrus.WithField("component", "gpu").Errorf("failed to get driver version: %v", nvml.ErrorString(ret))
	} else {
		inv.DriverVersion = driverVersion
	}

	count, ret := nvmlInst.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get device count: %v", nvml.ErrorString(ret))
	}

	inv.Devices = make([]Device, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvmlInst.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			logrus.WithField("component", "gpu").Errorf("failed to get device %d: %v", i, nvml.ErrorString(ret))
			continue
		}
		d := Device{Index: i}
		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			d.Name = name
		}
		if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
			d.UUID = uuid
		}
		if mem, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			d.TotalMemMiB = mem.Total / (1024 * 1024)
		}
		inv.Devices = append(inv.Devices, d)
	}
	return inv, nil
}
