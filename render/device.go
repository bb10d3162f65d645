// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host application (a gogpu.App or any other wgpu-based framework)
// implements DeviceHandle and passes it to the flow render layer, so link
// geometry shares the host's GPU device instead of creating a second one.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, giving the flow
// side a local name while staying compatible with the gpucontext
// ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with nil implementations. Used by
// CPU-only hosts that render frames through the preview package and never
// touch a GPU.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo returns an unknown adapter type for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// HALBinding holds the hal device and queue extracted from a host's
// DeviceHandle. All buffer and pipeline operations in this package go
// through a binding.
type HALBinding struct {
	device hal.Device
	queue  hal.Queue
}

// BindHAL extracts the underlying hal.Device and hal.Queue from a host
// device handle. The handle must additionally implement HalDevice() any
// and HalQueue() any returning the hal types, which gogpu contexts do.
//
// Returns an error if the handle is nil or does not expose HAL types.
func BindHAL(handle DeviceHandle) (*HALBinding, error) {
	if handle == nil {
		return nil, errors.New("render: nil device handle")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, fmt.Errorf("render: device handle does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("render: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("render: provider HalQueue is not hal.Queue")
	}
	return &HALBinding{device: device, queue: queue}, nil
}

// Device returns the bound hal device.
func (b *HALBinding) Device() hal.Device { return b.device }

// Queue returns the bound hal queue.
func (b *HALBinding) Queue() hal.Queue { return b.queue }
