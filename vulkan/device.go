// Copyright (C) 2023 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vulkan is the client side of the venus Vulkan virtualization.
//
// It records Vulkan calls into command streams, keeps the shadow state the
// host cannot see (present-src images, graphics pipeline library state,
// descriptor pool capacity), fixes up the calls that depend on it and
// forwards the streams to a host renderer over a ring.
//
// Dispatchable objects (Device, CommandBuffer) are Go values with methods.
// Non-dispatchable objects are uint64 handles resolved through per-device
// object tables.
package vulkan

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/venus/config"
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/data/endian"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
	"github.com/google/venus/ring"
)

// PhysicalDeviceProperties identifies the host device.
type PhysicalDeviceProperties struct {
	VendorID          uint32
	DeviceID          uint32
	DriverVersion     uint32
	DeviceName        string
	PipelineCacheUUID [VK_UUID_SIZE]byte
}

// DeviceInfo configures a Device.
type DeviceInfo struct {
	Perf       config.Perf
	Properties PhysicalDeviceProperties
	// QueryFeedback gives every query pool a host visible feedback buffer
	// that query results are copied into.
	QueryFeedback bool
}

// Device is a virtualized VkDevice.
type Device struct {
	handle        uint64
	ring          ring.Ring
	perf          config.Perf
	props         PhysicalDeviceProperties
	queryFeedback bool

	commandPools              table[VkCommandPool, CommandPool]
	images                    table[VkImage, Image]
	imageViews                table[VkImageView, ImageView]
	buffers                   table[VkBuffer, Buffer]
	queryPools                table[VkQueryPool, QueryPool]
	renderPasses              table[VkRenderPass, RenderPass]
	framebuffers              table[VkFramebuffer, Framebuffer]
	descriptorSetLayouts      table[VkDescriptorSetLayout, DescriptorSetLayout]
	descriptorPools           table[VkDescriptorPool, DescriptorPool]
	descriptorSets            table[VkDescriptorSet, DescriptorSet]
	descriptorUpdateTemplates table[VkDescriptorUpdateTemplate, DescriptorUpdateTemplate]
	pipelineLayouts           table[VkPipelineLayout, PipelineLayout]
	pipelines                 table[VkPipeline, Pipeline]
	pipelineCaches            table[VkPipelineCache, PipelineCache]
}

var lastHandle uint64

// newHandle returns a process-wide unique object id.
func newHandle() uint64 { return atomic.AddUint64(&lastHandle, 1) }

// NewDevice returns a Device whose primary ring is r. Unset stream limits
// in info.Perf take their defaults.
func NewDevice(ctx context.Context, r ring.Ring, info DeviceInfo) *Device {
	perf := info.Perf
	if perf.DrawCmdBatchLimit == 0 {
		perf.DrawCmdBatchLimit = config.DefaultDrawCmdBatchLimit
	}
	if perf.CommandStreamLimit == 0 {
		perf.CommandStreamLimit = config.DefaultCommandStreamLimit
	}
	d := &Device{
		handle:        newHandle(),
		ring:          r,
		perf:          perf,
		props:         info.Properties,
		queryFeedback: info.QueryFeedback,
	}
	log.D(ctx, "Created device %#x (%+v)", d.handle, perf)
	return d
}

// Perf returns the performance toggles in use.
func (d *Device) Perf() config.Perf { return d.perf }

type ringKeyTy string
type asyncPipelineCreateKeyTy string

const (
	ringKey                ringKeyTy                = "venus.ring"
	asyncPipelineCreateKey asyncPipelineCreateKeyTy = "venus.async-pipeline-create"
)

// WithRing returns a context whose device-level commands go to r instead of
// the device's primary ring.
func WithRing(ctx context.Context, r ring.Ring) context.Context {
	return context.WithValue(ctx, ringKey, r)
}

// WithAsyncPipelineCreate returns a context in which pipelines may be
// created without waiting for the host.
func WithAsyncPipelineCreate(ctx context.Context) context.Context {
	return context.WithValue(ctx, asyncPipelineCreateKey, true)
}

func asyncPipelineCreate(ctx context.Context) bool {
	v, _ := ctx.Value(asyncPipelineCreateKey).(bool)
	return v
}

// ringFor returns the ring device-level commands issued on ctx go to.
func (d *Device) ringFor(ctx context.Context) ring.Ring {
	if r, ok := ctx.Value(ringKey).(ring.Ring); ok && r != nil {
		return r
	}
	return d.ring
}

// encodeCommand encodes a single device-level command into a fresh
// committed stream.
func (d *Device) encodeCommand(t protocol.CommandType, f func(binary.Writer)) (*protocol.Encoder, error) {
	e := protocol.NewEncoder(d.perf.CommandStreamLimit)
	if !e.Encode(t, func(w binary.Writer) {
		w.Uint64(d.handle)
		f(w)
	}) {
		return nil, VkResult_VK_ERROR_OUT_OF_HOST_MEMORY
	}
	e.Commit()
	if e.Fatal() {
		return nil, VkResult_VK_ERROR_OUT_OF_HOST_MEMORY
	}
	return e, nil
}

// async submits a device-level command without waiting for the host.
func (d *Device) async(ctx context.Context, t protocol.CommandType, f func(binary.Writer)) error {
	return d.submitTo(ctx, d.ringFor(ctx), t, f)
}

func (d *Device) submitTo(ctx context.Context, r ring.Ring, t protocol.CommandType, f func(binary.Writer)) error {
	e, err := d.encodeCommand(t, f)
	if err != nil {
		log.W(ctx, "Encoding %v failed: %v", t, err)
		return err
	}
	if config.LogCommandStreams {
		log.D(ctx, "Submitting %v (%d bytes)", t, len(e.Bytes()))
	}
	if err := r.Submit(ctx, e.Bytes()); err != nil {
		log.W(ctx, "Submitting %v failed: %v", t, err)
		return VkResult_VK_ERROR_DEVICE_LOST
	}
	return nil
}

// call executes a device-level command on the host and returns its result
// and reply payload. Transport failures are reported as a lost device.
func (d *Device) call(ctx context.Context, t protocol.CommandType, f func(binary.Writer)) (VkResult, *endian.BytesReader) {
	e, err := d.encodeCommand(t, f)
	if err != nil {
		log.W(ctx, "Encoding %v failed: %v", t, err)
		return VkResult_VK_ERROR_OUT_OF_HOST_MEMORY, nil
	}
	reply, err := d.ringFor(ctx).Call(ctx, e.Bytes())
	if err != nil {
		log.W(ctx, "Calling %v failed: %v", t, err)
		return VkResult_VK_ERROR_DEVICE_LOST, nil
	}
	res, r, err := protocol.DecodeReply(reply)
	if err != nil {
		log.W(ctx, "Bad reply to %v: %v", t, err)
		return VkResult_VK_ERROR_DEVICE_LOST, nil
	}
	return VkResult(res), r
}

// invariant panics with the formatted message if cond is false and
// invariant checks are enabled.
func invariant(cond bool, format string, args ...interface{}) {
	if config.CheckInvariants && !cond {
		panic(fmt.Errorf(format, args...))
	}
}
