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

package vulkan

import (
	"testing"

	"github.com/google/venus/config"
	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/protocol"
	"github.com/google/venus/ring"
)

func TestResetCommandPool(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	pool, err := d.CreateCommandPool(ctx, &VkCommandPoolCreateInfo{QueueFamilyIndex: testQueueFamily})
	assert.To(t).For("create pool").ThatError(err).Succeeded()
	cbs, err := d.AllocateCommandBuffers(ctx, &VkCommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: 2,
	})
	assert.To(t).For("allocate").ThatError(err).Succeeded()
	for _, cb := range cbs {
		assert.To(t).For("begin").ThatError(cb.Begin(ctx, &VkCommandBufferBeginInfo{})).Succeeded()
		cb.CmdDraw(ctx, 3, 1, 0, 0)
	}

	err = d.ResetCommandPool(ctx, pool, VkCommandPoolResetFlagBits_VK_COMMAND_POOL_RESET_RELEASE_RESOURCES_BIT)
	assert.To(t).For("reset").ThatError(err).Succeeded()
	for i, cb := range cbs {
		assert.To(t).For("state %d", i).That(cb.State()).Equals(CommandBufferStateInitial)
	}
	assert.To(t).For("reset frames").ThatSlice(rec.FramesOf(protocol.ResetCommandPool)).IsLength(1)
	assert.To(t).For("draws").ThatSlice(rec.FramesOf(protocol.CmdDraw)).IsEmpty()
}

func TestAllocateCommandBuffersRollsBack(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	pool, err := d.CreateCommandPool(ctx, &VkCommandPoolCreateInfo{QueueFamilyIndex: testQueueFamily})
	assert.To(t).For("create pool").ThatError(err).Succeeded()

	rec.FailSubmits(ring.ErrClosed)
	cbs, err := d.AllocateCommandBuffers(ctx, &VkCommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: 3,
	})
	assert.To(t).For("allocate").ThatError(err).Equals(VkResult_VK_ERROR_DEVICE_LOST)
	assert.To(t).For("buffers").ThatSlice(cbs).IsEmpty()
	assert.To(t).For("pool buffers").That(len(d.commandPools.get(pool).commandBuffers)).Equals(0)
}

func TestFreeCommandBuffers(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	pool, err := d.CreateCommandPool(ctx, &VkCommandPoolCreateInfo{QueueFamilyIndex: testQueueFamily})
	assert.To(t).For("create pool").ThatError(err).Succeeded()
	cbs, err := d.AllocateCommandBuffers(ctx, &VkCommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: 2,
	})
	assert.To(t).For("allocate").ThatError(err).Succeeded()

	d.FreeCommandBuffers(ctx, pool, []*CommandBuffer{cbs[0], nil})
	assert.To(t).For("freed state").That(cbs[0].State()).Equals(CommandBufferStateInvalid)
	assert.To(t).For("kept state").That(cbs[1].State()).Equals(CommandBufferStateInitial)
	assert.To(t).For("pool buffers").That(len(d.commandPools.get(pool).commandBuffers)).Equals(1)

	frees := rec.FramesOf(protocol.FreeCommandBuffers)
	if !assert.To(t).For("free frames").ThatSlice(frees).IsLength(1) {
		return
	}
	r := frees[0].Reader()
	r.Uint64()
	assert.To(t).For("pool").That(VkCommandPool(r.Uint64())).Equals(pool)
	assert.To(t).For("count").That(r.Count()).Equals(uint32(1))
	assert.To(t).For("handle").That(VkCommandBuffer(r.Uint64())).Equals(cbs[0].Handle())
}

func TestTrimCommandPool(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	pool, err := d.CreateCommandPool(ctx, &VkCommandPoolCreateInfo{QueueFamilyIndex: testQueueFamily})
	assert.To(t).For("create pool").ThatError(err).Succeeded()
	p := d.commandPools.get(pool)
	p.imageBarriers(4)
	p.dependencies(2)

	d.TrimCommandPool(ctx, pool, 0)
	assert.To(t).For("image scratch").That(cap(p.scratch.imageBarriers)).Equals(0)
	assert.To(t).For("dependency scratch").That(cap(p.scratch.dependencies)).Equals(0)
	assert.To(t).For("trim frames").ThatSlice(rec.FramesOf(protocol.TrimCommandPool)).IsLength(1)
}

func TestDescriptorSetLayoutSupport(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	rec.SetReply(protocol.GetDescriptorSetLayoutSupport, func(req protocol.Frame) []byte {
		return protocol.EncodeReply(0, func(w binary.Writer) {
			w.Bool(true)
			w.Uint32(64)
		})
	})
	support := d.GetDescriptorSetLayoutSupport(ctx, bufferImageLayout())
	assert.To(t).For("support").That(support).Equals(VkDescriptorSetLayoutSupport{
		Supported:                  true,
		MaxVariableDescriptorCount: 64,
	})
	assert.To(t).For("calls").ThatSlice(rec.Calls()).IsLength(1)

	rec.SetReply(protocol.GetDescriptorSetLayoutSupport, func(req protocol.Frame) []byte {
		return protocol.EncodeReply(0, nil)
	})
	support = d.GetDescriptorSetLayoutSupport(ctx, bufferImageLayout())
	assert.To(t).For("short reply").That(support).Equals(VkDescriptorSetLayoutSupport{})
}
