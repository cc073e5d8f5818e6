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
	"context"

	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

// CommandPool is the shadow of a VkCommandPool.
//
// The pool owns the free-lists its command buffers recycle query batches
// and query feedback command buffers through, and the scratch storage used
// to rewrite barriers. None of it is locked: Vulkan requires the
// application to synchronize access to a pool and its command buffers.
type CommandPool struct {
	device           *Device
	handle           VkCommandPool
	queueFamilyIndex uint32
	commandBuffers   map[*CommandBuffer]struct{}
	freeQueryBatches []*queryBatch
	freeFeedbackCmds []*CommandBuffer
	scratch          struct {
		imageBarriers  []VkImageMemoryBarrier
		imageBarriers2 []VkImageMemoryBarrier2
		dependencies   []VkDependencyInfo
	}
}

type VkCommandPoolCreateInfo struct {
	Flags            VkCommandPoolCreateFlags
	QueueFamilyIndex uint32
}

func (i VkCommandPoolCreateInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	w.Uint32(i.QueueFamilyIndex)
}

type VkCommandBufferAllocateInfo struct {
	CommandPool        VkCommandPool
	Level              VkCommandBufferLevel
	CommandBufferCount uint32
}

// imageBarriers returns n elements of scratch storage. The storage grows
// but never shrinks.
func (p *CommandPool) imageBarriers(n int) []VkImageMemoryBarrier {
	if cap(p.scratch.imageBarriers) < n {
		p.scratch.imageBarriers = make([]VkImageMemoryBarrier, n)
	}
	return p.scratch.imageBarriers[:n]
}

func (p *CommandPool) imageBarriers2(n int) []VkImageMemoryBarrier2 {
	if cap(p.scratch.imageBarriers2) < n {
		p.scratch.imageBarriers2 = make([]VkImageMemoryBarrier2, n)
	}
	return p.scratch.imageBarriers2[:n]
}

func (p *CommandPool) dependencies(n int) []VkDependencyInfo {
	if cap(p.scratch.dependencies) < n {
		p.scratch.dependencies = make([]VkDependencyInfo, n)
	}
	return p.scratch.dependencies[:n]
}

func (d *Device) CreateCommandPool(ctx context.Context, info *VkCommandPoolCreateInfo) (VkCommandPool, error) {
	pool := &CommandPool{
		device:           d,
		handle:           VkCommandPool(newHandle()),
		queueFamilyIndex: info.QueueFamilyIndex,
		commandBuffers:   map[*CommandBuffer]struct{}{},
	}
	err := d.async(ctx, protocol.CreateCommandPool, func(w binary.Writer) {
		w.Uint64(uint64(pool.handle))
		info.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.commandPools.add(pool.handle, pool)
	return pool.handle, nil
}

// DestroyCommandPool destroys the pool on the host, then releases every
// command buffer allocated from it.
func (d *Device) DestroyCommandPool(ctx context.Context, commandPool VkCommandPool) {
	pool := d.commandPools.remove(commandPool)
	if pool == nil {
		return
	}
	d.destroy(ctx, protocol.DestroyCommandPool, uint64(commandPool))
	for cb := range pool.commandBuffers {
		cb.release()
	}
	pool.commandBuffers = nil
	pool.freeQueryBatches = nil
	pool.freeFeedbackCmds = nil
}

// ResetCommandPool returns every command buffer of the pool to the initial
// state.
func (d *Device) ResetCommandPool(ctx context.Context, commandPool VkCommandPool, flags VkCommandPoolResetFlags) error {
	pool := d.commandPools.get(commandPool)
	if pool == nil {
		return VkResult_VK_ERROR_UNKNOWN
	}
	for cb := range pool.commandBuffers {
		cb.reset(ctx)
	}
	if flags&VkCommandPoolResetFlagBits_VK_COMMAND_POOL_RESET_RELEASE_RESOURCES_BIT != 0 {
		pool.freeQueryBatches = nil
	}
	return d.async(ctx, protocol.ResetCommandPool, func(w binary.Writer) {
		w.Uint64(uint64(commandPool))
		w.Uint32(uint32(flags))
	})
}

// TrimCommandPool drops the pool's recycled records and asks the host to
// trim its storage.
func (d *Device) TrimCommandPool(ctx context.Context, commandPool VkCommandPool, flags VkCommandPoolTrimFlags) {
	if pool := d.commandPools.get(commandPool); pool != nil {
		pool.freeQueryBatches = nil
		pool.scratch.imageBarriers = nil
		pool.scratch.imageBarriers2 = nil
		pool.scratch.dependencies = nil
	}
	if err := d.async(ctx, protocol.TrimCommandPool, func(w binary.Writer) {
		w.Uint64(uint64(commandPool))
		w.Uint32(uint32(flags))
	}); err != nil {
		log.W(ctx, "Trimming command pool %#x dropped: %v", commandPool, err)
	}
}

// AllocateCommandBuffers allocates command buffers from a pool. On failure
// every buffer of the batch is released and nil is returned.
func (d *Device) AllocateCommandBuffers(ctx context.Context, info *VkCommandBufferAllocateInfo) ([]*CommandBuffer, error) {
	pool := d.commandPools.get(info.CommandPool)
	if pool == nil {
		return nil, VkResult_VK_ERROR_UNKNOWN
	}
	cbs := make([]*CommandBuffer, info.CommandBufferCount)
	handles := make([]VkCommandBuffer, len(cbs))
	for i := range cbs {
		cbs[i] = newCommandBuffer(pool, info.Level)
		handles[i] = cbs[i].handle
		pool.commandBuffers[cbs[i]] = struct{}{}
	}
	err := d.async(ctx, protocol.AllocateCommandBuffers, func(w binary.Writer) {
		w.Uint64(uint64(info.CommandPool))
		w.Uint32(uint32(info.Level))
		encodeHandles(w, handles)
	})
	if err != nil {
		for _, cb := range cbs {
			delete(pool.commandBuffers, cb)
			cb.release()
		}
		return nil, err
	}
	return cbs, nil
}

// FreeCommandBuffers frees command buffers, returning their pending query
// batches and feedback command buffers to the pool.
func (d *Device) FreeCommandBuffers(ctx context.Context, commandPool VkCommandPool, cbs []*CommandBuffer) {
	pool := d.commandPools.get(commandPool)
	if pool == nil {
		return
	}
	handles := make([]VkCommandBuffer, 0, len(cbs))
	for _, cb := range cbs {
		if cb == nil {
			continue
		}
		cb.reset(ctx)
		delete(pool.commandBuffers, cb)
		cb.release()
		handles = append(handles, cb.handle)
	}
	if err := d.async(ctx, protocol.FreeCommandBuffers, func(w binary.Writer) {
		w.Uint64(uint64(commandPool))
		encodeHandles(w, handles)
	}); err != nil {
		log.W(ctx, "Freeing %d command buffers dropped: %v", len(handles), err)
	}
}
