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
	"testing"

	"github.com/google/venus/config"
	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
	"github.com/google/venus/renderer"
	"github.com/google/venus/ring"
)

const testQueueFamily = 0

func newTestDevice(t *testing.T, perf config.Perf) (context.Context, *Device, *renderer.Recorder) {
	ctx := log.Testing(t)
	rec := renderer.NewRecorder()
	d := NewDevice(ctx, ring.NewLoopback(rec), DeviceInfo{Perf: perf})
	return ctx, d, rec
}

func newTestCommandBuffers(ctx context.Context, t *testing.T, d *Device, level VkCommandBufferLevel, n uint32) []*CommandBuffer {
	pool, err := d.CreateCommandPool(ctx, &VkCommandPoolCreateInfo{QueueFamilyIndex: testQueueFamily})
	assert.To(t).For("create pool").ThatError(err).Succeeded()
	cbs, err := d.AllocateCommandBuffers(ctx, &VkCommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              level,
		CommandBufferCount: n,
	})
	assert.To(t).For("allocate").ThatError(err).Succeeded()
	return cbs
}

func newRecordingCommandBuffer(ctx context.Context, t *testing.T, d *Device) *CommandBuffer {
	cb := newTestCommandBuffers(ctx, t, d, VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_PRIMARY, 1)[0]
	assert.To(t).For("begin").ThatError(cb.Begin(ctx, &VkCommandBufferBeginInfo{})).Succeeded()
	return cb
}

func newTestImage(ctx context.Context, t *testing.T, d *Device, sharing VkSharingMode, chain ...VkStructure) VkImage {
	img, err := d.CreateImage(ctx, &VkImageCreateInfo{
		PNext:       chain,
		ImageType:   VkImageType_VK_IMAGE_TYPE_2D,
		Format:      VkFormat_VK_FORMAT_R8G8B8A8_UNORM,
		Extent:      VkExtent3D{Width: 64, Height: 64, Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     VkSampleCountFlagBits_VK_SAMPLE_COUNT_1_BIT,
		SharingMode: sharing,
	})
	assert.To(t).For("create image").ThatError(err).Succeeded()
	return img
}

type decodedBarrier struct {
	srcStageMask, dstStageMask VkPipelineStageFlags
	buffers                    []VkBufferMemoryBarrier
	images                     []VkImageMemoryBarrier
}

// decodePipelineBarrier decodes a vkCmdPipelineBarrier frame.
func decodePipelineBarrier(t *testing.T, f protocol.Frame) decodedBarrier {
	assert.To(t).For("frame type").That(f.Type).Equals(protocol.CmdPipelineBarrier)
	r := f.Reader()
	r.Uint64()
	out := decodedBarrier{
		srcStageMask: VkPipelineStageFlags(r.Uint32()),
		dstStageMask: VkPipelineStageFlags(r.Uint32()),
	}
	r.Uint32()
	for i := r.Count(); i > 0; i-- {
		r.Uint32()
		r.Uint32()
	}
	for i := r.Count(); i > 0; i-- {
		out.buffers = append(out.buffers, VkBufferMemoryBarrier{
			SrcAccessMask:       VkAccessFlags(r.Uint32()),
			DstAccessMask:       VkAccessFlags(r.Uint32()),
			SrcQueueFamilyIndex: r.Uint32(),
			DstQueueFamilyIndex: r.Uint32(),
			Buffer:              VkBuffer(r.Uint64()),
			Offset:              VkDeviceSize(r.Uint64()),
			Size:                VkDeviceSize(r.Uint64()),
		})
	}
	for i := r.Count(); i > 0; i-- {
		b := VkImageMemoryBarrier{
			SrcAccessMask:       VkAccessFlags(r.Uint32()),
			DstAccessMask:       VkAccessFlags(r.Uint32()),
			OldLayout:           VkImageLayout(r.Uint32()),
			NewLayout:           VkImageLayout(r.Uint32()),
			SrcQueueFamilyIndex: r.Uint32(),
			DstQueueFamilyIndex: r.Uint32(),
			Image:               VkImage(r.Uint64()),
		}
		b.SubresourceRange = VkImageSubresourceRange{
			AspectMask:     VkImageAspectFlags(r.Uint32()),
			BaseMipLevel:   r.Uint32(),
			LevelCount:     r.Uint32(),
			BaseArrayLayer: r.Uint32(),
			LayerCount:     r.Uint32(),
		}
		out.images = append(out.images, b)
	}
	assert.To(t).For("barrier decode").ThatError(r.Error()).Succeeded()
	return out
}
