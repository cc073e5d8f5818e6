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
	"github.com/google/venus/protocol"
)

// internalPresentLayout replaces VK_IMAGE_LAYOUT_PRESENT_SRC_KHR everywhere
// but at the present boundary.
const internalPresentLayout = VkImageLayout_VK_IMAGE_LAYOUT_GENERAL

const presentSrc = VkImageLayout_VK_IMAGE_LAYOUT_PRESENT_SRC_KHR

// fixPresentSrc rewrites the layouts and queue family indices of a barrier
// on img recorded into a command buffer from a pool of queue family
// poolQFI. It reports whether the source or destination access scope of
// the barrier must be dropped.
//
// A transition away from present-src acquires the image from the foreign
// queue, a transition to it releases the image to the foreign queue. When
// the barrier is one half of an application-level ownership transfer, the
// half submitted to the other queue family is turned into a no-op so that
// the image changes layout exactly once.
func fixPresentSrc(img *Image, poolQFI uint32, oldLayout, newLayout *VkImageLayout, srcQFI, dstQFI *uint32) (clearSrc, clearDst bool) {
	if *oldLayout != presentSrc && *newLayout != presentSrc {
		return false, false
	}
	if img.wsi.isPrimeBlitSource || *oldLayout == *newLayout {
		if *oldLayout == presentSrc {
			*oldLayout = internalPresentLayout
		}
		if *newLayout == presentSrc {
			*newLayout = internalPresentLayout
		}
		return false, false
	}

	concurrent := img.sharingMode == VkSharingMode_VK_SHARING_MODE_CONCURRENT
	if *oldLayout == presentSrc {
		*oldLayout = internalPresentLayout
		switch {
		case concurrent:
			*srcQFI = VK_QUEUE_FAMILY_FOREIGN_EXT
			*dstQFI = VK_QUEUE_FAMILY_IGNORED
		case *dstQFI == *srcQFI || *dstQFI == poolQFI:
			*srcQFI = VK_QUEUE_FAMILY_FOREIGN_EXT
			*dstQFI = poolQFI
		default:
			// Release half of a transfer to another queue family.
			*srcQFI = VK_QUEUE_FAMILY_IGNORED
			*dstQFI = VK_QUEUE_FAMILY_IGNORED
			*newLayout = *oldLayout
		}
		return true, false
	}

	*newLayout = internalPresentLayout
	switch {
	case concurrent:
		*srcQFI = VK_QUEUE_FAMILY_IGNORED
		*dstQFI = VK_QUEUE_FAMILY_FOREIGN_EXT
	case *srcQFI == *dstQFI || *srcQFI == poolQFI:
		*srcQFI = poolQFI
		*dstQFI = VK_QUEUE_FAMILY_FOREIGN_EXT
	default:
		// Acquire half of a transfer from another queue family.
		*srcQFI = VK_QUEUE_FAMILY_IGNORED
		*dstQFI = VK_QUEUE_FAMILY_IGNORED
		*oldLayout = *newLayout
	}
	return false, true
}

func (cb *CommandBuffer) fixImageMemoryBarrier(b *VkImageMemoryBarrier) {
	img := cb.device.image(b.Image)
	clearSrc, clearDst := fixPresentSrc(img, cb.pool.queueFamilyIndex,
		&b.OldLayout, &b.NewLayout, &b.SrcQueueFamilyIndex, &b.DstQueueFamilyIndex)
	if clearSrc {
		b.SrcAccessMask = 0
	}
	if clearDst {
		b.DstAccessMask = 0
	}
}

func (cb *CommandBuffer) fixImageMemoryBarrier2(b *VkImageMemoryBarrier2) {
	img := cb.device.image(b.Image)
	clearSrc, clearDst := fixPresentSrc(img, cb.pool.queueFamilyIndex,
		&b.OldLayout, &b.NewLayout, &b.SrcQueueFamilyIndex, &b.DstQueueFamilyIndex)
	if clearSrc {
		b.SrcStageMask = VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_NONE
		b.SrcAccessMask = VkAccessFlagBits2_VK_ACCESS_2_NONE
	}
	if clearDst {
		b.DstStageMask = VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_NONE
		b.DstAccessMask = VkAccessFlagBits2_VK_ACCESS_2_NONE
	}
}

func hasPresentSrc(barriers []VkImageMemoryBarrier) bool {
	for _, b := range barriers {
		if b.OldLayout == presentSrc || b.NewLayout == presentSrc {
			return true
		}
	}
	return false
}

func hasPresentSrc2(deps []VkDependencyInfo) bool {
	for _, d := range deps {
		for _, b := range d.ImageMemoryBarriers {
			if b.OldLayout == presentSrc || b.NewLayout == presentSrc {
				return true
			}
		}
	}
	return false
}

// fixImageMemoryBarriers returns barriers with present-src rewritten. The
// application's slice is never modified; the rewritten copy lives in pool
// scratch storage until the next rewrite. Barriers inside a render pass
// are left alone.
func (cb *CommandBuffer) fixImageMemoryBarriers(barriers []VkImageMemoryBarrier) []VkImageMemoryBarrier {
	if cb.builder.inRenderPass || !hasPresentSrc(barriers) {
		return barriers
	}
	out := cb.pool.imageBarriers(len(barriers))
	copy(out, barriers)
	for i := range out {
		cb.fixImageMemoryBarrier(&out[i])
	}
	return out
}

// fixWaitEventsImageMemoryBarriers is fixImageMemoryBarriers for
// vkCmdWaitEvents, which cannot transfer queue family ownership. Barriers
// that ended up transferring ownership are moved to the tail of the
// returned slice; transfers is their count.
func (cb *CommandBuffer) fixWaitEventsImageMemoryBarriers(barriers []VkImageMemoryBarrier) (out []VkImageMemoryBarrier, transfers int) {
	if cb.builder.inRenderPass || !hasPresentSrc(barriers) {
		return barriers, 0
	}
	n := len(barriers)
	scratch := cb.pool.imageBarriers(n * 2)
	out, tail := scratch[:n], scratch[n:]
	valid := 0
	for _, b := range barriers {
		cb.fixImageMemoryBarrier(&b)
		if b.SrcQueueFamilyIndex == b.DstQueueFamilyIndex {
			out[valid] = b
			valid++
		} else {
			tail[transfers] = b
			transfers++
		}
	}
	copy(out[valid:], tail[:transfers])
	return out, transfers
}

// fixDependencyInfos is fixImageMemoryBarriers for synchronization2.
func (cb *CommandBuffer) fixDependencyInfos(deps []VkDependencyInfo) []VkDependencyInfo {
	if cb.builder.inRenderPass || !hasPresentSrc2(deps) {
		return deps
	}
	total := 0
	for _, d := range deps {
		total += len(d.ImageMemoryBarriers)
	}
	out := cb.pool.dependencies(len(deps))
	barriers := cb.pool.imageBarriers2(total)
	for i, d := range deps {
		n := len(d.ImageMemoryBarriers)
		fixed := barriers[:n:n]
		barriers = barriers[n:]
		copy(fixed, d.ImageMemoryBarriers)
		for j := range fixed {
			cb.fixImageMemoryBarrier2(&fixed[j])
		}
		out[i] = d
		if d.ImageMemoryBarriers != nil {
			out[i].ImageMemoryBarriers = fixed
		}
	}
	return out
}

func encodePipelineBarrier(w binary.Writer, srcStageMask, dstStageMask VkPipelineStageFlags, dependencyFlags VkDependencyFlags,
	memoryBarriers []VkMemoryBarrier, bufferBarriers []VkBufferMemoryBarrier, imageBarriers []VkImageMemoryBarrier) {
	w.Uint32(uint32(srcStageMask))
	w.Uint32(uint32(dstStageMask))
	w.Uint32(uint32(dependencyFlags))
	encodeArray(w, memoryBarriers)
	encodeArray(w, bufferBarriers)
	encodeArray(w, imageBarriers)
}

// encodeMemoryBarriers records a pipeline barrier issued by the driver
// itself.
func (cb *CommandBuffer) encodeMemoryBarriers(ctx context.Context, srcStageMask, dstStageMask VkPipelineStageFlags,
	bufferBarriers []VkBufferMemoryBarrier, imageBarriers []VkImageMemoryBarrier) {
	cb.enqueue(ctx, protocol.CmdPipelineBarrier, func(w binary.Writer) {
		encodePipelineBarrier(w, srcStageMask, dstStageMask, 0, nil, bufferBarriers, imageBarriers)
	})
}

// transferPresentSrcImages records the barrier moving the present-src
// attachments atts of the current render pass between the present-src
// layout and the internal layout.
func (cb *CommandBuffer) transferPresentSrcImages(ctx context.Context, acquire bool, images []*Image, atts []presentSrcAttachment) {
	barriers := cb.pool.imageBarriers(len(images))
	var srcStageMask, dstStageMask VkPipelineStageFlags
	for i, img := range images {
		att := atts[i]
		srcStageMask |= att.srcStageMask
		dstStageMask |= att.dstStageMask
		b := VkImageMemoryBarrier{
			SrcAccessMask: att.srcAccessMask,
			DstAccessMask: att.dstAccessMask,
			Image:         img.handle,
			SubresourceRange: VkImageSubresourceRange{
				AspectMask: VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT,
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		if acquire {
			b.OldLayout, b.NewLayout = presentSrc, internalPresentLayout
		} else {
			b.OldLayout, b.NewLayout = internalPresentLayout, presentSrc
		}
		cb.fixImageMemoryBarrier(&b)
		barriers[i] = b
	}
	cb.encodeMemoryBarriers(ctx, srcStageMask, dstStageMask, nil, barriers)
}
