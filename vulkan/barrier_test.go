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
	"github.com/google/venus/protocol"
)

func TestPresentSrcRoundTrip(t *testing.T) {
	img := &Image{handle: 1}
	oldLayout, newLayout := presentSrc, presentSrc
	srcQFI, dstQFI := uint32(2), uint32(2)
	clearSrc, clearDst := fixPresentSrc(img, 0, &oldLayout, &newLayout, &srcQFI, &dstQFI)
	assert.To(t).For("old layout").That(oldLayout).Equals(internalPresentLayout)
	assert.To(t).For("new layout").That(newLayout).Equals(internalPresentLayout)
	assert.To(t).For("src qfi").That(srcQFI).Equals(uint32(2))
	assert.To(t).For("dst qfi").That(dstQFI).Equals(uint32(2))
	assert.To(t).For("masks kept").That(clearSrc || clearDst).IsFalse()
}

func TestPresentSrcNotTouched(t *testing.T) {
	img := &Image{handle: 1}
	oldLayout, newLayout := VkImageLayout_VK_IMAGE_LAYOUT_UNDEFINED, VkImageLayout_VK_IMAGE_LAYOUT_GENERAL
	srcQFI, dstQFI := VK_QUEUE_FAMILY_IGNORED, VK_QUEUE_FAMILY_IGNORED
	fixPresentSrc(img, 0, &oldLayout, &newLayout, &srcQFI, &dstQFI)
	assert.To(t).For("old layout").That(oldLayout).Equals(VkImageLayout_VK_IMAGE_LAYOUT_UNDEFINED)
	assert.To(t).For("src qfi").That(srcQFI).Equals(VK_QUEUE_FAMILY_IGNORED)
}

func TestPresentSrcOwnershipTransferHappensOnce(t *testing.T) {
	img := &Image{handle: 1, sharingMode: VkSharingMode_VK_SHARING_MODE_EXCLUSIVE}
	other := VkImageLayout_VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL
	for _, toPresent := range []bool{false, true} {
		for src := uint32(0); src < 3; src++ {
			for dst := uint32(0); dst < 3; dst++ {
				if src == dst {
					continue
				}
				transitions := 0
				for _, poolQFI := range []uint32{src, dst} {
					oldLayout, newLayout := presentSrc, other
					if toPresent {
						oldLayout, newLayout = other, presentSrc
					}
					srcQFI, dstQFI := src, dst
					fixPresentSrc(img, poolQFI, &oldLayout, &newLayout, &srcQFI, &dstQFI)
					assert.To(t).For("old layout").That(oldLayout).NotEquals(presentSrc)
					assert.To(t).For("new layout").That(newLayout).NotEquals(presentSrc)
					if oldLayout != newLayout {
						transitions++
					} else {
						assert.To(t).For("no-op src qfi").That(srcQFI).Equals(VK_QUEUE_FAMILY_IGNORED)
						assert.To(t).For("no-op dst qfi").That(dstQFI).Equals(VK_QUEUE_FAMILY_IGNORED)
					}
				}
				assert.To(t).For("transitions %d->%d (to present: %v)", src, dst, toPresent).That(transitions).Equals(1)
			}
		}
	}
}

func TestPresentSrcConcurrent(t *testing.T) {
	img := &Image{handle: 1, sharingMode: VkSharingMode_VK_SHARING_MODE_CONCURRENT}
	oldLayout, newLayout := presentSrc, VkImageLayout_VK_IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL
	srcQFI, dstQFI := VK_QUEUE_FAMILY_IGNORED, VK_QUEUE_FAMILY_IGNORED
	clearSrc, clearDst := fixPresentSrc(img, 0, &oldLayout, &newLayout, &srcQFI, &dstQFI)
	assert.To(t).For("src qfi").That(srcQFI).Equals(VK_QUEUE_FAMILY_FOREIGN_EXT)
	assert.To(t).For("dst qfi").That(dstQFI).Equals(VK_QUEUE_FAMILY_IGNORED)
	assert.To(t).For("clear src").That(clearSrc).IsTrue()
	assert.To(t).For("clear dst").That(clearDst).IsFalse()
}

func TestPrimeBlitSourceKeepsQueueFamilies(t *testing.T) {
	img := &Image{handle: 1}
	img.wsi.isWsi = true
	img.wsi.isPrimeBlitSource = true
	oldLayout, newLayout := VkImageLayout_VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL, presentSrc
	srcQFI, dstQFI := VK_QUEUE_FAMILY_IGNORED, VK_QUEUE_FAMILY_IGNORED
	clearSrc, clearDst := fixPresentSrc(img, 0, &oldLayout, &newLayout, &srcQFI, &dstQFI)
	assert.To(t).For("new layout").That(newLayout).Equals(internalPresentLayout)
	assert.To(t).For("dst qfi").That(dstQFI).Equals(VK_QUEUE_FAMILY_IGNORED)
	assert.To(t).For("masks kept").That(clearSrc || clearDst).IsFalse()
}

func TestPipelineBarrierRewrite(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.Perf{})
	img := newTestImage(ctx, t, d, VkSharingMode_VK_SHARING_MODE_EXCLUSIVE)
	cb := newRecordingCommandBuffer(ctx, t, d)
	barriers := []VkImageMemoryBarrier{{
		SrcAccessMask:       VkAccessFlagBits_VK_ACCESS_COLOR_ATTACHMENT_WRITE_BIT,
		DstAccessMask:       VkAccessFlagBits_VK_ACCESS_MEMORY_READ_BIT,
		OldLayout:           VkImageLayout_VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL,
		NewLayout:           presentSrc,
		SrcQueueFamilyIndex: VK_QUEUE_FAMILY_IGNORED,
		DstQueueFamilyIndex: VK_QUEUE_FAMILY_IGNORED,
		Image:               img,
	}}
	cb.CmdPipelineBarrier(ctx,
		VkPipelineStageFlagBits_VK_PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT,
		VkPipelineStageFlagBits_VK_PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT,
		0, nil, nil, barriers)
	assert.To(t).For("end").ThatError(cb.End(ctx)).Succeeded()
	assert.To(t).For("app barrier").That(barriers[0].NewLayout).Equals(presentSrc)

	pb := decodePipelineBarrier(t, rec.FramesOf(protocol.CmdPipelineBarrier)[0])
	b := pb.images[0]
	assert.To(t).For("new layout").That(b.NewLayout).Equals(internalPresentLayout)
	assert.To(t).For("src qfi").That(b.SrcQueueFamilyIndex).Equals(uint32(testQueueFamily))
	assert.To(t).For("dst qfi").That(b.DstQueueFamilyIndex).Equals(VK_QUEUE_FAMILY_FOREIGN_EXT)
	assert.To(t).For("src access").That(b.SrcAccessMask).Equals(VkAccessFlagBits_VK_ACCESS_COLOR_ATTACHMENT_WRITE_BIT)
	assert.To(t).For("dst access").That(b.DstAccessMask).Equals(VkAccessFlags(0))
}

func TestPipelineBarrier2ClearsStages(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.Perf{})
	img := newTestImage(ctx, t, d, VkSharingMode_VK_SHARING_MODE_EXCLUSIVE)
	cb := newRecordingCommandBuffer(ctx, t, d)
	deps := []VkDependencyInfo{{
		ImageMemoryBarriers: []VkImageMemoryBarrier2{{
			SrcStageMask:        VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_ALL_COMMANDS_BIT,
			SrcAccessMask:       VkAccessFlagBits2_VK_ACCESS_2_MEMORY_READ_BIT,
			DstStageMask:        VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_TRANSFER_BIT,
			DstAccessMask:       VkAccessFlagBits2_VK_ACCESS_2_TRANSFER_WRITE_BIT,
			OldLayout:           presentSrc,
			NewLayout:           VkImageLayout_VK_IMAGE_LAYOUT_GENERAL,
			SrcQueueFamilyIndex: VK_QUEUE_FAMILY_IGNORED,
			DstQueueFamilyIndex: VK_QUEUE_FAMILY_IGNORED,
			Image:               img,
		}},
	}}
	fixed := cb.fixDependencyInfos(deps)
	b := fixed[0].ImageMemoryBarriers[0]
	assert.To(t).For("src stage").That(b.SrcStageMask).Equals(VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_NONE)
	assert.To(t).For("src access").That(b.SrcAccessMask).Equals(VkAccessFlagBits2_VK_ACCESS_2_NONE)
	assert.To(t).For("dst stage").That(b.DstStageMask).Equals(VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_TRANSFER_BIT)
	assert.To(t).For("src qfi").That(b.SrcQueueFamilyIndex).Equals(VK_QUEUE_FAMILY_FOREIGN_EXT)
	assert.To(t).For("app barrier").That(deps[0].ImageMemoryBarriers[0].OldLayout).Equals(presentSrc)

	cb.builder.inRenderPass = true
	inside := cb.fixDependencyInfos(deps)
	assert.To(t).For("inside render pass").That(inside[0].ImageMemoryBarriers[0].OldLayout).Equals(presentSrc)
}
