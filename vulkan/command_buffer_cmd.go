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

// Binding.

func (cb *CommandBuffer) CmdBindPipeline(ctx context.Context, bindPoint VkPipelineBindPoint, pipeline VkPipeline) {
	cb.enqueue(ctx, protocol.CmdBindPipeline, func(w binary.Writer) {
		w.Uint32(uint32(bindPoint))
		w.Uint64(uint64(pipeline))
	})
}

func (cb *CommandBuffer) CmdBindDescriptorSets(ctx context.Context, bindPoint VkPipelineBindPoint, layout VkPipelineLayout,
	firstSet uint32, sets []VkDescriptorSet, dynamicOffsets []uint32) {
	cb.enqueue(ctx, protocol.CmdBindDescriptorSets, func(w binary.Writer) {
		w.Uint32(uint32(bindPoint))
		w.Uint64(uint64(layout))
		w.Uint32(firstSet)
		encodeHandles(w, sets)
		encodeUint32s(w, dynamicOffsets)
	})
}

func (cb *CommandBuffer) CmdBindIndexBuffer(ctx context.Context, buffer VkBuffer, offset VkDeviceSize, indexType VkIndexType) {
	cb.enqueue(ctx, protocol.CmdBindIndexBuffer, func(w binary.Writer) {
		w.Uint64(uint64(buffer))
		w.Uint64(uint64(offset))
		w.Uint32(uint32(indexType))
	})
}

func (cb *CommandBuffer) CmdBindVertexBuffers(ctx context.Context, firstBinding uint32, buffers []VkBuffer, offsets []VkDeviceSize) {
	cb.enqueue(ctx, protocol.CmdBindVertexBuffers, func(w binary.Writer) {
		w.Uint32(firstBinding)
		encodeHandles(w, buffers)
		encodeUint64s(w, offsets)
	})
}

// CmdBindVertexBuffers2 binds vertex buffers; sizes and strides may be nil.
func (cb *CommandBuffer) CmdBindVertexBuffers2(ctx context.Context, firstBinding uint32, buffers []VkBuffer,
	offsets, sizes, strides []VkDeviceSize) {
	cb.enqueue(ctx, protocol.CmdBindVertexBuffers2, func(w binary.Writer) {
		w.Uint32(firstBinding)
		encodeHandles(w, buffers)
		encodeUint64s(w, offsets)
		w.Bool(sizes != nil)
		if sizes != nil {
			encodeUint64s(w, sizes)
		}
		w.Bool(strides != nil)
		if strides != nil {
			encodeUint64s(w, strides)
		}
	})
}

func (cb *CommandBuffer) CmdPushConstants(ctx context.Context, layout VkPipelineLayout, stages VkShaderStageFlags, offset uint32, values []byte) {
	cb.enqueue(ctx, protocol.CmdPushConstants, func(w binary.Writer) {
		w.Uint64(uint64(layout))
		w.Uint32(uint32(stages))
		w.Uint32(offset)
		encodeBytes(w, values)
	})
}

// Draws. Every draw counts towards the batch limit.

func (cb *CommandBuffer) draw(ctx context.Context, t protocol.CommandType, f func(binary.Writer)) {
	cb.enqueue(ctx, t, f)
	cb.countDraw(ctx)
}

func (cb *CommandBuffer) CmdDraw(ctx context.Context, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	cb.draw(ctx, protocol.CmdDraw, func(w binary.Writer) {
		w.Uint32(vertexCount)
		w.Uint32(instanceCount)
		w.Uint32(firstVertex)
		w.Uint32(firstInstance)
	})
}

func (cb *CommandBuffer) CmdDrawIndexed(ctx context.Context, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	cb.draw(ctx, protocol.CmdDrawIndexed, func(w binary.Writer) {
		w.Uint32(indexCount)
		w.Uint32(instanceCount)
		w.Uint32(firstIndex)
		w.Int32(vertexOffset)
		w.Uint32(firstInstance)
	})
}

func (cb *CommandBuffer) CmdDrawMultiEXT(ctx context.Context, vertexInfo []VkMultiDrawInfoEXT, instanceCount, firstInstance, stride uint32) {
	cb.draw(ctx, protocol.CmdDrawMultiEXT, func(w binary.Writer) {
		encodeArray(w, vertexInfo)
		w.Uint32(instanceCount)
		w.Uint32(firstInstance)
		w.Uint32(stride)
	})
}

// CmdDrawMultiIndexedEXT draws indexed geometry; vertexOffset overrides the
// per-draw offsets when not nil.
func (cb *CommandBuffer) CmdDrawMultiIndexedEXT(ctx context.Context, indexInfo []VkMultiDrawIndexedInfoEXT,
	instanceCount, firstInstance, stride uint32, vertexOffset *int32) {
	cb.draw(ctx, protocol.CmdDrawMultiIndexedEXT, func(w binary.Writer) {
		encodeArray(w, indexInfo)
		w.Uint32(instanceCount)
		w.Uint32(firstInstance)
		w.Uint32(stride)
		w.Bool(vertexOffset != nil)
		if vertexOffset != nil {
			w.Int32(*vertexOffset)
		}
	})
}

func (cb *CommandBuffer) CmdDrawIndirect(ctx context.Context, buffer VkBuffer, offset VkDeviceSize, drawCount, stride uint32) {
	cb.draw(ctx, protocol.CmdDrawIndirect, func(w binary.Writer) {
		w.Uint64(uint64(buffer))
		w.Uint64(uint64(offset))
		w.Uint32(drawCount)
		w.Uint32(stride)
	})
}

func (cb *CommandBuffer) CmdDrawIndexedIndirect(ctx context.Context, buffer VkBuffer, offset VkDeviceSize, drawCount, stride uint32) {
	cb.draw(ctx, protocol.CmdDrawIndexedIndirect, func(w binary.Writer) {
		w.Uint64(uint64(buffer))
		w.Uint64(uint64(offset))
		w.Uint32(drawCount)
		w.Uint32(stride)
	})
}

func (cb *CommandBuffer) CmdDrawIndirectCount(ctx context.Context, buffer VkBuffer, offset VkDeviceSize,
	countBuffer VkBuffer, countOffset VkDeviceSize, maxDrawCount, stride uint32) {
	cb.draw(ctx, protocol.CmdDrawIndirectCount, func(w binary.Writer) {
		w.Uint64(uint64(buffer))
		w.Uint64(uint64(offset))
		w.Uint64(uint64(countBuffer))
		w.Uint64(uint64(countOffset))
		w.Uint32(maxDrawCount)
		w.Uint32(stride)
	})
}

func (cb *CommandBuffer) CmdDrawIndexedIndirectCount(ctx context.Context, buffer VkBuffer, offset VkDeviceSize,
	countBuffer VkBuffer, countOffset VkDeviceSize, maxDrawCount, stride uint32) {
	cb.draw(ctx, protocol.CmdDrawIndexedIndirectCount, func(w binary.Writer) {
		w.Uint64(uint64(buffer))
		w.Uint64(uint64(offset))
		w.Uint64(uint64(countBuffer))
		w.Uint64(uint64(countOffset))
		w.Uint32(maxDrawCount)
		w.Uint32(stride)
	})
}

func (cb *CommandBuffer) CmdDrawIndirectByteCountEXT(ctx context.Context, instanceCount, firstInstance uint32,
	counterBuffer VkBuffer, counterBufferOffset VkDeviceSize, counterOffset, vertexStride uint32) {
	cb.draw(ctx, protocol.CmdDrawIndirectByteCountEXT, func(w binary.Writer) {
		w.Uint32(instanceCount)
		w.Uint32(firstInstance)
		w.Uint64(uint64(counterBuffer))
		w.Uint64(uint64(counterBufferOffset))
		w.Uint32(counterOffset)
		w.Uint32(vertexStride)
	})
}

// Dispatch.

func (cb *CommandBuffer) CmdDispatch(ctx context.Context, x, y, z uint32) {
	cb.enqueue(ctx, protocol.CmdDispatch, func(w binary.Writer) {
		w.Uint32(x)
		w.Uint32(y)
		w.Uint32(z)
	})
}

func (cb *CommandBuffer) CmdDispatchBase(ctx context.Context, baseX, baseY, baseZ, x, y, z uint32) {
	cb.enqueue(ctx, protocol.CmdDispatchBase, func(w binary.Writer) {
		w.Uint32(baseX)
		w.Uint32(baseY)
		w.Uint32(baseZ)
		w.Uint32(x)
		w.Uint32(y)
		w.Uint32(z)
	})
}

func (cb *CommandBuffer) CmdDispatchIndirect(ctx context.Context, buffer VkBuffer, offset VkDeviceSize) {
	cb.enqueue(ctx, protocol.CmdDispatchIndirect, func(w binary.Writer) {
		w.Uint64(uint64(buffer))
		w.Uint64(uint64(offset))
	})
}

// Transfers.

func (cb *CommandBuffer) CmdCopyBuffer(ctx context.Context, src, dst VkBuffer, regions []VkBufferCopy) {
	cb.enqueue(ctx, protocol.CmdCopyBuffer, func(w binary.Writer) {
		w.Uint64(uint64(src))
		w.Uint64(uint64(dst))
		encodeArray(w, regions)
	})
}

func (cb *CommandBuffer) CmdCopyBuffer2(ctx context.Context, info *VkCopyBufferInfo2) {
	cb.enqueue(ctx, protocol.CmdCopyBuffer2, info.encode)
}

func (cb *CommandBuffer) CmdCopyImage(ctx context.Context, src VkImage, srcLayout VkImageLayout,
	dst VkImage, dstLayout VkImageLayout, regions []VkImageCopy) {
	cb.enqueue(ctx, protocol.CmdCopyImage, func(w binary.Writer) {
		w.Uint64(uint64(src))
		w.Uint32(uint32(srcLayout))
		w.Uint64(uint64(dst))
		w.Uint32(uint32(dstLayout))
		encodeArray(w, regions)
	})
}

func (cb *CommandBuffer) CmdCopyImage2(ctx context.Context, info *VkCopyImageInfo2) {
	cb.enqueue(ctx, protocol.CmdCopyImage2, info.encode)
}

func (cb *CommandBuffer) CmdBlitImage(ctx context.Context, src VkImage, srcLayout VkImageLayout,
	dst VkImage, dstLayout VkImageLayout, regions []VkImageBlit, filter VkFilter) {
	cb.enqueue(ctx, protocol.CmdBlitImage, func(w binary.Writer) {
		w.Uint64(uint64(src))
		w.Uint32(uint32(srcLayout))
		w.Uint64(uint64(dst))
		w.Uint32(uint32(dstLayout))
		encodeArray(w, regions)
		w.Uint32(uint32(filter))
	})
}

func (cb *CommandBuffer) CmdBlitImage2(ctx context.Context, info *VkBlitImageInfo2) {
	cb.enqueue(ctx, protocol.CmdBlitImage2, info.encode)
}

func (cb *CommandBuffer) CmdCopyBufferToImage(ctx context.Context, src VkBuffer, dst VkImage, dstLayout VkImageLayout, regions []VkBufferImageCopy) {
	cb.enqueue(ctx, protocol.CmdCopyBufferToImage, func(w binary.Writer) {
		w.Uint64(uint64(src))
		w.Uint64(uint64(dst))
		w.Uint32(uint32(dstLayout))
		encodeArray(w, regions)
	})
}

func (cb *CommandBuffer) CmdCopyBufferToImage2(ctx context.Context, info *VkCopyBufferToImageInfo2) {
	cb.enqueue(ctx, protocol.CmdCopyBufferToImage2, info.encode)
}

// fixPrimeBlitLayout replaces a present-src layout on the source of an
// image to buffer copy. It reports whether the copy is a prime blit, whose
// destination must then be released to the foreign queue.
func (cb *CommandBuffer) fixPrimeBlitLayout(src VkImage, layout *VkImageLayout) bool {
	if *layout != presentSrc {
		return false
	}
	*layout = internalPresentLayout
	img := cb.device.image(src)
	primeBlit := img.wsi.isWsi && img.wsi.isPrimeBlitSource
	invariant(primeBlit, "Image %#x copied from present-src is not a prime blit source", src)
	return primeBlit
}

// releasePrimeBlitBuffer hands the destination of a prime blit over to the
// foreign queue.
func (cb *CommandBuffer) releasePrimeBlitBuffer(ctx context.Context, dst VkBuffer) {
	b := VkBufferMemoryBarrier{
		SrcAccessMask:       VkAccessFlagBits_VK_ACCESS_TRANSFER_WRITE_BIT,
		SrcQueueFamilyIndex: cb.pool.queueFamilyIndex,
		DstQueueFamilyIndex: VK_QUEUE_FAMILY_FOREIGN_EXT,
		Buffer:              dst,
		Size:                VK_WHOLE_SIZE,
	}
	cb.encodeMemoryBarriers(ctx,
		VkPipelineStageFlagBits_VK_PIPELINE_STAGE_TRANSFER_BIT,
		VkPipelineStageFlagBits_VK_PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT,
		[]VkBufferMemoryBarrier{b}, nil)
}

func (cb *CommandBuffer) CmdCopyImageToBuffer(ctx context.Context, src VkImage, srcLayout VkImageLayout, dst VkBuffer, regions []VkBufferImageCopy) {
	primeBlit := cb.fixPrimeBlitLayout(src, &srcLayout)
	cb.enqueue(ctx, protocol.CmdCopyImageToBuffer, func(w binary.Writer) {
		w.Uint64(uint64(src))
		w.Uint32(uint32(srcLayout))
		w.Uint64(uint64(dst))
		encodeArray(w, regions)
	})
	if primeBlit {
		cb.releasePrimeBlitBuffer(ctx, dst)
	}
}

func (cb *CommandBuffer) CmdCopyImageToBuffer2(ctx context.Context, info *VkCopyImageToBufferInfo2) {
	local := *info
	primeBlit := cb.fixPrimeBlitLayout(local.SrcImage, &local.SrcImageLayout)
	cb.enqueue(ctx, protocol.CmdCopyImageToBuffer2, local.encode)
	if primeBlit {
		cb.releasePrimeBlitBuffer(ctx, local.DstBuffer)
	}
}

func (cb *CommandBuffer) CmdUpdateBuffer(ctx context.Context, dst VkBuffer, offset VkDeviceSize, data []byte) {
	cb.enqueue(ctx, protocol.CmdUpdateBuffer, func(w binary.Writer) {
		w.Uint64(uint64(dst))
		w.Uint64(uint64(offset))
		encodeBytes(w, data)
	})
}

func (cb *CommandBuffer) CmdFillBuffer(ctx context.Context, dst VkBuffer, offset, size VkDeviceSize, data uint32) {
	cb.enqueue(ctx, protocol.CmdFillBuffer, func(w binary.Writer) {
		w.Uint64(uint64(dst))
		w.Uint64(uint64(offset))
		w.Uint64(uint64(size))
		w.Uint32(data)
	})
}

func (cb *CommandBuffer) CmdClearColorImage(ctx context.Context, image VkImage, layout VkImageLayout,
	color VkClearValue, ranges []VkImageSubresourceRange) {
	cb.enqueue(ctx, protocol.CmdClearColorImage, func(w binary.Writer) {
		w.Uint64(uint64(image))
		w.Uint32(uint32(layout))
		color.encode(w)
		encodeArray(w, ranges)
	})
}

func (cb *CommandBuffer) CmdClearDepthStencilImage(ctx context.Context, image VkImage, layout VkImageLayout,
	value VkClearDepthStencilValue, ranges []VkImageSubresourceRange) {
	cb.enqueue(ctx, protocol.CmdClearDepthStencilImage, func(w binary.Writer) {
		w.Uint64(uint64(image))
		w.Uint32(uint32(layout))
		value.encode(w)
		encodeArray(w, ranges)
	})
}

func (cb *CommandBuffer) CmdClearAttachments(ctx context.Context, attachments []VkClearAttachment, rects []VkClearRect) {
	cb.enqueue(ctx, protocol.CmdClearAttachments, func(w binary.Writer) {
		encodeArray(w, attachments)
		encodeArray(w, rects)
	})
}

func (cb *CommandBuffer) CmdResolveImage(ctx context.Context, src VkImage, srcLayout VkImageLayout,
	dst VkImage, dstLayout VkImageLayout, regions []VkImageResolve) {
	cb.enqueue(ctx, protocol.CmdResolveImage, func(w binary.Writer) {
		w.Uint64(uint64(src))
		w.Uint32(uint32(srcLayout))
		w.Uint64(uint64(dst))
		w.Uint32(uint32(dstLayout))
		encodeArray(w, regions)
	})
}

func (cb *CommandBuffer) CmdResolveImage2(ctx context.Context, info *VkResolveImageInfo2) {
	cb.enqueue(ctx, protocol.CmdResolveImage2, info.encode)
}

// Synchronization.

func (cb *CommandBuffer) CmdSetEvent(ctx context.Context, event VkEvent, stageMask VkPipelineStageFlags) {
	cb.enqueue(ctx, protocol.CmdSetEvent, func(w binary.Writer) {
		w.Uint64(uint64(event))
		w.Uint32(uint32(stageMask))
	})
}

func (cb *CommandBuffer) CmdResetEvent(ctx context.Context, event VkEvent, stageMask VkPipelineStageFlags) {
	cb.enqueue(ctx, protocol.CmdResetEvent, func(w binary.Writer) {
		w.Uint64(uint64(event))
		w.Uint32(uint32(stageMask))
	})
}

// CmdWaitEvents records a wait. Present-src barriers that turn into queue
// family ownership transfers cannot be part of a wait and are recorded as
// a pipeline barrier right after it.
func (cb *CommandBuffer) CmdWaitEvents(ctx context.Context, events []VkEvent, srcStageMask, dstStageMask VkPipelineStageFlags,
	memoryBarriers []VkMemoryBarrier, bufferBarriers []VkBufferMemoryBarrier, imageBarriers []VkImageMemoryBarrier) {
	fixed, transfers := cb.fixWaitEventsImageMemoryBarriers(imageBarriers)
	wait := fixed[:len(fixed)-transfers]
	cb.enqueue(ctx, protocol.CmdWaitEvents, func(w binary.Writer) {
		encodeHandles(w, events)
		w.Uint32(uint32(srcStageMask))
		w.Uint32(uint32(dstStageMask))
		encodeArray(w, memoryBarriers)
		encodeArray(w, bufferBarriers)
		encodeArray(w, wait)
	})
	if transfers > 0 {
		cb.encodeMemoryBarriers(ctx, srcStageMask, dstStageMask, nil, fixed[len(fixed)-transfers:])
	}
}

func (cb *CommandBuffer) CmdPipelineBarrier(ctx context.Context, srcStageMask, dstStageMask VkPipelineStageFlags, dependencyFlags VkDependencyFlags,
	memoryBarriers []VkMemoryBarrier, bufferBarriers []VkBufferMemoryBarrier, imageBarriers []VkImageMemoryBarrier) {
	imageBarriers = cb.fixImageMemoryBarriers(imageBarriers)
	cb.enqueue(ctx, protocol.CmdPipelineBarrier, func(w binary.Writer) {
		encodePipelineBarrier(w, srcStageMask, dstStageMask, dependencyFlags, memoryBarriers, bufferBarriers, imageBarriers)
	})
}

func (cb *CommandBuffer) CmdSetEvent2(ctx context.Context, event VkEvent, info *VkDependencyInfo) {
	dep := cb.fixDependencyInfos([]VkDependencyInfo{*info})[0]
	cb.enqueue(ctx, protocol.CmdSetEvent2, func(w binary.Writer) {
		w.Uint64(uint64(event))
		dep.encode(w)
	})
}

func (cb *CommandBuffer) CmdResetEvent2(ctx context.Context, event VkEvent, stageMask VkPipelineStageFlags2) {
	cb.enqueue(ctx, protocol.CmdResetEvent2, func(w binary.Writer) {
		w.Uint64(uint64(event))
		w.Uint64(uint64(stageMask))
	})
}

// CmdWaitEvents2 records a wait; infos holds one dependency per event.
func (cb *CommandBuffer) CmdWaitEvents2(ctx context.Context, events []VkEvent, infos []VkDependencyInfo) {
	infos = cb.fixDependencyInfos(infos)
	cb.enqueue(ctx, protocol.CmdWaitEvents2, func(w binary.Writer) {
		encodeHandles(w, events)
		encodeArray(w, infos)
	})
}

func (cb *CommandBuffer) CmdPipelineBarrier2(ctx context.Context, info *VkDependencyInfo) {
	dep := cb.fixDependencyInfos([]VkDependencyInfo{*info})[0]
	cb.enqueue(ctx, protocol.CmdPipelineBarrier2, dep.encode)
}

// Queries.

func (cb *CommandBuffer) CmdBeginQuery(ctx context.Context, queryPool VkQueryPool, query uint32, flags VkQueryControlFlags) {
	cb.enqueue(ctx, protocol.CmdBeginQuery, func(w binary.Writer) {
		w.Uint64(uint64(queryPool))
		w.Uint32(query)
		w.Uint32(uint32(flags))
	})
}

func (cb *CommandBuffer) CmdEndQuery(ctx context.Context, queryPool VkQueryPool, query uint32) {
	cb.enqueue(ctx, protocol.CmdEndQuery, func(w binary.Writer) {
		w.Uint64(uint64(queryPool))
		w.Uint32(query)
	})
	cb.addQueryBatch(queryPool, query, cb.queryCount(), true)
}

func (cb *CommandBuffer) CmdBeginQueryIndexedEXT(ctx context.Context, queryPool VkQueryPool, query uint32, flags VkQueryControlFlags, index uint32) {
	cb.enqueue(ctx, protocol.CmdBeginQueryIndexedEXT, func(w binary.Writer) {
		w.Uint64(uint64(queryPool))
		w.Uint32(query)
		w.Uint32(uint32(flags))
		w.Uint32(index)
	})
}

func (cb *CommandBuffer) CmdEndQueryIndexedEXT(ctx context.Context, queryPool VkQueryPool, query, index uint32) {
	cb.enqueue(ctx, protocol.CmdEndQueryIndexedEXT, func(w binary.Writer) {
		w.Uint64(uint64(queryPool))
		w.Uint32(query)
		w.Uint32(index)
	})
	cb.addQueryBatch(queryPool, query, cb.queryCount(), true)
}

func (cb *CommandBuffer) CmdResetQueryPool(ctx context.Context, queryPool VkQueryPool, firstQuery, queryCount uint32) {
	cb.enqueue(ctx, protocol.CmdResetQueryPool, func(w binary.Writer) {
		w.Uint64(uint64(queryPool))
		w.Uint32(firstQuery)
		w.Uint32(queryCount)
	})
	cb.addQueryBatch(queryPool, firstQuery, queryCount, false)
}

func (cb *CommandBuffer) CmdWriteTimestamp(ctx context.Context, stage VkPipelineStageFlags, queryPool VkQueryPool, query uint32) {
	cb.enqueue(ctx, protocol.CmdWriteTimestamp, func(w binary.Writer) {
		w.Uint32(uint32(stage))
		w.Uint64(uint64(queryPool))
		w.Uint32(query)
	})
	cb.addQueryBatch(queryPool, query, cb.queryCount(), true)
}

func (cb *CommandBuffer) CmdWriteTimestamp2(ctx context.Context, stage VkPipelineStageFlags2, queryPool VkQueryPool, query uint32) {
	cb.enqueue(ctx, protocol.CmdWriteTimestamp2, func(w binary.Writer) {
		w.Uint64(uint64(stage))
		w.Uint64(uint64(queryPool))
		w.Uint32(query)
	})
	cb.addQueryBatch(queryPool, query, cb.queryCount(), true)
}

func (cb *CommandBuffer) CmdCopyQueryPoolResults(ctx context.Context, queryPool VkQueryPool, firstQuery, queryCount uint32,
	dst VkBuffer, dstOffset, stride VkDeviceSize, flags VkQueryResultFlags) {
	cb.enqueue(ctx, protocol.CmdCopyQueryPoolResults, func(w binary.Writer) {
		w.Uint64(uint64(queryPool))
		w.Uint32(firstQuery)
		w.Uint32(queryCount)
		w.Uint64(uint64(dst))
		w.Uint64(uint64(dstOffset))
		w.Uint64(uint64(stride))
		w.Uint32(uint32(flags))
	})
}

// Miscellaneous.

func (cb *CommandBuffer) CmdSetDeviceMask(ctx context.Context, deviceMask uint32) {
	cb.enqueue(ctx, protocol.CmdSetDeviceMask, func(w binary.Writer) { w.Uint32(deviceMask) })
}

func (cb *CommandBuffer) CmdBeginConditionalRenderingEXT(ctx context.Context, info *VkConditionalRenderingBeginInfoEXT) {
	cb.enqueue(ctx, protocol.CmdBeginConditionalRenderingEXT, info.encode)
}

func (cb *CommandBuffer) CmdEndConditionalRenderingEXT(ctx context.Context) {
	cb.enqueue(ctx, protocol.CmdEndConditionalRenderingEXT, func(binary.Writer) {})
}

// CmdBindTransformFeedbackBuffersEXT binds transform feedback buffers;
// sizes may be nil.
func (cb *CommandBuffer) CmdBindTransformFeedbackBuffersEXT(ctx context.Context, firstBinding uint32, buffers []VkBuffer, offsets, sizes []VkDeviceSize) {
	cb.enqueue(ctx, protocol.CmdBindTransformFeedbackBuffersEXT, func(w binary.Writer) {
		w.Uint32(firstBinding)
		encodeHandles(w, buffers)
		encodeUint64s(w, offsets)
		w.Bool(sizes != nil)
		if sizes != nil {
			encodeUint64s(w, sizes)
		}
	})
}

func encodeTransformFeedback(firstCounterBuffer uint32, counterBuffers []VkBuffer, counterOffsets []VkDeviceSize) func(binary.Writer) {
	return func(w binary.Writer) {
		w.Uint32(firstCounterBuffer)
		encodeHandles(w, counterBuffers)
		w.Bool(counterOffsets != nil)
		if counterOffsets != nil {
			encodeUint64s(w, counterOffsets)
		}
	}
}

// CmdBeginTransformFeedbackEXT starts transform feedback; counterOffsets
// may be nil.
func (cb *CommandBuffer) CmdBeginTransformFeedbackEXT(ctx context.Context, firstCounterBuffer uint32, counterBuffers []VkBuffer, counterOffsets []VkDeviceSize) {
	cb.enqueue(ctx, protocol.CmdBeginTransformFeedbackEXT,
		encodeTransformFeedback(firstCounterBuffer, counterBuffers, counterOffsets))
}

func (cb *CommandBuffer) CmdEndTransformFeedbackEXT(ctx context.Context, firstCounterBuffer uint32, counterBuffers []VkBuffer, counterOffsets []VkDeviceSize) {
	cb.enqueue(ctx, protocol.CmdEndTransformFeedbackEXT,
		encodeTransformFeedback(firstCounterBuffer, counterBuffers, counterOffsets))
}
