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

type VkRenderPassBeginInfo struct {
	PNext       []VkStructure
	RenderPass  VkRenderPass
	Framebuffer VkFramebuffer
	RenderArea  VkRect2D
	ClearValues []VkClearValue
}

func (i VkRenderPassBeginInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint64(uint64(i.RenderPass))
	w.Uint64(uint64(i.Framebuffer))
	i.RenderArea.encode(w)
	encodeArray(w, i.ClearValues)
}

type VkSubpassBeginInfo struct {
	Contents VkSubpassContents
}

func (i VkSubpassBeginInfo) encode(w binary.Writer) { w.Uint32(uint32(i.Contents)) }

type VkSubpassEndInfo struct {
	PNext []VkStructure
}

func (i VkSubpassEndInfo) encode(w binary.Writer) { encodeChain(w, i.PNext) }

type VkRenderingAttachmentInfo struct {
	ImageView          VkImageView
	ImageLayout        VkImageLayout
	ResolveMode        VkResolveModeFlags
	ResolveImageView   VkImageView
	ResolveImageLayout VkImageLayout
	LoadOp             VkAttachmentLoadOp
	StoreOp            VkAttachmentStoreOp
	ClearValue         VkClearValue
}

func (a VkRenderingAttachmentInfo) encode(w binary.Writer) {
	w.Uint64(uint64(a.ImageView))
	w.Uint32(uint32(a.ImageLayout))
	w.Uint32(uint32(a.ResolveMode))
	w.Uint64(uint64(a.ResolveImageView))
	w.Uint32(uint32(a.ResolveImageLayout))
	w.Uint32(uint32(a.LoadOp))
	w.Uint32(uint32(a.StoreOp))
	a.ClearValue.encode(w)
}

type VkRenderingInfo struct {
	PNext             []VkStructure
	Flags             VkRenderingFlags
	RenderArea        VkRect2D
	LayerCount        uint32
	ViewMask          uint32
	ColorAttachments  []VkRenderingAttachmentInfo
	DepthAttachment   *VkRenderingAttachmentInfo
	StencilAttachment *VkRenderingAttachmentInfo
}

func (i VkRenderingInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	i.RenderArea.encode(w)
	w.Uint32(i.LayerCount)
	w.Uint32(i.ViewMask)
	encodeArray(w, i.ColorAttachments)
	encodeOptional(w, i.DepthAttachment)
	encodeOptional(w, i.StencilAttachment)
}

// beginRenderPass enters the render pass and acquires its present-src
// attachments from the foreign queue.
func (cb *CommandBuffer) beginRenderPass(ctx context.Context, info *VkRenderPassBeginInfo) {
	pass := cb.device.renderPasses.get(info.RenderPass)
	cb.builder.inRenderPass = true
	cb.builder.renderPass = pass
	cb.builder.subpassIndex = 0
	if pass == nil {
		cb.builder.viewMask = 0
		return
	}
	cb.builder.viewMask = pass.subpassViewMask(0)
	if len(pass.presentAttachments) == 0 || cb.state != CommandBufferStateRecording {
		return
	}
	fb := cb.device.framebuffers.get(info.Framebuffer)
	cb.builder.presentSrcImages = cb.device.framebufferImages(fb, info.PNext, pass.presentAttachments)
	if pass.acquireCount > 0 {
		cb.transferPresentSrcImages(ctx, true,
			cb.builder.presentSrcImages[:pass.acquireCount], pass.acquireAttachments())
	}
}

// endRenderPass releases the present-src attachments of the render pass
// to the foreign queue and leaves it.
func (cb *CommandBuffer) endRenderPass(ctx context.Context) {
	pass := cb.builder.renderPass
	if pass != nil && cb.builder.presentSrcImages != nil && len(pass.releaseAttachments()) > 0 {
		cb.transferPresentSrcImages(ctx, false,
			cb.builder.presentSrcImages[pass.acquireCount:], pass.releaseAttachments())
	}
	cb.builder.presentSrcImages = nil
	cb.builder.renderPass = nil
	cb.builder.inRenderPass = false
	cb.builder.subpassIndex = 0
	cb.builder.viewMask = 0
}

func (cb *CommandBuffer) nextSubpass() {
	cb.builder.subpassIndex++
	if pass := cb.builder.renderPass; pass != nil {
		cb.builder.viewMask = pass.subpassViewMask(cb.builder.subpassIndex)
	}
}

func (cb *CommandBuffer) CmdBeginRenderPass(ctx context.Context, info *VkRenderPassBeginInfo, contents VkSubpassContents) {
	cb.beginRenderPass(ctx, info)
	cb.enqueue(ctx, protocol.CmdBeginRenderPass, func(w binary.Writer) {
		info.encode(w)
		w.Uint32(uint32(contents))
	})
}

func (cb *CommandBuffer) CmdNextSubpass(ctx context.Context, contents VkSubpassContents) {
	cb.nextSubpass()
	cb.enqueue(ctx, protocol.CmdNextSubpass, func(w binary.Writer) { w.Uint32(uint32(contents)) })
}

func (cb *CommandBuffer) CmdEndRenderPass(ctx context.Context) {
	cb.enqueue(ctx, protocol.CmdEndRenderPass, func(binary.Writer) {})
	cb.endRenderPass(ctx)
}

func (cb *CommandBuffer) CmdBeginRenderPass2(ctx context.Context, info *VkRenderPassBeginInfo, subpassBegin *VkSubpassBeginInfo) {
	cb.beginRenderPass(ctx, info)
	cb.enqueue(ctx, protocol.CmdBeginRenderPass2, func(w binary.Writer) {
		info.encode(w)
		subpassBegin.encode(w)
	})
}

func (cb *CommandBuffer) CmdNextSubpass2(ctx context.Context, subpassBegin *VkSubpassBeginInfo, subpassEnd *VkSubpassEndInfo) {
	cb.nextSubpass()
	cb.enqueue(ctx, protocol.CmdNextSubpass2, func(w binary.Writer) {
		subpassBegin.encode(w)
		subpassEnd.encode(w)
	})
}

func (cb *CommandBuffer) CmdEndRenderPass2(ctx context.Context, subpassEnd *VkSubpassEndInfo) {
	cb.enqueue(ctx, protocol.CmdEndRenderPass2, subpassEnd.encode)
	cb.endRenderPass(ctx)
}

func (cb *CommandBuffer) CmdBeginRendering(ctx context.Context, info *VkRenderingInfo) {
	cb.builder.inRenderPass = true
	cb.builder.viewMask = info.ViewMask
	cb.enqueue(ctx, protocol.CmdBeginRendering, info.encode)
}

func (cb *CommandBuffer) CmdEndRendering(ctx context.Context) {
	cb.enqueue(ctx, protocol.CmdEndRendering, func(binary.Writer) {})
	cb.builder.inRenderPass = false
	cb.builder.viewMask = 0
}

// CmdExecuteCommands records the execution of secondary command buffers and
// takes over their pending query feedback.
func (cb *CommandBuffer) CmdExecuteCommands(ctx context.Context, secondaries []*CommandBuffer) {
	cb.enqueue(ctx, protocol.CmdExecuteCommands, func(w binary.Writer) {
		w.Count(uint32(len(secondaries)))
		for _, s := range secondaries {
			w.Uint64(uint64(s.handle))
		}
	})
	if cb.state != CommandBufferStateRecording {
		return
	}
	for _, s := range secondaries {
		cb.mergeQueryBatches(s)
	}
}
