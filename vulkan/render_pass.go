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
	"sync/atomic"

	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

// presentSrcAttachment is an attachment that starts or ends its render
// pass in the present-src layout, with the masks of the barrier that moves
// it to or from the internal layout.
type presentSrcAttachment struct {
	index         uint32
	srcStageMask  VkPipelineStageFlags
	srcAccessMask VkAccessFlags
	dstStageMask  VkPipelineStageFlags
	dstAccessMask VkAccessFlags
}

type renderPassSubpass struct {
	attachmentAspects VkImageAspectFlags
	viewMask          uint32
}

// RenderPass is the shadow of a VkRenderPass. It is immutable after
// creation apart from the cached render area granularity.
type RenderPass struct {
	handle VkRenderPass
	// presentAttachments holds the acquire records followed by the release
	// records.
	presentAttachments []presentSrcAttachment
	acquireCount       int
	subpasses          []renderPassSubpass
	// granularity packs the cached VkExtent2D, zero until queried.
	granularity atomic.Uint64
}

func (p *RenderPass) acquireAttachments() []presentSrcAttachment {
	return p.presentAttachments[:p.acquireCount]
}

func (p *RenderPass) releaseAttachments() []presentSrcAttachment {
	return p.presentAttachments[p.acquireCount:]
}

func (p *RenderPass) subpassViewMask(subpass uint32) uint32 {
	if int(subpass) < len(p.subpasses) {
		return p.subpasses[subpass].viewMask
	}
	return 0
}

type VkAttachmentDescription struct {
	Flags          VkAttachmentDescriptionFlags
	Format         VkFormat
	Samples        VkSampleCountFlags
	LoadOp         VkAttachmentLoadOp
	StoreOp        VkAttachmentStoreOp
	StencilLoadOp  VkAttachmentLoadOp
	StencilStoreOp VkAttachmentStoreOp
	InitialLayout  VkImageLayout
	FinalLayout    VkImageLayout
}

func (a VkAttachmentDescription) encode(w binary.Writer) {
	w.Uint32(uint32(a.Flags))
	w.Uint32(uint32(a.Format))
	w.Uint32(uint32(a.Samples))
	w.Uint32(uint32(a.LoadOp))
	w.Uint32(uint32(a.StoreOp))
	w.Uint32(uint32(a.StencilLoadOp))
	w.Uint32(uint32(a.StencilStoreOp))
	w.Uint32(uint32(a.InitialLayout))
	w.Uint32(uint32(a.FinalLayout))
}

// VkAttachmentDescription2 has the same fields as VkAttachmentDescription.
type VkAttachmentDescription2 VkAttachmentDescription

func (a VkAttachmentDescription2) encode(w binary.Writer) { VkAttachmentDescription(a).encode(w) }

type VkAttachmentReference struct {
	Attachment uint32
	Layout     VkImageLayout
}

func (r VkAttachmentReference) encode(w binary.Writer) {
	w.Uint32(r.Attachment)
	w.Uint32(uint32(r.Layout))
}

type VkAttachmentReference2 struct {
	Attachment uint32
	Layout     VkImageLayout
	AspectMask VkImageAspectFlags
}

func (r VkAttachmentReference2) encode(w binary.Writer) {
	w.Uint32(r.Attachment)
	w.Uint32(uint32(r.Layout))
	w.Uint32(uint32(r.AspectMask))
}

type VkSubpassDescription struct {
	Flags                  VkSubpassDescriptionFlags
	PipelineBindPoint      VkPipelineBindPoint
	InputAttachments       []VkAttachmentReference
	ColorAttachments       []VkAttachmentReference
	ResolveAttachments     []VkAttachmentReference
	DepthStencilAttachment *VkAttachmentReference
	PreserveAttachments    []uint32
}

func (s VkSubpassDescription) encode(w binary.Writer) {
	w.Uint32(uint32(s.Flags))
	w.Uint32(uint32(s.PipelineBindPoint))
	encodeArray(w, s.InputAttachments)
	encodeArray(w, s.ColorAttachments)
	encodeOptionalArray(w, s.ResolveAttachments)
	encodeOptional(w, s.DepthStencilAttachment)
	encodeUint32s(w, s.PreserveAttachments)
}

type VkSubpassDescription2 struct {
	PNext                  []VkStructure
	Flags                  VkSubpassDescriptionFlags
	PipelineBindPoint      VkPipelineBindPoint
	ViewMask               uint32
	InputAttachments       []VkAttachmentReference2
	ColorAttachments       []VkAttachmentReference2
	ResolveAttachments     []VkAttachmentReference2
	DepthStencilAttachment *VkAttachmentReference2
	PreserveAttachments    []uint32
}

func (s VkSubpassDescription2) encode(w binary.Writer) {
	encodeChain(w, s.PNext)
	w.Uint32(uint32(s.Flags))
	w.Uint32(uint32(s.PipelineBindPoint))
	w.Uint32(s.ViewMask)
	encodeArray(w, s.InputAttachments)
	encodeArray(w, s.ColorAttachments)
	encodeOptionalArray(w, s.ResolveAttachments)
	encodeOptional(w, s.DepthStencilAttachment)
	encodeUint32s(w, s.PreserveAttachments)
}

type VkSubpassDependency struct {
	SrcSubpass      uint32
	DstSubpass      uint32
	SrcStageMask    VkPipelineStageFlags
	DstStageMask    VkPipelineStageFlags
	SrcAccessMask   VkAccessFlags
	DstAccessMask   VkAccessFlags
	DependencyFlags VkDependencyFlags
}

func (d VkSubpassDependency) encode(w binary.Writer) {
	w.Uint32(d.SrcSubpass)
	w.Uint32(d.DstSubpass)
	w.Uint32(uint32(d.SrcStageMask))
	w.Uint32(uint32(d.DstStageMask))
	w.Uint32(uint32(d.SrcAccessMask))
	w.Uint32(uint32(d.DstAccessMask))
	w.Uint32(uint32(d.DependencyFlags))
}

type VkSubpassDependency2 struct {
	VkSubpassDependency
	ViewOffset int32
}

func (d VkSubpassDependency2) encode(w binary.Writer) {
	d.VkSubpassDependency.encode(w)
	w.Int32(d.ViewOffset)
}

type VkRenderPassCreateInfo struct {
	PNext        []VkStructure
	Flags        VkRenderPassCreateFlags
	Attachments  []VkAttachmentDescription
	Subpasses    []VkSubpassDescription
	Dependencies []VkSubpassDependency
}

func (i VkRenderPassCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	encodeArray(w, i.Attachments)
	encodeArray(w, i.Subpasses)
	encodeArray(w, i.Dependencies)
}

type VkRenderPassCreateInfo2 struct {
	PNext               []VkStructure
	Flags               VkRenderPassCreateFlags
	Attachments         []VkAttachmentDescription2
	Subpasses           []VkSubpassDescription2
	Dependencies        []VkSubpassDependency2
	CorrelatedViewMasks []uint32
}

func (i VkRenderPassCreateInfo2) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	encodeArray(w, i.Attachments)
	encodeArray(w, i.Subpasses)
	encodeArray(w, i.Dependencies)
	encodeUint32s(w, i.CorrelatedViewMasks)
}

type VkRenderPassMultiviewCreateInfo struct {
	ViewMasks        []uint32
	ViewOffsets      []int32
	CorrelationMasks []uint32
}

func (*VkRenderPassMultiviewCreateInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_RENDER_PASS_MULTIVIEW_CREATE_INFO
}

func (s *VkRenderPassMultiviewCreateInfo) encode(w binary.Writer) {
	encodeUint32s(w, s.ViewMasks)
	w.Count(uint32(len(s.ViewOffsets)))
	for _, o := range s.ViewOffsets {
		w.Int32(o)
	}
	encodeUint32s(w, s.CorrelationMasks)
}

type VkRenderPassAttachmentBeginInfo struct {
	Attachments []VkImageView
}

func (*VkRenderPassAttachmentBeginInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_RENDER_PASS_ATTACHMENT_BEGIN_INFO
}

func (s *VkRenderPassAttachmentBeginInfo) encode(w binary.Writer) {
	encodeHandles(w, s.Attachments)
}

// newRenderPass sizes the present-src records of a render pass from the
// initial and final layouts of its attachments.
func newRenderPass(atts []VkAttachmentDescription, subpassCount int) *RenderPass {
	acquire, release := 0, 0
	for _, a := range atts {
		if a.InitialLayout == presentSrc {
			acquire++
		}
		if a.FinalLayout == presentSrc {
			release++
		}
	}
	return &RenderPass{
		handle:             VkRenderPass(newHandle()),
		presentAttachments: make([]presentSrcAttachment, acquire+release),
		acquireCount:       acquire,
		subpasses:          make([]renderPassSubpass, subpassCount),
	}
}

// replacePresentSrc returns atts with the present-src layout replaced by
// the internal layout, filling the present-src records of p. atts is
// returned unchanged if no attachment uses present-src.
//
// TODO: derive tighter barrier masks from the subpass dependencies.
func (p *RenderPass) replacePresentSrc(atts []VkAttachmentDescription) []VkAttachmentDescription {
	if len(p.presentAttachments) == 0 {
		return atts
	}
	out := append([]VkAttachmentDescription{}, atts...)
	acquire := p.acquireAttachments()
	release := p.releaseAttachments()
	a, r := 0, 0
	for i := range out {
		if out[i].InitialLayout == presentSrc {
			acquire[a] = presentSrcAttachment{
				index:         uint32(i),
				srcStageMask:  VkPipelineStageFlagBits_VK_PIPELINE_STAGE_ALL_COMMANDS_BIT,
				dstStageMask:  VkPipelineStageFlagBits_VK_PIPELINE_STAGE_ALL_COMMANDS_BIT,
				dstAccessMask: VkAccessFlagBits_VK_ACCESS_MEMORY_READ_BIT | VkAccessFlagBits_VK_ACCESS_MEMORY_WRITE_BIT,
			}
			a++
			out[i].InitialLayout = internalPresentLayout
		}
		if out[i].FinalLayout == presentSrc {
			release[r] = presentSrcAttachment{
				index:         uint32(i),
				srcStageMask:  VkPipelineStageFlagBits_VK_PIPELINE_STAGE_ALL_COMMANDS_BIT,
				srcAccessMask: VkAccessFlagBits_VK_ACCESS_MEMORY_WRITE_BIT,
				dstStageMask:  VkPipelineStageFlagBits_VK_PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT,
			}
			r++
			out[i].FinalLayout = internalPresentLayout
		}
	}
	return out
}

// subpassAspects returns the aspects touched by a subpass with the given
// color and depth/stencil attachment indices.
func subpassAspects(atts []VkAttachmentDescription, colors []uint32, depthStencil uint32) VkImageAspectFlags {
	var aspects VkImageAspectFlags
	for _, c := range colors {
		if c != VK_ATTACHMENT_UNUSED {
			aspects |= VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT
			break
		}
	}
	if depthStencil != VK_ATTACHMENT_UNUSED && int(depthStencil) < len(atts) {
		aspects |= formatAspects(atts[depthStencil].Format)
	}
	return aspects
}

func (d *Device) CreateRenderPass(ctx context.Context, info *VkRenderPassCreateInfo) (VkRenderPass, error) {
	pass := newRenderPass(info.Attachments, len(info.Subpasses))
	multiview, _ := findStruct[*VkRenderPassMultiviewCreateInfo](info.PNext)
	for i, s := range info.Subpasses {
		colors := make([]uint32, len(s.ColorAttachments))
		for j, c := range s.ColorAttachments {
			colors[j] = c.Attachment
		}
		ds := VK_ATTACHMENT_UNUSED
		if s.DepthStencilAttachment != nil {
			ds = s.DepthStencilAttachment.Attachment
		}
		pass.subpasses[i].attachmentAspects = subpassAspects(info.Attachments, colors, ds)
		if multiview != nil && i < len(multiview.ViewMasks) {
			pass.subpasses[i].viewMask = multiview.ViewMasks[i]
		}
	}
	local := *info
	local.Attachments = pass.replacePresentSrc(info.Attachments)
	err := d.async(ctx, protocol.CreateRenderPass, func(w binary.Writer) {
		w.Uint64(uint64(pass.handle))
		local.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.renderPasses.add(pass.handle, pass)
	return pass.handle, nil
}

func (d *Device) CreateRenderPass2(ctx context.Context, info *VkRenderPassCreateInfo2) (VkRenderPass, error) {
	atts := make([]VkAttachmentDescription, len(info.Attachments))
	for i, a := range info.Attachments {
		atts[i] = VkAttachmentDescription(a)
	}
	pass := newRenderPass(atts, len(info.Subpasses))
	for i, s := range info.Subpasses {
		colors := make([]uint32, len(s.ColorAttachments))
		for j, c := range s.ColorAttachments {
			colors[j] = c.Attachment
		}
		ds := VK_ATTACHMENT_UNUSED
		if s.DepthStencilAttachment != nil {
			ds = s.DepthStencilAttachment.Attachment
		}
		pass.subpasses[i].attachmentAspects = subpassAspects(atts, colors, ds)
		pass.subpasses[i].viewMask = s.ViewMask
	}
	local := *info
	if replaced := pass.replacePresentSrc(atts); len(pass.presentAttachments) > 0 {
		local.Attachments = make([]VkAttachmentDescription2, len(replaced))
		for i, a := range replaced {
			local.Attachments[i] = VkAttachmentDescription2(a)
		}
	}
	err := d.async(ctx, protocol.CreateRenderPass2, func(w binary.Writer) {
		w.Uint64(uint64(pass.handle))
		local.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.renderPasses.add(pass.handle, pass)
	return pass.handle, nil
}

func (d *Device) DestroyRenderPass(ctx context.Context, renderPass VkRenderPass) {
	if d.renderPasses.remove(renderPass) == nil {
		return
	}
	d.destroy(ctx, protocol.DestroyRenderPass, uint64(renderPass))
}

// GetRenderAreaGranularity queries the host once per render pass and
// caches the answer.
func (d *Device) GetRenderAreaGranularity(ctx context.Context, renderPass VkRenderPass) VkExtent2D {
	pass := d.renderPasses.get(renderPass)
	if pass == nil {
		return VkExtent2D{}
	}
	if packed := pass.granularity.Load(); packed != 0 && !d.perf.NoRenderPassCache {
		return VkExtent2D{Width: uint32(packed), Height: uint32(packed >> 32)}
	}
	res, r := d.call(ctx, protocol.GetRenderAreaGranularity, func(w binary.Writer) {
		w.Uint64(uint64(renderPass))
	})
	if res != VkResult_VK_SUCCESS {
		log.W(ctx, "Render area granularity of %#x unavailable: %v", renderPass, res)
		return VkExtent2D{}
	}
	g := VkExtent2D{Width: r.Uint32(), Height: r.Uint32()}
	if err := r.Error(); err != nil {
		log.W(ctx, "Bad render area granularity reply: %v", err)
		return VkExtent2D{}
	}
	pass.granularity.Store(uint64(g.Width) | uint64(g.Height)<<32)
	return g
}
