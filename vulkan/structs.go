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

import "github.com/google/venus/core/data/binary"

type encodable interface {
	encode(w binary.Writer)
}

// VkStructure is an extension structure that can appear in a pNext chain.
// Chains hold pointers so that output structures can be written back.
type VkStructure interface {
	encodable
	StructType() VkStructureType
}

func encodeArray[T encodable](w binary.Writer, a []T) {
	w.Count(uint32(len(a)))
	for _, v := range a {
		v.encode(w)
	}
}

func encodeOptional[T encodable](w binary.Writer, p *T) {
	if p == nil {
		w.Bool(false)
		return
	}
	w.Bool(true)
	(*p).encode(w)
}

// encodeOptionalArray encodes a possibly null array whose element count
// is carried separately.
func encodeOptionalArray[T encodable](w binary.Writer, a []T) {
	if a == nil {
		w.Bool(false)
		return
	}
	w.Bool(true)
	encodeArray(w, a)
}

func encodeHandles[H ~uint64](w binary.Writer, hs []H) {
	w.Count(uint32(len(hs)))
	for _, h := range hs {
		w.Uint64(uint64(h))
	}
}

func encodeUint32s[T ~uint32](w binary.Writer, vs []T) {
	w.Count(uint32(len(vs)))
	for _, v := range vs {
		w.Uint32(uint32(v))
	}
}

func encodeUint64s[T ~uint64](w binary.Writer, vs []T) {
	w.Count(uint32(len(vs)))
	for _, v := range vs {
		w.Uint64(uint64(v))
	}
}

func encodeBools(w binary.Writer, vs []bool) {
	w.Count(uint32(len(vs)))
	for _, v := range vs {
		w.Bool(v)
	}
}

func encodeString(w binary.Writer, s string) {
	w.Count(uint32(len(s)))
	w.Data([]byte(s))
}

func encodeBytes(w binary.Writer, b []byte) {
	w.Count(uint32(len(b)))
	w.Data(b)
}

func encodeChain(w binary.Writer, chain []VkStructure) {
	w.Count(uint32(len(chain)))
	for _, s := range chain {
		w.Uint32(uint32(s.StructType()))
		s.encode(w)
	}
}

// findStruct returns the first structure of type T in chain.
func findStruct[T VkStructure](chain []VkStructure) (T, bool) {
	for _, s := range chain {
		if t, ok := s.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// filterChain returns the members of chain for which keep returns true.
// chain itself is returned if nothing is dropped.
func filterChain(chain []VkStructure, keep func(VkStructure) bool) []VkStructure {
	for i, s := range chain {
		if keep(s) {
			continue
		}
		out := append([]VkStructure{}, chain[:i]...)
		for _, s := range chain[i+1:] {
			if keep(s) {
				out = append(out, s)
			}
		}
		return out
	}
	return chain
}

func (o VkOffset2D) encode(w binary.Writer) { w.Int32(o.X); w.Int32(o.Y) }
func (e VkExtent2D) encode(w binary.Writer) { w.Uint32(e.Width); w.Uint32(e.Height) }
func (r VkRect2D) encode(w binary.Writer)   { r.Offset.encode(w); r.Extent.encode(w) }
func (o VkOffset3D) encode(w binary.Writer) { w.Int32(o.X); w.Int32(o.Y); w.Int32(o.Z) }
func (e VkExtent3D) encode(w binary.Writer) { w.Uint32(e.Width); w.Uint32(e.Height); w.Uint32(e.Depth) }

func (v VkViewport) encode(w binary.Writer) {
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Width)
	w.Float32(v.Height)
	w.Float32(v.MinDepth)
	w.Float32(v.MaxDepth)
}

func (c VkClearValue) encode(w binary.Writer) {
	for _, v := range c {
		w.Uint32(v)
	}
}

func (r VkImageSubresourceRange) encode(w binary.Writer) {
	w.Uint32(uint32(r.AspectMask))
	w.Uint32(r.BaseMipLevel)
	w.Uint32(r.LevelCount)
	w.Uint32(r.BaseArrayLayer)
	w.Uint32(r.LayerCount)
}

func (l VkImageSubresourceLayers) encode(w binary.Writer) {
	w.Uint32(uint32(l.AspectMask))
	w.Uint32(l.MipLevel)
	w.Uint32(l.BaseArrayLayer)
	w.Uint32(l.LayerCount)
}

func (m VkComponentMapping) encode(w binary.Writer) {
	w.Uint32(uint32(m.R))
	w.Uint32(uint32(m.G))
	w.Uint32(uint32(m.B))
	w.Uint32(uint32(m.A))
}

// Barriers.

type VkMemoryBarrier struct {
	SrcAccessMask VkAccessFlags
	DstAccessMask VkAccessFlags
}

func (b VkMemoryBarrier) encode(w binary.Writer) {
	w.Uint32(uint32(b.SrcAccessMask))
	w.Uint32(uint32(b.DstAccessMask))
}

type VkBufferMemoryBarrier struct {
	SrcAccessMask       VkAccessFlags
	DstAccessMask       VkAccessFlags
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Buffer              VkBuffer
	Offset              VkDeviceSize
	Size                VkDeviceSize
}

func (b VkBufferMemoryBarrier) encode(w binary.Writer) {
	w.Uint32(uint32(b.SrcAccessMask))
	w.Uint32(uint32(b.DstAccessMask))
	w.Uint32(b.SrcQueueFamilyIndex)
	w.Uint32(b.DstQueueFamilyIndex)
	w.Uint64(uint64(b.Buffer))
	w.Uint64(uint64(b.Offset))
	w.Uint64(uint64(b.Size))
}

type VkImageMemoryBarrier struct {
	SrcAccessMask       VkAccessFlags
	DstAccessMask       VkAccessFlags
	OldLayout           VkImageLayout
	NewLayout           VkImageLayout
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               VkImage
	SubresourceRange    VkImageSubresourceRange
}

func (b VkImageMemoryBarrier) encode(w binary.Writer) {
	w.Uint32(uint32(b.SrcAccessMask))
	w.Uint32(uint32(b.DstAccessMask))
	w.Uint32(uint32(b.OldLayout))
	w.Uint32(uint32(b.NewLayout))
	w.Uint32(b.SrcQueueFamilyIndex)
	w.Uint32(b.DstQueueFamilyIndex)
	w.Uint64(uint64(b.Image))
	b.SubresourceRange.encode(w)
}

type VkMemoryBarrier2 struct {
	SrcStageMask  VkPipelineStageFlags2
	SrcAccessMask VkAccessFlags2
	DstStageMask  VkPipelineStageFlags2
	DstAccessMask VkAccessFlags2
}

func (b VkMemoryBarrier2) encode(w binary.Writer) {
	w.Uint64(uint64(b.SrcStageMask))
	w.Uint64(uint64(b.SrcAccessMask))
	w.Uint64(uint64(b.DstStageMask))
	w.Uint64(uint64(b.DstAccessMask))
}

type VkBufferMemoryBarrier2 struct {
	SrcStageMask        VkPipelineStageFlags2
	SrcAccessMask       VkAccessFlags2
	DstStageMask        VkPipelineStageFlags2
	DstAccessMask       VkAccessFlags2
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Buffer              VkBuffer
	Offset              VkDeviceSize
	Size                VkDeviceSize
}

func (b VkBufferMemoryBarrier2) encode(w binary.Writer) {
	w.Uint64(uint64(b.SrcStageMask))
	w.Uint64(uint64(b.SrcAccessMask))
	w.Uint64(uint64(b.DstStageMask))
	w.Uint64(uint64(b.DstAccessMask))
	w.Uint32(b.SrcQueueFamilyIndex)
	w.Uint32(b.DstQueueFamilyIndex)
	w.Uint64(uint64(b.Buffer))
	w.Uint64(uint64(b.Offset))
	w.Uint64(uint64(b.Size))
}

type VkImageMemoryBarrier2 struct {
	SrcStageMask        VkPipelineStageFlags2
	SrcAccessMask       VkAccessFlags2
	DstStageMask        VkPipelineStageFlags2
	DstAccessMask       VkAccessFlags2
	OldLayout           VkImageLayout
	NewLayout           VkImageLayout
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               VkImage
	SubresourceRange    VkImageSubresourceRange
}

func (b VkImageMemoryBarrier2) encode(w binary.Writer) {
	w.Uint64(uint64(b.SrcStageMask))
	w.Uint64(uint64(b.SrcAccessMask))
	w.Uint64(uint64(b.DstStageMask))
	w.Uint64(uint64(b.DstAccessMask))
	w.Uint32(uint32(b.OldLayout))
	w.Uint32(uint32(b.NewLayout))
	w.Uint32(b.SrcQueueFamilyIndex)
	w.Uint32(b.DstQueueFamilyIndex)
	w.Uint64(uint64(b.Image))
	b.SubresourceRange.encode(w)
}

type VkDependencyInfo struct {
	DependencyFlags      VkDependencyFlags
	MemoryBarriers       []VkMemoryBarrier2
	BufferMemoryBarriers []VkBufferMemoryBarrier2
	ImageMemoryBarriers  []VkImageMemoryBarrier2
}

func (d VkDependencyInfo) encode(w binary.Writer) {
	w.Uint32(uint32(d.DependencyFlags))
	encodeArray(w, d.MemoryBarriers)
	encodeArray(w, d.BufferMemoryBarriers)
	encodeArray(w, d.ImageMemoryBarriers)
}

// Transfers.

type VkBufferCopy struct {
	SrcOffset VkDeviceSize
	DstOffset VkDeviceSize
	Size      VkDeviceSize
}

func (c VkBufferCopy) encode(w binary.Writer) {
	w.Uint64(uint64(c.SrcOffset))
	w.Uint64(uint64(c.DstOffset))
	w.Uint64(uint64(c.Size))
}

type VkImageCopy struct {
	SrcSubresource VkImageSubresourceLayers
	SrcOffset      VkOffset3D
	DstSubresource VkImageSubresourceLayers
	DstOffset      VkOffset3D
	Extent         VkExtent3D
}

func (c VkImageCopy) encode(w binary.Writer) {
	c.SrcSubresource.encode(w)
	c.SrcOffset.encode(w)
	c.DstSubresource.encode(w)
	c.DstOffset.encode(w)
	c.Extent.encode(w)
}

// VkImageResolve has the same layout as VkImageCopy.
type VkImageResolve VkImageCopy

func (r VkImageResolve) encode(w binary.Writer) { VkImageCopy(r).encode(w) }

type VkImageBlit struct {
	SrcSubresource VkImageSubresourceLayers
	SrcOffsets     [2]VkOffset3D
	DstSubresource VkImageSubresourceLayers
	DstOffsets     [2]VkOffset3D
}

func (b VkImageBlit) encode(w binary.Writer) {
	b.SrcSubresource.encode(w)
	b.SrcOffsets[0].encode(w)
	b.SrcOffsets[1].encode(w)
	b.DstSubresource.encode(w)
	b.DstOffsets[0].encode(w)
	b.DstOffsets[1].encode(w)
}

type VkBufferImageCopy struct {
	BufferOffset      VkDeviceSize
	BufferRowLength   uint32
	BufferImageHeight uint32
	ImageSubresource  VkImageSubresourceLayers
	ImageOffset       VkOffset3D
	ImageExtent       VkExtent3D
}

func (c VkBufferImageCopy) encode(w binary.Writer) {
	w.Uint64(uint64(c.BufferOffset))
	w.Uint32(c.BufferRowLength)
	w.Uint32(c.BufferImageHeight)
	c.ImageSubresource.encode(w)
	c.ImageOffset.encode(w)
	c.ImageExtent.encode(w)
}

type VkCopyBufferInfo2 struct {
	SrcBuffer VkBuffer
	DstBuffer VkBuffer
	Regions   []VkBufferCopy
}

func (i VkCopyBufferInfo2) encode(w binary.Writer) {
	w.Uint64(uint64(i.SrcBuffer))
	w.Uint64(uint64(i.DstBuffer))
	encodeArray(w, i.Regions)
}

type VkCopyImageInfo2 struct {
	SrcImage       VkImage
	SrcImageLayout VkImageLayout
	DstImage       VkImage
	DstImageLayout VkImageLayout
	Regions        []VkImageCopy
}

func (i VkCopyImageInfo2) encode(w binary.Writer) {
	w.Uint64(uint64(i.SrcImage))
	w.Uint32(uint32(i.SrcImageLayout))
	w.Uint64(uint64(i.DstImage))
	w.Uint32(uint32(i.DstImageLayout))
	encodeArray(w, i.Regions)
}

type VkBlitImageInfo2 struct {
	SrcImage       VkImage
	SrcImageLayout VkImageLayout
	DstImage       VkImage
	DstImageLayout VkImageLayout
	Regions        []VkImageBlit
	Filter         VkFilter
}

func (i VkBlitImageInfo2) encode(w binary.Writer) {
	w.Uint64(uint64(i.SrcImage))
	w.Uint32(uint32(i.SrcImageLayout))
	w.Uint64(uint64(i.DstImage))
	w.Uint32(uint32(i.DstImageLayout))
	encodeArray(w, i.Regions)
	w.Uint32(uint32(i.Filter))
}

type VkCopyBufferToImageInfo2 struct {
	SrcBuffer      VkBuffer
	DstImage       VkImage
	DstImageLayout VkImageLayout
	Regions        []VkBufferImageCopy
}

func (i VkCopyBufferToImageInfo2) encode(w binary.Writer) {
	w.Uint64(uint64(i.SrcBuffer))
	w.Uint64(uint64(i.DstImage))
	w.Uint32(uint32(i.DstImageLayout))
	encodeArray(w, i.Regions)
}

type VkCopyImageToBufferInfo2 struct {
	SrcImage       VkImage
	SrcImageLayout VkImageLayout
	DstBuffer      VkBuffer
	Regions        []VkBufferImageCopy
}

func (i VkCopyImageToBufferInfo2) encode(w binary.Writer) {
	w.Uint64(uint64(i.SrcImage))
	w.Uint32(uint32(i.SrcImageLayout))
	w.Uint64(uint64(i.DstBuffer))
	encodeArray(w, i.Regions)
}

type VkResolveImageInfo2 struct {
	SrcImage       VkImage
	SrcImageLayout VkImageLayout
	DstImage       VkImage
	DstImageLayout VkImageLayout
	Regions        []VkImageResolve
}

func (i VkResolveImageInfo2) encode(w binary.Writer) {
	w.Uint64(uint64(i.SrcImage))
	w.Uint32(uint32(i.SrcImageLayout))
	w.Uint64(uint64(i.DstImage))
	w.Uint32(uint32(i.DstImageLayout))
	encodeArray(w, i.Regions)
}

// Clears.

type VkClearDepthStencilValue struct {
	Depth   float32
	Stencil uint32
}

func (v VkClearDepthStencilValue) encode(w binary.Writer) {
	w.Float32(v.Depth)
	w.Uint32(v.Stencil)
}

type VkClearAttachment struct {
	AspectMask      VkImageAspectFlags
	ColorAttachment uint32
	ClearValue      VkClearValue
}

func (a VkClearAttachment) encode(w binary.Writer) {
	w.Uint32(uint32(a.AspectMask))
	w.Uint32(a.ColorAttachment)
	a.ClearValue.encode(w)
}

type VkClearRect struct {
	Rect           VkRect2D
	BaseArrayLayer uint32
	LayerCount     uint32
}

func (r VkClearRect) encode(w binary.Writer) {
	r.Rect.encode(w)
	w.Uint32(r.BaseArrayLayer)
	w.Uint32(r.LayerCount)
}

// Draw and state parameters.

type VkMultiDrawInfoEXT struct {
	FirstVertex uint32
	VertexCount uint32
}

func (d VkMultiDrawInfoEXT) encode(w binary.Writer) {
	w.Uint32(d.FirstVertex)
	w.Uint32(d.VertexCount)
}

type VkMultiDrawIndexedInfoEXT struct {
	FirstIndex   uint32
	IndexCount   uint32
	VertexOffset int32
}

func (d VkMultiDrawIndexedInfoEXT) encode(w binary.Writer) {
	w.Uint32(d.FirstIndex)
	w.Uint32(d.IndexCount)
	w.Int32(d.VertexOffset)
}

type VkConditionalRenderingBeginInfoEXT struct {
	Buffer VkBuffer
	Offset VkDeviceSize
	Flags  VkConditionalRenderingFlagsEXT
}

func (i VkConditionalRenderingBeginInfoEXT) encode(w binary.Writer) {
	w.Uint64(uint64(i.Buffer))
	w.Uint64(uint64(i.Offset))
	w.Uint32(uint32(i.Flags))
}

type VkVertexInputBindingDescription2EXT struct {
	Binding   uint32
	Stride    uint32
	InputRate VkVertexInputRate
	Divisor   uint32
}

func (d VkVertexInputBindingDescription2EXT) encode(w binary.Writer) {
	w.Uint32(d.Binding)
	w.Uint32(d.Stride)
	w.Uint32(uint32(d.InputRate))
	w.Uint32(d.Divisor)
}

type VkVertexInputAttributeDescription2EXT struct {
	Location uint32
	Binding  uint32
	Format   VkFormat
	Offset   uint32
}

func (d VkVertexInputAttributeDescription2EXT) encode(w binary.Writer) {
	w.Uint32(d.Location)
	w.Uint32(d.Binding)
	w.Uint32(uint32(d.Format))
	w.Uint32(d.Offset)
}

type VkColorBlendEquationEXT struct {
	SrcColorBlendFactor VkBlendFactor
	DstColorBlendFactor VkBlendFactor
	ColorBlendOp        VkBlendOp
	SrcAlphaBlendFactor VkBlendFactor
	DstAlphaBlendFactor VkBlendFactor
	AlphaBlendOp        VkBlendOp
}

func (e VkColorBlendEquationEXT) encode(w binary.Writer) {
	w.Uint32(uint32(e.SrcColorBlendFactor))
	w.Uint32(uint32(e.DstColorBlendFactor))
	w.Uint32(uint32(e.ColorBlendOp))
	w.Uint32(uint32(e.SrcAlphaBlendFactor))
	w.Uint32(uint32(e.DstAlphaBlendFactor))
	w.Uint32(uint32(e.AlphaBlendOp))
}
