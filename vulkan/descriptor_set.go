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

// DescriptorSet is the shadow of a VkDescriptorSet.
type DescriptorSet struct {
	handle VkDescriptorSet
	pool   *DescriptorPool
	layout *DescriptorSetLayout
	// lastBindingCount is the descriptor count of the last binding, which
	// may be variable.
	lastBindingCount uint32
}

type VkDescriptorSetAllocateInfo struct {
	PNext          []VkStructure
	DescriptorPool VkDescriptorPool
	SetLayouts     []VkDescriptorSetLayout
}

func (i VkDescriptorSetAllocateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint64(uint64(i.DescriptorPool))
	encodeHandles(w, i.SetLayouts)
}

type VkDescriptorSetVariableDescriptorCountAllocateInfo struct {
	DescriptorCounts []uint32
}

func (*VkDescriptorSetVariableDescriptorCountAllocateInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_SET_VARIABLE_DESCRIPTOR_COUNT_ALLOCATE_INFO
}

func (s *VkDescriptorSetVariableDescriptorCountAllocateInfo) encode(w binary.Writer) {
	encodeUint32s(w, s.DescriptorCounts)
}

type VkDescriptorImageInfo struct {
	Sampler     VkSampler
	ImageView   VkImageView
	ImageLayout VkImageLayout
}

func (i VkDescriptorImageInfo) encode(w binary.Writer) {
	w.Uint64(uint64(i.Sampler))
	w.Uint64(uint64(i.ImageView))
	w.Uint32(uint32(i.ImageLayout))
}

type VkDescriptorBufferInfo struct {
	Buffer VkBuffer
	Offset VkDeviceSize
	Range  VkDeviceSize
}

func (i VkDescriptorBufferInfo) encode(w binary.Writer) {
	w.Uint64(uint64(i.Buffer))
	w.Uint64(uint64(i.Offset))
	w.Uint64(uint64(i.Range))
}

type VkWriteDescriptorSet struct {
	PNext           []VkStructure
	DstSet          VkDescriptorSet
	DstBinding      uint32
	DstArrayElement uint32
	DescriptorCount uint32
	DescriptorType  VkDescriptorType
	ImageInfo       []VkDescriptorImageInfo
	BufferInfo      []VkDescriptorBufferInfo
	TexelBufferView []VkBufferView
}

func (i VkWriteDescriptorSet) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint64(uint64(i.DstSet))
	w.Uint32(i.DstBinding)
	w.Uint32(i.DstArrayElement)
	w.Uint32(i.DescriptorCount)
	w.Uint32(uint32(i.DescriptorType))
	encodeOptionalArray(w, i.ImageInfo)
	encodeOptionalArray(w, i.BufferInfo)
	w.Bool(i.TexelBufferView != nil)
	if i.TexelBufferView != nil {
		encodeHandles(w, i.TexelBufferView)
	}
}

type VkWriteDescriptorSetInlineUniformBlock struct {
	Data []byte
}

func (*VkWriteDescriptorSetInlineUniformBlock) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET_INLINE_UNIFORM_BLOCK
}

func (s *VkWriteDescriptorSetInlineUniformBlock) encode(w binary.Writer) { encodeBytes(w, s.Data) }

type VkCopyDescriptorSet struct {
	SrcSet          VkDescriptorSet
	SrcBinding      uint32
	SrcArrayElement uint32
	DstSet          VkDescriptorSet
	DstBinding      uint32
	DstArrayElement uint32
	DescriptorCount uint32
}

func (c VkCopyDescriptorSet) encode(w binary.Writer) {
	w.Uint64(uint64(c.SrcSet))
	w.Uint32(c.SrcBinding)
	w.Uint32(c.SrcArrayElement)
	w.Uint64(uint64(c.DstSet))
	w.Uint32(c.DstBinding)
	w.Uint32(c.DstArrayElement)
	w.Uint32(c.DescriptorCount)
}

// descriptorInfoKind is the write array a descriptor type reads.
type descriptorInfoKind int

const (
	descriptorInfoNone descriptorInfoKind = iota
	descriptorInfoImage
	descriptorInfoBuffer
	descriptorInfoTexelView
)

func descriptorInfoKindOf(t VkDescriptorType) descriptorInfoKind {
	switch t {
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_IMAGE,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT:
		return descriptorInfoImage
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER_DYNAMIC,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER_DYNAMIC:
		return descriptorInfoBuffer
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER,
		VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_TEXEL_BUFFER:
		return descriptorInfoTexelView
	}
	return descriptorInfoNone
}

// ignoredImageFields reports which fields of the image infos of a write of
// type t to binding are ignored.
func ignoredImageFields(t VkDescriptorType, binding *descriptorSetLayoutBinding) (sampler, imageView bool) {
	switch t {
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER:
		return binding != nil && binding.hasImmutableSamplers, true
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER:
		return binding != nil && binding.hasImmutableSamplers, false
	}
	return true, false
}

// needsSanitizing reports whether w carries values the host must not see.
func needsSanitizing(w *VkWriteDescriptorSet, binding *descriptorSetLayoutBinding) bool {
	switch descriptorInfoKindOf(w.DescriptorType) {
	case descriptorInfoImage:
		if w.BufferInfo != nil || w.TexelBufferView != nil {
			return true
		}
		ignoreSampler, ignoreView := ignoredImageFields(w.DescriptorType, binding)
		for _, info := range w.ImageInfo {
			if (ignoreSampler && info.Sampler != 0) || (ignoreView && info.ImageView != 0) {
				return true
			}
		}
		return false
	case descriptorInfoBuffer:
		return w.ImageInfo != nil || w.TexelBufferView != nil
	case descriptorInfoTexelView:
		return w.ImageInfo != nil || w.BufferInfo != nil
	}
	return w.ImageInfo != nil || w.BufferInfo != nil || w.TexelBufferView != nil
}

// sanitize clears the fields of w ignored for its descriptor type.
func sanitize(w *VkWriteDescriptorSet, binding *descriptorSetLayoutBinding) {
	switch descriptorInfoKindOf(w.DescriptorType) {
	case descriptorInfoImage:
		ignoreSampler, ignoreView := ignoredImageFields(w.DescriptorType, binding)
		infos := make([]VkDescriptorImageInfo, len(w.ImageInfo))
		for i, info := range w.ImageInfo {
			if ignoreSampler {
				info.Sampler = 0
			}
			if ignoreView {
				info.ImageView = 0
			}
			infos[i] = info
		}
		w.ImageInfo = infos
		w.BufferInfo = nil
		w.TexelBufferView = nil
	case descriptorInfoBuffer:
		w.ImageInfo = nil
		w.TexelBufferView = nil
	case descriptorInfoTexelView:
		w.ImageInfo = nil
		w.BufferInfo = nil
	default:
		w.ImageInfo = nil
		w.BufferInfo = nil
		w.TexelBufferView = nil
	}
}

// sanitizeDescriptorWrites returns writes with the ignored fields of every
// write cleared. layout resolves the set layout a write targets. writes is
// returned as is when nothing needs clearing.
func sanitizeDescriptorWrites(writes []VkWriteDescriptorSet, layout func(*VkWriteDescriptorSet) *DescriptorSetLayout) []VkWriteDescriptorSet {
	bindingOf := func(w *VkWriteDescriptorSet) *descriptorSetLayoutBinding {
		if l := layout(w); l != nil {
			return l.binding(w.DstBinding)
		}
		return nil
	}
	i := 0
	for ; i < len(writes); i++ {
		if needsSanitizing(&writes[i], bindingOf(&writes[i])) {
			break
		}
	}
	if i == len(writes) {
		return writes
	}
	out := append([]VkWriteDescriptorSet{}, writes...)
	for ; i < len(out); i++ {
		if b := bindingOf(&out[i]); needsSanitizing(&out[i], b) {
			sanitize(&out[i], b)
		}
	}
	return out
}

// AllocateDescriptorSets allocates one set per layout. Pools that account
// for their capacity locally allocate without waiting for the host; either
// every set is allocated or none is.
func (d *Device) AllocateDescriptorSets(ctx context.Context, info *VkDescriptorSetAllocateInfo) ([]VkDescriptorSet, error) {
	pool := d.descriptorPools.get(info.DescriptorPool)
	if pool == nil {
		invariant(false, "Unknown descriptor pool %#x", info.DescriptorPool)
		return nil, VkResult_VK_ERROR_OUT_OF_HOST_MEMORY
	}
	variable, _ := findStruct[*VkDescriptorSetVariableDescriptorCountAllocateInfo](info.PNext)

	sets := make([]*DescriptorSet, 0, len(info.SetLayouts))
	fail := func(err error) ([]VkDescriptorSet, error) {
		for _, set := range sets {
			if pool.asyncSetAllocation {
				pool.freeDescriptors(set.layout, set.lastBindingCount)
			}
			set.layout.unref(ctx)
		}
		return nil, err
	}

	for i, h := range info.SetLayouts {
		layout := d.descriptorSetLayouts.get(h)
		if layout == nil {
			invariant(false, "Unknown descriptor set layout %#x", h)
			return fail(VkResult_VK_ERROR_OUT_OF_HOST_MEMORY)
		}
		var variableCount uint32
		if variable != nil && i < len(variable.DescriptorCounts) {
			variableCount = variable.DescriptorCounts[i]
		}
		lastCount := layout.lastBindingCount(variableCount)
		if pool.asyncSetAllocation && !pool.allocDescriptors(layout, lastCount) {
			log.D(ctx, "Descriptor pool %#x exhausted at set %d", pool.handle, i)
			return fail(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
		}
		sets = append(sets, &DescriptorSet{
			handle:           VkDescriptorSet(newHandle()),
			pool:             pool,
			layout:           layout.ref(),
			lastBindingCount: lastCount,
		})
	}

	handles := make([]VkDescriptorSet, len(sets))
	for i, set := range sets {
		handles[i] = set.handle
	}
	encode := func(w binary.Writer) {
		encodeHandles(w, handles)
		info.encode(w)
	}
	if pool.asyncSetAllocation {
		if err := d.async(ctx, protocol.AllocateDescriptorSets, encode); err != nil {
			return fail(err)
		}
	} else if res, _ := d.call(ctx, protocol.AllocateDescriptorSets, encode); res != VkResult_VK_SUCCESS {
		return fail(res)
	}

	for _, set := range sets {
		pool.sets[set.handle] = set
		d.descriptorSets.add(set.handle, set)
	}
	return handles, nil
}

func (d *Device) FreeDescriptorSets(ctx context.Context, pool VkDescriptorPool, sets []VkDescriptorSet) error {
	p := d.descriptorPools.get(pool)
	if p == nil {
		return nil
	}
	err := d.async(ctx, protocol.FreeDescriptorSets, func(w binary.Writer) {
		w.Uint64(uint64(pool))
		encodeHandles(w, sets)
	})
	for _, h := range sets {
		set := p.sets[h]
		if set == nil {
			continue
		}
		delete(p.sets, h)
		d.descriptorSets.remove(h)
		if p.asyncSetAllocation {
			p.freeDescriptors(set.layout, set.lastBindingCount)
		}
		set.layout.unref(ctx)
	}
	return err
}

// setLayout returns the layout of the set a write targets.
func (d *Device) setLayout(w *VkWriteDescriptorSet) *DescriptorSetLayout {
	if set := d.descriptorSets.get(w.DstSet); set != nil {
		return set.layout
	}
	return nil
}

func (d *Device) UpdateDescriptorSets(ctx context.Context, writes []VkWriteDescriptorSet, copies []VkCopyDescriptorSet) {
	writes = sanitizeDescriptorWrites(writes, d.setLayout)
	err := d.async(ctx, protocol.UpdateDescriptorSets, func(w binary.Writer) {
		encodeArray(w, writes)
		encodeArray(w, copies)
	})
	if err != nil {
		log.W(ctx, "Descriptor set update dropped: %v", err)
	}
}

// pushDescriptorLayout returns the push descriptor set layout of a pipeline
// layout.
func (d *Device) pushDescriptorLayout(layout VkPipelineLayout) *DescriptorSetLayout {
	if l := d.pipelineLayouts.get(layout); l != nil {
		return l.pushDescriptorLayout
	}
	return nil
}

func (cb *CommandBuffer) CmdPushDescriptorSetKHR(ctx context.Context, bindPoint VkPipelineBindPoint, layout VkPipelineLayout,
	set uint32, writes []VkWriteDescriptorSet) {
	pushLayout := cb.device.pushDescriptorLayout(layout)
	writes = sanitizeDescriptorWrites(writes, func(*VkWriteDescriptorSet) *DescriptorSetLayout { return pushLayout })
	cb.encodePushDescriptorSet(ctx, bindPoint, layout, set, writes)
}

func (cb *CommandBuffer) encodePushDescriptorSet(ctx context.Context, bindPoint VkPipelineBindPoint, layout VkPipelineLayout,
	set uint32, writes []VkWriteDescriptorSet) {
	cb.enqueue(ctx, protocol.CmdPushDescriptorSetKHR, func(w binary.Writer) {
		w.Uint32(uint32(bindPoint))
		w.Uint64(uint64(layout))
		w.Uint32(set)
		encodeArray(w, writes)
	})
}
