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

// descriptorTypeIndex is the dense index of a descriptor type used for
// pool accounting.
type descriptorTypeIndex int

const (
	descriptorTypeInlineUniformBlock descriptorTypeIndex = iota + 11
	descriptorTypeAccelerationStructure
	descriptorTypeMutable
	descriptorTypeCount
)

func descriptorIndex(t VkDescriptorType) descriptorTypeIndex {
	switch t {
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK:
		return descriptorTypeInlineUniformBlock
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_ACCELERATION_STRUCTURE_KHR:
		return descriptorTypeAccelerationStructure
	case VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT:
		return descriptorTypeMutable
	}
	invariant(t <= VkDescriptorType_VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT, "Unknown descriptor type %d", t)
	return descriptorTypeIndex(t)
}

// descriptorTypeSet is a bitset of descriptor type indices.
type descriptorTypeSet uint32

func newDescriptorTypeSet(types []VkDescriptorType) descriptorTypeSet {
	var s descriptorTypeSet
	for _, t := range types {
		s |= 1 << descriptorIndex(t)
	}
	return s
}

func (s descriptorTypeSet) contains(o descriptorTypeSet) bool { return s&o == o }

type VkDescriptorSetLayoutBinding struct {
	Binding           uint32
	DescriptorType    VkDescriptorType
	DescriptorCount   uint32
	StageFlags        VkShaderStageFlags
	ImmutableSamplers []VkSampler
}

func (b VkDescriptorSetLayoutBinding) encode(w binary.Writer) {
	w.Uint32(b.Binding)
	w.Uint32(uint32(b.DescriptorType))
	w.Uint32(b.DescriptorCount)
	w.Uint32(uint32(b.StageFlags))
	w.Bool(b.ImmutableSamplers != nil)
	if b.ImmutableSamplers != nil {
		encodeHandles(w, b.ImmutableSamplers)
	}
}

type VkDescriptorSetLayoutCreateInfo struct {
	PNext    []VkStructure
	Flags    VkDescriptorSetLayoutCreateFlags
	Bindings []VkDescriptorSetLayoutBinding
}

func (i VkDescriptorSetLayoutCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	encodeArray(w, i.Bindings)
}

type VkDescriptorSetLayoutBindingFlagsCreateInfo struct {
	BindingFlags []VkDescriptorBindingFlags
}

func (*VkDescriptorSetLayoutBindingFlagsCreateInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_SET_LAYOUT_BINDING_FLAGS_CREATE_INFO
}

func (s *VkDescriptorSetLayoutBindingFlagsCreateInfo) encode(w binary.Writer) {
	encodeUint32s(w, s.BindingFlags)
}

type VkMutableDescriptorTypeListEXT struct {
	DescriptorTypes []VkDescriptorType
}

func (l VkMutableDescriptorTypeListEXT) encode(w binary.Writer) { encodeUint32s(w, l.DescriptorTypes) }

// VkMutableDescriptorTypeCreateInfoEXT lists the types a mutable binding or
// pool size may hold, indexed like the bindings or pool sizes it extends.
type VkMutableDescriptorTypeCreateInfoEXT struct {
	MutableDescriptorTypeLists []VkMutableDescriptorTypeListEXT
}

func (*VkMutableDescriptorTypeCreateInfoEXT) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_MUTABLE_DESCRIPTOR_TYPE_CREATE_INFO_EXT
}

func (s *VkMutableDescriptorTypeCreateInfoEXT) encode(w binary.Writer) {
	encodeArray(w, s.MutableDescriptorTypeLists)
}

func (s *VkMutableDescriptorTypeCreateInfoEXT) types(i int) descriptorTypeSet {
	if s == nil || i >= len(s.MutableDescriptorTypeLists) {
		return 0
	}
	return newDescriptorTypeSet(s.MutableDescriptorTypeLists[i].DescriptorTypes)
}

type descriptorSetLayoutBinding struct {
	descriptorType       VkDescriptorType
	count                uint32
	hasImmutableSamplers bool
	mutableTypes         descriptorTypeSet
}

// DescriptorSetLayout is the shadow of a VkDescriptorSetLayout. It stays
// alive while descriptor sets or pipeline layouts refer to it.
type DescriptorSetLayout struct {
	device   *Device
	handle   VkDescriptorSetLayout
	refcount atomic.Int32
	// bindings is indexed by binding number.
	bindings                   []descriptorSetLayoutBinding
	lastBinding                uint32
	hasVariableDescriptorCount bool
	isPushDescriptor           bool
}

func (l *DescriptorSetLayout) ref() *DescriptorSetLayout {
	l.refcount.Add(1)
	return l
}

// unref drops a reference and destroys the host layout with the last one.
func (l *DescriptorSetLayout) unref(ctx context.Context) {
	if l.refcount.Add(-1) == 0 {
		l.device.destroy(ctx, protocol.DestroyDescriptorSetLayout, uint64(l.handle))
	}
}

func (l *DescriptorSetLayout) binding(i uint32) *descriptorSetLayoutBinding {
	if int(i) < len(l.bindings) {
		return &l.bindings[i]
	}
	return nil
}

// lastBindingCount returns the number of descriptors in the last binding of
// a set using l allocated with the given variable descriptor count.
func (l *DescriptorSetLayout) lastBindingCount(variableCount uint32) uint32 {
	if len(l.bindings) == 0 {
		return 0
	}
	if l.hasVariableDescriptorCount {
		return variableCount
	}
	return l.bindings[l.lastBinding].count
}

func newDescriptorSetLayout(d *Device, info *VkDescriptorSetLayoutCreateInfo) *DescriptorSetLayout {
	l := &DescriptorSetLayout{
		device:           d,
		handle:           VkDescriptorSetLayout(newHandle()),
		isPushDescriptor: info.Flags&VkDescriptorSetLayoutCreateFlagBits_VK_DESCRIPTOR_SET_LAYOUT_CREATE_PUSH_DESCRIPTOR_BIT_KHR != 0,
	}
	l.refcount.Store(1)
	if len(info.Bindings) == 0 {
		return l
	}
	for _, b := range info.Bindings {
		if b.Binding > l.lastBinding {
			l.lastBinding = b.Binding
		}
	}
	l.bindings = make([]descriptorSetLayoutBinding, l.lastBinding+1)
	flags, _ := findStruct[*VkDescriptorSetLayoutBindingFlagsCreateInfo](info.PNext)
	mutable, _ := findStruct[*VkMutableDescriptorTypeCreateInfoEXT](info.PNext)
	for i, b := range info.Bindings {
		binding := &l.bindings[b.Binding]
		binding.descriptorType = b.DescriptorType
		binding.count = b.DescriptorCount
		switch b.DescriptorType {
		case VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER, VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER:
			binding.hasImmutableSamplers = len(b.ImmutableSamplers) > 0
		case VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT:
			binding.mutableTypes = mutable.types(i)
		}
		if b.Binding == l.lastBinding && flags != nil && i < len(flags.BindingFlags) &&
			flags.BindingFlags[i]&VkDescriptorBindingFlagBits_VK_DESCRIPTOR_BINDING_VARIABLE_DESCRIPTOR_COUNT_BIT != 0 {
			l.hasVariableDescriptorCount = true
		}
	}
	return l
}

func (d *Device) CreateDescriptorSetLayout(ctx context.Context, info *VkDescriptorSetLayoutCreateInfo) (VkDescriptorSetLayout, error) {
	l := newDescriptorSetLayout(d, info)
	err := d.async(ctx, protocol.CreateDescriptorSetLayout, func(w binary.Writer) {
		w.Uint64(uint64(l.handle))
		info.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.descriptorSetLayouts.add(l.handle, l)
	return l.handle, nil
}

// DestroyDescriptorSetLayout drops the application's reference. The host
// layout lives on until no set or pipeline layout uses it.
func (d *Device) DestroyDescriptorSetLayout(ctx context.Context, layout VkDescriptorSetLayout) {
	if l := d.descriptorSetLayouts.remove(layout); l != nil {
		l.unref(ctx)
	}
}

type VkDescriptorSetLayoutSupport struct {
	Supported bool
	// MaxVariableDescriptorCount is only reported for layouts with a
	// variable descriptor count binding.
	MaxVariableDescriptorCount uint32
}

// GetDescriptorSetLayoutSupport asks the host whether a layout could be
// created.
func (d *Device) GetDescriptorSetLayoutSupport(ctx context.Context, info *VkDescriptorSetLayoutCreateInfo) VkDescriptorSetLayoutSupport {
	res, r := d.call(ctx, protocol.GetDescriptorSetLayoutSupport, info.encode)
	if res != VkResult_VK_SUCCESS {
		log.W(ctx, "Descriptor set layout support query failed: %v", res)
		return VkDescriptorSetLayoutSupport{}
	}
	support := VkDescriptorSetLayoutSupport{Supported: r.Bool(), MaxVariableDescriptorCount: r.Uint32()}
	if err := r.Error(); err != nil {
		log.W(ctx, "Bad descriptor set layout support reply: %v", err)
		return VkDescriptorSetLayoutSupport{}
	}
	return support
}
