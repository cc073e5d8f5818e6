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
	"sync"

	"github.com/google/venus/core/data/endian"
	"github.com/google/venus/core/log"
	"github.com/pkg/errors"
)

// Sizes of the descriptor infos in template data.
const (
	templateImageInfoSize  = 24
	templateBufferInfoSize = 24
	templateTexelViewSize  = 8
)

type VkDescriptorUpdateTemplateEntry struct {
	DstBinding      uint32
	DstArrayElement uint32
	DescriptorCount uint32
	DescriptorType  VkDescriptorType
	Offset          uint64
	Stride          uint64
}

type VkDescriptorUpdateTemplateCreateInfo struct {
	Entries             []VkDescriptorUpdateTemplateEntry
	TemplateType        VkDescriptorUpdateTemplateType
	DescriptorSetLayout VkDescriptorSetLayout
	PipelineBindPoint   VkPipelineBindPoint
	PipelineLayout      VkPipelineLayout
	Set                 uint32
}

// DescriptorUpdateTemplate turns template data into descriptor writes. It
// exists only on the client: updates reach the host as plain writes.
//
// A template may be used from several threads at once, so the scratch
// writes are guarded by mu.
type DescriptorUpdateTemplate struct {
	handle            VkDescriptorUpdateTemplate
	entries           []VkDescriptorUpdateTemplateEntry
	pipelineBindPoint VkPipelineBindPoint

	mu     sync.Mutex
	writes []VkWriteDescriptorSet
	images []VkDescriptorImageInfo
	bufs   []VkDescriptorBufferInfo
	views  []VkBufferView
	blocks []VkWriteDescriptorSetInlineUniformBlock
}

func (d *Device) CreateDescriptorUpdateTemplate(ctx context.Context, info *VkDescriptorUpdateTemplateCreateInfo) (VkDescriptorUpdateTemplate, error) {
	t := &DescriptorUpdateTemplate{
		handle:            VkDescriptorUpdateTemplate(newHandle()),
		entries:           append([]VkDescriptorUpdateTemplateEntry{}, info.Entries...),
		pipelineBindPoint: info.PipelineBindPoint,
	}
	var images, bufs, views, blocks int
	for _, e := range info.Entries {
		if e.DescriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK {
			blocks++
			continue
		}
		switch descriptorInfoKindOf(e.DescriptorType) {
		case descriptorInfoImage:
			images += int(e.DescriptorCount)
		case descriptorInfoBuffer:
			bufs += int(e.DescriptorCount)
		case descriptorInfoTexelView:
			views += int(e.DescriptorCount)
		}
	}
	t.writes = make([]VkWriteDescriptorSet, len(info.Entries))
	t.images = make([]VkDescriptorImageInfo, images)
	t.bufs = make([]VkDescriptorBufferInfo, bufs)
	t.views = make([]VkBufferView, views)
	t.blocks = make([]VkWriteDescriptorSetInlineUniformBlock, blocks)
	d.descriptorUpdateTemplates.add(t.handle, t)
	log.D(ctx, "Created descriptor update template %#x with %d entries", t.handle, len(t.entries))
	return t.handle, nil
}

func (d *Device) DestroyDescriptorUpdateTemplate(ctx context.Context, template VkDescriptorUpdateTemplate) {
	d.descriptorUpdateTemplates.remove(template)
}

// templateEntryEnd returns the end offset of the template data e reads.
// Inline uniform blocks are sized in bytes.
func templateEntryEnd(e VkDescriptorUpdateTemplateEntry) uint64 {
	n := uint64(e.DescriptorCount)
	if n == 0 {
		return 0
	}
	if e.DescriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK {
		return e.Offset + n
	}
	var size uint64
	switch descriptorInfoKindOf(e.DescriptorType) {
	case descriptorInfoImage:
		size = templateImageInfoSize
	case descriptorInfoBuffer:
		size = templateBufferInfoSize
	case descriptorInfoTexelView:
		size = templateTexelViewSize
	}
	return e.Offset + (n-1)*e.Stride + size
}

// parseLocked decodes data into writes to set. The returned writes alias
// the template scratch and are only valid while mu is held.
func (t *DescriptorUpdateTemplate) parseLocked(set VkDescriptorSet, data []byte) ([]VkWriteDescriptorSet, error) {
	images, bufs, views, blocks := t.images, t.bufs, t.views, t.blocks
	for i, e := range t.entries {
		w := VkWriteDescriptorSet{
			DstSet:          set,
			DstBinding:      e.DstBinding,
			DstArrayElement: e.DstArrayElement,
			DescriptorCount: e.DescriptorCount,
			DescriptorType:  e.DescriptorType,
		}
		n := int(e.DescriptorCount)
		if templateEntryEnd(e) > uint64(len(data)) {
			return nil, errors.Errorf("descriptors of binding %d out of range", e.DstBinding)
		}
		at := func(j int) *endian.BytesReader {
			return endian.ReaderForBytes(data[e.Offset+uint64(j)*e.Stride:], endian.Little)
		}
		if e.DescriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK {
			blocks[0] = VkWriteDescriptorSetInlineUniformBlock{Data: data[e.Offset : e.Offset+uint64(n)]}
			w.PNext = []VkStructure{&blocks[0]}
			blocks = blocks[1:]
			t.writes[i] = w
			continue
		}
		switch descriptorInfoKindOf(e.DescriptorType) {
		case descriptorInfoImage:
			w.ImageInfo = images[:n:n]
			images = images[n:]
			for j := range w.ImageInfo {
				r := at(j)
				w.ImageInfo[j] = VkDescriptorImageInfo{
					Sampler:     VkSampler(r.Uint64()),
					ImageView:   VkImageView(r.Uint64()),
					ImageLayout: VkImageLayout(r.Uint32()),
				}
			}
		case descriptorInfoBuffer:
			w.BufferInfo = bufs[:n:n]
			bufs = bufs[n:]
			for j := range w.BufferInfo {
				r := at(j)
				w.BufferInfo[j] = VkDescriptorBufferInfo{
					Buffer: VkBuffer(r.Uint64()),
					Offset: VkDeviceSize(r.Uint64()),
					Range:  VkDeviceSize(r.Uint64()),
				}
			}
		case descriptorInfoTexelView:
			w.TexelBufferView = views[:n:n]
			views = views[n:]
			for j := range w.TexelBufferView {
				w.TexelBufferView[j] = VkBufferView(at(j).Uint64())
			}
		}
		t.writes[i] = w
	}
	return t.writes, nil
}

// UpdateDescriptorSetWithTemplate updates set from data laid out as the
// template describes.
func (d *Device) UpdateDescriptorSetWithTemplate(ctx context.Context, set VkDescriptorSet, template VkDescriptorUpdateTemplate, data []byte) {
	t := d.descriptorUpdateTemplates.get(template)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	writes, err := t.parseLocked(set, data)
	if err != nil {
		log.W(ctx, "Descriptor update template %#x: %v", template, err)
		return
	}
	d.UpdateDescriptorSets(ctx, writes, nil)
}

func (cb *CommandBuffer) CmdPushDescriptorSetWithTemplateKHR(ctx context.Context, template VkDescriptorUpdateTemplate,
	layout VkPipelineLayout, set uint32, data []byte) {
	t := cb.device.descriptorUpdateTemplates.get(template)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	writes, err := t.parseLocked(0, data)
	if err != nil {
		log.W(ctx, "Descriptor update template %#x: %v", template, err)
		cb.setInvalid(ctx, err.Error())
		return
	}
	pushLayout := cb.device.pushDescriptorLayout(layout)
	writes = sanitizeDescriptorWrites(writes, func(*VkWriteDescriptorSet) *DescriptorSetLayout { return pushLayout })
	cb.encodePushDescriptorSet(ctx, t.pipelineBindPoint, layout, set, writes)
}
