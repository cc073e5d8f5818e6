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
	"github.com/google/venus/protocol"
)

type VkPushConstantRange struct {
	StageFlags VkShaderStageFlags
	Offset     uint32
	Size       uint32
}

func (r VkPushConstantRange) encode(w binary.Writer) {
	w.Uint32(uint32(r.StageFlags))
	w.Uint32(r.Offset)
	w.Uint32(r.Size)
}

type VkPipelineLayoutCreateInfo struct {
	Flags              VkPipelineLayoutCreateFlags
	SetLayouts         []VkDescriptorSetLayout
	PushConstantRanges []VkPushConstantRange
}

func (i VkPipelineLayoutCreateInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	encodeHandles(w, i.SetLayouts)
	encodeArray(w, i.PushConstantRanges)
}

// PipelineLayout is the shadow of a VkPipelineLayout. Pipelines that need
// it while recording keep it alive.
type PipelineLayout struct {
	device   *Device
	handle   VkPipelineLayout
	refcount atomic.Int32
	// pushDescriptorLayout is the set layout created with push descriptors,
	// if any.
	pushDescriptorLayout  *DescriptorSetLayout
	hasPushConstantRanges bool
}

func (l *PipelineLayout) ref() *PipelineLayout {
	l.refcount.Add(1)
	return l
}

func (l *PipelineLayout) unref(ctx context.Context) {
	if l.refcount.Add(-1) != 0 {
		return
	}
	l.device.destroy(ctx, protocol.DestroyPipelineLayout, uint64(l.handle))
	if l.pushDescriptorLayout != nil {
		l.pushDescriptorLayout.unref(ctx)
	}
}

// neededByPipelines reports whether pipelines must keep the layout alive.
func (l *PipelineLayout) neededByPipelines() bool {
	return l.pushDescriptorLayout != nil || l.hasPushConstantRanges
}

func (d *Device) CreatePipelineLayout(ctx context.Context, info *VkPipelineLayoutCreateInfo) (VkPipelineLayout, error) {
	l := &PipelineLayout{
		device:                d,
		handle:                VkPipelineLayout(newHandle()),
		hasPushConstantRanges: len(info.PushConstantRanges) > 0,
	}
	l.refcount.Store(1)
	for _, h := range info.SetLayouts {
		if set := d.descriptorSetLayouts.get(h); set != nil && set.isPushDescriptor {
			l.pushDescriptorLayout = set.ref()
			break
		}
	}
	err := d.async(ctx, protocol.CreatePipelineLayout, func(w binary.Writer) {
		w.Uint64(uint64(l.handle))
		info.encode(w)
	})
	if err != nil {
		if l.pushDescriptorLayout != nil {
			l.pushDescriptorLayout.unref(ctx)
		}
		return 0, err
	}
	d.pipelineLayouts.add(l.handle, l)
	return l.handle, nil
}

func (d *Device) DestroyPipelineLayout(ctx context.Context, layout VkPipelineLayout) {
	if l := d.pipelineLayouts.remove(layout); l != nil {
		l.unref(ctx)
	}
}
