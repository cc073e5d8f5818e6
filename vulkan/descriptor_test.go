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
	"bytes"
	"context"
	"testing"

	"github.com/google/venus/config"
	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/data/endian"
	"github.com/google/venus/protocol"
)

func newTestSetLayout(ctx context.Context, t *testing.T, d *Device, info *VkDescriptorSetLayoutCreateInfo) VkDescriptorSetLayout {
	l, err := d.CreateDescriptorSetLayout(ctx, info)
	assert.To(t).For("create set layout").ThatError(err).Succeeded()
	return l
}

func newTestDescriptorPool(ctx context.Context, t *testing.T, d *Device, info *VkDescriptorPoolCreateInfo) *DescriptorPool {
	h, err := d.CreateDescriptorPool(ctx, info)
	assert.To(t).For("create pool").ThatError(err).Succeeded()
	return d.descriptorPools.get(h)
}

func bufferImageLayout() *VkDescriptorSetLayoutCreateInfo {
	return &VkDescriptorSetLayoutCreateInfo{
		Bindings: []VkDescriptorSetLayoutBinding{
			{Binding: 0, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 2},
			{Binding: 1, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 1},
		},
	}
}

func TestDescriptorSetAllocationIsConserved(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, bufferImageLayout())
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		MaxSets: 3,
		PoolSizes: []VkDescriptorPoolSize{
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 4},
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 2},
		},
	})
	assert.To(t).For("async").That(pool.asyncSetAllocation).IsTrue()
	initial := pool.used

	sets, err := d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{
		DescriptorPool: pool.handle,
		SetLayouts:     []VkDescriptorSetLayout{layout, layout},
	})
	assert.To(t).For("allocate").ThatError(err).Succeeded()
	assert.To(t).For("sets").ThatSlice(sets).IsLength(2)
	assert.To(t).For("set count").That(pool.used.setCount).Equals(uint32(2))
	ub := descriptorIndex(VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER)
	assert.To(t).For("uniform buffers").That(pool.used.descriptorCounts[ub]).Equals(uint32(4))
	assert.To(t).For("calls").ThatSlice(rec.Calls()).IsEmpty()
	assert.To(t).For("layout refs").That(d.descriptorSetLayouts.get(layout).refcount.Load()).Equals(int32(3))

	assert.To(t).For("free").ThatError(d.FreeDescriptorSets(ctx, pool.handle, sets)).Succeeded()
	assert.To(t).For("used").That(pool.used).Equals(initial)
	assert.To(t).For("set table").That(d.descriptorSets.get(sets[0]) == nil).IsTrue()
	assert.To(t).For("layout refs").That(d.descriptorSetLayouts.get(layout).refcount.Load()).Equals(int32(1))
}

func TestDescriptorSetAllocationIsAtomic(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, bufferImageLayout())
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		MaxSets: 3,
		PoolSizes: []VkDescriptorPoolSize{
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 3},
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 2},
		},
	})
	initial := pool.used
	rec.Clear()

	sets, err := d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{
		DescriptorPool: pool.handle,
		SetLayouts:     []VkDescriptorSetLayout{layout, layout},
	})
	assert.To(t).For("error").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
	assert.To(t).For("sets").ThatSlice(sets).IsEmpty()
	assert.To(t).For("used").That(pool.used).Equals(initial)
	assert.To(t).For("frames").ThatSlice(rec.FramesOf(protocol.AllocateDescriptorSets)).IsEmpty()
	assert.To(t).For("layout refs").That(d.descriptorSetLayouts.get(layout).refcount.Load()).Equals(int32(1))

	_, err = d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{
		DescriptorPool: pool.handle,
		SetLayouts:     []VkDescriptorSetLayout{layout},
	})
	assert.To(t).For("single set fits").ThatError(err).Succeeded()
}

func TestDescriptorPoolSetLimit(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, &VkDescriptorSetLayoutCreateInfo{})
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{MaxSets: 1})
	info := &VkDescriptorSetAllocateInfo{DescriptorPool: pool.handle, SetLayouts: []VkDescriptorSetLayout{layout}}
	_, err := d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("first").ThatError(err).Succeeded()
	_, err = d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("second").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
}

func TestInlineUniformBlockAccounting(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, &VkDescriptorSetLayoutCreateInfo{
		Bindings: []VkDescriptorSetLayoutBinding{
			{Binding: 0, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK, DescriptorCount: 16},
		},
	})
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		PNext:   []VkStructure{&VkDescriptorPoolInlineUniformBlockCreateInfo{MaxInlineUniformBlockBindings: 1}},
		MaxSets: 4,
		PoolSizes: []VkDescriptorPoolSize{
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK, DescriptorCount: 64},
		},
	})
	info := &VkDescriptorSetAllocateInfo{DescriptorPool: pool.handle, SetLayouts: []VkDescriptorSetLayout{layout}}
	_, err := d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("first").ThatError(err).Succeeded()
	assert.To(t).For("bindings").That(pool.used.iubBindingCount).Equals(uint32(1))
	assert.To(t).For("bytes").That(pool.used.descriptorCounts[descriptorTypeInlineUniformBlock]).Equals(uint32(16))
	_, err = d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("binding limit").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
	assert.To(t).For("bindings after failure").That(pool.used.iubBindingCount).Equals(uint32(1))
}

func TestVariableDescriptorCount(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, &VkDescriptorSetLayoutCreateInfo{
		PNext: []VkStructure{&VkDescriptorSetLayoutBindingFlagsCreateInfo{
			BindingFlags: []VkDescriptorBindingFlags{0, VkDescriptorBindingFlagBits_VK_DESCRIPTOR_BINDING_VARIABLE_DESCRIPTOR_COUNT_BIT},
		}},
		Bindings: []VkDescriptorSetLayoutBinding{
			{Binding: 0, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 1},
			{Binding: 3, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE, DescriptorCount: 100},
		},
	})
	l := d.descriptorSetLayouts.get(layout)
	assert.To(t).For("last binding").That(l.lastBinding).Equals(uint32(3))
	assert.To(t).For("variable").That(l.hasVariableDescriptorCount).IsTrue()
	assert.To(t).For("holes").That(l.bindings[1].count).Equals(uint32(0))

	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		MaxSets: 2,
		PoolSizes: []VkDescriptorPoolSize{
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 2},
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE, DescriptorCount: 20},
		},
	})
	sets, err := d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{
		PNext:          []VkStructure{&VkDescriptorSetVariableDescriptorCountAllocateInfo{DescriptorCounts: []uint32{10}}},
		DescriptorPool: pool.handle,
		SetLayouts:     []VkDescriptorSetLayout{layout},
	})
	assert.To(t).For("allocate").ThatError(err).Succeeded()
	sampled := descriptorIndex(VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE)
	assert.To(t).For("sampled images").That(pool.used.descriptorCounts[sampled]).Equals(uint32(10))
	assert.To(t).For("set count").That(d.descriptorSets.get(sets[0]).lastBindingCount).Equals(uint32(10))

	_, err = d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{
		PNext:          []VkStructure{&VkDescriptorSetVariableDescriptorCountAllocateInfo{DescriptorCounts: []uint32{11}}},
		DescriptorPool: pool.handle,
		SetLayouts:     []VkDescriptorSetLayout{layout},
	})
	assert.To(t).For("too many").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
}

func TestMutableDescriptorBuckets(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	mutableLayout := func(types ...VkDescriptorType) VkDescriptorSetLayout {
		return newTestSetLayout(ctx, t, d, &VkDescriptorSetLayoutCreateInfo{
			PNext: []VkStructure{&VkMutableDescriptorTypeCreateInfoEXT{
				MutableDescriptorTypeLists: []VkMutableDescriptorTypeListEXT{{DescriptorTypes: types}},
			}},
			Bindings: []VkDescriptorSetLayoutBinding{
				{Binding: 0, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT, DescriptorCount: 3},
			},
		})
	}
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		PNext: []VkStructure{&VkMutableDescriptorTypeCreateInfoEXT{
			MutableDescriptorTypeLists: []VkMutableDescriptorTypeListEXT{{DescriptorTypes: []VkDescriptorType{
				VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE,
				VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER,
			}}},
		}},
		MaxSets: 4,
		PoolSizes: []VkDescriptorPoolSize{
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT, DescriptorCount: 4},
		},
	})
	assert.To(t).For("buckets").ThatSlice(pool.mutableBuckets).IsLength(1)

	image := mutableLayout(VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE)
	info := &VkDescriptorSetAllocateInfo{DescriptorPool: pool.handle, SetLayouts: []VkDescriptorSetLayout{image}}
	_, err := d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("subset").ThatError(err).Succeeded()
	assert.To(t).For("bucket used").That(pool.mutableBuckets[0].used).Equals(uint32(3))
	_, err = d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("bucket full").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
	assert.To(t).For("bucket after failure").That(pool.mutableBuckets[0].used).Equals(uint32(3))

	uniform := mutableLayout(VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER)
	_, err = d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{DescriptorPool: pool.handle, SetLayouts: []VkDescriptorSetLayout{uniform}})
	assert.To(t).For("no bucket").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
}

func TestResetDescriptorPool(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, bufferImageLayout())
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		MaxSets: 2,
		PoolSizes: []VkDescriptorPoolSize{
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 4},
			{Type: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 2},
		},
	})
	sets, err := d.AllocateDescriptorSets(ctx, &VkDescriptorSetAllocateInfo{
		DescriptorPool: pool.handle,
		SetLayouts:     []VkDescriptorSetLayout{layout, layout},
	})
	assert.To(t).For("allocate").ThatError(err).Succeeded()
	d.DestroyDescriptorSetLayout(ctx, layout)
	assert.To(t).For("layout kept alive").ThatSlice(rec.FramesOf(protocol.DestroyDescriptorSetLayout)).IsEmpty()

	assert.To(t).For("reset").ThatError(d.ResetDescriptorPool(ctx, pool.handle, 0)).Succeeded()
	assert.To(t).For("used").That(pool.used).Equals(descriptorPoolState{})
	assert.To(t).For("sets").That(len(pool.sets)).Equals(0)
	assert.To(t).For("set table").That(d.descriptorSets.get(sets[1]) == nil).IsTrue()
	assert.To(t).For("layout destroyed").ThatSlice(rec.FramesOf(protocol.DestroyDescriptorSetLayout)).IsLength(1)
}

func TestFreeableDescriptorPoolAllocatesSynchronously(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	layout := newTestSetLayout(ctx, t, d, bufferImageLayout())
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{
		Flags:   VkDescriptorPoolCreateFlagBits_VK_DESCRIPTOR_POOL_CREATE_FREE_DESCRIPTOR_SET_BIT,
		MaxSets: 1,
	})
	assert.To(t).For("async").That(pool.asyncSetAllocation).IsFalse()
	info := &VkDescriptorSetAllocateInfo{DescriptorPool: pool.handle, SetLayouts: []VkDescriptorSetLayout{layout}}

	sets, err := d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("allocate").ThatError(err).Succeeded()
	assert.To(t).For("sets").ThatSlice(sets).IsLength(1)
	assert.To(t).For("calls").ThatSlice(rec.Calls()).IsLength(1)
	assert.To(t).For("no local accounting").That(pool.used.setCount).Equals(uint32(0))

	rec.SetReply(protocol.AllocateDescriptorSets, func(protocol.Frame) []byte {
		return protocol.EncodeReply(int32(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY), nil)
	})
	sets, err = d.AllocateDescriptorSets(ctx, info)
	assert.To(t).For("host failure").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_POOL_MEMORY)
	assert.To(t).For("sets").ThatSlice(sets).IsEmpty()
	assert.To(t).For("layout refs").That(d.descriptorSetLayouts.get(layout).refcount.Load()).Equals(int32(2))
}

func TestNoAsyncSetAlloc(t *testing.T) {
	perf := config.DefaultPerf()
	perf.NoAsyncSetAlloc = true
	ctx, d, _ := newTestDevice(t, perf)
	pool := newTestDescriptorPool(ctx, t, d, &VkDescriptorPoolCreateInfo{MaxSets: 1})
	assert.To(t).For("async").That(pool.asyncSetAllocation).IsFalse()
}

func TestSanitizeDescriptorWrites(t *testing.T) {
	immutable := &DescriptorSetLayout{bindings: []descriptorSetLayoutBinding{
		{descriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER, count: 1, hasImmutableSamplers: true},
	}}
	mutable := &DescriptorSetLayout{bindings: []descriptorSetLayoutBinding{
		{descriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, count: 1},
	}}
	image := []VkDescriptorImageInfo{{Sampler: 5, ImageView: 6, ImageLayout: VkImageLayout_VK_IMAGE_LAYOUT_GENERAL}}
	buffer := []VkDescriptorBufferInfo{{Buffer: 7, Range: 16}}
	views := []VkBufferView{8}

	for _, test := range []struct {
		name   string
		layout *DescriptorSetLayout
		write  VkWriteDescriptorSet
		expect VkWriteDescriptorSet
	}{
		{
			name:   "uniform buffer",
			write:  VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, ImageInfo: image, BufferInfo: buffer, TexelBufferView: views},
			expect: VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, BufferInfo: buffer},
		}, {
			name:   "texel buffer",
			write:  VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_TEXEL_BUFFER, BufferInfo: buffer, TexelBufferView: views},
			expect: VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_TEXEL_BUFFER, TexelBufferView: views},
		}, {
			name:   "sampled image",
			write:  VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE, ImageInfo: image},
			expect: VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE, ImageInfo: []VkDescriptorImageInfo{{ImageView: 6, ImageLayout: VkImageLayout_VK_IMAGE_LAYOUT_GENERAL}}},
		}, {
			name:   "immutable sampler",
			layout: immutable,
			write:  VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER, ImageInfo: image},
			expect: VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER, ImageInfo: []VkDescriptorImageInfo{{ImageLayout: VkImageLayout_VK_IMAGE_LAYOUT_GENERAL}}},
		}, {
			name:   "combined image sampler",
			layout: mutable,
			write:  VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, ImageInfo: image, BufferInfo: buffer},
			expect: VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, ImageInfo: image},
		}, {
			name:   "inline uniform block",
			write:  VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK, BufferInfo: buffer},
			expect: VkWriteDescriptorSet{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK},
		},
	} {
		writes := []VkWriteDescriptorSet{test.write}
		layout := test.layout
		out := sanitizeDescriptorWrites(writes, func(*VkWriteDescriptorSet) *DescriptorSetLayout { return layout })
		assert.To(t).For(test.name).That(out[0]).DeepEquals(test.expect)
		assert.To(t).For("%s app write", test.name).That(writes[0]).DeepEquals(test.write)
	}

	clean := []VkWriteDescriptorSet{{DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER, BufferInfo: buffer}}
	out := sanitizeDescriptorWrites(clean, func(*VkWriteDescriptorSet) *DescriptorSetLayout { return nil })
	assert.To(t).For("clean writes kept").That(&out[0] == &clean[0]).IsTrue()
}

// templateData lays out two buffer infos, a texel buffer view and four
// inline uniform block bytes.
func templateData() []byte {
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, endian.Little)
	for i := uint64(1); i <= 2; i++ {
		w.Uint64(i * 10)
		w.Uint64(i)
		w.Uint64(i * 100)
	}
	w.Uint64(77)
	w.Data([]byte{1, 2, 3, 4})
	return buf.Bytes()
}

func newTestTemplate(ctx context.Context, t *testing.T, d *Device) *DescriptorUpdateTemplate {
	h, err := d.CreateDescriptorUpdateTemplate(ctx, &VkDescriptorUpdateTemplateCreateInfo{
		Entries: []VkDescriptorUpdateTemplateEntry{
			{DstBinding: 0, DescriptorCount: 2, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, Offset: 0, Stride: 24},
			{DstBinding: 1, DescriptorCount: 1, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER, Offset: 48, Stride: 8},
			{DstBinding: 2, DescriptorCount: 4, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK, Offset: 56},
		},
	})
	assert.To(t).For("create template").ThatError(err).Succeeded()
	return d.descriptorUpdateTemplates.get(h)
}

func TestDescriptorUpdateTemplateParse(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	tmpl := newTestTemplate(ctx, t, d)
	tmpl.mu.Lock()
	defer tmpl.mu.Unlock()

	writes, err := tmpl.parseLocked(42, templateData())
	assert.To(t).For("parse").ThatError(err).Succeeded()
	assert.To(t).For("writes").ThatSlice(writes).IsLength(3)
	assert.To(t).For("set").That(writes[0].DstSet).Equals(VkDescriptorSet(42))
	assert.To(t).For("buffers").ThatSlice(writes[0].BufferInfo).Equals([]VkDescriptorBufferInfo{
		{Buffer: 10, Offset: 1, Range: 100},
		{Buffer: 20, Offset: 2, Range: 200},
	})
	assert.To(t).For("views").ThatSlice(writes[1].TexelBufferView).Equals([]VkBufferView{77})
	block, ok := findStruct[*VkWriteDescriptorSetInlineUniformBlock](writes[2].PNext)
	assert.To(t).For("block").That(ok).IsTrue()
	assert.To(t).For("block data").ThatSlice(block.Data).Equals([]byte{1, 2, 3, 4})

	_, err = tmpl.parseLocked(42, templateData()[:50])
	assert.To(t).For("short data").ThatError(err).HasMessage("out of range")
}

func TestUpdateDescriptorSetWithTemplate(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	tmpl := newTestTemplate(ctx, t, d)
	d.UpdateDescriptorSetWithTemplate(ctx, 42, tmpl.handle, templateData())
	assert.To(t).For("updates").ThatSlice(rec.FramesOf(protocol.UpdateDescriptorSets)).IsLength(1)

	d.UpdateDescriptorSetWithTemplate(ctx, 42, tmpl.handle, templateData()[:10])
	assert.To(t).For("bad data dropped").ThatSlice(rec.FramesOf(protocol.UpdateDescriptorSets)).IsLength(1)
}

func TestPushDescriptorLayoutLifetime(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	set := newTestSetLayout(ctx, t, d, &VkDescriptorSetLayoutCreateInfo{
		Flags: VkDescriptorSetLayoutCreateFlagBits_VK_DESCRIPTOR_SET_LAYOUT_CREATE_PUSH_DESCRIPTOR_BIT_KHR,
		Bindings: []VkDescriptorSetLayoutBinding{
			{Binding: 0, DescriptorType: VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER, DescriptorCount: 1},
		},
	})
	layout, err := d.CreatePipelineLayout(ctx, &VkPipelineLayoutCreateInfo{SetLayouts: []VkDescriptorSetLayout{set}})
	assert.To(t).For("create pipeline layout").ThatError(err).Succeeded()
	assert.To(t).For("needed by pipelines").That(d.pipelineLayouts.get(layout).neededByPipelines()).IsTrue()

	d.DestroyDescriptorSetLayout(ctx, set)
	assert.To(t).For("set layout alive").ThatSlice(rec.FramesOf(protocol.DestroyDescriptorSetLayout)).IsEmpty()

	cb := newRecordingCommandBuffer(ctx, t, d)
	cb.CmdPushDescriptorSetKHR(ctx, VkPipelineBindPoint_VK_PIPELINE_BIND_POINT_GRAPHICS, layout, 0, []VkWriteDescriptorSet{{
		DescriptorCount: 1,
		DescriptorType:  VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER,
		BufferInfo:      []VkDescriptorBufferInfo{{Buffer: 3, Range: 4}},
	}})
	assert.To(t).For("end").ThatError(cb.End(ctx)).Succeeded()
	assert.To(t).For("pushed").ThatSlice(rec.FramesOf(protocol.CmdPushDescriptorSetKHR)).IsLength(1)

	d.DestroyPipelineLayout(ctx, layout)
	assert.To(t).For("pipeline layout destroyed").ThatSlice(rec.FramesOf(protocol.DestroyPipelineLayout)).IsLength(1)
	assert.To(t).For("set layout destroyed").ThatSlice(rec.FramesOf(protocol.DestroyDescriptorSetLayout)).IsLength(1)
}

func TestPushDescriptorTemplateWithBadDataInvalidates(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	tmpl := newTestTemplate(ctx, t, d)
	cb := newRecordingCommandBuffer(ctx, t, d)
	cb.CmdPushDescriptorSetWithTemplateKHR(ctx, tmpl.handle, 0, 0, templateData()[:8])
	assert.To(t).For("state").That(cb.state).Equals(CommandBufferStateInvalid)
}
