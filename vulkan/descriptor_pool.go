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

type VkDescriptorPoolSize struct {
	Type            VkDescriptorType
	DescriptorCount uint32
}

func (s VkDescriptorPoolSize) encode(w binary.Writer) {
	w.Uint32(uint32(s.Type))
	w.Uint32(s.DescriptorCount)
}

type VkDescriptorPoolCreateInfo struct {
	PNext     []VkStructure
	Flags     VkDescriptorPoolCreateFlags
	MaxSets   uint32
	PoolSizes []VkDescriptorPoolSize
}

func (i VkDescriptorPoolCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(i.MaxSets)
	encodeArray(w, i.PoolSizes)
}

type VkDescriptorPoolInlineUniformBlockCreateInfo struct {
	MaxInlineUniformBlockBindings uint32
}

func (*VkDescriptorPoolInlineUniformBlockCreateInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_POOL_INLINE_UNIFORM_BLOCK_CREATE_INFO
}

func (s *VkDescriptorPoolInlineUniformBlockCreateInfo) encode(w binary.Writer) {
	w.Uint32(s.MaxInlineUniformBlockBindings)
}

// descriptorPoolState counts sets and descriptors of a pool.
type descriptorPoolState struct {
	setCount         uint32
	iubBindingCount  uint32
	descriptorCounts [descriptorTypeCount]uint32
}

// mutableDescriptorBucket counts the mutable descriptors that may hold any
// of types.
type mutableDescriptorBucket struct {
	types descriptorTypeSet
	max   uint32
	used  uint32
}

// DescriptorPool is the shadow of a VkDescriptorPool. Pools that cannot
// fragment account for their capacity locally so that sets can be
// allocated without waiting for the host.
type DescriptorPool struct {
	device             *Device
	handle             VkDescriptorPool
	asyncSetAllocation bool
	max                descriptorPoolState
	used               descriptorPoolState
	mutableBuckets     []mutableDescriptorBucket
	sets               map[VkDescriptorSet]*DescriptorSet
}

func newDescriptorPool(d *Device, info *VkDescriptorPoolCreateInfo) *DescriptorPool {
	p := &DescriptorPool{
		device: d,
		handle: VkDescriptorPool(newHandle()),
		asyncSetAllocation: !d.perf.NoAsyncSetAlloc &&
			info.Flags&VkDescriptorPoolCreateFlagBits_VK_DESCRIPTOR_POOL_CREATE_FREE_DESCRIPTOR_SET_BIT == 0,
		sets: map[VkDescriptorSet]*DescriptorSet{},
	}
	p.max.setCount = info.MaxSets
	if iub, ok := findStruct[*VkDescriptorPoolInlineUniformBlockCreateInfo](info.PNext); ok {
		p.max.iubBindingCount = iub.MaxInlineUniformBlockBindings
	}
	mutable, _ := findStruct[*VkMutableDescriptorTypeCreateInfoEXT](info.PNext)
	for i, size := range info.PoolSizes {
		if size.Type != VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT {
			p.max.descriptorCounts[descriptorIndex(size.Type)] += size.DescriptorCount
			continue
		}
		p.addMutableCapacity(mutable.types(i), size.DescriptorCount)
	}
	return p
}

// addMutableCapacity adds count descriptors to the bucket of types.
func (p *DescriptorPool) addMutableCapacity(types descriptorTypeSet, count uint32) {
	for i := range p.mutableBuckets {
		if p.mutableBuckets[i].types == types {
			p.mutableBuckets[i].max += count
			return
		}
	}
	p.mutableBuckets = append(p.mutableBuckets, mutableDescriptorBucket{types: types, max: count})
}

// mutableBucket returns the bucket able to hold every type in types.
func (p *DescriptorPool) mutableBucket(types descriptorTypeSet) *mutableDescriptorBucket {
	for i := range p.mutableBuckets {
		if p.mutableBuckets[i].types.contains(types) {
			return &p.mutableBuckets[i]
		}
	}
	return nil
}

// allocDescriptors accounts for a set of layout whose last binding holds
// lastCount descriptors. On failure the pool is left as it was.
func (p *DescriptorPool) allocDescriptors(layout *DescriptorSetLayout, lastCount uint32) bool {
	if p.used.setCount == p.max.setCount {
		return false
	}
	saved := p.used
	savedBuckets := make([]uint32, len(p.mutableBuckets))
	for i, b := range p.mutableBuckets {
		savedBuckets[i] = b.used
	}
	rollback := func() bool {
		p.used = saved
		for i := range p.mutableBuckets {
			p.mutableBuckets[i].used = savedBuckets[i]
		}
		return false
	}

	p.used.setCount++
	for i := range layout.bindings {
		b := &layout.bindings[i]
		count := b.count
		if uint32(i) == layout.lastBinding {
			count = lastCount
		}
		if count == 0 {
			continue
		}
		if b.descriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK {
			p.used.iubBindingCount++
			if p.used.iubBindingCount > p.max.iubBindingCount {
				return rollback()
			}
		}
		if b.descriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT {
			bucket := p.mutableBucket(b.mutableTypes)
			if bucket == nil {
				return rollback()
			}
			bucket.used += count
			if bucket.used > bucket.max {
				return rollback()
			}
			continue
		}
		t := descriptorIndex(b.descriptorType)
		p.used.descriptorCounts[t] += count
		if p.used.descriptorCounts[t] > p.max.descriptorCounts[t] {
			return rollback()
		}
	}
	return true
}

// freeDescriptors reverses allocDescriptors for a set of layout.
func (p *DescriptorPool) freeDescriptors(layout *DescriptorSetLayout, lastCount uint32) {
	p.used.setCount--
	for i := range layout.bindings {
		b := &layout.bindings[i]
		count := b.count
		if uint32(i) == layout.lastBinding {
			count = lastCount
		}
		if count == 0 {
			continue
		}
		if b.descriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK {
			p.used.iubBindingCount--
		}
		if b.descriptorType == VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT {
			if bucket := p.mutableBucket(b.mutableTypes); bucket != nil {
				bucket.used -= count
			}
			continue
		}
		p.used.descriptorCounts[descriptorIndex(b.descriptorType)] -= count
	}
}

// resetDescriptors forgets every set of the pool.
func (p *DescriptorPool) resetDescriptors(ctx context.Context) {
	p.used = descriptorPoolState{}
	for i := range p.mutableBuckets {
		p.mutableBuckets[i].used = 0
	}
	for h, set := range p.sets {
		p.device.descriptorSets.remove(h)
		set.layout.unref(ctx)
		delete(p.sets, h)
	}
}

func (d *Device) CreateDescriptorPool(ctx context.Context, info *VkDescriptorPoolCreateInfo) (VkDescriptorPool, error) {
	p := newDescriptorPool(d, info)
	err := d.async(ctx, protocol.CreateDescriptorPool, func(w binary.Writer) {
		w.Uint64(uint64(p.handle))
		info.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.descriptorPools.add(p.handle, p)
	return p.handle, nil
}

// DestroyDescriptorPool destroys the pool and every set allocated from it.
func (d *Device) DestroyDescriptorPool(ctx context.Context, pool VkDescriptorPool) {
	p := d.descriptorPools.remove(pool)
	if p == nil {
		return
	}
	d.destroy(ctx, protocol.DestroyDescriptorPool, uint64(pool))
	p.resetDescriptors(ctx)
}

func (d *Device) ResetDescriptorPool(ctx context.Context, pool VkDescriptorPool, flags VkDescriptorPoolResetFlags) error {
	p := d.descriptorPools.get(pool)
	if p == nil {
		return nil
	}
	err := d.async(ctx, protocol.ResetDescriptorPool, func(w binary.Writer) {
		w.Uint64(uint64(pool))
		w.Uint32(uint32(flags))
	})
	p.resetDescriptors(ctx)
	return err
}
