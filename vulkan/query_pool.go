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
	"math/bits"

	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

// QueryPool is the shadow of a VkQueryPool.
type QueryPool struct {
	handle     VkQueryPool
	queryType  VkQueryType
	queryCount uint32
	// stride is the size of one query's results plus availability in the
	// feedback buffer.
	stride   VkDeviceSize
	feedback *Buffer
}

type VkQueryPoolCreateInfo struct {
	PNext              []VkStructure
	Flags              VkQueryPoolCreateFlags
	QueryType          VkQueryType
	QueryCount         uint32
	PipelineStatistics VkQueryPipelineStatisticFlags
}

func (i VkQueryPoolCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(uint32(i.QueryType))
	w.Uint32(i.QueryCount)
	w.Uint32(uint32(i.PipelineStatistics))
}

// queryResultSize returns the size of the 64-bit results of one query.
func queryResultSize(info *VkQueryPoolCreateInfo) VkDeviceSize {
	switch info.QueryType {
	case VkQueryType_VK_QUERY_TYPE_OCCLUSION,
		VkQueryType_VK_QUERY_TYPE_TIMESTAMP,
		VkQueryType_VK_QUERY_TYPE_PRIMITIVES_GENERATED_EXT:
		return 8
	case VkQueryType_VK_QUERY_TYPE_PIPELINE_STATISTICS:
		return VkDeviceSize(bits.OnesCount32(uint32(info.PipelineStatistics))) * 8
	case VkQueryType_VK_QUERY_TYPE_TRANSFORM_FEEDBACK_STREAM_EXT:
		return 16
	default:
		invariant(false, "Unexpected query type %d", info.QueryType)
		return 8
	}
}

// CreateQueryPool creates a query pool. With query feedback enabled the
// pool gets a feedback buffer holding the 64-bit results and availability
// of every query.
func (d *Device) CreateQueryPool(ctx context.Context, info *VkQueryPoolCreateInfo) (VkQueryPool, error) {
	pool := &QueryPool{
		handle:     VkQueryPool(newHandle()),
		queryType:  info.QueryType,
		queryCount: info.QueryCount,
		stride:     queryResultSize(info) + 8,
	}
	if d.queryFeedback && info.QueryCount > 0 {
		h, err := d.CreateBuffer(ctx, &VkBufferCreateInfo{
			Size:  pool.stride * VkDeviceSize(info.QueryCount),
			Usage: VkBufferUsageFlagBits_VK_BUFFER_USAGE_TRANSFER_DST_BIT,
		})
		if err != nil {
			return 0, err
		}
		pool.feedback = d.buffers.get(h)
	}
	err := d.async(ctx, protocol.CreateQueryPool, func(w binary.Writer) {
		w.Uint64(uint64(pool.handle))
		info.encode(w)
	})
	if err != nil {
		if pool.feedback != nil {
			d.DestroyBuffer(ctx, pool.feedback.handle)
		}
		return 0, err
	}
	d.queryPools.add(pool.handle, pool)
	log.D(ctx, "Created query pool %#x (feedback: %v)", pool.handle, pool.feedback != nil)
	return pool.handle, nil
}

func (d *Device) DestroyQueryPool(ctx context.Context, queryPool VkQueryPool) {
	pool := d.queryPools.remove(queryPool)
	if pool == nil {
		return
	}
	d.destroy(ctx, protocol.DestroyQueryPool, uint64(queryPool))
	if pool.feedback != nil {
		d.DestroyBuffer(ctx, pool.feedback.handle)
	}
}
