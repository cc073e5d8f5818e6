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

	"github.com/google/venus/core/log"
)

// queryBatch is a range of queries whose results must be copied to, or
// cleared from, the query pool's feedback buffer once the recording
// command buffer executes.
type queryBatch struct {
	queryPool  *QueryPool
	query      uint32
	queryCount uint32
	copy       bool
}

func (p *CommandPool) acquireQueryBatch() *queryBatch {
	if n := len(p.freeQueryBatches); n > 0 {
		b := p.freeQueryBatches[n-1]
		p.freeQueryBatches = p.freeQueryBatches[:n-1]
		return b
	}
	return &queryBatch{}
}

func (p *CommandPool) releaseQueryBatches(batches []*queryBatch) {
	for _, b := range batches {
		*b = queryBatch{}
		p.freeQueryBatches = append(p.freeQueryBatches, b)
	}
}

// queryCount returns the number of queries a query command touches: one
// per view inside a multiview render pass.
func (cb *CommandBuffer) queryCount() uint32 {
	if cb.builder.inRenderPass && cb.builder.viewMask != 0 {
		return uint32(bits.OnesCount32(cb.builder.viewMask))
	}
	return 1
}

func (cb *CommandBuffer) addQueryBatch(queryPool VkQueryPool, query, count uint32, copy bool) {
	pool := cb.device.queryPools.get(queryPool)
	if pool == nil || pool.feedback == nil {
		return
	}
	b := cb.pool.acquireQueryBatch()
	*b = queryBatch{queryPool: pool, query: query, queryCount: count, copy: copy}
	cb.builder.queryBatches = append(cb.builder.queryBatches, b)
}

// mergeQueryBatches appends copies of the pending batches of secondary.
func (cb *CommandBuffer) mergeQueryBatches(secondary *CommandBuffer) {
	for _, sb := range secondary.builder.queryBatches {
		b := cb.pool.acquireQueryBatch()
		*b = *sb
		cb.builder.queryBatches = append(cb.builder.queryBatches, b)
	}
}

func (p *CommandPool) acquireFeedbackCmd(ctx context.Context) (*CommandBuffer, error) {
	if n := len(p.freeFeedbackCmds); n > 0 {
		cb := p.freeFeedbackCmds[n-1]
		p.freeFeedbackCmds = p.freeFeedbackCmds[:n-1]
		return cb, nil
	}
	cbs, err := p.device.AllocateCommandBuffers(ctx, &VkCommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, err
	}
	return cbs[0], nil
}

func (p *CommandPool) recycleFeedbackCmd(ctx context.Context, cb *CommandBuffer) {
	cb.reset(ctx)
	p.freeFeedbackCmds = append(p.freeFeedbackCmds, cb)
}

// RecordQueryFeedback records a command buffer that copies the results of
// the queries cb has ended into their pools' feedback buffers, and clears
// the feedback of the queries cb has reset. It returns nil if cb has no
// pending query batches. The returned command buffer belongs to cb's pool
// and is recycled when cb is reset or freed.
func (cb *CommandBuffer) RecordQueryFeedback(ctx context.Context) (*CommandBuffer, error) {
	if len(cb.builder.queryBatches) == 0 {
		return nil, nil
	}
	if cb.queryFeedback != nil {
		cb.pool.recycleFeedbackCmd(ctx, cb.queryFeedback)
		cb.queryFeedback = nil
	}
	fb, err := cb.pool.acquireFeedbackCmd(ctx)
	if err != nil {
		return nil, err
	}
	ctx = log.Enter(ctx, "RecordQueryFeedback")
	err = fb.Begin(ctx, &VkCommandBufferBeginInfo{
		Flags: VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT,
	})
	if err != nil {
		cb.pool.recycleFeedbackCmd(ctx, fb)
		return nil, err
	}
	for _, b := range cb.builder.queryBatches {
		pool := b.queryPool
		offset := VkDeviceSize(b.query) * pool.stride
		if b.copy {
			fb.CmdCopyQueryPoolResults(ctx, pool.handle, b.query, b.queryCount, pool.feedback.handle, offset, pool.stride,
				VkQueryResultFlagBits_VK_QUERY_RESULT_64_BIT|VkQueryResultFlagBits_VK_QUERY_RESULT_WITH_AVAILABILITY_BIT)
		} else {
			fb.CmdFillBuffer(ctx, pool.feedback.handle, offset, VkDeviceSize(b.queryCount)*pool.stride, 0)
		}
	}
	fb.CmdPipelineBarrier(ctx,
		VkPipelineStageFlagBits_VK_PIPELINE_STAGE_TRANSFER_BIT,
		VkPipelineStageFlagBits_VK_PIPELINE_STAGE_HOST_BIT,
		0,
		[]VkMemoryBarrier{{
			SrcAccessMask: VkAccessFlagBits_VK_ACCESS_TRANSFER_WRITE_BIT,
			DstAccessMask: VkAccessFlagBits_VK_ACCESS_HOST_READ_BIT,
		}}, nil, nil)
	if err := fb.End(ctx); err != nil {
		cb.pool.recycleFeedbackCmd(ctx, fb)
		return nil, err
	}
	cb.queryFeedback = fb
	log.D(ctx, "Recorded %d query batches of %#x into %#x", len(cb.builder.queryBatches), cb.handle, fb.handle)
	return fb, nil
}
