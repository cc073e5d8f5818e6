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
	"github.com/google/venus/core/data/endian"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

type pipelineKind int

const (
	pipelineGraphics pipelineKind = iota
	pipelineCompute
)

// Pipeline is the shadow of a VkPipeline.
type Pipeline struct {
	handle VkPipeline
	kind   pipelineKind
	// layout is only held when recording needs it.
	layout *PipelineLayout
	state  graphicsPipelineState
}

func (d *Device) newPipeline(kind pipelineKind, layout VkPipelineLayout) *Pipeline {
	p := &Pipeline{handle: VkPipeline(newHandle()), kind: kind}
	if l := d.pipelineLayouts.get(layout); l != nil && l.neededByPipelines() {
		p.layout = l.ref()
	}
	return p
}

func (p *Pipeline) release(ctx context.Context) {
	if p.layout != nil {
		p.layout.unref(ctx)
		p.layout = nil
	}
}

const syncPipelineFlags = VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_FAIL_ON_PIPELINE_COMPILE_REQUIRED_BIT |
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_EARLY_RETURN_ON_FAILURE_BIT

// needsSyncCreate reports whether a pipeline created with flags and chain
// has results the caller must see.
func needsSyncCreate(flags VkPipelineCreateFlags, chain []VkStructure) bool {
	if flags&syncPipelineFlags != 0 {
		return true
	}
	_, feedback := findStruct[*VkPipelineCreationFeedbackCreateInfo](chain)
	return feedback
}

// syncCreate reports whether pipelines created on ctx wait for the host.
func (d *Device) syncCreate(ctx context.Context) bool {
	return !asyncPipelineCreate(ctx) || d.perf.NoAsyncPipelineCreate || d.ringFor(ctx) != d.ring
}

// createPipelines sends t for pipelines and tracks the ones the host
// created. Pipelines that were not created are released and their handles
// are null.
func (d *Device) createPipelines(ctx context.Context, t protocol.CommandType, pipelines []*Pipeline, sync bool, encode func(w binary.Writer, handles []VkPipeline)) ([]VkPipeline, error) {
	handles := make([]VkPipeline, len(pipelines))
	for i, p := range pipelines {
		handles[i] = p.handle
	}
	if err := d.waitPrimary(ctx); err != nil {
		return d.dropPipelines(ctx, pipelines, nil), err
	}
	f := func(w binary.Writer) { encode(w, handles) }
	if !sync {
		if err := d.async(ctx, t, f); err != nil {
			return d.dropPipelines(ctx, pipelines, nil), err
		}
		for _, p := range pipelines {
			d.pipelines.add(p.handle, p)
		}
		return handles, nil
	}
	res, r := d.call(ctx, t, f)
	if res == VkResult_VK_SUCCESS {
		for _, p := range pipelines {
			d.pipelines.add(p.handle, p)
		}
		return handles, nil
	}
	log.D(ctx, "%v of %d pipelines returned %v", t, len(pipelines), res)
	return d.dropPipelines(ctx, pipelines, createdPipelines(r, len(pipelines))), res
}

// createdPipelines reads which pipelines of a failed creation exist.
func createdPipelines(r *endian.BytesReader, n int) []bool {
	created := make([]bool, n)
	if r == nil {
		return created
	}
	count := int(r.Count())
	for i := 0; i < count && i < n; i++ {
		created[i] = r.Bool()
	}
	if r.Error() != nil {
		return make([]bool, n)
	}
	return created
}

// dropPipelines keeps the created pipelines and releases the rest.
func (d *Device) dropPipelines(ctx context.Context, pipelines []*Pipeline, created []bool) []VkPipeline {
	handles := make([]VkPipeline, len(pipelines))
	for i, p := range pipelines {
		if created != nil && created[i] {
			d.pipelines.add(p.handle, p)
			handles[i] = p.handle
			continue
		}
		p.release(ctx)
	}
	return handles
}

// CreateGraphicsPipelines creates a pipeline for each of infos. Fields
// Vulkan ignores for the library subsets each info provides are not sent.
// A non-success result, including VK_PIPELINE_COMPILE_REQUIRED, is returned
// as the error alongside the handles of the pipelines that were created.
func (d *Device) CreateGraphicsPipelines(ctx context.Context, cache VkPipelineCache, infos []VkGraphicsPipelineCreateInfo) ([]VkPipeline, error) {
	pipelines := make([]*Pipeline, len(infos))
	fixes := make([]pipelineFix, len(infos))
	sync := d.syncCreate(ctx)
	for i := range infos {
		info := &infos[i]
		state, fix := d.graphicsPipelineState(info)
		layout := info.Layout
		if fix.layout {
			layout = 0
		}
		pipelines[i] = d.newPipeline(pipelineGraphics, layout)
		pipelines[i].state = state
		fixes[i] = fix
		sync = sync || needsSyncCreate(info.Flags, info.PNext)
		zeroCreationFeedback(info.PNext)
	}
	fixed := fixGraphicsPipelineInfos(infos, fixes)
	return d.createPipelines(ctx, protocol.CreateGraphicsPipelines, pipelines, sync, func(w binary.Writer, handles []VkPipeline) {
		w.Uint64(uint64(cache))
		encodeHandles(w, handles)
		encodeArray(w, fixed)
	})
}

// CreateComputePipelines creates a pipeline for each of infos.
func (d *Device) CreateComputePipelines(ctx context.Context, cache VkPipelineCache, infos []VkComputePipelineCreateInfo) ([]VkPipeline, error) {
	pipelines := make([]*Pipeline, len(infos))
	sync := d.syncCreate(ctx)
	for i := range infos {
		info := &infos[i]
		pipelines[i] = d.newPipeline(pipelineCompute, info.Layout)
		sync = sync || needsSyncCreate(info.Flags, info.PNext)
		zeroCreationFeedback(info.PNext)
	}
	return d.createPipelines(ctx, protocol.CreateComputePipelines, pipelines, sync, func(w binary.Writer, handles []VkPipeline) {
		w.Uint64(uint64(cache))
		encodeHandles(w, handles)
		encodeArray(w, infos)
	})
}

func (d *Device) DestroyPipeline(ctx context.Context, pipeline VkPipeline) {
	p := d.pipelines.remove(pipeline)
	if p == nil {
		return
	}
	d.destroy(ctx, protocol.DestroyPipeline, uint64(pipeline))
	p.release(ctx)
}
