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
	"math/bits"
	"math/rand"
	"testing"

	"github.com/google/venus/config"
	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/protocol"
	"github.com/google/venus/renderer"
	"github.com/google/venus/ring"
)

func newColorRenderPass(ctx context.Context, t *testing.T, d *Device) VkRenderPass {
	pass, err := d.CreateRenderPass(ctx, &VkRenderPassCreateInfo{
		Attachments: []VkAttachmentDescription{
			colorAttachment(VkImageLayout_VK_IMAGE_LAYOUT_UNDEFINED, VkImageLayout_VK_IMAGE_LAYOUT_GENERAL),
		},
		Subpasses: singleSubpass(),
	})
	assert.To(t).For("create render pass").ThatError(err).Succeeded()
	return pass
}

func newTestPipelineLayout(ctx context.Context, t *testing.T, d *Device, pushConstants bool) VkPipelineLayout {
	info := &VkPipelineLayoutCreateInfo{}
	if pushConstants {
		info.PushConstantRanges = []VkPushConstantRange{{StageFlags: VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT, Size: 16}}
	}
	l, err := d.CreatePipelineLayout(ctx, info)
	assert.To(t).For("create pipeline layout").ThatError(err).Succeeded()
	return l
}

// monolithicPipeline describes a complete vertex and fragment shader
// pipeline rendering to a color-only subpass.
func monolithicPipeline(layout VkPipelineLayout, pass VkRenderPass) VkGraphicsPipelineCreateInfo {
	return VkGraphicsPipelineCreateInfo{
		Stages: []VkPipelineShaderStageCreateInfo{
			{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT, Module: 1, Name: "main"},
			{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_FRAGMENT_BIT, Module: 2, Name: "main"},
		},
		VertexInputState:   &VkPipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &VkPipelineInputAssemblyStateCreateInfo{Topology: VkPrimitiveTopology_VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST},
		ViewportState: &VkPipelineViewportStateCreateInfo{
			ViewportCount: 1,
			Viewports:     []VkViewport{{Width: 64, Height: 64, MaxDepth: 1}},
			ScissorCount:  1,
			Scissors:      []VkRect2D{{Extent: VkExtent2D{Width: 64, Height: 64}}},
		},
		RasterizationState: &VkPipelineRasterizationStateCreateInfo{LineWidth: 1},
		MultisampleState: &VkPipelineMultisampleStateCreateInfo{
			RasterizationSamples: VkSampleCountFlagBits_VK_SAMPLE_COUNT_1_BIT,
			SampleMask:           []uint32{^uint32(0)},
		},
		ColorBlendState: &VkPipelineColorBlendStateCreateInfo{
			Attachments: []VkPipelineColorBlendAttachmentState{{ColorWriteMask: 0xf}},
		},
		Layout:            layout,
		RenderPass:        pass,
		BasePipelineIndex: -1,
	}
}

func TestMonolithicPipelineIsUnchanged(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	infos := []VkGraphicsPipelineCreateInfo{
		monolithicPipeline(newTestPipelineLayout(ctx, t, d, false), newColorRenderPass(ctx, t, d)),
	}
	state, fix := d.graphicsPipelineState(&infos[0])
	assert.To(t).For("subsets").That(state.subsets).Equals(gplAll)
	assert.To(t).For("aspects").That(state.aspects).Equals(VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT)
	assert.To(t).For("stages").That(state.shaderStages).Equals(
		VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT | VkShaderStageFlagBits_VK_SHADER_STAGE_FRAGMENT_BIT)
	assert.To(t).For("fix").That(fix).Equals(pipelineFix{})
	out := fixGraphicsPipelineInfos(infos, []pipelineFix{fix})
	assert.To(t).For("same infos").That(&out[0] == &infos[0]).IsTrue()
}

func TestPipelineIgnoredState(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	layout := newTestPipelineLayout(ctx, t, d, false)
	pass := newColorRenderPass(ctx, t, d)

	for _, test := range []struct {
		name   string
		modify func(info *VkGraphicsPipelineCreateInfo)
		expect pipelineFix
	}{
		{
			name: "depth stencil without depth attachment",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.DepthStencilState = &VkPipelineDepthStencilStateCreateInfo{DepthTestEnable: true}
			},
			expect: pipelineFix{depthStencilState: true},
		}, {
			name: "rasterizer discard",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.RasterizationState = &VkPipelineRasterizationStateCreateInfo{RasterizerDiscardEnable: true}
			},
			expect: pipelineFix{viewportState: true, colorBlendState: true},
		}, {
			name: "dynamic rasterizer discard",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.RasterizationState = &VkPipelineRasterizationStateCreateInfo{RasterizerDiscardEnable: true}
				info.DynamicState = &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
					VkDynamicState_VK_DYNAMIC_STATE_RASTERIZER_DISCARD_ENABLE,
				}}
			},
			expect: pipelineFix{},
		}, {
			name: "dynamic viewport",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.DynamicState = &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
					VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT,
				}}
			},
			expect: pipelineFix{viewports: true},
		}, {
			name: "dynamic scissor with count",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.DynamicState = &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
					VkDynamicState_VK_DYNAMIC_STATE_SCISSOR_WITH_COUNT,
				}}
			},
			expect: pipelineFix{scissors: true},
		}, {
			name: "dynamic sample mask",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.DynamicState = &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
					VkDynamicState_VK_DYNAMIC_STATE_SAMPLE_MASK_EXT,
				}}
			},
			expect: pipelineFix{sampleMask: true},
		}, {
			name: "tessellation without tessellation shaders",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.TessellationState = &VkPipelineTessellationStateCreateInfo{PatchControlPoints: 3}
			},
			expect: pipelineFix{tessellationState: true},
		}, {
			name: "base pipeline without derivative flag",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.BasePipelineHandle = 99
			},
			expect: pipelineFix{basePipeline: true},
		}, {
			name: "rendering info with render pass",
			modify: func(info *VkGraphicsPipelineCreateInfo) {
				info.PNext = []VkStructure{&VkPipelineRenderingCreateInfo{
					ColorAttachmentFormats: []VkFormat{VkFormat_VK_FORMAT_R8G8B8A8_UNORM},
				}}
			},
			expect: pipelineFix{renderingInfo: true},
		},
	} {
		info := monolithicPipeline(layout, pass)
		test.modify(&info)
		_, fix := d.graphicsPipelineState(&info)
		assert.To(t).For(test.name).That(fix).Equals(test.expect)
	}
}

func TestPipelineFixLeavesApplicationStructs(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	info := monolithicPipeline(newTestPipelineLayout(ctx, t, d, false), newColorRenderPass(ctx, t, d))
	info.DynamicState = &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
		VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT,
		VkDynamicState_VK_DYNAMIC_STATE_SAMPLE_MASK_EXT,
	}}
	infos := []VkGraphicsPipelineCreateInfo{info}
	_, fix := d.graphicsPipelineState(&infos[0])
	out := fixGraphicsPipelineInfos(infos, []pipelineFix{fix})

	assert.To(t).For("fixed viewports").That(out[0].ViewportState.Viewports == nil).IsTrue()
	assert.To(t).For("fixed scissors").ThatSlice(out[0].ViewportState.Scissors).IsLength(1)
	assert.To(t).For("fixed sample mask").That(out[0].MultisampleState.SampleMask == nil).IsTrue()
	assert.To(t).For("app viewports").ThatSlice(infos[0].ViewportState.Viewports).IsLength(1)
	assert.To(t).For("app sample mask").ThatSlice(infos[0].MultisampleState.SampleMask).IsLength(1)
}

func TestVertexInputLibraryDropsOtherState(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	info := monolithicPipeline(newTestPipelineLayout(ctx, t, d, false), newColorRenderPass(ctx, t, d))
	info.Flags = VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LIBRARY_BIT_KHR
	info.PNext = []VkStructure{&VkGraphicsPipelineLibraryCreateInfoEXT{Flags: gplVertexInput}}
	info.DepthStencilState = &VkPipelineDepthStencilStateCreateInfo{}

	state, fix := d.graphicsPipelineState(&info)
	assert.To(t).For("subsets").That(state.subsets).Equals(gplVertexInput)
	assert.To(t).For("stages").That(state.shaderStages).Equals(VkShaderStageFlags(0))
	assert.To(t).For("fix").That(fix).Equals(pipelineFix{
		stages:             true,
		viewportState:      true,
		rasterizationState: true,
		multisampleState:   true,
		depthStencilState:  true,
		colorBlendState:    true,
		layout:             true,
		renderPass:         true,
	})

	out := fixGraphicsPipelineInfos([]VkGraphicsPipelineCreateInfo{info}, []pipelineFix{fix})[0]
	assert.To(t).For("vertex input kept").That(out.VertexInputState).IsNotNil()
	assert.To(t).For("input assembly kept").That(out.InputAssemblyState).IsNotNil()
	assert.To(t).For("layout").That(out.Layout).Equals(VkPipelineLayout(0))
	assert.To(t).For("render pass").That(out.RenderPass).Equals(VkRenderPass(0))
	assert.To(t).For("stages").That(out.Stages == nil).IsTrue()
}

func TestFragmentShaderLibraryWithoutOutput(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	info := VkGraphicsPipelineCreateInfo{
		Flags: VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LIBRARY_BIT_KHR,
		PNext: []VkStructure{
			&VkGraphicsPipelineLibraryCreateInfoEXT{Flags: gplFragmentShader},
			&VkPipelineRenderingCreateInfo{ColorAttachmentFormats: []VkFormat{VkFormat_VK_FORMAT_R8G8B8A8_UNORM}},
		},
		Stages: []VkPipelineShaderStageCreateInfo{
			{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_FRAGMENT_BIT, Module: 2, Name: "main"},
		},
		DepthStencilState: &VkPipelineDepthStencilStateCreateInfo{},
		ColorBlendState:   &VkPipelineColorBlendStateCreateInfo{},
		Layout:            newTestPipelineLayout(ctx, t, d, false),
	}
	state, fix := d.graphicsPipelineState(&info)
	assert.To(t).For("aspects").That(state.aspects).Equals(aspectsUnknown)
	assert.To(t).For("fix").That(fix).Equals(pipelineFix{colorBlendState: true, renderingFormats: true})

	out := fixGraphicsPipelineInfos([]VkGraphicsPipelineCreateInfo{info}, []pipelineFix{fix})[0]
	rendering, ok := findStruct[*VkPipelineRenderingCreateInfo](out.PNext)
	assert.To(t).For("rendering info kept").That(ok).IsTrue()
	assert.To(t).For("formats").That(rendering.ColorAttachmentFormats == nil).IsTrue()
	app, _ := findStruct[*VkPipelineRenderingCreateInfo](info.PNext)
	assert.To(t).For("app formats").ThatSlice(app.ColorAttachmentFormats).IsLength(1)
}

func createLibrary(ctx context.Context, t *testing.T, d *Device, subsets VkGraphicsPipelineLibraryFlagsEXT, libs []VkPipeline) VkPipeline {
	info := VkGraphicsPipelineCreateInfo{
		Flags: VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LIBRARY_BIT_KHR,
		PNext: []VkStructure{&VkGraphicsPipelineLibraryCreateInfoEXT{Flags: subsets}},
	}
	if len(libs) > 0 {
		info.PNext = append(info.PNext, &VkPipelineLibraryCreateInfoKHR{Libraries: libs})
	}
	if subsets&gplPreRasterizing != 0 {
		info.Stages = []VkPipelineShaderStageCreateInfo{{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT, Name: "main"}}
		info.DynamicState = &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
			VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT,
		}}
	}
	handles, err := d.CreateGraphicsPipelines(ctx, 0, []VkGraphicsPipelineCreateInfo{info})
	assert.To(t).For("create library").ThatError(err).Succeeded()
	return handles[0]
}

func TestLibraryLinkingProvidesEachSubsetOnce(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	subsets := []VkGraphicsPipelineLibraryFlagsEXT{gplVertexInput, gplPreRasterizing, gplFragmentShader, gplFragmentOutput}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		r.Shuffle(len(subsets), func(a, b int) { subsets[a], subsets[b] = subsets[b], subsets[a] })
		libs := []VkPipeline{}
		total := 0
		var group VkGraphicsPipelineLibraryFlagsEXT
		for j, s := range subsets {
			group |= s
			if j == len(subsets)-1 || r.Intn(2) == 0 {
				// Nest some libraries inside the next one.
				if len(libs) > 0 && r.Intn(3) == 0 {
					libs = []VkPipeline{createLibrary(ctx, t, d, group, libs)}
				} else {
					libs = append(libs, createLibrary(ctx, t, d, group, nil))
				}
				total += bits.OnesCount32(uint32(group))
				group = 0
			}
		}
		handles, err := d.CreateGraphicsPipelines(ctx, 0, []VkGraphicsPipelineCreateInfo{{
			PNext: []VkStructure{&VkPipelineLibraryCreateInfoKHR{Libraries: libs}},
		}})
		assert.To(t).For("link").ThatError(err).Succeeded()
		state := d.pipelines.get(handles[0]).state
		assert.To(t).For("subsets").That(state.subsets).Equals(gplAll)
		assert.To(t).For("subset count").That(total).Equals(bits.OnesCount32(uint32(state.subsets)))
		assert.To(t).For("dynamic viewport").That(state.dynamic&dynamicViewport != 0).IsTrue()
		assert.To(t).For("vertex stage").That(state.shaderStages).Equals(VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT)
	}
}

func TestLinkedDynamicViewportDropsViewports(t *testing.T) {
	ctx, d, _ := newTestDevice(t, config.DefaultPerf())
	lib := createLibrary(ctx, t, d, gplVertexInput|gplFragmentShader|gplFragmentOutput, nil)
	info := VkGraphicsPipelineCreateInfo{
		Flags: VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LIBRARY_BIT_KHR,
		PNext: []VkStructure{
			&VkGraphicsPipelineLibraryCreateInfoEXT{Flags: gplPreRasterizing},
			&VkPipelineLibraryCreateInfoKHR{Libraries: []VkPipeline{lib}},
		},
		Stages: []VkPipelineShaderStageCreateInfo{{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT, Name: "main"}},
		ViewportState: &VkPipelineViewportStateCreateInfo{
			ViewportCount: 1,
			Viewports:     []VkViewport{{Width: 1, Height: 1}},
		},
		RasterizationState: &VkPipelineRasterizationStateCreateInfo{},
		DynamicState: &VkPipelineDynamicStateCreateInfo{DynamicStates: []VkDynamicState{
			VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT_WITH_COUNT,
		}},
	}
	state, fix := d.graphicsPipelineState(&info)
	assert.To(t).For("subsets").That(state.subsets).Equals(gplAll)
	assert.To(t).For("fix").That(fix).Equals(pipelineFix{viewports: true})
}

func compileRequiredReply(created ...bool) renderer.ReplyFunc {
	return func(protocol.Frame) []byte {
		return protocol.EncodeReply(int32(VkResult_VK_PIPELINE_COMPILE_REQUIRED), func(w binary.Writer) {
			w.Count(uint32(len(created)))
			for _, c := range created {
				w.Bool(c)
			}
		})
	}
}

func TestPipelineCompileRequired(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	rec.SetReply(protocol.CreateGraphicsPipelines, compileRequiredReply(true, false))
	layout := newTestPipelineLayout(ctx, t, d, false)
	pass := newColorRenderPass(ctx, t, d)
	infos := []VkGraphicsPipelineCreateInfo{monolithicPipeline(layout, pass), monolithicPipeline(layout, pass)}
	infos[1].Flags = VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_FAIL_ON_PIPELINE_COMPILE_REQUIRED_BIT

	handles, err := d.CreateGraphicsPipelines(WithAsyncPipelineCreate(ctx), 0, infos)
	assert.To(t).For("error").ThatError(err).Equals(VkResult_VK_PIPELINE_COMPILE_REQUIRED)
	assert.To(t).For("handles").ThatSlice(handles).IsLength(2)
	assert.To(t).For("created").That(handles[0]).NotEquals(VkPipeline(0))
	assert.To(t).For("not created").That(handles[1]).Equals(VkPipeline(0))
	assert.To(t).For("tracked").That(d.pipelines.get(handles[0])).IsNotNil()
	assert.To(t).For("pipelines").That(d.pipelines.len()).Equals(1)
}

func TestPipelineCreationFailureWithoutReply(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	rec.SetReply(protocol.CreateComputePipelines, func(protocol.Frame) []byte {
		return protocol.EncodeReply(int32(VkResult_VK_ERROR_OUT_OF_DEVICE_MEMORY), nil)
	})
	handles, err := d.CreateComputePipelines(ctx, 0, []VkComputePipelineCreateInfo{{
		Stage: VkPipelineShaderStageCreateInfo{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT, Name: "main"},
	}})
	assert.To(t).For("error").ThatError(err).Equals(VkResult_VK_ERROR_OUT_OF_DEVICE_MEMORY)
	assert.To(t).For("handles").ThatSlice(handles).Equals([]VkPipeline{0})
	assert.To(t).For("pipelines").That(d.pipelines.len()).Equals(0)
}

func TestAsyncPipelineCreate(t *testing.T) {
	compute := []VkComputePipelineCreateInfo{{
		Stage: VkPipelineShaderStageCreateInfo{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT, Name: "main"},
	}}
	for _, test := range []struct {
		name  string
		perf  func(*config.Perf)
		ctx   func(context.Context) context.Context
		flags VkPipelineCreateFlags
		calls int
	}{
		{name: "sync context", ctx: func(ctx context.Context) context.Context { return ctx }, calls: 1},
		{name: "async context", ctx: WithAsyncPipelineCreate, calls: 0},
		{name: "disabled", ctx: WithAsyncPipelineCreate, perf: func(p *config.Perf) { p.NoAsyncPipelineCreate = true }, calls: 1},
		{name: "early return", ctx: WithAsyncPipelineCreate, flags: VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_EARLY_RETURN_ON_FAILURE_BIT, calls: 1},
	} {
		perf := config.DefaultPerf()
		if test.perf != nil {
			test.perf(&perf)
		}
		ctx, d, rec := newTestDevice(t, perf)
		compute[0].Flags = test.flags
		handles, err := d.CreateComputePipelines(test.ctx(ctx), 0, compute)
		assert.To(t).For(test.name).ThatError(err).Succeeded()
		assert.To(t).For("%s tracked", test.name).That(d.pipelines.get(handles[0])).IsNotNil()
		assert.To(t).For("%s calls", test.name).ThatSlice(rec.Calls()).IsLength(test.calls)
		assert.To(t).For("%s submits", test.name).ThatSlice(rec.FramesOf(protocol.CreateComputePipelines)).IsLength(1 - test.calls)
	}
}

func TestCreationFeedbackIsZeroed(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	feedback := &VkPipelineCreationFeedback{Flags: 1, Duration: 500}
	stages := []VkPipelineCreationFeedback{{Flags: 1, Duration: 200}}
	_, err := d.CreateComputePipelines(WithAsyncPipelineCreate(ctx), 0, []VkComputePipelineCreateInfo{{
		PNext: []VkStructure{&VkPipelineCreationFeedbackCreateInfo{
			PipelineCreationFeedback:       feedback,
			PipelineStageCreationFeedbacks: stages,
		}},
		Stage: VkPipelineShaderStageCreateInfo{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT, Name: "main"},
	}})
	assert.To(t).For("create").ThatError(err).Succeeded()
	assert.To(t).For("feedback").That(*feedback).Equals(VkPipelineCreationFeedback{})
	assert.To(t).For("stage feedback").That(stages[0]).Equals(VkPipelineCreationFeedback{})
	assert.To(t).For("sync").ThatSlice(rec.Calls()).IsLength(1)
}

func TestPipelineKeepsLayoutAlive(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	plain := newTestPipelineLayout(ctx, t, d, false)
	pushed := newTestPipelineLayout(ctx, t, d, true)
	handles, err := d.CreateComputePipelines(ctx, 0, []VkComputePipelineCreateInfo{
		{Stage: VkPipelineShaderStageCreateInfo{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT, Name: "main"}, Layout: plain},
		{Stage: VkPipelineShaderStageCreateInfo{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT, Name: "main"}, Layout: pushed},
	})
	assert.To(t).For("create").ThatError(err).Succeeded()
	assert.To(t).For("plain refs").That(d.pipelineLayouts.get(plain).refcount.Load()).Equals(int32(1))
	assert.To(t).For("push constant refs").That(d.pipelineLayouts.get(pushed).refcount.Load()).Equals(int32(2))

	d.DestroyPipelineLayout(ctx, plain)
	d.DestroyPipelineLayout(ctx, pushed)
	assert.To(t).For("one layout destroyed").ThatSlice(rec.FramesOf(protocol.DestroyPipelineLayout)).IsLength(1)
	d.DestroyPipeline(ctx, handles[1])
	assert.To(t).For("both layouts destroyed").ThatSlice(rec.FramesOf(protocol.DestroyPipelineLayout)).IsLength(2)
	assert.To(t).For("pipeline destroyed").ThatSlice(rec.FramesOf(protocol.DestroyPipeline)).IsLength(1)
}

func TestPipelineOnSecondaryRing(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	other := renderer.NewRecorder()
	ctx = WithAsyncPipelineCreate(WithRing(ctx, ring.NewLoopback(other)))
	_, err := d.CreateComputePipelines(ctx, 0, []VkComputePipelineCreateInfo{{
		Stage: VkPipelineShaderStageCreateInfo{Stage: VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT, Name: "main"},
	}})
	assert.To(t).For("create").ThatError(err).Succeeded()
	assert.To(t).For("secondary calls").ThatSlice(other.Calls()).IsLength(1)
	assert.To(t).For("primary calls").ThatSlice(rec.Calls()).IsEmpty()
}

func cacheDataReply(data []byte) renderer.ReplyFunc {
	return func(protocol.Frame) []byte {
		return protocol.EncodeReply(0, func(w binary.Writer) {
			w.Count(uint32(len(data)))
			w.Data(data)
		})
	}
}

// initialCacheData decodes the initial data of a vkCreatePipelineCache frame.
func initialCacheData(t *testing.T, f protocol.Frame) []byte {
	r := f.Reader()
	r.Uint64()
	r.Uint64()
	r.Uint32()
	data := make([]byte, r.Count())
	r.Data(data)
	assert.To(t).For("cache decode").ThatError(r.Error()).Succeeded()
	return data
}

func TestPipelineCacheHeader(t *testing.T) {
	props := PhysicalDeviceProperties{VendorID: 0x1af4, DeviceID: 0x1050, DeviceName: "virtio"}
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	d.props = props
	rec.SetReply(protocol.GetPipelineCacheData, cacheDataReply([]byte{1, 2, 3}))

	data, err := d.GetPipelineCacheData(ctx, 7)
	assert.To(t).For("get").ThatError(err).Succeeded()
	assert.To(t).For("size").ThatSlice(data).IsLength(pipelineCacheHeaderSize + 3)
	assert.To(t).For("host data").ThatSlice(data[pipelineCacheHeaderSize:]).Equals([]byte{1, 2, 3})
	uuid := d.pipelineCacheUUID()
	assert.To(t).For("uuid").That(bytes.Equal(data[16:pipelineCacheHeaderSize], uuid[:])).IsTrue()
	assert.To(t).For("uuid derived").That(uuid).NotEquals([VK_UUID_SIZE]byte{})

	_, err = d.CreatePipelineCache(ctx, &VkPipelineCacheCreateInfo{InitialData: data})
	assert.To(t).For("create").ThatError(err).Succeeded()
	frames := rec.FramesOf(protocol.CreatePipelineCache)
	assert.To(t).For("stripped").ThatSlice(initialCacheData(t, frames[0])).Equals([]byte{1, 2, 3})

	foreign := PhysicalDeviceProperties{VendorID: 0x1af4, DeviceID: 0x1050, DeviceName: "other"}
	_, o, _ := newTestDevice(t, config.DefaultPerf())
	o.props = foreign
	assert.To(t).For("foreign uuid").That(o.pipelineCacheUUID()).NotEquals(uuid)
	assert.To(t).For("foreign dropped").That(o.stripPipelineCacheHeader(ctx, data) == nil).IsTrue()
	assert.To(t).For("short dropped").That(d.stripPipelineCacheHeader(ctx, data[:8]) == nil).IsTrue()

	reported := props
	reported.PipelineCacheUUID[0] = 42
	d.props = reported
	assert.To(t).For("reported uuid").That(d.pipelineCacheUUID()).Equals(reported.PipelineCacheUUID)
}

func TestPipelineCacheDataCorrupt(t *testing.T) {
	ctx, d, rec := newTestDevice(t, config.DefaultPerf())
	rec.SetReply(protocol.GetPipelineCacheData, func(protocol.Frame) []byte {
		return protocol.EncodeReply(0, func(w binary.Writer) {
			w.Count(1 << 30)
			w.Data([]byte{1, 2, 3})
		})
	})
	data, err := d.GetPipelineCacheData(ctx, 7)
	assert.To(t).For("error").ThatError(err).Equals(VkResult_VK_ERROR_DEVICE_LOST)
	assert.To(t).For("data").ThatSlice(data).IsEmpty()
}
