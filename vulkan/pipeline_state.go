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

const (
	gplVertexInput    = VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_VERTEX_INPUT_INTERFACE_BIT_EXT
	gplPreRasterizing = VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_PRE_RASTERIZATION_SHADERS_BIT_EXT
	gplFragmentShader = VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_FRAGMENT_SHADER_BIT_EXT
	gplFragmentOutput = VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_FRAGMENT_OUTPUT_INTERFACE_BIT_EXT
	gplAll            = gplVertexInput | gplPreRasterizing | gplFragmentShader | gplFragmentOutput
)

const preRasterizationStages = VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT |
	VkShaderStageFlagBits_VK_SHADER_STAGE_TESSELLATION_CONTROL_BIT |
	VkShaderStageFlagBits_VK_SHADER_STAGE_TESSELLATION_EVALUATION_BIT |
	VkShaderStageFlagBits_VK_SHADER_STAGE_GEOMETRY_BIT |
	VkShaderStageFlagBits_VK_SHADER_STAGE_TASK_BIT_EXT |
	VkShaderStageFlagBits_VK_SHADER_STAGE_MESH_BIT_EXT

// dynamicStates are the dynamic states that decide which create info
// fields are read.
type dynamicStates uint8

const (
	dynamicVertexInput dynamicStates = 1 << iota
	dynamicViewport
	dynamicViewportWithCount
	dynamicScissor
	dynamicScissorWithCount
	dynamicRasterizerDiscard
	dynamicSampleMask
)

// dynamicStateSubsets maps each tracked dynamic state to its bit and the
// library subset that owns it.
var dynamicStateSubsets = map[VkDynamicState]struct {
	bit    dynamicStates
	subset VkGraphicsPipelineLibraryFlagsEXT
}{
	VkDynamicState_VK_DYNAMIC_STATE_VERTEX_INPUT_EXT:          {dynamicVertexInput, gplVertexInput},
	VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT:                  {dynamicViewport, gplPreRasterizing},
	VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT_WITH_COUNT:       {dynamicViewportWithCount, gplPreRasterizing},
	VkDynamicState_VK_DYNAMIC_STATE_SCISSOR:                   {dynamicScissor, gplPreRasterizing},
	VkDynamicState_VK_DYNAMIC_STATE_SCISSOR_WITH_COUNT:        {dynamicScissorWithCount, gplPreRasterizing},
	VkDynamicState_VK_DYNAMIC_STATE_RASTERIZER_DISCARD_ENABLE: {dynamicRasterizerDiscard, gplPreRasterizing},
	VkDynamicState_VK_DYNAMIC_STATE_SAMPLE_MASK_EXT:           {dynamicSampleMask, gplFragmentShader | gplFragmentOutput},
}

// aspectsUnknown marks attachment aspects no render pass or rendering info
// has provided yet.
const aspectsUnknown = ^VkImageAspectFlags(0)

// graphicsPipelineState is what a graphics pipeline, directly or through
// its linked libraries, provides.
type graphicsPipelineState struct {
	subsets      VkGraphicsPipelineLibraryFlagsEXT
	dynamic      dynamicStates
	shaderStages VkShaderStageFlags
	aspects      VkImageAspectFlags
	// rasterizerDiscard is only meaningful with pre-rasterization state.
	rasterizerDiscard bool
}

func (s *graphicsPipelineState) merge(lib *graphicsPipelineState) {
	invariant(s.subsets&lib.subsets == 0, "Linked libraries overlap: %#x and %#x", s.subsets, lib.subsets)
	s.subsets |= lib.subsets
	s.dynamic |= lib.dynamic
	s.shaderStages |= lib.shaderStages
	if s.aspects == aspectsUnknown {
		s.aspects = lib.aspects
	}
	if lib.subsets&gplPreRasterizing != 0 {
		s.rasterizerDiscard = lib.rasterizerDiscard
	}
}

// rasterizationDisabled reports whether rasterization is statically off.
func (s *graphicsPipelineState) rasterizationDisabled() bool {
	return s.subsets&gplPreRasterizing != 0 && s.rasterizerDiscard && s.dynamic&dynamicRasterizerDiscard == 0
}

// pipelineFix lists the fields of a VkGraphicsPipelineCreateInfo that are
// ignored by Vulkan but hold something the encoder would otherwise send.
type pipelineFix struct {
	stages             bool
	vertexInputState   bool
	inputAssemblyState bool
	tessellationState  bool
	viewportState      bool
	viewports          bool
	scissors           bool
	rasterizationState bool
	multisampleState   bool
	sampleMask         bool
	depthStencilState  bool
	colorBlendState    bool
	layout             bool
	renderPass         bool
	basePipeline       bool
	// renderingInfo drops VkPipelineRenderingCreateInfo, renderingFormats
	// only its attachment formats.
	renderingInfo    bool
	renderingFormats bool
}

func (f pipelineFix) needed() bool { return f != pipelineFix{} }

// directSubsets returns the library subsets info describes itself.
func directSubsets(info *VkGraphicsPipelineCreateInfo) VkGraphicsPipelineLibraryFlagsEXT {
	if lib, ok := findStruct[*VkGraphicsPipelineLibraryCreateInfoEXT](info.PNext); ok {
		return lib.Flags & gplAll
	}
	if info.Flags&VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LIBRARY_BIT_KHR != 0 {
		return 0
	}
	if libs, ok := findStruct[*VkPipelineLibraryCreateInfoKHR](info.PNext); ok && len(libs.Libraries) > 0 {
		return 0
	}
	return gplAll
}

// graphicsPipelineState computes the state of the pipeline info creates and
// the fields of info that must not reach the host.
func (d *Device) graphicsPipelineState(info *VkGraphicsPipelineCreateInfo) (graphicsPipelineState, pipelineFix) {
	s := graphicsPipelineState{aspects: aspectsUnknown}
	if libs, ok := findStruct[*VkPipelineLibraryCreateInfoKHR](info.PNext); ok {
		for _, h := range libs.Libraries {
			if lib := d.pipelines.get(h); lib != nil && lib.kind == pipelineGraphics {
				s.merge(&lib.state)
			}
		}
	}
	direct := directSubsets(info)
	has := func(subsets VkGraphicsPipelineLibraryFlagsEXT) bool { return direct&subsets != 0 }
	invariant(s.subsets&direct == 0, "Pipeline provides linked subsets %#x again", s.subsets&direct)
	s.subsets |= direct

	if info.DynamicState != nil {
		for _, ds := range info.DynamicState.DynamicStates {
			if e, ok := dynamicStateSubsets[ds]; ok && has(e.subset) {
				s.dynamic |= e.bit
			}
		}
	}
	for _, stage := range info.Stages {
		switch {
		case stage.Stage&preRasterizationStages != 0 && has(gplPreRasterizing),
			stage.Stage == VkShaderStageFlagBits_VK_SHADER_STAGE_FRAGMENT_BIT && has(gplFragmentShader):
			s.shaderStages |= stage.Stage
		}
	}
	if has(gplPreRasterizing) && info.RasterizationState != nil {
		s.rasterizerDiscard = info.RasterizationState.RasterizerDiscardEnable
	}

	renderPassValid := has(gplPreRasterizing | gplFragmentShader | gplFragmentOutput)
	rendering, hasRendering := findStruct[*VkPipelineRenderingCreateInfo](info.PNext)
	if s.aspects == aspectsUnknown && renderPassValid {
		switch {
		case info.RenderPass != 0:
			if pass := d.renderPasses.get(info.RenderPass); pass != nil && int(info.Subpass) < len(pass.subpasses) {
				s.aspects = pass.subpasses[info.Subpass].attachmentAspects
			}
		case has(gplFragmentOutput):
			s.aspects = 0
			if hasRendering {
				s.aspects = renderingAspects(rendering)
			}
		}
	}

	rasterOff := s.rasterizationDisabled()
	mayHaveVertexShader := s.subsets&gplPreRasterizing == 0 ||
		s.shaderStages&VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT != 0
	tessellation := VkShaderStageFlagBits_VK_SHADER_STAGE_TESSELLATION_CONTROL_BIT |
		VkShaderStageFlagBits_VK_SHADER_STAGE_TESSELLATION_EVALUATION_BIT

	var fix pipelineFix
	fix.stages = !has(gplPreRasterizing|gplFragmentShader) && len(info.Stages) > 0
	fix.vertexInputState = !(has(gplVertexInput) && mayHaveVertexShader && s.dynamic&dynamicVertexInput == 0) &&
		info.VertexInputState != nil
	fix.inputAssemblyState = !(has(gplVertexInput) && mayHaveVertexShader) && info.InputAssemblyState != nil
	fix.tessellationState = !(has(gplPreRasterizing) && s.shaderStages&tessellation == tessellation) &&
		info.TessellationState != nil

	viewportValid := has(gplPreRasterizing) && !rasterOff
	fix.viewportState = !viewportValid && info.ViewportState != nil
	if viewportValid && info.ViewportState != nil {
		fix.viewports = s.dynamic&(dynamicViewport|dynamicViewportWithCount) != 0 && info.ViewportState.Viewports != nil
		fix.scissors = s.dynamic&(dynamicScissor|dynamicScissorWithCount) != 0 && info.ViewportState.Scissors != nil
	}
	fix.rasterizationState = !has(gplPreRasterizing) && info.RasterizationState != nil

	multisampleValid := (has(gplFragmentShader) && !rasterOff) || has(gplFragmentOutput)
	fix.multisampleState = !multisampleValid && info.MultisampleState != nil
	if multisampleValid && info.MultisampleState != nil {
		fix.sampleMask = s.dynamic&dynamicSampleMask != 0 && info.MultisampleState.SampleMask != nil
	}

	depthStencil := VkImageAspectFlagBits_VK_IMAGE_ASPECT_DEPTH_BIT | VkImageAspectFlagBits_VK_IMAGE_ASPECT_STENCIL_BIT
	depthStencilValid := has(gplFragmentShader|gplFragmentOutput) && !rasterOff &&
		(s.aspects == aspectsUnknown || s.aspects&depthStencil != 0)
	fix.depthStencilState = !depthStencilValid && info.DepthStencilState != nil
	colorBlendValid := has(gplFragmentOutput) && !rasterOff &&
		(s.aspects == aspectsUnknown || s.aspects&VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT != 0)
	fix.colorBlendState = !colorBlendValid && info.ColorBlendState != nil

	layoutValid := has(gplPreRasterizing) || (has(gplFragmentShader) && !rasterOff)
	fix.layout = !layoutValid && info.Layout != 0
	fix.renderPass = !renderPassValid && info.RenderPass != 0
	fix.basePipeline = info.Flags&VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_DERIVATIVE_BIT == 0 &&
		info.BasePipelineHandle != 0

	if hasRendering {
		switch {
		case !renderPassValid || info.RenderPass != 0:
			fix.renderingInfo = true
		case !has(gplFragmentOutput):
			fix.renderingFormats = rendering.ColorAttachmentFormats != nil ||
				rendering.DepthAttachmentFormat != VkFormat_VK_FORMAT_UNDEFINED ||
				rendering.StencilAttachmentFormat != VkFormat_VK_FORMAT_UNDEFINED
		}
	}
	return s, fix
}

func renderingAspects(info *VkPipelineRenderingCreateInfo) VkImageAspectFlags {
	var aspects VkImageAspectFlags
	for _, f := range info.ColorAttachmentFormats {
		if f != VkFormat_VK_FORMAT_UNDEFINED {
			aspects |= VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT
		}
	}
	if info.DepthAttachmentFormat != VkFormat_VK_FORMAT_UNDEFINED {
		aspects |= VkImageAspectFlagBits_VK_IMAGE_ASPECT_DEPTH_BIT
	}
	if info.StencilAttachmentFormat != VkFormat_VK_FORMAT_UNDEFINED {
		aspects |= VkImageAspectFlagBits_VK_IMAGE_ASPECT_STENCIL_BIT
	}
	return aspects
}

// apply clears the flagged fields of info. Nested state that is only
// partially cleared is copied first so the caller's structs are untouched.
func (f pipelineFix) apply(info *VkGraphicsPipelineCreateInfo) {
	if f.stages {
		info.Stages = nil
	}
	if f.vertexInputState {
		info.VertexInputState = nil
	}
	if f.inputAssemblyState {
		info.InputAssemblyState = nil
	}
	if f.tessellationState {
		info.TessellationState = nil
	}
	switch {
	case f.viewportState:
		info.ViewportState = nil
	case f.viewports || f.scissors:
		vs := *info.ViewportState
		if f.viewports {
			vs.Viewports = nil
		}
		if f.scissors {
			vs.Scissors = nil
		}
		info.ViewportState = &vs
	}
	if f.rasterizationState {
		info.RasterizationState = nil
	}
	switch {
	case f.multisampleState:
		info.MultisampleState = nil
	case f.sampleMask:
		ms := *info.MultisampleState
		ms.SampleMask = nil
		info.MultisampleState = &ms
	}
	if f.depthStencilState {
		info.DepthStencilState = nil
	}
	if f.colorBlendState {
		info.ColorBlendState = nil
	}
	if f.layout {
		info.Layout = 0
	}
	if f.renderPass {
		info.RenderPass = 0
	}
	if f.basePipeline {
		info.BasePipelineHandle = 0
	}
	switch {
	case f.renderingInfo:
		info.PNext = filterChain(info.PNext, func(s VkStructure) bool {
			_, ok := s.(*VkPipelineRenderingCreateInfo)
			return !ok
		})
	case f.renderingFormats:
		chain := make([]VkStructure, len(info.PNext))
		for i, s := range info.PNext {
			if r, ok := s.(*VkPipelineRenderingCreateInfo); ok {
				c := *r
				c.ColorAttachmentFormats = nil
				c.DepthAttachmentFormat = VkFormat_VK_FORMAT_UNDEFINED
				c.StencilAttachmentFormat = VkFormat_VK_FORMAT_UNDEFINED
				s = &c
			}
			chain[i] = s
		}
		info.PNext = chain
	}
}

// fixGraphicsPipelineInfos returns infos with every fix applied. infos is
// returned as is when nothing needs fixing.
func fixGraphicsPipelineInfos(infos []VkGraphicsPipelineCreateInfo, fixes []pipelineFix) []VkGraphicsPipelineCreateInfo {
	needed := false
	for _, f := range fixes {
		needed = needed || f.needed()
	}
	if !needed {
		return infos
	}
	out := append([]VkGraphicsPipelineCreateInfo(nil), infos...)
	for i, f := range fixes {
		if f.needed() {
			f.apply(&out[i])
		}
	}
	return out
}
