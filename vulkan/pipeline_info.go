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

import "github.com/google/venus/core/data/binary"

// VkFlags is used for the reserved flags of pipeline state.
type VkFlags uint32

type VkSpecializationMapEntry struct {
	ConstantID uint32
	Offset     uint32
	Size       uint64
}

func (e VkSpecializationMapEntry) encode(w binary.Writer) {
	w.Uint32(e.ConstantID)
	w.Uint32(e.Offset)
	w.Uint64(e.Size)
}

type VkSpecializationInfo struct {
	MapEntries []VkSpecializationMapEntry
	Data       []byte
}

func (i VkSpecializationInfo) encode(w binary.Writer) {
	encodeArray(w, i.MapEntries)
	encodeBytes(w, i.Data)
}

type VkPipelineShaderStageCreateInfo struct {
	PNext              []VkStructure
	Flags              VkShaderStageCreateFlags
	Stage              VkShaderStageFlags
	Module             VkShaderModule
	Name               string
	SpecializationInfo *VkSpecializationInfo
}

func (i VkPipelineShaderStageCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(uint32(i.Stage))
	w.Uint64(uint64(i.Module))
	encodeString(w, i.Name)
	encodeOptional(w, i.SpecializationInfo)
}

type VkVertexInputBindingDescription struct {
	Binding   uint32
	Stride    uint32
	InputRate VkVertexInputRate
}

func (d VkVertexInputBindingDescription) encode(w binary.Writer) {
	w.Uint32(d.Binding)
	w.Uint32(d.Stride)
	w.Uint32(uint32(d.InputRate))
}

type VkVertexInputAttributeDescription struct {
	Location uint32
	Binding  uint32
	Format   VkFormat
	Offset   uint32
}

func (d VkVertexInputAttributeDescription) encode(w binary.Writer) {
	w.Uint32(d.Location)
	w.Uint32(d.Binding)
	w.Uint32(uint32(d.Format))
	w.Uint32(d.Offset)
}

type VkPipelineVertexInputStateCreateInfo struct {
	PNext      []VkStructure
	Flags      VkFlags
	Bindings   []VkVertexInputBindingDescription
	Attributes []VkVertexInputAttributeDescription
}

func (i VkPipelineVertexInputStateCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	encodeArray(w, i.Bindings)
	encodeArray(w, i.Attributes)
}

type VkPipelineInputAssemblyStateCreateInfo struct {
	Flags                  VkFlags
	Topology               VkPrimitiveTopology
	PrimitiveRestartEnable bool
}

func (i VkPipelineInputAssemblyStateCreateInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	w.Uint32(uint32(i.Topology))
	w.Bool(i.PrimitiveRestartEnable)
}

type VkPipelineTessellationStateCreateInfo struct {
	PNext              []VkStructure
	Flags              VkFlags
	PatchControlPoints uint32
}

func (i VkPipelineTessellationStateCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(i.PatchControlPoints)
}

// VkPipelineViewportStateCreateInfo carries its counts apart from the
// arrays, which are nil when the viewports or scissors are dynamic.
type VkPipelineViewportStateCreateInfo struct {
	PNext         []VkStructure
	Flags         VkFlags
	ViewportCount uint32
	Viewports     []VkViewport
	ScissorCount  uint32
	Scissors      []VkRect2D
}

func (i VkPipelineViewportStateCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(i.ViewportCount)
	encodeOptionalArray(w, i.Viewports)
	w.Uint32(i.ScissorCount)
	encodeOptionalArray(w, i.Scissors)
}

type VkPipelineRasterizationStateCreateInfo struct {
	PNext                   []VkStructure
	Flags                   VkFlags
	DepthClampEnable        bool
	RasterizerDiscardEnable bool
	PolygonMode             VkPolygonMode
	CullMode                VkCullModeFlags
	FrontFace               VkFrontFace
	DepthBiasEnable         bool
	DepthBiasConstantFactor float32
	DepthBiasClamp          float32
	DepthBiasSlopeFactor    float32
	LineWidth               float32
}

func (i VkPipelineRasterizationStateCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Bool(i.DepthClampEnable)
	w.Bool(i.RasterizerDiscardEnable)
	w.Uint32(uint32(i.PolygonMode))
	w.Uint32(uint32(i.CullMode))
	w.Uint32(uint32(i.FrontFace))
	w.Bool(i.DepthBiasEnable)
	w.Float32(i.DepthBiasConstantFactor)
	w.Float32(i.DepthBiasClamp)
	w.Float32(i.DepthBiasSlopeFactor)
	w.Float32(i.LineWidth)
}

type VkPipelineMultisampleStateCreateInfo struct {
	PNext                 []VkStructure
	Flags                 VkFlags
	RasterizationSamples  VkSampleCountFlags
	SampleShadingEnable   bool
	MinSampleShading      float32
	SampleMask            []uint32
	AlphaToCoverageEnable bool
	AlphaToOneEnable      bool
}

func (i VkPipelineMultisampleStateCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(uint32(i.RasterizationSamples))
	w.Bool(i.SampleShadingEnable)
	w.Float32(i.MinSampleShading)
	w.Bool(i.SampleMask != nil)
	if i.SampleMask != nil {
		encodeUint32s(w, i.SampleMask)
	}
	w.Bool(i.AlphaToCoverageEnable)
	w.Bool(i.AlphaToOneEnable)
}

type VkStencilOpState struct {
	FailOp      VkStencilOp
	PassOp      VkStencilOp
	DepthFailOp VkStencilOp
	CompareOp   VkCompareOp
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

func (s VkStencilOpState) encode(w binary.Writer) {
	w.Uint32(uint32(s.FailOp))
	w.Uint32(uint32(s.PassOp))
	w.Uint32(uint32(s.DepthFailOp))
	w.Uint32(uint32(s.CompareOp))
	w.Uint32(s.CompareMask)
	w.Uint32(s.WriteMask)
	w.Uint32(s.Reference)
}

type VkPipelineDepthStencilStateCreateInfo struct {
	Flags                 VkFlags
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        VkCompareOp
	DepthBoundsTestEnable bool
	StencilTestEnable     bool
	Front                 VkStencilOpState
	Back                  VkStencilOpState
	MinDepthBounds        float32
	MaxDepthBounds        float32
}

func (i VkPipelineDepthStencilStateCreateInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	w.Bool(i.DepthTestEnable)
	w.Bool(i.DepthWriteEnable)
	w.Uint32(uint32(i.DepthCompareOp))
	w.Bool(i.DepthBoundsTestEnable)
	w.Bool(i.StencilTestEnable)
	i.Front.encode(w)
	i.Back.encode(w)
	w.Float32(i.MinDepthBounds)
	w.Float32(i.MaxDepthBounds)
}

type VkPipelineColorBlendAttachmentState struct {
	BlendEnable         bool
	SrcColorBlendFactor VkBlendFactor
	DstColorBlendFactor VkBlendFactor
	ColorBlendOp        VkBlendOp
	SrcAlphaBlendFactor VkBlendFactor
	DstAlphaBlendFactor VkBlendFactor
	AlphaBlendOp        VkBlendOp
	ColorWriteMask      VkColorComponentFlags
}

func (s VkPipelineColorBlendAttachmentState) encode(w binary.Writer) {
	w.Bool(s.BlendEnable)
	w.Uint32(uint32(s.SrcColorBlendFactor))
	w.Uint32(uint32(s.DstColorBlendFactor))
	w.Uint32(uint32(s.ColorBlendOp))
	w.Uint32(uint32(s.SrcAlphaBlendFactor))
	w.Uint32(uint32(s.DstAlphaBlendFactor))
	w.Uint32(uint32(s.AlphaBlendOp))
	w.Uint32(uint32(s.ColorWriteMask))
}

type VkPipelineColorBlendStateCreateInfo struct {
	PNext          []VkStructure
	Flags          VkFlags
	LogicOpEnable  bool
	LogicOp        VkLogicOp
	Attachments    []VkPipelineColorBlendAttachmentState
	BlendConstants [4]float32
}

func (i VkPipelineColorBlendStateCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Bool(i.LogicOpEnable)
	w.Uint32(uint32(i.LogicOp))
	encodeArray(w, i.Attachments)
	for _, c := range i.BlendConstants {
		w.Float32(c)
	}
}

type VkPipelineDynamicStateCreateInfo struct {
	Flags         VkFlags
	DynamicStates []VkDynamicState
}

func (i VkPipelineDynamicStateCreateInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	encodeUint32s(w, i.DynamicStates)
}

type VkGraphicsPipelineCreateInfo struct {
	PNext              []VkStructure
	Flags              VkPipelineCreateFlags
	Stages             []VkPipelineShaderStageCreateInfo
	VertexInputState   *VkPipelineVertexInputStateCreateInfo
	InputAssemblyState *VkPipelineInputAssemblyStateCreateInfo
	TessellationState  *VkPipelineTessellationStateCreateInfo
	ViewportState      *VkPipelineViewportStateCreateInfo
	RasterizationState *VkPipelineRasterizationStateCreateInfo
	MultisampleState   *VkPipelineMultisampleStateCreateInfo
	DepthStencilState  *VkPipelineDepthStencilStateCreateInfo
	ColorBlendState    *VkPipelineColorBlendStateCreateInfo
	DynamicState       *VkPipelineDynamicStateCreateInfo
	Layout             VkPipelineLayout
	RenderPass         VkRenderPass
	Subpass            uint32
	BasePipelineHandle VkPipeline
	BasePipelineIndex  int32
}

func (i VkGraphicsPipelineCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	encodeArray(w, i.Stages)
	encodeOptional(w, i.VertexInputState)
	encodeOptional(w, i.InputAssemblyState)
	encodeOptional(w, i.TessellationState)
	encodeOptional(w, i.ViewportState)
	encodeOptional(w, i.RasterizationState)
	encodeOptional(w, i.MultisampleState)
	encodeOptional(w, i.DepthStencilState)
	encodeOptional(w, i.ColorBlendState)
	encodeOptional(w, i.DynamicState)
	w.Uint64(uint64(i.Layout))
	w.Uint64(uint64(i.RenderPass))
	w.Uint32(i.Subpass)
	w.Uint64(uint64(i.BasePipelineHandle))
	w.Int32(i.BasePipelineIndex)
}

type VkComputePipelineCreateInfo struct {
	PNext              []VkStructure
	Flags              VkPipelineCreateFlags
	Stage              VkPipelineShaderStageCreateInfo
	Layout             VkPipelineLayout
	BasePipelineHandle VkPipeline
	BasePipelineIndex  int32
}

func (i VkComputePipelineCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	i.Stage.encode(w)
	w.Uint64(uint64(i.Layout))
	w.Uint64(uint64(i.BasePipelineHandle))
	w.Int32(i.BasePipelineIndex)
}

type VkGraphicsPipelineLibraryCreateInfoEXT struct {
	Flags VkGraphicsPipelineLibraryFlagsEXT
}

func (*VkGraphicsPipelineLibraryCreateInfoEXT) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_GRAPHICS_PIPELINE_LIBRARY_CREATE_INFO_EXT
}

func (s *VkGraphicsPipelineLibraryCreateInfoEXT) encode(w binary.Writer) { w.Uint32(uint32(s.Flags)) }

type VkPipelineLibraryCreateInfoKHR struct {
	Libraries []VkPipeline
}

func (*VkPipelineLibraryCreateInfoKHR) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_PIPELINE_LIBRARY_CREATE_INFO_KHR
}

func (s *VkPipelineLibraryCreateInfoKHR) encode(w binary.Writer) { encodeHandles(w, s.Libraries) }

type VkPipelineRenderingCreateInfo struct {
	ViewMask                uint32
	ColorAttachmentFormats  []VkFormat
	DepthAttachmentFormat   VkFormat
	StencilAttachmentFormat VkFormat
}

func (*VkPipelineRenderingCreateInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_PIPELINE_RENDERING_CREATE_INFO
}

func (s *VkPipelineRenderingCreateInfo) encode(w binary.Writer) {
	w.Uint32(s.ViewMask)
	encodeUint32s(w, s.ColorAttachmentFormats)
	w.Uint32(uint32(s.DepthAttachmentFormat))
	w.Uint32(uint32(s.StencilAttachmentFormat))
}

type VkPipelineCreationFeedback struct {
	Flags    uint32
	Duration uint64
}

func (f VkPipelineCreationFeedback) encode(w binary.Writer) {
	w.Uint32(f.Flags)
	w.Uint64(f.Duration)
}

// VkPipelineCreationFeedbackCreateInfo points at outputs the host fills in.
type VkPipelineCreationFeedbackCreateInfo struct {
	PipelineCreationFeedback       *VkPipelineCreationFeedback
	PipelineStageCreationFeedbacks []VkPipelineCreationFeedback
}

func (*VkPipelineCreationFeedbackCreateInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_PIPELINE_CREATION_FEEDBACK_CREATE_INFO
}

func (s *VkPipelineCreationFeedbackCreateInfo) encode(w binary.Writer) {
	encodeOptional(w, s.PipelineCreationFeedback)
	encodeArray(w, s.PipelineStageCreationFeedbacks)
}

// zeroCreationFeedback clears the creation feedback outputs in chain before
// they are sent to the host.
func zeroCreationFeedback(chain []VkStructure) {
	fb, ok := findStruct[*VkPipelineCreationFeedbackCreateInfo](chain)
	if !ok {
		return
	}
	if fb.PipelineCreationFeedback != nil {
		*fb.PipelineCreationFeedback = VkPipelineCreationFeedback{}
	}
	for i := range fb.PipelineStageCreationFeedbacks {
		fb.PipelineStageCreationFeedbacks[i] = VkPipelineCreationFeedback{}
	}
}
