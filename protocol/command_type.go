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

package protocol

import "fmt"

// CommandType identifies one encoded Vulkan call.
type CommandType uint32

const (
	CreateCommandPool CommandType = iota + 1
	DestroyCommandPool
	ResetCommandPool
	TrimCommandPool
	AllocateCommandBuffers
	FreeCommandBuffers
	BeginCommandBuffer
	EndCommandBuffer
	ResetCommandBuffer
	CreateImage
	DestroyImage
	CreateImageView
	DestroyImageView
	CreateBuffer
	DestroyBuffer
	CreateQueryPool
	DestroyQueryPool
	CreateRenderPass
	CreateRenderPass2
	DestroyRenderPass
	GetRenderAreaGranularity
	CreateFramebuffer
	DestroyFramebuffer
	CreateDescriptorSetLayout
	DestroyDescriptorSetLayout
	GetDescriptorSetLayoutSupport
	CreateDescriptorPool
	DestroyDescriptorPool
	ResetDescriptorPool
	AllocateDescriptorSets
	FreeDescriptorSets
	UpdateDescriptorSets
	CreatePipelineLayout
	DestroyPipelineLayout
	CreatePipelineCache
	DestroyPipelineCache
	GetPipelineCacheData
	MergePipelineCaches
	CreateGraphicsPipelines
	CreateComputePipelines
	DestroyPipeline
	CmdBindPipeline
	CmdSetViewport
	CmdSetScissor
	CmdSetLineWidth
	CmdSetDepthBias
	CmdSetBlendConstants
	CmdSetDepthBounds
	CmdSetStencilCompareMask
	CmdSetStencilWriteMask
	CmdSetStencilReference
	CmdBindDescriptorSets
	CmdBindIndexBuffer
	CmdBindVertexBuffers
	CmdDraw
	CmdDrawIndexed
	CmdDrawMultiEXT
	CmdDrawMultiIndexedEXT
	CmdDrawIndirect
	CmdDrawIndexedIndirect
	CmdDrawIndirectCount
	CmdDrawIndexedIndirectCount
	CmdDrawIndirectByteCountEXT
	CmdDispatch
	CmdDispatchBase
	CmdDispatchIndirect
	CmdCopyBuffer
	CmdCopyImage
	CmdBlitImage
	CmdCopyBufferToImage
	CmdCopyImageToBuffer
	CmdUpdateBuffer
	CmdFillBuffer
	CmdClearColorImage
	CmdClearDepthStencilImage
	CmdClearAttachments
	CmdResolveImage
	CmdSetEvent
	CmdResetEvent
	CmdWaitEvents
	CmdPipelineBarrier
	CmdBeginQuery
	CmdEndQuery
	CmdBeginQueryIndexedEXT
	CmdEndQueryIndexedEXT
	CmdResetQueryPool
	CmdWriteTimestamp
	CmdCopyQueryPoolResults
	CmdPushConstants
	CmdBeginRenderPass
	CmdNextSubpass
	CmdEndRenderPass
	CmdBeginRenderPass2
	CmdNextSubpass2
	CmdEndRenderPass2
	CmdExecuteCommands
	CmdSetDeviceMask
	CmdBeginConditionalRenderingEXT
	CmdEndConditionalRenderingEXT
	CmdBindTransformFeedbackBuffersEXT
	CmdBeginTransformFeedbackEXT
	CmdEndTransformFeedbackEXT
	CmdSetLineStippleEXT
	CmdSetCullMode
	CmdSetFrontFace
	CmdSetPrimitiveTopology
	CmdSetViewportWithCount
	CmdSetScissorWithCount
	CmdBindVertexBuffers2
	CmdSetDepthTestEnable
	CmdSetDepthWriteEnable
	CmdSetDepthCompareOp
	CmdSetDepthBoundsTestEnable
	CmdSetStencilTestEnable
	CmdSetStencilOp
	CmdSetPatchControlPointsEXT
	CmdSetRasterizerDiscardEnable
	CmdSetDepthBiasEnable
	CmdSetLogicOpEXT
	CmdSetPrimitiveRestartEnable
	CmdSetColorWriteEnableEXT
	CmdSetVertexInputEXT
	CmdSetFragmentShadingRateKHR
	CmdSetTessellationDomainOriginEXT
	CmdSetDepthClampEnableEXT
	CmdSetPolygonModeEXT
	CmdSetRasterizationSamplesEXT
	CmdSetSampleMaskEXT
	CmdSetAlphaToCoverageEnableEXT
	CmdSetAlphaToOneEnableEXT
	CmdSetLogicOpEnableEXT
	CmdSetColorBlendEnableEXT
	CmdSetColorBlendEquationEXT
	CmdSetColorWriteMaskEXT
	CmdSetRasterizationStreamEXT
	CmdSetConservativeRasterizationModeEXT
	CmdSetExtraPrimitiveOverestimationSizeEXT
	CmdSetDepthClipEnableEXT
	CmdSetSampleLocationsEnableEXT
	CmdSetProvokingVertexModeEXT
	CmdSetLineRasterizationModeEXT
	CmdSetLineStippleEnableEXT
	CmdSetDepthClipNegativeOneToOneEXT
	CmdCopyBuffer2
	CmdCopyImage2
	CmdBlitImage2
	CmdCopyBufferToImage2
	CmdCopyImageToBuffer2
	CmdResolveImage2
	CmdSetEvent2
	CmdResetEvent2
	CmdWaitEvents2
	CmdPipelineBarrier2
	CmdWriteTimestamp2
	CmdBeginRendering
	CmdEndRendering
	CmdPushDescriptorSetKHR
	commandTypeEnd
)

var commandNames = [...]string{
	CreateCommandPool:                         "vkCreateCommandPool",
	DestroyCommandPool:                        "vkDestroyCommandPool",
	ResetCommandPool:                          "vkResetCommandPool",
	TrimCommandPool:                           "vkTrimCommandPool",
	AllocateCommandBuffers:                    "vkAllocateCommandBuffers",
	FreeCommandBuffers:                        "vkFreeCommandBuffers",
	BeginCommandBuffer:                        "vkBeginCommandBuffer",
	EndCommandBuffer:                          "vkEndCommandBuffer",
	ResetCommandBuffer:                        "vkResetCommandBuffer",
	CreateImage:                               "vkCreateImage",
	DestroyImage:                              "vkDestroyImage",
	CreateImageView:                           "vkCreateImageView",
	DestroyImageView:                          "vkDestroyImageView",
	CreateBuffer:                              "vkCreateBuffer",
	DestroyBuffer:                             "vkDestroyBuffer",
	CreateQueryPool:                           "vkCreateQueryPool",
	DestroyQueryPool:                          "vkDestroyQueryPool",
	CreateRenderPass:                          "vkCreateRenderPass",
	CreateRenderPass2:                         "vkCreateRenderPass2",
	DestroyRenderPass:                         "vkDestroyRenderPass",
	GetRenderAreaGranularity:                  "vkGetRenderAreaGranularity",
	CreateFramebuffer:                         "vkCreateFramebuffer",
	DestroyFramebuffer:                        "vkDestroyFramebuffer",
	CreateDescriptorSetLayout:                 "vkCreateDescriptorSetLayout",
	DestroyDescriptorSetLayout:                "vkDestroyDescriptorSetLayout",
	GetDescriptorSetLayoutSupport:             "vkGetDescriptorSetLayoutSupport",
	CreateDescriptorPool:                      "vkCreateDescriptorPool",
	DestroyDescriptorPool:                     "vkDestroyDescriptorPool",
	ResetDescriptorPool:                       "vkResetDescriptorPool",
	AllocateDescriptorSets:                    "vkAllocateDescriptorSets",
	FreeDescriptorSets:                        "vkFreeDescriptorSets",
	UpdateDescriptorSets:                      "vkUpdateDescriptorSets",
	CreatePipelineLayout:                      "vkCreatePipelineLayout",
	DestroyPipelineLayout:                     "vkDestroyPipelineLayout",
	CreatePipelineCache:                       "vkCreatePipelineCache",
	DestroyPipelineCache:                      "vkDestroyPipelineCache",
	GetPipelineCacheData:                      "vkGetPipelineCacheData",
	MergePipelineCaches:                       "vkMergePipelineCaches",
	CreateGraphicsPipelines:                   "vkCreateGraphicsPipelines",
	CreateComputePipelines:                    "vkCreateComputePipelines",
	DestroyPipeline:                           "vkDestroyPipeline",
	CmdBindPipeline:                           "vkCmdBindPipeline",
	CmdSetViewport:                            "vkCmdSetViewport",
	CmdSetScissor:                             "vkCmdSetScissor",
	CmdSetLineWidth:                           "vkCmdSetLineWidth",
	CmdSetDepthBias:                           "vkCmdSetDepthBias",
	CmdSetBlendConstants:                      "vkCmdSetBlendConstants",
	CmdSetDepthBounds:                         "vkCmdSetDepthBounds",
	CmdSetStencilCompareMask:                  "vkCmdSetStencilCompareMask",
	CmdSetStencilWriteMask:                    "vkCmdSetStencilWriteMask",
	CmdSetStencilReference:                    "vkCmdSetStencilReference",
	CmdBindDescriptorSets:                     "vkCmdBindDescriptorSets",
	CmdBindIndexBuffer:                        "vkCmdBindIndexBuffer",
	CmdBindVertexBuffers:                      "vkCmdBindVertexBuffers",
	CmdDraw:                                   "vkCmdDraw",
	CmdDrawIndexed:                            "vkCmdDrawIndexed",
	CmdDrawMultiEXT:                           "vkCmdDrawMultiEXT",
	CmdDrawMultiIndexedEXT:                    "vkCmdDrawMultiIndexedEXT",
	CmdDrawIndirect:                           "vkCmdDrawIndirect",
	CmdDrawIndexedIndirect:                    "vkCmdDrawIndexedIndirect",
	CmdDrawIndirectCount:                      "vkCmdDrawIndirectCount",
	CmdDrawIndexedIndirectCount:               "vkCmdDrawIndexedIndirectCount",
	CmdDrawIndirectByteCountEXT:               "vkCmdDrawIndirectByteCountEXT",
	CmdDispatch:                               "vkCmdDispatch",
	CmdDispatchBase:                           "vkCmdDispatchBase",
	CmdDispatchIndirect:                       "vkCmdDispatchIndirect",
	CmdCopyBuffer:                             "vkCmdCopyBuffer",
	CmdCopyImage:                              "vkCmdCopyImage",
	CmdBlitImage:                              "vkCmdBlitImage",
	CmdCopyBufferToImage:                      "vkCmdCopyBufferToImage",
	CmdCopyImageToBuffer:                      "vkCmdCopyImageToBuffer",
	CmdUpdateBuffer:                           "vkCmdUpdateBuffer",
	CmdFillBuffer:                             "vkCmdFillBuffer",
	CmdClearColorImage:                        "vkCmdClearColorImage",
	CmdClearDepthStencilImage:                 "vkCmdClearDepthStencilImage",
	CmdClearAttachments:                       "vkCmdClearAttachments",
	CmdResolveImage:                           "vkCmdResolveImage",
	CmdSetEvent:                               "vkCmdSetEvent",
	CmdResetEvent:                             "vkCmdResetEvent",
	CmdWaitEvents:                             "vkCmdWaitEvents",
	CmdPipelineBarrier:                        "vkCmdPipelineBarrier",
	CmdBeginQuery:                             "vkCmdBeginQuery",
	CmdEndQuery:                               "vkCmdEndQuery",
	CmdBeginQueryIndexedEXT:                   "vkCmdBeginQueryIndexedEXT",
	CmdEndQueryIndexedEXT:                     "vkCmdEndQueryIndexedEXT",
	CmdResetQueryPool:                         "vkCmdResetQueryPool",
	CmdWriteTimestamp:                         "vkCmdWriteTimestamp",
	CmdCopyQueryPoolResults:                   "vkCmdCopyQueryPoolResults",
	CmdPushConstants:                          "vkCmdPushConstants",
	CmdBeginRenderPass:                        "vkCmdBeginRenderPass",
	CmdNextSubpass:                            "vkCmdNextSubpass",
	CmdEndRenderPass:                          "vkCmdEndRenderPass",
	CmdBeginRenderPass2:                       "vkCmdBeginRenderPass2",
	CmdNextSubpass2:                           "vkCmdNextSubpass2",
	CmdEndRenderPass2:                         "vkCmdEndRenderPass2",
	CmdExecuteCommands:                        "vkCmdExecuteCommands",
	CmdSetDeviceMask:                          "vkCmdSetDeviceMask",
	CmdBeginConditionalRenderingEXT:           "vkCmdBeginConditionalRenderingEXT",
	CmdEndConditionalRenderingEXT:             "vkCmdEndConditionalRenderingEXT",
	CmdBindTransformFeedbackBuffersEXT:        "vkCmdBindTransformFeedbackBuffersEXT",
	CmdBeginTransformFeedbackEXT:              "vkCmdBeginTransformFeedbackEXT",
	CmdEndTransformFeedbackEXT:                "vkCmdEndTransformFeedbackEXT",
	CmdSetLineStippleEXT:                      "vkCmdSetLineStippleEXT",
	CmdSetCullMode:                            "vkCmdSetCullMode",
	CmdSetFrontFace:                           "vkCmdSetFrontFace",
	CmdSetPrimitiveTopology:                   "vkCmdSetPrimitiveTopology",
	CmdSetViewportWithCount:                   "vkCmdSetViewportWithCount",
	CmdSetScissorWithCount:                    "vkCmdSetScissorWithCount",
	CmdBindVertexBuffers2:                     "vkCmdBindVertexBuffers2",
	CmdSetDepthTestEnable:                     "vkCmdSetDepthTestEnable",
	CmdSetDepthWriteEnable:                    "vkCmdSetDepthWriteEnable",
	CmdSetDepthCompareOp:                      "vkCmdSetDepthCompareOp",
	CmdSetDepthBoundsTestEnable:               "vkCmdSetDepthBoundsTestEnable",
	CmdSetStencilTestEnable:                   "vkCmdSetStencilTestEnable",
	CmdSetStencilOp:                           "vkCmdSetStencilOp",
	CmdSetPatchControlPointsEXT:               "vkCmdSetPatchControlPointsEXT",
	CmdSetRasterizerDiscardEnable:             "vkCmdSetRasterizerDiscardEnable",
	CmdSetDepthBiasEnable:                     "vkCmdSetDepthBiasEnable",
	CmdSetLogicOpEXT:                          "vkCmdSetLogicOpEXT",
	CmdSetPrimitiveRestartEnable:              "vkCmdSetPrimitiveRestartEnable",
	CmdSetColorWriteEnableEXT:                 "vkCmdSetColorWriteEnableEXT",
	CmdSetVertexInputEXT:                      "vkCmdSetVertexInputEXT",
	CmdSetFragmentShadingRateKHR:              "vkCmdSetFragmentShadingRateKHR",
	CmdSetTessellationDomainOriginEXT:         "vkCmdSetTessellationDomainOriginEXT",
	CmdSetDepthClampEnableEXT:                 "vkCmdSetDepthClampEnableEXT",
	CmdSetPolygonModeEXT:                      "vkCmdSetPolygonModeEXT",
	CmdSetRasterizationSamplesEXT:             "vkCmdSetRasterizationSamplesEXT",
	CmdSetSampleMaskEXT:                       "vkCmdSetSampleMaskEXT",
	CmdSetAlphaToCoverageEnableEXT:            "vkCmdSetAlphaToCoverageEnableEXT",
	CmdSetAlphaToOneEnableEXT:                 "vkCmdSetAlphaToOneEnableEXT",
	CmdSetLogicOpEnableEXT:                    "vkCmdSetLogicOpEnableEXT",
	CmdSetColorBlendEnableEXT:                 "vkCmdSetColorBlendEnableEXT",
	CmdSetColorBlendEquationEXT:               "vkCmdSetColorBlendEquationEXT",
	CmdSetColorWriteMaskEXT:                   "vkCmdSetColorWriteMaskEXT",
	CmdSetRasterizationStreamEXT:              "vkCmdSetRasterizationStreamEXT",
	CmdSetConservativeRasterizationModeEXT:    "vkCmdSetConservativeRasterizationModeEXT",
	CmdSetExtraPrimitiveOverestimationSizeEXT: "vkCmdSetExtraPrimitiveOverestimationSizeEXT",
	CmdSetDepthClipEnableEXT:                  "vkCmdSetDepthClipEnableEXT",
	CmdSetSampleLocationsEnableEXT:            "vkCmdSetSampleLocationsEnableEXT",
	CmdSetProvokingVertexModeEXT:              "vkCmdSetProvokingVertexModeEXT",
	CmdSetLineRasterizationModeEXT:            "vkCmdSetLineRasterizationModeEXT",
	CmdSetLineStippleEnableEXT:                "vkCmdSetLineStippleEnableEXT",
	CmdSetDepthClipNegativeOneToOneEXT:        "vkCmdSetDepthClipNegativeOneToOneEXT",
	CmdCopyBuffer2:                            "vkCmdCopyBuffer2",
	CmdCopyImage2:                             "vkCmdCopyImage2",
	CmdBlitImage2:                             "vkCmdBlitImage2",
	CmdCopyBufferToImage2:                     "vkCmdCopyBufferToImage2",
	CmdCopyImageToBuffer2:                     "vkCmdCopyImageToBuffer2",
	CmdResolveImage2:                          "vkCmdResolveImage2",
	CmdSetEvent2:                              "vkCmdSetEvent2",
	CmdResetEvent2:                            "vkCmdResetEvent2",
	CmdWaitEvents2:                            "vkCmdWaitEvents2",
	CmdPipelineBarrier2:                       "vkCmdPipelineBarrier2",
	CmdWriteTimestamp2:                        "vkCmdWriteTimestamp2",
	CmdBeginRendering:                         "vkCmdBeginRendering",
	CmdEndRendering:                           "vkCmdEndRendering",
	CmdPushDescriptorSetKHR:                   "vkCmdPushDescriptorSetKHR",
}

func (t CommandType) String() string {
	if t > 0 && t < commandTypeEnd {
		return commandNames[t]
	}
	return fmt.Sprintf("CommandType<%d>", uint32(t))
}

// Valid returns true if t names a known command.
func (t CommandType) Valid() bool { return t > 0 && t < commandTypeEnd }

// IsCmd returns true if t is recorded into a command buffer rather than
// executed on the device.
func (t CommandType) IsCmd() bool { return t >= CmdBindPipeline && t < commandTypeEnd }
