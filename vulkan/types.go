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

import "fmt"

// VkCommandBuffer is the wire id of a CommandBuffer.
type VkCommandBuffer uint64

// Non-dispatchable object handles.
type (
	VkCommandPool              uint64
	VkImage                    uint64
	VkImageView                uint64
	VkBuffer                   uint64
	VkBufferView               uint64
	VkSampler                  uint64
	VkQueryPool                uint64
	VkEvent                    uint64
	VkRenderPass               uint64
	VkFramebuffer              uint64
	VkDescriptorSetLayout      uint64
	VkDescriptorPool           uint64
	VkDescriptorSet            uint64
	VkDescriptorUpdateTemplate uint64
	VkPipelineLayout           uint64
	VkPipelineCache            uint64
	VkPipeline                 uint64
	VkShaderModule             uint64
	VkAccelerationStructureKHR uint64
	VkDeviceSize               uint64
	VkDeviceAddress            uint64
)

// VkResult is the result code of a Vulkan call. Non-success codes are
// returned as errors.
type VkResult int32

const (
	VkResult_VK_SUCCESS                           VkResult = 0
	VkResult_VK_NOT_READY                         VkResult = 1
	VkResult_VK_TIMEOUT                           VkResult = 2
	VkResult_VK_INCOMPLETE                        VkResult = 5
	VkResult_VK_ERROR_OUT_OF_HOST_MEMORY          VkResult = -1
	VkResult_VK_ERROR_OUT_OF_DEVICE_MEMORY        VkResult = -2
	VkResult_VK_ERROR_INITIALIZATION_FAILED       VkResult = -3
	VkResult_VK_ERROR_DEVICE_LOST                 VkResult = -4
	VkResult_VK_ERROR_FORMAT_NOT_SUPPORTED        VkResult = -11
	VkResult_VK_ERROR_FRAGMENTED_POOL             VkResult = -12
	VkResult_VK_ERROR_UNKNOWN                     VkResult = -13
	VkResult_VK_ERROR_OUT_OF_POOL_MEMORY          VkResult = -1000069000
	VkResult_VK_PIPELINE_COMPILE_REQUIRED         VkResult = 1000297000
	VkResult_VK_ERROR_INVALID_PIPELINE_CACHE_DATA VkResult = -1000298000
)

var resultNames = map[VkResult]string{
	VkResult_VK_SUCCESS:                           "VK_SUCCESS",
	VkResult_VK_NOT_READY:                         "VK_NOT_READY",
	VkResult_VK_TIMEOUT:                           "VK_TIMEOUT",
	VkResult_VK_INCOMPLETE:                        "VK_INCOMPLETE",
	VkResult_VK_ERROR_OUT_OF_HOST_MEMORY:          "VK_ERROR_OUT_OF_HOST_MEMORY",
	VkResult_VK_ERROR_OUT_OF_DEVICE_MEMORY:        "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	VkResult_VK_ERROR_INITIALIZATION_FAILED:       "VK_ERROR_INITIALIZATION_FAILED",
	VkResult_VK_ERROR_DEVICE_LOST:                 "VK_ERROR_DEVICE_LOST",
	VkResult_VK_ERROR_FORMAT_NOT_SUPPORTED:        "VK_ERROR_FORMAT_NOT_SUPPORTED",
	VkResult_VK_ERROR_FRAGMENTED_POOL:             "VK_ERROR_FRAGMENTED_POOL",
	VkResult_VK_ERROR_UNKNOWN:                     "VK_ERROR_UNKNOWN",
	VkResult_VK_ERROR_OUT_OF_POOL_MEMORY:          "VK_ERROR_OUT_OF_POOL_MEMORY",
	VkResult_VK_PIPELINE_COMPILE_REQUIRED:         "VK_PIPELINE_COMPILE_REQUIRED",
	VkResult_VK_ERROR_INVALID_PIPELINE_CACHE_DATA: "VK_ERROR_INVALID_PIPELINE_CACHE_DATA",
}

func (r VkResult) String() string {
	if n, ok := resultNames[r]; ok {
		return n
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

func (r VkResult) Error() string { return r.String() }

// result returns r as an error, or nil for VK_SUCCESS.
func result(r VkResult) error {
	if r == VkResult_VK_SUCCESS {
		return nil
	}
	return r
}

type VkStructureType uint32

const (
	VkStructureType_VK_STRUCTURE_TYPE_WSI_IMAGE_CREATE_INFO_MESA                                VkStructureType = 1000001002
	VkStructureType_VK_STRUCTURE_TYPE_PIPELINE_RENDERING_CREATE_INFO                            VkStructureType = 1000044002
	VkStructureType_VK_STRUCTURE_TYPE_COMMAND_BUFFER_INHERITANCE_RENDERING_INFO                 VkStructureType = 1000044004
	VkStructureType_VK_STRUCTURE_TYPE_RENDER_PASS_MULTIVIEW_CREATE_INFO                         VkStructureType = 1000053000
	VkStructureType_VK_STRUCTURE_TYPE_COMMAND_BUFFER_INHERITANCE_CONDITIONAL_RENDERING_INFO_EXT VkStructureType = 1000081000
	VkStructureType_VK_STRUCTURE_TYPE_RENDER_PASS_ATTACHMENT_BEGIN_INFO                         VkStructureType = 1000108003
	VkStructureType_VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET_INLINE_UNIFORM_BLOCK                 VkStructureType = 1000138002
	VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_POOL_INLINE_UNIFORM_BLOCK_CREATE_INFO          VkStructureType = 1000138003
	VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_SET_LAYOUT_BINDING_FLAGS_CREATE_INFO           VkStructureType = 1000161000
	VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_SET_VARIABLE_DESCRIPTOR_COUNT_ALLOCATE_INFO    VkStructureType = 1000161003
	VkStructureType_VK_STRUCTURE_TYPE_DESCRIPTOR_SET_VARIABLE_DESCRIPTOR_COUNT_LAYOUT_SUPPORT   VkStructureType = 1000161004
	VkStructureType_VK_STRUCTURE_TYPE_PIPELINE_CREATION_FEEDBACK_CREATE_INFO                    VkStructureType = 1000192000
	VkStructureType_VK_STRUCTURE_TYPE_PIPELINE_LIBRARY_CREATE_INFO_KHR                          VkStructureType = 1000290000
	VkStructureType_VK_STRUCTURE_TYPE_GRAPHICS_PIPELINE_LIBRARY_CREATE_INFO_EXT                 VkStructureType = 1000320002
	VkStructureType_VK_STRUCTURE_TYPE_MUTABLE_DESCRIPTOR_TYPE_CREATE_INFO_EXT                   VkStructureType = 1000351002
)

const (
	VK_QUEUE_FAMILY_IGNORED     = ^uint32(0)
	VK_QUEUE_FAMILY_EXTERNAL    = ^uint32(0) - 1
	VK_QUEUE_FAMILY_FOREIGN_EXT = ^uint32(0) - 2
	VK_ATTACHMENT_UNUSED        = ^uint32(0)
	VK_REMAINING_MIP_LEVELS     = ^uint32(0)
	VK_REMAINING_ARRAY_LAYERS   = ^uint32(0)
	VK_WHOLE_SIZE               = VkDeviceSize(^uint64(0))
	VK_UUID_SIZE                = 16
)

type VkImageLayout uint32

const (
	VkImageLayout_VK_IMAGE_LAYOUT_UNDEFINED                        VkImageLayout = 0
	VkImageLayout_VK_IMAGE_LAYOUT_GENERAL                          VkImageLayout = 1
	VkImageLayout_VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL         VkImageLayout = 2
	VkImageLayout_VK_IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL VkImageLayout = 3
	VkImageLayout_VK_IMAGE_LAYOUT_DEPTH_STENCIL_READ_ONLY_OPTIMAL  VkImageLayout = 4
	VkImageLayout_VK_IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL         VkImageLayout = 5
	VkImageLayout_VK_IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL             VkImageLayout = 6
	VkImageLayout_VK_IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL             VkImageLayout = 7
	VkImageLayout_VK_IMAGE_LAYOUT_PREINITIALIZED                   VkImageLayout = 8
	VkImageLayout_VK_IMAGE_LAYOUT_PRESENT_SRC_KHR                  VkImageLayout = 1000001002
	VkImageLayout_VK_IMAGE_LAYOUT_ATTACHMENT_OPTIMAL               VkImageLayout = 1000314001
)

type VkSharingMode uint32

const (
	VkSharingMode_VK_SHARING_MODE_EXCLUSIVE  VkSharingMode = 0
	VkSharingMode_VK_SHARING_MODE_CONCURRENT VkSharingMode = 1
)

type VkPipelineStageFlags uint32

const (
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_TOP_OF_PIPE_BIT             VkPipelineStageFlags = 0x1
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_DRAW_INDIRECT_BIT           VkPipelineStageFlags = 0x2
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_VERTEX_INPUT_BIT            VkPipelineStageFlags = 0x4
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_VERTEX_SHADER_BIT           VkPipelineStageFlags = 0x8
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_FRAGMENT_SHADER_BIT         VkPipelineStageFlags = 0x80
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT    VkPipelineStageFlags = 0x100
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_LATE_FRAGMENT_TESTS_BIT     VkPipelineStageFlags = 0x200
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT VkPipelineStageFlags = 0x400
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_COMPUTE_SHADER_BIT          VkPipelineStageFlags = 0x800
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_TRANSFER_BIT                VkPipelineStageFlags = 0x1000
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT          VkPipelineStageFlags = 0x2000
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_HOST_BIT                    VkPipelineStageFlags = 0x4000
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_ALL_GRAPHICS_BIT            VkPipelineStageFlags = 0x8000
	VkPipelineStageFlagBits_VK_PIPELINE_STAGE_ALL_COMMANDS_BIT            VkPipelineStageFlags = 0x10000
)

type VkPipelineStageFlags2 uint64

const (
	VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_NONE               VkPipelineStageFlags2 = 0
	VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_TOP_OF_PIPE_BIT    VkPipelineStageFlags2 = 0x1
	VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_TRANSFER_BIT       VkPipelineStageFlags2 = 0x1000
	VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_BOTTOM_OF_PIPE_BIT VkPipelineStageFlags2 = 0x2000
	VkPipelineStageFlagBits2_VK_PIPELINE_STAGE_2_ALL_COMMANDS_BIT   VkPipelineStageFlags2 = 0x10000
)

type VkAccessFlags uint32

const (
	VkAccessFlagBits_VK_ACCESS_INDIRECT_COMMAND_READ_BIT          VkAccessFlags = 0x1
	VkAccessFlagBits_VK_ACCESS_SHADER_READ_BIT                    VkAccessFlags = 0x20
	VkAccessFlagBits_VK_ACCESS_SHADER_WRITE_BIT                   VkAccessFlags = 0x40
	VkAccessFlagBits_VK_ACCESS_COLOR_ATTACHMENT_READ_BIT          VkAccessFlags = 0x80
	VkAccessFlagBits_VK_ACCESS_COLOR_ATTACHMENT_WRITE_BIT         VkAccessFlags = 0x100
	VkAccessFlagBits_VK_ACCESS_DEPTH_STENCIL_ATTACHMENT_READ_BIT  VkAccessFlags = 0x200
	VkAccessFlagBits_VK_ACCESS_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT VkAccessFlags = 0x400
	VkAccessFlagBits_VK_ACCESS_TRANSFER_READ_BIT                  VkAccessFlags = 0x800
	VkAccessFlagBits_VK_ACCESS_TRANSFER_WRITE_BIT                 VkAccessFlags = 0x1000
	VkAccessFlagBits_VK_ACCESS_HOST_READ_BIT                      VkAccessFlags = 0x2000
	VkAccessFlagBits_VK_ACCESS_HOST_WRITE_BIT                     VkAccessFlags = 0x4000
	VkAccessFlagBits_VK_ACCESS_MEMORY_READ_BIT                    VkAccessFlags = 0x8000
	VkAccessFlagBits_VK_ACCESS_MEMORY_WRITE_BIT                   VkAccessFlags = 0x10000
)

type VkAccessFlags2 uint64

const (
	VkAccessFlagBits2_VK_ACCESS_2_NONE               VkAccessFlags2 = 0
	VkAccessFlagBits2_VK_ACCESS_2_TRANSFER_WRITE_BIT VkAccessFlags2 = 0x1000
	VkAccessFlagBits2_VK_ACCESS_2_MEMORY_READ_BIT    VkAccessFlags2 = 0x8000
	VkAccessFlagBits2_VK_ACCESS_2_MEMORY_WRITE_BIT   VkAccessFlags2 = 0x10000
)

type VkDependencyFlags uint32

const (
	VkDependencyFlagBits_VK_DEPENDENCY_BY_REGION_BIT VkDependencyFlags = 0x1
)

type VkImageAspectFlags uint32

const (
	VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT   VkImageAspectFlags = 0x1
	VkImageAspectFlagBits_VK_IMAGE_ASPECT_DEPTH_BIT   VkImageAspectFlags = 0x2
	VkImageAspectFlagBits_VK_IMAGE_ASPECT_STENCIL_BIT VkImageAspectFlags = 0x4
)

type VkFormat uint32

const (
	VkFormat_VK_FORMAT_UNDEFINED           VkFormat = 0
	VkFormat_VK_FORMAT_R8G8B8A8_UNORM      VkFormat = 37
	VkFormat_VK_FORMAT_R8G8B8A8_SRGB       VkFormat = 43
	VkFormat_VK_FORMAT_B8G8R8A8_UNORM      VkFormat = 44
	VkFormat_VK_FORMAT_B8G8R8A8_SRGB       VkFormat = 50
	VkFormat_VK_FORMAT_R32G32_SFLOAT       VkFormat = 103
	VkFormat_VK_FORMAT_R32G32B32_SFLOAT    VkFormat = 106
	VkFormat_VK_FORMAT_R32G32B32A32_SFLOAT VkFormat = 109
	VkFormat_VK_FORMAT_D16_UNORM           VkFormat = 124
	VkFormat_VK_FORMAT_X8_D24_UNORM_PACK32 VkFormat = 125
	VkFormat_VK_FORMAT_D32_SFLOAT          VkFormat = 126
	VkFormat_VK_FORMAT_S8_UINT             VkFormat = 127
	VkFormat_VK_FORMAT_D16_UNORM_S8_UINT   VkFormat = 128
	VkFormat_VK_FORMAT_D24_UNORM_S8_UINT   VkFormat = 129
	VkFormat_VK_FORMAT_D32_SFLOAT_S8_UINT  VkFormat = 130
)

// formatAspects returns the aspects present in images of format f.
func formatAspects(f VkFormat) VkImageAspectFlags {
	switch f {
	case VkFormat_VK_FORMAT_UNDEFINED:
		return 0
	case VkFormat_VK_FORMAT_D16_UNORM,
		VkFormat_VK_FORMAT_X8_D24_UNORM_PACK32,
		VkFormat_VK_FORMAT_D32_SFLOAT:
		return VkImageAspectFlagBits_VK_IMAGE_ASPECT_DEPTH_BIT
	case VkFormat_VK_FORMAT_S8_UINT:
		return VkImageAspectFlagBits_VK_IMAGE_ASPECT_STENCIL_BIT
	case VkFormat_VK_FORMAT_D16_UNORM_S8_UINT,
		VkFormat_VK_FORMAT_D24_UNORM_S8_UINT,
		VkFormat_VK_FORMAT_D32_SFLOAT_S8_UINT:
		return VkImageAspectFlagBits_VK_IMAGE_ASPECT_DEPTH_BIT | VkImageAspectFlagBits_VK_IMAGE_ASPECT_STENCIL_BIT
	default:
		return VkImageAspectFlagBits_VK_IMAGE_ASPECT_COLOR_BIT
	}
}

type VkCommandBufferLevel uint32

const (
	VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_PRIMARY   VkCommandBufferLevel = 0
	VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_SECONDARY VkCommandBufferLevel = 1
)

type VkCommandBufferUsageFlags uint32

const (
	VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT      VkCommandBufferUsageFlags = 0x1
	VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_RENDER_PASS_CONTINUE_BIT VkCommandBufferUsageFlags = 0x2
	VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_SIMULTANEOUS_USE_BIT     VkCommandBufferUsageFlags = 0x4
)

type VkCommandPoolCreateFlags uint32

const (
	VkCommandPoolCreateFlagBits_VK_COMMAND_POOL_CREATE_TRANSIENT_BIT            VkCommandPoolCreateFlags = 0x1
	VkCommandPoolCreateFlagBits_VK_COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT VkCommandPoolCreateFlags = 0x2
)

type VkCommandPoolResetFlags uint32
type VkCommandPoolTrimFlags uint32
type VkCommandBufferResetFlags uint32

const (
	VkCommandBufferResetFlagBits_VK_COMMAND_BUFFER_RESET_RELEASE_RESOURCES_BIT VkCommandBufferResetFlags = 0x1
	VkCommandPoolResetFlagBits_VK_COMMAND_POOL_RESET_RELEASE_RESOURCES_BIT     VkCommandPoolResetFlags   = 0x1
)

type VkQueryType uint32

const (
	VkQueryType_VK_QUERY_TYPE_OCCLUSION                     VkQueryType = 0
	VkQueryType_VK_QUERY_TYPE_PIPELINE_STATISTICS           VkQueryType = 1
	VkQueryType_VK_QUERY_TYPE_TIMESTAMP                     VkQueryType = 2
	VkQueryType_VK_QUERY_TYPE_TRANSFORM_FEEDBACK_STREAM_EXT VkQueryType = 1000028004
	VkQueryType_VK_QUERY_TYPE_PRIMITIVES_GENERATED_EXT      VkQueryType = 1000382000
)

type VkQueryResultFlags uint32

const (
	VkQueryResultFlagBits_VK_QUERY_RESULT_64_BIT                VkQueryResultFlags = 0x1
	VkQueryResultFlagBits_VK_QUERY_RESULT_WAIT_BIT              VkQueryResultFlags = 0x2
	VkQueryResultFlagBits_VK_QUERY_RESULT_WITH_AVAILABILITY_BIT VkQueryResultFlags = 0x4
	VkQueryResultFlagBits_VK_QUERY_RESULT_PARTIAL_BIT           VkQueryResultFlags = 0x8
)

type VkQueryControlFlags uint32
type VkQueryPipelineStatisticFlags uint32

type VkDescriptorType uint32

const (
	VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLER                    VkDescriptorType = 0
	VkDescriptorType_VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER     VkDescriptorType = 1
	VkDescriptorType_VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE              VkDescriptorType = 2
	VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_IMAGE              VkDescriptorType = 3
	VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER       VkDescriptorType = 4
	VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_TEXEL_BUFFER       VkDescriptorType = 5
	VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER             VkDescriptorType = 6
	VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER             VkDescriptorType = 7
	VkDescriptorType_VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER_DYNAMIC     VkDescriptorType = 8
	VkDescriptorType_VK_DESCRIPTOR_TYPE_STORAGE_BUFFER_DYNAMIC     VkDescriptorType = 9
	VkDescriptorType_VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT           VkDescriptorType = 10
	VkDescriptorType_VK_DESCRIPTOR_TYPE_INLINE_UNIFORM_BLOCK       VkDescriptorType = 1000138000
	VkDescriptorType_VK_DESCRIPTOR_TYPE_ACCELERATION_STRUCTURE_KHR VkDescriptorType = 1000150000
	VkDescriptorType_VK_DESCRIPTOR_TYPE_MUTABLE_EXT                VkDescriptorType = 1000351000
)

type VkDescriptorPoolCreateFlags uint32

const (
	VkDescriptorPoolCreateFlagBits_VK_DESCRIPTOR_POOL_CREATE_FREE_DESCRIPTOR_SET_BIT VkDescriptorPoolCreateFlags = 0x1
	VkDescriptorPoolCreateFlagBits_VK_DESCRIPTOR_POOL_CREATE_UPDATE_AFTER_BIND_BIT   VkDescriptorPoolCreateFlags = 0x2
)

type VkDescriptorPoolResetFlags uint32

type VkDescriptorSetLayoutCreateFlags uint32

const (
	VkDescriptorSetLayoutCreateFlagBits_VK_DESCRIPTOR_SET_LAYOUT_CREATE_PUSH_DESCRIPTOR_BIT_KHR    VkDescriptorSetLayoutCreateFlags = 0x1
	VkDescriptorSetLayoutCreateFlagBits_VK_DESCRIPTOR_SET_LAYOUT_CREATE_UPDATE_AFTER_BIND_POOL_BIT VkDescriptorSetLayoutCreateFlags = 0x2
)

type VkDescriptorBindingFlags uint32

const (
	VkDescriptorBindingFlagBits_VK_DESCRIPTOR_BINDING_UPDATE_AFTER_BIND_BIT         VkDescriptorBindingFlags = 0x1
	VkDescriptorBindingFlagBits_VK_DESCRIPTOR_BINDING_PARTIALLY_BOUND_BIT           VkDescriptorBindingFlags = 0x4
	VkDescriptorBindingFlagBits_VK_DESCRIPTOR_BINDING_VARIABLE_DESCRIPTOR_COUNT_BIT VkDescriptorBindingFlags = 0x8
)

type VkDescriptorUpdateTemplateType uint32

const (
	VkDescriptorUpdateTemplateType_VK_DESCRIPTOR_UPDATE_TEMPLATE_TYPE_DESCRIPTOR_SET       VkDescriptorUpdateTemplateType = 0
	VkDescriptorUpdateTemplateType_VK_DESCRIPTOR_UPDATE_TEMPLATE_TYPE_PUSH_DESCRIPTORS_KHR VkDescriptorUpdateTemplateType = 1
)

type VkPipelineBindPoint uint32

const (
	VkPipelineBindPoint_VK_PIPELINE_BIND_POINT_GRAPHICS VkPipelineBindPoint = 0
	VkPipelineBindPoint_VK_PIPELINE_BIND_POINT_COMPUTE  VkPipelineBindPoint = 1
)

type VkPipelineCreateFlags uint32

const (
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_DISABLE_OPTIMIZATION_BIT              VkPipelineCreateFlags = 0x1
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_ALLOW_DERIVATIVES_BIT                 VkPipelineCreateFlags = 0x2
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_DERIVATIVE_BIT                        VkPipelineCreateFlags = 0x4
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_FAIL_ON_PIPELINE_COMPILE_REQUIRED_BIT VkPipelineCreateFlags = 0x100
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_EARLY_RETURN_ON_FAILURE_BIT           VkPipelineCreateFlags = 0x200
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LINK_TIME_OPTIMIZATION_BIT_EXT        VkPipelineCreateFlags = 0x400
	VkPipelineCreateFlagBits_VK_PIPELINE_CREATE_LIBRARY_BIT_KHR                       VkPipelineCreateFlags = 0x800
)

type VkPipelineCacheCreateFlags uint32

type VkGraphicsPipelineLibraryFlagsEXT uint32

const (
	VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_VERTEX_INPUT_INTERFACE_BIT_EXT    VkGraphicsPipelineLibraryFlagsEXT = 0x1
	VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_PRE_RASTERIZATION_SHADERS_BIT_EXT VkGraphicsPipelineLibraryFlagsEXT = 0x2
	VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_FRAGMENT_SHADER_BIT_EXT           VkGraphicsPipelineLibraryFlagsEXT = 0x4
	VkGraphicsPipelineLibraryFlagBitsEXT_VK_GRAPHICS_PIPELINE_LIBRARY_FRAGMENT_OUTPUT_INTERFACE_BIT_EXT VkGraphicsPipelineLibraryFlagsEXT = 0x8
)

type VkShaderStageFlags uint32

const (
	VkShaderStageFlagBits_VK_SHADER_STAGE_VERTEX_BIT                  VkShaderStageFlags = 0x1
	VkShaderStageFlagBits_VK_SHADER_STAGE_TESSELLATION_CONTROL_BIT    VkShaderStageFlags = 0x2
	VkShaderStageFlagBits_VK_SHADER_STAGE_TESSELLATION_EVALUATION_BIT VkShaderStageFlags = 0x4
	VkShaderStageFlagBits_VK_SHADER_STAGE_GEOMETRY_BIT                VkShaderStageFlags = 0x8
	VkShaderStageFlagBits_VK_SHADER_STAGE_FRAGMENT_BIT                VkShaderStageFlags = 0x10
	VkShaderStageFlagBits_VK_SHADER_STAGE_COMPUTE_BIT                 VkShaderStageFlags = 0x20
	VkShaderStageFlagBits_VK_SHADER_STAGE_TASK_BIT_EXT                VkShaderStageFlags = 0x40
	VkShaderStageFlagBits_VK_SHADER_STAGE_MESH_BIT_EXT                VkShaderStageFlags = 0x80
)

type VkDynamicState uint32

const (
	VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT                  VkDynamicState = 0
	VkDynamicState_VK_DYNAMIC_STATE_SCISSOR                   VkDynamicState = 1
	VkDynamicState_VK_DYNAMIC_STATE_LINE_WIDTH                VkDynamicState = 2
	VkDynamicState_VK_DYNAMIC_STATE_DEPTH_BIAS                VkDynamicState = 3
	VkDynamicState_VK_DYNAMIC_STATE_BLEND_CONSTANTS           VkDynamicState = 4
	VkDynamicState_VK_DYNAMIC_STATE_CULL_MODE                 VkDynamicState = 1000267000
	VkDynamicState_VK_DYNAMIC_STATE_VIEWPORT_WITH_COUNT       VkDynamicState = 1000267003
	VkDynamicState_VK_DYNAMIC_STATE_SCISSOR_WITH_COUNT        VkDynamicState = 1000267004
	VkDynamicState_VK_DYNAMIC_STATE_RASTERIZER_DISCARD_ENABLE VkDynamicState = 1000377001
	VkDynamicState_VK_DYNAMIC_STATE_VERTEX_INPUT_EXT          VkDynamicState = 1000352000
	VkDynamicState_VK_DYNAMIC_STATE_SAMPLE_MASK_EXT           VkDynamicState = 1000455009
)

type VkSubpassContents uint32

const (
	VkSubpassContents_VK_SUBPASS_CONTENTS_INLINE                    VkSubpassContents = 0
	VkSubpassContents_VK_SUBPASS_CONTENTS_SECONDARY_COMMAND_BUFFERS VkSubpassContents = 1
)

type VkFramebufferCreateFlags uint32

const (
	VkFramebufferCreateFlagBits_VK_FRAMEBUFFER_CREATE_IMAGELESS_BIT VkFramebufferCreateFlags = 0x1
)

type VkRenderPassCreateFlags uint32
type VkSubpassDescriptionFlags uint32
type VkAttachmentDescriptionFlags uint32
type VkRenderingFlags uint32
type VkConditionalRenderingFlagsEXT uint32
type VkImageCreateFlags uint32
type VkImageUsageFlags uint32
type VkImageViewCreateFlags uint32
type VkBufferCreateFlags uint32
type VkBufferUsageFlags uint32
type VkQueryPoolCreateFlags uint32
type VkPipelineLayoutCreateFlags uint32
type VkShaderStageCreateFlags uint32
type VkColorComponentFlags uint32
type VkCullModeFlags uint32
type VkStencilFaceFlags uint32
type VkSampleCountFlags uint32
type VkResolveModeFlags uint32

type VkImageType uint32
type VkImageViewType uint32
type VkImageTiling uint32
type VkIndexType uint32
type VkFilter uint32
type VkAttachmentLoadOp uint32
type VkAttachmentStoreOp uint32
type VkPrimitiveTopology uint32
type VkPolygonMode uint32
type VkFrontFace uint32
type VkCompareOp uint32
type VkStencilOp uint32
type VkLogicOp uint32
type VkBlendFactor uint32
type VkBlendOp uint32
type VkVertexInputRate uint32
type VkComponentSwizzle uint32
type VkTessellationDomainOrigin uint32
type VkConservativeRasterizationModeEXT uint32
type VkProvokingVertexModeEXT uint32
type VkLineRasterizationModeEXT uint32
type VkFragmentShadingRateCombinerOpKHR uint32

const (
	VkSampleCountFlagBits_VK_SAMPLE_COUNT_1_BIT VkSampleCountFlags = 0x1

	VkImageType_VK_IMAGE_TYPE_2D VkImageType = 1

	VkImageViewType_VK_IMAGE_VIEW_TYPE_2D VkImageViewType = 1

	VkIndexType_VK_INDEX_TYPE_UINT16 VkIndexType = 0
	VkIndexType_VK_INDEX_TYPE_UINT32 VkIndexType = 1

	VkFilter_VK_FILTER_NEAREST VkFilter = 0
	VkFilter_VK_FILTER_LINEAR  VkFilter = 1

	VkAttachmentLoadOp_VK_ATTACHMENT_LOAD_OP_LOAD      VkAttachmentLoadOp = 0
	VkAttachmentLoadOp_VK_ATTACHMENT_LOAD_OP_CLEAR     VkAttachmentLoadOp = 1
	VkAttachmentLoadOp_VK_ATTACHMENT_LOAD_OP_DONT_CARE VkAttachmentLoadOp = 2

	VkAttachmentStoreOp_VK_ATTACHMENT_STORE_OP_STORE     VkAttachmentStoreOp = 0
	VkAttachmentStoreOp_VK_ATTACHMENT_STORE_OP_DONT_CARE VkAttachmentStoreOp = 1

	VkPrimitiveTopology_VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST VkPrimitiveTopology = 3

	VkColorComponentFlagBits_VK_COLOR_COMPONENT_RGBA VkColorComponentFlags = 0xf

	VkBufferUsageFlagBits_VK_BUFFER_USAGE_TRANSFER_SRC_BIT VkBufferUsageFlags = 0x1
	VkBufferUsageFlagBits_VK_BUFFER_USAGE_TRANSFER_DST_BIT VkBufferUsageFlags = 0x2

	VkImageUsageFlagBits_VK_IMAGE_USAGE_TRANSFER_SRC_BIT     VkImageUsageFlags = 0x1
	VkImageUsageFlagBits_VK_IMAGE_USAGE_COLOR_ATTACHMENT_BIT VkImageUsageFlags = 0x10
)

type VkOffset2D struct{ X, Y int32 }
type VkExtent2D struct{ Width, Height uint32 }
type VkRect2D struct {
	Offset VkOffset2D
	Extent VkExtent2D
}
type VkOffset3D struct{ X, Y, Z int32 }
type VkExtent3D struct{ Width, Height, Depth uint32 }

type VkViewport struct {
	X, Y, Width, Height, MinDepth, MaxDepth float32
}

// VkClearValue holds the raw 16 bytes of a color or depth/stencil clear
// value.
type VkClearValue [4]uint32

type VkImageSubresourceRange struct {
	AspectMask     VkImageAspectFlags
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type VkImageSubresourceLayers struct {
	AspectMask     VkImageAspectFlags
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type VkComponentMapping struct {
	R, G, B, A VkComponentSwizzle
}
