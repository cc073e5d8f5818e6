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

func (cb *CommandBuffer) setUint32(ctx context.Context, t protocol.CommandType, v uint32) {
	cb.enqueue(ctx, t, func(w binary.Writer) { w.Uint32(v) })
}

func (cb *CommandBuffer) setBool(ctx context.Context, t protocol.CommandType, v bool) {
	cb.enqueue(ctx, t, func(w binary.Writer) { w.Bool(v) })
}

func (cb *CommandBuffer) CmdSetViewport(ctx context.Context, firstViewport uint32, viewports []VkViewport) {
	cb.enqueue(ctx, protocol.CmdSetViewport, func(w binary.Writer) {
		w.Uint32(firstViewport)
		encodeArray(w, viewports)
	})
}

func (cb *CommandBuffer) CmdSetScissor(ctx context.Context, firstScissor uint32, scissors []VkRect2D) {
	cb.enqueue(ctx, protocol.CmdSetScissor, func(w binary.Writer) {
		w.Uint32(firstScissor)
		encodeArray(w, scissors)
	})
}

func (cb *CommandBuffer) CmdSetLineWidth(ctx context.Context, lineWidth float32) {
	cb.enqueue(ctx, protocol.CmdSetLineWidth, func(w binary.Writer) { w.Float32(lineWidth) })
}

func (cb *CommandBuffer) CmdSetDepthBias(ctx context.Context, constantFactor, clamp, slopeFactor float32) {
	cb.enqueue(ctx, protocol.CmdSetDepthBias, func(w binary.Writer) {
		w.Float32(constantFactor)
		w.Float32(clamp)
		w.Float32(slopeFactor)
	})
}

func (cb *CommandBuffer) CmdSetBlendConstants(ctx context.Context, blendConstants [4]float32) {
	cb.enqueue(ctx, protocol.CmdSetBlendConstants, func(w binary.Writer) {
		for _, c := range blendConstants {
			w.Float32(c)
		}
	})
}

func (cb *CommandBuffer) CmdSetDepthBounds(ctx context.Context, minDepthBounds, maxDepthBounds float32) {
	cb.enqueue(ctx, protocol.CmdSetDepthBounds, func(w binary.Writer) {
		w.Float32(minDepthBounds)
		w.Float32(maxDepthBounds)
	})
}

func (cb *CommandBuffer) setStencil(ctx context.Context, t protocol.CommandType, faceMask VkStencilFaceFlags, v uint32) {
	cb.enqueue(ctx, t, func(w binary.Writer) {
		w.Uint32(uint32(faceMask))
		w.Uint32(v)
	})
}

func (cb *CommandBuffer) CmdSetStencilCompareMask(ctx context.Context, faceMask VkStencilFaceFlags, compareMask uint32) {
	cb.setStencil(ctx, protocol.CmdSetStencilCompareMask, faceMask, compareMask)
}

func (cb *CommandBuffer) CmdSetStencilWriteMask(ctx context.Context, faceMask VkStencilFaceFlags, writeMask uint32) {
	cb.setStencil(ctx, protocol.CmdSetStencilWriteMask, faceMask, writeMask)
}

func (cb *CommandBuffer) CmdSetStencilReference(ctx context.Context, faceMask VkStencilFaceFlags, reference uint32) {
	cb.setStencil(ctx, protocol.CmdSetStencilReference, faceMask, reference)
}

func (cb *CommandBuffer) CmdSetLineStippleEXT(ctx context.Context, lineStippleFactor uint32, lineStipplePattern uint16) {
	cb.enqueue(ctx, protocol.CmdSetLineStippleEXT, func(w binary.Writer) {
		w.Uint32(lineStippleFactor)
		w.Uint16(lineStipplePattern)
	})
}

// Extended dynamic state.

func (cb *CommandBuffer) CmdSetCullMode(ctx context.Context, cullMode VkCullModeFlags) {
	cb.setUint32(ctx, protocol.CmdSetCullMode, uint32(cullMode))
}

func (cb *CommandBuffer) CmdSetFrontFace(ctx context.Context, frontFace VkFrontFace) {
	cb.setUint32(ctx, protocol.CmdSetFrontFace, uint32(frontFace))
}

func (cb *CommandBuffer) CmdSetPrimitiveTopology(ctx context.Context, topology VkPrimitiveTopology) {
	cb.setUint32(ctx, protocol.CmdSetPrimitiveTopology, uint32(topology))
}

func (cb *CommandBuffer) CmdSetViewportWithCount(ctx context.Context, viewports []VkViewport) {
	cb.enqueue(ctx, protocol.CmdSetViewportWithCount, func(w binary.Writer) { encodeArray(w, viewports) })
}

func (cb *CommandBuffer) CmdSetScissorWithCount(ctx context.Context, scissors []VkRect2D) {
	cb.enqueue(ctx, protocol.CmdSetScissorWithCount, func(w binary.Writer) { encodeArray(w, scissors) })
}

func (cb *CommandBuffer) CmdSetDepthTestEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetDepthTestEnable, enable)
}

func (cb *CommandBuffer) CmdSetDepthWriteEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetDepthWriteEnable, enable)
}

func (cb *CommandBuffer) CmdSetDepthCompareOp(ctx context.Context, op VkCompareOp) {
	cb.setUint32(ctx, protocol.CmdSetDepthCompareOp, uint32(op))
}

func (cb *CommandBuffer) CmdSetDepthBoundsTestEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetDepthBoundsTestEnable, enable)
}

func (cb *CommandBuffer) CmdSetStencilTestEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetStencilTestEnable, enable)
}

func (cb *CommandBuffer) CmdSetStencilOp(ctx context.Context, faceMask VkStencilFaceFlags, failOp, passOp, depthFailOp VkStencilOp, compareOp VkCompareOp) {
	cb.enqueue(ctx, protocol.CmdSetStencilOp, func(w binary.Writer) {
		w.Uint32(uint32(faceMask))
		w.Uint32(uint32(failOp))
		w.Uint32(uint32(passOp))
		w.Uint32(uint32(depthFailOp))
		w.Uint32(uint32(compareOp))
	})
}

func (cb *CommandBuffer) CmdSetPatchControlPointsEXT(ctx context.Context, patchControlPoints uint32) {
	cb.setUint32(ctx, protocol.CmdSetPatchControlPointsEXT, patchControlPoints)
}

func (cb *CommandBuffer) CmdSetRasterizerDiscardEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetRasterizerDiscardEnable, enable)
}

func (cb *CommandBuffer) CmdSetDepthBiasEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetDepthBiasEnable, enable)
}

func (cb *CommandBuffer) CmdSetLogicOpEXT(ctx context.Context, op VkLogicOp) {
	cb.setUint32(ctx, protocol.CmdSetLogicOpEXT, uint32(op))
}

func (cb *CommandBuffer) CmdSetPrimitiveRestartEnable(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetPrimitiveRestartEnable, enable)
}

func (cb *CommandBuffer) CmdSetColorWriteEnableEXT(ctx context.Context, enables []bool) {
	cb.enqueue(ctx, protocol.CmdSetColorWriteEnableEXT, func(w binary.Writer) { encodeBools(w, enables) })
}

func (cb *CommandBuffer) CmdSetVertexInputEXT(ctx context.Context, bindings []VkVertexInputBindingDescription2EXT,
	attributes []VkVertexInputAttributeDescription2EXT) {
	cb.enqueue(ctx, protocol.CmdSetVertexInputEXT, func(w binary.Writer) {
		encodeArray(w, bindings)
		encodeArray(w, attributes)
	})
}

func (cb *CommandBuffer) CmdSetFragmentShadingRateKHR(ctx context.Context, fragmentSize VkExtent2D, combinerOps [2]VkFragmentShadingRateCombinerOpKHR) {
	cb.enqueue(ctx, protocol.CmdSetFragmentShadingRateKHR, func(w binary.Writer) {
		fragmentSize.encode(w)
		w.Uint32(uint32(combinerOps[0]))
		w.Uint32(uint32(combinerOps[1]))
	})
}

func (cb *CommandBuffer) CmdSetTessellationDomainOriginEXT(ctx context.Context, origin VkTessellationDomainOrigin) {
	cb.setUint32(ctx, protocol.CmdSetTessellationDomainOriginEXT, uint32(origin))
}

func (cb *CommandBuffer) CmdSetDepthClampEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetDepthClampEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetPolygonModeEXT(ctx context.Context, mode VkPolygonMode) {
	cb.setUint32(ctx, protocol.CmdSetPolygonModeEXT, uint32(mode))
}

func (cb *CommandBuffer) CmdSetRasterizationSamplesEXT(ctx context.Context, samples VkSampleCountFlags) {
	cb.setUint32(ctx, protocol.CmdSetRasterizationSamplesEXT, uint32(samples))
}

// CmdSetSampleMaskEXT sets the sample mask; masks holds one word per 32
// samples.
func (cb *CommandBuffer) CmdSetSampleMaskEXT(ctx context.Context, samples VkSampleCountFlags, masks []uint32) {
	cb.enqueue(ctx, protocol.CmdSetSampleMaskEXT, func(w binary.Writer) {
		w.Uint32(uint32(samples))
		encodeUint32s(w, masks)
	})
}

func (cb *CommandBuffer) CmdSetAlphaToCoverageEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetAlphaToCoverageEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetAlphaToOneEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetAlphaToOneEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetLogicOpEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetLogicOpEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetColorBlendEnableEXT(ctx context.Context, firstAttachment uint32, enables []bool) {
	cb.enqueue(ctx, protocol.CmdSetColorBlendEnableEXT, func(w binary.Writer) {
		w.Uint32(firstAttachment)
		encodeBools(w, enables)
	})
}

func (cb *CommandBuffer) CmdSetColorBlendEquationEXT(ctx context.Context, firstAttachment uint32, equations []VkColorBlendEquationEXT) {
	cb.enqueue(ctx, protocol.CmdSetColorBlendEquationEXT, func(w binary.Writer) {
		w.Uint32(firstAttachment)
		encodeArray(w, equations)
	})
}

func (cb *CommandBuffer) CmdSetColorWriteMaskEXT(ctx context.Context, firstAttachment uint32, masks []VkColorComponentFlags) {
	cb.enqueue(ctx, protocol.CmdSetColorWriteMaskEXT, func(w binary.Writer) {
		w.Uint32(firstAttachment)
		encodeUint32s(w, masks)
	})
}

func (cb *CommandBuffer) CmdSetRasterizationStreamEXT(ctx context.Context, stream uint32) {
	cb.setUint32(ctx, protocol.CmdSetRasterizationStreamEXT, stream)
}

func (cb *CommandBuffer) CmdSetConservativeRasterizationModeEXT(ctx context.Context, mode VkConservativeRasterizationModeEXT) {
	cb.setUint32(ctx, protocol.CmdSetConservativeRasterizationModeEXT, uint32(mode))
}

func (cb *CommandBuffer) CmdSetExtraPrimitiveOverestimationSizeEXT(ctx context.Context, size float32) {
	cb.enqueue(ctx, protocol.CmdSetExtraPrimitiveOverestimationSizeEXT, func(w binary.Writer) { w.Float32(size) })
}

func (cb *CommandBuffer) CmdSetDepthClipEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetDepthClipEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetSampleLocationsEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetSampleLocationsEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetProvokingVertexModeEXT(ctx context.Context, mode VkProvokingVertexModeEXT) {
	cb.setUint32(ctx, protocol.CmdSetProvokingVertexModeEXT, uint32(mode))
}

func (cb *CommandBuffer) CmdSetLineRasterizationModeEXT(ctx context.Context, mode VkLineRasterizationModeEXT) {
	cb.setUint32(ctx, protocol.CmdSetLineRasterizationModeEXT, uint32(mode))
}

func (cb *CommandBuffer) CmdSetLineStippleEnableEXT(ctx context.Context, enable bool) {
	cb.setBool(ctx, protocol.CmdSetLineStippleEnableEXT, enable)
}

func (cb *CommandBuffer) CmdSetDepthClipNegativeOneToOneEXT(ctx context.Context, negativeOneToOne bool) {
	cb.setBool(ctx, protocol.CmdSetDepthClipNegativeOneToOneEXT, negativeOneToOne)
}
