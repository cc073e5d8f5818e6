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
	"fmt"

	"github.com/google/venus/config"
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

// CommandBufferState is the recording state of a CommandBuffer.
type CommandBufferState int

const (
	CommandBufferStateInitial CommandBufferState = iota
	CommandBufferStateRecording
	CommandBufferStateExecutable
	CommandBufferStateInvalid
)

func (s CommandBufferState) String() string {
	switch s {
	case CommandBufferStateInitial:
		return "Initial"
	case CommandBufferStateRecording:
		return "Recording"
	case CommandBufferStateExecutable:
		return "Executable"
	case CommandBufferStateInvalid:
		return "Invalid"
	default:
		return fmt.Sprintf("CommandBufferState(%d)", int(s))
	}
}

// CommandBuffer records Vulkan commands into its own command stream.
//
// Recorded commands are batched in the stream and flushed to the device's
// primary ring when the buffer ends, or earlier once enough draws have been
// recorded. A command that does not fit the stream invalidates the buffer
// until it is reset.
type CommandBuffer struct {
	device         *Device
	pool           *CommandPool
	handle         VkCommandBuffer
	level          VkCommandBufferLevel
	state          CommandBufferState
	cs             *protocol.Encoder
	builder        commandBufferBuilder
	drawCmdBatched uint32
	// queryFeedback is the command buffer last recorded by
	// RecordQueryFeedback, borrowed from the pool until the next reset.
	queryFeedback *CommandBuffer
}

// commandBufferBuilder is the recording state that is discarded on reset.
type commandBufferBuilder struct {
	renderPass       *RenderPass
	inRenderPass     bool
	subpassIndex     uint32
	viewMask         uint32
	queryBatches     []*queryBatch
	isSimultaneous   bool
	presentSrcImages []*Image
}

type VkCommandBufferInheritanceInfo struct {
	PNext                []VkStructure
	RenderPass           VkRenderPass
	Subpass              uint32
	Framebuffer          VkFramebuffer
	OcclusionQueryEnable bool
	QueryFlags           VkQueryControlFlags
	PipelineStatistics   VkQueryPipelineStatisticFlags
}

func (i VkCommandBufferInheritanceInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint64(uint64(i.RenderPass))
	w.Uint32(i.Subpass)
	w.Uint64(uint64(i.Framebuffer))
	w.Bool(i.OcclusionQueryEnable)
	w.Uint32(uint32(i.QueryFlags))
	w.Uint32(uint32(i.PipelineStatistics))
}

type VkCommandBufferBeginInfo struct {
	Flags           VkCommandBufferUsageFlags
	InheritanceInfo *VkCommandBufferInheritanceInfo
}

func (i VkCommandBufferBeginInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	encodeOptional(w, i.InheritanceInfo)
}

type VkCommandBufferInheritanceConditionalRenderingInfoEXT struct {
	ConditionalRenderingEnable bool
}

func (*VkCommandBufferInheritanceConditionalRenderingInfoEXT) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_COMMAND_BUFFER_INHERITANCE_CONDITIONAL_RENDERING_INFO_EXT
}

func (s *VkCommandBufferInheritanceConditionalRenderingInfoEXT) encode(w binary.Writer) {
	w.Bool(s.ConditionalRenderingEnable)
}

type VkCommandBufferInheritanceRenderingInfo struct {
	Flags                   VkRenderingFlags
	ViewMask                uint32
	ColorAttachmentFormats  []VkFormat
	DepthAttachmentFormat   VkFormat
	StencilAttachmentFormat VkFormat
	RasterizationSamples    VkSampleCountFlags
}

func (*VkCommandBufferInheritanceRenderingInfo) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_COMMAND_BUFFER_INHERITANCE_RENDERING_INFO
}

func (s *VkCommandBufferInheritanceRenderingInfo) encode(w binary.Writer) {
	w.Uint32(uint32(s.Flags))
	w.Uint32(s.ViewMask)
	encodeUint32s(w, s.ColorAttachmentFormats)
	w.Uint32(uint32(s.DepthAttachmentFormat))
	w.Uint32(uint32(s.StencilAttachmentFormat))
	w.Uint32(uint32(s.RasterizationSamples))
}

func newCommandBuffer(pool *CommandPool, level VkCommandBufferLevel) *CommandBuffer {
	return &CommandBuffer{
		device: pool.device,
		pool:   pool,
		handle: VkCommandBuffer(newHandle()),
		level:  level,
		cs:     protocol.NewEncoder(pool.device.perf.CommandStreamLimit),
	}
}

// Handle returns the wire id of the command buffer.
func (cb *CommandBuffer) Handle() VkCommandBuffer { return cb.handle }

// State returns the recording state of the command buffer.
func (cb *CommandBuffer) State() CommandBufferState { return cb.state }

// Level returns whether the command buffer is primary or secondary.
func (cb *CommandBuffer) Level() VkCommandBufferLevel { return cb.level }

func (cb *CommandBuffer) setInvalid(ctx context.Context, reason string) {
	log.W(ctx, "Command buffer %#x invalidated: %s", cb.handle, reason)
	cb.state = CommandBufferStateInvalid
}

// enqueue encodes one command into the stream. It is a no-op unless the
// buffer is recording.
func (cb *CommandBuffer) enqueue(ctx context.Context, t protocol.CommandType, f func(binary.Writer)) {
	if cb.state != CommandBufferStateRecording {
		return
	}
	if !cb.cs.Encode(t, func(w binary.Writer) {
		w.Uint64(uint64(cb.handle))
		f(w)
	}) {
		cb.setInvalid(ctx, fmt.Sprintf("no room for %v", t))
		return
	}
	if cb.device.perf.NoCmdBatching {
		cb.submit(ctx)
	}
}

// submit flushes the encoded stream to the primary ring.
func (cb *CommandBuffer) submit(ctx context.Context) {
	if cb.state != CommandBufferStateRecording {
		return
	}
	cb.cs.Commit()
	if cb.cs.Fatal() {
		cb.setInvalid(ctx, "corrupt command stream")
		cb.cs.Reset()
		return
	}
	if cs := cb.cs.Bytes(); len(cs) > 0 {
		if config.LogCommandStreams {
			log.D(ctx, "Flushing %d bytes of command buffer %#x", len(cs), cb.handle)
		}
		if err := cb.device.ring.Submit(ctx, cs); err != nil {
			cb.setInvalid(ctx, err.Error())
			return
		}
	}
	cb.cs.Reset()
	cb.drawCmdBatched = 0
}

// countDraw flushes the stream once the draw batch limit is reached.
func (cb *CommandBuffer) countDraw(ctx context.Context) {
	cb.drawCmdBatched++
	if cb.drawCmdBatched >= cb.device.perf.DrawCmdBatchLimit {
		log.D(ctx, "Command buffer %#x reached %d draws", cb.handle, cb.drawCmdBatched)
		cb.submit(ctx)
	}
}

// reset drops everything recorded so far without telling the host.
func (cb *CommandBuffer) reset(ctx context.Context) {
	cb.cs.Reset()
	cb.state = CommandBufferStateInitial
	cb.drawCmdBatched = 0
	cb.pool.releaseQueryBatches(cb.builder.queryBatches)
	if cb.queryFeedback != nil {
		cb.pool.recycleFeedbackCmd(ctx, cb.queryFeedback)
		cb.queryFeedback = nil
	}
	cb.builder = commandBufferBuilder{}
}

// release frees the stream storage of a command buffer whose pool no
// longer owns it.
func (cb *CommandBuffer) release() {
	cb.cs.Release()
	cb.builder = commandBufferBuilder{}
	cb.queryFeedback = nil
	cb.state = CommandBufferStateInvalid
}

// fixBeginInfo drops the parts of info the host must not see: the
// inheritance info of primaries, the render pass of secondaries that do not
// continue one, and the inheritance extensions that a render pass makes
// irrelevant.
func (cb *CommandBuffer) fixBeginInfo(info *VkCommandBufferBeginInfo) *VkCommandBufferBeginInfo {
	if info.InheritanceInfo == nil {
		return info
	}
	secondary := cb.level == VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_SECONDARY
	continues := info.Flags&VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_RENDER_PASS_CONTINUE_BIT != 0
	hasRenderPass := secondary && info.InheritanceInfo.RenderPass != 0
	if secondary && continues && !hasRenderPass {
		return info
	}
	local := *info
	if !secondary {
		local.InheritanceInfo = nil
		return &local
	}
	inheritance := *info.InheritanceInfo
	local.InheritanceInfo = &inheritance
	if !continues {
		inheritance.Framebuffer = 0
		inheritance.RenderPass = 0
		inheritance.Subpass = 0
	} else {
		inheritance.PNext = filterChain(inheritance.PNext, func(s VkStructure) bool {
			_, ok := s.(*VkCommandBufferInheritanceConditionalRenderingInfoEXT)
			return ok
		})
	}
	return &local
}

// Begin resets the command buffer and starts recording.
func (cb *CommandBuffer) Begin(ctx context.Context, info *VkCommandBufferBeginInfo) error {
	cb.reset(ctx)

	local := cb.fixBeginInfo(info)
	cb.builder.isSimultaneous = info.Flags&VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_SIMULTANEOUS_USE_BIT != 0
	if inheritance := local.InheritanceInfo; inheritance != nil &&
		cb.level == VkCommandBufferLevel_VK_COMMAND_BUFFER_LEVEL_SECONDARY &&
		info.Flags&VkCommandBufferUsageFlagBits_VK_COMMAND_BUFFER_USAGE_RENDER_PASS_CONTINUE_BIT != 0 {
		cb.builder.inRenderPass = true
		if pass := cb.device.renderPasses.get(inheritance.RenderPass); pass != nil {
			cb.builder.renderPass = pass
			cb.builder.subpassIndex = inheritance.Subpass
			cb.builder.viewMask = pass.subpassViewMask(inheritance.Subpass)
		} else if rendering, ok := findStruct[*VkCommandBufferInheritanceRenderingInfo](inheritance.PNext); ok {
			cb.builder.viewMask = rendering.ViewMask
		}
	}

	if !cb.cs.Encode(protocol.BeginCommandBuffer, func(w binary.Writer) {
		w.Uint64(uint64(cb.handle))
		local.encode(w)
	}) {
		cb.setInvalid(ctx, "no room for vkBeginCommandBuffer")
		return VkResult_VK_ERROR_OUT_OF_HOST_MEMORY
	}
	cb.state = CommandBufferStateRecording
	return nil
}

// End finishes recording and flushes the stream. A buffer that failed to
// record any of its commands cannot be ended.
func (cb *CommandBuffer) End(ctx context.Context) error {
	if cb.state != CommandBufferStateRecording {
		return VkResult_VK_ERROR_OUT_OF_HOST_MEMORY
	}
	cb.enqueue(ctx, protocol.EndCommandBuffer, func(binary.Writer) {})
	cb.submit(ctx)
	if cb.state != CommandBufferStateRecording {
		return VkResult_VK_ERROR_OUT_OF_HOST_MEMORY
	}
	cb.state = CommandBufferStateExecutable
	return nil
}

// Reset returns the command buffer to the initial state.
func (cb *CommandBuffer) Reset(ctx context.Context, flags VkCommandBufferResetFlags) error {
	cb.reset(ctx)
	return cb.device.submitTo(ctx, cb.device.ring, protocol.ResetCommandBuffer, func(w binary.Writer) {
		w.Uint64(uint64(cb.handle))
		w.Uint32(uint32(flags))
	})
}
