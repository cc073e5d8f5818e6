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

// Framebuffer is the shadow of a VkFramebuffer.
type Framebuffer struct {
	handle VkFramebuffer
	// imageViews is empty for imageless framebuffers.
	imageViews []VkImageView
}

type VkFramebufferCreateInfo struct {
	PNext       []VkStructure
	Flags       VkFramebufferCreateFlags
	RenderPass  VkRenderPass
	Attachments []VkImageView
	Width       uint32
	Height      uint32
	Layers      uint32
}

func (i VkFramebufferCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint64(uint64(i.RenderPass))
	encodeHandles(w, i.Attachments)
	w.Uint32(i.Width)
	w.Uint32(i.Height)
	w.Uint32(i.Layers)
}

func (d *Device) CreateFramebuffer(ctx context.Context, info *VkFramebufferCreateInfo) (VkFramebuffer, error) {
	fb := &Framebuffer{handle: VkFramebuffer(newHandle())}
	local := *info
	if info.Flags&VkFramebufferCreateFlagBits_VK_FRAMEBUFFER_CREATE_IMAGELESS_BIT != 0 {
		local.Attachments = nil
	} else {
		fb.imageViews = append([]VkImageView{}, info.Attachments...)
	}
	err := d.async(ctx, protocol.CreateFramebuffer, func(w binary.Writer) {
		w.Uint64(uint64(fb.handle))
		local.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.framebuffers.add(fb.handle, fb)
	return fb.handle, nil
}

func (d *Device) DestroyFramebuffer(ctx context.Context, framebuffer VkFramebuffer) {
	if d.framebuffers.remove(framebuffer) == nil {
		return
	}
	d.destroy(ctx, protocol.DestroyFramebuffer, uint64(framebuffer))
}
