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
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

// Image is the shadow of a VkImage.
type Image struct {
	handle      VkImage
	sharingMode VkSharingMode
	format      VkFormat
	wsi         struct {
		isWsi             bool
		isPrimeBlitSource bool
	}
}

// ImageView is the shadow of a VkImageView.
type ImageView struct {
	handle VkImageView
	image  *Image
}

// Buffer is the shadow of a VkBuffer.
type Buffer struct {
	handle VkBuffer
	size   VkDeviceSize
}

type VkImageCreateInfo struct {
	PNext              []VkStructure
	Flags              VkImageCreateFlags
	ImageType          VkImageType
	Format             VkFormat
	Extent             VkExtent3D
	MipLevels          uint32
	ArrayLayers        uint32
	Samples            VkSampleCountFlags
	Tiling             VkImageTiling
	Usage              VkImageUsageFlags
	SharingMode        VkSharingMode
	QueueFamilyIndices []uint32
	InitialLayout      VkImageLayout
}

func (i VkImageCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint32(uint32(i.ImageType))
	w.Uint32(uint32(i.Format))
	i.Extent.encode(w)
	w.Uint32(i.MipLevels)
	w.Uint32(i.ArrayLayers)
	w.Uint32(uint32(i.Samples))
	w.Uint32(uint32(i.Tiling))
	w.Uint32(uint32(i.Usage))
	w.Uint32(uint32(i.SharingMode))
	encodeUint32s(w, i.QueueFamilyIndices)
	w.Uint32(uint32(i.InitialLayout))
}

// VkWsiImageCreateInfoMESA marks an image created by the window system
// integration. It is consumed locally and never sent to the host.
type VkWsiImageCreateInfoMESA struct {
	Scanout bool
	// BlitSrc marks the source image of a prime blit, which is copied to a
	// buffer rather than presented directly.
	BlitSrc bool
}

func (*VkWsiImageCreateInfoMESA) StructType() VkStructureType {
	return VkStructureType_VK_STRUCTURE_TYPE_WSI_IMAGE_CREATE_INFO_MESA
}

func (s *VkWsiImageCreateInfoMESA) encode(w binary.Writer) {
	w.Bool(s.Scanout)
	w.Bool(s.BlitSrc)
}

type VkImageViewCreateInfo struct {
	PNext            []VkStructure
	Flags            VkImageViewCreateFlags
	Image            VkImage
	ViewType         VkImageViewType
	Format           VkFormat
	Components       VkComponentMapping
	SubresourceRange VkImageSubresourceRange
}

func (i VkImageViewCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint64(uint64(i.Image))
	w.Uint32(uint32(i.ViewType))
	w.Uint32(uint32(i.Format))
	i.Components.encode(w)
	i.SubresourceRange.encode(w)
}

type VkBufferCreateInfo struct {
	PNext              []VkStructure
	Flags              VkBufferCreateFlags
	Size               VkDeviceSize
	Usage              VkBufferUsageFlags
	SharingMode        VkSharingMode
	QueueFamilyIndices []uint32
}

func (i VkBufferCreateInfo) encode(w binary.Writer) {
	encodeChain(w, i.PNext)
	w.Uint32(uint32(i.Flags))
	w.Uint64(uint64(i.Size))
	w.Uint32(uint32(i.Usage))
	w.Uint32(uint32(i.SharingMode))
	encodeUint32s(w, i.QueueFamilyIndices)
}

func isWsiInfo(s VkStructure) bool {
	_, ok := s.(*VkWsiImageCreateInfoMESA)
	return ok
}

// CreateImage creates an image, recording its sharing mode and WSI role.
func (d *Device) CreateImage(ctx context.Context, info *VkImageCreateInfo) (VkImage, error) {
	img := &Image{
		handle:      VkImage(newHandle()),
		sharingMode: info.SharingMode,
		format:      info.Format,
	}
	local := *info
	if wsi, ok := findStruct[*VkWsiImageCreateInfoMESA](info.PNext); ok {
		img.wsi.isWsi = true
		img.wsi.isPrimeBlitSource = wsi.BlitSrc
		local.PNext = filterChain(info.PNext, func(s VkStructure) bool { return !isWsiInfo(s) })
	}
	err := d.async(ctx, protocol.CreateImage, func(w binary.Writer) {
		w.Uint64(uint64(img.handle))
		local.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.images.add(img.handle, img)
	return img.handle, nil
}

func (d *Device) DestroyImage(ctx context.Context, image VkImage) {
	if image == 0 {
		return
	}
	d.images.remove(image)
	d.destroy(ctx, protocol.DestroyImage, uint64(image))
}

func (d *Device) CreateImageView(ctx context.Context, info *VkImageViewCreateInfo) (VkImageView, error) {
	view := &ImageView{
		handle: VkImageView(newHandle()),
		image:  d.images.get(info.Image),
	}
	err := d.async(ctx, protocol.CreateImageView, func(w binary.Writer) {
		w.Uint64(uint64(view.handle))
		info.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.imageViews.add(view.handle, view)
	return view.handle, nil
}

func (d *Device) DestroyImageView(ctx context.Context, view VkImageView) {
	if view == 0 {
		return
	}
	d.imageViews.remove(view)
	d.destroy(ctx, protocol.DestroyImageView, uint64(view))
}

func (d *Device) CreateBuffer(ctx context.Context, info *VkBufferCreateInfo) (VkBuffer, error) {
	buf := &Buffer{handle: VkBuffer(newHandle()), size: info.Size}
	err := d.async(ctx, protocol.CreateBuffer, func(w binary.Writer) {
		w.Uint64(uint64(buf.handle))
		info.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.buffers.add(buf.handle, buf)
	return buf.handle, nil
}

func (d *Device) DestroyBuffer(ctx context.Context, buffer VkBuffer) {
	if buffer == 0 {
		return
	}
	d.buffers.remove(buffer)
	d.destroy(ctx, protocol.DestroyBuffer, uint64(buffer))
}

// destroy submits the host destruction of an object. Destruction cannot
// fail from the application's point of view, so errors are only logged.
func (d *Device) destroy(ctx context.Context, t protocol.CommandType, handle uint64) {
	if err := d.async(ctx, t, func(w binary.Writer) { w.Uint64(handle) }); err != nil {
		log.W(ctx, "%v of %#x dropped: %v", t, handle, err)
	}
}
