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

	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/data/endian"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
	"golang.org/x/crypto/blake2b"
)

const (
	pipelineCacheHeaderSize    = 16 + VK_UUID_SIZE
	pipelineCacheHeaderVersion = 1
)

type VkPipelineCacheCreateInfo struct {
	Flags       VkPipelineCacheCreateFlags
	InitialData []byte
}

func (i VkPipelineCacheCreateInfo) encode(w binary.Writer) {
	w.Uint32(uint32(i.Flags))
	encodeBytes(w, i.InitialData)
}

// PipelineCache is the shadow of a VkPipelineCache.
type PipelineCache struct {
	handle VkPipelineCache
}

// pipelineCacheUUID returns the UUID stamped on pipeline cache data. A
// renderer that reports no UUID gets one derived from its identity.
func (d *Device) pipelineCacheUUID() [VK_UUID_SIZE]byte {
	if d.props.PipelineCacheUUID != [VK_UUID_SIZE]byte{} {
		return d.props.PipelineCacheUUID
	}
	h, err := blake2b.New(VK_UUID_SIZE, nil)
	if err != nil {
		panic(err)
	}
	w := endian.Writer(h, endian.Little)
	w.Uint32(d.props.VendorID)
	w.Uint32(d.props.DeviceID)
	w.Uint32(d.props.DriverVersion)
	h.Write([]byte(d.props.DeviceName))
	var uuid [VK_UUID_SIZE]byte
	copy(uuid[:], h.Sum(nil))
	return uuid
}

func (d *Device) pipelineCacheHeader() []byte {
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, endian.Little)
	w.Uint32(pipelineCacheHeaderSize)
	w.Uint32(pipelineCacheHeaderVersion)
	w.Uint32(d.props.VendorID)
	w.Uint32(d.props.DeviceID)
	uuid := d.pipelineCacheUUID()
	w.Data(uuid[:])
	return buf.Bytes()
}

// stripPipelineCacheHeader returns the host part of data written by
// GetPipelineCacheData, or nil if data was written for another device.
func (d *Device) stripPipelineCacheHeader(ctx context.Context, data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	header := d.pipelineCacheHeader()
	if len(data) < len(header) || !bytes.Equal(data[:len(header)], header) {
		log.D(ctx, "Dropping %d bytes of initial pipeline cache data with a foreign header", len(data))
		return nil
	}
	return data[len(header):]
}

// waitPrimary drains the primary ring before work on another ring that may
// depend on what was submitted to it.
func (d *Device) waitPrimary(ctx context.Context) error {
	if d.ringFor(ctx) == d.ring {
		return nil
	}
	if err := d.ring.WaitAll(ctx); err != nil {
		log.W(ctx, "Waiting for the primary ring failed: %v", err)
		return VkResult_VK_ERROR_DEVICE_LOST
	}
	return nil
}

func (d *Device) CreatePipelineCache(ctx context.Context, info *VkPipelineCacheCreateInfo) (VkPipelineCache, error) {
	c := &PipelineCache{handle: VkPipelineCache(newHandle())}
	stripped := *info
	stripped.InitialData = d.stripPipelineCacheHeader(ctx, info.InitialData)
	err := d.async(ctx, protocol.CreatePipelineCache, func(w binary.Writer) {
		w.Uint64(uint64(c.handle))
		stripped.encode(w)
	})
	if err != nil {
		return 0, err
	}
	d.pipelineCaches.add(c.handle, c)
	return c.handle, nil
}

func (d *Device) DestroyPipelineCache(ctx context.Context, cache VkPipelineCache) {
	if d.pipelineCaches.remove(cache) != nil {
		d.destroy(ctx, protocol.DestroyPipelineCache, uint64(cache))
	}
}

// GetPipelineCacheData returns the contents of cache prefixed with the
// Vulkan pipeline cache header.
func (d *Device) GetPipelineCacheData(ctx context.Context, cache VkPipelineCache) ([]byte, error) {
	if err := d.waitPrimary(ctx); err != nil {
		return nil, err
	}
	res, r := d.call(ctx, protocol.GetPipelineCacheData, func(w binary.Writer) {
		w.Uint64(uint64(cache))
	})
	if res != VkResult_VK_SUCCESS {
		return nil, res
	}
	var data []byte
	if size := int(r.Count()); size > r.Remaining() {
		r.SetError(protocol.ErrCorrupt)
	} else {
		data = make([]byte, size)
		r.Data(data)
	}
	if r.Error() != nil {
		log.W(ctx, "Bad pipeline cache data reply: %v", r.Error())
		return nil, VkResult_VK_ERROR_DEVICE_LOST
	}
	return append(d.pipelineCacheHeader(), data...), nil
}

func (d *Device) MergePipelineCaches(ctx context.Context, dst VkPipelineCache, srcs []VkPipelineCache) error {
	if err := d.waitPrimary(ctx); err != nil {
		return err
	}
	return d.async(ctx, protocol.MergePipelineCaches, func(w binary.Writer) {
		w.Uint64(uint64(dst))
		encodeHandles(w, srcs)
	})
}
