// Copyright (C) 2017 Google Inc.
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

import "sync"

// table maps the handles of one object type to their shadow objects.
type table[H ~uint64, T any] struct {
	mutex   sync.RWMutex
	objects map[H]*T
}

func (t *table[H, T]) add(h H, o *T) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.objects == nil {
		t.objects = map[H]*T{}
	}
	t.objects[h] = o
}

// get returns the object for h, or nil if h is unknown.
func (t *table[H, T]) get(h H) *T {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.objects[h]
}

func (t *table[H, T]) remove(h H) *T {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	o := t.objects[h]
	delete(t.objects, h)
	return o
}

func (t *table[H, T]) len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.objects)
}

// image returns the shadow of h. Unknown handles resolve to an exclusive,
// non-WSI image.
func (d *Device) image(h VkImage) *Image {
	if img := d.images.get(h); img != nil {
		return img
	}
	return &Image{handle: h}
}

// framebufferImages resolves the images of the present-src attachments
// atts of a render pass begun with fb. Imageless framebuffers take their
// views from the VkRenderPassAttachmentBeginInfo in chain.
func (d *Device) framebufferImages(fb *Framebuffer, chain []VkStructure, atts []presentSrcAttachment) []*Image {
	var views []VkImageView
	if fb != nil && len(fb.imageViews) > 0 {
		views = fb.imageViews
	} else if info, ok := findStruct[*VkRenderPassAttachmentBeginInfo](chain); ok {
		views = info.Attachments
	}
	images := make([]*Image, len(atts))
	for i, att := range atts {
		invariant(int(att.index) < len(views), "Present-src attachment %d has no image view", att.index)
		if int(att.index) >= len(views) {
			images[i] = &Image{}
			continue
		}
		if view := d.imageViews.get(views[att.index]); view != nil && view.image != nil {
			images[i] = view.image
		} else {
			images[i] = &Image{}
		}
	}
	return images
}
