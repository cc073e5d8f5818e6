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

// Package protocol frames encoded Vulkan calls into command streams.
//
// A stream is a sequence of frames:
//
//	[u32 command type][u32 payload size][payload]
//
// all little-endian. Replies to synchronous calls are
//
//	[i32 VkResult][payload]
package protocol

import (
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/data/endian"
	"github.com/google/venus/core/fault"
)

const (
	// ErrCorrupt is returned when a stream or reply cannot be decoded.
	ErrCorrupt = fault.Const("Command stream corrupt")
	// headerSize is the size of a frame header.
	headerSize = 8
)

// Encoder is a growable command stream with a hard storage limit.
//
// Bytes become visible to Bytes only once committed. An encoder that has
// failed to encode a command it had space for is fatal until Reset.
type Encoder struct {
	buf       []byte
	committed int
	limit     int
	reserved  int
	fatal     bool
}

// NewEncoder returns an empty encoder that holds at most limit bytes.
func NewEncoder(limit int) *Encoder {
	return &Encoder{limit: limit}
}

// Reserve makes room for size more bytes. It returns false if the storage
// limit would be exceeded.
func (e *Encoder) Reserve(size int) bool {
	if size < 0 || len(e.buf)+size > e.limit {
		return false
	}
	if cap(e.buf)-len(e.buf) < size {
		grown := make([]byte, len(e.buf), growCap(cap(e.buf), len(e.buf)+size, e.limit))
		copy(grown, e.buf)
		e.buf = grown
	}
	e.reserved = size
	return true
}

func growCap(have, need, limit int) int {
	n := have * 2
	if n < 4096 {
		n = 4096
	}
	for n < need {
		n *= 2
	}
	if n > limit {
		n = limit
	}
	return n
}

// Encode sizes the command produced by f, reserves space for it and writes
// it. It returns false only when the reservation fails, in which case
// nothing was written. An error raised by f through the writer drops the
// command and marks the encoder fatal.
func (e *Encoder) Encode(t CommandType, f func(binary.Writer)) bool {
	size, err := binary.Size(f)
	if err != nil {
		e.fatal = true
		return true
	}
	if !e.Reserve(headerSize + size) {
		return false
	}
	start := len(e.buf)
	w := endian.Writer((*appender)(e), endian.Little)
	w.Uint32(uint32(t))
	w.Uint32(uint32(size))
	f(w)
	if w.Error() != nil || len(e.buf)-start != headerSize+size {
		e.buf = e.buf[:start]
		e.fatal = true
	}
	e.reserved = 0
	return true
}

// Commit makes everything encoded so far part of Bytes.
func (e *Encoder) Commit() { e.committed = len(e.buf) }

// Reset drops all encoded bytes and clears the fatal flag.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.committed = 0
	e.reserved = 0
	e.fatal = false
}

// Fatal returns true if a command failed to encode since the last Reset.
func (e *Encoder) Fatal() bool { return e.fatal }

// SetFatal marks the stream as corrupt.
func (e *Encoder) SetFatal() { e.fatal = true }

// Bytes returns the committed stream.
func (e *Encoder) Bytes() []byte { return e.buf[:e.committed] }

// Len returns the number of encoded bytes, committed or not.
func (e *Encoder) Len() int { return len(e.buf) }

// Empty returns true if nothing has been committed.
func (e *Encoder) Empty() bool { return e.committed == 0 }

// Release frees the encoder storage.
func (e *Encoder) Release() {
	e.buf = nil
	e.committed = 0
	e.reserved = 0
}

type appender Encoder

func (a *appender) Write(p []byte) (int, error) {
	a.buf = append(a.buf, p...)
	return len(p), nil
}
