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

package protocol_test

import (
	"testing"

	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/protocol"
	"github.com/pkg/errors"
)

func TestEncodeDecode(t *testing.T) {
	e := protocol.NewEncoder(1024)
	ok := e.Encode(protocol.CmdDraw, func(w binary.Writer) {
		w.Uint64(0x10)
		w.Uint32(3)
		w.Uint32(1)
	})
	assert.To(t).For("encode").That(ok).Equals(true)
	assert.To(t).For("uncommitted").ThatSlice(e.Bytes()).IsEmpty()
	e.Encode(protocol.CmdEndRenderPass, func(w binary.Writer) { w.Uint64(0x10) })
	e.Commit()

	frames, err := protocol.Decode(e.Bytes())
	assert.To(t).For("decode").ThatError(err).Succeeded()
	assert.To(t).For("frames").ThatSlice(frames).IsLength(2)
	assert.To(t).For("type 0").That(frames[0].Type).Equals(protocol.CmdDraw)
	assert.To(t).For("size 0").ThatSlice(frames[0].Payload).IsLength(16)
	r := frames[0].Reader()
	assert.To(t).For("handle").That(r.Uint64()).Equals(uint64(0x10))
	assert.To(t).For("vertices").That(r.Uint32()).Equals(uint32(3))
	assert.To(t).For("type 1").That(frames[1].Type).Equals(protocol.CmdEndRenderPass)
}

func TestReserveLimit(t *testing.T) {
	e := protocol.NewEncoder(16)
	ok := e.Encode(protocol.CmdDraw, func(w binary.Writer) { w.Uint64(1); w.Uint64(2) })
	assert.To(t).For("too big").That(ok).Equals(false)
	assert.To(t).For("len").That(e.Len()).Equals(0)
	ok = e.Encode(protocol.CmdSetLineWidth, func(w binary.Writer) { w.Float32(1) })
	assert.To(t).For("fits").That(ok).Equals(true)
	assert.To(t).For("fatal").That(e.Fatal()).Equals(false)
}

func TestWriterErrorIsFatal(t *testing.T) {
	e := protocol.NewEncoder(1024)
	ok := e.Encode(protocol.CmdDraw, func(w binary.Writer) {
		w.SetError(errors.New("bad struct"))
	})
	assert.To(t).For("reserved").That(ok).Equals(true)
	assert.To(t).For("fatal").That(e.Fatal()).Equals(true)
	e.Reset()
	assert.To(t).For("reset").That(e.Fatal()).Equals(false)
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := protocol.Decode([]byte{1, 0, 0, 0, 99, 0, 0, 0})
	assert.To(t).For("overrun").That(errors.Cause(err)).Equals(protocol.ErrCorrupt)
	_, err = protocol.Decode([]byte{0xff, 0xff, 0, 0, 0, 0, 0, 0})
	assert.To(t).For("unknown").That(errors.Cause(err)).Equals(protocol.ErrCorrupt)
	_, err = protocol.Decode([]byte{1, 0})
	assert.To(t).For("short").That(errors.Cause(err)).Equals(protocol.ErrCorrupt)
}

func TestReply(t *testing.T) {
	data := protocol.EncodeReply(-1, func(w binary.Writer) { w.Uint32(7) })
	res, r, err := protocol.DecodeReply(data)
	assert.To(t).For("err").ThatError(err).Succeeded()
	assert.To(t).For("result").That(res).Equals(int32(-1))
	assert.To(t).For("payload").That(r.Uint32()).Equals(uint32(7))
}

func TestCommandTypeString(t *testing.T) {
	assert.To(t).That(protocol.CmdDraw.String()).Equals("vkCmdDraw")
	assert.To(t).That(protocol.CommandType(0).String()).Equals("CommandType<0>")
	assert.To(t).That(protocol.CmdDraw.IsCmd()).Equals(true)
	assert.To(t).That(protocol.CreateImage.IsCmd()).Equals(false)
}
