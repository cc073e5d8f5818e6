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

package renderer_test

import (
	"testing"

	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
	"github.com/google/venus/renderer"
	"github.com/pkg/errors"
)

func stream(types ...protocol.CommandType) []byte {
	e := protocol.NewEncoder(1 << 10)
	for _, t := range types {
		e.Encode(t, func(w binary.Writer) { w.Uint32(uint32(t)) })
	}
	e.Commit()
	return e.Bytes()
}

func TestRecorder(t *testing.T) {
	ctx := log.Testing(t)
	r := renderer.NewRecorder()
	err := r.Submit(ctx, stream(protocol.CmdDraw, protocol.CmdDraw, protocol.CmdEndRenderPass))
	assert.To(t).For("submit").ThatError(err).Succeeded()
	assert.To(t).For("submits").That(r.Submits()).Equals(1)
	assert.To(t).For("draws").ThatSlice(r.FramesOf(protocol.CmdDraw)).IsLength(2)

	r.SetReply(protocol.GetRenderAreaGranularity, func(req protocol.Frame) []byte {
		return protocol.EncodeReply(0, func(w binary.Writer) { w.Uint32(64); w.Uint32(32) })
	})
	reply, err := r.Call(ctx, stream(protocol.GetRenderAreaGranularity))
	assert.To(t).For("call").ThatError(err).Succeeded()
	res, rd, err := protocol.DecodeReply(reply)
	assert.To(t).For("decode").ThatError(err).Succeeded()
	assert.To(t).For("result").That(res).Equals(int32(0))
	assert.To(t).For("width").That(rd.Uint32()).Equals(uint32(64))
	assert.To(t).For("calls").ThatSlice(r.Calls()).IsLength(1)

	r.FailSubmits(errors.New("lost"))
	assert.To(t).For("failing").ThatError(r.Submit(ctx, stream(protocol.CmdDraw))).Failed()
	r.Clear()
	assert.To(t).For("cleared").That(r.Submits()).Equals(0)
}

func TestRecorderRejectsCorrupt(t *testing.T) {
	ctx := log.Testing(t)
	r := renderer.NewRecorder()
	err := r.Submit(ctx, []byte{1, 2, 3})
	assert.To(t).For("corrupt").That(errors.Cause(err)).Equals(protocol.ErrCorrupt)
	_, err = r.Call(ctx, nil)
	assert.To(t).For("empty call").That(errors.Cause(err)).Equals(protocol.ErrCorrupt)
}

func TestNull(t *testing.T) {
	ctx := log.Testing(t)
	n := renderer.Null{}
	assert.To(t).For("submit").ThatError(n.Submit(ctx, stream(protocol.CmdDraw))).Succeeded()
	reply, err := n.Call(ctx, stream(protocol.CreateGraphicsPipelines))
	assert.To(t).For("call").ThatError(err).Succeeded()
	res, _, _ := protocol.DecodeReply(reply)
	assert.To(t).For("result").That(res).Equals(int32(0))
}
