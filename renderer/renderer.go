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

// Package renderer contains host side executors of venus command streams.
package renderer

import (
	"context"
	"net"
	"sync"

	"github.com/google/venus/config"
	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
	"github.com/google/venus/ring"
	"github.com/google/venus/ring/grpcring"
	"github.com/pkg/errors"
)

// ReplyFunc builds the reply to a call from its request frame.
type ReplyFunc func(req protocol.Frame) []byte

// Recorder is a ring.Handler that stores every command it receives and
// answers calls from scripted replies.
type Recorder struct {
	mutex   sync.Mutex
	streams [][]protocol.Frame
	calls   []protocol.Frame
	replies map[protocol.CommandType]ReplyFunc
	fail    error
}

var _ ring.Handler = &Recorder{}

// NewRecorder returns an empty Recorder. Calls without a scripted reply
// succeed with an empty payload.
func NewRecorder() *Recorder {
	return &Recorder{replies: map[protocol.CommandType]ReplyFunc{}}
}

// SetReply scripts the reply to calls whose last command is of type t.
func (r *Recorder) SetReply(t protocol.CommandType, f ReplyFunc) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.replies[t] = f
}

// FailSubmits makes every later Submit fail with err. A nil err clears it.
func (r *Recorder) FailSubmits(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.fail = err
}

// Submit implements ring.Handler.
func (r *Recorder) Submit(ctx context.Context, cs []byte) error {
	frames, err := protocol.Decode(cs)
	if err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.streams = append(r.streams, frames)
	return nil
}

// Call implements ring.Handler.
func (r *Recorder) Call(ctx context.Context, cs []byte) ([]byte, error) {
	frames, err := protocol.Decode(cs)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, errors.Wrap(protocol.ErrCorrupt, "empty call")
	}
	req := frames[len(frames)-1]
	r.mutex.Lock()
	r.calls = append(r.calls, frames...)
	f := r.replies[req.Type]
	r.mutex.Unlock()
	if f == nil {
		return protocol.EncodeReply(0, nil), nil
	}
	return f(req), nil
}

// Submits returns the number of streams submitted.
func (r *Recorder) Submits() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.streams)
}

// Streams returns the frames of every submitted stream.
func (r *Recorder) Streams() [][]protocol.Frame {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([][]protocol.Frame(nil), r.streams...)
}

// Frames returns every submitted frame in order.
func (r *Recorder) Frames() []protocol.Frame {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := []protocol.Frame{}
	for _, s := range r.streams {
		out = append(out, s...)
	}
	return out
}

// FramesOf returns the submitted frames of type t.
func (r *Recorder) FramesOf(t protocol.CommandType) []protocol.Frame {
	out := []protocol.Frame{}
	for _, f := range r.Frames() {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// Calls returns the frames of every call.
func (r *Recorder) Calls() []protocol.Frame {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]protocol.Frame(nil), r.calls...)
}

// Clear forgets everything recorded so far. Scripted replies are kept.
func (r *Recorder) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.streams = nil
	r.calls = nil
}

// Null is a ring.Handler that validates streams and logs their commands.
// Every call succeeds with an empty payload.
type Null struct{}

// Submit implements ring.Handler.
func (Null) Submit(ctx context.Context, cs []byte) error {
	return logStream(ctx, cs)
}

// Call implements ring.Handler.
func (Null) Call(ctx context.Context, cs []byte) ([]byte, error) {
	if err := logStream(ctx, cs); err != nil {
		return nil, err
	}
	return protocol.EncodeReply(0, nil), nil
}

func logStream(ctx context.Context, cs []byte) error {
	d := protocol.NewDecoder(cs)
	n := 0
	for {
		f, ok, err := d.Next()
		if err != nil {
			return log.Errf(ctx, err, "Decoding command %d", n)
		}
		if !ok {
			break
		}
		if config.LogCommandStreams {
			log.D(ctx, "%v (%d bytes)", f.Type, len(f.Payload))
		}
		n++
	}
	log.D(ctx, "Executed %d commands", n)
	return nil
}

// Serve runs a gRPC ring server for h on lis until ctx is cancelled.
func Serve(ctx context.Context, lis net.Listener, h ring.Handler, authToken string) error {
	s := grpcring.NewServer(ctx, h, authToken)
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()
	log.I(ctx, "Serving venus.Ring on %v", lis.Addr())
	return s.Serve(lis)
}
