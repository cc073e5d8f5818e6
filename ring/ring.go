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

// Package ring declares the transport that carries command streams from the
// driver to the host renderer.
package ring

import (
	"context"
	"sync"

	"github.com/google/venus/core/fault"
	"github.com/google/venus/core/log"
)

// ErrClosed is returned by rings used after Close.
const ErrClosed = fault.Const("Ring closed")

// Ring carries encoded command streams to a host.
//
// Submit and Call are ordered: a Call observes every stream submitted before
// it on the same Ring.
type Ring interface {
	// Submit pushes a command stream without waiting for it to execute.
	// The ring takes a copy of cs.
	Submit(ctx context.Context, cs []byte) error
	// Call executes a single command stream and returns the host reply.
	Call(ctx context.Context, cs []byte) ([]byte, error)
	// WaitAll blocks until every previously submitted stream has executed.
	WaitAll(ctx context.Context) error
}

// Handler executes command streams on the host side.
type Handler interface {
	// Submit executes every command in cs.
	Submit(ctx context.Context, cs []byte) error
	// Call executes cs and returns the reply of its last command.
	Call(ctx context.Context, cs []byte) ([]byte, error)
}

// Loopback is a Ring that executes streams on an in-process Handler.
type Loopback struct {
	mutex   sync.Mutex
	handler Handler
	submits int
	closed  bool
}

var _ Ring = &Loopback{}

// NewLoopback returns a Ring that runs streams on h.
func NewLoopback(h Handler) *Loopback {
	return &Loopback{handler: h}
}

// Submit implements Ring.
func (l *Loopback) Submit(ctx context.Context, cs []byte) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.submits++
	cp := append([]byte(nil), cs...)
	if err := l.handler.Submit(ctx, cp); err != nil {
		return log.Err(ctx, err, "Loopback submit")
	}
	return nil
}

// Call implements Ring.
func (l *Loopback) Call(ctx context.Context, cs []byte) ([]byte, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	cp := append([]byte(nil), cs...)
	reply, err := l.handler.Call(ctx, cp)
	if err != nil {
		return nil, log.Err(ctx, err, "Loopback call")
	}
	return reply, nil
}

// WaitAll implements Ring. Loopback streams execute synchronously.
func (l *Loopback) WaitAll(ctx context.Context) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return ErrClosed
	}
	return nil
}

// Submits returns the number of streams submitted so far.
func (l *Loopback) Submits() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.submits
}

// Close makes every further use of the ring fail.
func (l *Loopback) Close() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.closed = true
}
