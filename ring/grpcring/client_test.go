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

package grpcring_test

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/log"
	"github.com/google/venus/ring"
	"github.com/google/venus/ring/grpcring"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type host struct {
	mutex     sync.Mutex
	submitted [][]byte
	fail      bool
}

func (h *host) Submit(ctx context.Context, cs []byte) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.fail {
		return errors.New("host lost")
	}
	h.submitted = append(h.submitted, cs)
	return nil
}

// Call replies with the number of streams submitted before it.
func (h *host) Call(ctx context.Context, cs []byte) ([]byte, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return append([]byte{byte(len(h.submitted))}, cs...), nil
}

func start(ctx context.Context, t *testing.T, h ring.Handler, serverToken, clientToken string) *grpcring.Client {
	lis := bufconn.Listen(1 << 20)
	s := grpcring.NewServer(ctx, h, serverToken)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	c, err := grpcring.Dial(ctx, "bufnet", clientToken,
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }))
	if !assert.To(t).For("dial").ThatError(err).Succeeded() {
		t.FailNow()
	}
	t.Cleanup(func() { c.Close(ctx) })
	return c
}

func TestSubmitOrder(t *testing.T) {
	ctx := log.Testing(t)
	h := &host{}
	c := start(ctx, t, h, "secret", "secret")

	for i := 0; i < 10; i++ {
		assert.To(t).For("submit %d", i).ThatError(c.Submit(ctx, []byte{byte(i)})).Succeeded()
	}
	reply, err := c.Call(ctx, []byte{42})
	assert.To(t).For("call").ThatError(err).Succeeded()
	assert.To(t).For("reply").ThatSlice(reply).Equals([]byte{10, 42})
	assert.To(t).For("wait").ThatError(c.WaitAll(ctx)).Succeeded()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for i, cs := range h.submitted {
		assert.To(t).For("stream %d", i).ThatSlice(cs).Equals([]byte{byte(i)})
	}
}

func TestStickyError(t *testing.T) {
	ctx := log.Testing(t)
	h := &host{fail: true}
	c := start(ctx, t, h, "", "")

	assert.To(t).For("async submit").ThatError(c.Submit(ctx, []byte{1})).Succeeded()
	assert.To(t).For("wait").ThatError(c.WaitAll(ctx)).Failed()
	assert.To(t).For("later submit").ThatError(c.Submit(ctx, []byte{2})).Failed()
	_, err := c.Call(ctx, []byte{3})
	assert.To(t).For("later call").ThatError(err).Failed()
}

func TestAuthToken(t *testing.T) {
	ctx := log.Testing(t)
	c := start(ctx, t, &host{}, "secret", "wrong")
	_, err := c.Call(ctx, []byte{1})
	assert.To(t).For("call").ThatError(err).HasMessage("invalid auth token")
	assert.To(t).For("ping").ThatError(c.Ping(ctx)).Failed()
}

func TestClosed(t *testing.T) {
	ctx := log.Testing(t)
	c := start(ctx, t, &host{}, "", "")
	c.Close(ctx)
	assert.To(t).For("submit").That(errors.Cause(c.Submit(ctx, []byte{1}))).Equals(ring.ErrClosed)
	assert.To(t).For("wait").That(errors.Cause(c.WaitAll(ctx))).Equals(ring.ErrClosed)
}

func TestDialSSHNeedsKnownHosts(t *testing.T) {
	ctx := log.Testing(t)
	_, err := grpcring.DialSSH(ctx, grpcring.SSHConfiguration{
		Host:       "localhost",
		Port:       22,
		Keyfile:    "/nonexistent/id_rsa",
		KnownHosts: "/nonexistent/known_hosts",
	})
	assert.To(t).For("dial").ThatError(err).Failed()
}
