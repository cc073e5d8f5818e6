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

package grpcring

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/wrappers"
	"github.com/google/venus/core/log"
	"github.com/google/venus/ring"
	"golang.org/x/net/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	// AuthTokenMetaDataName is the key of the Context metadata pair that
	// contains the authentication token. This token is common knowledge shared
	// between the driver and the renderer.
	AuthTokenMetaDataName = "venus-auth-token"
	// gRPCConnectTimeout is the time allowed to establish a gRPC connection.
	gRPCConnectTimeout = time.Second * 10
	// heartbeatInterval is the delay between heartbeat pings.
	heartbeatInterval = time.Second * 2
	// queueDepth is the number of requests buffered ahead of the sender.
	queueDepth = 64
)

// request is one stream waiting for the sender goroutine. Submits carry no
// reply channel.
type request struct {
	method string
	cs     []byte
	reply  chan result
}

type result struct {
	data []byte
	err  error
}

// Client is a ring.Ring connected to a remote renderer.
//
// A single sender goroutine issues every request in the order it was
// queued, so asynchronous submits keep program order. The first failed
// submit is sticky and reported by every later call.
type Client struct {
	conn      *grpc.ClientConn
	authToken string
	queue     chan request
	stop      chan struct{}
	done      sync.WaitGroup

	// closeMutex guards closed and sending on queue.
	closeMutex sync.RWMutex
	closed     bool

	errMutex sync.Mutex
	err      error
}

var _ ring.Ring = &Client{}

// Dial connects to the renderer at target.
func Dial(ctx context.Context, target, authToken string, opts ...grpc.DialOption) (*Client, error) {
	ctx = log.Enter(ctx, "Dial")
	log.I(ctx, "Waiting for connection to renderer at %v...", target)

	dctx, cancel := context.WithTimeout(ctx, gRPCConnectTimeout)
	defer cancel()
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(math.MaxInt32)),
	}, opts...)
	conn, err := grpc.DialContext(dctx, target, opts...)
	if err != nil {
		return nil, log.Err(ctx, err, "Timeout waiting for connection")
	}
	return New(ctx, conn, authToken), nil
}

// New returns a Client using an established connection. The client owns
// conn and closes it on Close.
func New(ctx context.Context, conn *grpc.ClientConn, authToken string) *Client {
	c := &Client{
		conn:      conn,
		authToken: authToken,
		queue:     make(chan request, queueDepth),
		stop:      make(chan struct{}),
	}
	// The background goroutines outlive ctx; keep only its log handler.
	bg := log.PutHandler(context.Background(), log.GetHandler(ctx))
	c.done.Add(2)
	go c.send(log.Enter(bg, "Ring sender"))
	go c.heartbeat(log.Enter(bg, "Ring heartbeat"))
	log.I(ctx, "Heartbeat connection setup done")
	return c
}

// Submit implements ring.Ring.
func (c *Client) Submit(ctx context.Context, cs []byte) error {
	if err := c.Err(); err != nil {
		return err
	}
	return c.enqueue(request{method: submitMethod, cs: append([]byte(nil), cs...)})
}

// Call implements ring.Ring.
func (c *Client) Call(ctx context.Context, cs []byte) ([]byte, error) {
	res, err := c.roundTrip(ctx, callMethod, append([]byte(nil), cs...))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// WaitAll implements ring.Ring.
func (c *Client) WaitAll(ctx context.Context) error {
	_, err := c.roundTrip(ctx, waitAllMethod, nil)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method string, cs []byte) ([]byte, error) {
	reply := make(chan result, 1)
	if err := c.enqueue(request{method: method, cs: cs, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		if err := c.Err(); err != nil {
			return nil, err
		}
		if r.err != nil {
			return nil, log.Errf(ctx, r.err, "%s", method)
		}
		return r.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) enqueue(req request) error {
	c.closeMutex.RLock()
	defer c.closeMutex.RUnlock()
	if c.closed {
		return ring.ErrClosed
	}
	c.queue <- req
	return nil
}

// Err returns the first asynchronous failure, if any.
func (c *Client) Err() error {
	c.errMutex.Lock()
	defer c.errMutex.Unlock()
	return c.err
}

func (c *Client) setError(ctx context.Context, err error) {
	c.errMutex.Lock()
	defer c.errMutex.Unlock()
	if c.err == nil {
		c.err = log.Err(ctx, err, "Asynchronous ring failure")
		log.W(ctx, "%v", c.err)
	}
}

// send issues queued requests until the queue is closed.
func (c *Client) send(ctx context.Context) {
	defer c.done.Done()
	for req := range c.queue {
		data, err := c.invoke(ctx, req.method, req.cs)
		if req.reply != nil {
			req.reply <- result{data, err}
			continue
		}
		if err != nil {
			c.setError(ctx, err)
		}
	}
}

func (c *Client) invoke(ctx context.Context, method string, cs []byte) ([]byte, error) {
	tr := trace.New(serviceName, method)
	defer tr.Finish()
	tr.LazyPrintf("%d bytes", len(cs))

	ctx = attachAuthToken(ctx, c.authToken)
	var err error
	var data []byte
	switch method {
	case submitMethod:
		err = c.conn.Invoke(ctx, method, &wrappers.BytesValue{Value: cs}, &empty.Empty{})
	case callMethod:
		out := &wrappers.BytesValue{}
		err = c.conn.Invoke(ctx, method, &wrappers.BytesValue{Value: cs}, out)
		data = out.GetValue()
	default:
		err = c.conn.Invoke(ctx, method, &empty.Empty{}, &empty.Empty{})
	}
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		return nil, err
	}
	return data, nil
}

// heartbeat regularly sends a ping to the renderer. A failed ping poisons
// the ring: streams already in flight may have been lost with the host.
func (c *Client) heartbeat(ctx context.Context) {
	defer c.done.Done()
	for {
		select {
		case <-c.stop:
			return
		case <-time.After(heartbeatInterval):
			if err := c.Ping(ctx); err != nil {
				log.E(ctx, "Error sending keep-alive ping. Error: %v", err)
				c.setError(ctx, err)
				return
			}
		}
	}
}

// Ping uses the Ping RPC to make sure the renderer is alive.
func (c *Client) Ping(ctx context.Context) error {
	ctx = attachAuthToken(ctx, c.authToken)
	if err := c.conn.Invoke(ctx, pingMethod, &empty.Empty{}, &empty.Empty{}); err != nil {
		return log.Err(ctx, err, "Sending ping")
	}
	return nil
}

// Close drains the queued requests and closes the connection.
func (c *Client) Close(ctx context.Context) {
	c.closeMutex.Lock()
	if c.closed {
		c.closeMutex.Unlock()
		return
	}
	c.closed = true
	close(c.queue)
	c.closeMutex.Unlock()

	close(c.stop)
	c.done.Wait()
	if err := c.conn.Close(); err != nil {
		log.W(ctx, "Closing ring connection: %v", err)
	}
}

// attachAuthToken attaches authentication token to the context as metadata, if
// the authentication token is not empty, and returns the new context. If the
// authentication token is empty, returns the original context.
func attachAuthToken(ctx context.Context, authToken string) context.Context {
	if len(authToken) != 0 {
		return metadata.NewOutgoingContext(ctx,
			metadata.Pairs(AuthTokenMetaDataName, authToken))
	}
	return ctx
}
