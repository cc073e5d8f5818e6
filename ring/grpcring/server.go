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

package grpcring

import (
	"context"
	"sync"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/wrappers"
	"github.com/google/venus/core/log"
	"github.com/google/venus/ring"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// server adapts a ring.Handler to RingServer. Streams execute one at a time
// in arrival order.
type server struct {
	mutex      sync.Mutex
	handler    ring.Handler
	logHandler log.Handler
}

// NewServer returns a gRPC server that executes streams on h. If authToken
// is not empty, every request must carry it.
func NewServer(ctx context.Context, h ring.Handler, authToken string, opts ...grpc.ServerOption) *grpc.Server {
	if authToken != "" {
		opts = append(opts, grpc.UnaryInterceptor(authInterceptor(authToken)))
	}
	s := grpc.NewServer(opts...)
	RegisterRingServer(s, &server{handler: h, logHandler: log.GetHandler(ctx)})
	return s
}

func (s *server) bind(ctx context.Context, name string) context.Context {
	return log.Enter(log.PutHandler(ctx, s.logHandler), name)
}

func (s *server) Submit(ctx context.Context, in *wrappers.BytesValue) (*empty.Empty, error) {
	ctx = s.bind(ctx, "Submit")
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.handler.Submit(ctx, in.GetValue()); err != nil {
		log.W(ctx, "Stream failed: %v", err)
		return nil, status.Error(codes.Aborted, err.Error())
	}
	return &empty.Empty{}, nil
}

func (s *server) Call(ctx context.Context, in *wrappers.BytesValue) (*wrappers.BytesValue, error) {
	ctx = s.bind(ctx, "Call")
	s.mutex.Lock()
	defer s.mutex.Unlock()
	reply, err := s.handler.Call(ctx, in.GetValue())
	if err != nil {
		log.W(ctx, "Call failed: %v", err)
		return nil, status.Error(codes.Aborted, err.Error())
	}
	return &wrappers.BytesValue{Value: reply}, nil
}

func (s *server) WaitAll(ctx context.Context, in *empty.Empty) (*empty.Empty, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return &empty.Empty{}, nil
}

func (s *server) Ping(ctx context.Context, in *empty.Empty) (*empty.Empty, error) {
	return &empty.Empty{}, nil
}

func authInterceptor(authToken string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}
		if tokens := md.Get(AuthTokenMetaDataName); len(tokens) != 1 || tokens[0] != authToken {
			return nil, status.Error(codes.Unauthenticated, "invalid auth token")
		}
		return handler(ctx, req)
	}
}
