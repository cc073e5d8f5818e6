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

// Package grpcring carries venus command streams to a remote renderer over
// gRPC.
package grpcring

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/wrappers"
	"google.golang.org/grpc"
)

const (
	serviceName   = "venus.Ring"
	submitMethod  = "/venus.Ring/Submit"
	callMethod    = "/venus.Ring/Call"
	waitAllMethod = "/venus.Ring/WaitAll"
	pingMethod    = "/venus.Ring/Ping"
)

// RingServer is the server API of the venus.Ring service.
type RingServer interface {
	// Submit executes a command stream.
	Submit(context.Context, *wrappers.BytesValue) (*empty.Empty, error)
	// Call executes a command stream and returns its reply.
	Call(context.Context, *wrappers.BytesValue) (*wrappers.BytesValue, error)
	// WaitAll returns once every submitted stream has executed.
	WaitAll(context.Context, *empty.Empty) (*empty.Empty, error)
	// Ping checks the server is alive.
	Ping(context.Context, *empty.Empty) (*empty.Empty, error)
}

// RegisterRingServer registers srv with s.
func RegisterRingServer(s *grpc.Server, srv RingServer) {
	s.RegisterService(&ringServiceDesc, srv)
}

var ringServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "Call", Handler: callHandler},
		{MethodName: "WaitAll", Handler: waitAllHandler},
		{MethodName: "Ping", Handler: pingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "venus/ring.proto",
}

func submitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrappers.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RingServer).Submit(ctx, req.(*wrappers.BytesValue))
	})
}

func callHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrappers.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: callMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RingServer).Call(ctx, req.(*wrappers.BytesValue))
	})
}

func waitAllHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).WaitAll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: waitAllMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RingServer).WaitAll(ctx, req.(*empty.Empty))
	})
}

func pingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RingServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: pingMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RingServer).Ping(ctx, req.(*empty.Empty))
	})
}
