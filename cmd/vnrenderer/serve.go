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

package main

import (
	"context"
	"flag"
	"net"

	"github.com/google/venus/core/log"
	"github.com/google/venus/renderer"
)

type serveVerb struct {
	listen    string
	authToken string
}

func init() {
	verb := &serveVerb{}
	verbs["serve"] = &verbInfo{
		shortHelp: "Serve the venus.Ring service with a null renderer",
		action:    verb,
	}
}

func (verb *serveVerb) bind(flags *flag.FlagSet) {
	flags.StringVar(&verb.listen, "listen", "localhost:7700", "address to listen on")
	flags.StringVar(&verb.authToken, "auth-token", "", "token every client request must carry")
}

func (verb *serveVerb) Run(ctx context.Context, flags *flag.FlagSet) error {
	lis, err := net.Listen("tcp", verb.listen)
	if err != nil {
		return log.Errf(ctx, err, "Listening on %v", verb.listen)
	}
	return renderer.Serve(ctx, lis, renderer.Null{}, verb.authToken)
}
