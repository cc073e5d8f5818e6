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

// The vnrenderer command serves the venus.Ring service with a null renderer
// that validates and logs every command stream it receives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/google/venus/core/log"
)

type verb interface {
	bind(flags *flag.FlagSet)
	Run(ctx context.Context, flags *flag.FlagSet) error
}

type verbInfo struct {
	shortHelp string
	action    verb
}

var verbs = map[string]*verbInfo{}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: vnrenderer <verb> [flags] [args]\n\nVerbs:\n")
	names := make([]string, 0, len(verbs))
	for name := range verbs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", name, verbs[name].shortHelp)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	v, ok := verbs[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}

	flags := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	verbose := flags.Bool("v", false, "log debug messages")
	v.action.bind(flags)
	flags.Parse(os.Args[2:])

	ctx := log.PutHandler(context.Background(), log.Std())
	if *verbose {
		ctx = log.PutFilter(ctx, log.SeverityFilter(log.Debug))
	} else {
		ctx = log.PutFilter(ctx, log.SeverityFilter(log.Info))
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if err := v.action.Run(log.Enter(ctx, os.Args[1]), flags); err != nil {
		log.E(ctx, "%v", err)
		os.Exit(1)
	}
}
