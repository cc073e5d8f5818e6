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

// Package config contains the build configuration flags and the runtime
// performance toggles of the venus driver.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	CheckInvariants   = true  // Panic on internal contract violations
	LogCommandStreams = false // Logs the frames of every flushed command stream
)

const (
	// DefaultDrawCmdBatchLimit is the number of draws recorded before a
	// command buffer flushes its stream to the ring.
	DefaultDrawCmdBatchLimit = 256
	// DefaultCommandStreamLimit is the storage cap of one command encoder.
	DefaultCommandStreamLimit = 64 << 20
)

// Perf holds the performance toggles consumed by the driver core.
type Perf struct {
	NoCmdBatching         bool // Submit after every recorded command
	NoAsyncSetAlloc       bool // Allocate descriptor sets with a host round trip
	NoAsyncPipelineCreate bool // Create pipelines with a host round trip
	NoRenderPassCache     bool // Query render area granularity on every call
	DrawCmdBatchLimit     uint32
	CommandStreamLimit    int
}

// DefaultPerf returns the toggles used when nothing was configured.
func DefaultPerf() Perf {
	return Perf{
		DrawCmdBatchLimit:  DefaultDrawCmdBatchLimit,
		CommandStreamLimit: DefaultCommandStreamLimit,
	}
}

// ParsePerf parses a comma separated option list such as
// "no_cmd_batching,draw_cmd_batch_limit=64" on top of DefaultPerf.
func ParsePerf(s string) (Perf, error) {
	p := DefaultPerf()
	for _, opt := range strings.Split(s, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		name, value, hasValue := strings.Cut(opt, "=")
		switch name {
		case "no_cmd_batching":
			p.NoCmdBatching = true
		case "no_async_set_alloc":
			p.NoAsyncSetAlloc = true
		case "no_async_pipeline_create":
			p.NoAsyncPipelineCreate = true
		case "no_render_pass_cache":
			p.NoRenderPassCache = true
		case "draw_cmd_batch_limit":
			n, err := parseValue(name, value, hasValue)
			if err != nil {
				return Perf{}, err
			}
			if n == 0 {
				return Perf{}, errors.Errorf("%s must be positive", name)
			}
			p.DrawCmdBatchLimit = uint32(n)
		case "cs_limit":
			n, err := parseValue(name, value, hasValue)
			if err != nil {
				return Perf{}, err
			}
			p.CommandStreamLimit = int(n)
		default:
			return Perf{}, errors.Errorf("unknown perf option %q", name)
		}
	}
	return p, nil
}

func parseValue(name, value string, ok bool) (uint64, error) {
	if !ok {
		return 0, errors.Errorf("%s requires a value", name)
	}
	n, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", name)
	}
	return n, nil
}
