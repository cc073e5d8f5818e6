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

package config_test

import (
	"testing"

	"github.com/google/venus/config"
	"github.com/google/venus/core/assert"
)

func TestParsePerf(t *testing.T) {
	p, err := config.ParsePerf("no_cmd_batching, draw_cmd_batch_limit=4,no_async_set_alloc")
	assert.To(t).For("err").ThatError(err).Succeeded()
	assert.To(t).For("batching").That(p.NoCmdBatching).Equals(true)
	assert.To(t).For("set alloc").That(p.NoAsyncSetAlloc).Equals(true)
	assert.To(t).For("pipeline").That(p.NoAsyncPipelineCreate).Equals(false)
	assert.To(t).For("limit").That(p.DrawCmdBatchLimit).Equals(uint32(4))
	assert.To(t).For("cs").That(p.CommandStreamLimit).Equals(config.DefaultCommandStreamLimit)
}

func TestParsePerfEmpty(t *testing.T) {
	p, err := config.ParsePerf("")
	assert.To(t).For("err").ThatError(err).Succeeded()
	assert.To(t).For("defaults").That(p).Equals(config.DefaultPerf())
}

func TestParsePerfErrors(t *testing.T) {
	for _, s := range []string{"bogus", "draw_cmd_batch_limit", "draw_cmd_batch_limit=x", "draw_cmd_batch_limit=0"} {
		_, err := config.ParsePerf(s)
		assert.To(t).For("%q", s).ThatError(err).Failed()
	}
}
