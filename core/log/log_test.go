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

package log_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/log"
	"github.com/pkg/errors"
)

func TestWriterFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := log.PutHandler(context.Background(), log.Writer(buf))
	ctx = log.Enter(ctx, "outer")
	ctx = log.Enter(ctx, "inner")
	ctx = log.V{"handle": 7}.Bind(ctx)
	log.W(ctx, "draw batch flushed after %d", 3)
	assert.To(t).For("line").That(buf.String()).Equals("W: outer -> inner -> draw batch flushed after 3 handle=7\n")
}

func TestSeverityFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := log.PutHandler(context.Background(), log.Writer(buf))
	ctx = log.PutFilter(ctx, log.SeverityFilter(log.Warning))
	log.I(ctx, "hidden")
	log.E(ctx, "shown")
	assert.To(t).For("filtered").That(strings.Contains(buf.String(), "hidden")).IsFalse()
	assert.To(t).For("kept").That(strings.Contains(buf.String(), "shown")).IsTrue()
}

func TestErrWrapsCause(t *testing.T) {
	ctx := log.Enter(context.Background(), "Submit")
	cause := errors.New("ring closed")
	err := log.Err(ctx, cause, "flush failed")
	assert.To(t).For("cause").That(errors.Cause(err)).Equals(cause)
	assert.To(t).For("msg").ThatError(err).HasMessage("Submit: flush failed: ring closed")

	err = log.Errf(ctx, nil, "bad count %d", 2)
	assert.To(t).For("no cause").ThatError(err).HasMessage("bad count 2")
}

func TestNoHandlerIsSilent(t *testing.T) {
	log.E(context.Background(), "nobody listening")
}
