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

package log

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Err creates a new error that wraps cause with the current logging
// information. If cause is nil a new error is returned.
func (l *Logger) Err(cause error, msg string) error {
	msg = l.prefix() + msg
	if cause == nil {
		return errors.New(msg)
	}
	return errors.Wrap(cause, msg)
}

// Errf creates a new error that wraps cause with the current logging
// information.
func (l *Logger) Errf(cause error, fmt string, args ...interface{}) error {
	msg := l.prefix() + fmt
	if cause == nil {
		return errors.Errorf(msg, args...)
	}
	return errors.Wrapf(cause, msg, args...)
}

func (l *Logger) prefix() string {
	if len(l.trace) == 0 {
		return ""
	}
	parts := make([]string, len(l.trace))
	for i, t := range l.trace {
		parts[len(l.trace)-1-i] = t
	}
	return strings.Join(parts, " -> ") + ": "
}

// Err creates a new error that wraps cause with the current logging
// information.
func Err(ctx context.Context, cause error, msg string) error {
	return From(ctx).Err(cause, msg)
}

// Errf creates a new error that wraps cause with the current logging
// information.
func Errf(ctx context.Context, cause error, fmt string, args ...interface{}) error {
	return From(ctx).Errf(cause, fmt, args...)
}
