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

package binary_test

import (
	"testing"

	"github.com/google/venus/core/assert"
	"github.com/google/venus/core/data/binary"
)

func TestSize(t *testing.T) {
	n, err := binary.Size(func(w binary.Writer) {
		w.Uint32(1)
		w.Uint64(2)
		w.Bool(true)
		w.Count(3)
		w.Data([]byte{1, 2, 3})
		w.Float32(0.5)
	})
	assert.To(t).For("err").ThatError(err).Succeeded()
	assert.To(t).For("size").That(n).Equals(4 + 8 + 1 + 4 + 3 + 4)
}
