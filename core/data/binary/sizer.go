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

package binary

// Sizer is a Writer that discards everything written to it and only counts
// the number of bytes that would have been produced.
type Sizer struct {
	n   int
	err error
}

var _ Writer = &Sizer{}

// Size returns the number of bytes f writes.
func Size(f func(Writer)) (int, error) {
	s := &Sizer{}
	f(s)
	return s.n, s.err
}

// Len returns the number of bytes counted so far.
func (s *Sizer) Len() int { return s.n }

func (s *Sizer) Data(d []byte)    { s.n += len(d) }
func (s *Sizer) Bool(bool)        { s.n++ }
func (s *Sizer) Uint8(uint8)      { s.n++ }
func (s *Sizer) Uint16(uint16)    { s.n += 2 }
func (s *Sizer) Int32(int32)      { s.n += 4 }
func (s *Sizer) Uint32(uint32)    { s.n += 4 }
func (s *Sizer) Float32(float32)  { s.n += 4 }
func (s *Sizer) Int64(int64)      { s.n += 8 }
func (s *Sizer) Uint64(uint64)    { s.n += 8 }
func (s *Sizer) Float64(float64)  { s.n += 8 }
func (s *Sizer) Count(uint32)     { s.n += 4 }
func (s *Sizer) Error() error     { return s.err }
func (s *Sizer) SetError(e error) { s.err = e }
