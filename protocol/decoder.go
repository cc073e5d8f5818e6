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

package protocol

import (
	"bytes"

	"github.com/google/venus/core/data/binary"
	"github.com/google/venus/core/data/endian"
	"github.com/pkg/errors"
)

// Frame is one decoded command.
type Frame struct {
	Type    CommandType
	Payload []byte
}

// Reader returns a reader over the frame payload.
func (f Frame) Reader() *endian.BytesReader {
	return endian.ReaderForBytes(f.Payload, endian.Little)
}

// Decoder iterates the frames of a command stream.
type Decoder struct {
	r *endian.BytesReader
}

// NewDecoder returns a Decoder over data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{r: endian.ReaderForBytes(data, endian.Little)}
}

// Next returns the next frame. ok is false once the stream is exhausted.
func (d *Decoder) Next() (f Frame, ok bool, err error) {
	if d.r.Remaining() == 0 {
		return Frame{}, false, nil
	}
	if d.r.Remaining() < headerSize {
		return Frame{}, false, errors.Wrapf(ErrCorrupt, "truncated frame header at offset %d", d.r.Offset())
	}
	t := CommandType(d.r.Uint32())
	size := int(d.r.Uint32())
	if !t.Valid() {
		return Frame{}, false, errors.Wrapf(ErrCorrupt, "unknown command type %d at offset %d", uint32(t), d.r.Offset()-headerSize)
	}
	if size > d.r.Remaining() {
		return Frame{}, false, errors.Wrapf(ErrCorrupt, "%v payload of %d bytes overruns stream", t, size)
	}
	payload := make([]byte, size)
	d.r.Data(payload)
	return Frame{Type: t, Payload: payload}, true, nil
}

// Decode splits a whole stream into frames.
func Decode(data []byte) ([]Frame, error) {
	out := []Frame{}
	d := NewDecoder(data)
	for {
		f, ok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, f)
	}
}

// EncodeReply builds the reply to a synchronous call.
func EncodeReply(result int32, f func(binary.Writer)) []byte {
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, endian.Little)
	w.Int32(result)
	if f != nil {
		f(w)
	}
	return buf.Bytes()
}

// DecodeReply splits a reply into its result and a reader over the payload.
func DecodeReply(data []byte) (int32, *endian.BytesReader, error) {
	if len(data) < 4 {
		return 0, nil, errors.Wrapf(ErrCorrupt, "reply of %d bytes", len(data))
	}
	r := endian.ReaderForBytes(data, endian.Little)
	return r.Int32(), r, nil
}
