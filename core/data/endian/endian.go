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

// Package endian implements binary.Reader and binary.Writer over byte
// streams in a chosen byte order.
package endian

import (
	eb "encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/venus/core/data/binary"
)

// Order is a byte order.
type Order int

const (
	// Little is little-endian, the order of the venus command stream.
	Little Order = iota
	// Big is big-endian.
	Big
)

func (o Order) byteOrder() eb.ByteOrder {
	if o == Big {
		return eb.BigEndian
	}
	return eb.LittleEndian
}

// Reader creates a binary.Reader that reads from the provided io.Reader, with
// the specified byte order.
func Reader(r io.Reader, o Order) binary.Reader {
	return &reader{src: r, order: o.byteOrder()}
}

// ReaderForBytes creates a binary.Reader that reads from data, with the
// specified byte order.
func ReaderForBytes(data []byte, o Order) *BytesReader {
	return &BytesReader{data: data, order: o.byteOrder()}
}

// Writer creates a binary.Writer that writes to the supplied stream, with the
// specified byte order.
func Writer(w io.Writer, o Order) binary.Writer {
	return &writer{dst: w, order: o.byteOrder()}
}

type reader struct {
	src   io.Reader
	tmp   [8]byte
	order eb.ByteOrder
	err   error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, err := io.ReadFull(r.src, r.tmp[:n]); err != nil {
		r.err = err
		return nil
	}
	return r.tmp[:n]
}

func (r *reader) Data(p []byte) {
	if r.err != nil {
		return
	}
	if n, err := io.ReadFull(r.src, p); err != nil {
		r.err = fmt.Errorf("%v after reading %d dynamic bytes", err, n)
	}
}

func (r *reader) Bool() bool { return r.Uint8() != 0 }

func (r *reader) Uint8() uint8 {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) Uint16() uint16 {
	if b := r.next(2); b != nil {
		return r.order.Uint16(b)
	}
	return 0
}

func (r *reader) Uint32() uint32 {
	if b := r.next(4); b != nil {
		return r.order.Uint32(b)
	}
	return 0
}

func (r *reader) Uint64() uint64 {
	if b := r.next(8); b != nil {
		return r.order.Uint64(b)
	}
	return 0
}

func (r *reader) Int32() int32       { return int32(r.Uint32()) }
func (r *reader) Int64() int64       { return int64(r.Uint64()) }
func (r *reader) Float32() float32   { return math.Float32frombits(r.Uint32()) }
func (r *reader) Float64() float64   { return math.Float64frombits(r.Uint64()) }
func (r *reader) Count() uint32      { return r.Uint32() }
func (r *reader) Error() error       { return r.err }
func (r *reader) SetError(err error) { r.err = err }

// BytesReader is a binary.Reader over an in-memory buffer.
type BytesReader struct {
	data  []byte
	head  int
	order eb.ByteOrder
	err   error
}

var _ binary.Reader = &BytesReader{}

// Offset returns the number of bytes consumed so far.
func (r *BytesReader) Offset() int { return r.head }

// Remaining returns the number of unread bytes.
func (r *BytesReader) Remaining() int { return len(r.data) - r.head }

// Skip advances the read head by n bytes.
func (r *BytesReader) Skip(n int) { r.next(n) }

func (r *BytesReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.head+n > len(r.data) {
		r.err = fmt.Errorf("read of %d bytes at offset %d overruns buffer of %d bytes", n, r.head, len(r.data))
		return nil
	}
	b := r.data[r.head : r.head+n]
	r.head += n
	return b
}

func (r *BytesReader) Data(p []byte) {
	if b := r.next(len(p)); b != nil {
		copy(p, b)
	}
}

func (r *BytesReader) Bool() bool { return r.Uint8() != 0 }

func (r *BytesReader) Uint8() uint8 {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *BytesReader) Uint16() uint16 {
	if b := r.next(2); b != nil {
		return r.order.Uint16(b)
	}
	return 0
}

func (r *BytesReader) Uint32() uint32 {
	if b := r.next(4); b != nil {
		return r.order.Uint32(b)
	}
	return 0
}

func (r *BytesReader) Uint64() uint64 {
	if b := r.next(8); b != nil {
		return r.order.Uint64(b)
	}
	return 0
}

func (r *BytesReader) Int32() int32       { return int32(r.Uint32()) }
func (r *BytesReader) Int64() int64       { return int64(r.Uint64()) }
func (r *BytesReader) Float32() float32   { return math.Float32frombits(r.Uint32()) }
func (r *BytesReader) Float64() float64   { return math.Float64frombits(r.Uint64()) }
func (r *BytesReader) Count() uint32      { return r.Uint32() }
func (r *BytesReader) Error() error       { return r.err }
func (r *BytesReader) SetError(err error) { r.err = err }

type writer struct {
	dst   io.Writer
	tmp   [8]byte
	order eb.ByteOrder
	err   error
}

func (w *writer) Data(data []byte) {
	if w.err != nil {
		return
	}
	n, err := w.dst.Write(data)
	if err != nil {
		w.err = err
	} else if n != len(data) {
		w.err = io.ErrShortWrite
	}
}

func (w *writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (w *writer) Uint8(v uint8) {
	w.tmp[0] = v
	w.Data(w.tmp[:1])
}

func (w *writer) Uint16(v uint16) {
	w.order.PutUint16(w.tmp[:], v)
	w.Data(w.tmp[:2])
}

func (w *writer) Uint32(v uint32) {
	w.order.PutUint32(w.tmp[:], v)
	w.Data(w.tmp[:4])
}

func (w *writer) Uint64(v uint64) {
	w.order.PutUint64(w.tmp[:], v)
	w.Data(w.tmp[:8])
}

func (w *writer) Int32(v int32)      { w.Uint32(uint32(v)) }
func (w *writer) Int64(v int64)      { w.Uint64(uint64(v)) }
func (w *writer) Float32(v float32)  { w.Uint32(math.Float32bits(v)) }
func (w *writer) Float64(v float64)  { w.Uint64(math.Float64bits(v)) }
func (w *writer) Count(v uint32)     { w.Uint32(v) }
func (w *writer) Error() error       { return w.err }
func (w *writer) SetError(err error) { w.err = err }
