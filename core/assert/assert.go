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

// Package assert is a package that helps with writing tests.
//
// Assertions read as sentences:
//
//	assert.To(t).For("draw count").That(got).Equals(4)
//	assert.To(t).For("end").ThatError(err).Succeeded()
package assert

import (
	"fmt"
	"reflect"
	"strings"
)

// Output is the interface the assertions report failures through.
// testing.T and testing.B both satisfy it.
type Output interface {
	Helper()
	Error(...interface{})
}

// Manager is the root of the fluent interface.
type Manager struct {
	out Output
}

// Assertion is the type for the start of an assertion line.
type Assertion struct {
	out  Output
	name string
}

// To creates an assertion manager that reports to out.
func To(out Output) Manager { return Manager{out} }

// For starts a new assertion with the supplied message.
func (m Manager) For(msg string, args ...interface{}) *Assertion {
	return &Assertion{out: m.out, name: fmt.Sprintf(msg, args...)}
}

// That is shorthand for For("").That(value).
func (m Manager) That(value interface{}) OnValue {
	return m.For("").That(value)
}

// ThatError is shorthand for For("").ThatError(err).
func (m Manager) ThatError(err error) OnError {
	return m.For("").ThatError(err)
}

// ThatSlice is shorthand for For("").ThatSlice(slice).
func (m Manager) ThatSlice(slice interface{}) OnSlice {
	return m.For("").ThatSlice(slice)
}

func (a *Assertion) fail(format string, args ...interface{}) bool {
	a.out.Helper()
	sb := strings.Builder{}
	if a.name != "" {
		sb.WriteString(a.name)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, format, args...)
	a.out.Error(sb.String())
	return false
}

// OnValue is the result of calling That on an Assertion.
type OnValue struct {
	*Assertion
	value interface{}
}

// That returns an OnValue for the specified untyped value.
func (a *Assertion) That(value interface{}) OnValue {
	return OnValue{a, value}
}

// Equals asserts that the supplied value is equal to the expected value.
func (o OnValue) Equals(expect interface{}) bool {
	o.out.Helper()
	if o.value != expect {
		return o.fail("Got %+v, expected %+v", o.value, expect)
	}
	return true
}

// NotEquals asserts that the supplied value is not equal to the test value.
func (o OnValue) NotEquals(test interface{}) bool {
	o.out.Helper()
	if o.value == test {
		return o.fail("Got %+v, expected not %+v", o.value, test)
	}
	return true
}

// DeepEquals asserts that the supplied value is reflect.DeepEqual to expect.
func (o OnValue) DeepEquals(expect interface{}) bool {
	o.out.Helper()
	if !reflect.DeepEqual(o.value, expect) {
		return o.fail("Got %+v, expected %+v", o.value, expect)
	}
	return true
}

// IsNil asserts that the supplied value was a nil.
func (o OnValue) IsNil() bool {
	o.out.Helper()
	if !isNil(o.value) {
		return o.fail("Got %+v, expected nil", o.value)
	}
	return true
}

// IsNotNil asserts that the supplied value was not a nil.
func (o OnValue) IsNotNil() bool {
	o.out.Helper()
	if isNil(o.value) {
		return o.fail("Got nil, expected non-nil")
	}
	return true
}

// IsTrue asserts that the supplied value is true.
func (o OnValue) IsTrue() bool { o.out.Helper(); return o.Equals(true) }

// IsFalse asserts that the supplied value is false.
func (o OnValue) IsFalse() bool { o.out.Helper(); return o.Equals(false) }

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	r := reflect.ValueOf(v)
	switch r.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return r.IsNil()
	}
	return false
}

// OnError is the result of calling ThatError on an Assertion.
type OnError struct {
	*Assertion
	err error
}

// ThatError returns an OnError for error type assertions.
func (a *Assertion) ThatError(err error) OnError {
	return OnError{a, err}
}

// Succeeded asserts that the error value was nil.
func (o OnError) Succeeded() bool {
	o.out.Helper()
	if o.err != nil {
		return o.fail("Unexpected error: %v", o.err)
	}
	return true
}

// Failed asserts that the error value was not nil.
func (o OnError) Failed() bool {
	o.out.Helper()
	if o.err == nil {
		return o.fail("Expected an error, got success")
	}
	return true
}

// Equals asserts that the error value matches the expected error.
func (o OnError) Equals(expect error) bool {
	o.out.Helper()
	if o.err != expect {
		return o.fail("Got error %v, expected %v", o.err, expect)
	}
	return true
}

// HasMessage asserts that the error string contains substr.
func (o OnError) HasMessage(substr string) bool {
	o.out.Helper()
	if o.err == nil {
		return o.fail("Expected error containing %q, got success", substr)
	}
	if !strings.Contains(o.err.Error(), substr) {
		return o.fail("Got error %q, expected it to contain %q", o.err.Error(), substr)
	}
	return true
}

// OnSlice is the result of calling ThatSlice on an Assertion.
type OnSlice struct {
	*Assertion
	slice reflect.Value
}

// ThatSlice returns an OnSlice for assertions on slice type objects.
// Calling this with a non slice type will result in panics.
func (a *Assertion) ThatSlice(slice interface{}) OnSlice {
	v := reflect.ValueOf(slice)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		panic(fmt.Errorf("ThatSlice called with %T", slice))
	}
	return OnSlice{a, v}
}

// IsEmpty asserts that the slice was of length 0.
func (o OnSlice) IsEmpty() bool {
	o.out.Helper()
	return o.IsLength(0)
}

// IsLength asserts that the slice has exactly the specified number of elements.
func (o OnSlice) IsLength(length int) bool {
	o.out.Helper()
	if o.slice.Len() != length {
		return o.fail("Got length %d, expected %d: %+v", o.slice.Len(), length, o.slice.Interface())
	}
	return true
}

// Equals asserts the slice matches expected element by element.
func (o OnSlice) Equals(expected interface{}) bool {
	o.out.Helper()
	e := reflect.ValueOf(expected)
	if o.slice.Len() != e.Len() {
		return o.fail("Got %+v, expected %+v", o.slice.Interface(), expected)
	}
	for i := 0; i < e.Len(); i++ {
		if !reflect.DeepEqual(o.slice.Index(i).Interface(), e.Index(i).Interface()) {
			return o.fail("Element %d: got %+v, expected %+v", i, o.slice.Index(i).Interface(), e.Index(i).Interface())
		}
	}
	return true
}
