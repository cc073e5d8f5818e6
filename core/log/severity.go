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
	"fmt"
	"strings"
	"time"
)

// Severity defines the severity of a logging message.
type Severity int32

// The values must be kept in sync with the style table in handler.go.
const (
	// Verbose indicates extremely verbose level messages.
	Verbose Severity = iota
	// Debug indicates debug-level messages.
	Debug
	// Info indicates minor informational messages that should generally be ignored.
	Info
	// Warning indicates issues that might affect performance or compatibility, but could be ignored.
	Warning
	// Error indicates non terminal failure conditions that may have an effect on results.
	Error
	// Fatal indicates a fatal error.
	Fatal
)

var severityNames = [...]string{"V", "D", "I", "W", "E", "F"}

// Short returns the single character name of the severity.
func (s Severity) Short() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "?"
	}
	return severityNames[s]
}

func (s Severity) String() string {
	switch s {
	case Verbose:
		return "Verbose"
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity<%d>", int32(s))
	}
}

// Message is a single log entry.
type Message struct {
	Text     string
	Time     time.Time
	Severity Severity
	Trace    []string
	Values   Values
}

// Value is a named value attached to a message.
type Value struct {
	Name  string
	Value interface{}
}

// Values is a sortable list of Value.
type Values []*Value

func (v Values) Len() int           { return len(v) }
func (v Values) Less(i, j int) bool { return v[i].Name < v[j].Name }
func (v Values) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }

// Format returns the message as a single line: severity, trace, text, values.
func (m *Message) Format() string {
	sb := strings.Builder{}
	sb.WriteString(m.Severity.Short())
	sb.WriteString(": ")
	for i := len(m.Trace) - 1; i >= 0; i-- {
		sb.WriteString(m.Trace[i])
		sb.WriteString(" -> ")
	}
	sb.WriteString(m.Text)
	for _, v := range m.Values {
		fmt.Fprintf(&sb, " %s=%v", v.Name, v.Value)
	}
	return sb.String()
}
