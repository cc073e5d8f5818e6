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

package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/google/venus/core/log"
	"github.com/google/venus/protocol"
)

type dumpVerb struct {
	out string
}

func init() {
	verb := &dumpVerb{}
	verbs["dump"] = &verbInfo{
		shortHelp: "Print the commands of a recorded command stream",
		action:    verb,
	}
}

func (verb *dumpVerb) bind(flags *flag.FlagSet) {
	flags.StringVar(&verb.out, "out", "", "file to write the listing to (default stdout)")
}

func (verb *dumpVerb) Run(ctx context.Context, flags *flag.FlagSet) error {
	if flags.NArg() != 1 {
		return log.Errf(ctx, nil, "Exactly one command stream file expected, got %d", flags.NArg())
	}

	streamFilename := flags.Arg(0)
	data, err := ioutil.ReadFile(streamFilename)
	if err != nil {
		return log.Errf(ctx, err, "Reading stream (%v)", streamFilename)
	}

	log.I(ctx, "Decoding %d bytes from %s", len(data), streamFilename)
	listing, err := listStream(data)
	if err != nil {
		return log.Errf(ctx, err, "Decoding (%v)", streamFilename)
	}

	file := os.Stdout
	if verb.out != "" {
		file, err = os.Create(verb.out)
		if err != nil {
			return log.Errf(ctx, err, "Creating file (%v)", verb.out)
		}
		defer file.Close()
	}

	bytesWritten, err := fmt.Fprint(file, listing)
	if err != nil {
		return log.Errf(ctx, err, "Error after writing %d bytes to file", bytesWritten)
	}
	return nil
}

// listStream returns one line per command: offset, name and payload size.
func listStream(data []byte) (string, error) {
	sb := strings.Builder{}
	d := protocol.NewDecoder(data)
	offset := 0
	for {
		f, ok, err := d.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return sb.String(), nil
		}
		fmt.Fprintf(&sb, "%08x %-40v %d\n", offset, f.Type, len(f.Payload))
		offset += 8 + len(f.Payload)
	}
}
