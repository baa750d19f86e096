//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package yaml implements a low-level, pull-based YAML 1.1 event stream
// reader. It exposes the scanner/parser event machine directly instead of
// building a document tree, so callers drive their own composer on top of it.
package yaml

import (
	"io"

	"github.com/darkedge/mj-yaml/internal/parserc"
	"github.com/darkedge/mj-yaml/internal/yamlh"
)

// Event is one item of the pull event stream: STREAM-START, DOCUMENT-START,
// a scalar, a collection boundary, an alias, and so on.
type Event = yamlh.Event

// EventType identifies the kind of Event.
type EventType = yamlh.EventType

// Error carries the kind of failure along with the input positions involved,
// the same information libyaml keeps on its parser struct after a failed
// yaml_parser_parse.
type Error = yamlh.Error

// ErrorType classifies an Error by the layer that raised it.
type ErrorType = yamlh.ErrorType

// BufferPool supplies and reclaims the byte buffers the reader and scanner
// grow while decoding. Get must return a slice with length 0 and capacity of
// at least size. A Decoder returned by NewDecoder uses a sync.Pool-backed
// default.
type BufferPool = parserc.BufferPool

// Decoder pulls a sequence of Events out of a YAML byte stream. It does not
// build a node tree: composing Events into a document, a map, or a custom
// structure is entirely up to the caller.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	parser *parserc.Parser
	failed bool
}

// NewDecoder returns a Decoder that reads YAML from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{parser: parserc.New(r)}
}

// SetBufferPool installs the buffer pool the Decoder uses to grow its
// internal read buffers. It must be called before the first call to Event.
func (d *Decoder) SetBufferPool(pool BufferPool) {
	d.parser.SetPool(pool)
}

// Close returns the Decoder's internal buffers to its BufferPool. Reaching
// STREAM_END_EVENT or an error already triggers this automatically, so
// Close only matters for a Decoder abandoned before either: e.g. a caller
// that only reads the first few events of a larger stream and stops. The
// Decoder must not be used afterward.
func (d *Decoder) Close() {
	d.parser.Release()
}

// Event returns the next event in the stream. Once an error has been
// returned, every subsequent call returns a STREAM_END_EVENT with a nil
// error rather than re-raising the failure.
func (d *Decoder) Event() (Event, error) {
	if d.failed {
		return yamlh.Event{Type: yamlh.STREAM_END_EVENT}, nil
	}
	event, err := parserc.Parse(d.parser)
	if err != nil {
		d.failed = true
		return yamlh.Event{}, err
	}
	return *event, nil
}
