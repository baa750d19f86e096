//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yaml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/darkedge/mj-yaml"
	"github.com/darkedge/mj-yaml/internal/yamlh"
)

// drain pulls every event out of a document, asserting no error, and
// stops right after STREAM_END_EVENT.
func drain(t *testing.T, data string) []yaml.Event {
	t.Helper()
	dec := yaml.NewDecoder(strings.NewReader(data))
	var events []yaml.Event
	for {
		ev, err := dec.Event()
		require.NoError(t, err)
		events = append(events, ev)
		if ev.Type == yamlh.STREAM_END_EVENT {
			return events
		}
	}
}

func eventTypes(events []yaml.Event) []yamlh.EventType {
	out := make([]yamlh.EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestEndToEndExplicitDocumentBlockMapping(t *testing.T) {
	events := drain(t, "---\nkey: value\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.MAPPING_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.MAPPING_END_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))

	require.False(t, events[1].Implicit) // explicit document start
	require.Equal(t, yamlh.YamlStyle(yamlh.BLOCK_MAPPING_STYLE), events[2].Style)
	require.Equal(t, "key", string(events[3].Value))
	require.Equal(t, "value", string(events[4].Value))
	require.True(t, events[6].Implicit) // implicit document end
}

func TestEndToEndFlowSequence(t *testing.T) {
	events := drain(t, "[a, b, c]\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SEQUENCE_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SEQUENCE_END_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))

	require.True(t, events[1].Implicit)
	require.Equal(t, yamlh.YamlStyle(yamlh.FLOW_SEQUENCE_STYLE), events[2].Style)
	require.Equal(t, []string{"a", "b", "c"}, []string{
		string(events[3].Value), string(events[4].Value), string(events[5].Value),
	})
}

func TestEndToEndBlockSequence(t *testing.T) {
	events := drain(t, "- 1\n- 2\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SEQUENCE_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.SEQUENCE_END_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, yamlh.YamlStyle(yamlh.BLOCK_SEQUENCE_STYLE), events[2].Style)
}

func TestEndToEndDoubleQuotedLineFold(t *testing.T) {
	events := drain(t, "\"a\nb\"\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, "a b", string(events[2].Value))
	require.Equal(t, yamlh.YamlStyle(yamlh.DOUBLE_QUOTED_SCALAR_STYLE), events[2].Style)
}

func TestEndToEndLiteralClipChomping(t *testing.T) {
	events := drain(t, "|\n  one\n  two\n")
	require.Equal(t, "one\ntwo\n", string(events[2].Value))
	require.Equal(t, yamlh.YamlStyle(yamlh.LITERAL_SCALAR_STYLE), events[2].Style)
}

func TestEndToEndVersionDirectiveAndAnchor(t *testing.T) {
	events := drain(t, "%YAML 1.1\n---\n&a foo\n")
	require.Equal(t, []yamlh.EventType{
		yamlh.STREAM_START_EVENT,
		yamlh.DOCUMENT_START_EVENT,
		yamlh.SCALAR_EVENT,
		yamlh.DOCUMENT_END_EVENT,
		yamlh.STREAM_END_EVENT,
	}, eventTypes(events))

	require.False(t, events[1].Implicit)
	require.NotNil(t, events[1].Version_directive)
	require.EqualValues(t, 1, events[1].Version_directive.Major)
	require.EqualValues(t, 1, events[1].Version_directive.Minor)

	require.Equal(t, "foo", string(events[2].Value))
	require.Equal(t, "a", string(events[2].Anchor))
}

func TestBracketsAreStrictlyBalanced(t *testing.T) {
	events := drain(t, "a:\n  b:\n    - 1\n    - {c: d}\n  e: f\n")
	var depth int
	for _, ev := range events {
		switch ev.Type {
		case yamlh.DOCUMENT_START_EVENT, yamlh.SEQUENCE_START_EVENT, yamlh.MAPPING_START_EVENT:
			depth++
		case yamlh.DOCUMENT_END_EVENT, yamlh.SEQUENCE_END_EVENT, yamlh.MAPPING_END_EVENT:
			depth--
			require.GreaterOrEqual(t, depth, 0)
		}
	}
	require.Equal(t, 0, depth)
}

func TestMarksAreMonotonic(t *testing.T) {
	events := drain(t, "a: b\nc:\n  - d\n  - e\n")
	var lastIndex int
	for _, ev := range events {
		require.GreaterOrEqual(t, ev.Start_mark.Index, lastIndex)
		require.GreaterOrEqual(t, ev.End_mark.Index, ev.Start_mark.Index)
		lastIndex = ev.Start_mark.Index
	}
}

func TestUnterminatedQuotedScalarReportsContext(t *testing.T) {
	dec := yaml.NewDecoder(strings.NewReader("a: \"unterminated\n"))
	var lastErr error
	for {
		_, err := dec.Event()
		if err != nil {
			lastErr = err
			break
		}
	}
	require.Error(t, lastErr)
	var yerr *yaml.Error
	require.ErrorAs(t, lastErr, &yerr)
	require.Equal(t, yamlh.SCANNER_ERROR, yerr.Kind)
	require.Equal(t, "while scanning a quoted scalar", yerr.Context)
}

func TestStickyErrorReturnsStreamEndAfterFailure(t *testing.T) {
	dec := yaml.NewDecoder(strings.NewReader("a: \"unterminated\n"))
	var failed bool
	for i := 0; i < 10; i++ {
		ev, err := dec.Event()
		if err != nil {
			failed = true
			continue
		}
		if failed {
			require.Equal(t, yamlh.STREAM_END_EVENT, ev.Type)
		}
	}
	require.True(t, failed)
}

func TestSetBufferPoolBuffersAreReclaimedOnCompletion(t *testing.T) {
	var puts int
	pool := yaml.BufferPool{
		Get: func(size int) []byte { return make([]byte, 0, size) },
		Put: func(buf []byte) { puts++ },
	}

	dec := yaml.NewDecoder(strings.NewReader("a: b\n"))
	dec.SetBufferPool(pool)
	puts = 0 // SetBufferPool itself reclaims the Decoder's starting buffers

	for {
		ev, err := dec.Event()
		require.NoError(t, err)
		if ev.Type == yamlh.STREAM_END_EVENT {
			break
		}
	}

	require.Equal(t, 2, puts)
}

func TestCloseReclaimsBuffersOfAbandonedDecoder(t *testing.T) {
	var puts int
	pool := yaml.BufferPool{
		Get: func(size int) []byte { return make([]byte, 0, size) },
		Put: func(buf []byte) { puts++ },
	}

	dec := yaml.NewDecoder(strings.NewReader("a: b\nc: d\n"))
	dec.SetBufferPool(pool)
	puts = 0

	_, err := dec.Event() // read just STREAM_START_EVENT, then abandon
	require.NoError(t, err)

	dec.Close()
	require.Equal(t, 2, puts)
}

func TestEventIsIdempotentAfterCleanStreamEnd(t *testing.T) {
	dec := yaml.NewDecoder(strings.NewReader("a: b\n"))
	var last yaml.Event
	for {
		ev, err := dec.Event()
		require.NoError(t, err)
		last = ev
		if ev.Type == yamlh.STREAM_END_EVENT {
			break
		}
	}
	require.Equal(t, yamlh.STREAM_END_EVENT, last.Type)

	for i := 0; i < 3; i++ {
		ev, err := dec.Event()
		require.NoError(t, err)
		require.Equal(t, yamlh.STREAM_END_EVENT, ev.Type)
	}
}

func TestTabIndentationAfterBlockEntryIsRejected(t *testing.T) {
	dec := yaml.NewDecoder(strings.NewReader("key:\n-\tvalue\n"))
	var err error
	for err == nil {
		_, err = dec.Event()
	}
	require.Error(t, err) // tab right after '-'

	dec = yaml.NewDecoder(strings.NewReader("key:\n\t- value\n"))
	err = nil
	for err == nil {
		_, err = dec.Event()
	}
	require.Error(t, err) // tab at the start of the line, before '-'
}

func TestDuplicateTagDirective(t *testing.T) {
	_, err := decodeAll(t, "%TAG !! tag:example.com,2000:app/\n%TAG !! tag:example.com,2000:app/\n---\n!!str foo\n")
	require.Error(t, err) // two explicit directives for the same handle always conflict

	_, err = decodeAll(t, "%TAG !! tag:example.com,2000:app/\n---\n!!str foo\n")
	require.NoError(t, err) // one explicit directive merged against the implicit defaults, allowed
}

func TestUTF8CompleteMultibyteCharacterAtEOFIsAccepted(t *testing.T) {
	// "é" (U+00E9) encodes as the complete two-byte sequence 0xC3 0xA9,
	// ending exactly at the last byte of the input.
	events, err := decodeAll(t, "a: caf\xc3\xa9")
	require.NoError(t, err)
	var scalars []string
	for _, ev := range events {
		if ev.Type == yamlh.SCALAR_EVENT {
			scalars = append(scalars, string(ev.Value))
		}
	}
	require.Equal(t, []string{"a", "caf\xc3\xa9"}, scalars)
}

func TestUTF8TruncatedMultibyteCharacterIsReaderError(t *testing.T) {
	// 0xc3 alone starts a two-byte sequence that is never completed.
	_, err := decodeAll(t, "a: caf\xc3")
	require.Error(t, err)
	var yerr *yaml.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.READER_ERROR, yerr.Kind)
	require.Equal(t, "incomplete UTF-8 octet sequence", yerr.Problem)
}

func TestFlowNestingPastMaxDepthIsMemoryError(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10001; i++ {
		b.WriteByte('[')
	}
	_, err := decodeAll(t, b.String())
	require.Error(t, err)
	var yerr *yaml.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yamlh.MEMORY_ERROR, yerr.Kind)
}

func decodeAll(t *testing.T, data string) ([]yaml.Event, error) {
	t.Helper()
	dec := yaml.NewDecoder(strings.NewReader(data))
	var events []yaml.Event
	for {
		ev, err := dec.Event()
		if err != nil {
			return events, err
		}
		events = append(events, ev)
		if ev.Type == yamlh.STREAM_END_EVENT {
			return events, nil
		}
	}
}
