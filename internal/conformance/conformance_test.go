// Package conformance cross-checks the event stream produced by the
// decoder against gopkg.in/yaml.v3's Node tree for the same input, the
// same technique the teacher's fuzz package used to cross-check its
// encoder/decoder round trip against an independent implementation.
package conformance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/darkedge/mj-yaml"
	"github.com/darkedge/mj-yaml/internal/yamlh"
)

var documents = []string{
	"a: b\n",
	"{}\n",
	"[]\n",
	"- 1\n- 2\n- 3\n",
	"a: b\nc: d\n",
	"a:\n  b: c\n  d: e\n",
	"seq: [a, b, c]\n",
	"map: {a: b, c: d}\n",
	"plain scalar with spaces\n",
	"'single quoted'\n",
	"\"double quoted\\nwith escape\"\n",
	"literal: |\n  line one\n  line two\n",
	"folded: >\n  line one\n  line two\n",
	"nested:\n  - a\n  - b:\n      c: d\n",
	"anchored: &a value\nreused: *a\n",
	"explicit: !!str 123\n",
	"empty:\n",
	"--- \nkey: value\n",
}

// node is a minimal, tag/type-agnostic tree shape shared by both the
// decoder's event stream and yaml.v3's Node, so the two can be compared
// without resolving tags or inferring scalar types (out of scope here).
type node struct {
	kind     string
	value    string
	children []*node
}

// composeFromEvents drains one document's worth of events into a node
// tree, the same shape a real composer built on this package would
// produce, but stripped down to what's needed for comparison.
func composeFromEvents(t *testing.T, data string) *node {
	t.Helper()
	dec := yaml.NewDecoder(strings.NewReader(data))

	next := func() yaml.Event {
		ev, err := dec.Event()
		require.NoError(t, err)
		return ev
	}

	require.Equal(t, yamlh.STREAM_START_EVENT, next().Type)
	require.Equal(t, yamlh.DOCUMENT_START_EVENT, next().Type)

	root := composeNode(t, dec, next())

	require.Equal(t, yamlh.DOCUMENT_END_EVENT, next().Type)
	require.Equal(t, yamlh.STREAM_END_EVENT, next().Type)
	return root
}

// composeNode builds the node rooted at an already-read event, pulling
// further events from dec for collections until their closing event.
func composeNode(t *testing.T, dec *yaml.Decoder, ev yaml.Event) *node {
	t.Helper()
	switch ev.Type {
	case yamlh.ALIAS_EVENT:
		return &node{kind: "alias", value: string(ev.Anchor)}
	case yamlh.SCALAR_EVENT:
		return &node{kind: "scalar", value: string(ev.Value)}
	case yamlh.SEQUENCE_START_EVENT:
		return &node{kind: "sequence", children: composeChildren(t, dec, yamlh.SEQUENCE_END_EVENT)}
	case yamlh.MAPPING_START_EVENT:
		return &node{kind: "mapping", children: composeChildren(t, dec, yamlh.MAPPING_END_EVENT)}
	}
	t.Fatalf("unexpected event type %v", ev.Type)
	return nil
}

func composeChildren(t *testing.T, dec *yaml.Decoder, end yamlh.EventType) []*node {
	t.Helper()
	var children []*node
	for {
		ev, err := dec.Event()
		require.NoError(t, err)
		if ev.Type == end {
			return children
		}
		children = append(children, composeNode(t, dec, ev))
	}
}

func fromV3(n *yamlv3.Node) *node {
	switch n.Kind {
	case yamlv3.DocumentNode:
		return fromV3(n.Content[0])
	case yamlv3.AliasNode:
		return &node{kind: "alias", value: n.Value}
	case yamlv3.ScalarNode:
		return &node{kind: "scalar", value: n.Value}
	case yamlv3.SequenceNode:
		out := &node{kind: "sequence"}
		for _, c := range n.Content {
			out.children = append(out.children, fromV3(c))
		}
		return out
	case yamlv3.MappingNode:
		out := &node{kind: "mapping"}
		for _, c := range n.Content {
			out.children = append(out.children, fromV3(c))
		}
		return out
	}
	return nil
}

// TestEventStreamMatchesNodeShape checks that the shape and scalar text
// produced by the pull event stream agrees with yaml.v3's independent
// Node-based parser, for inputs with no tag-dependent type resolution.
func TestEventStreamMatchesNodeShape(t *testing.T) {
	for _, doc := range documents {
		doc := doc
		t.Run(doc, func(t *testing.T) {
			got := composeFromEvents(t, doc)

			var v3node yamlv3.Node
			require.NoError(t, yamlv3.Unmarshal([]byte(doc), &v3node))
			want := fromV3(&v3node)

			requireSameShape(t, want, got)
		})
	}
}

func requireSameShape(t *testing.T, want, got *node) {
	t.Helper()
	require.Equal(t, want.kind, got.kind)
	if want.kind == "scalar" {
		require.Equal(t, want.value, got.value)
	}
	require.Len(t, got.children, len(want.children))
	for i := range want.children {
		requireSameShape(t, want.children[i], got.children[i])
	}
}
