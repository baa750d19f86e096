package yamlh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := &Error{
		Kind:        PARSER_ERROR,
		Problem:     "did not find expected key",
		ProblemMark: Mark{Line: 2, Column: 3, Index: 10},
	}
	require.Equal(t, "yaml: line 2: did not find expected key", err.Error())

	err.Context = "while parsing a block mapping"
	require.Equal(t, "yaml: line 2: did not find expected key (while parsing a block mapping)", err.Error())
}

func TestErrorFormattingNudgesScannerErrorLine(t *testing.T) {
	err := &Error{Kind: SCANNER_ERROR, Problem: "found a tab", ProblemMark: Mark{Line: 4}}
	require.Equal(t, "yaml: line 5: found a tab", err.Error())
}

func TestErrorFormattingWithoutLine(t *testing.T) {
	err := &Error{Kind: READER_ERROR, Problem: "invalid leading UTF-8 octet"}
	require.Equal(t, "yaml: invalid leading UTF-8 octet", err.Error())
}

func TestEventTypeString(t *testing.T) {
	require.Equal(t, "scalar", SCALAR_EVENT.String())
	require.Equal(t, "mapping end", MAPPING_END_EVENT.String())
}

func TestErrorTypeString(t *testing.T) {
	require.Equal(t, "scanner error", SCANNER_ERROR.String())
	require.Equal(t, "no error", NO_ERROR.String())
}
