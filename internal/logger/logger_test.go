// logger_test.go -- tests for the logger constructor
//
// (c) 2026 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "x25f", "info", FormatJSON)
	require.NoError(t, err)

	l.Info().Str("fp", "0123456789abcdef").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "x25f", entry["role"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "0123456789abcdef", entry["fp"])
	assert.Contains(t, entry, "time")
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "x25f", "warn", FormatJSON)
	require.NoError(t, err)

	l.Debug().Msg("debug")
	l.Info().Msg("info")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("warn")
	assert.Contains(t, buf.String(), `"warn"`)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "x25f", "debug", FormatConsole)
	require.NoError(t, err)

	l.Child("encrypt").Info().Msg("sealed")
	out := buf.String()
	assert.Contains(t, out, "sealed")
	assert.Contains(t, out, "encrypt")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestBadArgs(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "x", "loud", FormatJSON)
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "x", "info", "xml")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Error().Msg("nothing") })
}
