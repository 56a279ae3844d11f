// jsonobj_test.go -- tests for strict JSON object parsing
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

package jsonobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	o, err := Parse([]byte(` {"x": 1, "y": [1, 2], "extra": {"X": 3}} `), "x", "y")
	require.NoError(t, err)
	assert.Len(t, o, 3)
	assert.JSONEq(t, `[1, 2]`, string(o["y"]))
	assert.NoError(t, o.Require("x", "y"))
	assert.ErrorIs(t, o.Require("x", "z"), ErrMissingKey)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{`[1, 2]`, ErrNotObject},
		{`"x"`, ErrNotObject},
		{`{"x": 1`, ErrNotObject},
		{`{"x": 1} {}`, ErrNotObject},
		{`{"x": 1, "x": 2}`, ErrDuplicateKey},
		{`{"x": 1, "X": 9}`, ErrKeyCase},
		{`{"HMAC": "AA=="}`, ErrKeyCase},
	}

	for _, tc := range tests {
		_, err := Parse([]byte(tc.in), "x", "hmac")
		assert.ErrorIs(t, err, tc.want, "input %s", tc.in)
	}
}
