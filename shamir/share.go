// share.go -- share wire encoding
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

package shamir

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/opencoff/x25f/internal/jsonobj"
)

// A share on the wire is base64(json) of:
//
//	{"x": 1, "y": 123..., "threshold": 3, "secret_len": 16}
//
// 'y' is a JSON integer when the share has one block and an array
// of integers otherwise.
type wireShare struct {
	X         int             `json:"x"`
	Y         json.RawMessage `json:"y"`
	Threshold int             `json:"threshold"`
	SecretLen int             `json:"secret_len"`
}

var shareFields = []string{"x", "y", "threshold", "secret_len"}

// MarshalJSON implements json.Marshaler
func (s *Share) MarshalJSON() ([]byte, error) {
	var y []byte
	var err error

	if len(s.Y) == 1 {
		y, err = json.Marshal(s.Y[0])
	} else {
		y, err = json.Marshal(s.Y)
	}
	if err != nil {
		return nil, err
	}

	w := wireShare{
		X:         s.X,
		Y:         y,
		Threshold: s.Threshold,
		SecretLen: s.SecretLen,
	}
	return json.Marshal(&w)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Share) UnmarshalJSON(b []byte) error {
	var w wireShare

	keys, err := jsonobj.Parse(b, shareFields...)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadShare, err)
	}
	if err := keys.Require(shareFields...); err != nil {
		return fmt.Errorf("%w: %s", ErrBadShare, err)
	}

	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %s", ErrBadShare, err)
	}

	y := bytes.TrimSpace(w.Y)
	switch {
	case len(y) == 0:
		return fmt.Errorf("%w: missing y", ErrBadShare)
	case bytes.Equal(y, []byte("null")):
		return fmt.Errorf("%w: null y", ErrBadShare)
	}

	var ys []*big.Int
	if y[0] == '[' {
		if err := json.Unmarshal(y, &ys); err != nil {
			return fmt.Errorf("%w: y: %s", ErrBadShare, err)
		}
	} else {
		v := new(big.Int)
		if err := json.Unmarshal(y, v); err != nil {
			return fmt.Errorf("%w: y: %s", ErrBadShare, err)
		}
		ys = []*big.Int{v}
	}

	*s = Share{
		X:         w.X,
		Y:         ys,
		Threshold: w.Threshold,
		SecretLen: w.SecretLen,
	}
	return s.validate()
}

// Encode returns the base64 text encoding of the share.
func (s *Share) Encode() ([]byte, error) {
	j, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("shamir: encode share %d: %w", s.X, err)
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(j)))
	base64.StdEncoding.Encode(out, j)
	return out, nil
}

// DecodeShare parses a share produced by Encode. Surrounding white
// space (e.g. a trailing newline in a share file) is ignored.
func DecodeShare(b []byte) (*Share, error) {
	b = bytes.TrimSpace(b)

	j := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
	n, err := base64.StdEncoding.Decode(j, b)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %s", ErrBadShare, err)
	}

	var s Share
	if err := json.Unmarshal(j[:n], &s); err != nil {
		if errors.Is(err, ErrBadShare) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrBadShare, err)
	}
	return &s, nil
}
