// jsonobj.go -- strict top level key checks for JSON objects
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

// Package jsonobj splits a JSON object into its top level members
// and rejects the key spellings that encoding/json would silently
// fold onto a struct field: repeated keys and case variants of a
// known key.
package jsonobj

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNotObject    = errors.New("jsonobj: not a JSON object")
	ErrDuplicateKey = errors.New("jsonobj: duplicate key")
	ErrKeyCase      = errors.New("jsonobj: key differs from a known key only in case")
	ErrMissingKey   = errors.New("jsonobj: missing key")
)

// Object is the set of top level members of a JSON object
type Object map[string]json.RawMessage

// Parse decodes the object in 'b'. Every key must be unique and a
// key that equals one of 'known' ignoring case must match it
// exactly. Unknown keys are kept.
func Parse(b []byte, known ...string) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	obj := make(Object)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotObject, err)
		}

		// object keys are always strings
		k := tok.(string)

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrNotObject, k, err)
		}

		if _, ok := obj[k]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicateKey, k)
		}
		if err := checkCase(k, known); err != nil {
			return nil, err
		}
		obj[k] = v
	}

	// closing brace and nothing after it
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrNotObject)
	}
	return obj, nil
}

// Require returns an error naming the first of 'keys' missing from o
func (o Object) Require(keys ...string) error {
	for _, k := range keys {
		if _, ok := o[k]; !ok {
			return fmt.Errorf("%w %q", ErrMissingKey, k)
		}
	}
	return nil
}

func checkCase(k string, known []string) error {
	for _, f := range known {
		if k != f && strings.EqualFold(k, f) {
			return fmt.Errorf("%w: %q vs %q", ErrKeyCase, k, f)
		}
	}
	return nil
}
