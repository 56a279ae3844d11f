// encdec.go  - handy wrappers for encoding/decoding basic types
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

package x25f

import (
	"encoding/binary"
)

// append the big-endian encoding of n to b
func enc32[T ~int | ~int32 | ~uint32](b []byte, n T) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(n))
}

// decode a big-endian uint32 from the head of b; b must hold 4 bytes
func dec32[T ~int | ~int32 | ~uint | ~uint32 | ~uint64](b []byte) ([]byte, T) {
	n := binary.BigEndian.Uint32(b[:4])
	return b[4:], T(n)
}
