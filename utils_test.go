// utils_test.go -- Test harness utilities for x25f
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
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"testing"
)

// benchSizes is the shared set of plaintext sizes for all benchmarks.
var benchSizes = []struct {
	name string
	size int
}{
	{"0B", 0},
	{"64B", 64},
	{"4KB", 4 * 1024},
	{"64KB", 64 * 1024},
	{"1MB", 1024 * 1024},
	{"16MB", 16 * 1024 * 1024},
}

// createTempFile creates a temp file of the given size filled with
// random data. It writes in 1MB chunks to avoid huge allocations.
func createTempFile(b *testing.B, size int) string {
	b.Helper()

	dn := b.TempDir()
	fn := fmt.Sprintf("%s/bench-%d.dat", dn, size)

	fd, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		b.Fatalf("create temp file: %s", err)
	}
	defer fd.Close()

	const chunkWrite = 1024 * 1024
	buf := make([]byte, chunkWrite)

	remaining := size
	for remaining > 0 {
		want := min(remaining, chunkWrite)
		randRead(buf[:want])
		n, err := fd.Write(buf[:want])
		if err != nil {
			b.Fatalf("write temp file: %s", err)
		}
		remaining -= n
	}
	fd.Sync()

	return fn
}

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}

		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}

		s := fmt.Sprintf(msg, args...)
		t.Fatalf("%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

// Return true if two byte arrays are equal
func byteEq(x, y []byte) bool {
	return subtle.ConstantTimeCompare(x, y) == 1
}

func unhex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// a password getter for tests
func pwfunc(pw string) func() ([]byte, error) {
	return func() ([]byte, error) {
		return []byte(pw), nil
	}
}

// a cheap protector so the tests don't spend their time in scrypt
func testProtector() *KeyProtector {
	return &KeyProtector{N: 1024, R: 8, P: 1}
}
