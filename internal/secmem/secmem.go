// secmem.go -- scoped buffers for secret bytes
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

// Package secmem holds secret key material in buffers that are
// explicitly wiped by their owner. The idiom is:
//
//	b := secmem.Take(secret)
//	defer b.Destroy()
//
// Every exit path then zeroes the bytes. Destroy is idempotent and
// safe on a nil *Buffer.
package secmem

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer is an owned slice of secret bytes.
type Buffer struct {
	mu   sync.Mutex
	b    []byte
	dead bool
}

// New returns a zero filled buffer of n bytes.
func New(n int) *Buffer {
	return &Buffer{b: make([]byte, n)}
}

// Copy makes a private copy of 'b'; the caller still owns 'b'.
func Copy(b []byte) *Buffer {
	x := make([]byte, len(b))
	copy(x, b)
	return &Buffer{b: x}
}

// Take moves 'b' into a new Buffer. A copy is made and 'b' is
// wiped; the caller must not use 'b' afterwards.
func Take(b []byte) *Buffer {
	x := Copy(b)
	memguard.WipeBytes(b)
	return x
}

// Bytes returns the underlying secret. The slice aliases the buffer
// and is zeroed by Destroy; do not retain it beyond the buffer's
// lifetime. A destroyed buffer returns nil.
func (s *Buffer) Bytes() []byte {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dead {
		return nil
	}
	return s.b
}

// Len returns the length of the secret; zero after Destroy.
func (s *Buffer) Len() int {
	return len(s.Bytes())
}

// Clone returns an independent copy of the buffer.
func (s *Buffer) Clone() *Buffer {
	return Copy(s.Bytes())
}

// Alive returns true until Destroy is called.
func (s *Buffer) Alive() bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.dead
}

// Destroy zeroes the secret and marks the buffer dead.
func (s *Buffer) Destroy() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dead {
		return
	}

	memguard.WipeBytes(s.b)
	s.b = nil
	s.dead = true
}

// Wipe zeroes each of the given slices in place. It is for
// transient secrets that never made it into a Buffer.
func Wipe(v ...[]byte) {
	for _, b := range v {
		memguard.WipeBytes(b)
	}
}

// Destroy destroys every buffer in 'v'; nil entries are skipped.
func Destroy(v ...*Buffer) {
	for _, b := range v {
		b.Destroy()
	}
}
