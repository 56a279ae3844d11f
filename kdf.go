// kdf.go -- shared secret expansion
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
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/opencoff/x25f/internal/secmem"
)

const (
	// KDFAlgo names the shared secret expansion
	KDFAlgo = "HKDF-SHA256"

	// HKDFInfo is the domain separation label of this format version
	HKDFInfo = "x25519-file-encryption:v3"

	_SaltSize   = 16
	_AesKeySize = 32
	_MacKeySize = 32
)

// per-file keys; both are wiped by destroy()
type derivedKeys struct {
	enc *secmem.Buffer
	mac *secmem.Buffer
}

// expand the shared secret 'ss' into an encryption and a MAC key
func deriveKeys(ss, salt, info []byte) (*derivedKeys, error) {
	k := &derivedKeys{
		enc: secmem.New(_AesKeySize),
		mac: secmem.New(_MacKeySize),
	}

	// the two keys are consecutive slices of one HKDF stream
	h := hkdf.New(sha256.New, ss, salt, info)
	for _, b := range []*secmem.Buffer{k.enc, k.mac} {
		if _, err := io.ReadFull(h, b.Bytes()); err != nil {
			k.destroy()
			return nil, fmt.Errorf("hkdf: %w", err)
		}
	}
	return k, nil
}

func (k *derivedKeys) destroy() {
	secmem.Destroy(k.enc, k.mac)
}
