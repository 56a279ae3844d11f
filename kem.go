// kem.go -- X25519 key encapsulation
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
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/opencoff/x25f/internal/secmem"
)

// The KEM is ephemeral-static X25519: the sender's ephemeral public key
// is the KEM ciphertext. Nothing here authenticates either party; a
// forged or mismatched key yields a different shared secret and the
// failure surfaces in the integrity checks after key derivation.

// KEMAlgo identifies the key encapsulation in envelopes and key blobs
const KEMAlgo = "X25519-KEM"

// generate a fresh X25519 keypair
func newKeyPair() (sk, pk []byte) {
	sk = randBuf(KeySize)

	// scalar mult by the base point never fails
	pk, err := curve25519.X25519(sk, curve25519.Basepoint)
	if err != nil {
		panic(fmt.Sprintf("x25519: basepoint mult: %s", err))
	}
	return sk, pk
}

// encapsulate against the recipient's public key and return the KEM
// ciphertext and the shared secret.
func encapsulate(pk []byte) ([]byte, *secmem.Buffer, error) {
	if len(pk) != KeySize {
		return nil, nil, fmt.Errorf("encapsulate: %w: public key length %d", ErrBadKey, len(pk))
	}

	esk, epk := newKeyPair()
	defer secmem.Wipe(esk)

	// a low order point gives an all-zero secret
	ss, err := curve25519.X25519(esk, pk)
	if err != nil {
		return nil, nil, fmt.Errorf("encapsulate: %w: %s", ErrBadKey, err)
	}

	return epk, secmem.Take(ss), nil
}

// decapsulate recovers the shared secret from the KEM ciphertext
func decapsulate(ct []byte, sk *secmem.Buffer) (*secmem.Buffer, error) {
	if len(ct) != KeySize {
		return nil, fmt.Errorf("decapsulate: %w: kem ciphertext length %d", ErrBadMetadata, len(ct))
	}

	skb := sk.Bytes()
	if skb == nil {
		return nil, fmt.Errorf("decapsulate: %w: private key wiped", ErrBadKey)
	}

	ss, err := curve25519.X25519(skb, ct)
	if err != nil {
		return nil, fmt.Errorf("decapsulate: %w", ErrBadSharedSecret)
	}
	return secmem.Take(ss), nil
}
