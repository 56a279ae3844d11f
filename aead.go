// aead.go -- AES-256-GCM sealing with an independent HMAC-SHA256 tag
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
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

const (
	// AEADAlgo names the data cipher
	AEADAlgo = "AES-256-GCM"

	_NonceBaseSize = 12

	// nonce_base || be32(chunk index)
	_AEADNonceSize = _NonceBaseSize + 4

	_HmacSize = sha256.Size
)

func newAEAD(key []byte) (cipher.AEAD, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(blk, _AEADNonceSize)
}

// make the AEAD nonce for chunk 'i'
func chunkNonce(base []byte, i uint32) []byte {
	n := make([]byte, 0, _AEADNonceSize)
	n = append(n, base[:_NonceBaseSize]...)
	return enc32(n, i)
}

func hmacSum(key, ct []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(ct)
	return h.Sum(nil)
}

// seal encrypts pt and returns the ciphertext and its HMAC
func seal(k *derivedKeys, nonce, pt []byte) (ct, tag []byte, err error) {
	ae, err := newAEAD(k.enc.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("seal: %w", err)
	}

	ct = ae.Seal(nil, nonce, pt, nil)
	tag = hmacSum(k.mac.Bytes(), ct)
	return ct, tag, nil
}

// open verifies the HMAC of ct before attempting the AEAD open. No
// plaintext is returned unless both checks pass.
func open(k *derivedKeys, nonce, ct, tag []byte) ([]byte, error) {
	want := hmacSum(k.mac.Bytes(), ct)
	if !hmac.Equal(want, tag) {
		return nil, ErrBadHMAC
	}

	ae, err := newAEAD(k.enc.Bytes())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pt, err := ae.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrBadTag
	}
	return pt, nil
}
