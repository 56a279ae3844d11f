// keys.go -- X25519 keys management
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

// This file implements:
//   - key generation, and key I/O
//   - conversion to and from the on-disk key formats

package x25f

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/opencoff/x25f/internal/secmem"
)

// constants we use in this module
const (
	// Size of raw X25519 public and private keys
	KeySize = curve25519.ScalarSize

	// Length of the hex fingerprint
	_FpSize = 16

	// PEM Block header
	_X25f_SK = "X25F PRIVATE KEY"
	_X25f_PK = "X25F PUBLIC KEY"
)

// PrivateKey is an X25519 secret scalar. The raw bytes are held in a
// wipeable buffer; call Wipe() when the key is no longer needed.
type PrivateKey struct {
	sk *secmem.Buffer

	// User provided comment string
	Comment string

	// Cached copy of the public key
	pk *PublicKey
}

// PublicKey is an X25519 point
type PublicKey struct {
	pk []byte

	// User provided comment string
	Comment string

	// fingerprint
	fp string
}

// Fingerprint returns the first 16 hex digits of the SHA-256 of the
// raw public key. It's an identifier for display, not a binding.
func Fingerprint(pk []byte) string {
	z := sha256.Sum256(pk)
	return hex.EncodeToString(z[:])[:_FpSize]
}

// GenerateKeyPair generates a new X25519 private key and its public
// key.
func GenerateKeyPair(comment string) (*PrivateKey, error) {
	skb, pkb := newKeyPair()

	sk := &PrivateKey{
		sk:      secmem.Take(skb),
		Comment: comment,
		pk: &PublicKey{
			pk:      pkb,
			Comment: comment,
			fp:      Fingerprint(pkb),
		},
	}

	logger().Debug().Str("fp", sk.pk.fp).Msg("generated key pair")
	return sk, nil
}

// PrivateKeyFromBytes makes a private key from 32 raw bytes. The
// caller retains ownership of b.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("private key: %w: length %d", ErrBadKey, len(b))
	}

	pkb, err := curve25519.X25519(b, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("private key: %w: %s", ErrBadKey, err)
	}

	sk := &PrivateKey{
		sk: secmem.Copy(b),
		pk: &PublicKey{
			pk: pkb,
			fp: Fingerprint(pkb),
		},
	}
	return sk, nil
}

// PublicKeyFromBytes makes a public key from 32 raw bytes.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("public key: %w: length %d", ErrBadKey, len(b))
	}

	pk := &PublicKey{
		pk: bytes.Clone(b),
		fp: Fingerprint(b),
	}
	return pk, nil
}

// ParsePrivateKey makes a new private key from a previously serialized
// byte stream. It understands the native PEM format, a password
// protected key blob, an OpenSSH ed25519 private key and raw 32 byte
// keys. 'getpw' is only called when the key is password protected.
func ParsePrivateKey(b []byte, getpw func() ([]byte, error)) (*PrivateKey, error) {
	t := bytes.TrimSpace(b)
	switch {
	case len(b) == KeySize:
		return PrivateKeyFromBytes(b)

	case len(t) > 0 && t[0] == '{':
		pw, err := callpw(getpw)
		if err != nil {
			return nil, fmt.Errorf("private key: %w", err)
		}
		defer secmem.Wipe(pw)
		return UnprotectPrivateKey(t, pw)
	}

	blk, _ := pem.Decode(b)
	if blk == nil {
		return nil, fmt.Errorf("private key: %w", ErrNoPEMFound)
	}
	defer secmem.Wipe(blk.Bytes)

	switch blk.Type {
	case _X25f_SK:
		sk, err := PrivateKeyFromBytes(blk.Bytes)
		if err != nil {
			return nil, err
		}
		sk.setComment(blk.Headers["comment"])
		return sk, nil

	case "OPENSSH PRIVATE KEY":
		return parseSSHPrivateKey(blk, getpw)
	}

	return nil, fmt.Errorf("private key: %w: unknown PEM type %q", ErrBadKey, blk.Type)
}

// ParsePublicKey makes a new public key from a previously serialized
// byte stream: native PEM, an OpenSSH ed25519 public key line or 32
// raw bytes.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) == KeySize {
		return PublicKeyFromBytes(b)
	}

	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("ssh-")) {
		return parseSSHPublicKey(b)
	}

	blk, _ := pem.Decode(b)
	if blk == nil {
		return nil, fmt.Errorf("public key: %w", ErrNoPEMFound)
	}

	if blk.Type != _X25f_PK {
		return nil, fmt.Errorf("public key: %w: unknown PEM type %q", ErrBadKey, blk.Type)
	}

	pk, err := PublicKeyFromBytes(blk.Bytes)
	if err != nil {
		return nil, err
	}
	pk.Comment = blk.Headers["comment"]
	return pk, nil
}

// ReadPrivateKey reads and parses a private key file.
func ReadPrivateKey(fn string, getpw func() ([]byte, error)) (*PrivateKey, error) {
	b, err := ReadFile(fn)
	if err != nil {
		return nil, err
	}
	defer secmem.Wipe(b)

	sk, err := ParsePrivateKey(b, getpw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return sk, nil
}

// ReadPublicKey reads and parses a public key file.
func ReadPublicKey(fn string) (*PublicKey, error) {
	b, err := ReadFile(fn)
	if err != nil {
		return nil, err
	}

	pk, err := ParsePublicKey(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return pk, nil
}

// -- private key methods --

// PublicKey returns the public key corresponding to this private key
func (sk *PrivateKey) PublicKey() *PublicKey {
	return sk.pk
}

// Fingerprint returns the fingerprint of the public key
func (sk *PrivateKey) Fingerprint() string {
	return sk.pk.fp
}

// Equal returns true if the two PrivateKeys are equal and false
// otherwise. A wiped key equals nothing.
func (sk *PrivateKey) Equal(other *PrivateKey) bool {
	a, b := sk.sk.Bytes(), other.sk.Bytes()
	if a == nil || b == nil {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Wipe zeroes the private key; the key is unusable afterwards.
func (sk *PrivateKey) Wipe() {
	sk.sk.Destroy()
}

// Marshal encodes the private key as an unprotected PEM block.
func (sk *PrivateKey) Marshal() ([]byte, error) {
	skb := sk.sk.Bytes()
	if skb == nil {
		return nil, fmt.Errorf("private key %s: %w: wiped", sk.Comment, ErrBadKey)
	}

	blk := &pem.Block{
		Type: _X25f_SK,
		Headers: map[string]string{
			"comment":     sk.Comment,
			"fingerprint": sk.pk.fp,
		},
		Bytes: skb,
	}

	return pem.EncodeToMemory(blk), nil
}

// WriteFile writes the private key to fn: as a protected blob when pw
// is non-empty and as an unprotected PEM block otherwise.
func (sk *PrivateKey) WriteFile(fn string, pw []byte, kp *KeyProtector, ovwrite bool) error {
	var b []byte
	var err error

	if len(pw) > 0 {
		if kp == nil {
			kp = DefaultKeyProtector()
		}
		b, err = kp.Protect(sk, pw)
	} else {
		b, err = sk.Marshal()
	}
	if err != nil {
		return err
	}
	defer secmem.Wipe(b)

	return WriteFile(fn, b, ovwrite, 0600)
}

func (sk *PrivateKey) setComment(c string) {
	sk.Comment = c
	sk.pk.Comment = c
}

// -- public key methods --

// Bytes returns a copy of the raw public key
func (pk *PublicKey) Bytes() []byte {
	return bytes.Clone(pk.pk)
}

// Fingerprint returns the fingerprint of this public key
func (pk *PublicKey) Fingerprint() string {
	return pk.fp
}

// Equal returns true if the two PublicKeys are equal and false otherwise
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return subtle.ConstantTimeCompare(pk.pk, other.pk) == 1
}

// Marshal encodes the public key as a PEM block
func (pk *PublicKey) Marshal() ([]byte, error) {
	blk := &pem.Block{
		Type: _X25f_PK,
		Headers: map[string]string{
			"comment":     pk.Comment,
			"fingerprint": pk.fp,
		},
		Bytes: pk.pk,
	}

	return pem.EncodeToMemory(blk), nil
}

// WriteFile writes the public key in PEM form to fn.
func (pk *PublicKey) WriteFile(fn string, ovwrite bool) error {
	b, err := pk.Marshal()
	if err != nil {
		return err
	}
	return WriteFile(fn, b, ovwrite, 0644)
}

// -- Internal Utility Functions --

func callpw(getpw func() ([]byte, error)) ([]byte, error) {
	if getpw == nil {
		return nil, fmt.Errorf("%w: key is password protected", ErrAuthentication)
	}
	return getpw()
}

// vim: noexpandtab:ts=8:sw=8:tw=92:
