// ssh.go - support for reading ssh private and public keys
//
// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file is a bastardization of github.com/ScaleFT/sshkeys and
// golang.org/x/crypto/ssh/keys.go
//
// It is licensed under the terms of the original go source code
// OR the Apache 2.0 license (terms of sshkeys).
//
// Changes from that version:
//   - don't use password but call a func() to get the password as needed
//   - narrowly scope the key support for ONLY ed25519 keys
//   - convert the ed25519 keys to their X25519 equivalents
//   - support reading multiple public keys from authorized_keys

package x25f

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"

	"github.com/dchest/bcrypt_pbkdf"
	"golang.org/x/crypto/ssh"

	"github.com/opencoff/x25f/internal/secmem"
)

const keySizeAES256 = 32

func parseSSHPrivateKey(block *pem.Block, getpw func() ([]byte, error)) (*PrivateKey, error) {
	if _, ok := block.Headers["DEK-Info"]; ok {
		return nil, fmt.Errorf("ssh: %w: no support for legacy PEM encrypted keys", ErrBadSSHFormat)
	}

	return parseOpenSSHPrivateKey(block.Bytes, getpw)
}

// parse a single "ssh-ed25519 AAAA... comment" line
func parseSSHPublicKey(in []byte) (*PublicKey, error) {
	pka, err := ParseAuthorizedKeys(in)
	if err != nil {
		return nil, err
	}

	if len(pka) == 0 {
		return nil, ErrBadPublicKey
	}
	return pka[0], nil
}

// ParseAuthorizedKeys parses an OpenSSH authorized_keys file and returns
// the X25519 equivalent of every ed25519 key in it. Comments, options
// and keys of other types are skipped.
func ParseAuthorizedKeys(in []byte) ([]*PublicKey, error) {
	var pka []*PublicKey

	for len(bytes.TrimSpace(in)) > 0 {
		key, comment, _, rest, err := ssh.ParseAuthorizedKey(in)
		if err != nil {
			// no more keys
			break
		}
		in = rest

		if key.Type() != ssh.KeyAlgoED25519 {
			continue
		}

		ck, ok := key.(ssh.CryptoPublicKey)
		if !ok {
			continue
		}

		edpk, ok := ck.CryptoPublicKey().(ed25519.PublicKey)
		if !ok {
			continue
		}

		pk, err := edPublicToX25519(edpk)
		if err != nil {
			return nil, err
		}

		pk.Comment = strings.TrimSpace(comment)
		pka = append(pka, pk)
	}

	return pka, nil
}

const opensshv1Magic = "openssh-key-v1"

type opensshHeader struct {
	CipherName   string
	KdfName      string
	KdfOpts      string
	NumKeys      uint32
	PubKey       string
	PrivKeyBlock string
}

type opensshKey struct {
	Check1  uint32
	Check2  uint32
	Keytype string
	Rest    []byte `ssh:"rest"`
}

type opensshED25519 struct {
	Pub     []byte
	Priv    []byte
	Comment string
	Pad     []byte `ssh:"rest"`
}

func parseOpenSSHPrivateKey(data []byte, getpw func() ([]byte, error)) (*PrivateKey, error) {
	magic := append([]byte(opensshv1Magic), 0)
	if !bytes.HasPrefix(data, magic) {
		return nil, ErrBadSSHFormat
	}
	remaining := data[len(magic):]

	w := opensshHeader{}

	if err := ssh.Unmarshal(remaining, &w); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSSHFormat, err)
	}

	if w.NumKeys != 1 {
		return nil, fmt.Errorf("%w: NumKeys must be 1: %d", ErrBadSSHFormat, w.NumKeys)
	}

	var privateKeyBytes []byte
	var encrypted bool

	switch {
	// OpenSSH supports bcrypt KDF w/ AES256-CBC or AES256-CTR mode
	case w.KdfName == "bcrypt" && w.CipherName == "aes256-cbc":
		iv, block, err := extractBcryptIvBlock(getpw, &w)
		if err != nil {
			return nil, err
		}

		privateKeyBytes = []byte(w.PrivKeyBlock)
		if len(privateKeyBytes)%aes.BlockSize != 0 {
			return nil, ErrBadSSHFormat
		}
		cbc := cipher.NewCBCDecrypter(block, iv)
		cbc.CryptBlocks(privateKeyBytes, privateKeyBytes)

		encrypted = true

	case w.KdfName == "bcrypt" && w.CipherName == "aes256-ctr":
		iv, block, err := extractBcryptIvBlock(getpw, &w)
		if err != nil {
			return nil, err
		}

		stream := cipher.NewCTR(block, iv)
		privateKeyBytes = []byte(w.PrivKeyBlock)
		stream.XORKeyStream(privateKeyBytes, privateKeyBytes)

		encrypted = true

	case w.KdfName == "none" && w.CipherName == "none":
		privateKeyBytes = []byte(w.PrivKeyBlock)

	default:
		return nil, fmt.Errorf("%w: unknown Cipher/KDF: %s:%s", ErrBadSSHFormat, w.CipherName, w.KdfName)
	}
	defer secmem.Wipe(privateKeyBytes)

	pk1 := opensshKey{}

	if err := ssh.Unmarshal(privateKeyBytes, &pk1); err != nil {
		if encrypted {
			return nil, ErrIncorrectSSHPass
		}
		return nil, fmt.Errorf("%w: %s", ErrBadSSHFormat, err)
	}

	if pk1.Check1 != pk1.Check2 {
		return nil, ErrIncorrectSSHPass
	}

	// we only handle ed25519 keys
	if pk1.Keytype != ssh.KeyAlgoED25519 {
		return nil, fmt.Errorf("%w: ssh: unhandled key type: %v", ErrBadKey, pk1.Keytype)
	}

	key := opensshED25519{}

	if err := ssh.Unmarshal(pk1.Rest, &key); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSSHFormat, err)
	}

	if len(key.Priv) != ed25519.PrivateKeySize {
		return nil, ErrBadLength
	}

	for i, b := range key.Pad {
		if int(b) != i+1 {
			return nil, ErrBadPadding
		}
	}

	sk, err := edPrivateToX25519(key.Priv)
	if err != nil {
		return nil, err
	}
	sk.setComment(key.Comment)
	return sk, nil
}

func extractBcryptIvBlock(getpw func() ([]byte, error), w *opensshHeader) ([]byte, cipher.Block, error) {
	cipherKeylen := keySizeAES256
	cipherIvLen := aes.BlockSize

	var opts struct {
		Salt   []byte
		Rounds uint32
	}

	if err := ssh.Unmarshal([]byte(w.KdfOpts), &opts); err != nil {
		return nil, nil, fmt.Errorf("%w: kdf opts: %s", ErrBadSSHFormat, err)
	}

	passphrase, err := callpw(getpw)
	if err != nil {
		return nil, nil, err
	}
	defer secmem.Wipe(passphrase)

	kdfdata, err := bcrypt_pbkdf.Key(passphrase, opts.Salt, int(opts.Rounds), cipherKeylen+cipherIvLen)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bcrypt: %s", ErrBadSSHFormat, err)
	}
	defer secmem.Wipe(kdfdata)

	iv := bytes.Clone(kdfdata[cipherKeylen : cipherIvLen+cipherKeylen])
	aeskey := kdfdata[0:cipherKeylen]
	block, err := aes.NewCipher(aeskey)

	if err != nil {
		return nil, nil, err
	}

	return iv, block, nil
}

// The X25519 scalar of an ed25519 key is the clamped first half of
// SHA-512(seed).
func edPrivateToX25519(edsk []byte) (*PrivateKey, error) {
	var ek [sha512.Size]byte

	h := sha512.New()
	h.Write(edsk[:ed25519.SeedSize])
	h.Sum(ek[:0])
	defer secmem.Wipe(ek[:])

	return PrivateKeyFromBytes(clamp(ek[:KeySize]))
}

// from github.com/FiloSottile/age
var curve25519P, _ = new(big.Int).SetString("57896044618658097711785492504343953926634992332820282019728792003956564819949", 10)

// edPublicToX25519 maps an Ed25519 public key to its Montgomery form.
// This is directly from github.com/FiloSottile/age.
func edPublicToX25519(edpk ed25519.PublicKey) (*PublicKey, error) {
	if len(edpk) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 key length %d", ErrKeyTooShort, len(edpk))
	}

	// ed25519.PublicKey is a little endian representation of the y-coordinate,
	// with the most significant bit set based on the sign of the x-ccordinate.
	bigEndianY := make([]byte, ed25519.PublicKeySize)
	for i, b := range edpk {
		bigEndianY[ed25519.PublicKeySize-i-1] = b
	}
	bigEndianY[0] &= 0b0111_1111

	// The Montgomery u-coordinate is derived through the bilinear map
	//
	//     u = (1 + y) / (1 - y)
	//
	// See https://blog.filippo.io/using-ed25519-keys-for-encryption.
	y := new(big.Int).SetBytes(bigEndianY)
	denom := big.NewInt(1)
	if denom.ModInverse(denom.Sub(denom, y), curve25519P) == nil {
		return nil, ErrBadPublicKey
	}
	u := y.Mul(y.Add(y, big.NewInt(1)), denom)
	u.Mod(u, curve25519P)

	out := make([]byte, KeySize)
	uBytes := u.Bytes()
	n := len(uBytes)
	for i, b := range uBytes {
		out[n-i-1] = b
	}

	return PublicKeyFromBytes(out)
}

func clamp(k []byte) []byte {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
	return k
}
