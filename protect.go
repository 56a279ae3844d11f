// protect.go -- password protection of private keys at rest
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
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/scrypt"

	"github.com/opencoff/x25f/internal/jsonobj"
	"github.com/opencoff/x25f/internal/secmem"
)

const (
	// Default scrypt parameters
	ScryptN = 1 << 14
	ScryptR = 8
	ScryptP = 1

	// Upper bound on N accepted from a blob
	MaxScryptN = 1 << 20

	_KdfName       = "scrypt"
	_ScryptKeyLen  = 32
	_BlobSaltSize  = 16
	_BlobNonceSize = 12
)

// KeyProtector wraps private keys with a password using scrypt and
// AES-256-GCM.
type KeyProtector struct {
	// scrypt CPU cost; must be a power of 2
	N int

	// r * p must be less than 2^30
	R int
	P int
}

// DefaultKeyProtector returns a protector with the default scrypt
// parameters.
func DefaultKeyProtector() *KeyProtector {
	return &KeyProtector{
		N: ScryptN,
		R: ScryptR,
		P: ScryptP,
	}
}

// wire form of a protected key; keys in sorted order
type keyBlob struct {
	Ciphertext []byte     `json:"ciphertext"`
	Comment    string     `json:"comment,omitempty"`
	Kdf        string     `json:"kdf"`
	KdfParams  *kdfParams `json:"kdf_params"`
	KemAlgo    string     `json:"kem_algo"`
	Nonce      []byte     `json:"nonce"`
	Salt       []byte     `json:"salt"`
	Version    int        `json:"version"`
}

type kdfParams struct {
	Length int `json:"length"`
	N      int `json:"n"`
	P      int `json:"p"`
	R      int `json:"r"`
}

var blobFields = []string{"version", "kdf", "kdf_params", "salt", "nonce", "ciphertext", "kem_algo"}
var paramFields = []string{"n", "r", "p", "length"}

// Protect encrypts the private key with a key derived from 'pw' and
// returns the JSON blob.
func (kp *KeyProtector) Protect(sk *PrivateKey, pw []byte) ([]byte, error) {
	skb := sk.sk.Bytes()
	if skb == nil {
		return nil, fmt.Errorf("protect: %w: private key wiped", ErrBadKey)
	}

	kdf := &kdfParams{
		Length: _ScryptKeyLen,
		N:      kp.N,
		R:      kp.R,
		P:      kp.P,
	}
	if err := kdf.validate(); err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}

	salt := randBuf(_BlobSaltSize)
	key, err := kdf.key(pw, salt)
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}
	defer key.Destroy()

	ae, err := newBlobAEAD(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}

	nonce := randBuf(_BlobNonceSize)
	blob := &keyBlob{
		Ciphertext: ae.Seal(nil, nonce, skb, nil),
		Comment:    sk.Comment,
		Kdf:        _KdfName,
		KdfParams:  kdf,
		KemAlgo:    KEMAlgo,
		Nonce:      nonce,
		Salt:       salt,
		Version:    Version,
	}

	b, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}

	logger().Debug().Str("fp", sk.pk.fp).Int("n", kp.N).Msg("protected private key")
	return b, nil
}

// ProtectPrivateKey protects 'sk' with the default scrypt parameters.
func ProtectPrivateKey(sk *PrivateKey, pw []byte) ([]byte, error) {
	return DefaultKeyProtector().Protect(sk, pw)
}

// UnprotectPrivateKey decrypts a blob made by Protect. A wrong password
// is reported as ErrWrongPassword (ErrAuthentication); a damaged blob
// as ErrFormat.
func UnprotectPrivateKey(b []byte, pw []byte) (*PrivateKey, error) {
	blob, err := parseBlob(b)
	if err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}

	key, err := blob.KdfParams.key(pw, blob.Salt)
	if err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}
	defer key.Destroy()

	ae, err := newBlobAEAD(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}

	skb, err := ae.Open(nil, blob.Nonce, blob.Ciphertext, nil)
	if err != nil {
		logger().Warn().Msg("unprotect: wrong password")
		return nil, fmt.Errorf("unprotect: %w", ErrWrongPassword)
	}
	defer secmem.Wipe(skb)

	sk, err := PrivateKeyFromBytes(skb)
	if err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}
	sk.setComment(blob.Comment)
	return sk, nil
}

func parseBlob(b []byte) (*keyBlob, error) {
	keys, err := jsonobj.Parse(b, append(blobFields, "comment")...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadBlob, err)
	}
	if err := keys.Require(blobFields...); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadBlob, err)
	}

	pkeys, err := jsonobj.Parse(keys["kdf_params"], paramFields...)
	if err != nil {
		return nil, fmt.Errorf("%w: kdf_params: %s", ErrBadBlob, err)
	}
	if err := pkeys.Require(paramFields...); err != nil {
		return nil, fmt.Errorf("%w: kdf_params: %s", ErrBadBlob, err)
	}

	var blob keyBlob
	if err := json.Unmarshal(b, &blob); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadBlob, err)
	}

	switch {
	case blob.Version != Version:
		return nil, fmt.Errorf("%w: blob version %d", ErrUnsupported, blob.Version)
	case blob.Kdf != _KdfName:
		return nil, fmt.Errorf("%w: kdf %q", ErrUnsupported, blob.Kdf)
	case blob.KemAlgo != KEMAlgo:
		return nil, fmt.Errorf("%w: kem %q", ErrUnsupported, blob.KemAlgo)
	case blob.KdfParams == nil:
		return nil, fmt.Errorf("%w: no kdf params", ErrBadBlob)
	case len(blob.Salt) == 0:
		return nil, fmt.Errorf("%w: empty salt", ErrBadBlob)
	case len(blob.Nonce) != _BlobNonceSize:
		return nil, fmt.Errorf("%w: nonce length %d", ErrBadBlob, len(blob.Nonce))
	case len(blob.Ciphertext) != KeySize+16:
		return nil, fmt.Errorf("%w: ciphertext length %d", ErrBadBlob, len(blob.Ciphertext))
	}

	if err := blob.KdfParams.validate(); err != nil {
		return nil, err
	}
	return &blob, nil
}

// bound the parameters before handing them to scrypt
func (p *kdfParams) validate() error {
	switch {
	case p.N < 2 || p.N > MaxScryptN || p.N&(p.N-1) != 0:
		return fmt.Errorf("%w: scrypt N=%d", ErrBadKDFParams, p.N)
	case p.R < 1 || p.P < 1 || uint64(p.R)*uint64(p.P) >= 1<<30:
		return fmt.Errorf("%w: scrypt r=%d p=%d", ErrBadKDFParams, p.R, p.P)
	case p.Length != _ScryptKeyLen:
		return fmt.Errorf("%w: key length %d", ErrBadKDFParams, p.Length)
	}
	return nil
}

func (p *kdfParams) key(pw, salt []byte) (*secmem.Buffer, error) {
	k, err := scrypt.Key(pw, salt, p.N, p.R, p.P, p.Length)
	if err != nil {
		return nil, fmt.Errorf("%w: scrypt: %s", ErrBadKDFParams, err)
	}
	return secmem.Take(k), nil
}

func newBlobAEAD(key []byte) (cipher.AEAD, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blk)
}
