// encrypt.go -- X25519 hybrid encrypt/decrypt
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
//

// Implementation Notes for Encryption/Decryption:
//
//   - A fresh ephemeral X25519 key is made for every file; its public
//     half is the KEM ciphertext recorded in the envelope.
//   - The ECDH shared secret is expanded with HKDF-SHA256 (random 16
//     byte salt, fixed versioned info) into a 32 byte AES key and a 32
//     byte HMAC key.
//   - The plaintext is sealed with AES-256-GCM under the nonce
//     nonce_base || be32(0). A key is never used twice, so neither is
//     the (key, nonce) pair.
//   - HMAC-SHA256 of the ciphertext is stored in the metadata and
//     checked before the AEAD open.
//   - The decrypted length must match original_size.
//
// All secrets (ephemeral key, shared secret, derived keys) are wiped
// before returning, on error paths too.

package x25f

import (
	"fmt"
	"os"
	"time"

	"github.com/opencoff/x25f/internal/secmem"
)

// Progress is called synchronously with the number of bytes done:
// once with (0, total) when the work starts and once with
// (total, total) when it completes.
type Progress func(done, total uint64)

func (p Progress) report(done, total uint64) {
	if p != nil {
		p(done, total)
	}
}

// Encrypt seals 'pt' to the public key 'pk' and returns the envelope.
func Encrypt(pt []byte, pk *PublicKey, prog Progress) ([]byte, error) {
	if pk == nil {
		return nil, fmt.Errorf("encrypt: %w: no recipient", ErrBadKey)
	}

	total := uint64(len(pt))
	prog.report(0, total)

	epk, ss, err := encapsulate(pk.pk)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	salt := randBuf(_SaltSize)
	keys, err := deriveKeys(ss.Bytes(), salt, []byte(HKDFInfo))
	ss.Destroy()
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	defer keys.destroy()

	nonceBase := randBuf(_NonceBaseSize)
	ct, tag, err := seal(keys, chunkNonce(nonceBase, 0), pt)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	md := &Metadata{
		AEADAlgo:       AEADAlgo,
		ChunkSize:      DefaultChunkSize,
		HKDFInfo:       []byte(HKDFInfo),
		HKDFSalt:       salt,
		HMAC:           tag,
		KDFAlgo:        KDFAlgo,
		KEMAlgo:        KEMAlgo,
		KEMCiphertext:  epk,
		NonceBase:      nonceBase,
		OriginalSize:   total,
		PubFingerprint: pk.fp,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Version:        Version,
	}

	env, err := writeEnvelope(md, ct)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	prog.report(total, total)
	logger().Debug().Str("fp", pk.fp).Uint64("size", total).Msg("encrypted")
	return env, nil
}

// Decrypt opens the envelope 'env' with the private key 'sk'. Any
// tampering, or the wrong key, yields an error wrapping ErrIntegrity
// and no plaintext.
func Decrypt(env []byte, sk *PrivateKey, prog Progress) ([]byte, error) {
	if sk == nil {
		return nil, fmt.Errorf("decrypt: %w: no private key", ErrBadKey)
	}

	md, ct, err := readEnvelope(env)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	if err := md.validate(); err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	total := md.OriginalSize
	prog.report(0, total)

	ss, err := decapsulate(md.KEMCiphertext, sk.sk)
	if err != nil {
		logger().Warn().Err(err).Msg("decrypt failed")
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	keys, err := deriveKeys(ss.Bytes(), md.HKDFSalt, md.HKDFInfo)
	ss.Destroy()
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	defer keys.destroy()

	pt, err := open(keys, chunkNonce(md.NonceBase, 0), ct, md.HMAC)
	if err != nil {
		logger().Warn().Err(err).Msg("decrypt failed")
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	if uint64(len(pt)) != md.OriginalSize {
		secmem.Wipe(pt)
		return nil, fmt.Errorf("decrypt: %w: have %d, want %d", ErrSizeMismatch, len(pt), md.OriginalSize)
	}

	prog.report(total, total)
	logger().Debug().Str("fp", sk.pk.fp).Uint64("size", total).Msg("decrypted")
	return pt, nil
}

// ReadMetadata returns the metadata of an envelope without decrypting
// it.
func ReadMetadata(env []byte) (*Metadata, error) {
	md, _, err := readEnvelope(env)
	if err != nil {
		return nil, err
	}
	return md, nil
}

// FileOptions controls EncryptFile and DecryptFile
type FileOptions struct {
	// Replace an existing output file
	Overwrite bool

	// Permissions of a newly created output file; 0 means 0600
	Mode os.FileMode

	Progress Progress
}

func (o *FileOptions) mode() os.FileMode {
	if o == nil || o.Mode == 0 {
		return 0600
	}
	return o.Mode
}

func (o *FileOptions) progress() Progress {
	if o == nil {
		return nil
	}
	return o.Progress
}

func (o *FileOptions) overwrite() bool {
	return o != nil && o.Overwrite
}

// EncryptFile encrypts the file 'infile' to 'pk' and writes the
// envelope to 'outfile'. The output is written atomically; nothing is
// left behind on failure.
func EncryptFile(infile, outfile string, pk *PublicKey, opt *FileOptions) error {
	pt, err := ReadFile(infile)
	if err != nil {
		return err
	}
	defer secmem.Wipe(pt)

	env, err := Encrypt(pt, pk, opt.progress())
	if err != nil {
		return fmt.Errorf("%s: %w", infile, err)
	}

	return WriteFile(outfile, env, opt.overwrite(), opt.mode())
}

// DecryptFile decrypts the envelope in 'infile' and writes the
// plaintext to 'outfile'. On any failure no output file is left
// behind.
func DecryptFile(infile, outfile string, sk *PrivateKey, opt *FileOptions) error {
	env, err := ReadFile(infile)
	if err != nil {
		return err
	}

	pt, err := Decrypt(env, sk, opt.progress())
	if err != nil {
		return fmt.Errorf("%s: %w", infile, err)
	}
	defer secmem.Wipe(pt)

	return WriteFile(outfile, pt, opt.overwrite(), opt.mode())
}
