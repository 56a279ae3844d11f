// envelope.go -- encrypted file container
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

// Envelope layout:
//
//	"X25F" | be32 metadata length | metadata JSON | ciphertext
//
// The metadata is a JSON object with its keys in sorted order; binary
// fields are standard base64. The ciphertext runs to the end of the
// envelope and carries the 16 byte GCM tag at its end.
//
// The whole plaintext is sealed as chunk 0; chunk_size is recorded
// for readers but no streaming is done.

package x25f

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencoff/x25f/internal/jsonobj"
)

const (
	// The latest version of the envelope and key blob formats
	Version = 3

	_Magic    = "X25F"
	_MagicLen = len(_Magic)
	_FixedLen = _MagicLen + 4

	_MaxMetadataLen = 1 << 20

	// DefaultChunkSize is recorded in every envelope
	DefaultChunkSize uint64 = 4 * 1024 * 1024
	_MaxChunkSize    uint64 = 1 << 30
)

// Metadata describes an envelope. It can be read without the private
// key.
//
// Fields are declared in JSON key order so the encoding is sorted.
type Metadata struct {
	AEADAlgo      string `json:"aead_algo"`
	ChunkSize     uint64 `json:"chunk_size"`
	HKDFInfo      []byte `json:"hkdf_info"`
	HKDFSalt      []byte `json:"hkdf_salt"`
	HMAC          []byte `json:"hmac"`
	KDFAlgo       string `json:"kdf_algo"`
	KEMAlgo       string `json:"kem_algo"`
	KEMCiphertext []byte `json:"kem_ciphertext"`
	NonceBase     []byte `json:"nonce_base"`
	OriginalSize  uint64 `json:"original_size"`

	// Optional: informational only
	PubFingerprint string `json:"pub_fingerprint,omitempty"`
	Timestamp      string `json:"timestamp_utc,omitempty"`

	Version int `json:"version"`
}

// keys every envelope must carry
var requiredFields = []string{
	"version", "kem_algo", "kem_ciphertext", "hkdf_salt", "nonce_base",
	"chunk_size", "aead_algo", "original_size", "hmac", "kdf_algo", "hkdf_info",
}

// every key Metadata decodes
var metadataFields = append([]string{"pub_fingerprint", "timestamp_utc"}, requiredFields...)

// Time returns the creation time recorded in the envelope.
func (md *Metadata) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, md.Timestamp)
}

// validate checks the metadata describes something this version can
// decrypt.
func (md *Metadata) validate() error {
	switch {
	case md.Version != Version:
		return fmt.Errorf("%w: version %d", ErrUnsupported, md.Version)
	case md.KEMAlgo != KEMAlgo:
		return fmt.Errorf("%w: kem %q", ErrUnsupported, md.KEMAlgo)
	case md.AEADAlgo != AEADAlgo:
		return fmt.Errorf("%w: aead %q", ErrUnsupported, md.AEADAlgo)
	case md.KDFAlgo != KDFAlgo:
		return fmt.Errorf("%w: kdf %q", ErrUnsupported, md.KDFAlgo)
	case !bytes.Equal(md.HKDFInfo, []byte(HKDFInfo)):
		return fmt.Errorf("%w: hkdf info %q", ErrUnsupported, md.HKDFInfo)
	case md.ChunkSize == 0 || md.ChunkSize > _MaxChunkSize:
		return fmt.Errorf("%w: chunk size %d", ErrBadMetadata, md.ChunkSize)
	case len(md.KEMCiphertext) != KeySize:
		return fmt.Errorf("%w: kem ciphertext length %d", ErrBadMetadata, len(md.KEMCiphertext))
	case len(md.HKDFSalt) != _SaltSize:
		return fmt.Errorf("%w: salt length %d", ErrBadMetadata, len(md.HKDFSalt))
	case len(md.NonceBase) != _NonceBaseSize:
		return fmt.Errorf("%w: nonce length %d", ErrBadMetadata, len(md.NonceBase))
	case len(md.HMAC) != _HmacSize:
		return fmt.Errorf("%w: hmac length %d", ErrBadMetadata, len(md.HMAC))
	}
	return nil
}

// marshal the envelope
func writeEnvelope(md *Metadata, ct []byte) ([]byte, error) {
	mj, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	if len(mj) > _MaxMetadataLen {
		return nil, ErrMetadataTooBig
	}

	out := make([]byte, 0, _FixedLen+len(mj)+len(ct))
	out = append(out, _Magic...)
	out = enc32(out, len(mj))
	out = append(out, mj...)
	out = append(out, ct...)
	return out, nil
}

// readEnvelope splits an envelope into its metadata and ciphertext.
// The ciphertext aliases 'b'.
func readEnvelope(b []byte) (*Metadata, []byte, error) {
	if len(b) < _MagicLen || string(b[:_MagicLen]) != _Magic {
		return nil, nil, ErrBadMagic
	}

	if len(b) < _FixedLen {
		return nil, nil, ErrShortEnvelope
	}

	b, mlen := dec32[uint64](b[_MagicLen:])
	if mlen > _MaxMetadataLen {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrMetadataTooBig, mlen)
	}

	if uint64(len(b)) < mlen {
		return nil, nil, fmt.Errorf("%w: metadata wants %d bytes, have %d", ErrShortEnvelope, mlen, len(b))
	}

	mj, ct := b[:mlen], b[mlen:]

	keys, err := jsonobj.Parse(mj, metadataFields...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBadMetadata, err)
	}

	for _, k := range requiredFields {
		if _, ok := keys[k]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingField, k)
		}
	}

	var md Metadata
	if err := json.Unmarshal(mj, &md); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBadMetadata, err)
	}
	return &md, ct, nil
}
