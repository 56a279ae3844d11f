// split.go -- threshold backup of secrets and private keys
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
	"errors"
	"fmt"

	"github.com/opencoff/x25f/internal/secmem"
	"github.com/opencoff/x25f/shamir"
)

// SplitSecret splits 'blob' into 'n' text encoded shares such that any
// 'threshold' of them recover it. Blobs longer than one field element
// are shared blockwise.
func SplitSecret(blob []byte, threshold, n int) ([][]byte, error) {
	shares, err := shamir.Split(blob, threshold, n)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	out := make([][]byte, 0, len(shares))
	for _, s := range shares {
		b, err := s.Encode()
		if err != nil {
			return nil, fmt.Errorf("split: %w", err)
		}
		out = append(out, b)
	}

	logger().Debug().Int("threshold", threshold).Int("shares", n).Int("len", len(blob)).Msg("split secret")
	return out, nil
}

// CombineShares reconstructs a blob from shares made by SplitSecret.
// Too few or mismatched shares give ErrThreshold; undecodable shares
// give ErrFormat.
func CombineShares(encoded [][]byte) ([]byte, error) {
	shares := make([]*shamir.Share, 0, len(encoded))
	for i, b := range encoded {
		s, err := shamir.DecodeShare(b)
		if err != nil {
			return nil, fmt.Errorf("combine: share %d: %w", i+1, shareErr(err))
		}
		shares = append(shares, s)
	}

	blob, err := shamir.Combine(shares)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", shareErr(err))
	}

	logger().Debug().Int("shares", len(shares)).Msg("combined shares")
	return blob, nil
}

// SplitPrivateKey protects 'sk' with 'pw' and splits the protected
// blob; the shares alone don't reveal the key.
func (kp *KeyProtector) SplitPrivateKey(sk *PrivateKey, pw []byte, threshold, n int) ([][]byte, error) {
	blob, err := kp.Protect(sk, pw)
	if err != nil {
		return nil, err
	}
	defer secmem.Wipe(blob)

	return SplitSecret(blob, threshold, n)
}

// SplitPrivateKey protects and splits 'sk' using the default scrypt
// parameters.
func SplitPrivateKey(sk *PrivateKey, pw []byte, threshold, n int) ([][]byte, error) {
	return DefaultKeyProtector().SplitPrivateKey(sk, pw, threshold, n)
}

// RecoverPrivateKey combines the shares and unprotects the resulting
// blob with 'pw'.
func RecoverPrivateKey(shares [][]byte, pw []byte) (*PrivateKey, error) {
	blob, err := CombineShares(shares)
	if err != nil {
		return nil, err
	}
	defer secmem.Wipe(blob)

	return UnprotectPrivateKey(blob, pw)
}

// undecodable shares are a format problem
func shareErr(err error) error {
	if errors.Is(err, shamir.ErrBadShare) && !errors.Is(err, ErrFormat) {
		return fmt.Errorf("%w: %w", ErrBadShare, err)
	}
	return err
}
