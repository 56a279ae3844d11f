// shamir.go -- Shamir secret sharing over GF(2^127 - 1)
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

// Package shamir implements threshold secret sharing over the prime
// field of the Mersenne prime 2^127 - 1.
//
// A single field element holds at most 127 bits, so arbitrary byte
// strings are cut into 15 byte blocks and every block is shared with
// its own random polynomial of the same degree. Each share carries one
// y value per block; shares of a secret that fits in one block have
// exactly one y value and are wire compatible with single element
// sharing.
//
// Any 'threshold' shares reconstruct the secret; fewer reveal nothing
// about it.
package shamir

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	// BlockSize is the number of secret bytes carried by one field
	// element when splitting byte strings.
	BlockSize = 15

	// MaxSecretLen bounds the length of a secret given to Split.
	MaxSecretLen = 64 * 1024

	// MaxShares is the largest share count (and x coordinate).
	MaxShares = 255
)

var (
	// ErrCapacity is returned when a secret does not fit the field
	// (SplitElement) or exceeds MaxSecretLen (Split).
	ErrCapacity = errors.New("shamir: secret too large for field")

	// ErrThreshold is returned for bad threshold/share-count
	// parameters, too few shares or mismatched shares.
	ErrThreshold = errors.New("shamir: insufficient or mismatched shares")

	// ErrBadShare is returned when a share can't be decoded or is
	// internally inconsistent.
	ErrBadShare = errors.New("shamir: malformed share")
)

// 2^127 - 1
var prime = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

// Prime returns a copy of the field prime.
func Prime() *big.Int {
	return new(big.Int).Set(prime)
}

// Share is one point of every block polynomial, evaluated at X.
type Share struct {
	X         int
	Y         []*big.Int
	Threshold int
	SecretLen int
}

// Split shares an arbitrary byte string. Each BlockSize chunk of the
// secret becomes a field element shared independently; the empty
// secret is shared as a single zero element.
func Split(secret []byte, threshold, shares int) ([]*Share, error) {
	if err := checkParams(threshold, shares); err != nil {
		return nil, err
	}

	if len(secret) > MaxSecretLen {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrCapacity, len(secret), MaxSecretLen)
	}

	nb := numBlocks(len(secret))
	vals := make([]*big.Int, 0, nb)
	for i := 0; i < nb; i++ {
		j := min(len(secret), (i+1)*BlockSize)
		vals = append(vals, new(big.Int).SetBytes(secret[i*BlockSize:j]))
	}

	return split(vals, len(secret), threshold, shares)
}

// SplitElement shares 'secret' as a single field element. Its big
// endian integer value must be below the field prime.
func SplitElement(secret []byte, threshold, shares int) ([]*Share, error) {
	if err := checkParams(threshold, shares); err != nil {
		return nil, err
	}

	v := new(big.Int).SetBytes(secret)
	if v.Cmp(prime) >= 0 {
		return nil, fmt.Errorf("%w: %d bit value (field is 127 bits)", ErrCapacity, v.BitLen())
	}

	return split([]*big.Int{v}, len(secret), threshold, shares)
}

// Combine reconstructs the secret from at least 'threshold' distinct
// shares of the same split. Extra shares beyond the threshold are
// checked for consistency of their parameters but not interpolated.
func Combine(shares []*Share) ([]byte, error) {
	pts, err := selectShares(shares)
	if err != nil {
		return nil, err
	}

	s0 := pts[0]
	nb := len(s0.Y)
	out := make([]byte, s0.SecretLen)

	xs := make([]*big.Int, len(pts))
	for i, s := range pts {
		xs[i] = big.NewInt(int64(s.X))
	}

	ys := make([]*big.Int, len(pts))
	for b := 0; b < nb; b++ {
		for i, s := range pts {
			ys[i] = s.Y[b]
		}

		v := interpolate(xs, ys)

		// a single element covers the whole secret
		dst := out
		if nb > 1 {
			j := min(len(out), (b+1)*BlockSize)
			dst = out[b*BlockSize : j]
		}

		if (v.BitLen()+7)/8 > len(dst) {
			return nil, fmt.Errorf("%w: block %d does not fit %d bytes", ErrThreshold, b, len(dst))
		}
		v.FillBytes(dst)
	}

	return out, nil
}

func checkParams(threshold, shares int) error {
	switch {
	case threshold < 2:
		return fmt.Errorf("%w: threshold %d < 2", ErrThreshold, threshold)
	case shares < threshold:
		return fmt.Errorf("%w: share count %d < threshold %d", ErrThreshold, shares, threshold)
	case shares > MaxShares:
		return fmt.Errorf("%w: share count %d > %d", ErrThreshold, shares, MaxShares)
	}
	return nil
}

func numBlocks(n int) int {
	if n == 0 {
		return 1
	}
	return (n + BlockSize - 1) / BlockSize
}

func split(vals []*big.Int, secretLen, threshold, n int) ([]*Share, error) {
	out := make([]*Share, n)
	for i := range out {
		out[i] = &Share{
			X:         i + 1,
			Y:         make([]*big.Int, len(vals)),
			Threshold: threshold,
			SecretLen: secretLen,
		}
	}

	coeffs := make([]*big.Int, threshold)
	for b, v := range vals {
		coeffs[0] = v
		for k := 1; k < threshold; k++ {
			c, err := rand.Int(rand.Reader, prime)
			if err != nil {
				panic(fmt.Sprintf("shamir: can't read random coefficient: %s", err))
			}
			coeffs[k] = c
		}

		for _, s := range out {
			s.Y[b] = eval(coeffs, int64(s.X))
		}

		// don't leave the polynomial lying around
		for k := range coeffs {
			coeffs[k].SetInt64(0)
			coeffs[k] = nil
		}
	}

	return out, nil
}

// evaluate the polynomial at x with Horner's rule
func eval(coeffs []*big.Int, x int64) *big.Int {
	bx := big.NewInt(x)
	r := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		r.Mul(r, bx)
		r.Add(r, coeffs[i])
		r.Mod(r, prime)
	}
	return r
}

// Lagrange interpolation at x = 0:
//
//	f(0) = sum_i y_i * prod_{j != i} x_j / (x_j - x_i)
func interpolate(xs, ys []*big.Int) *big.Int {
	sum := new(big.Int)
	num := new(big.Int)
	den := new(big.Int)
	t := new(big.Int)

	for i := range xs {
		num.SetInt64(1)
		den.SetInt64(1)
		for j := range xs {
			if i == j {
				continue
			}
			num.Mul(num, xs[j])
			num.Mod(num, prime)

			t.Sub(xs[j], xs[i])
			den.Mul(den, t)
			den.Mod(den, prime)
		}

		// x's are distinct and < prime; den is invertible
		den.ModInverse(den, prime)
		t.Mul(ys[i], num)
		t.Mul(t, den)
		sum.Add(sum, t)
		sum.Mod(sum, prime)
	}
	return sum
}

// validate the shares and pick the first 'threshold' distinct ones
func selectShares(shares []*Share) ([]*Share, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares", ErrThreshold)
	}

	var s0 *Share
	seen := make(map[int]*Share)
	pts := make([]*Share, 0, len(shares))

	for i, s := range shares {
		if s == nil {
			return nil, fmt.Errorf("%w: share %d is nil", ErrBadShare, i)
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}

		if s0 == nil {
			s0 = s
		}

		switch {
		case s.Threshold != s0.Threshold:
			return nil, fmt.Errorf("%w: threshold mismatch (%d vs %d)", ErrThreshold, s.Threshold, s0.Threshold)
		case s.SecretLen != s0.SecretLen:
			return nil, fmt.Errorf("%w: secret length mismatch (%d vs %d)", ErrThreshold, s.SecretLen, s0.SecretLen)
		case len(s.Y) != len(s0.Y):
			return nil, fmt.Errorf("%w: block count mismatch (%d vs %d)", ErrThreshold, len(s.Y), len(s0.Y))
		}

		if p, ok := seen[s.X]; ok {
			if !p.sameY(s) {
				return nil, fmt.Errorf("%w: conflicting shares for x=%d", ErrThreshold, s.X)
			}
			continue
		}

		seen[s.X] = s
		pts = append(pts, s)
	}

	if len(pts) < s0.Threshold {
		return nil, fmt.Errorf("%w: need %d shares, have %d", ErrThreshold, s0.Threshold, len(pts))
	}

	return pts[:s0.Threshold], nil
}

func (s *Share) validate() error {
	switch {
	case s.X < 1 || s.X > MaxShares:
		return fmt.Errorf("%w: x=%d out of range", ErrBadShare, s.X)
	case s.Threshold < 2 || s.Threshold > MaxShares:
		return fmt.Errorf("%w: threshold %d out of range", ErrBadShare, s.Threshold)
	case s.SecretLen < 0 || s.SecretLen > MaxSecretLen:
		return fmt.Errorf("%w: secret length %d out of range", ErrBadShare, s.SecretLen)
	case len(s.Y) == 0:
		return fmt.Errorf("%w: no y values", ErrBadShare)
	case len(s.Y) > 1 && len(s.Y) != numBlocks(s.SecretLen):
		return fmt.Errorf("%w: %d blocks for %d bytes", ErrBadShare, len(s.Y), s.SecretLen)
	}

	for i, y := range s.Y {
		if y == nil || y.Sign() < 0 || y.Cmp(prime) >= 0 {
			return fmt.Errorf("%w: y[%d] not a field element", ErrBadShare, i)
		}
	}
	return nil
}

func (s *Share) sameY(o *Share) bool {
	for i := range s.Y {
		if s.Y[i].Cmp(o.Y[i]) != 0 {
			return false
		}
	}
	return true
}
