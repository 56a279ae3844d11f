// errors.go - list of all exportable errors in this module
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

package x25f

import (
	"errors"
	"fmt"

	"github.com/opencoff/x25f/shamir"
)

// Error kinds. Every error returned by this package wraps exactly one
// of these; use errors.Is() to classify a failure.
var (
	ErrFormat         = errors.New("x25f: malformed input")
	ErrIntegrity      = errors.New("x25f: integrity check failed")
	ErrAuthentication = errors.New("x25f: authentication failed")
	ErrIO             = errors.New("x25f: I/O error")

	ErrCapacity  = shamir.ErrCapacity
	ErrThreshold = shamir.ErrThreshold
)

var (
	ErrBadMagic         = fmt.Errorf("%w: not an X25F envelope", ErrFormat)
	ErrShortEnvelope    = fmt.Errorf("%w: envelope truncated", ErrFormat)
	ErrMetadataTooBig   = fmt.Errorf("%w: metadata too large (max %d)", ErrFormat, _MaxMetadataLen)
	ErrBadMetadata      = fmt.Errorf("%w: metadata corrupted", ErrFormat)
	ErrMissingField     = fmt.Errorf("%w: required metadata field missing", ErrFormat)
	ErrUnsupported      = fmt.Errorf("%w: unsupported version or algorithm", ErrFormat)
	ErrBadBlob          = fmt.Errorf("%w: protected key blob corrupted", ErrFormat)
	ErrBadKDFParams     = fmt.Errorf("%w: KDF parameters out of range", ErrFormat)
	ErrBadShare         = fmt.Errorf("%w: %w", ErrFormat, shamir.ErrBadShare)
	ErrBadKey           = fmt.Errorf("%w: invalid key", ErrFormat)
	ErrNoPEMFound       = fmt.Errorf("%w: no PEM block found", ErrFormat)
	ErrBadPublicKey     = fmt.Errorf("%w: ssh: malformed public key", ErrFormat)
	ErrKeyTooShort      = fmt.Errorf("%w: ssh: public key too short", ErrFormat)
	ErrBadSSHFormat     = fmt.Errorf("%w: ssh: invalid openssh private key format", ErrFormat)
	ErrBadLength        = fmt.Errorf("%w: ssh: private key unexpected length", ErrFormat)
	ErrBadPadding       = fmt.Errorf("%w: ssh: padding not as expected", ErrFormat)
	ErrBadHMAC          = fmt.Errorf("%w: hmac mismatch", ErrIntegrity)
	ErrBadTag           = fmt.Errorf("%w: aead tag mismatch", ErrIntegrity)
	ErrSizeMismatch     = fmt.Errorf("%w: plaintext size mismatch", ErrIntegrity)
	ErrBadSharedSecret  = fmt.Errorf("%w: degenerate shared secret", ErrIntegrity)
	ErrWrongPassword    = fmt.Errorf("%w: wrong password", ErrAuthentication)
	ErrIncorrectSSHPass = fmt.Errorf("%w: ssh: invalid passphrase", ErrAuthentication)
	ErrExists           = fmt.Errorf("%w: output file exists", ErrIO)
)
