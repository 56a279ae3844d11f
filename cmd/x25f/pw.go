// pw.go -- passphrase helpers
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

package main

import (
	"fmt"
	"os"

	"github.com/opencoff/go-utils"
	"github.com/opencoff/x25f"
)

// maybeGetPw returns a passphrase callback: nil when 'nopw' is set,
// one that reads the environment variable 'envpw' when it is
// non-empty, and an interactive prompt otherwise. 'verify' asks for
// the passphrase twice.
func maybeGetPw(nopw bool, envpw string, verify bool) func() ([]byte, error) {
	if nopw {
		return nil
	}

	if len(envpw) > 0 {
		return func() ([]byte, error) {
			pw := os.Getenv(envpw)
			if len(pw) == 0 {
				return nil, fmt.Errorf("env var %s is empty or not set", envpw)
			}
			return []byte(pw), nil
		}
	}

	return func() ([]byte, error) {
		pw, err := utils.Askpass("Enter passphrase for private key", verify)
		if err != nil {
			return nil, err
		}
		return []byte(pw), nil
	}
}

// mustGetPw calls 'getpw' and dies on error; a nil getpw yields a
// nil passphrase.
func mustGetPw(getpw func() ([]byte, error)) []byte {
	if getpw == nil {
		return nil
	}

	pw, err := getpw()
	if err != nil {
		Die("%s", err)
	}
	return pw
}

// Return true if the file exists
func exists(nm string) bool {
	if _, err := os.Stat(nm); err == nil {
		return true
	}
	return false
}

// writeFile writes 'buf' to 'fn' atomically or dies.
func writeFile(fn string, buf []byte, force bool, perm os.FileMode) {
	if err := x25f.WriteFile(fn, buf, force, perm); err != nil {
		Die("%s", err)
	}
}

// keyProtector returns the scrypt parameters from the configuration
func keyProtector() *x25f.KeyProtector {
	return &x25f.KeyProtector{
		N: cfg.Scrypt.N,
		R: cfg.Scrypt.R,
		P: cfg.Scrypt.P,
	}
}
