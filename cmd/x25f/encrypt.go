// encrypt.go -- encrypt a file to a recipient public key
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
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
)

func encrypt(args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	fs.Usage = func() {
		encryptUsage(fs)
	}

	var outfile string
	var force, quiet bool

	fs.StringVarP(&outfile, "outfile", "o", "", "Write the output to file `F`")
	fs.BoolVarP(&force, "overwrite", "", false, "Overwrite the output file if it exists")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Don't show progress")

	err := fs.Parse(args)
	if err != nil {
		Die("%s", err)
	}

	args = fs.Args()
	if len(args) < 1 {
		Die("Insufficient args. Try '%s encrypt --help'", Z)
	}

	pk := recipient(args[0])

	infile := "-"
	if len(args) > 1 {
		infile = args[1]
	}

	prog := newProgress("encrypt", infile, quiet || infile == "-")
	log.Debug().Str("in", infile).Str("out", outfile).
		Str("recipient", pk.Fingerprint()).Msg("encrypt")

	// file to file: let the library do the reading and the atomic write
	if infile != "-" && len(outfile) > 0 && outfile != "-" {
		mode := outMode(infile, outfile)
		opt := &x25f.FileOptions{
			Overwrite: force,
			Mode:      mode,
			Progress:  prog,
		}
		if err = x25f.EncryptFile(infile, outfile, pk, opt); err != nil {
			Die("%s", err)
		}
		return
	}

	pt := readInput(infile)
	env, err := x25f.Encrypt(pt, pk, prog)
	if err != nil {
		Die("%s", err)
	}
	writeOutput(outfile, env, force, 0600)
}

// recipient resolves 'to' to a public key: 'a@b' is looked up by
// comment in the user's ssh authorized_keys, anything else is a key
// file.
func recipient(to string) *x25f.PublicKey {
	if strings.Index(to, "@") > 0 && !exists(to) {
		home, err := os.UserHomeDir()
		if err != nil {
			Die("can't find homedir for this user")
		}

		authkeys := filepath.Join(home, ".ssh", "authorized_keys")
		authdata, err := os.ReadFile(authkeys)
		if err != nil {
			Die("can't read %s: %s", authkeys, err)
		}

		pka, err := x25f.ParseAuthorizedKeys(authdata)
		if err != nil {
			Die("%s: %s", authkeys, err)
		}

		for _, pk := range pka {
			if pk.Comment == to {
				return pk
			}
		}
		Die("can't find user %s in %s", to, authkeys)
	}

	pk, err := x25f.ReadPublicKey(to)
	if err != nil {
		Die("%s", err)
	}
	return pk
}

// readInput returns the contents of 'fn' or of STDIN when fn is "-"
func readInput(fn string) []byte {
	if fn == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			Die("stdin: %s", err)
		}
		return b
	}

	b, err := x25f.ReadFile(fn)
	if err != nil {
		Die("%s", err)
	}
	return b
}

// writeOutput writes 'b' to 'fn' or to STDOUT when fn is "-" or empty
func writeOutput(fn string, b []byte, force bool, perm os.FileMode) {
	if len(fn) == 0 || fn == "-" {
		if _, err := os.Stdout.Write(b); err != nil {
			Die("stdout: %s", err)
		}
		return
	}

	writeFile(fn, b, force, perm)
}

// outMode returns the mode for 'outfn'. It dies if infn and outfn are
// the same underlying file.
func outMode(infn, outfn string) os.FileMode {
	ist, err := os.Stat(infn)
	if err != nil {
		Die("can't stat %s: %s", infn, err)
	}

	ost, err := os.Stat(outfn)
	if err == nil && os.SameFile(ist, ost) {
		Die("won't create output file: same as input file!")
	}
	return ist.Mode().Perm()
}

func encryptUsage(fs *flag.FlagSet) {
	fmt.Printf(`%s encrypt: Encrypt a file to a recipient.

Usage: %s encrypt [options] to [infile|-]

Where TO is the public key of the recipient; it can be one of:

- a file holding an x25f public key, a raw 32 byte X25519 key or an
  OpenSSH ssh-ed25519 public key.
- string of the form 'a@b' - in which case the user's ssh
  authorized_keys file is consulted to find the ed25519 key whose
  comment matches the string.

INFILE is an input file to be encrypted. If the input file is '-' or
missing, %s reads from STDIN. Unless '-o' is used, %s writes the
encrypted output to STDOUT.

Options:
`, Z, Z, Z, Z)

	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	os.Exit(0)
}
