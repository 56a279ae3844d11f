// decrypt.go -- decrypt a file with a private key
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

	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
	"github.com/opencoff/x25f/internal/secmem"
)

func decrypt(args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	fs.Usage = func() {
		decryptUsage(fs)
	}

	var envpw string
	var outfile string
	var nopw, test, force, quiet bool

	fs.StringVarP(&outfile, "outfile", "o", "", "Write the output to file `F`")
	fs.BoolVarP(&nopw, "no-password", "", false, "Don't ask for passphrase to decrypt the private key")
	fs.StringVarP(&envpw, "env-password", "E", "", "Use passphrase from environment variable `E`")
	fs.BoolVarP(&test, "test", "t", false, "Test the encrypted file against the given key without writing to output")
	fs.BoolVarP(&force, "overwrite", "", false, "Overwrite the output file if it exists")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Don't show progress")

	err := fs.Parse(args)
	if err != nil {
		Die("%s", err)
	}

	args = fs.Args()
	if len(args) < 1 {
		Die("Insufficient args. Try '%s decrypt --help'", Z)
	}

	getpw := maybeGetPw(nopw, envpw, false)
	sk, err := x25f.ReadPrivateKey(args[0], getpw)
	if err != nil {
		Die("%s", err)
	}
	defer sk.Wipe()
	AtExit(sk.Wipe)

	infile := "-"
	if len(args) > 1 {
		infile = args[1]
	}

	prog := newProgress("decrypt", infile, quiet || infile == "-")
	log.Debug().Str("in", infile).Str("out", outfile).
		Str("key", sk.Fingerprint()).Bool("test", test).Msg("decrypt")

	if !test && infile != "-" && len(outfile) > 0 && outfile != "-" {
		opt := &x25f.FileOptions{
			Overwrite: force,
			Mode:      outMode(infile, outfile),
			Progress:  prog,
		}
		if err = x25f.DecryptFile(infile, outfile, sk, opt); err != nil {
			Die("%s", err)
		}
		return
	}

	env := readInput(infile)
	pt, err := x25f.Decrypt(env, sk, prog)
	if err != nil {
		Die("%s", err)
	}
	defer secmem.Wipe(pt)

	if test {
		fmt.Printf("%s: OK (%d bytes)\n", infile, len(pt))
		return
	}
	writeOutput(outfile, pt, force, 0600)
}

func decryptUsage(fs *flag.FlagSet) {
	fmt.Printf(`%s decrypt: Decrypt a file.

Usage: %s decrypt [options] privkey [infile]

Where PRIVKEY is the private key file: an x25f key (protected or not),
a raw 32 byte X25519 key or an OpenSSH ed25519 private key.
INFILE is the encrypted input file; if it is '-' or missing, %s reads
from STDIN. Unless '-o' is used, %s writes the decrypted output to
STDOUT. Nothing is written unless the file decrypts and authenticates
completely.

Options:
`, Z, Z, Z, Z)

	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	os.Exit(0)
}
