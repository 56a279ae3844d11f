// protect.go -- add, change or remove the passphrase of a private key
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
)

func protect(args []string) {
	var help, nopw, force bool
	var envpw, outfile string

	fs := flag.NewFlagSet("protect", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")
	fs.BoolVarP(&nopw, "no-password", "", false, "Write the key without a passphrase")
	fs.StringVarP(&envpw, "env-password", "E", "", "Use the new passphrase from environment variable `E`")
	fs.StringVarP(&outfile, "outfile", "o", "", "Write the key to `F` instead of replacing the input")
	fs.BoolVarP(&force, "overwrite", "", false, "Overwrite the output file if it exists")
	fs.Parse(args)

	if help {
		fs.SetOutput(os.Stdout)
		fmt.Printf(`%s protect|p [options] privkey

Read the private key PRIVKEY (asking for its current passphrase if it
has one) and write it back protected with a new passphrase. The key
is protected with scrypt and AES-256-GCM using the configured scrypt
parameters. With --no-password the key is written unprotected.

Options:
`, Z)
		fs.PrintDefaults()
		os.Exit(0)
	}

	args = fs.Args()
	if len(args) < 1 {
		Die("Insufficient arguments to 'protect'. Try '%s protect -h' ..", Z)
	}

	fn := args[0]
	sk, err := x25f.ReadPrivateKey(fn, maybeGetPw(false, "", false))
	if err != nil {
		Die("%s", err)
	}
	defer sk.Wipe()

	// rewriting in place always replaces the input
	if len(outfile) == 0 {
		outfile, force = fn, true
	}

	pw := mustGetPw(maybeGetPw(nopw, envpw, true))
	if !nopw && len(pw) == 0 {
		Die("empty passphrase; use --no-password for an unprotected key")
	}

	if err = sk.WriteFile(outfile, pw, keyProtector(), force); err != nil {
		Die("%s", err)
	}

	log.Info().Str("fingerprint", sk.Fingerprint()).Bool("protected", !nopw).
		Int("scrypt_n", cfg.Scrypt.N).Msg("private key rewritten")
}
