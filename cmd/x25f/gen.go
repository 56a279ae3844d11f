// gen.go -- generate or import keypairs
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
	"path"

	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
)

// Run the generate command
func gen(args []string) {
	var nopw, help, force bool
	var comment string
	var envpw string
	var from string

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")
	fs.BoolVarP(&nopw, "no-password", "", false, "Don't ask for a password for the private key")
	fs.StringVarP(&comment, "comment", "c", "", "Use `C` as the text comment for the keys")
	fs.StringVarP(&envpw, "env-password", "E", "", "Use passphrase from environment variable `E`")
	fs.StringVarP(&from, "from", "f", "", "Import private key `K` (OpenSSH ed25519, x25f) instead of generating one")
	fs.BoolVarP(&force, "overwrite", "", false, "Overwrite the output file if it exists")

	fs.Parse(args)

	if help {
		fs.SetOutput(os.Stdout)
		fmt.Printf(`%s generate|gen|g [options] file-prefix

Generate a new X25519 public+private key pair and write public key to
FILE-PREFIX.pub and private key to FILE-PREFIX.key. The private key is
protected with a passphrase unless --no-password is used.

With --from, the private key is read from an existing key file instead:
an OpenSSH ed25519 private key is converted to its X25519 equivalent.

Options:
`, Z)
		fs.PrintDefaults()
		os.Exit(0)
	}

	args = fs.Args()
	if len(args) < 1 {
		Die("Insufficient arguments to 'generate'. Try '%s generate -h' ..", Z)
	}

	bn := args[0]

	pkn := fmt.Sprintf("%s.pub", path.Clean(bn))
	skn := fmt.Sprintf("%s.key", path.Clean(bn))

	if !force {
		if exists(pkn) || exists(skn) {
			Die("Public/Private key files (%s, %s) exist. won't overwrite!", skn, pkn)
		}
	}

	var sk *x25f.PrivateKey
	var err error

	if len(from) > 0 {
		sk, err = x25f.ReadPrivateKey(from, maybeGetPw(false, "", false))
	} else {
		sk, err = x25f.GenerateKeyPair(comment)
	}
	if err != nil {
		Die("%s", err)
	}
	defer sk.Wipe()

	pk := sk.PublicKey()
	if len(comment) > 0 {
		sk.Comment = comment
		pk.Comment = comment
	}

	pw := mustGetPw(maybeGetPw(nopw, envpw, true))
	if !nopw && len(pw) == 0 {
		Die("empty passphrase; use --no-password for an unprotected key")
	}

	if err = sk.WriteFile(skn, pw, keyProtector(), force); err != nil {
		Die("%s", err)
	}

	// don't leave a private key without its public half
	if err = pk.WriteFile(pkn, force); err != nil {
		os.Remove(skn)
		Die("%s", err)
	}

	log.Info().Str("fingerprint", pk.Fingerprint()).Bool("protected", !nopw).
		Str("public", pkn).Str("private", skn).Msg("keypair written")
	fmt.Printf("%s: %s\n", pk.Fingerprint(), pkn)
}
