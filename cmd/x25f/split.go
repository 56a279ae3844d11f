// split.go -- split private keys into shares and recombine them
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
	"github.com/opencoff/x25f/internal/secmem"
)

// shareFile returns the name of the i'th (0 based) share file
func shareFile(prefix string, i int) string {
	return fmt.Sprintf("%s_share_%02d.sss", path.Clean(prefix), i+1)
}

// writeShares writes one share per file and returns the file names.
// Either every share file is written or none is left behind.
func writeShares(prefix string, shares [][]byte, force bool) ([]string, error) {
	names := make([]string, 0, len(shares))
	for i, s := range shares {
		nm := shareFile(prefix, i)
		if err := x25f.WriteFile(nm, append(s, '\n'), force, 0600); err != nil {
			for _, fn := range names {
				os.Remove(fn)
			}
			return nil, err
		}
		names = append(names, nm)
	}
	return names, nil
}

func split(args []string) {
	var help, raw, force bool
	var envpw string
	var threshold, count int

	fs := flag.NewFlagSet("split", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")
	fs.IntVarP(&threshold, "threshold", "t", cfg.Shares.Threshold, "Require `T` shares to recombine")
	fs.IntVarP(&count, "shares", "n", cfg.Shares.Count, "Make `N` shares")
	fs.BoolVarP(&raw, "raw", "", false, "Split the input file as is instead of a private key")
	fs.StringVarP(&envpw, "env-password", "E", "", "Use the share passphrase from environment variable `E`")
	fs.BoolVarP(&force, "overwrite", "", false, "Overwrite share files if they exist")
	fs.Parse(args)

	if help {
		fs.SetOutput(os.Stdout)
		fmt.Printf(`%s split|s [options] privkey prefix

Split the private key PRIVKEY into N shares such that any T of them
recover it; fewer reveal nothing. The key is first protected with a
passphrase, so recovering it also needs the passphrase. Shares are
written to PREFIX_share_01.sss, PREFIX_share_02.sss, ...

With --raw, PRIVKEY is any small file (at most 64 KiB) and its bytes
are split without a passphrase.

Options:
`, Z)
		fs.PrintDefaults()
		os.Exit(0)
	}

	args = fs.Args()
	if len(args) < 2 {
		Die("Insufficient arguments to 'split'. Try '%s split -h' ..", Z)
	}

	fn, prefix := args[0], args[1]

	if !force {
		for i := 0; i < count; i++ {
			if nm := shareFile(prefix, i); exists(nm) {
				Die("share file %s exists. won't overwrite!", nm)
			}
		}
	}

	var shares [][]byte
	var blob []byte
	var sk *x25f.PrivateKey
	var err error

	if raw {
		if blob, err = x25f.ReadFile(fn); err != nil {
			Die("%s", err)
		}
		shares, err = x25f.SplitSecret(blob, threshold, count)
		secmem.Wipe(blob)
	} else {
		if sk, err = x25f.ReadPrivateKey(fn, maybeGetPw(false, "", false)); err != nil {
			Die("%s", err)
		}

		pw := mustGetPw(maybeGetPw(false, envpw, true))
		if len(pw) == 0 {
			Die("shares of a private key need a non-empty passphrase")
		}

		shares, err = keyProtector().SplitPrivateKey(sk, pw, threshold, count)
		sk.Wipe()
	}
	if err != nil {
		Die("%s", err)
	}

	names, err := writeShares(prefix, shares, force)
	if err != nil {
		Die("%s", err)
	}
	for _, nm := range names {
		fmt.Println(nm)
	}

	log.Info().Int("threshold", threshold).Int("shares", count).Bool("raw", raw).
		Msg("split")
}

func combine(args []string) {
	var help, raw, force bool
	var envpw, outfile string

	fs := flag.NewFlagSet("combine", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")
	fs.StringVarP(&outfile, "outfile", "o", "", "Write the recovered key or file to `F`")
	fs.BoolVarP(&raw, "raw", "", false, "The shares hold a raw file, not a private key")
	fs.StringVarP(&envpw, "env-password", "E", "", "Use the share passphrase from environment variable `E`")
	fs.BoolVarP(&force, "overwrite", "", false, "Overwrite the output file if it exists")
	fs.Parse(args)

	if help {
		fs.SetOutput(os.Stdout)
		fmt.Printf(`%s combine|c [options] share [share...]

Recombine shares made by 'split'. For a private key, the passphrase
given at split time is verified and the recovered key is written in
its protected form. With --raw the recovered bytes are written as is.

Options:
`, Z)
		fs.PrintDefaults()
		os.Exit(0)
	}

	args = fs.Args()
	if len(args) < 1 {
		Die("Insufficient arguments to 'combine'. Try '%s combine -h' ..", Z)
	}
	if len(outfile) == 0 {
		Die("combine needs an output file; use -o")
	}

	shares := make([][]byte, 0, len(args))
	for _, fn := range args {
		b, err := x25f.ReadFile(fn)
		if err != nil {
			Die("%s", err)
		}
		shares = append(shares, b)
	}

	blob, err := x25f.CombineShares(shares)
	if err != nil {
		Die("%s", err)
	}
	defer secmem.Wipe(blob)

	if !raw {
		pw := mustGetPw(maybeGetPw(false, envpw, false))
		sk, err := x25f.UnprotectPrivateKey(blob, pw)
		if err != nil {
			Die("%s", err)
		}
		fmt.Printf("%s: recovered private key %s\n", outfile, sk.Fingerprint())
		sk.Wipe()
	}

	writeFile(outfile, blob, force, 0600)
	log.Info().Int("shares", len(shares)).Bool("raw", raw).Msg("combined")
}
