// info.go -- show envelope metadata and key fingerprints
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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/opencoff/go-utils"
	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
)

func info(args []string) {
	var help, js bool

	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")
	fs.BoolVarP(&js, "json", "j", false, "Show envelope metadata as JSON")
	fs.Parse(args)

	if help {
		fs.SetOutput(os.Stdout)
		fmt.Printf(`%s info|i [options] file [file...]

Show the metadata of encrypted files without decrypting them, and the
fingerprint of key files.

Options:
`, Z)
		fs.PrintDefaults()
		os.Exit(0)
	}

	args = fs.Args()
	if len(args) < 1 {
		Die("Insufficient arguments to 'info'. Try '%s info -h' ..", Z)
	}

	errs := 0
	for _, fn := range args {
		s, err := describe(fn, js)
		if err != nil {
			Warn("%s", err)
			errs++
			continue
		}
		fmt.Print(s)
	}

	if errs > 0 {
		Die("%d of %d files had errors", errs, len(args))
	}
}

// describe returns a printable description of the contents of fn
func describe(fn string, js bool) (string, error) {
	b, err := x25f.ReadFile(fn)
	if err != nil {
		return "", err
	}

	if bytes.HasPrefix(b, []byte("X25F")) {
		md, err := x25f.ReadMetadata(b)
		if err != nil {
			return "", fmt.Errorf("%s: %w", fn, err)
		}
		if js {
			j, err := json.MarshalIndent(md, "", "  ")
			if err != nil {
				return "", err
			}
			return string(j) + "\n", nil
		}
		return describeEnvelope(fn, md), nil
	}

	if pk, err := x25f.ParsePublicKey(b); err == nil {
		return fmt.Sprintf("%s: public key %s %s\n", fn, pk.Fingerprint(), pk.Comment), nil
	}

	sk, err := x25f.ParsePrivateKey(b, nil)
	switch {
	case err == nil:
		defer sk.Wipe()
		return fmt.Sprintf("%s: private key %s %s\n", fn, sk.Fingerprint(), sk.Comment), nil
	case errors.Is(err, x25f.ErrAuthentication):
		return fmt.Sprintf("%s: passphrase protected private key\n", fn), nil
	}
	return "", fmt.Errorf("%s: not an envelope or key: %w", fn, err)
}

func describeEnvelope(fn string, md *x25f.Metadata) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s:\n", fn)
	fmt.Fprintf(&sb, "  version:        %d\n", md.Version)
	fmt.Fprintf(&sb, "  algorithms:     %s, %s, %s\n", md.KEMAlgo, md.KDFAlgo, md.AEADAlgo)
	fmt.Fprintf(&sb, "  size:           %d (%s)\n", md.OriginalSize, utils.HumanizeSize(md.OriginalSize))
	fmt.Fprintf(&sb, "  chunk size:     %s\n", utils.HumanizeSize(md.ChunkSize))
	if len(md.PubFingerprint) > 0 {
		fmt.Fprintf(&sb, "  recipient:      %s\n", md.PubFingerprint)
	}
	if t, err := md.Time(); err == nil {
		fmt.Fprintf(&sb, "  created:        %s\n", t.Local())
	}
	return sb.String()
}
