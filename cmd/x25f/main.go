// main.go -- x25f: X25519 file encryption tool
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
	"strings"

	"github.com/opencoff/go-utils"
	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
	"github.com/opencoff/x25f/internal/config"
	"github.com/opencoff/x25f/internal/logger"
)

var Z string = path.Base(os.Args[0])

// merged configuration and logger; set up in main before any
// command runs.
var (
	cfg *config.Config
	log *logger.Logger
)

func main() {
	var ver, help, debug bool
	var cfgfile, loglevel, logfmt string

	mf := flag.NewFlagSet(Z, flag.ExitOnError)
	mf.SetInterspersed(false)
	mf.BoolVarP(&ver, "version", "v", false, "Show version info and exit")
	mf.BoolVarP(&help, "help", "h", false, "Show help info exit")
	mf.BoolVarP(&debug, "debug", "", false, "Enable debug logging")
	mf.StringVarP(&cfgfile, "config", "", "", "Read configuration from YAML file `F`")
	mf.StringVarP(&loglevel, "log-level", "", "", "Set the log level to `L`")
	mf.StringVarP(&logfmt, "log-format", "", "", "Set the log format to `F` (console, json)")
	mf.Parse(os.Args[1:])

	if ver {
		version(nil)
		os.Exit(0)
	}

	if help {
		usage(0)
	}

	args := mf.Args()
	if len(args) < 1 {
		Die("Insufficient arguments. Try '%s -h'", Z)
	}

	var err error
	if cfg, err = config.Load(cfgfile); err != nil {
		Die("%s", err)
	}

	if len(loglevel) > 0 {
		cfg.LogLevel = loglevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	if len(logfmt) > 0 {
		cfg.LogFormat = logfmt
	}

	log, err = logger.New(os.Stderr, Z, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		Die("%s", err)
	}
	x25f.SetLogger(log.Child("x25f").Logger)

	cmds := map[string]func(args []string){
		"generate": gen,
		"encrypt":  encrypt,
		"decrypt":  decrypt,
		"info":     info,
		"protect":  protect,
		"split":    split,
		"combine":  combine,
		"version":  version,

		"help": func(_ []string) {
			usage(0)
		},
	}

	words := make([]string, 0, len(cmds))
	for k := range cmds {
		words = append(words, k)
	}

	ab := utils.Abbrev(words)
	canon, ok := ab[strings.ToLower(args[0])]
	if !ok {
		Die("Unknown command %s", args[0])
	}

	cmd := cmds[canon]
	if cmd == nil {
		Die("can't map command %s", canon)
	}

	log.Debug().Str("cmd", canon).Str("config", cfgfile).Msg("start")
	cmd(args[1:])

	// always call Exit so that at-exit handlers are called.
	Exit(0)
}

func usage(c int) {
	x := fmt.Sprintf(`%s is a tool to encrypt files to X25519 public keys, protect
private keys with a passphrase and split them into threshold shares.

Usage: %s [global-options] command [options] arg [args..]

Global options:
  -h, --help         Show help and exit
  -v, --version      Show version info and exit
  --config F         Read configuration from F
  --log-level L      Set the log level (debug, info, warn, error)
  --log-format F     Set the log format (console, json)
  --debug            Same as --log-level debug

Commands:
  generate, g        Generate a new X25519 keypair
  encrypt, e         Encrypt a file to a recipient public key
  decrypt, d         Decrypt a file with a private key
  info, i            Show the metadata of encrypted files or key fingerprints
  protect, p         Add, change or remove the passphrase of a private key
  split, s           Split a private key (or a small file) into shares
  combine, c         Recombine shares into a private key (or a file)
  version, v         Show build information
`, Z, Z)

	os.Stdout.Write([]byte(x))
	os.Exit(c)
}

// vim: ft=go:sw=8:ts=8:noexpandtab:tw=98:
