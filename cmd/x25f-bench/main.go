// main.go -- throughput benchmark for x25f
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
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/opencoff/go-utils"
	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
)

var Z = filepath.Base(os.Args[0])

type benchSize struct {
	name string
	size uint64
}

var defaultSizes = "4k,64k,1M,16M,128M"

type benchResult struct {
	operation  string
	size       string
	sizeBytes  uint64
	elapsedMs  float64
	throughput float64 // MB/s; 0 for fixed cost operations
}

// a single benchmarked operation; 'setup' runs once per size outside
// the timed region.
type bench struct {
	name  string
	fixed bool
	setup func(pt []byte) func() error
}

func main() {
	var iters int
	var format string
	var opsStr string
	var verbose bool
	var help bool
	var scryptN int
	var threshold, nshares int
	var cpuProfile string
	var memProfile string

	fs := flag.NewFlagSet(Z, flag.ExitOnError)
	fs.IntVarP(&iters, "iterations", "n", 3, "Number of iterations per test")
	fs.StringVarP(&format, "format", "f", "table", "Output format: \"table\" or \"csv\"")
	fs.StringVarP(&opsStr, "ops", "o", "all", "Operations: encrypt,decrypt,protect,split or \"all\"")
	fs.IntVarP(&scryptN, "scrypt-n", "N", x25f.ScryptN, "Scrypt cost `N` for the protect benchmark")
	fs.IntVarP(&threshold, "threshold", "t", 3, "Share threshold for the split benchmark")
	fs.IntVarP(&nshares, "shares", "s", 5, "Number of shares for the split benchmark")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Show per-iteration timings")
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit")
	fs.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to `file`")
	fs.StringVar(&memProfile, "memprofile", "", "Write memory profile to `file`")

	fs.Parse(os.Args[1:])

	if help {
		usage(fs)
	}

	if iters < 1 {
		Die("iterations must be >= 1")
	}

	szStr := "all"
	if args := fs.Args(); len(args) > 0 {
		szStr = args[0]
	}

	sizes := parseSizes(szStr)
	ops := parseOps(opsStr)

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			Die("cpuprofile: %s", err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	sk, err := x25f.GenerateKeyPair("bench")
	if err != nil {
		Die("keygen: %s", err)
	}
	pk := sk.PublicKey()
	kp := &x25f.KeyProtector{N: scryptN, R: x25f.ScryptR, P: x25f.ScryptP}
	pw := []byte("bench-passphrase")

	benches := []bench{
		{"Encrypt", false, func(pt []byte) func() error {
			return func() error {
				_, err := x25f.Encrypt(pt, pk, nil)
				return err
			}
		}},
		{"Decrypt", false, func(pt []byte) func() error {
			env, err := x25f.Encrypt(pt, pk, nil)
			if err != nil {
				Die("decrypt setup: %s", err)
			}
			return func() error {
				_, err := x25f.Decrypt(env, sk, nil)
				return err
			}
		}},
		{"Protect", true, func(_ []byte) func() error {
			return func() error {
				b, err := kp.Protect(sk, pw)
				if err != nil {
					return err
				}
				_, err = x25f.UnprotectPrivateKey(b, pw)
				return err
			}
		}},
		{"Split", true, func(_ []byte) func() error {
			return func() error {
				shares, err := x25f.SplitPrivateKey(sk, pw, threshold, nshares)
				if err != nil {
					return err
				}
				_, err = x25f.RecoverPrivateKey(shares[:threshold], pw)
				return err
			}
		}},
	}

	var results []benchResult
	for _, b := range benches {
		if !ops[strings.ToLower(b.name)] {
			continue
		}

		fmt.Fprintf(os.Stderr, "Benchmarking %s...\n", b.name)

		// fixed cost operations don't depend on the input size
		bsz := sizes
		if b.fixed {
			bsz = []benchSize{{"-", 0}}
		}

		for _, sz := range bsz {
			fn := b.setup(randBytes(sz.size))
			durations := make([]time.Duration, iters)
			for i := 0; i < iters; i++ {
				start := time.Now()
				err := fn()
				durations[i] = time.Since(start)
				if err != nil {
					Die("%s %s: %s", b.name, sz.name, err)
				}
			}

			results = append(results, summarize(b.name, sz, durations))
			if verbose {
				printIterations(b.name, sz.name, durations)
			}
		}
	}

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			Die("memprofile: %s", err)
		}
		runtime.GC()
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	switch format {
	case "csv":
		formatCSV(results)
	default:
		formatTable(results)
	}
}

// parseSizes parses a comma separated list of sizes such as "4k,1M"
func parseSizes(s string) []benchSize {
	if strings.EqualFold(s, "all") {
		s = defaultSizes
	}

	var sizes []benchSize
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}

		n, err := utils.ParseSize(p)
		if err != nil {
			Die("size %q: %s", p, err)
		}
		sizes = append(sizes, benchSize{name: utils.HumanizeSize(n), size: n})
	}

	if len(sizes) == 0 {
		Die("no sizes to benchmark")
	}
	return sizes
}

var allOps = []string{"encrypt", "decrypt", "protect", "split"}

func parseOps(s string) map[string]bool {
	ops := make(map[string]bool)
	if strings.ToLower(s) == "all" {
		for _, o := range allOps {
			ops[o] = true
		}
		return ops
	}

	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToLower(p))
		switch p {
		case "encrypt", "decrypt", "protect", "split":
			ops[p] = true
		default:
			Die("unknown operation %q; valid: %s,all", p, strings.Join(allOps, ","))
		}
	}
	return ops
}

func randBytes(n uint64) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		Die("rand: %s", err)
	}
	return b
}

func summarize(op string, bs benchSize, durations []time.Duration) benchResult {
	med := median(durations)
	var tp float64
	if bs.size > 0 && med > 0 {
		tp = float64(bs.size) / med.Seconds() / (1024 * 1024)
	}
	return benchResult{
		operation:  op,
		size:       bs.name,
		sizeBytes:  bs.size,
		elapsedMs:  float64(med.Nanoseconds()) / 1e6,
		throughput: tp,
	}
}

func median(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}

	v := slices.Clone(d)
	slices.Sort(v)

	n := len(v)
	if n%2 == 0 {
		return (v[n/2-1] + v[n/2]) / 2
	}
	return v[n/2]
}

func printIterations(op, size string, d []time.Duration) {
	for i := range d {
		ms := float64(d[i].Microseconds()) / 1e3
		fmt.Fprintf(os.Stderr, "  %-8s %-8s #%d %10.3f ms\n", op, size, i+1, ms)
	}
}

// format a float with precision that shrinks as the value grows
func fmtFloat(v float64) string {
	switch {
	case v >= 100:
		return fmt.Sprintf("%.0f", v)
	case v >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func formatTable(results []benchResult) {
	fmt.Println()
	fmt.Printf("%s: Performance Report\n", Z)
	fmt.Println(strings.Repeat("=", len(Z)+20))
	fmt.Println()
	fmt.Printf("%-10s %-10s %-10s %-10s\n", "Operation", "Size", "MB/s", "ms")
	fmt.Printf("%-10s %-10s %-10s %-10s\n", "----------", "----------", "----------", "----------")

	for _, r := range results {
		tp := "N/A"
		if r.throughput > 0 {
			tp = fmtFloat(r.throughput)
		}
		fmt.Printf("%-10s %-10s %-10s %-10s\n", r.operation, r.size, tp, fmtFloat(r.elapsedMs))
	}
	fmt.Println()
}

func formatCSV(results []benchResult) {
	fmt.Println("operation,size,size_bytes,elapsed_ms,throughput_mbps")
	for _, r := range results {
		fmt.Printf("%s,%s,%d,%.3f,%.2f\n",
			r.operation, r.size, r.sizeBytes, r.elapsedMs, r.throughput)
	}
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(`%s - Performance benchmark tool for x25f

Usage: %s [options] [sizes..]

Benchmarks in-memory encrypt/decrypt at various sizes, and the fixed
cost of protecting a private key (scrypt) and splitting it into shares.

Sizes are optional and can be comma separated.

Options:
`, Z, Z)
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Printf(`
Examples:
  %s                            # Run all benchmarks with default sizes
  %s -n 5 1KB,1MB,1GB           # Custom sizes, 5 iterations
  %s -o encrypt,decrypt -f csv  # Only encrypt/decrypt, CSV output
  %s -o protect -N 1048576      # Protect with the maximum scrypt cost
`, Z, Z, Z, Z)
	os.Exit(0)
}

// Die prints an error message to stderr and exits.
func Die(f string, v ...interface{}) {
	s := fmt.Sprintf("%s: %s", Z, fmt.Sprintf(f, v...))
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// vim: noexpandtab:ts=8:sw=8:tw=92:
