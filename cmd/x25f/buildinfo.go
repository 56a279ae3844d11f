// buildinfo.go -- build and dependency information for 'version'
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
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	flag "github.com/opencoff/pflag"
	"github.com/opencoff/x25f"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	*debug.BuildInfo

	Revision  string
	BuildTime string
	Dirty     bool
}

// ReadBuildInfo returns build information for the running binary.
func ReadBuildInfo() (*BuildInfo, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, false
	}

	bi := &BuildInfo{BuildInfo: info}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			bi.Revision = s.Value
		case "vcs.time":
			bi.BuildTime = s.Value
		case "vcs.modified":
			bi.Dirty = s.Value == "true"
		}
	}
	return bi, true
}

// String returns a human-readable representation of build information.
func (bi *BuildInfo) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Module: %s %s\n", bi.Main.Path, bi.Main.Version)
	fmt.Fprintf(&sb, "Go Toolchain: %s\n", bi.GoVersion)
	if len(bi.BuildTime) > 0 {
		fmt.Fprintf(&sb, "Build Time: %s\n", bi.BuildTime)
	}
	if len(bi.Revision) > 0 {
		fmt.Fprintf(&sb, "Revision: %s", bi.Revision)
		if bi.Dirty {
			sb.WriteString("+dirty")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Envelope: v%d %s %s %s\n", x25f.Version,
		x25f.KEMAlgo, x25f.KDFAlgo, x25f.AEADAlgo)

	if len(bi.Deps) > 0 {
		fmt.Fprintf(&sb, "Dependencies: %d\n", len(bi.Deps))
		for _, dep := range bi.Deps {
			fmt.Fprintf(&sb, "  %s %s", dep.Path, dep.Version)
			if dep.Replace != nil {
				fmt.Fprintf(&sb, " => %s %s", dep.Replace.Path, dep.Replace.Version)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// JSON returns a JSON representation of build information.
func (bi *BuildInfo) JSON() (string, error) {
	type jsonDep struct {
		Path    string `json:"path"`
		Version string `json:"version"`
		Replace string `json:"replace,omitempty"`
	}

	type jsonBuildInfo struct {
		Module          string    `json:"module"`
		Version         string    `json:"version,omitempty"`
		GoVersion       string    `json:"go_version"`
		Revision        string    `json:"revision,omitempty"`
		BuildTime       string    `json:"build_time,omitempty"`
		Dirty           bool      `json:"dirty,omitempty"`
		EnvelopeVersion int       `json:"envelope_version"`
		Dependencies    []jsonDep `json:"dependencies,omitempty"`
	}

	r := jsonBuildInfo{
		Module:          bi.Main.Path,
		Version:         bi.Main.Version,
		GoVersion:       bi.GoVersion,
		Revision:        bi.Revision,
		BuildTime:       bi.BuildTime,
		Dirty:           bi.Dirty,
		EnvelopeVersion: x25f.Version,
	}

	for _, d := range bi.Deps {
		jd := jsonDep{Path: d.Path, Version: d.Version}
		if d.Replace != nil {
			jd.Replace = d.Replace.Path + "@" + d.Replace.Version
		}
		r.Dependencies = append(r.Dependencies, jd)
	}

	b, err := json.MarshalIndent(&r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Run the version command
func version(args []string) {
	var help, js bool

	fs := flag.NewFlagSet("version", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")
	fs.BoolVarP(&js, "json", "j", false, "Show build info as JSON")
	fs.Parse(args)

	if help {
		fmt.Printf("Usage: %s version [--json]\n\nOptions:\n", Z)
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		os.Exit(0)
	}

	bi, ok := ReadBuildInfo()
	if !ok {
		Die("no build info in this binary")
	}

	if !js {
		fmt.Printf("%s\n%s", Z, bi)
		return
	}

	s, err := bi.JSON()
	if err != nil {
		Die("%s", err)
	}
	fmt.Println(s)
}
