// die.go -- die(), warn() and at-exit handlers
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

	"github.com/fatih/color"
)

var atExit []func()

var (
	errPrefix  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnPrefix = color.New(color.FgYellow).SprintFunc()
)

// Die prints an error message to stderr
// and exits the program after calling all the registered
// at-exit functions.
func Die(f string, v ...interface{}) {
	warn(errPrefix(Z), f, v...)
	Exit(1)
}

// Warn prints a warning message to stderr
func Warn(f string, v ...interface{}) {
	warn(warnPrefix(Z), f, v...)
}

func warn(pref string, f string, v ...interface{}) {
	s := fmt.Sprintf("%s: %s", pref, fmt.Sprintf(f, v...))
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}

	color.Error.Write([]byte(s))
	os.Stderr.Sync()
}

// AtExit registers a function to be called before the program exits.
func AtExit(f func()) {
	atExit = append(atExit, f)
}

// Exit invokes the registered atexit handlers and exits with the
// given code.
func Exit(v int) {
	for _, f := range atExit {
		f()
	}
	os.Exit(v)
}
