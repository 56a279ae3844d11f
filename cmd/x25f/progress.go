// progress.go -- spinner driven by the x25f progress callback
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
	"time"

	"github.com/briandowns/spinner"
	"github.com/opencoff/go-utils"
	"github.com/opencoff/x25f"
)

// newProgress returns a callback that spins on stderr between the
// start and completion reports of an operation. It returns nil when
// 'quiet' is set.
func newProgress(verb, name string, quiet bool) x25f.Progress {
	if quiet {
		return nil
	}

	var s *spinner.Spinner
	return func(done, total uint64) {
		if s == nil {
			s = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(os.Stderr))
			s.Suffix = fmt.Sprintf(" %s %s (%s)", verb, name, utils.HumanizeSize(total))
			_ = s.Color("cyan")
			AtExit(s.Stop)
			s.Start()
			return
		}

		s.FinalMSG = fmt.Sprintf("%s %s: %s done\n", verb, name, utils.HumanizeSize(done))
		s.Stop()
	}
}
