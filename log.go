// log.go -- diagnostic logging hook
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

package x25f

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var logp atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logp.Store(&nop)
}

// SetLogger directs the package diagnostics to l. The default logger
// discards everything. Secret material is never logged.
func SetLogger(l zerolog.Logger) {
	l = l.With().Str("pkg", "x25f").Logger()
	logp.Store(&l)
}

func logger() *zerolog.Logger {
	return logp.Load()
}
