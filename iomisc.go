// iomisc.go -- misc i/o functions
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
	"fmt"
	"os"

	"github.com/opencoff/go-fio"
	"github.com/opencoff/go-mmap"
)

// WriteFile reliably writes data to a file. Unlike os.WriteFile() it
// never trashes an existing file with an incomplete write: the data
// goes to a temporary file that is renamed into place only on
// success. An existing file is replaced only when 'ovwrite' is set.
func WriteFile(fn string, b []byte, ovwrite bool, mode os.FileMode) error {
	var opts uint32
	if ovwrite {
		opts |= fio.OPT_OVERWRITE
	} else if exists(fn) {
		return fmt.Errorf("%s: %w", fn, ErrExists)
	}

	sf, err := fio.NewSafeFile(fn, opts, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return ioErr(fn, err)
	}
	defer sf.Abort()

	if _, err = sf.Write(b); err != nil {
		return ioErr(fn, err)
	}

	if err = sf.Close(); err != nil {
		return ioErr(fn, err)
	}
	return nil
}

// ReadFile returns the contents of 'fn'; the file is mmap'd and
// copied out.
func ReadFile(fn string) ([]byte, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, ioErr(fn, err)
	}

	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return nil, ioErr(fn, err)
	}

	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: not a regular file", ErrIO, fn)
	}

	buf := make([]byte, 0, fi.Size())

	// can't mmap an empty file
	if fi.Size() == 0 {
		return buf, nil
	}

	_, err = mmap.Reader(fd, func(b []byte) error {
		buf = append(buf, b...)
		return nil
	})
	if err != nil {
		return nil, ioErr(fn, err)
	}

	return buf, nil
}

func exists(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil
}

func ioErr(fn string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, fn, err)
}
