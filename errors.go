// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"syscall"
)

var (
	// ErrLayout reports a page geometry that cannot hold a single table row.
	ErrLayout = errors.New("layout cannot place any item row")

	// ErrDestinationLocked reports an output file that could not be written,
	// usually because another program holds it open.
	ErrDestinationLocked = errors.New("subor je pravdepodobne otvoreny alebo zamknuty")

	// ErrRenderFailed is returned when both the layout and the plain text
	// renderer fail.
	ErrRenderFailed = errors.New("unable to render PDF")
)

func sprintfErr(base error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}

// Windows ERROR_SHARING_VIOLATION.
const errnoSharingViolation = syscall.Errno(32)

// IsDestinationLocked reports whether err means the destination file is held
// or protected by someone else.
func IsDestinationLocked(err error) bool {
	if errors.Is(err, ErrDestinationLocked) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY) {
		return true
	}

	var errno syscall.Errno
	return runtime.GOOS == "windows" && errors.As(err, &errno) && errno == errnoSharingViolation
}
