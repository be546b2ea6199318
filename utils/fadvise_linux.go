//go:build linux

package utils

import (
	"os"

	"golang.org/x/sys/unix"
)

// Hints to the kernel that the file will be streamed; errors are not interesting.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_WILLNEED)
}
