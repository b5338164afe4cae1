//go:build !windows

package stream

import (
	"os"

	"golang.org/x/sys/unix"
)

func tryExclusiveLock(file *os.File) bool {
	if file == nil {
		return false
	}
	return unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB) == nil
}

func unlockFile(file *os.File) {
	if file == nil {
		return
	}
	_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
}
