//go:build windows

package stream

import (
	"os"

	"golang.org/x/sys/windows"
)

const lockWholeFile = ^uint32(0)

func tryExclusiveLock(file *os.File) bool {
	if file == nil {
		return false
	}
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(windows.Handle(file.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, lockWholeFile, lockWholeFile, ol)
	return err == nil
}

func unlockFile(file *os.File) {
	if file == nil {
		return
	}
	ol := new(windows.Overlapped)
	_ = windows.UnlockFileEx(windows.Handle(file.Fd()), 0, lockWholeFile, lockWholeFile, ol)
}
