//go:build !windows

package wipeengine

import "syscall"

// syncFS issues the POSIX system-wide sync.
func syncFS() error {
	syscall.Sync()
	return nil
}
