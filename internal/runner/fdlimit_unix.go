//go:build unix

package runner

import "golang.org/x/sys/unix"

// raiseFileLimit lifts the soft open-file limit to the hard limit. Wide
// mapping configurations hold one file per table per concurrent unit, which
// can exceed conservative default soft limits.
func raiseFileLimit() error {
	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		return err
	}
	if lim.Cur >= lim.Max {
		return nil
	}
	lim.Cur = lim.Max
	return unix.Setrlimit(unix.RLIMIT_NOFILE, &lim)
}
