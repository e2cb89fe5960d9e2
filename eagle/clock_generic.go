//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !solaris
// +build !linux,!darwin,!dragonfly,!freebsd,!netbsd,!openbsd,!solaris

package eagle

import "time"

var start = time.Now()

// monotonicMillis returns the time elapsed since the process started.
func monotonicMillis() (int64, error) {
	return time.Since(start).Milliseconds(), nil
}
