//go:build linux || darwin

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// カーネルのリリース番号を取得
func KernelVersion() (Version, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Version{}, fmt.Errorf("uname: %w", err)
	}
	return ParseVersion(unix.ByteSliceToString(u.Release[:]))
}
