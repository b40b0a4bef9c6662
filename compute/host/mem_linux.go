//go:build linux

package host

import "golang.org/x/sys/unix"

func systemMemory() uint64 {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return defaultSystemMemory
	}
	total := uint64(si.Totalram) * uint64(si.Unit)
	if total == 0 {
		return defaultSystemMemory
	}
	return total
}
