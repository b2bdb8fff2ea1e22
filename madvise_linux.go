//go:build linux

package shogun

import "golang.org/x/sys/unix"

// madviseSequential hints to the kernel that the mapped record region will
// be read sequentially. Best-effort: errors are silently ignored.
func madviseSequential(data []byte) {
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
