//go:build !linux

package shogun

// madviseSequential is a no-op on non-Linux platforms.
// MADV_SEQUENTIAL is Linux-specific.
func madviseSequential(data []byte) {
	// No-op
}
