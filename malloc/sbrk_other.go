//go:build !linux

package malloc

import "fmt"

func newmmapextender(capacity int64) (Extender, error) {
	return nil, fmt.Errorf("malloc: mmap extender not supported on this platform")
}
