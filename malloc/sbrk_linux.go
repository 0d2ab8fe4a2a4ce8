//go:build linux

package malloc

import "fmt"
import "os"

import "golang.org/x/sys/unix"

// mmapextender reserves address space for the whole capacity without
// committing it, each Extend makes the next range readable/writable.
type mmapextender struct {
	reserved  []byte
	committed int64
	protected int64 // page aligned, >= committed
	pagesize  int64
}

func newmmapextender(capacity int64) (Extender, error) {
	pagesize := int64(os.Getpagesize())
	capacity = ((capacity + pagesize - 1) / pagesize) * pagesize
	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE
	mem, err := unix.Mmap(-1, 0, int(capacity), unix.PROT_NONE, flags)
	if err != nil {
		return nil, fmt.Errorf("malloc: reserving %v bytes: %w", capacity, err)
	}
	return &mmapextender{reserved: mem, pagesize: pagesize}, nil
}

func (ext *mmapextender) Extend(n int64) ([]byte, error) {
	if ext.reserved == nil {
		return nil, ErrorReleased
	}
	limit := int64(len(ext.reserved))
	if n > limit-ext.committed {
		fmsg := "%w: extend by %v, committed %v of %v"
		return nil, fmt.Errorf(fmsg, ErrorArenaExhausted, n, ext.committed, limit)
	}
	till := ext.committed + n
	if till > ext.protected {
		upto := ((till + ext.pagesize - 1) / ext.pagesize) * ext.pagesize
		region := ext.reserved[ext.protected:upto]
		err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			return nil, fmt.Errorf("%w: mprotect: %v", ErrorArenaExhausted, err)
		}
		ext.protected = upto
	}
	ext.committed = till
	return ext.reserved[:ext.committed], nil
}

func (ext *mmapextender) Capacity() int64 {
	return int64(len(ext.reserved))
}

func (ext *mmapextender) Release() error {
	if ext.reserved == nil {
		return nil
	}
	err := unix.Munmap(ext.reserved)
	ext.reserved, ext.committed, ext.protected = nil, 0, 0
	return err
}
