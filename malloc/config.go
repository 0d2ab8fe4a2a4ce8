package malloc

import "runtime"

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Defaultsettings for a heap.
//
// "arena.capacity" (int64, default: <free RAM>)
//
//	Maximum number of bytes the arena can grow to. Address space
//	for the entire capacity is reserved when "arena.extender" is
//	"mmap", but committed only as the arena grows.
//
// "arena.chunksize" (int64, default: 4096)
//
//	Arena is extended in multiples of chunksize, to amortize the
//	cost of extending for small allocations. Shall be a multiple
//	of Alignment.
//
// "arena.extender" (string, default: "mmap" on linux, "heap" otherwise)
//
//	Primitive to obtain memory from OS, "mmap" or "heap".
//
// "debug.checkfree" (bool, default: true)
//
//	Check pointers passed to Free and Realloc, panic with
//	ErrorInvalidFree for pointers outside the arena and for double
//	free.
//
// "stats.histogram" (bool, default: true)
//
//	Maintain a histogram of requested sizes.
func Defaultsettings() s.Settings {
	_, _, free := getsysmem()
	capacity := int64(free)
	if capacity <= 0 || capacity > Maxarenasize {
		capacity = Maxarenasize
	}
	capacity = (capacity / Chunksize) * Chunksize
	extender := "heap"
	if runtime.GOOS == "linux" {
		extender = "mmap"
	}
	return s.Settings{
		"arena.capacity":  capacity,
		"arena.chunksize": Chunksize,
		"arena.extender":  extender,
		"debug.checkfree": true,
		"stats.histogram": true,
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
