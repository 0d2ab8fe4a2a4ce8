package malloc

import "errors"
import "fmt"

// ErrorArenaExhausted the arena could not be extended to satisfy an
// allocation. The failed request returns Nilptr, heap stays usable.
var ErrorArenaExhausted = errors.New("malloc.arenaexhausted")

// ErrorOverflow count*size overflowed in Calloc.
var ErrorOverflow = errors.New("malloc.overflow")

// ErrorInvalidFree pointer passed to Free or Realloc is not a live
// allocation from this heap. This is a programming error, reported by
// panic.
var ErrorInvalidFree = errors.New("malloc.invalidfree")

// ErrorReleased heap, or its extender, is already released.
var ErrorReleased = errors.New("malloc.released")

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
