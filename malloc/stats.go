package malloc

import "fmt"
import "encoding/json"

import gohumanize "github.com/dustin/go-humanize"
import log "github.com/bnclabs/golog"

// Info of memory accounting for this heap. capacity is the maximum
// arena size, heap is the current arena size, alloc is the memory held
// by used blocks, including their headers, overhead is the memory spent
// on headers and on the free index.
func (h *Heap) Info() (capacity, heap, alloc, overhead int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.info()
}

func (h *Heap) info() (capacity, heap, alloc, overhead int64) {
	if h.arena.ext != nil {
		capacity = h.arena.capacity()
	}
	heap, alloc = h.arena.end(), h.usedbytes
	overhead = (h.n_usedblocks+h.index.count)*Headersize + h.index.overhead()
	return
}

// Stats return heap statistics.
func (h *Heap) Stats() map[string]interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats()
}

func (h *Heap) stats() map[string]interface{} {
	capacity, heap, alloc, overhead := h.info()
	stats := map[string]interface{}{
		"capacity":     capacity,
		"heap":         heap,
		"allocated":    alloc,
		"available":    heap - alloc,
		"overhead":     overhead,
		"freebytes":    h.index.bytes,
		"n_allocs":     h.n_allocs,
		"n_callocs":    h.n_callocs,
		"n_reallocs":   h.n_reallocs,
		"n_frees":      h.n_frees,
		"n_grows":      h.arena.n_grows,
		"n_splits":     h.n_splits,
		"n_merges":     h.n_merges,
		"n_failed":     h.n_failed,
		"n_usedblocks": h.n_usedblocks,
		"n_freeblocks": h.index.count,
		"a_searchdepth": map[string]interface{}{
			"samples": h.a_searchdepth.Samples(),
			"min":     h.a_searchdepth.Min(),
			"max":     h.a_searchdepth.Max(),
			"mean":    h.a_searchdepth.Mean(),
		},
	}
	if heap > 0 {
		stats["utilization"] = float64(alloc) / float64(heap)
	}
	if h.h_allocsize != nil {
		stats["h_allocsize"] = h.h_allocsize.Fullstats()
	}
	return stats
}

// Log heap statistics, if humanize is true memory figures are logged in
// human readable form.
func (h *Heap) Log(humanize bool) {
	h.mu.Lock()
	stats := h.stats()
	h.mu.Unlock()

	dohumanize := func(val interface{}) interface{} {
		if humanize {
			return gohumanize.Bytes(uint64(val.(int64)))
		}
		return val.(int64)
	}
	capacity, heap := dohumanize(stats["capacity"]), dohumanize(stats["heap"])
	alloc, avail := dohumanize(stats["allocated"]), dohumanize(stats["available"])
	overh := dohumanize(stats["overhead"])
	fmsg := "malloc: capacity %v heap %v allocated %v available %v overhd %v\n"
	log.Infof(fmsg, capacity, heap, alloc, avail, overh)

	text, err := json.Marshal(stats)
	if err != nil {
		panic(fmt.Errorf("log(): %v", err))
	}
	log.Infof("malloc: stats %v\n", string(text))
}
