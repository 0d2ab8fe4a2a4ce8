package malloc

import "io"
import "strconv"

import gohumanize "github.com/dustin/go-humanize"
import "github.com/olekukonko/tablewriter"

// Dump every block in the arena, its offset, size and state, to w. Meant
// for debugging only.
func (h *Heap) Dump(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"offset", "data", "size", "capacity", "state"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	mem, end := h.arena.mem, h.arena.end()
	for off := int64(0); off < end; off += getsize(mem, off) {
		size, state := getsize(mem, off), "used"
		if isfree(mem, off) {
			state = "free"
		}
		table.Append([]string{
			strconv.FormatInt(off, 10),
			strconv.FormatInt(int64(dataof(off)), 10),
			strconv.FormatInt(size, 10),
			gohumanize.IBytes(uint64(size - Headersize)),
			state,
		})
		if size <= 0 { // corrupted header, avoid spinning.
			break
		}
	}
	_, heap, alloc, _ := h.info()
	table.SetFooter([]string{
		"", "", strconv.FormatInt(heap, 10), gohumanize.IBytes(uint64(alloc)), "",
	})
	table.Render()
}
