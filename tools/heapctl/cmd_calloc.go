package main

import "bytes"
import "fmt"

import humanize "github.com/dustin/go-humanize"
import "github.com/urfave/cli/v2"

import "github.com/bnclabs/gomalloc/api"

func callocCommand() *cli.Command {
	return &cli.Command{
		Name:  "calloc",
		Usage: "zero-allocate sizes 2^from to 2^till, verify and free each",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "from", Value: 2, Usage: "smallest power of two"},
			&cli.IntFlag{Name: "till", Value: 29, Usage: "largest power of two"},
		},
		Action: docalloc,
	}
}

func docalloc(c *cli.Context) error {
	from, till := c.Int("from"), c.Int("till")
	if from < 0 || till > 62 || from > till {
		return fmt.Errorf("invalid range [%v, %v]", from, till)
	}
	h, err := newheap(c)
	if err != nil {
		return err
	}
	defer h.Release()

	zeros, maxsize := make([]byte, 64*1024), int64(0)
	for i := from; i <= till; i++ {
		size := int64(1) << uint(i)
		ptr := h.Calloc(1, size)
		if ptr == api.Nilptr {
			fmsg := "calloc %v failed, max size allocated %v: %v"
			return fmt.Errorf(fmsg, size, maxsize, h.LastError())
		}
		buf := h.Bytes(ptr, size)
		for off := 0; off < len(buf); off += len(zeros) {
			chunk := buf[off:]
			if len(chunk) > len(zeros) {
				chunk = chunk[:len(zeros)]
			}
			if !bytes.Equal(chunk, zeros[:len(chunk)]) {
				return fmt.Errorf("calloc %v not zeroed at %v", size, off)
			}
		}
		for j := range buf {
			buf[j] = 0xa5
		}
		h.Free(ptr)
		maxsize = size
		fmt.Printf("calloc %-10v ok\n", humanize.IBytes(uint64(size)))
	}
	h.Validate()
	printinfo(h)
	return nil
}
