package main

import "math/rand"
import "os"

import "github.com/urfave/cli/v2"

import "github.com/bnclabs/gomalloc/api"

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "random allocations, free every other block, dump the arena",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "allocs", Value: 32, Usage: "number of allocations"},
			&cli.Int64Flag{Name: "maxsize", Value: 1024, Usage: "largest allocation"},
		},
		Action: dodump,
	}
}

func dodump(c *cli.Context) error {
	h, err := newheap(c)
	if err != nil {
		return err
	}
	defer h.Release()

	maxsize := c.Int64("maxsize")
	if maxsize <= 0 {
		maxsize = 1024
	}
	ptrs := make([]api.Ptr, 0, c.Int("allocs"))
	for i := 0; i < c.Int("allocs"); i++ {
		ptrs = append(ptrs, h.Alloc(rand.Int63n(maxsize)+1))
	}
	for i := 0; i < len(ptrs); i += 2 {
		h.Free(ptrs[i])
	}
	h.Dump(os.Stdout)
	return validate(h)
}
