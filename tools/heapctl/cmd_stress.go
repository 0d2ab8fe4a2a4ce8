package main

import "fmt"
import "math/rand"
import "time"

import "github.com/urfave/cli/v2"
import "golang.org/x/sync/errgroup"

import "github.com/bnclabs/gomalloc/api"
import "github.com/bnclabs/gomalloc/malloc"

func stressCommand() *cli.Command {
	return &cli.Command{
		Name:  "stress",
		Usage: "concurrent random alloc and free, followed by validation",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "routines", Value: 8, Usage: "number of routines"},
			&cli.IntFlag{Name: "ops", Value: 100000, Usage: "operations per routine"},
			&cli.Int64Flag{Name: "maxsize", Value: 4096, Usage: "largest allocation"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed, default is time"},
		},
		Action: dostress,
	}
}

type liveblock struct {
	ptr  api.Ptr
	size int64
}

func dostress(c *cli.Context) error {
	routines, ops := c.Int("routines"), c.Int("ops")
	maxsize, seed := c.Int64("maxsize"), c.Int64("seed")
	if maxsize <= 0 {
		return fmt.Errorf("invalid --maxsize %v", maxsize)
	} else if seed == 0 {
		seed = time.Now().UnixNano()
	}
	h, err := newheap(c)
	if err != nil {
		return err
	}
	defer h.Release()

	now := time.Now()
	g, ctx := errgroup.WithContext(c.Context)
	for n := 0; n < routines; n++ {
		n := n
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(seed + int64(n)))
			live := make([]liveblock, 0, 1024)
			for i := 0; i < ops; i++ {
				if (i%1024) == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				if len(live) > 0 && rnd.Intn(2) == 0 {
					j := rnd.Intn(len(live))
					if err := stressfree(h, live[j], byte(n)); err != nil {
						return err
					}
					live[j] = live[len(live)-1]
					live = live[:len(live)-1]
					continue
				}
				size := rnd.Int63n(maxsize) + 1
				ptr := h.Alloc(size)
				if ptr == api.Nilptr {
					return fmt.Errorf("alloc(%v): %v", size, h.LastError())
				}
				buf := h.Bytes(ptr, size)
				for k := range buf {
					buf[k] = byte(n)
				}
				live = append(live, liveblock{ptr: ptr, size: size})
			}
			for _, blk := range live {
				if err := stressfree(h, blk, byte(n)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := validate(h); err != nil {
		return err
	}
	fmt.Printf("%v routines x %v ops in %v, seed %v\n",
		routines, ops, time.Since(now).Round(time.Millisecond), seed)
	printinfo(h)
	h.Log(true)
	return nil
}

func stressfree(h *malloc.Heap, blk liveblock, n byte) error {
	for _, b := range h.Bytes(blk.ptr, blk.size) {
		if b != n {
			return fmt.Errorf("block %v corrupted, expected %v got %v", blk.ptr, n, b)
		}
	}
	h.Free(blk.ptr)
	return nil
}

func validate(h *malloc.Heap) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validate: %v", r)
		}
	}()
	h.Validate()
	return nil
}
