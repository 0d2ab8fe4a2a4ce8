package main

import "fmt"
import "os"

import log "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/urfave/cli/v2"

import "github.com/bnclabs/gomalloc/malloc"

func main() {
	app := &cli.App{
		Name:  "heapctl",
		Usage: "exercise and inspect the first-fit heap",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "capacity",
				Value: "1GiB",
				Usage: "maximum size the arena can grow to",
			},
			&cli.Int64Flag{
				Name:  "chunksize",
				Value: malloc.Chunksize,
				Usage: "granularity, in bytes, for extending the arena",
			},
			&cli.StringFlag{
				Name:  "extender",
				Usage: "primitive to obtain memory, mmap or heap",
			},
			&cli.StringFlag{
				Name:  "loglevel",
				Value: "ignore",
				Usage: "ignore, fatal, error, warn, info, verbose, debug, trace",
			},
		},
		Before: func(c *cli.Context) error {
			setts := map[string]interface{}{
				"log.level":      c.String("loglevel"),
				"log.colorfatal": "red",
				"log.colorerror": "hired",
				"log.colorwarn":  "yellow",
			}
			log.SetLogger(nil, setts)
			if c.String("loglevel") != "ignore" {
				malloc.LogComponents("malloc")
			}
			return nil
		},
		Commands: []*cli.Command{
			callocCommand(),
			stressCommand(),
			dumpCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "heapctl: %v\n", err)
		os.Exit(1)
	}
}

func newheap(c *cli.Context) (*malloc.Heap, error) {
	capacity, err := humanize.ParseBytes(c.String("capacity"))
	if err != nil {
		return nil, fmt.Errorf("invalid --capacity: %v", err)
	}
	setts := s.Settings{
		"arena.capacity":  int64(capacity),
		"arena.chunksize": c.Int64("chunksize"),
	}
	if extender := c.String("extender"); extender != "" {
		setts["arena.extender"] = extender
	}
	return malloc.NewHeap(setts), nil
}

func printinfo(h *malloc.Heap) {
	capacity, heap, alloc, overhead := h.Info()
	fmt.Printf("capacity  : %v\n", humanize.IBytes(uint64(capacity)))
	fmt.Printf("heap      : %v\n", humanize.IBytes(uint64(heap)))
	fmt.Printf("allocated : %v\n", humanize.IBytes(uint64(alloc)))
	fmt.Printf("overhead  : %v\n", humanize.IBytes(uint64(overhead)))
}
