package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"padmap/pkg/msg"
	"padmap/pkg/ortho"
	"padmap/pkg/pipeline"
)

const usage = `usage: deploy <geotiff-path> <paddock-name> <date> [variant]

  geotiff-path  existing GeoTIFF file
  paddock-name  kebab-case, e.g. "p1" or "north-forty"
  date          capture date, YYYY-MM-DD
  variant       "rgb" | "raw" | omitted
`

func main() {
	queue := flag.Bool("queue", false, "queue the deploy for the worker instead of running it here")
	flag.Parse()

	cfg := ortho.LoadConfig()

	req, err := ortho.ParseArgs(flag.Args())
	if err != nil {
		if errors.Is(err, ortho.ErrUsage) {
			fmt.Print(usage)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if *queue {
		if err := enqueue(cfg, req); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("queued:", req.Layer())
		return
	}

	d := pipeline.New(cfg)
	if _, err := d.Run(req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func enqueue(cfg *ortho.Config, req *ortho.DeployRequest) error {
	pub, err := msg.NewPublisher(cfg.NSQD)
	if err != nil {
		return err
	}
	defer pub.Shutdown()

	return pub.Send(req)
}
