package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"padmap/pkg/msg"
	"padmap/pkg/ortho"
	"padmap/pkg/pipeline"

	"github.com/go-chi/valve"
)

func main() {
	cfg := ortho.LoadConfig()
	if cfg.NSQLookup == "" {
		log.Fatal("PADMAP_NSQLOOKUP is not set")
	}

	v := valve.New()
	w := msg.NewWorker(v, pipeline.New(cfg), cfg.NSQLookup)
	w.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("[worker] waiting for deploy requests")
	<-sigChan
	log.Println("[worker] received termination request")

	// Tiling a large capture is slow; give an in-flight deploy a real
	// chance to finish before the process goes away.
	log.Println("[worker] waiting for in-flight deploys to finish...")
	v.Shutdown(10 * time.Minute)
	log.Println("[worker] done")
}
