package main

import (
	"log"

	"padmap/pkg/ortho"
	"padmap/pkg/web"
)

func main() {
	s := web.NewServer(ortho.LoadConfig())

	if err := s.Run(); err != nil {
		log.Fatal(err)
	}
}
