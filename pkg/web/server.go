// Package web serves a local preview of the tile repository checkout so an
// operator can eyeball a layer before (or after) pushing it. It reads the
// same tree the deploy pipeline writes; nothing here mutates the checkout.
package web

import (
	"log"
	"net/http"
	"time"

	"padmap/pkg/ortho"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/valve"
)

// Server is the preview web server for the tile repository.
type Server struct {
	repoRoot string
	port     string
	valve    *valve.Valve
}

// NewServer constructs a preview server over the configured checkout.
func NewServer(cfg *ortho.Config) *Server {
	return &Server{
		repoRoot: cfg.RepoRoot,
		port:     cfg.Port,
		valve:    valve.New(),
	}
}

// Run configures routes and listens for requests until the process is
// terminated.
func (s *Server) Run() error {
	r := s.routes()

	log.Println("[preview] serving", s.repoRoot, "on :"+s.port)
	if err := http.ListenAndServe(":"+s.port, r); err != nil {
		log.Println(err)
	}

	log.Print("[preview] shutting down ...")
	s.valve.Shutdown(10 * time.Second)
	log.Println(" done!")

	return nil
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Get("/", s.serveIndex())
	r.Get("/tiles/{paddock}/{leaf}/{z}/{x}/{y}.png", s.serveTile())
	r.Get("/thumb/{paddock}/{leaf}.png", s.serveThumb())

	return r
}
