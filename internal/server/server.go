package server

import (
	"context"
	"net/http"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/scrape"
	"github.com/eventscope/eventscope/pkg/storage"
)

// EventScraper is what the handlers need from the engine. The concrete
// *scrape.Scraper satisfies it; tests swap in a fake.
type EventScraper interface {
	Scrape(ctx context.Context, rawURL string) (*scrape.Result, error)
}

type Server struct {
	DB       *storage.DB
	Scraper  EventScraper
	Username string
	Password string
}

func New(db *storage.DB, scraper EventScraper, user, pass string) *Server {
	return &Server{
		DB:       db,
		Scraper:  scraper,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	utils.Log.Info("Starting server on ", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/scrape", s.basicAuth(s.handleScrape))
	mux.HandleFunc("GET /api/submissions", s.basicAuth(s.handleSubmissions))

	return mux
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
