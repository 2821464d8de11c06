package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/fetch"
	"github.com/eventscope/eventscope/pkg/scrape"
)

type ScrapeRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Kind: kind})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if _, err := fetch.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, string(fetch.KindInvalidURL), err.Error())
		return
	}

	res, err := s.Scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		status, kind := scrapeErrorStatus(err)
		writeError(w, status, kind, err.Error())
		return
	}

	// Every accepted result becomes a pending submission when a database
	// is configured.
	if s.DB != nil {
		if _, err := s.DB.InsertSubmission(r.Context(), res); err != nil {
			utils.Log.Error("storing submission: ", err)
			writeError(w, http.StatusInternalServerError, "storage", err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// scrapeErrorStatus maps engine failures onto HTTP statuses. Transport
// failures on the remote side read as a bad gateway, our own deadline as a
// gateway timeout, and pages we fetched fine but cannot use as 422.
func scrapeErrorStatus(err error) (int, string) {
	if errors.Is(err, scrape.ErrNoExtractableContent) {
		return http.StatusUnprocessableEntity, "no_extractable_content"
	}
	switch kind := fetch.KindOf(err); kind {
	case fetch.KindInvalidURL:
		return http.StatusBadRequest, string(kind)
	case fetch.KindTimeout:
		return http.StatusGatewayTimeout, string(kind)
	case fetch.KindUnreachable, fetch.KindHTTPStatus:
		return http.StatusBadGateway, string(kind)
	case fetch.KindNonHTML:
		return http.StatusUnprocessableEntity, string(kind)
	}
	return http.StatusInternalServerError, ""
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "storage", "no database configured")
		return
	}
	subs, err := s.DB.ListSubmissions(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subs)
}
