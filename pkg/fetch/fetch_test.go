package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	bad := []string{
		"",
		"not a url",
		"ftp://example.com/x",
		"/relative/path",
		"example.com/no-scheme",
	}
	for _, raw := range bad {
		if _, err := ValidateURL(raw); KindOf(err) != KindInvalidURL {
			t.Errorf("ValidateURL(%q) = %v, want invalid_url", raw, err)
		}
	}

	if _, err := ValidateURL("https://eventos.example.com.br/meetup-go"); err != nil {
		t.Fatalf("valid URL rejected: %v", err)
	}
}

func TestPlainFetcher_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>Meetup Go</title></head><body>oi</body></html>"))
	}))
	defer srv.Close()

	page, err := NewPlainFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Meetup Go" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.URL != srv.URL {
		t.Fatalf("url = %q", page.URL)
	}
}

func TestPlainFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewPlainFetcher().Fetch(context.Background(), srv.URL)
	if KindOf(err) != KindHTTPStatus {
		t.Fatalf("expected http_status, got %v", err)
	}
}

func TestPlainFetcher_NonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	_, err := NewPlainFetcher().Fetch(context.Background(), srv.URL)
	if KindOf(err) != KindNonHTML {
		t.Fatalf("expected non_html_content, got %v", err)
	}
}

func TestPlainFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewPlainFetcher().Fetch(ctx, srv.URL)
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestPlainFetcher_Unreachable(t *testing.T) {
	// Port 1 on localhost, nothing listens there.
	_, err := NewPlainFetcher().Fetch(context.Background(), "http://127.0.0.1:1/x")
	if KindOf(err) != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
}
