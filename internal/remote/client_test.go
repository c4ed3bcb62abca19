package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchCacheBusted(t *testing.T) {
	var gotPath, gotQuery, gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("ts")
		gotCacheControl = r.Header.Get("Cache-Control")
		_, _ = w.Write([]byte(`<div id="scoreboard"></div>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "court-1", "sekrit")
	doc, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if doc != `<div id="scoreboard"></div>` {
		t.Errorf("doc = %q", doc)
	}
	if gotPath != "/boards/court-1/scoreboard.xml" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery == "" {
		t.Errorf("no cache-busting ts query parameter")
	}
	if gotCacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q", gotCacheControl)
	}
}

func TestFetchNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No snapshot", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "court-1", "sekrit")
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with nothing in it: treated as "no usable snapshot".
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "court-1", "sekrit")
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on empty body")
	}
}

func TestSubmitFormFields(t *testing.T) {
	var gotToken, gotFilename, gotFiledata, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotToken = r.FormValue("token")
		gotFilename = r.FormValue("filename")
		gotFiledata = r.FormValue("filedata")
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "court-1", "sekrit")
	if err := c.Submit(context.Background(), "<div/>"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gotPath != "/boards/court-1/upload" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "sekrit" || gotFilename != SnapshotFilename || gotFiledata != "<div/>" {
		t.Errorf("fields token=%q filename=%q filedata=%q", gotToken, gotFilename, gotFiledata)
	}
}

func TestSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden: Invalid token", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "court-1", "wrong")
	if err := c.Submit(context.Background(), "<div/>"); err == nil {
		t.Fatal("expected error on 403")
	}
}
