// Package server is the remote state endpoint: it validates uploaded
// snapshots (token + filename), stores them per identity, serves the latest
// copy with intermediary caching disabled, and pushes updates to overlay
// websocket clients.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/pefman/volley-scoreboard/internal/remote"
)

var identityRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server holds the endpoint's shared state.
type Server struct {
	token string
	store *SnapshotStore
	hub   *Hub
}

func New(token string, store *SnapshotStore) *Server {
	return &Server{token: token, store: store, hub: NewHub()}
}

// Router wires all routes. publicDir, when non-empty, is served at the root
// for the overlay and control pages.
func (s *Server) Router(publicDir string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/boards/{identity}/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/boards/{identity}/"+remote.SnapshotFilename, s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/ws/overlay/{identity}", s.handleOverlayWS)
	if publicDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))
	}
	return r
}

// handleUpload accepts a snapshot as form fields (urlencoded or multipart):
// token, filename, filedata. The token must match and the filename is locked
// to the single allowed value.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	if !identityRe.MatchString(identity) {
		http.Error(w, "Bad identity", http.StatusBadRequest)
		return
	}
	token := r.FormValue("token")
	filename := r.FormValue("filename")
	filedata := r.FormValue("filedata")
	if token == "" || filename == "" || filedata == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if token != s.token {
		http.Error(w, "Forbidden: Invalid token", http.StatusForbidden)
		return
	}
	if filename != remote.SnapshotFilename {
		http.Error(w, "Forbidden: Only "+remote.SnapshotFilename+" can be updated", http.StatusForbidden)
		return
	}
	if err := s.store.Save(identity, filedata); err != nil {
		log.Printf("upload: save identity=%s: %v", identity, err)
		http.Error(w, "Failed to store snapshot", http.StatusInternalServerError)
		return
	}
	log.Printf("upload: accepted identity=%s bytes=%d", identity, len(filedata))
	s.hub.Broadcast(identity, filedata)
	fmt.Fprint(w, "OK")
}

// handleSnapshot serves the latest accepted snapshot. Caching is disabled so
// pollers always see the current state.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	doc, ok := s.store.Get(identity)
	if !ok {
		http.Error(w, "No snapshot", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, doc)
}

// handleOverlayWS registers an overlay client. The current snapshot, if any,
// is sent immediately; afterwards the client only receives broadcasts.
func (s *Server) handleOverlayWS(w http.ResponseWriter, r *http.Request) {
	identity := mux.Vars(r)["identity"]
	if !identityRe.MatchString(identity) {
		http.Error(w, "Bad identity", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	cl := s.hub.add(identity, conn)
	if doc, ok := s.store.Get(identity); ok {
		if werr := cl.write(snapshotMsg(identity, doc)); werr != nil {
			log.Printf("ws: initial snapshot identity=%s: %v", identity, werr)
		}
	}
	go func() {
		defer func() {
			s.hub.remove(identity, cl.id)
			_ = conn.Close()
		}()
		for {
			// Overlay clients never send anything meaningful; read until close.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
