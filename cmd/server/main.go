package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/pefman/volley-scoreboard/internal/server"
)

// Defaults can be overridden via environment variables (or a .env file):
//   SCOREBOARD_PORT        (default: 8081)
//   SCOREBOARD_TOKEN       (required)
//   SCOREBOARD_DATA_DIR    (default: data)
//   SCOREBOARD_PUBLIC_DIR  (default: public)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	listenAddr := ":" + getenv("SCOREBOARD_PORT", "8081")
	token := getenv("SCOREBOARD_TOKEN", "")
	if token == "" {
		log.Fatal("SCOREBOARD_TOKEN must be set")
	}
	dataDir := getenv("SCOREBOARD_DATA_DIR", "data")
	publicDir := getenv("SCOREBOARD_PUBLIC_DIR", "public")

	srv := server.New(token, server.NewSnapshotStore(dataDir))
	log.Printf("scoreboard endpoint listening on %s (data=%s public=%s)", listenAddr, dataDir, publicDir)
	log.Fatal(http.ListenAndServe(listenAddr, srv.Router(publicDir)))
}
