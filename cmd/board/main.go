package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/pefman/volley-scoreboard/internal/cache"
	"github.com/pefman/volley-scoreboard/internal/markup"
	"github.com/pefman/volley-scoreboard/internal/remote"
	"github.com/pefman/volley-scoreboard/internal/scoreboard"
)

// Defaults can be overridden via environment variables (or a .env file):
//   BOARD_PORT        (default: 8082)
//   BOARD_IDENTITY    (default: default)
//   BOARD_CACHE_PATH  (default: scoreboard-cache.db)
//   SCOREBOARD_TOKEN  (upload credential, empty disables remote writes)
//   REMOTE_BASE_URL   (default: http://localhost:8081, empty disables remote)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// board owns the controller and the connected control clients.
type board struct {
	ctl   *scoreboard.Controller
	mu    sync.Mutex // guards conns and serializes websocket writes
	conns map[*websocket.Conn]bool
}

func main() {
	_ = godotenv.Load()

	listenAddr := ":" + getenv("BOARD_PORT", "8082")
	identity := getenv("BOARD_IDENTITY", "default")
	token := getenv("SCOREBOARD_TOKEN", "")
	remoteBase := getenv("REMOTE_BASE_URL", "http://localhost:8081")
	cachePath := getenv("BOARD_CACHE_PATH", "scoreboard-cache.db")

	var localCache scoreboard.Cache
	if store, err := cache.Open(cachePath); err != nil {
		// Stay interactive without a cache; the session just loses durability.
		log.Printf("cache: %v (continuing without local cache)", err)
	} else {
		localCache = store
	}

	var endpoint scoreboard.Remote
	if remoteBase != "" {
		endpoint = remote.NewClient(remoteBase, identity, token)
	}

	ctl := scoreboard.New(identity, markup.Codec{}, localCache, endpoint)

	// Resolve the initial load before wiring any control handlers so user
	// actions cannot race the state adoption.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctl.LoadInitialState(ctx)
	cancel()

	b := &board{ctl: ctl, conns: map[*websocket.Conn]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.handleWS)
	mux.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	log.Printf("board control listening on %s (identity=%s remote=%s)", listenAddr, identity, remoteBase)
	log.Fatal(http.ListenAndServe(listenAddr, mux))
}

func (b *board) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.conns[conn] = true
	b.mu.Unlock()
	log.Printf("ws: control connected from=%s", r.RemoteAddr)
	b.send(conn, b.stateMsg())
	go b.reader(conn)
}

func (b *board) reader(conn *websocket.Conn) {
	defer func() {
		b.mu.Lock()
		delete(b.conns, conn)
		b.mu.Unlock()
		_ = conn.Close()
		log.Printf("ws: control closed")
	}()
	for {
		var in clientIn
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		switch in.Type {
		case "action":
			var act scoreboard.Action
			if err := json.Unmarshal(in.Data, &act); err != nil {
				b.send(conn, wsMsg{Type: "error", Data: err.Error()})
				continue
			}
			log.Printf("ws: action=%s side=%s confirmed=%v", act.Name, act.Side, act.Confirmed)
			if err := b.ctl.Dispatch(act); err != nil {
				b.send(conn, wsMsg{Type: "error", Data: err.Error()})
				continue
			}
			b.broadcastState()
		case "pick_color":
			var body struct {
				Side scoreboard.Side `json:"side"`
			}
			_ = json.Unmarshal(in.Data, &body)
			b.send(conn, wsMsg{Type: "color", Data: map[string]string{
				"side":  string(body.Side),
				"color": b.ctl.PickColor(body.Side),
			}})
		case "state":
			b.send(conn, b.stateMsg())
		default:
			b.send(conn, wsMsg{Type: "error", Data: "unknown message type"})
		}
	}
}

func (b *board) stateMsg() wsMsg {
	st := b.ctl.State()
	return wsMsg{Type: "state", Data: map[string]any{
		"state": st,
		"doc":   markup.Render(st),
	}}
}

func (b *board) send(conn *websocket.Conn, m wsMsg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := conn.WriteJSON(m); err != nil {
		log.Printf("ws: write error: %v", err)
	}
}

func (b *board) broadcastState() {
	m := b.stateMsg()
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.conns {
		if err := conn.WriteJSON(m); err != nil {
			log.Printf("ws: broadcast error: %v", err)
		}
	}
}
