package scoreboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pefman/volley-scoreboard/internal/cache"
	"github.com/pefman/volley-scoreboard/internal/markup"
	"github.com/pefman/volley-scoreboard/internal/remote"
	"github.com/pefman/volley-scoreboard/internal/scoreboard"
	"github.com/pefman/volley-scoreboard/internal/server"
)

// Wires the real collaborators together: markup codec, SQLite cache, HTTP
// client, and the endpoint implementation.

func TestInitialLoadAdoptsCacheWhenRemoteFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer func() { _ = store.Close() }()

	cached := scoreboard.State{
		HomeName: "Beach Tigers", AwayName: "Net & Spike",
		HomeScore: 18, AwayScore: 20, HomeSets: 1, AwaySets: 2,
		HomeColor: "#1E90FF", AwayColor: "#DC143C",
		Serving: scoreboard.SideAway,
	}
	if err := store.Set(context.Background(), "court-1", markup.Render(cached)); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	ctl := scoreboard.New("court-1", markup.Codec{},
		store, remote.NewClient(srv.URL, "court-1", "sekrit"))
	ctl.LoadInitialState(context.Background())

	if got := ctl.State(); got != cached {
		t.Errorf("adopted state = %+v, want cached %+v", got, cached)
	}
}

func TestMutationReachesEndpointAndOverlayGet(t *testing.T) {
	endpoint := server.New("sekrit", server.NewSnapshotStore(""))
	srv := httptest.NewServer(endpoint.Router(""))
	defer srv.Close()

	store, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer func() { _ = store.Close() }()

	client := remote.NewClient(srv.URL, "court-1", "sekrit")
	ctl := scoreboard.New("court-1", markup.Codec{}, store, client)

	if err := ctl.ApplyScoreDelta(scoreboard.CounterScore, scoreboard.SideHome, 1, nil); err != nil {
		t.Fatalf("score: %v", err)
	}

	// Submission is fire-and-forget; poll the endpoint until it lands.
	deadline := time.Now().Add(3 * time.Second)
	for {
		doc, err := client.Fetch(context.Background())
		if err == nil {
			st, perr := markup.Parse(doc)
			if perr != nil {
				t.Fatalf("parse served snapshot: %v", perr)
			}
			if st.HomeScore != 1 || st.Serving != scoreboard.SideHome {
				t.Fatalf("served state = %+v", st)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("snapshot never reached endpoint: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// A second controller for the same identity adopts the remote state.
	ctl2 := scoreboard.New("court-1", markup.Codec{}, nil, client)
	ctl2.LoadInitialState(context.Background())
	if got := ctl2.State(); got.HomeScore != 1 || got.Serving != scoreboard.SideHome {
		t.Errorf("second controller adopted %+v", got)
	}
}
