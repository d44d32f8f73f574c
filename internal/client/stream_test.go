package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPostsSubscription_ReconnectsAfterDisconnect(t *testing.T) {
	var conns atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := conns.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event:posts\ndata:[{\"id\":\"p%d\"}]\n\n", n)
		w.(http.Flusher).Flush()
		// Returning closes the body, simulating a severed connection.
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var mu sync.Mutex
	var ids []string
	unsub, err := c.PostsSubscription(context.Background(), func(posts []model.Post) {
		mu.Lock()
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("PostsSubscription: %v", err)
	}
	defer unsub()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) >= 2
	})

	mu.Lock()
	defer mu.Unlock()
	if ids[0] != "p1" || ids[1] != "p2" {
		t.Errorf("snapshot order across reconnect = %v, want [p1 p2 ...]", ids)
	}
}

func TestIsLiked_ServedFromStreamSnapshot(t *testing.T) {
	var likeLookups atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/feed/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `event:posts`+"\n"+
			`data:[{"id":"p1","is_liked":true},{"id":"p2"}]`+"\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})
	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		likeLookups.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"is_liked":false}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var snapshots atomic.Int32
	unsub, err := c.PostsSubscription(context.Background(), func([]model.Post) {
		snapshots.Add(1)
	})
	if err != nil {
		t.Fatalf("PostsSubscription: %v", err)
	}
	waitFor(t, func() bool { return snapshots.Load() >= 1 })

	ctx := context.Background()

	// Posts in the last snapshot are answered without an HTTP round trip.
	liked, err := c.IsLiked(ctx, "p1", "viewer")
	if err != nil || !liked {
		t.Errorf("IsLiked(p1) = %v, %v; want true, nil", liked, err)
	}
	liked, err = c.IsLiked(ctx, "p2", "viewer")
	if err != nil || liked {
		t.Errorf("IsLiked(p2) = %v, %v; want false, nil", liked, err)
	}
	if n := likeLookups.Load(); n != 0 {
		t.Errorf("got %d like lookups over HTTP, want 0", n)
	}

	// Posts outside the snapshot still go to the server.
	if _, err := c.IsLiked(ctx, "p9", "viewer"); err != nil {
		t.Errorf("IsLiked(p9): %v", err)
	}
	if n := likeLookups.Load(); n != 1 {
		t.Errorf("got %d like lookups over HTTP, want 1", n)
	}

	// After unsubscribe the snapshot may be arbitrarily stale; drop it.
	unsub()
	if _, err := c.IsLiked(ctx, "p1", "viewer"); err != nil {
		t.Errorf("IsLiked(p1) after unsubscribe: %v", err)
	}
	if n := likeLookups.Load(); n != 2 {
		t.Errorf("got %d like lookups over HTTP after unsubscribe, want 2", n)
	}
}
