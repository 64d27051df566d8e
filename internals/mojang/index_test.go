package mojang

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const indexDocument = `{
	"latest": {"release": "1.20.1", "snapshot": "23w31a"},
	"versions": [
		{"id": "1.20.1", "type": "release", "url": "https://example.invalid/1.20.1.json", "releaseTime": "2023-06-12T13:25:51+00:00", "sha1": "abc"},
		{"id": "23w31a", "type": "snapshot", "url": "https://example.invalid/23w31a.json", "releaseTime": "2023-08-01T10:03:13+00:00", "sha1": "def"},
		{"id": "", "type": "release", "url": "https://example.invalid/broken.json"},
		{"id": "b1.7.3", "type": "made_up_type", "url": "https://example.invalid/b1.7.3.json"},
		"not even an object"
	]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := New(t.TempDir())
	c.ManifestURL = ts.URL
	c.HTTP = ts.Client()
	return c, ts
}

func TestFetchIndex(t *testing.T) {
	t.Run("parses and filters entries", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(indexDocument))
		}))

		versions, err := c.FetchIndex(context.Background(), false)
		if err != nil {
			t.Fatalf("FetchIndex() error = %v", err)
		}
		if len(versions) != 2 {
			t.Fatalf("got %d versions, want 2 (invalid entries skipped)", len(versions))
		}
		if versions[0].ID != "1.20.1" || versions[0].Type != TypeRelease {
			t.Errorf("first entry = %+v", versions[0])
		}
	})

	t.Run("fresh cache short-circuits", func(t *testing.T) {
		var hits int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(indexDocument))
		}))

		if _, err := c.FetchIndex(context.Background(), false); err != nil {
			t.Fatal(err)
		}
		if _, err := c.FetchIndex(context.Background(), false); err != nil {
			t.Fatal(err)
		}
		if hits != 1 {
			t.Errorf("server got %d requests, want 1", hits)
		}
	})

	t.Run("forceRefresh bypasses the cache", func(t *testing.T) {
		var hits int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(indexDocument))
		}))

		c.FetchIndex(context.Background(), false)
		c.FetchIndex(context.Background(), true)
		if hits != 2 {
			t.Errorf("server got %d requests, want 2", hits)
		}
	})

	t.Run("expired cache refetches", func(t *testing.T) {
		var hits int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(indexDocument))
		}))

		clock := time.Now()
		c.now = func() time.Time { return clock }

		c.FetchIndex(context.Background(), false)
		clock = clock.Add(c.CacheTTL + time.Minute)
		c.FetchIndex(context.Background(), false)
		if hits != 2 {
			t.Errorf("server got %d requests, want 2", hits)
		}
	})

	t.Run("stale cache serves when the fetch fails", func(t *testing.T) {
		var broken int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.LoadInt32(&broken) != 0 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(indexDocument))
		}))

		clock := time.Now()
		c.now = func() time.Time { return clock }

		if _, err := c.FetchIndex(context.Background(), false); err != nil {
			t.Fatal(err)
		}

		atomic.StoreInt32(&broken, 1)
		clock = clock.Add(24 * time.Hour)

		versions, err := c.FetchIndex(context.Background(), false)
		if err != nil {
			t.Fatalf("FetchIndex() with stale cache: %v", err)
		}
		if len(versions) != 2 {
			t.Errorf("got %d versions from stale cache, want 2", len(versions))
		}
	})

	t.Run("no cache and failing fetch is an error", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		if _, err := c.FetchIndex(context.Background(), false); err == nil {
			t.Fatal("FetchIndex() error = nil, want failure")
		}
	})
}

func TestFindVersion(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexDocument))
	}))

	v, err := c.FindVersion(context.Background(), "1.20.1")
	if err != nil {
		t.Fatalf("FindVersion() error = %v", err)
	}
	if v.Sha1 != "abc" {
		t.Errorf("Sha1 = %q, want %q", v.Sha1, "abc")
	}

	_, err = c.FindVersion(context.Background(), "2.0-does-not-exist")
	if _, ok := err.(*VersionNotFoundError); !ok {
		t.Fatalf("FindVersion() error = %v, want *VersionNotFoundError", err)
	}
}
