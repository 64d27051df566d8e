package mojang

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/blocklift/blocklift/internals/ownhttp"
)

// VersionManifestURL is the remote index listing every released version
const VersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

// DefaultCacheTTL is how long a cached index is served without refetching
const DefaultCacheTTL = 30 * time.Minute

const cacheFileName = "version-manifest.json"

// VersionType is the release channel of a version
type VersionType string

const (
	// TypeRelease is a full "normal" release
	TypeRelease VersionType = "release"
	// TypeSnapshot is a snapshot release
	TypeSnapshot VersionType = "snapshot"
	// TypeOldBeta is an "old_beta" release
	TypeOldBeta VersionType = "old_beta"
	// TypeOldAlpha is an "old_alpha" release
	TypeOldAlpha VersionType = "old_alpha"
)

func (t VersionType) valid() bool {
	switch t {
	case TypeRelease, TypeSnapshot, TypeOldBeta, TypeOldAlpha:
		return true
	}
	return false
}

// Version is one entry of the remote index
type Version struct {
	ID          string      `json:"id"`
	Type        VersionType `json:"type"`
	URL         string      `json:"url"`
	ReleaseTime time.Time   `json:"releaseTime"`
	Sha1        string      `json:"sha1"`
}

type indexResponse struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []json.RawMessage `json:"versions"`
}

type cacheEnvelope struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Manifest  json.RawMessage `json:"manifest"`
}

// Client resolves the remote version index and per-version metadata.
// It owns a TTL based disk cache of the raw index under Directory; entries
// older than CacheTTL are treated as absent, not deleted, so a failing fetch
// can still fall back to them.
type Client struct {
	HTTP        *http.Client
	ManifestURL string
	// Directory is the launcher root containing versions/ and the cache file
	Directory string
	CacheTTL  time.Duration

	now func() time.Time
}

// New returns a Client rooted at directory
func New(directory string) *Client {
	return &Client{
		HTTP:        ownhttp.New(),
		ManifestURL: VersionManifestURL,
		Directory:   directory,
		CacheTTL:    DefaultCacheTTL,
		now:         time.Now,
	}
}

// FetchIndex returns all known versions.
//
// A cache younger than CacheTTL short-circuits unless forceRefresh is set.
// When the remote fetch fails the cache is used regardless of age; only the
// combination of failed fetch and missing cache is an error.
func (c *Client) FetchIndex(ctx context.Context, forceRefresh bool) ([]Version, error) {
	if !forceRefresh {
		if env, err := c.readCache(); err == nil && c.timeNow().Sub(env.FetchedAt) < c.cacheTTL() {
			return c.parseIndex(env.Manifest)
		}
	}

	raw, err := c.fetchRemoteIndex(ctx)
	if err != nil {
		if env, cacheErr := c.readCache(); cacheErr == nil {
			log.Printf("[WARN] version index fetch failed (%v), using cached copy", err)
			return c.parseIndex(env.Manifest)
		}
		return nil, errors.Wrap(err, "version index unavailable (fetch failed and no usable cache)")
	}

	versions, err := c.parseIndex(raw)
	if err != nil {
		return nil, err
	}
	if writeErr := c.writeCache(raw); writeErr != nil {
		log.Printf("[WARN] could not write version index cache: %v", writeErr)
	}
	return versions, nil
}

// FindVersion returns the index entry with the given id
func (c *Client) FindVersion(ctx context.Context, id string) (*Version, error) {
	versions, err := c.FetchIndex(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].ID == id {
			return &versions[i], nil
		}
	}
	return nil, &VersionNotFoundError{ID: id}
}

func (c *Client) fetchRemoteIndex(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.manifestURL(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("invalid status code %d from %s", res.StatusCode, c.manifestURL())
	}
	return io.ReadAll(res.Body)
}

// parseIndex validates every entry on its own. A malformed entry is skipped
// with a warning, only an unreadable document is fatal.
func (c *Client) parseIndex(raw json.RawMessage) ([]Version, error) {
	var parsed indexResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(err, "malformed version index")
	}

	versions := make([]Version, 0, len(parsed.Versions))
	for _, entry := range parsed.Versions {
		var v Version
		if err := json.Unmarshal(entry, &v); err != nil {
			log.Printf("[WARN] skipping unreadable version entry: %v", err)
			continue
		}
		if v.ID == "" || v.URL == "" || !v.Type.valid() {
			log.Printf("[WARN] skipping invalid version entry %q (type %q)", v.ID, v.Type)
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func (c *Client) cachePath() string {
	return filepath.Join(c.Directory, cacheFileName)
}

func (c *Client) readCache() (*cacheEnvelope, error) {
	buf, err := os.ReadFile(c.cachePath())
	if err != nil {
		return nil, err
	}
	var env cacheEnvelope
	if err := json.Unmarshal(buf, &env); err != nil {
		return nil, err
	}
	if len(env.Manifest) == 0 {
		return nil, errors.New("empty index cache")
	}
	return &env, nil
}

// writeCache replaces the cache file as a whole. Two resolvers racing to
// refresh both write a valid file and the last writer wins.
func (c *Client) writeCache(raw json.RawMessage) error {
	if err := os.MkdirAll(c.Directory, os.ModePerm); err != nil {
		return err
	}
	buf, err := json.Marshal(cacheEnvelope{FetchedAt: c.timeNow(), Manifest: raw})
	if err != nil {
		return err
	}
	return os.WriteFile(c.cachePath(), buf, 0644)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) manifestURL() string {
	if c.ManifestURL != "" {
		return c.ManifestURL
	}
	return VersionManifestURL
}

func (c *Client) timeNow() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *Client) cacheTTL() time.Duration {
	if c.CacheTTL > 0 {
		return c.CacheTTL
	}
	return DefaultCacheTTL
}
