package mojang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/blocklift/blocklift/internals/downloadmgr"
	"github.com/blocklift/blocklift/internals/minecraft"
)

// MetadataNotFoundError is returned when a version has no metadata on disk
type MetadataNotFoundError struct {
	ID string
}

func (e *MetadataNotFoundError) Error() string {
	return fmt.Sprintf("no metadata for version %q (versions/%s/%s.json missing)", e.ID, e.ID, e.ID)
}

// ParentNotFoundError is returned when an inheritsFrom target can not be resolved
type ParentNotFoundError struct {
	ID     string
	Parent string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("version %q inherits from %q which can not be resolved", e.ID, e.Parent)
}

// VersionNotFoundError is returned when the remote index does not know a version
type VersionNotFoundError struct {
	ID string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q is not present in the remote index", e.ID)
}

// VersionsDir returns the directory holding the per-version metadata files
func (c *Client) VersionsDir() string {
	return filepath.Join(c.Directory, "versions")
}

func (c *Client) metadataPath(id string) string {
	return filepath.Join(c.VersionsDir(), id, id+".json")
}

// ResolveMetadata reads the on-disk metadata of a version and recursively
// folds in its inheritsFrom chain (parent resolved first, then merged under
// the child's overrides). The returned manifest is complete and should be
// treated as immutable.
func (c *Client) ResolveMetadata(id string) (*minecraft.LaunchManifest, error) {
	return c.resolveMetadata(id, map[string]bool{})
}

func (c *Client) resolveMetadata(id string, seen map[string]bool) (*minecraft.LaunchManifest, error) {
	if seen[id] {
		return nil, errors.Errorf("inheritance cycle while resolving version %q", id)
	}
	seen[id] = true

	buf, err := os.ReadFile(c.metadataPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MetadataNotFoundError{ID: id}
		}
		return nil, err
	}

	man := &minecraft.LaunchManifest{}
	if err := json.Unmarshal(buf, man); err != nil {
		return nil, errors.Wrapf(err, "malformed metadata for version %q", id)
	}

	if man.InheritsFrom != "" {
		parent, err := c.resolveMetadata(man.InheritsFrom, seen)
		if err != nil {
			var notFound *MetadataNotFoundError
			if errors.As(err, &notFound) {
				return nil, &ParentNotFoundError{ID: id, Parent: man.InheritsFrom}
			}
			return nil, err
		}
		man.MergeWith(parent)
	}

	return man, nil
}

// EnsureMetadata resolves a version's metadata, fetching the raw JSON from
// the remote index first when it is not on disk yet.
func (c *Client) EnsureMetadata(ctx context.Context, id string) (*minecraft.LaunchManifest, error) {
	man, err := c.ResolveMetadata(id)
	if err == nil {
		return man, nil
	}

	// the missing file may be the version itself or an ancestor
	missing := ""
	var notFound *MetadataNotFoundError
	var parentMissing *ParentNotFoundError
	switch {
	case errors.As(err, &notFound):
		missing = notFound.ID
	case errors.As(err, &parentMissing):
		missing = parentMissing.Parent
	default:
		return nil, err
	}

	if fetchErr := c.fetchMetadata(ctx, missing); fetchErr != nil {
		return nil, fetchErr
	}
	return c.EnsureMetadata(ctx, id)
}

// fetchMetadata downloads one version's raw (pre-merge) metadata file
func (c *Client) fetchMetadata(ctx context.Context, id string) error {
	version, err := c.FindVersion(ctx, id)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", version.URL, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient().Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetching metadata for version %q", id)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errors.Errorf("invalid status code %d fetching metadata for version %q", res.StatusCode, id)
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	path := c.metadataPath(id)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return err
	}

	if version.Sha1 != "" {
		if err := downloadmgr.VerifySha1(path, version.Sha1); err != nil {
			return errors.Wrapf(err, "metadata for version %q", id)
		}
	}
	return nil
}
