package instances

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/blocklift/blocklift/internals/downloadmgr"
	"github.com/blocklift/blocklift/internals/minecraft"
)

// EnsureAssetIndex returns the parsed asset index for the manifest,
// downloading assets/indexes/<id>.json first if it is not on disk
func (i *Instance) EnsureAssetIndex(ctx context.Context, man *minecraft.LaunchManifest) (*minecraft.AssetIndex, error) {
	indexPath := filepath.Join(i.AssetsDir(), "indexes", man.Assets+".json")

	buf, err := os.ReadFile(indexPath)
	if err != nil {
		if man.AssetIndex.URL == "" {
			return nil, errors.Errorf("version %q has no asset index reference", man.ID)
		}
		buf, err = i.fetchAssetIndex(ctx, man, indexPath)
		if err != nil {
			return nil, err
		}
	}

	index := &minecraft.AssetIndex{}
	if err := json.Unmarshal(buf, index); err != nil {
		return nil, errors.Wrapf(err, "malformed asset index %q", man.Assets)
	}
	return index, nil
}

func (i *Instance) fetchAssetIndex(ctx context.Context, man *minecraft.LaunchManifest, indexPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", man.AssetIndex.URL, nil)
	if err != nil {
		return nil, err
	}
	res, err := i.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching asset index %q", man.Assets)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("invalid status code %d fetching asset index %q", res.StatusCode, man.Assets)
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), os.ModePerm); err != nil {
		return nil, err
	}
	if err := os.WriteFile(indexPath, buf, 0644); err != nil {
		return nil, err
	}
	if man.AssetIndex.Sha1 != "" {
		if err := downloadmgr.VerifySha1(indexPath, man.AssetIndex.Sha1); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// QueueVersion adds the full artifact set of a resolved version to mgr:
// client jar, rule-passing libraries (with their native classifiers), every
// asset object and the optional logging config. Artifacts already on disk
// are queued anyway; the transfer short-circuits on a matching hash so the
// whole set stays idempotent.
func (i *Instance) QueueVersion(ctx context.Context, man *minecraft.LaunchManifest, env minecraft.Env, mgr *downloadmgr.DownloadManager) error {
	if man.Downloads.Client.URL != "" {
		jar := downloadmgr.NewHTTPItem(man.Downloads.Client.URL, i.VersionJar(man.MinecraftVersion()))
		jar.Sha1 = man.Downloads.Client.Sha1
		jar.Size = man.Downloads.Client.Size
		mgr.Add(jar)
	}

	for _, lib := range man.Libraries.Required(env) {
		lib := lib
		if lib.DownloadURL() != "" {
			path, err := lib.Filepath()
			if err != nil {
				return errors.Wrapf(err, "library %q of version %q", lib.Name, man.ID)
			}
			item := downloadmgr.NewHTTPItem(lib.DownloadURL(), filepath.Join(i.LibrariesDir(), path))
			item.Sha1 = lib.Downloads.Artifact.Sha1
			item.Size = lib.Downloads.Artifact.Size
			mgr.Add(item)
		}

		if native, path, ok := lib.NativeArtifact(env); ok && native.URL != "" {
			item := downloadmgr.NewHTTPItem(native.URL, filepath.Join(i.LibrariesDir(), path))
			item.Sha1 = native.Sha1
			item.Size = native.Size
			mgr.Add(item)
		}
	}

	index, err := i.EnsureAssetIndex(ctx, man)
	if err != nil {
		return err
	}
	for name, asset := range index.Objects {
		if !asset.Valid() {
			log.Printf("[WARN] skipping asset %q: unusable hash %q", name, asset.Hash)
			continue
		}
		item := downloadmgr.NewHTTPItem(asset.DownloadURL(), filepath.Join(i.AssetsDir(), "objects", asset.UnixPath()))
		item.Sha1 = asset.Hash
		item.Size = asset.Size
		mgr.Add(item)
	}

	if logging := man.Logging.Client; logging.File.URL != "" {
		item := downloadmgr.NewHTTPItem(logging.File.URL, i.LogConfigPath(logging.File.ID))
		item.Sha1 = logging.File.Sha1
		item.Size = logging.File.Size
		mgr.Add(item)
	}

	return nil
}

// DownloadVersion resolves a version (fetching its metadata if needed),
// queues its full artifact set on mgr and runs the batch to completion.
// The caller owns mgr and can watch progress on it while this blocks.
func (i *Instance) DownloadVersion(ctx context.Context, id string, mgr *downloadmgr.DownloadManager) error {
	man, err := i.Mojang.EnsureMetadata(ctx, id)
	if err != nil {
		return err
	}
	if err := i.QueueVersion(ctx, man, minecraft.CurrentEnv(), mgr); err != nil {
		return err
	}
	return errors.Wrapf(mgr.Start(ctx), "downloading version %q", id)
}

// FindMissingLibraries returns the rule-passing libraries whose artifacts
// are not on disk yet
func (i *Instance) FindMissingLibraries(man *minecraft.LaunchManifest, env minecraft.Env) (minecraft.Libraries, error) {
	missing := make(minecraft.Libraries, 0)

	for _, lib := range man.Libraries.Required(env) {
		path, err := lib.Filepath()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(filepath.Join(i.LibrariesDir(), path)); err == nil {
			continue
		}
		missing = append(missing, lib)
	}

	return missing, nil
}

// FindMissingAssets returns all asset objects not present in the
// content-addressed store
func (i *Instance) FindMissingAssets(index *minecraft.AssetIndex) []minecraft.AssetObject {
	missing := make([]minecraft.AssetObject, 0)
	for _, asset := range index.Objects {
		if !asset.Valid() {
			continue
		}
		file := filepath.Join(i.AssetsDir(), "objects", asset.UnixPath())
		if _, err := os.Stat(file); os.IsNotExist(err) {
			missing = append(missing, asset)
		}
	}
	return missing
}

func (i *Instance) httpClient() *http.Client {
	if i.HTTP != nil {
		return i.HTTP
	}
	return http.DefaultClient
}
