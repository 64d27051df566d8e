// Package instances owns the on-disk layout of an installation: the shared
// versions/, libraries/ and assets/ trees plus the per-version natives
// scratch directory.
package instances

import (
	"net/http"
	"path/filepath"

	"github.com/blocklift/blocklift/internals/mojang"
	"github.com/blocklift/blocklift/internals/ownhttp"
)

// Instance is one launcher root directory plus the collaborators working on
// it. Construct it with New and share it between the download and launch
// paths of a single request.
type Instance struct {
	// GlobalDir contains everything required to run the game:
	// the versions, libraries and assets trees
	GlobalDir string

	Mojang *mojang.Client
	HTTP   *http.Client
}

// New returns an Instance rooted at globalDir
func New(globalDir string) *Instance {
	client := ownhttp.New()
	resolver := mojang.New(globalDir)
	resolver.HTTP = client

	return &Instance{
		GlobalDir: globalDir,
		Mojang:    resolver,
		HTTP:      client,
	}
}

// VersionsDir returns the path to the versions directory
func (i *Instance) VersionsDir() string {
	return filepath.Join(i.GlobalDir, "versions")
}

// LibrariesDir returns the path to the maven style libraries tree
func (i *Instance) LibrariesDir() string {
	return filepath.Join(i.GlobalDir, "libraries")
}

// AssetsDir returns the path to the assets directory
func (i *Instance) AssetsDir() string {
	return filepath.Join(i.GlobalDir, "assets")
}

// NativesDir returns the per-version natives scratch directory
func (i *Instance) NativesDir(versionID string) string {
	return filepath.Join(i.VersionsDir(), versionID, "natives")
}

// VersionJar returns the path of the client jar for the given vanilla version
func (i *Instance) VersionJar(mcVersion string) string {
	return filepath.Join(i.VersionsDir(), mcVersion, mcVersion+".jar")
}

// LogConfigPath returns where a logging config artifact is stored
func (i *Instance) LogConfigPath(id string) string {
	return filepath.Join(i.AssetsDir(), "log_configs", id)
}
