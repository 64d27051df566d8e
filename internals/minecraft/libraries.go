package minecraft

import (
	"path/filepath"
)

// Libraries is a collection of minecraft libs
type Libraries []Library

// Required returns the libraries whose rules allow the given environment
func (l Libraries) Required(env Env) Libraries {
	required := make(Libraries, 0, len(l))
	for _, lib := range l {
		if !lib.Rules.Allowed(env) {
			continue
		}
		required = append(required, lib)
	}
	return required
}

// Library is a single minecraft library
type Library struct {
	// Name is the maven coordinate of the library
	Name      string `json:"name"`
	Downloads struct {
		Artifact Artifact `json:"artifact"`
		// Classifiers holds additional artifacts, keyed by classifier.
		// Native libraries live here; the Natives field picks the key.
		Classifiers map[string]Artifact `json:"classifiers"`
	} `json:"downloads,omitempty"`
	URL string `json:"url"`
	// Rules decide whether this library is included at all.
	// No rules means always included.
	Rules Rules `json:"rules"`
	// Natives maps an os name to the classifier key of its native jar
	Natives map[string]string `json:"natives"`
}

// Filepath returns the relative path of the main artifact inside the
// libraries folder
func (l *Library) Filepath() (string, error) {
	if l.Downloads.Artifact.Path != "" {
		return l.Downloads.Artifact.Path, nil
	}
	return CoordinatePath(l.Name, "")
}

// DownloadURL returns the url the main artifact can be fetched from
func (l *Library) DownloadURL() string {
	path, err := l.Filepath()
	if err != nil {
		path = ""
	}
	if l.Downloads.Artifact.URL != "" {
		return l.Downloads.Artifact.URL
	}
	return l.mirrorURL(path)
}

// mirrorURL derives a download url for a relative path when the manifest
// declared none: the library's own mirror if set, the mojang mirror otherwise
func (l *Library) mirrorURL(path string) string {
	if l.URL != "" {
		return l.URL + filepath.ToSlash(path)
	}
	return "https://libraries.minecraft.net/" + filepath.ToSlash(path)
}

// NativeArtifact returns the native jar artifact for env and its relative
// path inside the libraries folder. ok is false when this library has no
// native variant for the platform. An artifact without a declared url gets
// the same mirror fallback as the main artifact.
func (l *Library) NativeArtifact(env Env) (artifact Artifact, path string, ok bool) {
	classifier, ok := l.Natives[env.OS]
	if !ok {
		return Artifact{}, "", false
	}

	native := l.Downloads.Classifiers[classifier]
	if native.Path == "" {
		derived, err := CoordinatePath(l.Name, classifier)
		if err != nil {
			return Artifact{}, "", false
		}
		native.Path = derived
	}
	if native.URL == "" {
		native.URL = l.mirrorURL(native.Path)
	}
	return native, native.Path, true
}
