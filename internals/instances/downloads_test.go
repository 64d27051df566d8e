package instances

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocklift/blocklift/internals/downloadmgr"
	"github.com/blocklift/blocklift/internals/minecraft"
)

func testManifest(t *testing.T, doc string) *minecraft.LaunchManifest {
	t.Helper()
	man := &minecraft.LaunchManifest{}
	if err := json.Unmarshal([]byte(doc), man); err != nil {
		t.Fatal(err)
	}
	return man
}

func TestEnsureAssetIndex(t *testing.T) {
	indexDoc := `{"objects": {"minecraft/sounds/random/click.ogg": {"hash": "fe32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053", "size": 3000}}}`
	indexSha := fmt.Sprintf("%x", sha1.Sum([]byte(indexDoc)))

	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(indexDoc))
	}))
	defer ts.Close()

	instance := New(t.TempDir())
	instance.HTTP = ts.Client()

	man := testManifest(t, fmt.Sprintf(
		`{"id": "1.20.1", "assets": "5", "assetIndex": {"id": "5", "url": %q, "sha1": %q}}`,
		ts.URL, indexSha,
	))

	index, err := instance.EnsureAssetIndex(context.Background(), man)
	if err != nil {
		t.Fatalf("EnsureAssetIndex() error = %v", err)
	}
	if len(index.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(index.Objects))
	}

	// on disk now, a second call stays local
	if _, err := instance.EnsureAssetIndex(context.Background(), man); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server got %d requests, want 1", hits)
	}

	t.Run("missing reference", func(t *testing.T) {
		bare := New(t.TempDir())
		if _, err := bare.EnsureAssetIndex(context.Background(), testManifest(t, `{"id": "x"}`)); err == nil {
			t.Fatal("EnsureAssetIndex() error = nil, want missing reference error")
		}
	})
}

func TestQueueVersion(t *testing.T) {
	indexDoc := `{"objects": {
		"minecraft/sounds/random/click.ogg": {"hash": "fe32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053", "size": 3000},
		"minecraft/lang/en_us.json": {"hash": "aa32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053", "size": 500},
		"minecraft/broken.bin": {"hash": "", "size": 1}
	}}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexDoc))
	}))
	defer ts.Close()

	instance := New(t.TempDir())
	instance.HTTP = ts.Client()

	man := testManifest(t, fmt.Sprintf(`{
		"id": "1.20.1",
		"assets": "5",
		"assetIndex": {"id": "5", "url": %q},
		"downloads": {"client": {"url": "https://example.invalid/client.jar", "sha1": "abc", "size": 100}},
		"libraries": [
			{"name": "com.mojang:brigadier:1.1.8", "downloads": {"artifact": {"path": "com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar", "url": "https://example.invalid/brigadier.jar", "sha1": "def", "size": 50}}},
			{
				"name": "org.lwjgl:lwjgl:3.3.1",
				"natives": {"linux": "natives-linux"},
				"downloads": {
					"artifact": {"path": "org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1.jar", "url": "https://example.invalid/lwjgl.jar"},
					"classifiers": {"natives-linux": {"path": "org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-linux.jar", "url": "https://example.invalid/lwjgl-natives.jar"}}
				}
			},
			{
				"name": "org.lwjgl:lwjgl-glfw:3.3.1",
				"rules": [{"action": "allow", "os": {"name": "osx"}}],
				"downloads": {"artifact": {"path": "x", "url": "https://example.invalid/glfw.jar"}}
			},
			{"name": "net.java.jinput:jinput-platform:2.0.5", "natives": {"linux": "natives-linux"}}
		],
		"logging": {"client": {"argument": "-Dlog4j.configurationFile=${path}", "file": {"id": "client-1.12.xml", "url": "https://example.invalid/log4j.xml", "sha1": "ghi", "size": 10}}}
	}`, ts.URL))

	env := minecraft.Env{OS: "linux", Arch: "x64"}
	mgr := downloadmgr.New()
	if err := instance.QueueVersion(context.Background(), man, env, mgr); err != nil {
		t.Fatalf("QueueVersion() error = %v", err)
	}

	// client jar, brigadier, lwjgl main + natives, jinput main + natives
	// (mirror fallback, no downloads block), 2 assets, log config.
	// the osx-only library and the hashless asset stay out
	if got := mgr.Len(); got != 9 {
		t.Errorf("queued %d items, want 9", got)
	}
}

func TestFindMissing(t *testing.T) {
	instance := New(t.TempDir())
	env := minecraft.Env{OS: "linux", Arch: "x64"}

	man := testManifest(t, `{"id": "1.20.1", "libraries": [
		{"name": "com.example:present:1.0"},
		{"name": "com.example:absent:1.0"}
	]}`)

	presentPath := filepath.Join(instance.LibrariesDir(), "com", "example", "present", "1.0", "present-1.0.jar")
	if err := os.MkdirAll(filepath.Dir(presentPath), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(presentPath, []byte("jar"), 0644); err != nil {
		t.Fatal(err)
	}

	missing, err := instance.FindMissingLibraries(man, env)
	if err != nil {
		t.Fatalf("FindMissingLibraries() error = %v", err)
	}
	if len(missing) != 1 || missing[0].Name != "com.example:absent:1.0" {
		t.Errorf("missing = %v, want only the absent library", missing)
	}

	index := &minecraft.AssetIndex{Objects: map[string]minecraft.AssetObject{
		"present.ogg": {Hash: "fe32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053", Size: 10},
		"absent.ogg":  {Hash: "aa32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053", Size: 10},
	}}
	presentAsset := filepath.Join(instance.AssetsDir(), "objects", "fe", "fe32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053")
	if err := os.MkdirAll(filepath.Dir(presentAsset), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(presentAsset, []byte("ogg"), 0644); err != nil {
		t.Fatal(err)
	}

	missingAssets := instance.FindMissingAssets(index)
	if len(missingAssets) != 1 || missingAssets[0].Hash != "aa32f3b8a0b2b61f6664ab68a30e9fc0e8b4b053" {
		t.Errorf("missing assets = %v, want only the absent object", missingAssets)
	}
}
