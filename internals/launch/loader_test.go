package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoaderMainClass(t *testing.T) {
	tests := []struct {
		name      string
		loader    LoaderType
		mcVersion string
		want      string
		wantOk    bool
	}{
		{"vanilla has no override", LoaderVanilla, "1.20.1", "", false},
		{"fabric", LoaderFabric, "1.20.1", "net.fabricmc.loader.impl.launch.knot.KnotClient", true},
		{"quilt", LoaderQuilt, "1.20.1", "org.quiltmc.loader.impl.launch.knot.KnotClient", true},
		{"legacy forge", LoaderForge, "1.12.2", "net.minecraft.launchwrapper.Launch", true},
		{"modern forge", LoaderForge, "1.13.2", "cpw.mods.modlauncher.Launcher", true},
		{"current forge", LoaderForge, "1.20.1", "cpw.mods.modlauncher.Launcher", true},
		{"unparseable version gets modern forge", LoaderForge, "23w31a", "cpw.mods.modlauncher.Launcher", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.loader.MainClass(tt.mcVersion)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("MainClass(%q) = %q, %v, want %q, %v", tt.mcVersion, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestLoaderClasspath(t *testing.T) {
	t.Run("fabric static entry", func(t *testing.T) {
		cfg := validConfig()
		cfg.Profile.Loader = LoaderFabric
		cfg.Profile.LoaderVersion = "0.14.21"

		entries := loaderClasspath(cfg)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		want := filepath.Join(cfg.LibrariesDir, "net", "fabricmc", "fabric-loader", "0.14.21", "fabric-loader-0.14.21.jar")
		if entries[0] != want {
			t.Errorf("entry = %q, want %q", entries[0], want)
		}
	})

	t.Run("forge installed profile is flattened", func(t *testing.T) {
		cfg := validConfig()
		cfg.VersionsDir = t.TempDir()
		cfg.Profile.Loader = LoaderForge
		cfg.Profile.LoaderVersion = "47.1.0"

		id := "1.20.1-forge-47.1.0"
		dir := filepath.Join(cfg.VersionsDir, id)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			t.Fatal(err)
		}
		profile := `{"libraries": [
			{"name": "cpw.mods:modlauncher:10.0.9"},
			{"name": "net.minecraftforge:forge:1.20.1-47.1.0"},
			{"name": "broken-coordinate"}
		]}`
		if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte(profile), 0644); err != nil {
			t.Fatal(err)
		}

		entries := loaderClasspath(cfg)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2 (broken coordinate skipped): %v", len(entries), entries)
		}
		if !strings.Contains(entries[0], filepath.Join("cpw", "mods", "modlauncher")) {
			t.Errorf("first entry = %q", entries[0])
		}
	})

	t.Run("missing forge profile falls back to static path", func(t *testing.T) {
		cfg := validConfig()
		cfg.VersionsDir = t.TempDir()
		cfg.Profile.Loader = LoaderForge
		cfg.Profile.LoaderVersion = "47.1.0"

		entries := loaderClasspath(cfg)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		want := filepath.Join(cfg.LibrariesDir, "net", "minecraftforge", "forge", "1.20.1-47.1.0", "forge-1.20.1-47.1.0.jar")
		if entries[0] != want {
			t.Errorf("entry = %q, want %q", entries[0], want)
		}
	})

	t.Run("vanilla adds nothing", func(t *testing.T) {
		if entries := loaderClasspath(validConfig()); entries != nil {
			t.Errorf("entries = %v, want nil", entries)
		}
	})
}
