package launch

import (
	"strings"
	"testing"
	"time"

	"github.com/blocklift/blocklift/internals/minecraft"
)

func validConfig() *Config {
	man := &minecraft.LaunchManifest{
		ID:        "1.20.1",
		MainClass: "net.minecraft.client.main.Main",
		Assets:    "5",
		Type:      "release",
	}
	return &Config{
		Profile: &Profile{
			Name:         "default",
			VersionID:    "1.20.1",
			MemoryMinMiB: 512,
			MemoryMaxMiB: 2048,
		},
		Manifest:     man,
		Auth:         OfflineSession("Steve"),
		JavaBin:      "/usr/bin/java",
		GameDir:      "/data/game",
		AssetsDir:    "/data/assets",
		LibrariesDir: "/data/libraries",
		VersionsDir:  "/data/versions",
		NativesDir:   "/data/natives/1.20.1",
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	t.Run("all problems are collected at once", func(t *testing.T) {
		cfg := validConfig()
		cfg.JavaBin = ""
		cfg.GameDir = ""
		cfg.Manifest.MainClass = ""
		cfg.Profile.MemoryMaxMiB = 256

		err := cfg.Validate()
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("Validate() error = %T, want *ValidationError", err)
		}
		if len(verr.Issues) != 4 {
			t.Errorf("got %d issues, want 4:\n%s", len(verr.Issues), strings.Join(verr.Issues, "\n"))
		}
	})

	t.Run("loader without version", func(t *testing.T) {
		cfg := validConfig()
		cfg.Profile.Loader = LoaderFabric

		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "loader") {
			t.Fatalf("Validate() error = %v, want loader version issue", err)
		}
	})

	t.Run("loader main class satisfies the manifest check", func(t *testing.T) {
		cfg := validConfig()
		cfg.Manifest.MainClass = ""
		cfg.Profile.Loader = LoaderFabric
		cfg.Profile.LoaderVersion = "0.14.21"

		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth = &Session{
			AccessToken: "token",
			PlayerName:  "Steve",
			UUID:        "some-uuid",
			Expiry:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		cfg.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "expired") {
			t.Fatalf("Validate() error = %v, want expiry issue", err)
		}
	})

	t.Run("zero expiry never expires", func(t *testing.T) {
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	t.Run("incomplete auth", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth = &Session{}

		err := cfg.Validate()
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("Validate() error = %T, want *ValidationError", err)
		}
		if len(verr.Issues) != 3 {
			t.Errorf("got %d issues, want 3 (token, name, id)", len(verr.Issues))
		}
	})
}
