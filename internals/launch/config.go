// Package launch turns a fully resolved version manifest, a profile and
// authentication material into the process invocation that starts the game.
package launch

import (
	"time"

	"github.com/google/uuid"
	"github.com/pbnjay/memory"

	"github.com/blocklift/blocklift/internals/minecraft"
)

// AuthData is the authentication material required to launch.
// It is supplied by an external authentication provider.
type AuthData interface {
	GetAccessToken() string
	GetPlayerName() string
	GetUUID() string
	GetUserType() string
	// GetExpiry returns when the access token stops working.
	// The zero time means it does not expire
	GetExpiry() time.Time
}

// Session is a plain AuthData implementation
type Session struct {
	AccessToken string
	PlayerName  string
	UUID        string
	UserType    string
	Expiry      time.Time
}

func (s *Session) GetAccessToken() string { return s.AccessToken }
func (s *Session) GetPlayerName() string  { return s.PlayerName }
func (s *Session) GetUUID() string        { return s.UUID }
func (s *Session) GetUserType() string    { return s.UserType }
func (s *Session) GetExpiry() time.Time   { return s.Expiry }

// OfflineSession returns a session with a deterministic uuid derived from
// the player name. Good enough for servers running in offline mode
func OfflineSession(name string) *Session {
	return &Session{
		AccessToken: "offline",
		PlayerName:  name,
		UUID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("blocklift:offline:"+name)).String(),
		UserType:    "legacy",
	}
}

// Profile is the user-facing launch profile, supplied by an external
// profile store
type Profile struct {
	Name      string
	VersionID string
	// MemoryMinMiB and MemoryMaxMiB bound the jvm heap. A zero max is
	// derived from system memory
	MemoryMinMiB int
	MemoryMaxMiB int
	ExtraJvmArgs []string
	Loader       LoaderType
	// LoaderVersion is the mod loader version, required for non vanilla loaders
	LoaderVersion string
}

// Config is everything needed to build one launch command.
// It is validated once by Build and not mutated afterwards.
type Config struct {
	Profile  *Profile
	Manifest *minecraft.LaunchManifest
	Auth     AuthData
	// JavaBin is the absolute path of the java executable,
	// supplied by an external runtime locator
	JavaBin string

	GameDir      string
	AssetsDir    string
	LibrariesDir string
	VersionsDir  string
	NativesDir   string

	// Env is passed through to the spawned process
	Env []string

	LauncherName    string
	LauncherVersion string

	// Platform overrides the detected rule environment, used in tests
	Platform minecraft.Env

	// now is a test hook for expiry checks
	now func() time.Time
}

const (
	// MinMemoryMiB is the smallest heap the game starts with reliably
	MinMemoryMiB = 512

	defaultMemoryFloorMiB = 2048
)

// applyDefaults fills derived values before validation
func (c *Config) applyDefaults() {
	if c.Profile == nil {
		return
	}
	if c.Profile.MemoryMinMiB == 0 {
		c.Profile.MemoryMinMiB = MinMemoryMiB
	}
	if c.Profile.MemoryMaxMiB == 0 {
		c.Profile.MemoryMaxMiB = defaultMaxMemoryMiB()
	}
	if c.LauncherName == "" {
		c.LauncherName = "blocklift"
	}
}

// defaultMaxMemoryMiB takes a quarter of system memory, clamped between a
// fixed floor and 85% of what the machine has
func defaultMaxMemoryMiB() int {
	sysMiB := float64(memory.TotalMemory()) / 1024 / 1024
	if sysMiB <= 0 {
		return defaultMemoryFloorMiB
	}

	max := sysMiB / 4
	if max < defaultMemoryFloorMiB {
		max = defaultMemoryFloorMiB
	}
	if ceiling := sysMiB * 0.85; max > ceiling {
		max = ceiling
	}
	return int(max)
}

func (c *Config) platformEnv() minecraft.Env {
	if c.Platform.OS != "" {
		return c.Platform
	}
	return minecraft.CurrentEnv()
}

func (c *Config) timeNow() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}
