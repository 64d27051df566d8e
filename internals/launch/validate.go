package launch

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every problem found in a Config so the user
// sees all of them at once instead of one per attempt
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(
		"launch configuration invalid (%d problems):\n\t%s",
		len(e.Issues),
		strings.Join(e.Issues, "\n\t"),
	)
}

// Validate checks the configuration without any i/o. It returns a single
// *ValidationError listing every violation, or nil.
func (c *Config) Validate() error {
	var issues []string
	add := func(format string, a ...interface{}) {
		issues = append(issues, fmt.Sprintf(format, a...))
	}

	if c.Profile == nil {
		add("no profile set")
	} else {
		if c.Profile.MemoryMinMiB < MinMemoryMiB {
			add("memory minimum is %d MiB, needs at least %d MiB", c.Profile.MemoryMinMiB, MinMemoryMiB)
		}
		if c.Profile.MemoryMaxMiB < c.Profile.MemoryMinMiB {
			add("memory maximum (%d MiB) is below the minimum (%d MiB)", c.Profile.MemoryMaxMiB, c.Profile.MemoryMinMiB)
		}
		if c.Profile.Loader != LoaderVanilla && c.Profile.LoaderVersion == "" {
			add("loader %q configured without a loader version", c.Profile.Loader)
		}
	}

	if c.Manifest == nil {
		add("no version manifest set")
	} else {
		mainClass := c.Manifest.MainClass
		if c.Profile != nil {
			if override, ok := c.Profile.Loader.MainClass(c.Manifest.MinecraftVersion()); ok {
				mainClass = override
			}
		}
		if mainClass == "" {
			add("version %q has no main class", c.Manifest.ID)
		}
	}

	if c.Auth == nil {
		add("no authentication data set")
	} else {
		if c.Auth.GetAccessToken() == "" {
			add("authentication data has no access token")
		}
		if c.Auth.GetPlayerName() == "" {
			add("authentication data has no player name")
		}
		if c.Auth.GetUUID() == "" {
			add("authentication data has no account id")
		}
		if expiry := c.Auth.GetExpiry(); !expiry.IsZero() && expiry.Before(c.timeNow()) {
			add("access token expired at %s", expiry.Format("2006-01-02 15:04:05"))
		}
	}

	if c.JavaBin == "" {
		add("no java runtime set")
	}
	if c.GameDir == "" {
		add("no game directory set")
	}

	if len(issues) != 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
