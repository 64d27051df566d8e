package minecraft

import (
	"regexp"
	"runtime"
	"strings"
)

// Rule is a conditional-inclusion rule attached to a library or argument.
// All present conditions have to match the environment for the rule to fire.
type Rule struct {
	Action   string          `json:"action"`
	OS       OSRule          `json:"os"`
	Features map[string]bool `json:"features"`
}

// OSRule describes the os conditions of a [Rule]. Empty fields match anything.
type OSRule struct {
	Name string `json:"name"`
	// Version can contain "*" globs
	Version string `json:"version"`
	Arch    string `json:"arch"`
}

// Rules is an ordered rule list. An empty list allows everything.
type Rules []Rule

// Env is the environment rules are evaluated against
type Env struct {
	// OS uses mojang naming: linux, windows or osx
	OS        string
	OSVersion string
	// Arch is normalized: x86, x64 or arm64
	Arch     string
	Features map[string]bool
}

// CurrentEnv returns the Env of the running process
func CurrentEnv() Env {
	os := runtime.GOOS
	if os == "darwin" {
		os = "osx"
	}
	return Env{OS: os, Arch: NormalizeArch(runtime.GOARCH)}
}

// WithFeatures returns a copy of the env with the given feature flags set
func (e Env) WithFeatures(features map[string]bool) Env {
	e.Features = features
	return e
}

// NormalizeArch maps the many spellings of an architecture to one name
func NormalizeArch(arch string) string {
	switch arch {
	case "386", "i386", "ia32", "x86":
		return "x86"
	case "amd64", "x86_64", "x64":
		return "x64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// Allowed evaluates the rule list against env.
//
// An empty list allows. Otherwise the result starts out disallowed, every
// matching allow rule flips it and a matching disallow rule vetoes the whole
// list immediately, no matter what an earlier rule decided.
func (rs Rules) Allowed(env Env) bool {
	if len(rs) == 0 {
		return true
	}

	allowed := false
	for _, rule := range rs {
		if !rule.Matches(env) {
			continue
		}
		switch rule.Action {
		case "disallow":
			return false
		case "allow":
			allowed = true
		}
	}
	return allowed
}

// Matches reports whether every present condition of the rule holds for env
func (r Rule) Matches(env Env) bool {
	if r.OS.Name != "" && r.OS.Name != env.OS {
		return false
	}
	if r.OS.Version != "" && !matchOSVersion(r.OS.Version, env.OSVersion) {
		return false
	}
	if r.OS.Arch != "" && NormalizeArch(r.OS.Arch) != env.Arch {
		return false
	}
	for name, want := range r.Features {
		if env.Features[name] != want {
			return false
		}
	}
	return true
}

// matchOSVersion compares a version pattern against the actual os version.
// Patterns containing "*" are treated as globs, everything else is an exact
// string match.
func matchOSVersion(pattern string, version string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == version
	}
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(version)
}
