// Package java locates a java runtime to launch with and checks it against
// the major version a manifest asks for.
package java

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

// ErrNoRuntime is returned when no java executable could be found
var ErrNoRuntime = errors.New("no java runtime found (set JAVA_HOME or pass --java)")

// Locate returns the java executable to use. An explicit path wins, then
// JAVA_HOME, then whatever is on PATH.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if home := os.Getenv("JAVA_HOME"); home != "" {
		bin := filepath.Join(home, "bin", binName())
		if _, err := os.Stat(bin); err == nil {
			return bin, nil
		}
	}

	if bin, err := exec.LookPath(binName()); err == nil {
		return bin, nil
	}
	return "", ErrNoRuntime
}

func binName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

// versionRegex matches the quoted version of `java -version` output,
// e.g. `openjdk version "17.0.8" 2023-07-18` or `java version "1.8.0_292"`
var versionRegex = regexp.MustCompile(`version "([0-9]+)(?:\.([0-9]+))?`)

// MajorVersion probes the runtime for its feature version (8, 11, 17, ...).
// Zero with a nil error is never returned.
func MajorVersion(ctx context.Context, bin string) (int, error) {
	// `java -version` prints to stderr
	out, err := exec.CommandContext(ctx, bin, "-version").CombinedOutput()
	if err != nil {
		return 0, errors.Wrapf(err, "probing java runtime %q", bin)
	}

	major, ok := ParseMajorVersion(string(out))
	if !ok {
		return 0, errors.Errorf("could not read a version from %q output", bin)
	}
	return major, nil
}

// ParseMajorVersion extracts the feature version from `java -version`
// output. The legacy "1.8.0" scheme maps to 8.
func ParseMajorVersion(out string) (int, bool) {
	m := versionRegex.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if major == 1 && m[2] != "" {
		major, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
	}
	return major, true
}
