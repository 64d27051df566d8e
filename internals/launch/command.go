package launch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/blocklift/blocklift/internals/minecraft"
)

// Command is the final process invocation. It is handed to an external
// process supervisor and never mutated after Build returns it.
type Command struct {
	Executable string
	Args       []string
	WorkingDir string
	Env        []string
}

// String renders the invocation the way a shell user would type it
func (c *Command) String() string {
	return c.Executable + " " + strings.Join(c.Args, " ")
}

// jvmPerformanceArgs is the tuned G1 block every launch gets
var jvmPerformanceArgs = []string{
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+UseG1GC",
	"-XX:G1NewSizePercent=20",
	"-XX:G1ReservePercent=20",
	"-XX:MaxGCPauseMillis=50",
	"-XX:G1HeapRegionSize=32M",
}

var placeholderRegex = regexp.MustCompile(`\$\{[a-zA-Z0-9_]+\}`)

// Build validates cfg and composes the full invocation: jvm arguments,
// classpath and game arguments per the manifest's templates.
func Build(cfg *Config) (*Command, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env := cfg.platformEnv()
	man := cfg.Manifest
	mcVersion := man.MinecraftVersion()

	mainClass := man.MainClass
	if override, ok := cfg.Profile.Loader.MainClass(mcVersion); ok {
		mainClass = override
	}

	mainJar := filepath.Join(cfg.VersionsDir, mcVersion, man.JarName())
	classpath := buildClasspath(cfg, env, mainJar)
	replacer := newReplacer(cfg, classpath)

	args := buildJVMArgs(cfg, env, mainJar, replacer)
	args = append(args, "-cp", classpath, mainClass)
	args = append(args, buildGameArgs(cfg, env, replacer)...)

	// some things may rely on PWD
	cmdEnv := append([]string{}, cfg.Env...)
	cmdEnv = append(cmdEnv, "PWD="+cfg.GameDir)

	return &Command{
		Executable: cfg.JavaBin,
		Args:       args,
		WorkingDir: cfg.GameDir,
		Env:        cmdEnv,
	}, nil
}

// buildClasspath joins the main jar, every rule-passing library and the
// loader's own entries, deduplicated, in that order
func buildClasspath(cfg *Config, env minecraft.Env, mainJar string) string {
	entries := []string{mainJar}
	seen := map[string]bool{mainJar: true}

	appendEntry := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		entries = append(entries, path)
	}

	for _, lib := range cfg.Manifest.Libraries.Required(env) {
		lib := lib
		path, err := lib.Filepath()
		if err != nil {
			log.Printf("[WARN] leaving library %q off the classpath: %v", lib.Name, err)
			continue
		}
		appendEntry(filepath.Join(cfg.LibrariesDir, path))
	}

	for _, entry := range loaderClasspath(cfg) {
		appendEntry(entry)
	}

	return strings.Join(entries, cpSeparator())
}

func buildJVMArgs(cfg *Config, env minecraft.Env, mainJar string, replacer *strings.Replacer) []string {
	args := make([]string, 0, 16)

	// macos crashes without this one
	if env.OS == "osx" {
		args = append(args, "-XstartOnFirstThread")
	}

	args = append(args,
		fmt.Sprintf("-Xms%dM", cfg.Profile.MemoryMinMiB),
		fmt.Sprintf("-Xmx%dM", cfg.Profile.MemoryMaxMiB),
		"-Djava.library.path="+cfg.NativesDir,
		"-Dminecraft.client.jar="+mainJar,
	)
	args = append(args, jvmPerformanceArgs...)

	if logging := cfg.Manifest.Logging.Client; logging.Argument != "" && logging.File.ID != "" {
		path := filepath.Join(cfg.AssetsDir, "log_configs", logging.File.ID)
		if _, err := os.Stat(path); err == nil {
			args = append(args, strings.ReplaceAll(logging.Argument, "${path}", path))
		}
	}

	args = append(args, cfg.Profile.ExtraJvmArgs...)

	for _, arg := range cfg.Manifest.Arguments.JVM {
		if !arg.Rules.Allowed(env) {
			continue
		}
		for _, tmpl := range arg.Value {
			// the classpath and natives dir are set explicitly above
			if tmpl == "-cp" || tmpl == "-classpath" || tmpl == "${classpath}" {
				continue
			}
			if strings.HasPrefix(tmpl, "-Djava.library.path=") {
				continue
			}
			args = append(args, substitute(tmpl, replacer))
		}
	}

	return args
}

// buildGameArgs resolves the templated argument list, or the single
// pre-formatted legacy string, and injects defaults for required flags the
// templates did not produce. Both formats converge on the same final set.
func buildGameArgs(cfg *Config, env minecraft.Env, replacer *strings.Replacer) []string {
	var args []string

	switch {
	case len(cfg.Manifest.Arguments.Game) != 0:
		for _, arg := range cfg.Manifest.Arguments.Game {
			if !arg.Rules.Allowed(env) {
				continue
			}
			for _, tmpl := range arg.Value {
				args = append(args, substitute(tmpl, replacer))
			}
		}
	case cfg.Manifest.MinecraftArguments != "":
		for _, tmpl := range strings.Fields(cfg.Manifest.MinecraftArguments) {
			args = append(args, substitute(tmpl, replacer))
		}
	}

	present := make(map[string]bool, len(args))
	for _, arg := range args {
		present[arg] = true
	}

	defaults := []struct{ flag, value string }{
		{"--username", sanitizeValue(cfg.Auth.GetPlayerName())},
		{"--uuid", sanitizeValue(cfg.Auth.GetUUID())},
		{"--accessToken", sanitizeValue(cfg.Auth.GetAccessToken())},
		{"--gameDir", cfg.GameDir},
		{"--assetsDir", cfg.AssetsDir},
		{"--assetIndex", cfg.Manifest.Assets},
		{"--version", cfg.Manifest.ID},
		{"--versionType", cfg.Manifest.Type},
	}
	for _, def := range defaults {
		if def.value == "" || present[def.flag] {
			continue
		}
		args = append(args, def.flag, def.value)
	}

	return args
}

// newReplacer builds the placeholder table. Values that come from outside
// (auth material, profile strings, version metadata) are sanitized, the
// game has failed to parse its own arguments on unsanitized input before.
// Launcher-owned values like paths and the classpath are used as is.
func newReplacer(cfg *Config, classpath string) *strings.Replacer {
	man := cfg.Manifest

	sanitized := map[string]string{
		"auth_player_name":  cfg.Auth.GetPlayerName(),
		"auth_uuid":         cfg.Auth.GetUUID(),
		"auth_access_token": cfg.Auth.GetAccessToken(),
		"auth_session":      cfg.Auth.GetAccessToken(),
		"user_type":         cfg.Auth.GetUserType(),
		"version_name":      man.ID,
		"version_type":      man.Type,
		"assets_index_name": man.Assets,
		"launcher_name":     cfg.LauncherName,
		"launcher_version":  cfg.LauncherVersion,
		"clientid":          cfg.LauncherName,
	}
	raw := map[string]string{
		"auth_xuid":           "0",
		"user_properties":     "{}",
		"game_directory":      cfg.GameDir,
		"assets_root":         cfg.AssetsDir,
		"game_assets":         cfg.AssetsDir,
		"natives_directory":   cfg.NativesDir,
		"library_directory":   cfg.LibrariesDir,
		"classpath":           classpath,
		"classpath_separator": cpSeparator(),
	}

	pairs := make([]string, 0, (len(sanitized)+len(raw))*2)
	for k, v := range sanitized {
		pairs = append(pairs, "${"+k+"}", sanitizeValue(v))
	}
	for k, v := range raw {
		pairs = append(pairs, "${"+k+"}", v)
	}
	return strings.NewReplacer(pairs...)
}

func substitute(tmpl string, replacer *strings.Replacer) string {
	replaced := replacer.Replace(tmpl)

	// unresolvable variables are dropped, not passed through
	if placeholderRegex.MatchString(replaced) {
		log.Printf("[WARN] unresolvable variable in launch args: %s", replaced)
		replaced = placeholderRegex.ReplaceAllString(replaced, "")
	}
	return replaced
}

func cpSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
