package launch

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/blocklift/blocklift/internals/minecraft"
)

// LoaderType identifies a mod loader. The zero value is vanilla
type LoaderType string

const (
	LoaderVanilla LoaderType = ""
	LoaderFabric  LoaderType = "fabric"
	LoaderQuilt   LoaderType = "quilt"
	LoaderForge   LoaderType = "forge"
)

// forge switched its entry point with the 1.13 rework
var forgeModernSince = semver.MustParse("1.13.0")

// MainClass returns the loader's entry point, overriding the vanilla main
// class. ok is false for vanilla. Forge picks its entry point by minecraft
// version: launchwrapper before 1.13, modlauncher from 1.13 on.
func (t LoaderType) MainClass(mcVersion string) (string, bool) {
	switch t {
	case LoaderFabric:
		return "net.fabricmc.loader.impl.launch.knot.KnotClient", true
	case LoaderQuilt:
		return "org.quiltmc.loader.impl.launch.knot.KnotClient", true
	case LoaderForge:
		if v, err := semver.NewVersion(mcVersion); err == nil && v.LessThan(forgeModernSince) {
			return "net.minecraft.launchwrapper.Launch", true
		}
		return "cpw.mods.modlauncher.Launcher", true
	default:
		return "", false
	}
}

// loaderClasspath returns the loader specific classpath entries, relative
// paths inside the libraries tree resolved to absolute ones by the caller.
//
// Fabric and quilt follow a static maven convention. Forge ships its own
// installed profile json whose library list is flattened; when that file is
// unreadable the static convention is the fallback.
func loaderClasspath(cfg *Config) []string {
	profile := cfg.Profile
	mcVersion := cfg.Manifest.MinecraftVersion()

	switch profile.Loader {
	case LoaderFabric:
		return []string{coordinateEntry(cfg, "net.fabricmc:fabric-loader:"+profile.LoaderVersion)}
	case LoaderQuilt:
		return []string{coordinateEntry(cfg, "org.quiltmc:quilt-loader:"+profile.LoaderVersion)}
	case LoaderForge:
		if entries, err := forgeProfileClasspath(cfg, mcVersion); err == nil {
			return entries
		} else {
			log.Printf("[WARN] forge profile unreadable, falling back to static path: %v", err)
		}
		coordinate := fmt.Sprintf("net.minecraftforge:forge:%s-%s", mcVersion, profile.LoaderVersion)
		return []string{coordinateEntry(cfg, coordinate)}
	default:
		return nil
	}
}

// forgeProfileClasspath reads the version json the forge installer wrote and
// flattens its declared libraries
func forgeProfileClasspath(cfg *Config, mcVersion string) ([]string, error) {
	id := fmt.Sprintf("%s-forge-%s", mcVersion, cfg.Profile.LoaderVersion)
	buf, err := os.ReadFile(filepath.Join(cfg.VersionsDir, id, id+".json"))
	if err != nil {
		return nil, err
	}

	var profile struct {
		Libraries []struct {
			Name string `json:"name"`
		} `json:"libraries"`
	}
	if err := json.Unmarshal(buf, &profile); err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(profile.Libraries))
	for _, lib := range profile.Libraries {
		path, err := minecraft.CoordinatePath(lib.Name, "")
		if err != nil {
			log.Printf("[WARN] skipping forge library %q: %v", lib.Name, err)
			continue
		}
		entries = append(entries, filepath.Join(cfg.LibrariesDir, path))
	}
	return entries, nil
}

func coordinateEntry(cfg *Config, coordinate string) string {
	path, err := minecraft.CoordinatePath(coordinate, "")
	if err != nil {
		return ""
	}
	return filepath.Join(cfg.LibrariesDir, path)
}
