// Package natives unpacks platform-native library archives into the
// per-version natives directory.
package natives

import (
	"archive/zip"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocklift/blocklift/internals/minecraft"
)

// stampFile records what an extracted natives dir was built from.
// A matching stamp makes Extract a no-op.
const stampFile = ".blocklift-natives"

// Extract unpacks the native jar of every library that has one for env into
// nativesDir. META-INF entries and directories are skipped.
//
// One library failing to extract is logged and skipped, the rest still gets
// extracted. The stamp (usually the version id) makes repeated extraction
// for the same version a no-op; it is only written when every library
// extracted, so a rerun retries the failed jars.
func Extract(libs minecraft.Libraries, env minecraft.Env, librariesDir string, nativesDir string, stamp string) error {
	if stamp != "" && readStamp(nativesDir) == stamp {
		return nil
	}

	if err := os.MkdirAll(nativesDir, os.ModePerm); err != nil {
		return err
	}

	complete := true
	for _, lib := range libs.Required(env) {
		_, relPath, ok := lib.NativeArtifact(env)
		if !ok {
			continue
		}

		archive := filepath.Join(librariesDir, relPath)
		if _, err := os.Stat(archive); err != nil {
			log.Printf("[WARN] skipping natives of %s: archive %s not on disk", lib.Name, archive)
			complete = false
			continue
		}

		if err := extractJar(archive, nativesDir); err != nil {
			log.Printf("[WARN] could not extract natives of %s: %v", lib.Name, err)
			complete = false
		}
	}

	if stamp != "" && complete {
		if err := os.WriteFile(filepath.Join(nativesDir, stampFile), []byte(stamp), 0644); err != nil {
			return err
		}
	}
	return nil
}

func readStamp(nativesDir string) string {
	buf, err := os.ReadFile(filepath.Join(nativesDir, stampFile))
	if err != nil {
		return ""
	}
	return string(buf)
}

func extractJar(jar string, target string) error {
	r, err := zip.OpenReader(jar)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "META-INF") || f.FileInfo().IsDir() {
			continue
		}

		dest := filepath.Join(target, filepath.FromSlash(f.Name))
		// entries must stay inside the natives dir
		if !strings.HasPrefix(dest, filepath.Clean(target)+string(os.PathSeparator)) {
			continue
		}

		if err := writeEntry(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
