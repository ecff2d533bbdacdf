//go:build ignore

package main

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	suiteURL    = "https://github.com/w3c/rdf-canon/archive/refs/heads/main.zip"
	suiteSubdir = "tests"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-directory>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nDownloads the W3C rdf-canon test suite to the specified directory.\n")
		fmt.Fprintf(os.Stderr, "The directory will contain manifest.jsonld and the rdfc10/ fixtures.\n")
		fmt.Fprintf(os.Stderr, "\nExample: %s ./rdfc-tests\n", os.Args[0])
		os.Exit(1)
	}

	outputDir := os.Args[1]
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Downloading W3C rdf-canon tests to: %s\n", outputDir)
	n, err := download(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading test suite: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "manifest.jsonld")); err != nil {
		fmt.Fprintf(os.Stderr, "Downloaded archive has no %s/manifest.jsonld\n", suiteSubdir)
		os.Exit(1)
	}

	fmt.Printf("\n✓ Extracted %d files\n", n)
	fmt.Printf("Set RDFC_TESTS_DIR=%s to run conformance tests.\n", outputDir)
}

func download(outputDir string) (int, error) {
	tmp, err := os.CreateTemp("", "rdf-canon-*.zip")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	fmt.Printf("  Fetching from %s...\n", suiteURL)
	resp, err := http.Get(suiteURL)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return 0, fmt.Errorf("failed to save download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}

	fmt.Printf("  Extracting...\n")
	return extractZip(tmp.Name(), outputDir)
}

// extractZip copies every file under <repo>-main/tests/ into outputDir.
func extractZip(zipFile, outputDir string) (int, error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Strip the archive's top-level directory.
		_, rest, ok := strings.Cut(f.Name, "/")
		if !ok {
			continue
		}
		relPath, ok := strings.CutPrefix(rest, suiteSubdir+"/")
		if !ok || relPath == "" {
			continue
		}

		destPath := filepath.Join(outputDir, filepath.FromSlash(relPath))
		if !strings.HasPrefix(destPath, filepath.Clean(outputDir)+string(os.PathSeparator)) {
			return count, fmt.Errorf("illegal path in archive: %s", f.Name)
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return count, err
		}
		if err := extractFile(f, destPath); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func extractFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
