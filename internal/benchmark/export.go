// internal/benchmark/export.go
package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9_]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// ExportFileName names the export of r, e.g. "rsa-vs-ecc-20x150.json".
func ExportFileName(r BatchResults) string {
	name := Slugify(fmt.Sprintf("%s vs %s", r.AlgorithmA, r.AlgorithmB))
	if name == "" {
		name = "batch"
	}
	return fmt.Sprintf("%s-%dx%d.json", name, r.RequestedTests, r.DataSize)
}

// WriteResults writes r as indented JSON into dir and returns the file path.
func WriteResults(dir string, r BatchResults) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	fileName := filepath.Join(dir, ExportFileName(r))

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return "", fmt.Errorf("error writing results to file: %w", err)
	}

	logging.LogEvent("batch results written to %s", fileName)
	return fileName, nil
}

// Slugify converts a string into a "slug" format. Plus signs become "plus"
// so that "RSA+AES" and "RSA AES" stay distinct.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "+", "-plus-")
	s = strings.ReplaceAll(s, ":", "_")
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}
