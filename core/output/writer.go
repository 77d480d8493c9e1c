// Package output handles file naming and writing for pagescrub outputs.
// Filenames are derived from page titles and made safe on every common
// filesystem; names already used in the run get a numeric suffix.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// maxFilename is the usual per-component limit of common filesystems.
const maxFilename = 255

var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string

	mu   sync.Mutex
	used map[string]bool
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}
	if err := Prepare(outputDir, "output"); err != nil {
		return nil, err
	}
	return &Writer{OutputDir: outputDir, used: make(map[string]bool)}, nil
}

// Prepare makes sure dir exists and is a directory.
func Prepare(dir, label string) error {
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("%s path is not a directory: %s", label, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s directory could not be created: %s (%w)", label, dir, err)
	}
	return nil
}

// Write stores data under a safe filename built from name and ext and
// returns the path written. Each call claims its filename, so a second page
// with the same name gets "_1" and so on.
func (w *Writer) Write(name, ext string, data []byte) (string, error) {
	w.mu.Lock()
	filename := SafeFilename(name, ext, w.used)
	w.used[filename] = true
	w.mu.Unlock()

	path := filepath.Join(w.OutputDir, filename)
	if err := WriteFile(path, data, "output"); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes data to path, refusing to replace a directory. label
// names the kind of file in error messages.
func WriteFile(path string, data []byte, label string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s path is a directory: %s", label, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s file could not be written: %s (%w)", label, path, err)
	}
	return nil
}

// SafeFilename turns a page name into a filename: folded to ASCII, characters
// invalid on Windows or control characters replaced with '-', whitespace
// collapsed, trailing dots and spaces trimmed and the whole name kept within
// 255 bytes. Reserved device names and names present in existing get a
// "_N" suffix. An empty result becomes "page".
func SafeFilename(name, ext string, existing map[string]bool) string {
	maxBase := maxFilename - len(ext)
	if maxBase < 1 {
		if len(ext) > maxFilename {
			ext = ext[:maxFilename]
		}
		maxBase = maxFilename - len(ext)
	}

	root := truncateBase(normalizeBase(name), maxBase)
	if root == "" {
		root = truncateBase("page", maxBase)
	}
	base := root
	counter := 0
	if windowsReserved[strings.ToUpper(root)] {
		counter = 1
		base = withSuffix(root, counter, maxBase)
	}
	filename := base + ext
	for existing[filename] {
		counter++
		filename = withSuffix(root, counter, maxBase) + ext
	}
	return filename
}

func normalizeBase(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		switch {
		case r >= 0x80:
		case r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	return strings.Trim(s, " .")
}

func truncateBase(base string, limit int) string {
	if limit < 1 {
		return ""
	}
	if len(base) > limit {
		base = base[:limit]
	}
	return strings.TrimRight(base, " .")
}

func withSuffix(root string, n, maxBase int) string {
	suffix := "_" + strconv.Itoa(n)
	maxRoot := maxBase - len(suffix)
	r := truncateBase(root, maxRoot)
	if r == "" {
		r = truncateBase("page", maxRoot)
	}
	return r + suffix
}
