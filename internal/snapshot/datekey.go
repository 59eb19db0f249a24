package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DateKeyLayout is the Go time layout of snapshot file names.
const DateKeyLayout = "2006_01_02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}_\d{2}_\d{2}$`)

// DateKey returns the snapshot key for a file path: the base name with its
// extension removed.
func DateKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ValidDateKey reports whether key follows the YYYY_MM_DD file convention
// and denotes a real calendar date.
func ValidDateKey(key string) bool {
	if !dateKeyPattern.MatchString(key) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, key)
	return err == nil
}

// ParseDateKey converts a snapshot key to its calendar date.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", key, err)
	}
	return t, nil
}

// Source pairs a snapshot date key with the file it was discovered in.
type Source struct {
	Key  string
	Path string
}

// ScanDir lists the snapshot files under dir carrying ext, sorted by date
// key ascending. Files whose base name is not a valid date key are skipped.
func ScanDir(dir, ext string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), ext)
		if !ValidDateKey(key) {
			continue
		}
		sources = append(sources, Source{Key: key, Path: filepath.Join(dir, entry.Name())})
	}

	// The YYYY_MM_DD layout sorts chronologically as plain strings.
	sort.Slice(sources, func(i, j int) bool { return sources[i].Key < sources[j].Key })
	return sources, nil
}
