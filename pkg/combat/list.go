package combat

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const fileTimeLayout = "2006-01-02 15-04-05"

var summaryNameRe = regexp.MustCompile(`^CombatLogs(.+?) - (\d{4}-\d{2}-\d{2} \d{2}-\d{2}-\d{2})_summary\.txt$`)

// Entry is one summary file as shown by the API.
type Entry struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location"`
	Summary   string    `json:"summary"`
	FilePath  string    `json:"file_path"`
}

// ParseSummaryName extracts the location and fight time encoded in a summary
// file name.
func ParseSummaryName(name string) (location string, at time.Time, ok bool) {
	m := summaryNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, false
	}
	at, err := time.ParseInLocation(fileTimeLayout, m[2], time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	return strings.TrimSpace(m[1]), at, true
}

// List returns every summary in dir, most recently modified first. Names
// that do not carry a location and time fall back to "Unknown" and the
// file's modification time. A missing dir yields no entries.
func List(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+summarySuffix))
	if err != nil {
		return nil, fmt.Errorf("listing combat summaries: %w", err)
	}

	type file struct {
		path string
		mod  time.Time
	}
	files := make([]file, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		files = append(files, file{m, info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f.path)
		if err != nil {
			continue
		}

		name := filepath.Base(f.path)
		loc, at, ok := ParseSummaryName(name)
		if !ok {
			loc, at = "Unknown", f.mod
		}

		entries = append(entries, Entry{
			Name:      name,
			Timestamp: at,
			Location:  loc,
			Summary:   string(content),
			FilePath:  f.path,
		})
	}

	return entries, nil
}
