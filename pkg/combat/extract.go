// Package combat turns raw combat logs into summaries and pulls the
// executive summary of the most recent fight out of them.
package combat

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const summarySuffix = "_summary.txt"

var executiveSummaryRe = regexp.MustCompile(`(?s)## 1\. Executive Summary(.*?)(?:##|\z)`)

// Summary is an executive summary together with the file it came from.
type Summary struct {
	Text   string
	Source string
}

// ExtractExecutiveSummary returns the trimmed text between the executive
// summary heading and the next heading or the end of text.
func ExtractExecutiveSummary(text string) (string, bool) {
	m := executiveSummaryRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// LatestSummary returns the most recently modified summary file in dir, or
// "" when there is none.
func LatestSummary(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+summarySuffix))
	if err != nil {
		return "", fmt.Errorf("listing combat summaries: %w", err)
	}

	var (
		latest   string
		latestAt time.Time
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestAt) {
			latest, latestAt = m, info.ModTime()
		}
	}

	return latest, nil
}

// Extractor reads the executive summary of the newest combat summary file.
type Extractor struct {
	dir    string
	logger *slog.Logger
}

func NewExtractor(dir string, logger *slog.Logger) *Extractor {
	return &Extractor{dir: dir, logger: logger}
}

// Latest reports false when there is no summary file, the file cannot be
// read, or it has no executive summary section.
func (e *Extractor) Latest() (Summary, bool) {
	path, err := LatestSummary(e.dir)
	if err != nil {
		e.logger.Warn("finding latest combat summary", "dir", e.dir, "error", err)
		return Summary{}, false
	}
	if path == "" {
		e.logger.Debug("no combat summaries found", "dir", e.dir)
		return Summary{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("reading combat summary", "file", path, "error", err)
		}
		return Summary{}, false
	}

	text, ok := ExtractExecutiveSummary(string(data))
	if !ok || text == "" {
		e.logger.Warn("no executive summary found", "file", filepath.Base(path))
		return Summary{}, false
	}

	return Summary{Text: text, Source: filepath.Base(path)}, true
}
