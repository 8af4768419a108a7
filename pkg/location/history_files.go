package location

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

const (
	filePrefix     = "new_locations_"
	mergedFileName = "new_locations_all_previous.txt"
	fileTimeLayout = "20060102_150405"

	headerLines = 2
)

// HistoryFiles maintains the plain-text location history in the saves folder:
// one timestamped file with the latest discoveries and one merged file with
// every location ever seen.
type HistoryFiles struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

func NewHistoryFiles(dir string, logger *slog.Logger) *HistoryFiles {
	return &HistoryFiles{dir: dir, now: time.Now, logger: logger}
}

// WithClock replaces the time source. Used by tests.
func (h *HistoryFiles) WithClock(now func() time.Time) *HistoryFiles {
	h.now = now
	return h
}

// Record writes names as the newest timestamped file, folds every known
// location into the merged file and removes older timestamped files.
// It returns the path of the newest file, or "" when names is empty.
func (h *HistoryFiles) Record(names []string) (string, error) {
	names = NormalizeAll(names)
	if len(names) == 0 {
		return "", nil
	}

	existing, err := h.timestampedFiles()
	if err != nil {
		return "", err
	}

	union, err := h.collect(existing)
	if err != nil {
		return "", err
	}
	union = append(union, names...)

	now := h.now()
	newest := filepath.Join(h.dir, filePrefix+now.Format(fileTimeLayout)+".txt")

	var sb strings.Builder
	fmt.Fprintf(&sb, "New locations found in save processed at %s:\n\n", now.Format(time.DateTime))
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}
	if err := docstore.WriteFile(newest, []byte(sb.String())); err != nil {
		return "", fmt.Errorf("writing location file: %w", err)
	}

	if err := h.writeMerged(union, now); err != nil {
		return "", err
	}
	h.removeExcept(existing, newest)

	h.logger.Info("recorded new locations", "file", filepath.Base(newest), "count", len(names))

	return newest, nil
}

// Latest returns the locations listed in the newest timestamped file.
func (h *HistoryFiles) Latest() ([]string, error) {
	files, err := h.timestampedFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return readNames(files[len(files)-1])
}

// All returns the locations in the merged file.
func (h *HistoryFiles) All() ([]string, error) {
	names, err := readNames(filepath.Join(h.dir, mergedFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return names, err
}

// Compact folds every existing location file into the merged file and keeps
// only the newest timestamped file.
func (h *HistoryFiles) Compact() error {
	existing, err := h.timestampedFiles()
	if err != nil {
		return err
	}

	union, err := h.collect(existing)
	if err != nil {
		return err
	}
	if len(union) == 0 {
		return nil
	}

	if err := h.writeMerged(union, h.now()); err != nil {
		return err
	}
	if len(existing) > 0 {
		h.removeExcept(existing, existing[len(existing)-1])
	}

	h.logger.Debug("compacted location files", "files", len(existing), "locations", len(union))

	return nil
}

// timestampedFiles lists new_locations_<ts>.txt files oldest first. The
// timestamp layout sorts lexically.
func (h *HistoryFiles) timestampedFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(h.dir, filePrefix+"*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing location files: %w", err)
	}

	files := matches[:0]
	for _, m := range matches {
		if filepath.Base(m) != mergedFileName {
			files = append(files, m)
		}
	}
	slices.Sort(files)

	return files, nil
}

// collect reads the merged file and every timestamped file.
func (h *HistoryFiles) collect(timestamped []string) ([]string, error) {
	var all []string

	for _, f := range append([]string{filepath.Join(h.dir, mergedFileName)}, timestamped...) {
		names, err := readNames(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			h.logger.Warn("skipping unreadable location file", "file", f, "error", err)
			continue
		}
		all = append(all, names...)
	}

	return all, nil
}

func (h *HistoryFiles) writeMerged(names []string, now time.Time) error {
	merged := NormalizeAll(names)
	slices.Sort(merged)

	var sb strings.Builder
	sb.WriteString("All previously discovered locations (merged file):\n")
	fmt.Fprintf(&sb, "Last updated: %s\n\n", now.Format(time.DateTime))
	for _, n := range merged {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}

	if err := docstore.WriteFile(filepath.Join(h.dir, mergedFileName), []byte(sb.String())); err != nil {
		return fmt.Errorf("writing merged location file: %w", err)
	}
	return nil
}

func (h *HistoryFiles) removeExcept(files []string, keep string) {
	for _, f := range files {
		if f == keep {
			continue
		}
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("removing old location file", "file", f, "error", err)
		}
	}
}

// readNames parses a location file: two header lines, then one name per
// line. Blank lines and "=" separators are skipped.
func readNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) <= headerLines {
		return nil, nil
	}

	var names []string
	for _, line := range lines[headerLines:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "=") || strings.HasPrefix(line, "Last updated:") {
			continue
		}
		names = append(names, line)
	}

	return names, nil
}
