package vignette

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

const (
	// FileTimeLayout stamps artifact names.
	FileTimeLayout = "2006-01-02_15-04-05"

	defaultListTheme = "Story Vignette"
	interactiveTheme = "Interactive Response"
)

// MetaField is one "- **Key:** value" line of the metadata block.
type MetaField struct {
	Key   string
	Value string
}

// Markdown renders a vignette document: title, metadata block, then the
// prose under a "## Vignette" heading.
func Markdown(title string, meta []MetaField, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if len(meta) > 0 {
		sb.WriteString("## Metadata\n\n")
		for _, f := range meta {
			fmt.Fprintf(&sb, "- **%s:** %s\n", f.Key, singleLine(f.Value))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Vignette\n\n")
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}

	return sb.String()
}

// singleLine folds multi-line values so the metadata stays one field per line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func summaryText(title, summary string) string {
	return fmt.Sprintf("%s\n%s\n\n%s\n", title, strings.Repeat("=", 50), strings.TrimSpace(summary))
}

func writeArtifact(path, content string) error {
	if err := docstore.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Metadata is what the listing reads back out of a vignette file.
type Metadata struct {
	Theme        string
	Generated    string
	PartyMembers string
}

var (
	themeRe     = regexp.MustCompile(`\*\*Theme:\*\*\s*(.+)`)
	generatedRe = regexp.MustCompile(`\*\*Generated:\*\*\s*(.+)`)
	partyRe     = regexp.MustCompile(`\*\*Party Members:\*\*\s*(.+)`)
)

// ParseMetadata reads the metadata fields from a vignette document.
func ParseMetadata(content string) Metadata {
	find := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}

	return Metadata{
		Theme:        find(themeRe),
		Generated:    find(generatedRe),
		PartyMembers: find(partyRe),
	}
}

// Entry is one vignette file as shown by the API.
type Entry struct {
	Name          string `json:"name"`
	Timestamp     string `json:"timestamp"`
	Theme         string `json:"theme"`
	IsInteractive bool   `json:"isInteractive"`
	Content       string `json:"content"`
	FilePath      string `json:"file_path"`
}

// List returns every markdown file in dir, most recently modified first. A
// missing dir yields no entries.
func List(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing vignettes: %w", err)
	}

	type file struct {
		path string
		mod  time.Time
	}
	files := make([]file, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, file{m, info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			continue
		}
		content := string(data)
		meta := ParseMetadata(content)

		e := Entry{
			Name:          filepath.Base(f.path),
			Timestamp:     meta.Generated,
			Theme:         meta.Theme,
			IsInteractive: strings.Contains(strings.ToLower(filepath.Base(f.path)), "interactive"),
			Content:       content,
			FilePath:      f.path,
		}
		if e.Timestamp == "" {
			e.Timestamp = f.mod.Format(time.RFC3339)
		}
		if e.Theme == "" {
			e.Theme = defaultListTheme
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// Find returns the entry called name, or the newest entry when name is
// empty. It reports false when nothing matches.
func Find(dir, name string) (Entry, bool, error) {
	entries, err := List(dir)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if name == "" || e.Name == name || strings.TrimSuffix(e.Name, ".md") == name {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}
