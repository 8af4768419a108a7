// Package theme loads the scene trope catalog and builds the theme menu
// offered to the model.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// MenuSize is how many tropes the menu offers.
	MenuSize = 3

	// NoThemes is the menu used when the catalog is empty.
	NoThemes = "General: No themes available."

	defaultCategory = "Unknown Category"
	defaultTitle    = "Untitled"
)

type Catalog struct {
	SceneTropes []Category `json:"scene_tropes" yaml:"scene_tropes"`
}

type Category struct {
	Category string   `json:"category" yaml:"category"`
	Details  []Detail `json:"details" yaml:"details"`
}

type Detail struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Trope is one catalog entry with its category attached.
type Trope struct {
	Category    string
	Title       string
	Description string
}

// Load reads a catalog from path. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Catalog{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing theme catalog %s: %w", filepath.Base(path), err)
	}

	return c, nil
}

// LoadOrEmpty is Load with failures logged and replaced by an empty catalog.
func LoadOrEmpty(path string, logger *slog.Logger) *Catalog {
	c, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("theme catalog not found", "path", path)
		} else {
			logger.Warn("theme catalog unreadable", "path", path, "error", err)
		}
		return &Catalog{}
	}

	logger.Debug("loaded theme catalog", "categories", len(c.SceneTropes), "tropes", len(c.Tropes()))
	return c
}

// Tropes flattens the catalog in file order.
func (c *Catalog) Tropes() []Trope {
	var out []Trope
	for _, cat := range c.SceneTropes {
		name := cat.Category
		if name == "" {
			name = defaultCategory
		}
		for _, d := range cat.Details {
			title := d.Title
			if title == "" {
				title = defaultTitle
			}
			out = append(out, Trope{Category: name, Title: title, Description: d.Description})
		}
	}
	return out
}

// Sample picks up to n distinct tropes at random.
func (c *Catalog) Sample(r *rand.Rand, n int) []Trope {
	tropes := c.Tropes()
	r.Shuffle(len(tropes), func(i, j int) { tropes[i], tropes[j] = tropes[j], tropes[i] })
	return tropes[:min(n, len(tropes))]
}

// Menu renders MenuSize sampled tropes as a numbered list.
func (c *Catalog) Menu(r *rand.Rand) string {
	return FormatMenu(c.Sample(r, MenuSize))
}

// FormatMenu renders tropes as
//
//	Theme Options:
//	1. [category] title: description
func FormatMenu(tropes []Trope) string {
	if len(tropes) == 0 {
		return NoThemes
	}

	var sb strings.Builder
	sb.WriteString("Theme Options:\n")
	for i, t := range tropes {
		fmt.Fprintf(&sb, "%d. [%s] %s: %s\n", i+1, t.Category, t.Title, t.Description)
	}
	return sb.String()
}
