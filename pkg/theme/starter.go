package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

// Starter is the catalog written by "vignettes init".
var Starter = Catalog{
	SceneTropes: []Category{
		{
			Category: "Camp",
			Details: []Detail{
				{Title: "Fireside Stories", Description: "The party trades tall tales around the fire after a long day."},
				{Title: "Night Watch", Description: "Two companions share a quiet conversation while the others sleep."},
			},
		},
		{
			Category: "Aftermath",
			Details: []Detail{
				{Title: "Counting the Cost", Description: "The crew tends wounds and argues over what the last fight was worth."},
				{Title: "Spoils", Description: "Loot is divided and old grudges surface over who earned what."},
			},
		},
		{
			Category: "Voyage",
			Details: []Detail{
				{Title: "Calm Seas", Description: "Idle hours aboard the ship bring out an unexpected confession."},
				{Title: "Storm Warning", Description: "The crew braces for weather while a newcomer proves themselves."},
			},
		},
	},
}

// WriteStarter writes Starter to path unless a file already exists there.
// The encoding follows the extension like Load. It reports whether the file
// was created.
func WriteStarter(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking theme catalog: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(Starter)
	default:
		data, err = json.MarshalIndent(Starter, "", "  ")
	}
	if err != nil {
		return false, fmt.Errorf("encoding theme catalog: %w", err)
	}

	if err := docstore.WriteFile(path, data); err != nil {
		return false, fmt.Errorf("writing theme catalog: %w", err)
	}
	return true, nil
}
