package location

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

const (
	newLocationTag = " - NEW LOCATION"
	newTag         = " - NEW"
)

var (
	extensionRe = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)
	idPrefixRe  = regexp.MustCompile(`(?i)^[a-z]+_\d+_`)
	wordPrefix  = regexp.MustCompile(`(?i)^[a-z]+_`)
	exteriorRe  = regexp.MustCompile(` Ext\b`)
	interiorRe  = regexp.MustCompile(` Int\b`)
)

// Normalize turns a raw save-file path into a human-readable place name.
// It is idempotent, and differently prefixed names for the same place agree:
// "ar_0501_neketaka.lvl" and "neketaka.lvl" both become "Neketaka".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, newLocationTag)
	s = strings.TrimSuffix(s, newTag)
	s = trimPunct(s)

	s = path.Base(strings.ReplaceAll(s, `\`, "/"))
	if s == "." || s == "/" {
		return ""
	}

	s = extensionRe.ReplaceAllString(s, "")

	if stripped := idPrefixRe.ReplaceAllString(s, ""); stripped != s {
		s = stripped
	} else if stripped := wordPrefix.ReplaceAllString(s, ""); stripped != "" {
		s = stripped
	}

	s = strings.NewReplacer("_", " ", ".", " ").Replace(s)
	s = titleCase(strings.Join(strings.Fields(s), " "))

	s = exteriorRe.ReplaceAllString(s, " (Exterior)")
	s = interiorRe.ReplaceAllString(s, " (Interior)")

	return trimPunct(s)
}

func trimPunct(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\",[] \t")
}

// NormalizeAll normalizes names, dropping empty results and duplicates
// while keeping first-seen order.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		name := Normalize(r)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			sb.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		case unicode.IsLetter(r):
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
			prevLetter = false
		}
	}

	return sb.String()
}
