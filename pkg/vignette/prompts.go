package vignette

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/papercomputeco/vignettes/pkg/crew"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
)

const (
	proseSystemPrompt       = "You are a master storyteller creating narrative vignettes for intellectually mature audiences about Pillars of Eternity II adventures with ASoIaF/GoT influences. Focus on character-driven, interesting scenes crafted with storytelling agility."
	summarySystemPrompt     = "You are creating concise narrative summaries that capture the essence of story vignettes for future reference."
	crewSystemPrompt        = "You are a JSON data processor. Return ONLY valid JSON. Never add explanatory text. If the JSON would be too long, make minimal changes to fit within token limits."
	interactiveSystemPrompt = "You are a master storyteller creating interactive narrative continuations for Pillars of Eternity II adventures. Focus on responding directly to user input while maintaining story coherence."
	interactiveSummarySys   = "You are creating concise narrative summaries for interactive story elements."

	recentLocationsInPrompt  = 5
	crewContextChars         = 1000
	interactiveCrewChars     = 800
	interactiveBaseChars     = 1000
	interactiveInterludes    = 2
	noRecentCombat           = "No recent combat"
	noRecentLocations        = "No recent locations"
	noPreviousContext        = "Beginning of adventure"
	noneListed               = "None"
	defaultRecentQuestsNotes = "No recent quests available."
)

var (
	//go:embed prompts/vignette.txt
	vignettePrompt string

	//go:embed prompts/summary.txt
	summaryPrompt string

	//go:embed prompts/crew.txt
	crewPrompt string

	//go:embed prompts/interactive.txt
	interactivePrompt string

	//go:embed prompts/interactive_summary.txt
	interactiveSummaryPrompt string
)

var (
	vignetteTmpl           = template.Must(template.New("vignette").Parse(vignettePrompt))
	summaryTmpl            = template.Must(template.New("summary").Parse(summaryPrompt))
	crewTmpl               = template.Must(template.New("crew").Parse(crewPrompt))
	interactiveTmpl        = template.Must(template.New("interactive").Parse(interactivePrompt))
	interactiveSummaryTmpl = template.Must(template.New("interactive_summary").Parse(interactiveSummaryPrompt))
)

// promptData is the view of the game state the prompt templates see.
type promptData struct {
	ActiveMembers   string
	SideMembers     string
	NamedCrew       string
	CombatSummary   string
	RecentQuests    string
	RecentLocations string
	PreviousContext string
	CrewDetails     string
	CrewJSON        string
	Themes          string
	Vignette        string
	UserMessage     string
	BaseContent     string
}

func newPromptData(doc *gamestate.Document, crewDoc crew.Document, crewChars, interludes int) promptData {
	combatSummary := doc.CombatLog.LatestExecutiveSummary
	if combatSummary == "" {
		combatSummary = noRecentCombat
	}

	locations := noRecentLocations
	if recent := doc.PlotState.RecentLocations; len(recent) > 0 {
		locations = strings.Join(recent[:min(recentLocationsInPrompt, len(recent))], ", ")
	}

	previous := noPreviousContext
	if il := doc.NarrativeLog.PreviousInterludes; len(il) > 0 {
		previous = strings.Join(il[:min(interludes, len(il))], " ")
	}

	crewJSON := crewDoc.Pretty()

	return promptData{
		ActiveMembers:   joinOrNone(doc.PartyContext.ActiveMembers),
		SideMembers:     joinOrNone(doc.PartyContext.SideMembers),
		NamedCrew:       joinOrNone(doc.ShipContext.NamedCrew),
		CombatSummary:   combatSummary,
		RecentLocations: locations,
		PreviousContext: previous,
		CrewDetails:     truncate(crewJSON, crewChars) + "...",
		CrewJSON:        crewJSON,
	}
}

func render(t *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return noneListed
	}
	return strings.Join(items, ", ")
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
