package location

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/papercomputeco/vignettes/pkg/llm"
)

const (
	classifySystemPrompt = "You are an expert at analyzing game files and identifying which files represent in-game locations versus other file types."

	classifyMaxTokens   = 500
	classifyTemperature = 0.1

	noneAnswer = "NONE"
)

//go:embed prompts/classify.txt
var classifyPrompt string

var classifyTmpl = template.Must(template.New("classify").Parse(classifyPrompt))

// Classifier asks the completion service which newly seen save entries are
// in-game locations.
type Classifier struct {
	completer llm.Completer
	timeout   time.Duration
	logger    *slog.Logger
}

func NewClassifier(completer llm.Completer, timeout time.Duration, logger *slog.Logger) *Classifier {
	return &Classifier{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
	}
}

// Classify returns the subset of newFiles the model identified as locations.
// It never fails: any error is logged and reported as no locations.
func (c *Classifier) Classify(ctx context.Context, newFiles []string) []string {
	if len(newFiles) == 0 {
		return nil
	}

	var prompt bytes.Buffer
	if err := classifyTmpl.Execute(&prompt, struct{ Files []string }{newFiles}); err != nil {
		c.logger.Error("rendering classify prompt", "error", err)
		return nil
	}

	text, err := llm.CompleteText(ctx, c.completer, &llm.CompletionRequest{
		System:      classifySystemPrompt,
		Prompt:      prompt.String(),
		MaxTokens:   classifyMaxTokens,
		Temperature: classifyTemperature,
		Timeout:     c.timeout,
	})
	if err != nil {
		c.logger.Warn("location classification failed", "candidates", len(newFiles), "error", err)
		return nil
	}

	found := matchCandidates(text, newFiles)
	c.logger.Info("classified new save entries",
		"candidates", len(newFiles),
		"locations", len(found),
	)

	return found
}

// matchCandidates maps model output lines back onto the candidate list.
// Lines may carry list bullets, numbering or quotes, and may name only the
// final path component.
func matchCandidates(answer string, candidates []string) []string {
	answer = strings.TrimSpace(answer)
	if answer == "" || strings.EqualFold(answer, noneAnswer) {
		return nil
	}

	exact := make(map[string]string, len(candidates))
	base := make(map[string]string, len(candidates))
	for _, cand := range candidates {
		exact[cand] = cand
		b := path.Base(strings.ReplaceAll(cand, `\`, "/"))
		if _, dup := base[b]; !dup {
			base[b] = cand
		}
	}

	var found []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(answer, "\n") {
		line = cleanAnswerLine(line)
		if line == "" || strings.EqualFold(line, noneAnswer) {
			continue
		}

		cand, ok := exact[line]
		if !ok {
			cand, ok = base[path.Base(strings.ReplaceAll(line, `\`, "/"))]
		}
		if !ok {
			continue
		}
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		found = append(found, cand)
	}

	return found
}

func cleanAnswerLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• ")

	// "1. foo" or "1) foo"
	if i := strings.IndexAny(line, ".)"); i > 0 && i < 4 && isDigits(line[:i]) {
		line = line[i+1:]
	}

	return strings.Trim(strings.TrimSpace(line), "`\"'")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
