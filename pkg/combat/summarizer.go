package combat

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/llm"
)

const (
	logGlob = "CombatLogs*.log"

	summarizeSystemPrompt = "You are an expert at analyzing game combat logs and providing clear, concise summaries of combat activities, encounters, and outcomes."

	summarizeMaxTokens   = 2000
	summarizeTemperature = 0.2

	// maxLogChars keeps the tail of long logs, where the most recent
	// fighting is.
	maxLogChars     = 8000
	truncatedMarker = "...[truncated]...\n"
)

//go:embed prompts/summarize.txt
var summarizePrompt string

var summarizeTmpl = template.Must(template.New("summarize").Parse(summarizePrompt))

// Summarizer writes a "<log>_summary.txt" next to every combat log that
// does not have one yet.
type Summarizer struct {
	dir       string
	completer llm.Completer
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewSummarizer(dir string, completer llm.Completer, timeout time.Duration, logger *slog.Logger) *Summarizer {
	return &Summarizer{
		dir:       dir,
		completer: completer,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// SummaryPath returns where the summary for logPath is written.
func SummaryPath(logPath string) string {
	return strings.TrimSuffix(logPath, ".log") + summarySuffix
}

// SummarizePending summarizes every unsummarized combat log and returns the
// summary files written. A log whose summary fails is logged and skipped.
func (s *Summarizer) SummarizePending(ctx context.Context) ([]string, error) {
	logs, err := filepath.Glob(filepath.Join(s.dir, logGlob))
	if err != nil {
		return nil, fmt.Errorf("listing combat logs: %w", err)
	}
	slices.Sort(logs)

	var written []string
	for _, logPath := range logs {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		out := SummaryPath(logPath)
		if _, err := os.Stat(out); err == nil {
			s.logger.Debug("combat summary exists, skipping", "log", filepath.Base(logPath))
			continue
		}

		if err := s.summarize(ctx, logPath, out); err != nil {
			s.logger.Warn("summarizing combat log", "log", filepath.Base(logPath), "error", err)
			continue
		}
		written = append(written, out)
	}

	if len(written) > 0 {
		s.logger.Info("summarized combat logs", "count", len(written))
	}

	return written, nil
}

func (s *Summarizer) summarize(ctx context.Context, logPath, out string) error {
	info, err := os.Stat(logPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}

	var prompt bytes.Buffer
	if err := summarizeTmpl.Execute(&prompt, struct{ Log string }{Tail(string(data), maxLogChars)}); err != nil {
		return fmt.Errorf("rendering prompt: %w", err)
	}

	summary, err := llm.CompleteText(ctx, s.completer, &llm.CompletionRequest{
		System:      summarizeSystemPrompt,
		Prompt:      prompt.String(),
		MaxTokens:   summarizeMaxTokens,
		Temperature: summarizeTemperature,
		Timeout:     s.timeout,
	})
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Combat Log Summary for: %s\n", filepath.Base(logPath))
	fmt.Fprintf(&sb, "Generated: %s\n", s.now().Format(time.DateTime))
	fmt.Fprintf(&sb, "Original file size: %d bytes\n", info.Size())
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(summary))
	sb.WriteByte('\n')

	return docstore.WriteFile(out, []byte(sb.String()))
}

// Tail keeps the last n characters of text, marking the cut.
func Tail(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return truncatedMarker + string(runes[len(runes)-n:])
}
