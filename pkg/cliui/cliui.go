// Package cliui holds the terminal styles and helpers shared by the vignettes
// commands.
package cliui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	NameStyle   = lipgloss.NewStyle().Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// DefaultWidth wraps rendered vignettes when the terminal width is unknown.
const DefaultWidth = 80

// Step runs fn and reports it as one line ending in ✓ or ✗ and the elapsed
// time. On a terminal the line animates with the same dot spinner the
// browser uses while fn runs.
func Step(w io.Writer, msg string, fn func() error) error {
	stop := func() {}
	if isTerminal(w) {
		stop = animate(w, msg)
	}

	start := time.Now()
	err := fn()
	stop()

	mark := SuccessMark
	if err != nil {
		mark = FailMark
	}
	fmt.Fprintf(w, "\r  %s %s %s\n", mark, msg, DimStyle.Render("("+formatDuration(time.Since(start))+")"))

	return err
}

// animate redraws the spinner line until the returned func is called. The
// func returns once the last frame is written.
func animate(w io.Writer, msg string) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		frames := spinner.Dot.Frames
		ticker := time.NewTicker(spinner.Dot.FPS)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(w, "\r  %s %s", frameStyle.Render(frames[i%len(frames)]), msg)
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// RenderMarkdown renders a vignette for the terminal at DefaultWidth.
func RenderMarkdown(content string) (string, error) {
	return RenderMarkdownWidth(content, DefaultWidth)
}

// RenderMarkdownWidth renders content wrapped at width. On failure the raw
// content is returned with the error. Renderers are reused per width since
// the browser re-renders on every selection change.
func RenderMarkdownWidth(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	renderersMu.Lock()
	defer renderersMu.Unlock()

	r, ok := renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content, err
		}
		renderers[width] = r
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}
