package browsecmder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/utils"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

// Generator is the part of the generation cycle the browser drives.
type Generator interface {
	Run(ctx context.Context) (*vignette.Result, error)
	Interactive(ctx context.Context, base vignette.BaseVignette, message string) (*vignette.InteractiveResult, error)
}

type browseState int

const (
	stateBrowsing browseState = iota
	stateComposing
	stateGenerating
)

const (
	listWidthRatio = 0.3
	chromeHeight   = 5
	nameWidth      = 40
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("#3C3C3C"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

type model struct {
	state     browseState
	dir       string
	generator Generator
	timeout   time.Duration

	entries []vignette.Entry
	cursor  int

	viewport  viewport.Model
	textInput textinput.Model
	spinner   spinner.Model

	status string
	width  int
	height int
}

type entriesLoadedMsg struct {
	entries []vignette.Entry
	err     error

	// focus, when set, names the entry to select.
	focus string
}

// generatedMsg reports a finished cycle or interactive continuation by the
// name of the file it wrote.
type generatedMsg struct {
	name string
	err  error
}

func newModel(dir string, gen Generator, timeout time.Duration) model {
	ti := textinput.New()
	ti.Placeholder = "What should the party do or say?"
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		state:     stateBrowsing,
		dir:       dir,
		generator: gen,
		timeout:   timeout,
		viewport:  viewport.New(80, 20),
		textInput: ti,
		spinner:   sp,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadEntries()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-m.listWidth()-2, 20)
		m.viewport.Height = max(msg.Height-chromeHeight, 5)
		m.textInput.Width = max(msg.Width-4, 20)
		m.refreshContent()
		return m, nil

	case entriesLoadedMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.entries = msg.entries
		m.cursor = min(m.cursor, max(len(m.entries)-1, 0))
		for i, e := range m.entries {
			if msg.focus != "" && e.Name == msg.focus {
				m.cursor = i
				break
			}
		}
		m.refreshContent()
		return m, nil

	case generatedMsg:
		m.state = stateBrowsing
		if msg.err != nil {
			m.status = "Generation failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "Wrote " + msg.name
		return m, m.loadEntriesFocusing(msg.name)

	case spinner.TickMsg:
		if m.state != stateGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == stateComposing {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case stateComposing:
		switch msg.Type {
		case tea.KeyEsc:
			m.state = stateBrowsing
			m.textInput.Blur()
			m.textInput.Reset()
			return m, nil
		case tea.KeyEnter:
			message := strings.TrimSpace(m.textInput.Value())
			if message == "" {
				return m, nil
			}
			entry, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.textInput.Blur()
			m.textInput.Reset()
			m.state = stateGenerating
			m.status = "Continuing " + entry.Name
			return m, tea.Batch(m.spinner.Tick, m.interactive(entry, message))
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case stateGenerating:
		// Keys other than ctrl+c wait for the running generation.
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refreshContent()
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.refreshContent()
		}
	case "r":
		m.status = ""
		return m, m.loadEntries()
	case "i":
		if m.generator == nil {
			m.status = "Generation is unavailable, check the LLM configuration"
			return m, nil
		}
		if _, ok := m.selected(); !ok {
			m.status = "No vignette selected"
			return m, nil
		}
		m.state = stateComposing
		m.status = ""
		return m, m.textInput.Focus()
	case "g":
		if m.generator == nil {
			m.status = "Generation is unavailable, check the LLM configuration"
			return m, nil
		}
		m.state = stateGenerating
		m.status = "Generating a new vignette"
		return m, tea.Batch(m.spinner.Tick, m.generate())
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	header := titleStyle.Render(fmt.Sprintf("Vignettes (%d)", len(m.entries)))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Width(m.listWidth()).Height(m.viewport.Height).Render(m.renderList()),
		" ",
		m.viewport.View(),
	)

	var footer string
	switch m.state {
	case stateComposing:
		footer = m.textInput.View() + "\n" + helpStyle.Render("enter: send  esc: cancel")
	case stateGenerating:
		footer = m.spinner.View() + " " + m.status + "\n" + helpStyle.Render("ctrl+c: quit")
	default:
		status := m.status
		if status == "" {
			status = cliui.DimStyle.Render(m.dir)
		}
		footer = status + "\n" + helpStyle.Render("↑/↓: select  pgup/pgdn: scroll  i: continue  g: generate  r: reload  q: quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m model) renderList() string {
	if len(m.entries) == 0 {
		return itemStyle.Render(cliui.DimStyle.Render("No vignettes yet"))
	}

	var sb strings.Builder
	for i, e := range m.entries {
		name := utils.Truncate(strings.TrimSuffix(e.Name, ".md"), nameWidth)
		if e.IsInteractive {
			name = "↳ " + name
		}
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render(name))
		} else {
			sb.WriteString(itemStyle.Render(name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *model) refreshContent() {
	entry, ok := m.selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}

	rendered, err := cliui.RenderMarkdownWidth(entry.Content, m.viewport.Width)
	if err != nil {
		rendered = entry.Content
	}
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

func (m model) selected() (vignette.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return vignette.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m model) listWidth() int {
	if m.width == 0 {
		return nameWidth
	}
	return int(float64(m.width) * listWidthRatio)
}

func (m model) loadEntries() tea.Cmd {
	return m.loadEntriesFocusing("")
}

func (m model) loadEntriesFocusing(name string) tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		entries, err := vignette.List(dir)
		return entriesLoadedMsg{entries: entries, err: err, focus: name}
	}
}

func (m model) interactive(entry vignette.Entry, message string) tea.Cmd {
	gen, timeout := m.generator, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := gen.Interactive(ctx, vignette.BaseVignette{Name: entry.Name, Content: entry.Content}, message)
		if err != nil {
			return generatedMsg{err: err}
		}
		return generatedMsg{name: res.Name}
	}
}

func (m model) generate() tea.Cmd {
	gen, timeout := m.generator, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := gen.Run(ctx)
		if err != nil {
			return generatedMsg{err: err}
		}
		return generatedMsg{name: filepath.Base(res.VignettePath)}
	}
}
