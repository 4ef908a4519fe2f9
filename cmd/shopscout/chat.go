package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/shopscout/research"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type ChatCommand struct {
	Runner   RunnerFlags `embed:""`
	LogLevel string      `help:"The log level to use." env:"LOG_LEVEL" default:"error"`
}

func (c ChatCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	runner, err := c.Runner.NewRunner(log)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newModel(ctx, runner))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}

type researcher interface {
	Research(ctx context.Context, query string) research.Result
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Green       = lipgloss.Color("#50fa7b")
	Orange      = lipgloss.Color("#ffb86c")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var headerStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Margin(1).Padding(1).PaddingTop(0)

var header = `
 ____  _                 ____                  _   
/ ___|| |__   ___  _ __ / ___|  ___ ___  _   _| |_ 
\___ \| '_ \ / _ \| '_ \\___ \ / __/ _ \| | | | __|
 ___) | | | | (_) | |_) |___) | (_| (_) | |_| | |_ 
|____/|_| |_|\___/| .__/|____/ \___\___/ \__,_|\__|
                  |_|                              
`

type entry struct {
	query  string
	result *research.Result
}

type researchDoneMsg struct {
	index  int
	result research.Result
}

type model struct {
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	ctx      context.Context

	researcher  researcher
	entries     []entry
	researching bool
	width       int
}

func newModel(ctx context.Context, r researcher) model {
	ta := textarea.New()
	ta.Placeholder = "What are you shopping for?"
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 280

	ta.SetHeight(3)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)
	vp.SetContent(headerStyle.Render(header))

	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(Orange)))

	return model{
		ctx:        ctx,
		textarea:   ta,
		viewport:   vp,
		spinner:    sp,
		researcher: r,
		width:      80,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) research(index int, query string) tea.Cmd {
	return func() tea.Msg {
		return researchDoneMsg{
			index:  index,
			result: m.researcher.Research(m.ctx, query),
		}
	}
}

var (
	queryStyle  = lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Pink)
	reportStyle = lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Cyan)
	errorStyle  = lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Red)
	statusStyle = lipgloss.NewStyle().Margin(1).MarginBottom(0).Foreground(Comment)
	okStyle     = lipgloss.NewStyle().Foreground(Green)
)

func formatEntry(e entry, width int, spinnerView string) string {
	var sb strings.Builder
	sb.WriteString(queryStyle.Render(wordwrap.String("🔎 "+e.query, width)))
	sb.WriteString("\n")
	if e.result == nil {
		sb.WriteString(statusStyle.Render(spinnerView + " Researching prices, this can take a minute..."))
		sb.WriteString("\n")
		return sb.String()
	}
	style := reportStyle
	if e.result.Kind != research.KindOK {
		style = errorStyle
	}
	sb.WriteString(style.Render(wordwrap.String(strings.TrimSpace(e.result.String()), width)))
	sb.WriteString("\n")
	if e.result.Kind == research.KindOK && e.result.Attempts > 1 {
		sb.WriteString(statusStyle.Render(okStyle.Render(fmt.Sprintf("completed after %d attempts", e.result.Attempts))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *model) render() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(headerStyle.Render(header))
		return
	}
	var sb strings.Builder
	for _, e := range m.entries {
		sb.WriteString(formatEntry(e, m.width-6, m.spinner.View()))
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case researchDoneMsg:
		if msg.index >= 0 && msg.index < len(m.entries) {
			m.entries[msg.index].result = &msg.result
		}
		m.researching = false
		m.render()
		return m, nil
	case spinner.TickMsg:
		if !m.researching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.render()
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 3
		m.textarea.SetWidth(msg.Width)
		m.render()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "enter":
			v := strings.TrimSpace(m.textarea.Value())

			// Don't send empty queries, or start a second search.
			if v == "" || m.researching {
				return m, nil
			}

			m.textarea.Reset()
			m.entries = append(m.entries, entry{query: v})
			m.researching = true
			m.render()
			return m, tea.Batch(m.research(len(m.entries)-1, v), m.spinner.Tick)
		default:
			// Send all other keypresses to the textarea.
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}

	case cursor.BlinkMsg:
		// Textarea should also process cursor blinks.
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m model) View() string {
	return fmt.Sprintf("%s\n\n%s",
		m.viewport.View(),
		m.textarea.View(),
	) + "\n\n"
}
