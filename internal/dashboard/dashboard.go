// Package dashboard is a read-only live view of every project. It reloads
// the store on a fixed interval and never modifies it.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/timesheet/internal/models"
	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/store"
)

// Source returns the current projects.
type Source func() ([]models.Project, error)

// FromStore reads the projects from a store that is opened for each read,
// so that changes made by other processes show up and a locking driver is
// only held briefly.
func FromStore(driver, path string) Source {
	return func() ([]models.Project, error) {
		db, err := store.Open(driver, path)
		if err != nil {
			return nil, err
		}

		defer db.Close()

		reg, err := db.Load()
		if err != nil {
			return nil, err
		}

		list := reg.List()
		projects := make([]models.Project, len(list))

		for i, p := range list {
			projects[i] = *p
		}

		return projects, nil
	}
}

// Options configures the live view.
type Options struct {
	Now       func() time.Time
	Interval  time.Duration
	DarkTheme bool
}

type tickMsg time.Time

type styles struct {
	title   lipgloss.Style
	hint    lipgloss.Style
	total   lipgloss.Style
	failure lipgloss.Style
}

func newStyles(dark bool) styles {
	accent := lipgloss.Color("#2E7D32")
	if dark {
		accent = lipgloss.Color("#B0DB43")
	}

	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		total:   lipgloss.NewStyle().Bold(true),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")),
	}
}

// Model is the bubbletea model of the live view.
type Model struct {
	refreshed time.Time
	err       error
	source    Source
	now       func() time.Time
	styles    styles
	projects  []models.Project
	help      help.Model
	keys      keymap
	table     table.Model
	interval  time.Duration
}

var columns = []table.Column{
	{Title: "Project", Width: 24},
	{Title: "Status", Width: 9},
	{Title: "Current session", Width: 16},
	{Title: "Total", Width: 16},
	{Title: "Sessions", Width: 8},
}

func New(source Source, opts Options) Model {
	if opts.Now == nil {
		opts.Now = timeutil.Now
	}

	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	t.SetStyles(s)

	return Model{
		source:   source,
		now:      opts.Now,
		interval: opts.Interval,
		styles:   newStyles(opts.DarkTheme),
		help:     help.New(),
		keys:     defaultKeymap,
		table:    t,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return tickMsg(m.now())
	}
}

// reload reads the projects again. On failure the previous rows stay on
// screen together with the error.
func (m *Model) reload() {
	projects, err := m.source()

	m.err = err
	if err == nil {
		m.projects = projects
	}

	m.refreshed = m.now()
	m.table.SetRows(rows(m.projects, m.refreshed))
}

func rows(projects []models.Project, now time.Time) []table.Row {
	out := make([]table.Row, len(projects))

	for i := range projects {
		p := &projects[i]

		current := "-"
		if p.Status.Active() {
			current = timeutil.FormatDuration(p.LiveElapsed(now))
		}

		out[i] = table.Row{
			p.Name,
			string(p.Status),
			current,
			timeutil.FormatDuration(p.LiveTotal(now)),
			strconv.Itoa(len(p.Sessions)),
		}
	}

	return out
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.reload()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-8, 3))

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.refresh):
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(m.styles.title.Render("Timesheet"))
	s.WriteString("\n")

	if len(m.projects) == 0 {
		s.WriteString(m.styles.hint.Render("No projects yet. Start one with 'timesheet start NAME'."))
	} else {
		s.WriteString(m.table.View())
	}

	var total time.Duration
	for i := range m.projects {
		total += m.projects[i].LiveTotal(m.refreshed)
	}

	s.WriteString("\n\n")
	s.WriteString(m.styles.total.Render(
		fmt.Sprintf("Total: %s", timeutil.FormatDuration(total)),
	))
	s.WriteString(m.styles.hint.Render(
		fmt.Sprintf("  updated %s", m.refreshed.Format("15:04:05")),
	))

	if m.err != nil {
		s.WriteString("\n" + m.styles.failure.Render(m.err.Error()))
	}

	s.WriteString("\n\n" + m.help.View(m.keys))

	return s.String()
}

// Run shows the live view until the user quits.
func Run(source Source, opts Options) error {
	_, err := tea.NewProgram(New(source, opts), tea.WithAltScreen()).Run()
	return err
}
