package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobhealth/internal/health"
	"jobhealth/internal/model"
)

var (
	viewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	viewMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	viewPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	viewSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)

	viewStatusStyles = map[model.Status]lipgloss.Style{
		model.StatusOK:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		model.StatusWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		model.StatusCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		model.StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
)

type viewModel struct {
	report health.Report
	cursor int
	width  int
	height int
	detail viewport.Model
	ready  bool
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	var file string
	fs.StringVar(&file, "file", "", "job snapshot JSON")
	fs.StringVar(&file, "f", "", "shorthand for --file")
	common := bindCommonFlags(fs)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(file) == "" {
		return errors.New("view reads keys from stdin; pass the snapshot with --file")
	}
	if !stdinIsTTY() {
		return errors.New("view requires an interactive terminal (TTY)")
	}

	env, err := common.load()
	if err != nil {
		return err
	}
	rep, err := env.evaluate(file)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newViewModel(rep), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, rep.SummaryLine())
	return exitFor(rep)
}

func newViewModel(rep health.Report) viewModel {
	return viewModel{report: rep}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.detailSize()
		if !m.ready {
			m.detail = viewport.New(w, h)
			m.ready = true
		} else {
			m.detail.Width = w
			m.detail.Height = h
		}
		m.detail.SetContent(m.detailContent())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.refreshDetail()
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.report.Results)-1 {
				m.cursor++
				m.refreshDetail()
			}
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *viewModel) refreshDetail() {
	if !m.ready {
		return
	}
	m.detail.SetContent(m.detailContent())
	m.detail.GotoTop()
}

func (m viewModel) detailSize() (int, int) {
	w := maxInt(m.width-m.listWidth()-5, 20)
	h := maxInt(m.height-6, 4)
	return w, h
}

func (m viewModel) listWidth() int {
	return clampInt(m.width/3, 24, 40)
}

func (m viewModel) selected() (health.JobResult, bool) {
	if m.cursor < 0 || m.cursor >= len(m.report.Results) {
		return health.JobResult{}, false
	}
	return m.report.Results[m.cursor], true
}

func (m viewModel) detailContent() string {
	res, ok := m.selected()
	if !ok {
		return viewMutedStyle.Render("No monitored jobs.")
	}
	lines := health.RenderDetail(res)
	lines[0] = statusStyle(res.Verdict.Status).Render(lines[0])
	lines = append(lines, "")
	lines = append(lines, viewMutedStyle.Render("id: "+res.Job.ID))
	lines = append(lines, viewMutedStyle.Render("rule: "+res.Verdict.Rule))
	if res.Job.Schedule != "" {
		lines = append(lines, viewMutedStyle.Render("schedule: "+res.Job.Schedule))
	}
	if len(res.Job.Rounds) > 0 {
		lines = append(lines, viewMutedStyle.Render("rounds: "+strings.Join(res.Job.Rounds, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (m viewModel) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}

	header := viewTitleStyle.Render("📊 "+m.report.Title+" health report") + "\n" +
		viewMutedStyle.Render("Time: "+m.report.GeneratedAt.Format("2006-01-02 15:04")) + "\n" +
		statusStyle(m.report.Worst()).Render(m.report.SummaryLine())
	footer := viewMutedStyle.Render("up/down: select job | pgup/pgdn: scroll detail | q: quit")

	listW := m.listWidth()
	list := m.renderList(listW)
	detail := m.detailContent()
	if m.ready {
		detail = m.detail.View()
	}
	right := viewPanelStyle.Width(maxInt(width-listW-3, 20)).Render(detail)

	var body string
	if width < 70 {
		body = lipgloss.JoinVertical(lipgloss.Left, list, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m viewModel) renderList(width int) string {
	lines := make([]string, 0, len(m.report.Results))
	for i, res := range m.report.Results {
		line := truncateRunes(res.Verdict.Icon+" "+res.Job.DisplayName(), maxInt(width-4, 6))
		if i == m.cursor {
			line = viewSelStyle.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, viewMutedStyle.Render("(no jobs)"))
	}
	return viewPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func statusStyle(s model.Status) lipgloss.Style {
	if st, ok := viewStatusStyles[s]; ok {
		return st
	}
	return viewMutedStyle
}
