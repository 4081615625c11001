// Package history provides a terminal browser over past generation runs.
package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rghosal/cvpilot/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	errorKindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	detailBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

type browserModel struct {
	recs   []model.HistoryRecord
	cursor int
	width  int
	height int

	view           viewState
	detailViewport viewport.Model
	showLetter     bool // detail pane: false = adapted CV, true = cover letter
}

// Run loads the most recent runs from the store and opens the browser.
func Run(s model.HistoryStore, limit int) error {
	recs, err := s.List(limit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("no generations recorded yet")
		return nil
	}

	m := browserModel{recs: recs}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browserModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.recs)-1 {
			m.cursor++
		}
	case "enter":
		m.view = viewDetail
		m.showLetter = false
		m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 10))
		m.detailViewport.SetContent(m.renderDetail())
	}
	return m, nil
}

func (m browserModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace", "b":
		m.view = viewList
		return m, nil
	case "tab":
		m.showLetter = !m.showLetter
		m.detailViewport.SetContent(m.renderDetail())
		m.detailViewport.SetYOffset(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	if m.view == viewDetail {
		return detailBorderStyle.Render(m.detailViewport.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Generation history"))
	b.WriteString("\n")

	for i, rec := range m.recs {
		line := fmt.Sprintf("%s  %s", rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Status)
		if rec.ErrorKind != "" {
			line += "  " + errorKindStyle.Render(rec.ErrorKind)
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("enter: view  ·  j/k: move  ·  q: quit"))
	return b.String()
}

func (m browserModel) renderDetail() string {
	rec := m.recs[m.cursor]

	var b strings.Builder
	header := fmt.Sprintf("Run %s — %s", rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	b.WriteString(detailTitleStyle.Render(header))
	b.WriteString("\n")

	if rec.ErrorKind != "" {
		b.WriteString(errorKindStyle.Render("failed: "+rec.ErrorKind) + "\n\n")
	}

	if m.showLetter {
		b.WriteString("── Cover letter ─ tab to switch ──\n\n")
		if rec.CoverLetter == "" {
			b.WriteString(hintStyle.Render("no cover letter for this run"))
		} else {
			b.WriteString(rec.CoverLetter)
		}
	} else {
		b.WriteString("── Adapted CV ─ tab to switch ──\n\n")
		if rec.AdaptedCV == "" {
			b.WriteString(hintStyle.Render("no adapted CV for this run"))
		} else {
			b.WriteString(rec.AdaptedCV)
		}
	}
	return b.String()
}
