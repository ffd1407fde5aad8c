// Package tui implements the Bubble Tea review browser: reviewed files
// on the left, findings and the signature lines the model saw on the
// right. In commit mode the browser also shows the proposed message and
// returns an approve/abort decision to the commit flow.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chomins/autocommit/internal/model"
)

// entry is one row of the file list.
type entry struct {
	label    string
	change   model.CompressedChange // zero-valued for the general entry
	findings []model.Finding
}

// Model is the top-level Bubble Tea model.
type Model struct {
	res     *model.ReviewResult
	req     model.ReviewRequest
	entries []entry

	// Commit mode: non-empty message enables the approve prompt.
	commitMsg string
	approved  bool

	// UI state
	width        int
	height       int
	fileIndex    int
	scrollOffset int
	viewHeight   int
	lines        []renderedLine
	showHelp     bool
}

// New creates a browser over a review result and the request it answered.
func New(res *model.ReviewResult, req model.ReviewRequest) Model {
	byFile := res.ByFile()

	var entries []entry
	for _, cc := range req.Included {
		entries = append(entries, entry{
			label:    cc.Path,
			change:   cc,
			findings: byFile[cc.Path],
		})
	}
	if general := generalFindings(res, req.Included); len(general) > 0 {
		entries = append(entries, entry{label: "(general)", findings: general})
	}

	m := Model{res: res, req: req, entries: entries}
	m.updateLines()
	return m
}

func (m *Model) updateLines() {
	if len(m.entries) == 0 {
		m.lines = nil
		return
	}
	e := m.entries[m.fileIndex]
	m.lines = renderFile(e.change, e.findings)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 4
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Approve):
			if m.commitMsg != "" {
				m.approved = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < len(m.lines)-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.NextFile):
			if m.fileIndex < len(m.entries)-1 {
				m.fileIndex++
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.fileListWidth()
	paneWidth := m.width - listWidth - 1

	paneHeight := m.height - 2
	var footer string
	if m.commitMsg != "" {
		footer = m.renderCommitBox()
		paneHeight -= lipgloss.Height(footer)
	}

	fileList := m.renderFileList(listWidth, paneHeight)
	findings := m.renderFindingsPane(paneWidth, paneHeight)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", findings)

	parts := []string{main}
	if footer != "" {
		parts = append(parts, footer)
	}
	parts = append(parts, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, e := range m.entries {
		if len(e.label) > maxLen {
			maxLen = len(e.label)
		}
	}
	w := maxLen + 12 // priority tag + finding count
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	for i, e := range m.entries {
		label := e.label
		maxName := width - 12
		if maxName > 0 && len(label) > maxName {
			label = "…" + label[len(label)-maxName+1:]
		}

		tag := " "
		if e.change.Priority == model.PriorityHigh {
			tag = "H"
		}
		line := fmt.Sprintf("%s %-*s %2d", tag, maxName, label, len(e.findings))

		style := fileItemStyle
		if i == m.fileIndex {
			style = fileItemSelectedStyle
		} else if e.change.Priority == model.PriorityHigh {
			style = fileItemHighStyle
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if i < len(m.entries)-1 {
			b.WriteByte('\n')
		}
	}

	return fileListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderFindingsPane(width, height int) string {
	innerHeight := height - 2
	if len(m.entries) == 0 {
		return findingsPaneStyle.Width(width).Height(innerHeight).Render(m.res.Summary())
	}

	e := m.entries[m.fileIndex]
	innerWidth := width - 4

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(e.label))
	b.WriteByte('\n')

	visible := innerHeight - 2
	if visible < 1 {
		visible = 1
	}
	end := m.scrollOffset + visible
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], innerWidth))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return findingsPaneStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderCommitBox() string {
	hint := approveHintStyle.Render("a") + " approve and commit    " +
		abortHintStyle.Render("q") + " abort"
	body := m.commitMsg + "\n\n" + hint
	return messageBoxStyle.Width(m.width - 2).Render(body)
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf(" %s review  %s", m.res.Level, m.res.Summary())

	right := fmt.Sprintf("~%d/%d tokens", m.res.TokensUsed, m.req.TokenBudget)
	if m.req.OmittedFiles > 0 {
		right += fmt.Sprintf("  %d omitted", m.req.OmittedFiles)
	}
	right += "  ? help "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("autocommit — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Scroll up"},
		{"↓/j", "Scroll down"},
		{"n/Tab", "Next file"},
		{"N/S-Tab", "Previous file"},
		{"a", "Approve commit (commit mode)"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run opens the browser over a finished review.
func Run(res *model.ReviewResult, req model.ReviewRequest) error {
	m := New(res, req)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Confirm opens the browser in commit mode, showing the proposed message
// alongside the review. It reports whether the user approved the commit.
func Confirm(res *model.ReviewResult, req model.ReviewRequest, message string) (bool, error) {
	m := New(res, req)
	m.commitMsg = message

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return fm.approved, nil
}
