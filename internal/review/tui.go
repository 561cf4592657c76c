// Package review is the interactive terminal UI for triaging stored jobs:
// browse everything the aggregator has collected, hide postings that are not
// interesting, and bookmark the ones worth applying to.
package review

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsift/jobsift/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	hiddenJobStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// flagSavedMsg is sent when an async hide/bookmark write completes.
type flagSavedMsg struct {
	fingerprint string
	column      string
	value       bool
	err         error
}

type reviewModel struct {
	jobs     []model.Job
	store    model.Store
	cursor   int
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	view           viewState
	detailViewport viewport.Model

	saveError string
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case flagSavedMsg:
		if msg.err != nil {
			m.saveError = fmt.Sprintf("save failed: %v", msg.err)
			m.recalcContent()
			return m, nil
		}
		m.saveError = ""
		m.applyFlag(msg.fingerprint, msg.column, msg.value)
		m.recalcContent()
		if m.view == viewDetail {
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

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.jobs)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.jobs)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "h":
		return m.toggleFlag("hidden")
	case "b":
		return m.toggleFlag("bookmarked")
	case "o":
		if len(m.jobs) > 0 {
			openURL(m.jobs[m.cursor].URL)
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.jobs[m.cursor].URL)
		return m, nil
	case "h":
		return m.toggleFlag("hidden")
	case "b":
		return m.toggleFlag("bookmarked")
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// toggleFlag flips hidden or bookmarked on the job under the cursor and
// persists the change in the background.
func (m reviewModel) toggleFlag(column string) (tea.Model, tea.Cmd) {
	if len(m.jobs) == 0 {
		return m, nil
	}
	j := m.jobs[m.cursor]

	var value bool
	switch column {
	case "hidden":
		value = !j.Hidden
	case "bookmarked":
		value = !j.Bookmarked
	}

	store := m.store
	fp := j.Fingerprint
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if column == "hidden" {
			err = store.SetHidden(ctx, fp, value)
		} else {
			err = store.SetBookmarked(ctx, fp, value)
		}
		return flagSavedMsg{fingerprint: fp, column: column, value: value, err: err}
	}
}

// applyFlag mirrors a persisted flag change back into the in-memory list.
func (m *reviewModel) applyFlag(fingerprint, column string, value bool) {
	for i := range m.jobs {
		if m.jobs[i].Fingerprint != fingerprint {
			continue
		}
		if column == "hidden" {
			m.jobs[i].Hidden = value
		} else {
			m.jobs[i].Bookmarked = value
		}
		return
	}
}

func (m *reviewModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorBottom - m.viewport.Height + 1)
	}
}

func (m reviewModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.jobs) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *reviewModel) recalcLayout() {
	// Header (1) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.viewport.SetContent(renderJobs(m.jobs, m.cursor))
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m reviewModel) viewList() string {
	bookmarked, hidden := 0, 0
	for _, j := range m.jobs {
		if j.Bookmarked {
			bookmarked++
		}
		if j.Hidden {
			hidden++
		}
	}

	header := headerStyle.Render(fmt.Sprintf(" Jobs (%d) · %d bookmarked · %d hidden", len(m.jobs), bookmarked, hidden))
	pane := borderStyle.Width(m.viewport.Width).Render(m.viewport.View())

	statusText := " ↑/↓ cursor  Enter detail  h hide  b bookmark  o open URL  q quit"
	if m.saveError != "" {
		statusText = " " + m.saveError
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	border := borderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  h hide  b bookmark  esc back  ↑/↓ scroll  q quit"
	if m.saveError != "" {
		statusText = " " + m.saveError
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m reviewModel) renderDetail() string {
	j := m.jobs[m.cursor]
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Source", j.Source)
	if j.Remote {
		addField("Remote", "yes")
	}

	b.WriteByte('\n')

	if j.PostedAt != nil {
		addField("Posted At", j.PostedAt.Format("2006-01-02 15:04 MST"))
	}
	if j.FirstSeen != nil {
		addField("First Seen", j.FirstSeen.Format("2006-01-02 15:04 MST"))
	}
	addField("Last Seen", j.LastSeen.Format("2006-01-02 15:04 MST"))
	addField("Times Seen", fmt.Sprintf("%d", j.TimesSeen))
	if j.RepostCount > 0 {
		addField("Reposts", fmt.Sprintf("%d", j.RepostCount))
	}
	if salary := formatSalary(j); salary != "" {
		addField("Salary", salary)
	}

	b.WriteByte('\n')
	addField("Job URL", j.URL)

	var flags []string
	if j.Bookmarked {
		flags = append(flags, "bookmarked")
	}
	if j.Hidden {
		flags = append(flags, "hidden")
	}
	if len(flags) > 0 {
		addField("Flags", strings.Join(flags, ", "))
	}

	if m.saveError != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.saveError) + "\n")
	}

	if j.Description != "" {
		wrapWidth := max(m.width-8, 20)
		b.WriteByte('\n')
		b.WriteString(detailValueStyle.Render(wordWrap(j.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func formatSalary(j model.Job) string {
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return ""
	}
	currency := j.Currency
	if currency == "" {
		currency = "USD"
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%s %.0f - %.0f", currency, *j.SalaryMin, *j.SalaryMax)
	case j.SalaryMin != nil:
		return fmt.Sprintf("%s %.0f+", currency, *j.SalaryMin)
	default:
		return fmt.Sprintf("up to %s %.0f", currency, *j.SalaryMax)
	}
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		isSelected := i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		} else if j.Hidden {
			titleSt = hiddenJobStyle
			subtitleSt = hiddenJobStyle
		}

		marker := ""
		if j.Bookmarked {
			marker = " ★"
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title + marker))
		b.WriteByte('\n')

		posted := "n/a"
		if j.PostedAt != nil {
			posted = j.PostedAt.Format("2006-01-02")
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", j.Company, j.Location, posted)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive review TUI over the jobs already in the store.
// Hidden jobs are included so they can be unhidden.
func Run(ctx context.Context, store model.Store) error {
	jobs, err := store.ListJobs(ctx, model.JobQuery{IncludeHidden: true})
	if err != nil {
		return fmt.Errorf("loading jobs for review: %w", err)
	}

	m := reviewModel{
		jobs:  jobs,
		store: store,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
