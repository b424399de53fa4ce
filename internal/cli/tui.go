package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowviz/pkg/flow"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// flowEntry is one row of the interactive picker: a JSON file in the
// working directory and what it parsed into.
type flowEntry struct {
	Path     string
	Tasks    int
	Edges    int
	Entities int
	Modified time.Time
	Err      error // non-nil when the file is not a readable flow
}

// pickFlowFile lists the flow files in the current directory and lets
// the user pick one interactively. Used when a command gets no flow
// argument.
func pickFlowFile() (string, error) {
	entries, err := scanFlowFiles(".")
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no flow files in the current directory (pass a file, URL, or - for stdin)")
	}

	final, err := tea.NewProgram(NewFlowListModel(entries)).Run()
	if err != nil {
		return "", fmt.Errorf("flow picker: %w", err)
	}
	m, ok := final.(FlowListModel)
	if !ok || m.Selected == "" {
		return "", fmt.Errorf("no flow selected")
	}
	return m.Selected, nil
}

// scanFlowFiles parses every *.json file in dir into a picker entry.
// Files that fail to parse stay in the list so the picker can show why
// they are not selectable.
func scanFlowFiles(dir string) ([]flowEntry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	entries := make([]flowEntry, 0, len(paths))
	for _, path := range paths {
		e := flowEntry{Path: path}
		if info, err := os.Stat(path); err == nil {
			e.Modified = info.ModTime()
		}
		g, err := flow.ImportJSON(path)
		if err != nil {
			e.Err = err
		} else {
			e.Tasks = g.TaskCount()
			e.Edges = g.EdgeCount()
			e.Entities = len(g.Entities())
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FlowListModel is the bubbletea model for interactive flow selection.
type FlowListModel struct {
	Entries  []flowEntry
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewFlowListModel creates a new flow list model.
func NewFlowListModel(entries []flowEntry) FlowListModel {
	return FlowListModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m FlowListModel) Init() tea.Cmd {
	return nil
}

func (m FlowListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Entries[m.Cursor]
			if entry.Err != nil {
				return m, nil
			}
			m.Selected = entry.Path
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m FlowListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Flow"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		tasks, edges, entities := "—", "—", "—"
		if e.Err == nil {
			tasks = strconv.Itoa(e.Tasks)
			edges = strconv.Itoa(e.Edges)
			entities = strconv.Itoa(e.Entities)
		}

		modified := "—"
		if !e.Modified.IsZero() {
			modified = formatRelativeTime(e.Modified)
		}

		rows = append(rows, []string{cursor, e.Path, tasks, edges, entities, modified})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Tasks", "Edges", "Entities", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			e := m.Entries[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 5 {
				base = base.Foreground(colorDim)
			}

			if e.Err != nil {
				if isCurrent {
					return base.Foreground(colorDim).Bold(true)
				}
				return base.Foreground(colorDim)
			}
			if isCurrent {
				if col != 5 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// formatRelativeTime renders a timestamp as a short "ago" string, or
// the date once it is over a week old.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
