package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bploeckelman/nodes/pkg/editor"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickerModel - Interactive single selection
// =============================================================================

// PickItem is one row of a picker.
type PickItem struct {
	Value  string
	Title  string
	Detail string
	// Disabled rows are shown dimmed and cannot be chosen.
	Disabled bool
}

// PickerModel is the bubbletea model for choosing one item from a list.
type PickerModel struct {
	Title    string
	Items    []PickItem
	Cursor   int
	Offset   int
	Height   int
	Selected *PickItem
}

// NewPickerModel creates a picker with the cursor on the item whose value
// is initial, if any.
func NewPickerModel(title string, items []PickItem, initial string) PickerModel {
	m := PickerModel{Title: title, Items: items, Height: 15}
	for i, it := range items {
		if it.Value == initial && initial != "" {
			m.Cursor = i
			break
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 || m.Items[m.Cursor].Disabled {
				return m, nil
			}
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Items) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to choose from"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s  %s", cursor, it.Title, listDimStyle.Render(it.Detail))
		switch {
		case it.Disabled:
			b.WriteString(listDimStyle.Render(line))
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	return b.String()
}

// runPicker shows the picker and returns the chosen value, or "" when the
// user quits.
func runPicker(ctx context.Context, m PickerModel) (string, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	if sel := final.(PickerModel).Selected; sel != nil {
		return sel.Value, nil
	}
	return "", nil
}

// =============================================================================
// Item Builders
// =============================================================================

// nodeTypeItems lists the catalog's node types.
func nodeTypeItems(c *meta.Catalog) []PickItem {
	items := make([]PickItem, 0, len(c.NodeTypes))
	for _, nt := range c.NodeTypes {
		items = append(items, PickItem{
			Value:  nt.ID,
			Title:  nt.Name,
			Detail: fmt.Sprintf("%s · %d in · %d out · %d props", nt.ID, nt.Inputs, nt.Outputs, len(nt.Props)),
		})
	}
	return items
}

// documentItems lists stored documents, newest change shown as relative time.
func documentItems(entries []store.Entry, now time.Time) []PickItem {
	items := make([]PickItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, PickItem{
			Value:  e.Name,
			Title:  e.Name,
			Detail: fmt.Sprintf("%s · %s", formatSize(e.Size), formatRelativeTime(e.UpdatedAt, now)),
		})
	}
	return items
}

// =============================================================================
// Document Chooser
// =============================================================================

// pickerChooser implements editor.Chooser with a bubbletea picker over the
// documents in a store.
type pickerChooser struct {
	store   store.Store
	initial string
	pick    func(context.Context, PickerModel) (string, error)
}

func (p pickerChooser) ChooseLoadName(ctx context.Context) (string, error) {
	entries, err := p.store.List(ctx)
	if err != nil {
		return "", err
	}
	return p.pick(ctx, NewPickerModel("Open Document", documentItems(entries, time.Now()), p.initial))
}

// ChooseSaveName keeps the current name; the CLI never renames on save.
func (p pickerChooser) ChooseSaveName(_ context.Context, current string) (string, error) {
	return current, nil
}

var _ editor.Chooser = pickerChooser{}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
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

func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
