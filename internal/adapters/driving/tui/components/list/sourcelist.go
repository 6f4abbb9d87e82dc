// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// SourceList displays the passages cited by an answer in a navigable list.
type SourceList struct {
	sources  []domain.SourceRef
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *SourceList) View() string {
	if len(r.sources) == 0 {
		return r.styles.Muted.Render("Kaynak yok")
	}

	lines := make([]string, 0, len(r.sources)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Kaynaklar (%d)", len(r.sources))), "")

	visible := r.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.sources))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderSource(i, r.sources[i]))
	}
	return strings.Join(lines, "\n")
}

// renderSource formats one citation as "n. document (category)  distance".
func (r *SourceList) renderSource(index int, src domain.SourceRef) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := src.Document
	maxLen := r.width - 30
	if maxLen < 10 {
		maxLen = 10
	}
	if runes := []rune(name); len(runes) > maxLen {
		name = string(runes[:maxLen-3]) + "..."
	}

	label := fmt.Sprintf("%s%d. %s", indicator, index+1, name)
	distance := fmt.Sprintf("%.4f", src.Distance)
	if index == r.selected {
		return r.styles.Selected.Render(label+"  "+distance) + " " + r.styles.Muted.Render(src.Category)
	}
	return r.styles.Normal.Render(label+"  ") + r.styles.Muted.Render(distance+" "+src.Category)
}

// SetSources replaces the list contents and resets the selection.
func (r *SourceList) SetSources(sources []domain.SourceRef) {
	r.sources = sources
	r.selected = 0
}

// Sources returns the current sources.
func (r *SourceList) Sources() []domain.SourceRef {
	return r.sources
}

// Selected returns the index of the selected source.
func (r *SourceList) Selected() int {
	return r.selected
}

// SelectedSource returns the currently selected source, or nil if none.
func (r *SourceList) SelectedSource() *domain.SourceRef {
	if r.selected < 0 || r.selected >= len(r.sources) {
		return nil
	}
	return &r.sources[r.selected]
}

// MoveUp moves selection up.
func (r *SourceList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *SourceList) MoveDown() {
	if r.selected < len(r.sources)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *SourceList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of sources.
func (r *SourceList) Count() int {
	return len(r.sources)
}
