package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/router"
)

// statView summarizes the item list by importance.
type statView struct {
	env      env
	width    int
	back     key.Binding
	reload   key.Binding
	loading  bool
	err      error
	rendered string
}

func newStatView(e env) *statView {
	return &statView{
		env:    e,
		width:  80,
		back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *statView) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	return v.env.listItems()
}

func (v *statView) SetSize(w, h int) { v.width = max(20, w-4) }

func (v *statView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			v.rendered = ""
			return nil
		}
		out, err := RenderStats(msg.items, v.width)
		if err != nil {
			v.err = err
			return nil
		}
		v.rendered = out
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.back):
			return navigate(router.ItemsPath())
		case key.Matches(msg, v.reload):
			return v.Init()
		case msg.String() == "q":
			return tea.Quit
		}
	}
	return nil
}

func (v *statView) View() string {
	var b strings.Builder
	switch {
	case v.err != nil:
		b.WriteString(errorStyle.Render("✖ " + v.err.Error()))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(mutedStyle.Render("loading stats..."))
		b.WriteString("\n")
	default:
		b.WriteString(v.rendered)
	}
	b.WriteString(helpStyle.Render("esc back • r reload • q quit"))
	return b.String()
}

// Stats counts items per importance value.
type Stats struct {
	Total        int
	ByImportance map[int]int
}

// Compute tallies items.
func Compute(items []model.Item) Stats {
	s := Stats{Total: len(items), ByImportance: map[int]int{}}
	for _, it := range items {
		s.ByImportance[it.ItemImportance]++
	}
	return s
}

// Markdown renders the stats as a markdown document, highest importance first.
func (s Stats) Markdown() string {
	var b strings.Builder
	b.WriteString("# Task stats\n\n")
	fmt.Fprintf(&b, "%d items in total.\n\n", s.Total)
	if s.Total == 0 {
		b.WriteString("Nothing to do.\n")
		return b.String()
	}
	levels := make([]int, 0, len(s.ByImportance))
	for k := range s.ByImportance {
		levels = append(levels, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	b.WriteString("| Importance | Items |\n|---:|---:|\n")
	for _, k := range levels {
		fmt.Fprintf(&b, "| %d | %d |\n", k, s.ByImportance[k])
	}
	return b.String()
}

// RenderStats renders the stats for items through glamour at the given width.
func RenderStats(items []model.Item, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.NoTTYStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(Compute(items).Markdown())
	if err != nil {
		return "", fmt.Errorf("render stats: %w", err)
	}
	return out, nil
}
