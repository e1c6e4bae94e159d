package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/router"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct{ model.Item }

func (i listItem) Title() string       { return i.ItemName }
func (i listItem) Description() string { return i.DueDate }
func (i listItem) FilterValue() string { return i.ItemName }

// itemDelegate renders one item per line: id, name, due date, importance.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	id := mutedStyle.Render(fmt.Sprintf("#%-4d", it.ItemID))
	name := it.ItemName
	if name == "" {
		name = mutedStyle.Render("(untitled)")
	}
	due := ""
	if it.DueDate != "" {
		due = "  " + accentStyle.Render("due "+it.DueDate)
	}
	imp := "  " + importanceStyle(it.ItemImportance).Render(fmt.Sprintf("!%d", it.ItemImportance))

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+id+" "+name+due+imp)
}

type listKeys struct {
	edit, add, stat, reload, finish, quit key.Binding
}

func newListKeys() listKeys {
	return listKeys{
		edit:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
		add:    key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		stat:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		finish: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "finish")),
		quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// listView shows every item the backend returns, in backend order.
type listView struct {
	env     env
	keys    listKeys
	list    list.Model
	items   []model.Item
	loading bool
	err     error
	notice  string
}

func newListView(e env) *listView {
	keys := newListKeys()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	bindings := func() []key.Binding {
		return []key.Binding{keys.edit, keys.add, keys.stat, keys.reload, keys.finish, keys.quit}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	return &listView{env: e, keys: keys, list: l}
}

func (v *listView) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	return v.env.listItems()
}

func (v *listView) SetSize(w, h int) { v.list.SetSize(w, h-1) }

func (v *listView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			v.items = nil
			v.list.SetItems(nil)
			v.env.logger.Error("list items", "err", msg.err)
			return nil
		}
		v.err = nil
		v.items = msg.items
		li := make([]list.Item, 0, len(msg.items))
		for _, it := range msg.items {
			li = append(li, listItem{it})
		}
		v.list.Title = listTitle(msg.items)
		return v.list.SetItems(li)

	case finishedMsg:
		if msg.err != nil {
			v.err = fmt.Errorf("finish #%d: %w", msg.id, msg.err)
			return nil
		}
		v.notice = fmt.Sprintf("finished #%d", msg.id)
		return v.Init()

	case tea.KeyMsg:
		if v.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, v.keys.quit):
			return tea.Quit
		case key.Matches(msg, v.keys.add):
			return navigate(router.CreateItemPath())
		case key.Matches(msg, v.keys.stat):
			return navigate(router.StatPagePath())
		case key.Matches(msg, v.keys.reload):
			v.notice = ""
			return v.Init()
		case key.Matches(msg, v.keys.edit):
			if it, ok := v.selected(); ok {
				return navigate(router.UpdateItemPath(it.ItemID))
			}
			return nil
		case key.Matches(msg, v.keys.finish):
			if it, ok := v.selected(); ok && !v.loading {
				v.loading = true
				return v.env.finishItem(it.ItemID)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *listView) selected() (model.Item, bool) {
	it, ok := v.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return it.Item, true
}

func (v *listView) View() string {
	var b strings.Builder
	b.WriteString(v.list.View())
	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(errorStyle.Render("✖ " + v.err.Error()))
	case v.loading:
		b.WriteString(mutedStyle.Render("loading items..."))
	case v.notice != "":
		b.WriteString(successStyle.Render("✔ " + v.notice))
	}
	return b.String()
}

func listTitle(items []model.Item) string {
	high := 0
	for _, it := range items {
		if ui.ImportanceLevel(it.ItemImportance) == "high" {
			high++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Todos"),
		accentStyle.Render("Total"), len(items),
		highStyle.Render("!"), high,
	)
}
