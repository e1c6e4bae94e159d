package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/router"
)

const (
	fieldName = iota
	fieldDue
	fieldImportance
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Due date", "Importance"}

// errNotReady is shown when submit is pressed before the item has loaded.
var errNotReady = errors.New("item is still loading")

type formKeys struct {
	next, prev, submit, back key.Binding
}

func newFormKeys() formKeys {
	return formKeys{
		next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s/enter", "save")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// formView edits one item. In create mode it starts empty; in update mode it
// fetches the item first and refuses to submit until the fetch succeeds, so
// default field values are never sent over a stored item.
type formView struct {
	env    env
	keys   formKeys
	update bool
	id     int64

	inputs [fieldCount]textinput.Model
	focus  int

	loading    bool
	loadErr    error
	submitting bool
	err        error
}

func newCreateView(e env) *formView {
	return newFormView(e, false, 0)
}

func newUpdateView(e env, id int64) *formView {
	return newFormView(e, true, id)
}

func newFormView(e env, update bool, id int64) *formView {
	v := &formView{env: e, keys: newFormKeys(), update: update, id: id}
	placeholders := [fieldCount]string{"Buy milk", "09/01/24", "0"}
	for i := range v.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Cursor.SetMode(cursor.CursorStatic)
		v.inputs[i] = ti
	}
	v.inputs[fieldImportance].CharLimit = 12
	return v
}

func (v *formView) Init() tea.Cmd {
	v.setFocus(fieldName)
	if !v.update {
		return nil
	}
	v.loading = true
	return v.env.getItem(v.id)
}

func (v *formView) SetSize(w, h int) {
	for i := range v.inputs {
		v.inputs[i].Width = max(10, w-20)
	}
}

func (v *formView) setFocus(i int) {
	v.focus = (i + fieldCount) % fieldCount
	for j := range v.inputs {
		if j == v.focus {
			v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
}

// ready reports whether a submit may be issued.
func (v *formView) ready() bool {
	return !v.loading && v.loadErr == nil && !v.submitting
}

func (v *formView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case itemLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.loadErr = msg.err
			v.env.logger.Error("get item", "id", v.id, "err", msg.err)
			return nil
		}
		v.fill(msg.item)
		return nil

	case savedMsg:
		v.submitting = false
		if msg.err != nil {
			v.err = msg.err
			v.env.logger.Error("save item", "update", v.update, "id", v.id, "err", msg.err)
			return nil
		}
		v.env.logger.Debug("saved item", "update", v.update, "id", v.id, "response", string(msg.raw))
		return navigate(router.ItemsPath())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.back):
			return navigate(router.ItemsPath())
		case key.Matches(msg, v.keys.next):
			v.setFocus(v.focus + 1)
			return nil
		case key.Matches(msg, v.keys.prev):
			v.setFocus(v.focus - 1)
			return nil
		case key.Matches(msg, v.keys.submit):
			return v.submit()
		case msg.Type == tea.KeyEnter:
			if v.focus == fieldImportance {
				return v.submit()
			}
			v.setFocus(v.focus + 1)
			return nil
		}
	}

	if v.loading || v.loadErr != nil {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *formView) submit() tea.Cmd {
	if !v.ready() {
		if v.loading {
			v.err = errNotReady
		}
		return nil
	}
	it, err := v.item()
	if err != nil {
		v.err = err
		v.setFocus(fieldImportance)
		return nil
	}
	v.err = nil
	v.submitting = true
	if v.update {
		return v.env.updateItem(v.id, it)
	}
	return v.env.createItem(it)
}

// item binds the inputs to an Item. Importance must be an integer; empty
// means zero.
func (v *formView) item() (model.Item, error) {
	it := model.Item{
		ItemName: strings.TrimSpace(v.inputs[fieldName].Value()),
		DueDate:  strings.TrimSpace(v.inputs[fieldDue].Value()),
	}
	if v.update {
		it.ItemID = v.id
	}
	raw := strings.TrimSpace(v.inputs[fieldImportance].Value())
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Item{}, fmt.Errorf("importance: %q is not a whole number", raw)
		}
		it.ItemImportance = n
	}
	return it, nil
}

func (v *formView) fill(it model.Item) {
	v.inputs[fieldName].SetValue(it.ItemName)
	v.inputs[fieldDue].SetValue(it.DueDate)
	v.inputs[fieldImportance].SetValue(strconv.Itoa(it.ItemImportance))
	for i := range v.inputs {
		v.inputs[i].CursorEnd()
	}
}

func (v *formView) View() string {
	var b strings.Builder
	title := "Create item"
	if v.update {
		title = fmt.Sprintf("Update item #%d", v.id)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(mutedStyle.Render("loading item..."))
		b.WriteString("\n")
	case v.loadErr != nil:
		b.WriteString(errorStyle.Render("✖ " + v.loadErr.Error()))
		b.WriteString("\n")
	default:
		for i := range v.inputs {
			b.WriteString(labelStyle.Render(fieldLabels[i]))
			b.WriteString(v.inputs[i].View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case v.submitting:
		b.WriteString(mutedStyle.Render("saving..."))
	case v.err != nil:
		b.WriteString(errorStyle.Render("✖ " + v.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next • shift+tab prev • ctrl+s/enter save • esc back"))
	return b.String()
}
