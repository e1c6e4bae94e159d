package tui

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

// navigateMsg asks the app to switch to another route.
type navigateMsg struct{ path string }

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// scoped is implemented by results of service calls. seq identifies the
// view instance that issued the call; the app drops results for views
// that are no longer mounted.
type scoped interface{ viewSeq() int }

type itemsLoadedMsg struct {
	seq   int
	items []model.Item
	err   error
}

type itemLoadedMsg struct {
	seq  int
	item model.Item
	err  error
}

type savedMsg struct {
	seq int
	raw json.RawMessage
	err error
}

type finishedMsg struct {
	seq int
	id  int64
	err error
}

func (m itemsLoadedMsg) viewSeq() int { return m.seq }
func (m itemLoadedMsg) viewSeq() int  { return m.seq }
func (m savedMsg) viewSeq() int       { return m.seq }
func (m finishedMsg) viewSeq() int    { return m.seq }

// env is what a mounted view gets: a context cancelled on unmount,
// the service, and its sequence number.
type env struct {
	ctx    context.Context
	svc    ItemService
	seq    int
	logger *log.Logger
}

func (e env) listItems() tea.Cmd {
	return func() tea.Msg {
		items, err := e.svc.List(e.ctx)
		return itemsLoadedMsg{seq: e.seq, items: items, err: err}
	}
}

func (e env) getItem(id int64) tea.Cmd {
	return func() tea.Msg {
		it, err := e.svc.Get(e.ctx, id)
		return itemLoadedMsg{seq: e.seq, item: it, err: err}
	}
}

func (e env) createItem(it model.Item) tea.Cmd {
	return func() tea.Msg {
		raw, err := e.svc.Create(e.ctx, it)
		return savedMsg{seq: e.seq, raw: raw, err: err}
	}
}

func (e env) updateItem(id int64, it model.Item) tea.Cmd {
	return func() tea.Msg {
		raw, err := e.svc.Update(e.ctx, id, it)
		return savedMsg{seq: e.seq, raw: raw, err: err}
	}
}

func (e env) finishItem(id int64) tea.Cmd {
	return func() tea.Msg {
		err := e.svc.Delete(e.ctx, id)
		return finishedMsg{seq: e.seq, id: id, err: err}
	}
}
