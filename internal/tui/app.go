// Package tui is the interactive front-end: one bubbletea program that
// routes between the item list, the create/update forms and the stat page.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/router"
)

// view is a screen bound to one route.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(w, h int)
}

// Options tune the program.
type Options struct {
	StartPath string // defaults to "/"
	Logger    *log.Logger
}

// App is the root bubbletea model. It owns routing; views own their items.
type App struct {
	svc    ItemService
	logger *log.Logger

	route  router.Route
	view   view
	seq    int
	cancel context.CancelFunc
	start  router.Route

	width, height int
	navErr        error
}

// New resolves the start path and returns an unmounted App.
func New(svc ItemService, opt Options) (App, error) {
	start, err := router.Resolve(opt.StartPath)
	if err != nil {
		return App{}, err
	}
	logger := opt.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return App{svc: svc, logger: logger, start: start, width: 80, height: 24}, nil
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, svc ItemService, opt Options) error {
	app, err := New(svc, opt)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(App); ok && fm.cancel != nil {
		fm.cancel()
	}
	return err
}

// Route returns the mounted route.
func (m App) Route() router.Route { return m.route }

func (m App) Init() tea.Cmd {
	return navigate(m.start.Path())
}

// mount replaces the current view. The previous view's context is cancelled
// and its sequence number retired, so its in-flight results are dropped.
func (m App) mount(r router.Route) (App, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	e := env{ctx: ctx, svc: m.svc, seq: m.seq, logger: m.logger.With("view", r.View.String())}

	switch r.View {
	case router.CreateItem:
		m.view = newCreateView(e)
	case router.UpdateItem:
		m.view = newUpdateView(e, r.ID)
	case router.TaskStat:
		m.view = newStatView(e)
	default:
		m.view = newListView(e)
	}
	m.route = r
	m.navErr = nil
	m.view.SetSize(m.innerSize())
	m.logger.Debug("navigate", "path", r.Path(), "seq", m.seq)
	return m, m.view.Init()
}

func (m App) innerSize() (int, int) {
	// frame border + padding, plus the breadcrumb line
	return max(10, m.width-4), max(5, m.height-3)
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.view != nil {
			m.view.SetSize(m.innerSize())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case navigateMsg:
		r, err := router.Resolve(msg.path)
		if err != nil {
			m.navErr = err
			return m, nil
		}
		return m.mount(r)

	case scoped:
		if msg.viewSeq() != m.seq {
			m.logger.Debug("dropped stale result", "type", fmt.Sprintf("%T", msg), "seq", msg.viewSeq(), "current", m.seq)
			return m, nil
		}
	}

	if m.view == nil {
		return m, nil
	}
	return m, m.view.Update(msg)
}

func (m App) View() string {
	if m.view == nil {
		return ""
	}
	crumb := mutedStyle.Render("tada " + m.route.Path())
	if m.navErr != nil {
		crumb += "  " + errorStyle.Render("✖ "+m.navErr.Error())
	}
	return frameStyle.Render(crumb + "\n" + m.view.View())
}
