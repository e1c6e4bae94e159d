package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/router"
)

type call struct {
	op   string
	id   int64
	item model.Item
}

// fakeService is an in-memory ItemService that records every call.
type fakeService struct {
	mu      sync.Mutex
	items   []model.Item
	listErr error
	getErr  error
	saveErr error
	calls   []call
}

func (f *fakeService) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeService) callsFor(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeService) List(ctx context.Context) ([]model.Item, error) {
	f.record(call{op: "list"})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Item(nil), f.items...), nil
}

func (f *fakeService) Create(ctx context.Context, it model.Item) (json.RawMessage, error) {
	f.record(call{op: "create", item: it})
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeService) Get(ctx context.Context, id int64) (model.Item, error) {
	f.record(call{op: "get", id: id})
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	if f.getErr != nil {
		return model.Item{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ItemID == id {
			return it, nil
		}
	}
	return model.Item{}, errors.New("get: 404 Not Found")
}

func (f *fakeService) Update(ctx context.Context, id int64, it model.Item) (json.RawMessage, error) {
	f.record(call{op: "update", id: id, item: it})
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeService) Delete(ctx context.Context, id int64) error {
	f.record(call{op: "delete", id: id})
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ItemID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("delete: 404 Not Found")
}

// run executes cmd and flattens batches into messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// pump feeds cmd results back into m until nothing is left.
func pump(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := run(cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 200 {
			t.Fatal("pump: message loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, run(next)...)
	}
	return m
}

func start(t *testing.T, svc ItemService, path string) App {
	t.Helper()
	app, err := New(svc, Options{StartPath: path})
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	return pump(t, app, app.Init()).(App)
}

func press(t *testing.T, m App, k tea.KeyMsg) App {
	t.Helper()
	next, cmd := m.Update(k)
	return pump(t, next, cmd).(App)
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func sampleItems() []model.Item {
	return []model.Item{
		{ItemID: 1, ItemName: "Move out of Equinox", DueDate: "08/13/24", ItemImportance: 3},
		{ItemID: 2, ItemName: "Apply to Cox Automotive", DueDate: "08/02/24", ItemImportance: 1},
		{ItemID: 5, ItemName: "X", DueDate: "01/01/25", ItemImportance: 1},
	}
}

func TestNewRejectsUnknownPath(t *testing.T) {
	if _, err := New(&fakeService{}, Options{StartPath: "/nope"}); !errors.Is(err, router.ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
}

func TestListViewShowsItemsInOrder(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "")

	if m.Route().View != router.ItemList {
		t.Fatalf("empty path routed to %s, want items", m.Route().View)
	}
	lv, ok := m.view.(*listView)
	if !ok {
		t.Fatalf("view is %T", m.view)
	}
	want := sampleItems()
	if len(lv.items) != len(want) {
		t.Fatalf("got %d items, want %d", len(lv.items), len(want))
	}
	for i := range want {
		if lv.items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, lv.items[i], want[i])
		}
	}
	if len(lv.list.Items()) != len(want) {
		t.Errorf("list has %d rows", len(lv.list.Items()))
	}
	if !strings.Contains(m.View(), "Apply to Cox Automotive") {
		t.Errorf("rendered view misses an item:\n%s", m.View())
	}
}

func TestListViewFetchFailure(t *testing.T) {
	svc := &fakeService{items: sampleItems(), listErr: errors.New("list: dial tcp: connection refused")}
	m := start(t, svc, "/items")

	lv := m.view.(*listView)
	if lv.items != nil || len(lv.list.Items()) != 0 {
		t.Errorf("items populated after failure: %+v", lv.items)
	}
	if lv.err == nil {
		t.Fatal("error not recorded")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("error not rendered:\n%s", m.View())
	}
}

func TestListViewReloadClearsError(t *testing.T) {
	svc := &fakeService{items: sampleItems(), listErr: errors.New("boom")}
	m := start(t, svc, "/items")

	svc.listErr = nil
	m = press(t, m, keyRunes("r"))
	lv := m.view.(*listView)
	if lv.err != nil || len(lv.items) != 3 {
		t.Errorf("after reload err=%v items=%d", lv.err, len(lv.items))
	}
}

func TestListNavigation(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "/items")

	m = press(t, m, keyRunes("a"))
	if m.Route().View != router.CreateItem {
		t.Fatalf("a -> %s, want create-item", m.Route().Path())
	}
	m = press(t, m, keyEsc)
	if m.Route().View != router.ItemList {
		t.Fatalf("esc -> %s, want items", m.Route().Path())
	}
	m = press(t, m, keyRunes("s"))
	if m.Route().View != router.TaskStat {
		t.Fatalf("s -> %s, want stat-page", m.Route().Path())
	}
	m = press(t, m, keyEsc)

	m = press(t, m, keyEnter)
	if got := m.Route(); got.View != router.UpdateItem || got.ID != 1 {
		t.Fatalf("enter -> %s, want /update-item/1", got.Path())
	}
}

func TestListFinishReloads(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "/items")

	m = press(t, m, keyRunes("d"))

	dels := svc.callsFor("delete")
	if len(dels) != 1 || dels[0].id != 1 {
		t.Fatalf("delete calls = %+v", dels)
	}
	if n := len(svc.callsFor("list")); n != 2 {
		t.Errorf("list fetched %d times, want 2", n)
	}
	lv := m.view.(*listView)
	if len(lv.items) != 2 || lv.items[0].ItemID != 2 {
		t.Errorf("items after finish = %+v", lv.items)
	}
}

func TestCreateSubmitsOnceAndNavigates(t *testing.T) {
	svc := &fakeService{}
	m := start(t, svc, "/create-item")

	m = press(t, m, keyRunes("Buy milk"))
	m = press(t, m, keyTab)
	m = press(t, m, keyRunes("09/01/24"))
	m = press(t, m, keyTab)
	m = press(t, m, keyRunes("2"))
	m = press(t, m, keySave)

	creates := svc.callsFor("create")
	if len(creates) != 1 {
		t.Fatalf("got %d create calls, want 1", len(creates))
	}
	want := model.Item{ItemName: "Buy milk", DueDate: "09/01/24", ItemImportance: 2}
	if creates[0].item != want {
		t.Errorf("created %+v, want %+v", creates[0].item, want)
	}
	if m.Route().View != router.ItemList {
		t.Errorf("after create route = %s, want items", m.Route().Path())
	}
}

func TestCreateEnterOnLastFieldSubmits(t *testing.T) {
	svc := &fakeService{}
	m := start(t, svc, "/create-item")

	m = press(t, m, keyRunes("Call mom"))
	m = press(t, m, keyEnter)
	m = press(t, m, keyEnter)
	if len(svc.callsFor("create")) != 0 {
		t.Fatal("enter on a middle field submitted")
	}
	m = press(t, m, keyEnter)
	if len(svc.callsFor("create")) != 1 {
		t.Fatal("enter on importance did not submit")
	}
	if m.Route().View != router.ItemList {
		t.Errorf("route = %s", m.Route().Path())
	}
}

func TestCreateRejectsNonIntegerImportance(t *testing.T) {
	svc := &fakeService{}
	m := start(t, svc, "/create-item")

	m = press(t, m, keyRunes("Buy milk"))
	m = press(t, m, keyTab)
	m = press(t, m, keyTab)
	m = press(t, m, keyRunes("high"))
	m = press(t, m, keySave)

	if n := len(svc.callsFor("create")); n != 0 {
		t.Fatalf("create issued %d times with a bad importance", n)
	}
	if m.Route().View != router.CreateItem {
		t.Errorf("navigated away: %s", m.Route().Path())
	}
	if !strings.Contains(m.View(), "importance") {
		t.Errorf("binding error not shown:\n%s", m.View())
	}
}

func TestCreateFailureKeepsForm(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("create: 500 Internal Server Error")}
	m := start(t, svc, "/create-item")

	m = press(t, m, keyRunes("Buy milk"))
	m = press(t, m, keySave)

	if m.Route().View != router.CreateItem {
		t.Fatalf("navigated away after failure: %s", m.Route().Path())
	}
	fv := m.view.(*formView)
	if fv.inputs[fieldName].Value() != "Buy milk" {
		t.Errorf("form lost input: %q", fv.inputs[fieldName].Value())
	}
	if !strings.Contains(m.View(), "500") {
		t.Errorf("error not rendered:\n%s", m.View())
	}
}

func TestUpdatePopulatesForm(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "/update-item/5")

	fv, ok := m.view.(*formView)
	if !ok {
		t.Fatalf("view is %T", m.view)
	}
	got := [fieldCount]string{
		fv.inputs[fieldName].Value(),
		fv.inputs[fieldDue].Value(),
		fv.inputs[fieldImportance].Value(),
	}
	want := [fieldCount]string{"X", "01/01/25", "1"}
	if got != want {
		t.Errorf("form = %v, want %v", got, want)
	}
}

func TestUpdateSubmitsPUT(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "/update-item/5")

	m = press(t, m, keyRunes(" edited"))
	m = press(t, m, keySave)

	ups := svc.callsFor("update")
	if len(ups) != 1 {
		t.Fatalf("got %d update calls, want 1", len(ups))
	}
	want := model.Item{ItemID: 5, ItemName: "X edited", DueDate: "01/01/25", ItemImportance: 1}
	if ups[0].id != 5 || ups[0].item != want {
		t.Errorf("update = %d %+v, want 5 %+v", ups[0].id, ups[0].item, want)
	}
	if m.Route().View != router.ItemList {
		t.Errorf("after update route = %s", m.Route().Path())
	}
}

func TestUpdateRefusesSubmitWhileLoading(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	app, err := New(svc, Options{StartPath: "/update-item/5"})
	if err != nil {
		t.Fatal(err)
	}

	// Mount the view but hold back the fetch result.
	next, fetch := app.Update(run(app.Init())[0])
	m := next.(App)

	m = press(t, m, keyRunes("typed early"))
	m = press(t, m, keySave)
	if n := len(svc.callsFor("update")); n != 0 {
		t.Fatalf("submitted %d times before the fetch resolved", n)
	}
	if !strings.Contains(m.View(), errNotReady.Error()) {
		t.Errorf("loading state not surfaced:\n%s", m.View())
	}

	m = pump(t, m, fetch).(App)
	fv := m.view.(*formView)
	if fv.inputs[fieldName].Value() != "X" {
		t.Errorf("early keystrokes leaked into the form: %q", fv.inputs[fieldName].Value())
	}
	m = press(t, m, keySave)
	if n := len(svc.callsFor("update")); n != 1 {
		t.Fatalf("got %d update calls after load, want 1", n)
	}
}

func TestUpdateFetchFailureBlocksSubmit(t *testing.T) {
	svc := &fakeService{getErr: errors.New("get: 404 Not Found")}
	m := start(t, svc, "/update-item/9")

	m = press(t, m, keySave)
	if n := len(svc.callsFor("update")); n != 0 {
		t.Fatalf("submitted %d times after a failed fetch", n)
	}
	if !strings.Contains(m.View(), "404") {
		t.Errorf("fetch error not rendered:\n%s", m.View())
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	app, err := New(svc, Options{StartPath: "/update-item/5"})
	if err != nil {
		t.Fatal(err)
	}
	next, staleFetch := app.Update(run(app.Init())[0])
	m := next.(App)
	staleSeq := m.seq

	// Navigate away before the fetch resolves.
	next, cmd := m.Update(navigateMsg{path: router.ItemsPath()})
	m = pump(t, next, cmd).(App)

	// The late response for the update view must not touch the list view.
	m = pump(t, m, staleFetch).(App)
	next, _ = m.Update(itemLoadedMsg{seq: staleSeq, item: model.Item{ItemID: 5, ItemName: "late"}})
	m = next.(App)

	if m.Route().View != router.ItemList {
		t.Fatalf("route = %s", m.Route().Path())
	}
	lv := m.view.(*listView)
	if len(lv.items) != 3 || lv.err != nil {
		t.Errorf("list view disturbed: items=%d err=%v", len(lv.items), lv.err)
	}

	gets := svc.callsFor("get")
	if len(gets) != 1 {
		t.Errorf("get calls = %d", len(gets))
	}
}

func TestNavigateUnknownPathKeepsView(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "/items")

	next, _ := m.Update(navigateMsg{path: "/update-item/abc"})
	m = next.(App)
	if m.Route().View != router.ItemList {
		t.Errorf("route changed to %s", m.Route().Path())
	}
	if !strings.Contains(m.View(), "unknown route") {
		t.Errorf("navigation error not shown:\n%s", m.View())
	}
}

func TestWindowResize(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := start(t, svc, "/items")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(App)
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
	if w := m.view.(*listView).list.Width(); w != 116 {
		t.Errorf("list width = %d, want 116", w)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := start(t, &fakeService{}, "/create-item")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}
