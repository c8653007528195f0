package panel

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/newtab/internal/commands"
	"github.com/kk-code-lab/newtab/internal/config"
	"github.com/kk-code-lab/newtab/internal/icons"
	"github.com/kk-code-lab/newtab/internal/search"
	"github.com/kk-code-lab/newtab/internal/vault"
)

func mkFile(p string) vault.File {
	name := path.Base(p)
	ext := path.Ext(name)
	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}
	return vault.File{
		Path:      p,
		Name:      name,
		Basename:  strings.TrimSuffix(name, ext),
		Parent:    parent,
		Extension: strings.TrimPrefix(ext, "."),
	}
}

func mkFiles(paths ...string) []vault.File {
	out := make([]vault.File, len(paths))
	for i, p := range paths {
		out[i] = mkFile(p)
	}
	return out
}

type harness struct {
	t       *testing.T
	actions chan Action
	c       *Controller

	mu     sync.Mutex
	opened []string
}

func newHarness(t *testing.T, caps Capabilities, settings config.Settings) *harness {
	t.Helper()
	h := &harness{t: t, actions: make(chan Action, 32)}
	if caps.OpenFile == nil {
		caps.OpenFile = func(f vault.File) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.opened = append(h.opened, f.Path)
			return nil
		}
	}
	h.c = NewController(caps, settings, func(a Action) { h.actions <- a })
	h.c.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local) }
	return h
}

func (h *harness) next() Action {
	h.t.Helper()
	select {
	case a := <-h.actions:
		return a
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for dispatched action")
		return nil
	}
}

// mount mounts the panel and applies the initial bookmark load.
func (h *harness) mount() {
	h.t.Helper()
	h.c.OnMount(h.t.Context())
	_, ok := h.next().(BookmarksReadyAction)
	require.True(h.t, ok)
}

func (h *harness) query(q string) {
	h.t.Helper()
	h.c.SetQuery(q)
	ready, ok := h.next().(ResultsReadyAction)
	require.True(h.t, ok)
	require.True(h.t, h.c.Apply(ready))
}

func (h *harness) openedPaths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

func staticFiles(files []vault.File) func(context.Context) ([]vault.File, error) {
	return func(context.Context) ([]vault.File, error) { return files, nil }
}

func pathIcon(_ context.Context, f vault.File) icons.IconInfo {
	return icons.IconInfo{Icon: "icon:" + f.Path}
}

func TestMountComputesGreetingAndFocus(t *testing.T) {
	h := newHarness(t, Capabilities{}, config.Default().Settings)
	h.c.now = func() time.Time { return time.Date(2024, 1, 1, 19, 0, 0, 0, time.Local) }
	h.mount()

	vm := h.c.ViewModel()
	assert.Equal(t, "Good evening", vm.Greeting)
	assert.Equal(t, FocusSearch, vm.Focus)
	assert.Equal(t, Placeholder, vm.Placeholder)
	assert.True(t, vm.ShowBookmarks)
	assert.Equal(t, ViewType, h.c.ViewType())
	assert.Equal(t, DisplayText, h.c.DisplayText())

	h.c.now = func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local) }
	h.c.Apply(RefreshAction{})
	assert.Equal(t, "Good evening", h.c.ViewModel().Greeting, "greeting is fixed at mount")

	h2 := newHarness(t, Capabilities{}, config.Settings{FocusSearchOnOpen: false})
	h2.mount()
	assert.Equal(t, FocusBookmarks, h2.c.ViewModel().Focus)
}

func TestDailyQueryRanksDailyNoteFirst(t *testing.T) {
	files := mkFiles("Projects/readme.md", "Daily/2024-01-01.md")
	h := newHarness(t, Capabilities{ListFiles: staticFiles(files), ResolveIcon: pathIcon}, config.Default().Settings)
	h.mount()

	h.c.SetQuery("daily")
	assert.True(t, h.c.ViewModel().Searching)
	ready := h.next().(ResultsReadyAction)
	require.True(t, h.c.Apply(ready))

	vm := h.c.ViewModel()
	require.NotEmpty(t, vm.Results)
	top := vm.Results[0]
	assert.Equal(t, "Daily/2024-01-01.md", top.File.Path)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, top.Match.Positions)
	assert.Equal(t, icons.IconInfo{Icon: "icon:Daily/2024-01-01.md"}, top.Icon)
	assert.Equal(t, 0, vm.Selected)
	assert.False(t, vm.Searching)
	assert.False(t, vm.ShowBookmarks)
}

func TestEmptyQueryClearsSynchronously(t *testing.T) {
	files := mkFiles("Daily/2024-01-01.md")
	h := newHarness(t, Capabilities{ListFiles: staticFiles(files)}, config.Default().Settings)
	h.mount()
	h.query("daily")
	require.Len(t, h.c.ViewModel().Results, 1)

	h.c.SetQuery("")
	vm := h.c.ViewModel()
	assert.Empty(t, vm.Results)
	assert.Equal(t, -1, vm.Selected)
	assert.True(t, vm.ShowBookmarks)

	h.c.SetQuery("   ")
	assert.Empty(t, h.c.ViewModel().Results)
	select {
	case a := <-h.actions:
		t.Fatalf("blank query dispatched %T", a)
	default:
	}
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	files := mkFiles("Daily/2024-01-01.md", "Projects/readme.md")
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	listFiles := func(ctx context.Context) ([]vault.File, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-release
		}
		return files, nil
	}

	h := newHarness(t, Capabilities{ListFiles: listFiles}, config.Default().Settings)
	h.mount()

	h.c.SetQuery("daily")
	h.c.SetQuery("readme")

	newer := h.next().(ResultsReadyAction)
	require.True(t, h.c.Apply(newer))
	close(release)
	older := h.next().(ResultsReadyAction)
	assert.False(t, h.c.Apply(older), "older generation must not be applied")

	vm := h.c.ViewModel()
	require.NotEmpty(t, vm.Results)
	assert.Equal(t, "Projects/readme.md", vm.Results[0].File.Path)
}

func TestClearingDiscardsInFlightSearch(t *testing.T) {
	release := make(chan struct{})
	listFiles := func(ctx context.Context) ([]vault.File, error) {
		<-release
		return mkFiles("Daily/2024-01-01.md"), nil
	}
	h := newHarness(t, Capabilities{ListFiles: listFiles}, config.Default().Settings)
	h.mount()

	h.c.SetQuery("daily")
	h.c.SetQuery("")
	close(release)
	assert.False(t, h.c.Apply(h.next()))
	assert.Empty(t, h.c.ViewModel().Results)
}

func TestEnrichmentKeepsRankingOrder(t *testing.T) {
	files := mkFiles("notes/alpha.md", "notes/alphabet.md", "notes/alpha-beta.md", "archive/alp.md", "alpha/x.md")
	var candidates []search.Candidate
	for _, f := range files {
		candidates = append(candidates, search.Candidate{Path: f.Path, Name: f.Basename})
	}
	want := search.NewEngine().Search("alp", candidates, search.DefaultLimit)
	require.NotEmpty(t, want)

	slowFirst := func(_ context.Context, f vault.File) icons.IconInfo {
		if f.Path == want[0].Candidate.Path {
			time.Sleep(50 * time.Millisecond)
		}
		return icons.IconInfo{Icon: f.Path}
	}
	h := newHarness(t, Capabilities{ListFiles: staticFiles(files), ResolveIcon: slowFirst}, config.Default().Settings)
	h.mount()
	h.query("alp")

	got := h.c.ViewModel().Results
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Candidate.Path, got[i].File.Path)
		assert.Equal(t, got[i].File.Path, got[i].Icon.Icon)
	}
}

func TestListFilesErrorYieldsEmptyResults(t *testing.T) {
	listFiles := func(context.Context) ([]vault.File, error) { return nil, errors.New("disk gone") }
	h := newHarness(t, Capabilities{ListFiles: listFiles}, config.Default().Settings)
	h.mount()
	h.query("x")
	assert.Empty(t, h.c.ViewModel().Results)
}

func TestHandleKey(t *testing.T) {
	files := mkFiles("a/note1.md", "b/note2.md", "c/note3.md")
	h := newHarness(t, Capabilities{ListFiles: staticFiles(files)}, config.Default().Settings)
	h.mount()

	assert.True(t, h.c.HandleKey(KeyEnter), "enter is consumed even with no results")
	assert.Empty(t, h.openedPaths())
	assert.True(t, h.c.HandleKey(KeyDown))
	assert.Equal(t, -1, h.c.ViewModel().Selected)

	h.query("note")
	require.Len(t, h.c.ViewModel().Results, 3)
	for range 5 {
		h.c.HandleKey(KeyDown)
	}
	assert.Equal(t, 2, h.c.ViewModel().Selected)
	h.c.HandleKey(KeyUp)
	assert.Equal(t, 1, h.c.ViewModel().Selected)

	h.c.HandleKey(KeyEnter)
	want := h.c.ViewModel().Results[1].File.Path
	assert.Equal(t, []string{want}, h.openedPaths())

	assert.False(t, h.c.HandleKey(Key(99)))
}

func TestOpenFailureSetsStatus(t *testing.T) {
	files := mkFiles("todo.md")
	caps := Capabilities{
		ListFiles: staticFiles(files),
		OpenFile:  func(vault.File) error { return errors.New("editor exited with status 1") },
	}
	h := newHarness(t, caps, config.Default().Settings)
	h.mount()
	h.query("todo")
	h.c.Apply(CommitAction{})
	assert.Equal(t, "editor exited with status 1", h.c.ViewModel().Status)
}

func TestQueryEditingActions(t *testing.T) {
	files := mkFiles("todo.md")
	h := newHarness(t, Capabilities{ListFiles: staticFiles(files)}, config.Default().Settings)
	h.mount()

	h.c.Apply(QueryCharAction{Char: 't'})
	h.c.Apply(h.next())
	h.c.Apply(QueryCharAction{Char: 'o'})
	h.c.Apply(h.next())
	assert.Equal(t, "to", h.c.Query())
	assert.Len(t, h.c.ViewModel().Results, 1)

	h.c.Apply(QueryBackspaceAction{})
	h.c.Apply(h.next())
	assert.Equal(t, "t", h.c.Query())

	assert.True(t, h.c.Apply(QueryResetAction{}))
	assert.Empty(t, h.c.Query())
	assert.Empty(t, h.c.ViewModel().Results)
	assert.False(t, h.c.Apply(QueryResetAction{}), "reset on empty query is left to the caller")
}

func TestMouseSelection(t *testing.T) {
	files := mkFiles("a/note1.md", "b/note2.md")
	h := newHarness(t, Capabilities{ListFiles: staticFiles(files)}, config.Default().Settings)
	h.mount()
	h.query("note")

	h.c.Apply(SelectResultAction{Index: 1})
	assert.Equal(t, 1, h.c.ViewModel().Selected)
	assert.Empty(t, h.openedPaths())

	h.c.Apply(SelectResultAction{Index: 1})
	assert.Len(t, h.openedPaths(), 1, "clicking the selected row opens it")

	h.c.Apply(SelectResultAction{Index: 0, Open: true})
	assert.Len(t, h.openedPaths(), 2)

	assert.False(t, h.c.Apply(SelectResultAction{Index: 7}))
}

func bookmarkCaps(items []vault.BookmarkItem, existing ...string) Capabilities {
	known := map[string]bool{}
	for _, p := range existing {
		known[p] = true
	}
	return Capabilities{
		GetBookmarks: func(context.Context) ([]vault.BookmarkItem, error) { return items, nil },
		ResolvePath: func(p string) (vault.File, bool) {
			if !known[p] {
				return vault.File{}, false
			}
			return mkFile(p), true
		},
		ResolveIcon: pathIcon,
	}
}

func TestBookmarksLoadOnMount(t *testing.T) {
	items := []vault.BookmarkItem{
		{Type: vault.BookmarkFile, Path: "Home.md"},
		{Type: vault.BookmarkGroup, Items: []vault.BookmarkItem{
			{Type: vault.BookmarkFile, Path: "Projects/plan.md", Title: "Plan"},
			{Type: vault.BookmarkFolder, Path: "Projects"},
		}},
		{Type: vault.BookmarkFile, Path: "gone.md"},
	}
	h := newHarness(t, bookmarkCaps(items, "Home.md", "Projects/plan.md"), config.Default().Settings)
	h.c.OnMount(t.Context())
	require.True(t, h.c.Apply(h.next()))

	vm := h.c.ViewModel()
	require.Len(t, vm.Bookmarks, 3)
	assert.Equal(t, "Home", vm.Bookmarks[0].DisplayTitle())
	assert.Equal(t, "Plan", vm.Bookmarks[1].DisplayTitle())
	assert.True(t, vm.Bookmarks[1].Resolved)
	assert.Equal(t, "icon:Projects/plan.md", vm.Bookmarks[1].Icon.Icon)
	assert.False(t, vm.Bookmarks[2].Resolved)
	assert.Equal(t, 0, vm.BookmarkSelected)
}

func TestBookmarkErrorsLeaveGridEmpty(t *testing.T) {
	for name, err := range map[string]error{
		"disabled": vault.ErrPluginDisabled,
		"broken":   errors.New("invalid character"),
	} {
		t.Run(name, func(t *testing.T) {
			caps := Capabilities{GetBookmarks: func(context.Context) ([]vault.BookmarkItem, error) { return nil, err }}
			h := newHarness(t, caps, config.Default().Settings)
			h.c.OnMount(t.Context())
			h.c.Apply(h.next())
			vm := h.c.ViewModel()
			assert.Empty(t, vm.Bookmarks)
			assert.Equal(t, -1, vm.BookmarkSelected)
		})
	}
}

func TestBookmarkGridNavigation(t *testing.T) {
	var items []vault.BookmarkItem
	var paths []string
	for _, p := range []string{"a.md", "b.md", "c.md", "d.md", "e.md"} {
		items = append(items, vault.BookmarkItem{Type: vault.BookmarkFile, Path: p})
		paths = append(paths, p)
	}
	h := newHarness(t, bookmarkCaps(items, paths...), config.Settings{FocusSearchOnOpen: false})
	h.c.SetGridColumns(3)
	h.c.OnMount(t.Context())
	h.c.Apply(h.next())

	move := func(d Direction) int {
		h.c.Apply(NavigateAction{Direction: d})
		return h.c.ViewModel().BookmarkSelected
	}
	assert.Equal(t, 0, move(DirLeft))
	assert.Equal(t, 0, move(DirUp))
	assert.Equal(t, 1, move(DirRight))
	assert.Equal(t, 2, move(DirRight))
	assert.Equal(t, 2, move(DirRight), "no wrap past the row end")
	assert.Equal(t, 2, move(DirDown), "no cell below")
	assert.Equal(t, 1, move(DirLeft))
	assert.Equal(t, 4, move(DirDown))

	h.c.Apply(CommitAction{})
	assert.Equal(t, []string{"e.md"}, h.openedPaths())

	h.c.Apply(ToggleFocusAction{})
	assert.Equal(t, FocusSearch, h.c.ViewModel().Focus)
	h.c.Apply(ToggleFocusAction{})
	assert.Equal(t, FocusBookmarks, h.c.ViewModel().Focus)

	h.c.Apply(QueryCharAction{Char: 'a'})
	assert.Equal(t, FocusSearch, h.c.ViewModel().Focus, "typing moves focus to search")
}

func TestUnresolvedBookmarkDoesNotOpen(t *testing.T) {
	items := []vault.BookmarkItem{{Type: vault.BookmarkFile, Path: "gone.md"}}
	h := newHarness(t, bookmarkCaps(items), config.Default().Settings)
	h.c.OnMount(t.Context())
	h.c.Apply(h.next())

	h.c.Apply(SelectBookmarkAction{Index: 0, Open: true})
	assert.Empty(t, h.openedPaths())
}

func TestOpenDailyNote(t *testing.T) {
	var tried []string
	run := func(_ context.Context, ids ...string) (string, error) {
		tried = ids
		return "", commands.ErrCommandNotFound
	}
	h := newHarness(t, Capabilities{RunCommand: run}, config.Default().Settings)
	h.mount()

	h.c.Apply(OpenDailyNoteAction{})
	assert.Equal(t, DailyNoteCommandIDs, tried)
	assert.Empty(t, h.c.ViewModel().Status, "missing command is silent")

	failing := func(context.Context, ...string) (string, error) {
		return "daily-notes", errors.New("read-only vault")
	}
	h2 := newHarness(t, Capabilities{RunCommand: failing}, config.Default().Settings)
	h2.mount()
	h2.c.OpenDailyNote()
	assert.Contains(t, h2.c.ViewModel().Status, "read-only vault")
}

func TestUnmountDiscardsInFlightWork(t *testing.T) {
	release := make(chan struct{})
	listFiles := func(ctx context.Context) ([]vault.File, error) {
		<-release
		return mkFiles("todo.md"), ctx.Err()
	}
	h := newHarness(t, Capabilities{ListFiles: listFiles}, config.Default().Settings)
	h.mount()
	h.c.SetQuery("todo")
	h.c.OnUnmount()
	close(release)

	assert.False(t, h.c.Apply(h.next()))
	assert.False(t, h.c.Mounted())
	assert.Empty(t, h.c.ViewModel().Results)
}

func TestActivateRemountsOrRefocuses(t *testing.T) {
	h := newHarness(t, Capabilities{}, config.Settings{FocusSearchOnOpen: false})
	h.c.Activate(t.Context())
	h.c.Apply(h.next())
	require.True(t, h.c.Mounted())
	assert.Equal(t, FocusBookmarks, h.c.ViewModel().Focus)

	h.c.Activate(t.Context())
	assert.Equal(t, FocusSearch, h.c.ViewModel().Focus)
	select {
	case a := <-h.actions:
		t.Fatalf("refocus should not reload, got %T", a)
	default:
	}
}
