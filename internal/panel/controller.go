package panel

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"

	"github.com/kk-code-lab/newtab/internal/commands"
	"github.com/kk-code-lab/newtab/internal/config"
	"github.com/kk-code-lab/newtab/internal/search"
	"github.com/kk-code-lab/newtab/internal/vault"
)

// Focus is the widget receiving navigation keys.
type Focus int

const (
	FocusSearch Focus = iota
	FocusBookmarks
)

// Key is one of the keys the result list consumes.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyEnter
)

const enrichWorkers = 8

// Controller owns the panel state. All methods must be called from the
// event loop goroutine; background work reports back through dispatch.
type Controller struct {
	caps     Capabilities
	engine   *search.Engine
	dispatch func(Action)
	now      func() time.Time
	log      *logrus.Entry
	settings config.Settings

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mounted   bool
	greeting  string
	focus     Focus
	query     queryEditor
	results   ResultList
	searching bool
	queryGen  uint64

	bookmarks        []BookmarkEntry
	bookmarkSelected int
	bookmarkGen      uint64
	gridColumns      int

	status string
}

func NewController(caps Capabilities, settings config.Settings, dispatch func(Action)) *Controller {
	return &Controller{
		caps:        caps,
		engine:      search.NewEngine(),
		dispatch:    dispatch,
		now:         time.Now,
		log:         logrus.WithField("component", "panel"),
		settings:    settings,
		gridColumns: 1,
	}
}

func (c *Controller) ViewType() string    { return ViewType }
func (c *Controller) DisplayText() string { return DisplayText }

// OnMount resets the panel: greeting for the current hour, empty query,
// focus per settings and a fresh bookmark load.
func (c *Controller) OnMount(ctx context.Context) {
	if c.mounted {
		c.OnUnmount()
	}
	c.parent = ctx
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mounted = true
	c.greeting = Greeting(c.now())
	c.status = ""
	c.query = queryEditor{}
	c.queryGen++
	c.searching = false
	c.results.Replace(nil)
	c.bookmarks = nil
	c.bookmarkSelected = 0
	if c.settings.FocusSearchOnOpen {
		c.focus = FocusSearch
	} else {
		c.focus = FocusBookmarks
	}
	c.log.WithField("focus_search", c.settings.FocusSearchOnOpen).Debug("panel mounted")
	c.ReloadBookmarks()
}

// OnUnmount cancels background work. Anything still in flight is discarded
// when it arrives.
func (c *Controller) OnUnmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.queryGen++
	c.bookmarkGen++
	c.searching = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.log.Debug("panel unmounted")
}

func (c *Controller) Mounted() bool { return c.mounted }

func (c *Controller) Focus() Focus { return c.focus }

// Activate mounts the panel, or refocuses the search box if it is already
// showing.
func (c *Controller) Activate(ctx context.Context) {
	if c.mounted {
		c.focus = FocusSearch
		return
	}
	c.OnMount(ctx)
}

func (c *Controller) Settings() config.Settings { return c.settings }

func (c *Controller) SetSettings(s config.Settings) { c.settings = s }

// SetGridColumns tells the bookmark grid navigation how many cells fit on
// one row.
func (c *Controller) SetGridColumns(n int) {
	if n < 1 {
		n = 1
	}
	c.gridColumns = n
}

func (c *Controller) SetStatus(msg string) { c.status = msg }

func (c *Controller) Query() string { return c.query.String() }

// SetQuery replaces the query text and re-ranks.
func (c *Controller) SetQuery(q string) {
	c.query.set(q)
	c.requery()
}

// Refresh re-runs the current query against a fresh file snapshot.
func (c *Controller) Refresh() {
	if strings.TrimSpace(c.query.String()) == "" {
		return
	}
	c.requery()
}

// requery clears synchronously for an empty query. Otherwise it starts a
// search tagged with a new generation; only the newest generation is ever
// applied.
func (c *Controller) requery() {
	c.queryGen++
	query := c.query.String()
	if strings.TrimSpace(query) == "" || !c.mounted {
		c.searching = false
		c.results.Replace(nil)
		return
	}

	c.searching = true
	gen := c.queryGen
	ctx := c.ctx
	go c.runSearch(ctx, gen, query)
}

func (c *Controller) runSearch(ctx context.Context, gen uint64, query string) {
	var files []vault.File
	if c.caps.ListFiles != nil {
		var err error
		files, err = c.caps.ListFiles(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.log.WithError(err).Warn("cannot list files")
			}
			c.post(ResultsReadyAction{Gen: gen, Err: err})
			return
		}
	}

	candidates := make([]search.Candidate, len(files))
	for i, f := range files {
		candidates[i] = search.Candidate{Path: f.Path, Name: f.Basename}
	}
	matches := c.engine.Search(query, candidates, search.DefaultLimit)

	mapper := iter.Mapper[search.RankedMatch, Result]{MaxGoroutines: enrichWorkers}
	results := mapper.Map(matches, func(m *search.RankedMatch) Result {
		file := files[m.Index]
		return Result{Match: *m, File: file, Icon: c.caps.resolveIcon(ctx, file)}
	})

	c.post(ResultsReadyAction{Gen: gen, Results: results})
}

// ReloadBookmarks starts a bookmark load. Failures leave the grid empty.
func (c *Controller) ReloadBookmarks() {
	if !c.mounted {
		return
	}
	c.bookmarkGen++
	gen := c.bookmarkGen
	ctx := c.ctx
	go c.loadBookmarks(ctx, gen)
}

func (c *Controller) loadBookmarks(ctx context.Context, gen uint64) {
	if c.caps.GetBookmarks == nil {
		c.post(BookmarksReadyAction{Gen: gen})
		return
	}
	items, err := c.caps.GetBookmarks(ctx)
	if err != nil {
		entry := c.log.WithError(err)
		if errors.Is(err, vault.ErrPluginDisabled) {
			entry.Debug("bookmarks unavailable")
		} else {
			entry.Warn("cannot load bookmarks")
		}
		c.post(BookmarksReadyAction{Gen: gen})
		return
	}

	flat := FlattenBookmarks(items, MaxBookmarks)
	mapper := iter.Mapper[BookmarkEntry, BookmarkEntry]{MaxGoroutines: enrichWorkers}
	entries := mapper.Map(flat, func(b *BookmarkEntry) BookmarkEntry {
		entry := *b
		if c.caps.ResolvePath != nil {
			entry.File, entry.Resolved = c.caps.ResolvePath(entry.Path)
		}
		file := entry.File
		if !entry.Resolved {
			file = vault.File{Path: entry.Path, Extension: extensionOf(entry.Path)}
		}
		entry.Icon = c.caps.resolveIcon(ctx, file)
		return entry
	})

	c.post(BookmarksReadyAction{Gen: gen, Entries: entries})
}

func (c *Controller) post(action Action) {
	if c.dispatch != nil {
		c.dispatch(action)
	}
}

// HandleKey runs the result list keyboard contract and reports whether the
// key was consumed.
func (c *Controller) HandleKey(k Key) bool {
	switch k {
	case KeyUp:
		c.results.Move(DirUp)
	case KeyDown:
		c.results.Move(DirDown)
	case KeyEnter:
		if res, ok := c.results.Commit(); ok {
			c.open(res.File)
		}
	default:
		return false
	}
	return true
}

func (c *Controller) open(file vault.File) {
	if c.caps.OpenFile == nil {
		return
	}
	if err := c.caps.OpenFile(file); err != nil {
		c.log.WithError(err).WithField("path", file.Path).Warn("cannot open file")
		c.status = err.Error()
	}
}

// OpenDailyNote runs the first registered daily note command.
func (c *Controller) OpenDailyNote() {
	if c.caps.RunCommand == nil {
		c.log.Warn("no command dispatcher for daily note")
		return
	}
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	id, err := c.caps.RunCommand(ctx, DailyNoteCommandIDs...)
	switch {
	case errors.Is(err, commands.ErrCommandNotFound):
		c.log.WithField("tried", DailyNoteCommandIDs).Warn("no daily note command available")
	case err != nil:
		c.log.WithError(err).WithField("command", id).Warn("daily note command failed")
		c.status = err.Error()
	}
}

// Apply reduces one action into the panel state. It reports whether the
// view needs to be redrawn.
func (c *Controller) Apply(action Action) bool {
	switch a := action.(type) {
	case ResultsReadyAction:
		if a.Gen != c.queryGen {
			c.log.WithFields(logrus.Fields{"gen": a.Gen, "current": c.queryGen}).Trace("discarding stale results")
			return false
		}
		c.searching = false
		c.results.Replace(a.Results)
		return true

	case BookmarksReadyAction:
		if a.Gen != c.bookmarkGen {
			return false
		}
		c.bookmarks = a.Entries
		c.clampBookmarkSelection()
		return true

	case QueryCharAction:
		c.focus = FocusSearch
		c.query.insert(a.Char)
		c.requery()
		return true

	case QueryBackspaceAction:
		if c.query.backspace() {
			c.requery()
		}
		return true

	case QueryDeleteAction:
		if c.query.deleteForward() {
			c.requery()
		}
		return true

	case QueryDeleteWordAction:
		if c.query.deleteWord() {
			c.requery()
		}
		return true

	case QueryMoveCursorAction:
		c.query.move(a.Direction)
		return true

	case QueryResetAction:
		if c.query.String() == "" {
			return false
		}
		c.SetQuery("")
		return true

	case NavigateAction:
		if c.focus == FocusBookmarks && c.showBookmarks() {
			c.moveBookmark(a.Direction)
			return true
		}
		switch a.Direction {
		case DirUp:
			c.HandleKey(KeyUp)
		case DirDown:
			c.HandleKey(KeyDown)
		}
		return true

	case CommitAction:
		if c.focus == FocusBookmarks && c.showBookmarks() {
			c.openBookmark(c.bookmarkSelected)
			return true
		}
		c.HandleKey(KeyEnter)
		return true

	case ToggleFocusAction:
		if c.focus == FocusSearch {
			c.focus = FocusBookmarks
		} else {
			c.focus = FocusSearch
		}
		return true

	case SelectResultAction:
		if a.Index < 0 || a.Index >= c.results.Len() {
			return false
		}
		alreadySelected := c.results.Selected() == a.Index
		c.focus = FocusSearch
		c.results.Select(a.Index)
		if a.Open || alreadySelected {
			c.HandleKey(KeyEnter)
		}
		return true

	case SelectBookmarkAction:
		if a.Index < 0 || a.Index >= len(c.bookmarks) {
			return false
		}
		c.focus = FocusBookmarks
		c.bookmarkSelected = a.Index
		if a.Open {
			c.openBookmark(a.Index)
		}
		return true

	case ActivateAction:
		parent := c.parent
		if parent == nil {
			parent = context.Background()
		}
		c.Activate(parent)
		return true

	case RefreshAction:
		c.Refresh()
		return true

	case ReloadBookmarksAction:
		c.ReloadBookmarks()
		return true

	case OpenDailyNoteAction:
		c.OpenDailyNote()
		return true
	}
	return false
}

func (c *Controller) showBookmarks() bool {
	return strings.TrimSpace(c.query.String()) == "" && len(c.bookmarks) > 0
}

func (c *Controller) clampBookmarkSelection() {
	if c.bookmarkSelected >= len(c.bookmarks) {
		c.bookmarkSelected = len(c.bookmarks) - 1
	}
	if c.bookmarkSelected < 0 {
		c.bookmarkSelected = 0
	}
}

// moveBookmark walks the grid. Moves that would leave the grid are ignored.
func (c *Controller) moveBookmark(dir Direction) {
	next := c.bookmarkSelected
	switch dir {
	case DirLeft:
		if next%c.gridColumns > 0 {
			next--
		}
	case DirRight:
		if next%c.gridColumns < c.gridColumns-1 {
			next++
		}
	case DirUp:
		next -= c.gridColumns
	case DirDown:
		next += c.gridColumns
	}
	if next < 0 || next >= len(c.bookmarks) {
		return
	}
	c.bookmarkSelected = next
}

func (c *Controller) openBookmark(idx int) {
	if idx < 0 || idx >= len(c.bookmarks) {
		return
	}
	b := c.bookmarks[idx]
	if !b.Resolved {
		c.log.WithField("path", b.Path).Debug("bookmark does not resolve to a file")
		return
	}
	c.open(b.File)
}

func extensionOf(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && i > strings.LastIndexByte(p, '/') {
		return strings.ToLower(p[i+1:])
	}
	return ""
}
