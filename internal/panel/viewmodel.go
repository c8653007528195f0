package panel

import (
	"strings"

	"github.com/kk-code-lab/newtab/internal/config"
)

// ViewModel is the render-ready snapshot of the panel.
type ViewModel struct {
	ViewType      string
	DisplayText   string
	RibbonGlyph   string
	RibbonTooltip string
	Greeting      string

	Query       string
	Cursor      int
	Placeholder string
	Focus       Focus
	Searching   bool

	Results  []Result
	Selected int

	// ShowBookmarks is true while the query is empty; the grid replaces the
	// result list.
	ShowBookmarks    bool
	Bookmarks        []BookmarkEntry
	BookmarkSelected int

	Settings config.Settings
	Status   string
}

func (c *Controller) ViewModel() ViewModel {
	vm := ViewModel{
		ViewType:         ViewType,
		DisplayText:      DisplayText,
		RibbonGlyph:      RibbonGlyph,
		RibbonTooltip:    RibbonTooltip,
		Greeting:         c.greeting,
		Query:            c.query.String(),
		Cursor:           c.query.cursor,
		Placeholder:      Placeholder,
		Focus:            c.focus,
		Searching:        c.searching,
		Results:          c.results.Items(),
		Selected:         c.results.Selected(),
		Bookmarks:        c.bookmarks,
		BookmarkSelected: -1,
		Settings:         c.settings,
		Status:           c.status,
	}
	vm.ShowBookmarks = strings.TrimSpace(vm.Query) == ""
	if len(c.bookmarks) > 0 {
		vm.BookmarkSelected = c.bookmarkSelected
	}
	return vm
}

