// Package panel implements the new tab launcher: query state, ranked
// results with selection, the bookmark grid and the daily note shortcut.
package panel

import "context"

const (
	ViewType      = "new-tab-search-view"
	DisplayText   = "New Tab"
	RibbonTooltip = "Open New Tab Search"
	RibbonGlyph   = "⌕"
	Placeholder   = "Change the world..."

	// OpenCommandID activates the panel.
	OpenCommandID   = "open-new-tab-page"
	OpenCommandName = "Open New Tab Page"
)

// DailyNoteCommandIDs are tried in order by the daily note shortcut.
var DailyNoteCommandIDs = []string{
	"daily-notes",
	"periodic-notes:open-daily-note",
	"journals:open-today",
}

// View is a panel that can be mounted into the host tab.
type View interface {
	ViewType() string
	DisplayText() string
	OnMount(ctx context.Context)
	OnUnmount()
}

var _ View = (*Controller)(nil)
