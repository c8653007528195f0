package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/newtab/internal/search"
)

const (
	headerRow       = 0
	greetingRow     = 2
	searchRow       = 4
	listStartRow    = 7
	maxContentWidth = 80
	bookmarkCell    = 22
	maxGridColumns  = 5
	gridRowHeight   = 2

	dailyButton = " ◷ Today "
)

// Layout holds the screen geometry shared by drawing and mouse hit-testing.
type Layout struct {
	Width  int
	Height int

	ContentX     int
	ContentWidth int

	RibbonX1 int // ribbon glyph spans [0, RibbonX1) on the header row
	SearchY  int
	ListY    int

	ResultRows int

	GridY       int
	GridColumns int
	CellWidth   int
	GridRows    int

	FooterY int
	DailyX1 int // daily note button spans [0, DailyX1) on the footer row
}

func contentWidthFor(w int) int {
	cw := w - 4
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	if cw < 1 {
		cw = w
	}
	if cw < 1 {
		cw = 1
	}
	return cw
}

// GridColumnsForWidth returns how many bookmark cells fit on one grid row.
func GridColumnsForWidth(w int) int {
	cols := contentWidthFor(w) / bookmarkCell
	if cols < 1 {
		cols = 1
	}
	if cols > maxGridColumns {
		cols = maxGridColumns
	}
	return cols
}

func ComputeLayout(w, h int) Layout {
	l := Layout{Width: w, Height: h}
	l.ContentWidth = contentWidthFor(w)
	l.ContentX = (w - l.ContentWidth) / 2
	if l.ContentX < 0 {
		l.ContentX = 0
	}

	l.RibbonX1 = 3
	l.SearchY = searchRow
	l.ListY = listStartRow
	l.FooterY = h - 1
	l.DailyX1 = runewidth.StringWidth(dailyButton)

	rows := l.FooterY - l.ListY
	if rows < 0 {
		rows = 0
	}
	l.ResultRows = rows
	if l.ResultRows > search.DefaultLimit {
		l.ResultRows = search.DefaultLimit
	}

	l.GridY = l.ListY + 2
	l.GridColumns = GridColumnsForWidth(w)
	l.CellWidth = l.ContentWidth / l.GridColumns
	gridSpace := l.FooterY - l.GridY
	if gridSpace < 0 {
		gridSpace = 0
	}
	l.GridRows = (gridSpace + gridRowHeight - 1) / gridRowHeight
	return l
}

// ResultAt maps a click to a result row among count results.
func (l Layout) ResultAt(x, y, count int) (int, bool) {
	if x < l.ContentX || x >= l.ContentX+l.ContentWidth {
		return 0, false
	}
	row := y - l.ListY
	if row < 0 || row >= l.ResultRows || row >= count {
		return 0, false
	}
	return row, true
}

// BookmarkAt maps a click to a bookmark cell among count bookmarks.
func (l Layout) BookmarkAt(x, y, count int) (int, bool) {
	if x < l.ContentX || x >= l.ContentX+l.GridColumns*l.CellWidth || l.CellWidth <= 0 {
		return 0, false
	}
	dy := y - l.GridY
	if dy < 0 || dy%gridRowHeight != 0 {
		return 0, false
	}
	row := dy / gridRowHeight
	if row >= l.GridRows {
		return 0, false
	}
	idx := row*l.GridColumns + (x-l.ContentX)/l.CellWidth
	if idx >= count {
		return 0, false
	}
	return idx, true
}

func (l Layout) RibbonAt(x, y int) bool {
	return y == headerRow && x >= 0 && x < l.RibbonX1
}

func (l Layout) DailyNoteAt(x, y int) bool {
	return y == l.FooterY && x >= 0 && x < l.DailyX1
}

func (l Layout) cellOrigin(idx int) (int, int) {
	row := idx / l.GridColumns
	col := idx % l.GridColumns
	return l.ContentX + col*l.CellWidth, l.GridY + row*gridRowHeight
}
