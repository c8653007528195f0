package render

import (
	"strings"
	"testing"

	"github.com/kk-code-lab/newtab/internal/config"
	"github.com/kk-code-lab/newtab/internal/panel"
)

func TestComputeLayoutCentersContent(t *testing.T) {
	l := ComputeLayout(120, 30)
	if l.ContentWidth != maxContentWidth {
		t.Fatalf("expected content width capped at %d, got %d", maxContentWidth, l.ContentWidth)
	}
	if l.ContentX != 20 {
		t.Fatalf("expected content centred at x=20, got %d", l.ContentX)
	}
	if l.ResultRows != 10 {
		t.Fatalf("expected result rows capped at the search limit, got %d", l.ResultRows)
	}
	if l.FooterY != 29 {
		t.Fatalf("footer should use the last row, got %d", l.FooterY)
	}
}

func TestComputeLayoutShortScreenShrinksResults(t *testing.T) {
	l := ComputeLayout(60, 12)
	if l.ResultRows != 4 {
		t.Fatalf("expected 4 result rows between list start and footer, got %d", l.ResultRows)
	}

	tiny := ComputeLayout(3, 4)
	if tiny.ResultRows != 0 || tiny.ContentWidth < 1 {
		t.Fatalf("tiny screen layout invalid: %+v", tiny)
	}
}

func TestGridColumnsForWidth(t *testing.T) {
	cases := []struct {
		width int
		want  int
	}{
		{width: 20, want: 1},
		{width: 50, want: 2},
		{width: 100, want: 3},
		{width: 300, want: 3},
	}
	for _, tc := range cases {
		if got := GridColumnsForWidth(tc.width); got != tc.want {
			t.Fatalf("width %d: expected %d columns, got %d", tc.width, tc.want, got)
		}
	}
}

func TestResultAtMapsRows(t *testing.T) {
	l := ComputeLayout(100, 30)

	if idx, ok := l.ResultAt(l.ContentX+3, l.ListY+2, 5); !ok || idx != 2 {
		t.Fatalf("expected row 2, got %d ok=%v", idx, ok)
	}
	if _, ok := l.ResultAt(l.ContentX+3, l.ListY+5, 5); ok {
		t.Fatalf("click past the last result should miss")
	}
	if _, ok := l.ResultAt(l.ContentX-1, l.ListY, 5); ok {
		t.Fatalf("click left of the content should miss")
	}
}

func TestBookmarkAtMapsCells(t *testing.T) {
	l := ComputeLayout(100, 30)

	x, y := l.cellOrigin(4)
	if idx, ok := l.BookmarkAt(x+1, y, 5); !ok || idx != 4 {
		t.Fatalf("expected cell 4, got %d ok=%v", idx, ok)
	}
	if _, ok := l.BookmarkAt(x+1, y+1, 5); ok {
		t.Fatalf("spacer row between grid rows should miss")
	}
	x, y = l.cellOrigin(5)
	if _, ok := l.BookmarkAt(x, y, 5); ok {
		t.Fatalf("cell beyond the bookmark count should miss")
	}
}

func TestRibbonAndDailyNoteHitAreas(t *testing.T) {
	l := ComputeLayout(80, 20)
	if !l.RibbonAt(1, headerRow) || l.RibbonAt(5, headerRow) {
		t.Fatalf("ribbon hit area wrong")
	}
	if !l.DailyNoteAt(2, l.FooterY) || l.DailyNoteAt(2, l.FooterY-1) {
		t.Fatalf("daily note button hit area wrong")
	}
	if l.DailyNoteAt(l.DailyX1, l.FooterY) {
		t.Fatalf("daily note button should end at x=%d", l.DailyX1)
	}
}

func TestBuildFooterHelpSegmentsEmptyQuery(t *testing.T) {
	vm := panel.ViewModel{ShowBookmarks: true, Settings: config.Default()}
	got := buildFooterHelpSegments(vm)
	want := []string{"type: search", "Esc: quit", "^R: reopen on", "^F: focus search on", "F1: help"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected segments: %v", got)
	}
}

func TestBuildFooterHelpSegmentsBookmarkFocus(t *testing.T) {
	vm := panel.ViewModel{
		ShowBookmarks: true,
		Focus:         panel.FocusBookmarks,
		Bookmarks:     []panel.BookmarkEntry{{Path: "a.md"}},
		Settings:      config.Settings{ReplaceNewTabOnEmptyTab: false, FocusSearchOnOpen: true},
	}
	got := buildFooterHelpSegments(vm)
	if got[1] != "↵: open bookmark" {
		t.Fatalf("expected bookmark hints first, got %v", got)
	}
	if !strings.Contains(strings.Join(got, " "), "^R: reopen off") {
		t.Fatalf("toggle state not reflected: %v", got)
	}
}

func TestBuildFooterHelpSegmentsWithQuery(t *testing.T) {
	vm := panel.ViewModel{Query: "x", ShowBookmarks: false, Settings: config.Default()}
	got := buildFooterHelpSegments(vm)
	if got[0] != "↑↓: select" || got[2] != "Esc: clear" {
		t.Fatalf("expected result hints, got %v", got)
	}
}

func TestBuildFooterHelpTextPadding(t *testing.T) {
	text := buildFooterHelpText(panel.ViewModel{ShowBookmarks: true})
	if !strings.HasPrefix(text, " ") || !strings.HasSuffix(text, " ") {
		t.Fatalf("expected padded help text, got %q", text)
	}
}

func TestBuildHelpOverlayLinesReflectsSettings(t *testing.T) {
	vm := panel.ViewModel{Settings: config.Settings{ReplaceNewTabOnEmptyTab: true}}
	joined := strings.Join(buildHelpOverlayLines(vm), "\n")
	if !strings.Contains(joined, "Reopen the new tab after the editor closes") {
		t.Fatalf("replace toggle description missing")
	}
	if !strings.Contains(joined, "Start on the bookmark grid") {
		t.Fatalf("focus toggle description missing")
	}
	for _, section := range []string{"Search", "Bookmarks", "Actions", "Exit"} {
		if !strings.Contains(joined, section) {
			t.Fatalf("section %q missing", section)
		}
	}
}
