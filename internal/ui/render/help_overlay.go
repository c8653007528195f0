package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/newtab/internal/panel"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(vm panel.ViewModel) []string {
	replaceDesc := "Quit after the editor closes"
	if vm.Settings.ReplaceNewTabOnEmptyTab {
		replaceDesc = "Reopen the new tab after the editor closes"
	}
	focusDesc := "Start on the bookmark grid"
	if vm.Settings.FocusSearchOnOpen {
		focusDesc = "Start in the search box"
	}

	sections := []helpOverlaySection{
		{
			title: "Search",
			entries: []helpOverlayEntry{
				{keys: "type", desc: "Fuzzy search the vault"},
				{keys: "↑/↓", desc: "Move selection"},
				{keys: "↵", desc: "Open selection in the editor"},
				{keys: "Esc", desc: "Clear query, quit when empty"},
				{keys: "Ctrl+W", desc: "Delete word"},
			},
		},
		{
			title: "Bookmarks",
			entries: []helpOverlayEntry{
				{keys: "Tab", desc: "Switch between search and bookmarks"},
				{keys: "←↑↓→", desc: "Move in the grid"},
				{keys: "↵", desc: "Open bookmark"},
			},
		},
		{
			title: "Actions",
			entries: []helpOverlayEntry{
				{keys: "Ctrl+D", desc: "Open today's daily note"},
				{keys: "Ctrl+T", desc: vm.RibbonTooltip},
				{keys: "Ctrl+R", desc: replaceDesc},
				{keys: "Ctrl+F", desc: focusDesc},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "F1", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	return fmt.Sprintf("  %-14s %s", entry.keys, entry.desc)
}

func (r *Renderer) drawHelpOverlay(vm panel.ViewModel, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, baseStyle)
		}
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(vm)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	footer := "F1/Esc close"
	if h > 0 {
		r.drawTextLine(0, h-1, w, r.truncateTextToWidth(footer, w), headerStyle)
	}
}
