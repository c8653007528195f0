package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/newtab/internal/icons"
	"github.com/kk-code-lab/newtab/internal/panel"
)

// Options carries what the renderer needs beyond the panel view-model.
type Options struct {
	VaultName string
	ShowHelp  bool
}

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the whole panel.
func (r *Renderer) Render(vm panel.ViewModel, opts Options) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if opts.ShowHelp {
		r.screen.HideCursor()
		r.drawHelpOverlay(vm, w, h)
		r.screen.Show()
		return
	}

	layout := ComputeLayout(w, h)
	r.drawHeader(vm, opts, layout)
	r.drawGreeting(vm, layout)
	r.drawSearchBox(vm, layout)
	if vm.ShowBookmarks {
		r.drawBookmarks(vm, layout)
	} else {
		r.drawResults(vm, layout)
	}
	r.drawFooter(vm, layout)

	r.screen.Show()
}

// drawHeader renders the ribbon glyph, the view title and the vault name.
func (r *Renderer) drawHeader(vm panel.ViewModel, opts Options, l Layout) {
	w := l.Width
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	ribbonStyle := headerStyle.Foreground(r.theme.RibbonFg).Bold(true)

	x := r.drawStyledStringClipped(0, headerRow, w, " "+vm.RibbonGlyph+" ", ribbonStyle)
	x = r.drawTextLine(x, headerRow, w-x, vm.DisplayText, headerStyle.Bold(true))

	if opts.VaultName != "" {
		name := r.truncateTextToWidth(sanitizeTerminalText(opts.VaultName), w/2)
		nameX := w - r.measureTextWidth(name) - 1
		if nameX > x+1 {
			for ; x < nameX; x++ {
				r.screen.SetContent(x, headerRow, ' ', nil, headerStyle)
			}
			x = r.drawTextLine(nameX, headerRow, w-nameX, name, headerStyle.Foreground(r.theme.ParentFg))
		}
	}

	for ; x < w; x++ {
		r.screen.SetContent(x, headerRow, ' ', nil, headerStyle)
	}
}

func (r *Renderer) drawGreeting(vm panel.ViewModel, l Layout) {
	if vm.Greeting == "" || l.Height <= greetingRow {
		return
	}
	text := r.truncateTextToWidth(vm.Greeting, l.Width)
	x := (l.Width - r.measureTextWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	style := tcell.StyleDefault.Foreground(r.theme.GreetingFg).Bold(true)
	r.drawTextLine(x, greetingRow, l.Width-x, text, style)
}

func (r *Renderer) drawSearchBox(vm panel.ViewModel, l Layout) {
	if l.Height <= l.SearchY+1 {
		r.screen.HideCursor()
		return
	}
	focused := vm.Focus == panel.FocusSearch
	promptStyle := tcell.StyleDefault.Foreground(r.theme.ParentFg)
	ruleStyle := tcell.StyleDefault.Foreground(r.theme.ParentFg)
	if focused {
		promptStyle = promptStyle.Foreground(r.theme.FocusFg).Bold(true)
		ruleStyle = ruleStyle.Foreground(r.theme.FocusFg)
	}

	maxX := l.ContentX + l.ContentWidth
	x := r.drawStyledStringClipped(l.ContentX, l.SearchY, maxX, "› ", promptStyle)
	textStart := x

	if vm.Query == "" {
		placeholder := r.truncateTextToWidth(vm.Placeholder, maxX-x)
		r.drawTextLine(x, l.SearchY, maxX-x, placeholder, tcell.StyleDefault.Foreground(r.theme.PlaceholderFg).Italic(true))
	} else {
		query := sanitizeTerminalText(vm.Query)
		r.drawTextLine(x, l.SearchY, maxX-x, query, tcell.StyleDefault.Foreground(r.theme.InputFg))
	}

	for rx := l.ContentX; rx < maxX; rx++ {
		r.screen.SetContent(rx, l.SearchY+1, '─', nil, ruleStyle)
	}

	if !focused {
		r.screen.HideCursor()
		return
	}
	runes := []rune(vm.Query)
	cursor := vm.Cursor
	if cursor > len(runes) {
		cursor = len(runes)
	}
	if cursor < 0 {
		cursor = 0
	}
	cx := textStart + r.measureTextWidth(sanitizeTerminalText(string(runes[:cursor])))
	if cx >= maxX {
		cx = maxX - 1
	}
	r.screen.ShowCursor(cx, l.SearchY)
}

func (r *Renderer) drawResults(vm panel.ViewModel, l Layout) {
	maxX := l.ContentX + l.ContentWidth
	dim := tcell.StyleDefault.Foreground(r.theme.PlaceholderFg)

	if len(vm.Results) == 0 {
		if l.ResultRows == 0 {
			return
		}
		msg := "No matching files"
		if vm.Searching {
			msg = "Searching…"
		}
		r.drawTextLine(l.ContentX+2, l.ListY, maxX-l.ContentX-2, msg, dim)
		return
	}

	for i, res := range vm.Results {
		if i >= l.ResultRows {
			break
		}
		y := l.ListY + i
		selected := i == vm.Selected

		rowStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
		if selected {
			rowStyle = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}
		for x := l.ContentX; x < maxX; x++ {
			r.screen.SetContent(x, y, ' ', nil, rowStyle)
		}

		marker := ' '
		if selected {
			marker = '▶'
		}
		x := r.drawStyledRune(l.ContentX, y, maxX, marker, rowStyle.Bold(selected))
		x = r.drawStyledRune(x, y, maxX, ' ', rowStyle)
		x = r.drawIcon(x, y, maxX, res.Icon, rowStyle, selected)

		title, titleHits, parent, parentHits := res.Highlights()
		matchStyle := rowStyle.Foreground(r.theme.MatchFg).Bold(true)
		if selected {
			matchStyle = rowStyle.Bold(true).Underline(true)
		}
		x, _ = r.drawHighlightedText(x, y, maxX, sanitizeTerminalText(title), highlightSpansFromHits(titleHits), 0, rowStyle, matchStyle)

		if parent != "" && x+2 < maxX {
			x = r.drawStyledStringClipped(x, y, maxX, "  ", rowStyle)
			parentStyle := rowStyle.Foreground(r.theme.ParentFg)
			if selected {
				parentStyle = rowStyle
			}
			parentText := r.truncateTextToWidth(sanitizeTerminalText(parent), maxX-x)
			r.drawHighlightedText(x, y, maxX, parentText, highlightSpansFromHits(parentHits), 0, parentStyle, matchStyle)
		}
	}
}

// drawIcon draws an icon in a two-cell slot followed by a space.
func (r *Renderer) drawIcon(x, y, maxX int, info icons.IconInfo, rowStyle tcell.Style, selected bool) int {
	p := icons.Present(info)
	text := iconText(p)
	style := rowStyle
	if !selected && !p.Literal {
		style = style.Foreground(r.iconColor(p))
	}
	start := x
	x = r.drawStyledStringClipped(x, y, maxX, text, style)
	for x < start+2 && x < maxX {
		x = r.drawStyledRune(x, y, maxX, ' ', rowStyle)
	}
	return r.drawStyledRune(x, y, maxX, ' ', rowStyle)
}

func (r *Renderer) drawBookmarks(vm panel.ViewModel, l Layout) {
	if len(vm.Bookmarks) == 0 || l.ListY >= l.FooterY {
		return
	}
	titleStyle := tcell.StyleDefault.Foreground(r.theme.ParentFg).Bold(true)
	r.drawTextLine(l.ContentX, l.ListY, l.ContentWidth, "Bookmarks", titleStyle)

	focused := vm.Focus == panel.FocusBookmarks
	for i, b := range vm.Bookmarks {
		cx, cy := l.cellOrigin(i)
		if cy >= l.FooterY {
			break
		}
		cellEnd := cx + l.CellWidth - 1
		if cellEnd <= cx {
			cellEnd = cx + 1
		}

		style := tcell.StyleDefault.Background(r.theme.BookmarkBg).Foreground(r.theme.Foreground)
		if focused && i == vm.BookmarkSelected {
			style = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}
		if !b.Resolved {
			style = style.Foreground(r.theme.MissingFg).StrikeThrough(true)
		}
		for x := cx; x < cellEnd; x++ {
			r.screen.SetContent(x, cy, ' ', nil, style)
		}

		x := r.drawStyledRune(cx, cy, cellEnd, ' ', style)
		x = r.drawIcon(x, cy, cellEnd, b.Icon, style, focused && i == vm.BookmarkSelected)
		title := r.truncateTextToWidth(sanitizeTerminalText(b.DisplayTitle()), cellEnd-x)
		r.drawTextLine(x, cy, cellEnd-x, title, style)
	}
}

func (r *Renderer) drawFooter(vm panel.ViewModel, l Layout) {
	if l.FooterY <= l.SearchY {
		return
	}
	w := l.Width
	y := l.FooterY
	footerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	buttonStyle := tcell.StyleDefault.Background(r.theme.ButtonBg).Foreground(r.theme.ButtonFg)

	x := r.drawStyledStringClipped(0, y, w, dailyButton, buttonStyle)

	if vm.Status != "" {
		status := r.truncateTextToWidth(" "+sanitizeTerminalText(vm.Status), w-x)
		x = r.drawTextLine(x, y, w-x, status, footerStyle.Foreground(r.theme.StatusFg))
	} else {
		help := r.truncateTextToWidth(buildFooterHelpText(vm), w-x)
		x = r.drawTextLine(x, y, w-x, help, footerStyle.Foreground(r.theme.ParentFg))
	}

	for ; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, footerStyle)
	}
}
