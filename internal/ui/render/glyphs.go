package render

import (
	"github.com/kk-code-lab/newtab/internal/icons"
)

// symbolGlyphs approximates common symbolic icon ids with single cells.
var symbolGlyphs = map[string]string{
	icons.IconGeneric:         "▯",
	icons.IconDocument:        "≣",
	icons.IconImage:           "▣",
	icons.IconCanvas:          "▦",
	"lucide-star":             "★",
	"lucide-heart":            "♥",
	"lucide-calendar":         "▤",
	"lucide-calendar-days":    "▤",
	"lucide-folder":           "▰",
	"lucide-book":             "▥",
	"lucide-book-open":        "▥",
	"lucide-bookmark":         "▼",
	"lucide-check":            "✓",
	"lucide-check-square":     "☑",
	"lucide-flag":             "⚑",
	"lucide-home":             "⌂",
	"lucide-house":            "⌂",
	"lucide-music":            "♪",
	"lucide-pencil":           "✎",
	"lucide-sun":              "☼",
	"lucide-moon":             "☾",
	"lucide-search":           "⌕",
	"lucide-circle":           "○",
	"lucide-square":           "□",
	"lucide-triangle":         "△",
	"lucide-file-spreadsheet": "▦",
	"lucide-file-code":        "‹›",
	"lucide-user":             "☺",
}

const unknownGlyph = "◆"

// iconText is what gets drawn for an icon: the emoji itself, or a stand-in
// glyph for a symbolic id.
func iconText(p icons.Presentation) string {
	if p.Literal {
		return p.Text
	}
	if g, ok := symbolGlyphs[p.Text]; ok {
		return g
	}
	return unknownGlyph
}
