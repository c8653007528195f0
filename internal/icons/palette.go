package icons

import "strings"

// Palette lists the named colours the override subsystem offers.
var Palette = []string{"red", "orange", "yellow", "green", "cyan", "blue", "purple", "pink", "gray"}

// ThemeVariable maps a named colour to its theme variable. Anything outside
// the palette is reported as not found and should be used verbatim.
func ThemeVariable(color string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(color))
	for _, c := range Palette {
		if c == name {
			return "color-" + c, true
		}
	}
	return "", false
}

// Presentation tells a renderer how to draw an IconInfo.
type Presentation struct {
	// Literal icons are emoji drawn as text and never coloured.
	Literal bool
	Text    string
	// ThemeColor is set for palette colours, RawColor for everything else.
	ThemeColor string
	RawColor   string
}

func Present(info IconInfo) Presentation {
	if IsEmojiIcon(info.Icon) {
		return Presentation{Literal: true, Text: info.Icon}
	}
	p := Presentation{Text: info.Icon}
	if info.Color == "" {
		return p
	}
	if v, ok := ThemeVariable(info.Color); ok {
		p.ThemeColor = v
	} else {
		p.RawColor = info.Color
	}
	return p
}
