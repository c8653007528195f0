package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/newtab/internal/icons"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	RibbonFg      tcell.Color
	GreetingFg    tcell.Color
	InputFg       tcell.Color
	PlaceholderFg tcell.Color
	FocusFg       tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	MatchFg       tcell.Color
	ParentFg      tcell.Color
	IconFg        tcell.Color
	BookmarkBg    tcell.Color
	MissingFg     tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	ButtonBg      tcell.Color
	ButtonFg      tcell.Color
	StatusFg      tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeaderBg:      tcell.ColorDefault,
		HeaderFg:      tcell.ColorDefault,
		RibbonFg:      tcell.Color33,
		GreetingFg:    tcell.Color252,
		InputFg:       tcell.ColorDefault,
		PlaceholderFg: tcell.ColorLightSlateGray,
		FocusFg:       tcell.Color33,
		SelectionBg:   tcell.Color33,
		SelectionFg:   tcell.ColorWhite,
		MatchFg:       tcell.Color214,
		ParentFg:      tcell.ColorLightSlateGray,
		IconFg:        tcell.Color44,
		BookmarkBg:    tcell.Color236,
		MissingFg:     tcell.Color244,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		ButtonBg:      tcell.Color238,
		ButtonFg:      tcell.ColorWhite,
		StatusFg:      tcell.ColorRed,
	}
}

// themeColors backs the named icon palette.
var themeColors = map[string]tcell.Color{
	"color-red":    tcell.ColorRed,
	"color-orange": tcell.ColorOrange,
	"color-yellow": tcell.ColorYellow,
	"color-green":  tcell.ColorGreen,
	"color-cyan":   tcell.ColorDarkCyan,
	"color-blue":   tcell.Color33,
	"color-purple": tcell.ColorPurple,
	"color-pink":   tcell.ColorHotPink,
	"color-gray":   tcell.ColorGray,
}

// iconColor resolves the colour an icon is drawn with. Literal emoji keep the
// terminal's own colours.
func (r *Renderer) iconColor(p icons.Presentation) tcell.Color {
	if p.Literal {
		return tcell.ColorDefault
	}
	if p.ThemeColor != "" {
		if c, ok := themeColors[p.ThemeColor]; ok {
			return c
		}
	}
	if p.RawColor != "" {
		if c := tcell.GetColor(strings.TrimSpace(p.RawColor)); c != tcell.ColorDefault {
			return c
		}
	}
	return r.theme.IconFg
}
