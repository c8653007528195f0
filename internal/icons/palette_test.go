package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmojiIcon(t *testing.T) {
	cases := []struct {
		icon string
		want bool
	}{
		{"🔥", true},
		{"⭐", true},
		{"❤️", true},
		{"👍🏽", true},
		{"👨‍👩‍👧", false}, // ZWJ family is too long for the heuristic
		{"lucide-file", false},
		{"", false},
		{"ab", false},
		{"7", true},
		{"☀", true},
		{"☺", true},
		{"☐", false}, // ballot box, no Emoji property
		{"✁", false}, // upper blade scissors
		{"★", false}, // black star; ⭐ is the emoji
		{"☑", true},
	}
	for _, tt := range cases {
		assert.Equalf(t, tt.want, IsEmojiIcon(tt.icon), "IsEmojiIcon(%q)", tt.icon)
	}
}

func TestThemeVariable(t *testing.T) {
	for _, name := range Palette {
		v, ok := ThemeVariable(name)
		assert.True(t, ok, name)
		assert.Equal(t, "color-"+name, v)
	}

	v, ok := ThemeVariable("Red")
	assert.True(t, ok)
	assert.Equal(t, "color-red", v)

	_, ok = ThemeVariable("#ff8800")
	assert.False(t, ok)
}

func TestPresent(t *testing.T) {
	assert.Equal(t, Presentation{Literal: true, Text: "🔥"}, Present(IconInfo{Icon: "🔥", Color: "red"}))
	assert.Equal(t, Presentation{Text: "lucide-star", ThemeColor: "color-red"}, Present(IconInfo{Icon: "lucide-star", Color: "red"}))
	assert.Equal(t, Presentation{Text: "lucide-star", RawColor: "#ff8800"}, Present(IconInfo{Icon: "lucide-star", Color: "#ff8800"}))
	assert.Equal(t, Presentation{Text: "lucide-file"}, Present(IconInfo{Icon: "lucide-file"}))
	// Symbols outside the Emoji property are coloured like symbolic icons.
	assert.Equal(t, Presentation{Text: "★", ThemeColor: "color-blue"}, Present(IconInfo{Icon: "★", Color: "blue"}))
}
