package icons

import (
	"unicode"
	"unicode/utf16"
)

//go:generate go run gen_emoji.go

// IsEmojiIcon reports whether icon should be drawn as literal text: it holds
// an emoji rune and is shorter than 5 UTF-16 code units. The length cut-off
// is a heuristic; long ZWJ sequences fail it and a bare digit passes.
func IsEmojiIcon(icon string) bool {
	hasEmoji := false
	units := 0
	for _, r := range icon {
		if unicode.Is(emojiTable, r) {
			hasEmoji = true
		}
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
	}
	return hasEmoji && units < 5
}
