package render

import "strings"

// invisibleRunes are bidi and zero-width controls that would let a file name
// reorder or hide text on screen.
var invisibleRunes = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

func needsSanitizing(r rune) bool {
	if _, ok := invisibleRunes[r]; ok {
		return true
	}
	return r < 0x20 || r == 0x7f
}

// sanitizeTerminalText keeps vault-controlled text from emitting terminal
// control sequences. Rune count is preserved for plain control characters
// so highlight offsets stay aligned; labelled runes are only expected in
// names that will not line up anyway.
func sanitizeTerminalText(text string) string {
	clean := true
	for _, r := range text {
		if needsSanitizing(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	for _, r := range text {
		switch {
		case invisibleRunes[r] != "":
			b.WriteString(invisibleRunes[r])
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
