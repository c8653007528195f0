package panel

import "unicode"

// queryEditor is the search box: text plus a rune cursor.
type queryEditor struct {
	runes  []rune
	cursor int
}

func (q *queryEditor) String() string { return string(q.runes) }

func (q *queryEditor) set(s string) {
	q.runes = []rune(s)
	q.cursor = len(q.runes)
}

func (q *queryEditor) clampCursor() {
	if q.cursor < 0 {
		q.cursor = 0
	}
	if q.cursor > len(q.runes) {
		q.cursor = len(q.runes)
	}
}

func (q *queryEditor) insert(r rune) {
	q.clampCursor()
	buffer := make([]rune, 0, len(q.runes)+1)
	buffer = append(buffer, q.runes[:q.cursor]...)
	buffer = append(buffer, r)
	buffer = append(buffer, q.runes[q.cursor:]...)
	q.runes = buffer
	q.cursor++
}

func (q *queryEditor) backspace() bool {
	q.clampCursor()
	if q.cursor == 0 {
		return false
	}
	q.runes = append(q.runes[:q.cursor-1:q.cursor-1], q.runes[q.cursor:]...)
	q.cursor--
	return true
}

func (q *queryEditor) deleteForward() bool {
	q.clampCursor()
	if q.cursor >= len(q.runes) {
		return false
	}
	q.runes = append(q.runes[:q.cursor:q.cursor], q.runes[q.cursor+1:]...)
	return true
}

func (q *queryEditor) deleteWord() bool {
	q.clampCursor()
	if q.cursor == 0 {
		return false
	}
	start := previousWordBoundary(q.runes, q.cursor)
	q.runes = append(q.runes[:start:start], q.runes[q.cursor:]...)
	q.cursor = start
	return true
}

func (q *queryEditor) move(direction string) {
	switch direction {
	case "left":
		if q.cursor > 0 {
			q.cursor--
		}
	case "right":
		if q.cursor < len(q.runes) {
			q.cursor++
		}
	case "word-left":
		q.cursor = previousWordBoundary(q.runes, q.cursor)
	case "word-right":
		q.cursor = nextWordBoundary(q.runes, q.cursor)
	case "home":
		q.cursor = 0
	case "end":
		q.cursor = len(q.runes)
	}
}

func isSearchWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func previousWordBoundary(runes []rune, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	i := pos - 1
	for i >= 0 && !isSearchWordChar(runes[i]) {
		i--
	}
	for i >= 0 && isSearchWordChar(runes[i]) {
		i--
	}
	return i + 1
}

func nextWordBoundary(runes []rune, pos int) int {
	if pos >= len(runes) {
		return len(runes)
	}
	if pos < 0 {
		pos = 0
	}

	i := pos
	for i < len(runes) && !isSearchWordChar(runes[i]) {
		i++
	}
	for i < len(runes) && isSearchWordChar(runes[i]) {
		i++
	}
	return i
}
