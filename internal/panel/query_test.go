package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryEditor(t *testing.T) {
	var q queryEditor
	for _, r := range "hello world" {
		q.insert(r)
	}
	assert.Equal(t, "hello world", q.String())

	assert.True(t, q.deleteWord())
	assert.Equal(t, "hello ", q.String())

	q.move("home")
	assert.False(t, q.backspace())
	q.insert('>')
	assert.Equal(t, ">hello ", q.String())
	assert.Equal(t, 1, q.cursor)

	assert.True(t, q.deleteForward())
	assert.Equal(t, ">ello ", q.String())

	q.move("word-right")
	assert.Equal(t, 5, q.cursor)
	q.move("end")
	assert.False(t, q.deleteForward())
	assert.True(t, q.backspace())
	assert.Equal(t, ">ello", q.String())
}

func TestWordBoundaries(t *testing.T) {
	runes := []rune("foo bar_baz/qux")
	assert.Equal(t, 12, previousWordBoundary(runes, len(runes)))
	assert.Equal(t, 4, previousWordBoundary(runes, 11))
	assert.Equal(t, 3, nextWordBoundary(runes, 0))
	assert.Equal(t, 11, nextWordBoundary(runes, 3))
}
