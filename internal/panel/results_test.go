package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kk-code-lab/newtab/internal/search"
)

func resultsFor(paths ...string) []Result {
	out := make([]Result, len(paths))
	for i, p := range paths {
		out[i] = Result{Match: search.RankedMatch{Candidate: search.Candidate{Path: p}, Index: i}, File: mkFile(p)}
	}
	return out
}

func TestResultListSelectionResetsOnReplace(t *testing.T) {
	var l ResultList
	assert.Equal(t, -1, l.Selected())

	items := resultsFor("a.md", "b.md", "c.md")
	l.Replace(items)
	assert.Equal(t, 0, l.Selected())

	l.Move(DirDown)
	l.Move(DirDown)
	assert.Equal(t, 2, l.Selected())

	l.Replace(items)
	assert.Equal(t, 0, l.Selected(), "identical list still resets selection")

	l.Replace(nil)
	assert.Equal(t, -1, l.Selected())
}

func TestResultListMoveClamps(t *testing.T) {
	var l ResultList
	l.Replace(resultsFor("a.md", "b.md", "c.md"))

	for range 10 {
		l.Move(DirDown)
		assert.LessOrEqual(t, l.Selected(), 2)
	}
	assert.Equal(t, 2, l.Selected())

	for range 10 {
		l.Move(DirUp)
		assert.GreaterOrEqual(t, l.Selected(), 0)
	}
	assert.Equal(t, 0, l.Selected())

	assert.False(t, l.Move(DirLeft))
}

func TestResultListEmptyIsNoOp(t *testing.T) {
	var l ResultList
	assert.False(t, l.Move(DirDown))
	assert.False(t, l.Select(3))
	_, ok := l.Commit()
	assert.False(t, ok)
	assert.Equal(t, -1, l.Selected())
}

func TestResultListCommitReturnsSelected(t *testing.T) {
	var l ResultList
	l.Replace(resultsFor("a.md", "b.md"))
	l.Move(DirDown)

	res, ok := l.Commit()
	assert.True(t, ok)
	assert.Equal(t, "b.md", res.File.Path)
	assert.Equal(t, 1, l.Selected(), "commit does not mutate")
}

func TestResultHighlights(t *testing.T) {
	r := Result{Match: search.RankedMatch{
		Candidate: search.Candidate{Path: "Daily/2024-01-01.md"},
		Positions: []int{0, 1, 5, 6, 7, 16, 17},
	}}
	title, titleHits, parent, parentHits := r.Highlights()
	assert.Equal(t, "2024-01-01", title)
	assert.Equal(t, []int{0, 1}, titleHits)
	assert.Equal(t, "Daily", parent)
	assert.Equal(t, []int{0, 1}, parentHits)

	root := Result{Match: search.RankedMatch{Candidate: search.Candidate{Path: "todo.md"}, Positions: []int{0, 1}}}
	title, titleHits, parent, parentHits = root.Highlights()
	assert.Equal(t, "todo", title)
	assert.Equal(t, []int{0, 1}, titleHits)
	assert.Empty(t, parent)
	assert.Empty(t, parentHits)
}
