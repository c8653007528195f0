package panel

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kk-code-lab/newtab/internal/vault"
)

func TestFlattenBookmarks(t *testing.T) {
	tree := []vault.BookmarkItem{
		{Type: vault.BookmarkFile, Path: "a"},
		{Type: vault.BookmarkGroup, Items: []vault.BookmarkItem{
			{Type: vault.BookmarkFile, Path: "b"},
			{Type: vault.BookmarkFolder, Path: "dir"},
		}},
		{Type: vault.BookmarkURL, URL: "https://example.com"},
	}

	got := FlattenBookmarks(tree, MaxBookmarks)
	var paths []string
	for _, b := range got {
		paths = append(paths, b.Path)
	}
	assert.Equal(t, []string{"a", "b"}, paths)
}

func TestFlattenBookmarksCaps(t *testing.T) {
	var nested []vault.BookmarkItem
	for i := range 8 {
		nested = append(nested, vault.BookmarkItem{Type: vault.BookmarkFile, Path: fmt.Sprintf("g%d.md", i)})
	}
	tree := []vault.BookmarkItem{
		{Type: vault.BookmarkFile, Path: "first.md"},
		{Type: vault.BookmarkGroup, Items: nested},
		{Type: vault.BookmarkFile, Path: "x.md"},
		{Type: vault.BookmarkFile, Path: "y.md"},
	}

	got := FlattenBookmarks(tree, MaxBookmarks)
	assert.Len(t, got, MaxBookmarks)
	assert.Equal(t, "first.md", got[0].Path)
	assert.Equal(t, "x.md", got[9].Path)
}

func TestBookmarkDisplayTitle(t *testing.T) {
	assert.Equal(t, "Inbox", BookmarkEntry{Title: "Inbox", Path: "a/b.md"}.DisplayTitle())
	assert.Equal(t, "b", BookmarkEntry{Path: "a/b.md"}.DisplayTitle())
	assert.Equal(t, "Untitled", BookmarkEntry{}.DisplayTitle())
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 1, 1, h, 30, 0, 0, time.UTC) }
	assert.Equal(t, "Good morning", Greeting(at(0)))
	assert.Equal(t, "Good morning", Greeting(at(11)))
	assert.Equal(t, "Good afternoon", Greeting(at(12)))
	assert.Equal(t, "Good afternoon", Greeting(at(17)))
	assert.Equal(t, "Good evening", Greeting(at(18)))
	assert.Equal(t, "Good evening", Greeting(at(23)))
}
