package panel

import (
	"path"
	"strings"

	"github.com/kk-code-lab/newtab/internal/icons"
	"github.com/kk-code-lab/newtab/internal/vault"
)

// MaxBookmarks caps the bookmark grid.
const MaxBookmarks = 10

// BookmarkEntry is a file bookmark flattened out of the bookmark tree.
// Resolved is false when the path no longer names a file; such entries are
// shown but cannot be opened.
type BookmarkEntry struct {
	Kind     string
	Path     string
	Title    string
	File     vault.File
	Resolved bool
	Icon     icons.IconInfo
}

// DisplayTitle is the bookmark title, else the file name without extension,
// else "Untitled".
func (b BookmarkEntry) DisplayTitle() string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if b.Path != "" {
		name := path.Base(b.Path)
		if base := strings.TrimSuffix(name, path.Ext(name)); base != "" {
			return base
		}
		return name
	}
	return "Untitled"
}

// FlattenBookmarks keeps file leaves in tree order, descending into groups
// and dropping folders, urls and searches, and stops after limit entries.
func FlattenBookmarks(items []vault.BookmarkItem, limit int) []BookmarkEntry {
	if limit <= 0 {
		limit = MaxBookmarks
	}
	var out []BookmarkEntry
	var walk func(items []vault.BookmarkItem) bool
	walk = func(items []vault.BookmarkItem) bool {
		for _, item := range items {
			switch item.Type {
			case vault.BookmarkFile:
				out = append(out, BookmarkEntry{Kind: item.Type, Path: item.Path, Title: item.Title})
				if len(out) >= limit {
					return false
				}
			case vault.BookmarkGroup:
				if !walk(item.Items) {
					return false
				}
			}
		}
		return true
	}
	walk(items)
	return out
}
