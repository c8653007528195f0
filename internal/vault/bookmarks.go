package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Bookmark item types.
const (
	BookmarkFile   = "file"
	BookmarkFolder = "folder"
	BookmarkGroup  = "group"
	BookmarkURL    = "url"
	BookmarkSearch = "search"
)

// BookmarkItem is one node of the bookmark tree. Groups carry Items.
type BookmarkItem struct {
	Type  string         `json:"type"`
	Path  string         `json:"path,omitempty"`
	Title string         `json:"title,omitempty"`
	URL   string         `json:"url,omitempty"`
	Query string         `json:"query,omitempty"`
	Items []BookmarkItem `json:"items,omitempty"`
}

// Bookmarks returns the bookmark tree. It fails with ErrPluginDisabled while
// the bookmarks core plugin is off; a vault without bookmarks.json has an
// empty tree.
func (v *Vault) Bookmarks(ctx context.Context) ([]BookmarkItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !v.CorePluginEnabled("bookmarks") {
		return nil, fmt.Errorf("bookmarks: %w", ErrPluginDisabled)
	}

	var doc struct {
		Items []BookmarkItem `json:"items"`
	}
	if err := v.readConfigJSON("bookmarks.json", &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("bookmarks: %w", err)
	}
	return doc.Items, nil
}
