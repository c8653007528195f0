package panel

import (
	"context"

	"github.com/kk-code-lab/newtab/internal/icons"
	"github.com/kk-code-lab/newtab/internal/vault"
)

// Capabilities is everything the panel needs from its host. Each field can
// be replaced independently in tests. A nil field degrades to a no-op.
type Capabilities struct {
	ListFiles    func(ctx context.Context) ([]vault.File, error)
	ResolvePath  func(path string) (vault.File, bool)
	ResolveIcon  func(ctx context.Context, file vault.File) icons.IconInfo
	GetBookmarks func(ctx context.Context) ([]vault.BookmarkItem, error)
	OpenFile     func(file vault.File) error
	RunCommand   func(ctx context.Context, ids ...string) (string, error)
}

func (c Capabilities) resolveIcon(ctx context.Context, file vault.File) icons.IconInfo {
	if c.ResolveIcon == nil {
		return icons.DefaultForExtension(file.Extension)
	}
	return c.ResolveIcon(ctx, file)
}
