package icons

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Resolver walks the precedence chain: override ruling, manual override,
// frontmatter `icon`, extension default. It never fails; every broken source
// is logged and skipped.
type Resolver struct {
	overrides   func() OverrideSource
	frontmatter FrontmatterSource
	log         *logrus.Entry
}

// NewResolver builds a resolver. overrides is called on every resolution and
// returns nil while the subsystem is absent or disabled. Either argument may
// be nil.
func NewResolver(overrides func() OverrideSource, frontmatter FrontmatterSource) *Resolver {
	return &Resolver{
		overrides:   overrides,
		frontmatter: frontmatter,
		log:         logrus.WithField("component", "icons"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, target Target) IconInfo {
	if ctx.Err() != nil {
		return DefaultForExtension(target.Extension)
	}

	if info, ok := r.fromOverrides(target.Path); ok {
		return info
	}

	if info, ok := r.fromFrontmatter(target.Path); ok {
		return info
	}

	return DefaultForExtension(target.Extension)
}

func (r *Resolver) fromOverrides(path string) (IconInfo, bool) {
	if r.overrides == nil {
		return IconInfo{}, false
	}
	source := r.overrides()
	if source == nil {
		return IconInfo{}, false
	}

	ruling, err := source.CheckRuling(KindFile, path)
	if err != nil {
		r.log.WithError(err).WithField("path", path).Warn("icon ruling lookup failed")
		ruling = nil
	}
	item, err := source.FileItem(path)
	if err != nil {
		r.log.WithError(err).WithField("path", path).Warn("icon override lookup failed")
		item = nil
	}

	var info IconInfo
	switch {
	case ruling != nil:
		info = IconInfo{Icon: ruling.Icon, Color: ruling.Color}
		if item != nil {
			if info.Icon == "" {
				info.Icon = item.Icon
			}
			if info.Color == "" {
				info.Color = item.Color
			}
		}
	case item != nil:
		info = IconInfo{Icon: item.Icon, Color: item.Color}
	default:
		return IconInfo{}, false
	}

	if strings.TrimSpace(info.Icon) == "" {
		return IconInfo{}, false
	}
	return info, true
}

func (r *Resolver) fromFrontmatter(path string) (IconInfo, bool) {
	if r.frontmatter == nil {
		return IconInfo{}, false
	}
	meta, err := r.frontmatter.Frontmatter(path)
	if err != nil {
		r.log.WithError(err).WithField("path", path).Debug("frontmatter unavailable")
		return IconInfo{}, false
	}
	icon, _ := meta["icon"].(string)
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return IconInfo{}, false
	}
	return IconInfo{Icon: icon}, true
}
