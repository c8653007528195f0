// Package vault exposes a notes directory the way the panel needs it: file
// enumeration, lookup by path, frontmatter, bookmarks, icon overrides and
// daily notes.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// ConfigDirName is the per-vault settings directory.
const ConfigDirName = ".obsidian"

var (
	ErrNotFound       = errors.New("not found")
	ErrPluginDisabled = errors.New("plugin disabled")
)

// File is a vault file handle. Path is vault relative and slash separated.
type File struct {
	Path      string
	Name      string
	Basename  string
	Parent    string
	Extension string
}

func newFile(rel string) File {
	name := path.Base(rel)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	basename := name
	if ext != "" {
		basename = strings.TrimSuffix(name, path.Ext(name))
	}
	parent := path.Dir(rel)
	if parent == "." {
		parent = ""
	}
	return File{
		Path:      rel,
		Name:      name,
		Basename:  basename,
		Parent:    parent,
		Extension: ext,
	}
}

type Vault struct {
	root        string
	extraIgnore []string
	log         *logrus.Entry

	mu        sync.RWMutex
	ignore    *IgnoreMatcher
	overrides *IconOverrides

	frontmatter *lru.Cache[string, frontmatterEntry]
}

// Open prepares the vault rooted at root. extraIgnore adds glob patterns on
// top of the vault's own excluded-files setting.
func Open(root string, extraIgnore []string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", abs)
	}

	cache, err := lru.New[string, frontmatterEntry](frontmatterCacheSize)
	if err != nil {
		return nil, fmt.Errorf("frontmatter cache: %w", err)
	}

	v := &Vault{
		root:        abs,
		extraIgnore: extraIgnore,
		log:         logrus.WithFields(logrus.Fields{"component": "vault", "root": abs}),
		frontmatter: cache,
	}
	v.ReloadSettings()
	return v, nil
}

func (v *Vault) Root() string { return v.root }

func (v *Vault) ConfigDir() string { return filepath.Join(v.root, ConfigDirName) }

func (v *Vault) AbsPath(f File) string {
	return filepath.Join(v.root, filepath.FromSlash(f.Path))
}

// ReloadSettings re-reads ignore filters and icon override data. Safe to
// call while other goroutines are listing or resolving.
func (v *Vault) ReloadSettings() {
	var app struct {
		UserIgnoreFilters []string `json:"userIgnoreFilters"`
	}
	if err := v.readConfigJSON("app.json", &app); err != nil && !errors.Is(err, fs.ErrNotExist) {
		v.log.WithError(err).Warn("cannot read app settings")
	}
	patterns := append(append([]string(nil), app.UserIgnoreFilters...), v.extraIgnore...)
	ignore := NewIgnoreMatcher(patterns)

	overrides, err := v.loadIconOverrides()
	if err != nil {
		v.log.WithError(err).Warn("icon overrides unavailable")
	}

	v.mu.Lock()
	v.ignore = ignore
	v.overrides = overrides
	v.mu.Unlock()
}

func (v *Vault) ignoreMatcher() *IgnoreMatcher {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ignore
}

// ListFiles enumerates every visible file in the vault in lexical order.
// Hidden entries, the config directory and ignored paths are skipped.
func (v *Vault) ListFiles(ctx context.Context) ([]File, error) {
	ignore := v.ignoreMatcher()
	var files []File

	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == v.root {
				return err
			}
			v.log.WithError(err).WithField("path", p).Debug("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == v.root {
			return nil
		}

		rel, relErr := filepath.Rel(v.root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(d.Name(), ".") || ignore.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		files = append(files, newFile(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vault files: %w", err)
	}
	return files, nil
}

// Resolve looks up a vault-relative path. Only regular files inside the
// vault resolve.
func (v *Vault) Resolve(p string) (File, bool) {
	rel, ok := v.cleanRel(p)
	if !ok {
		return File{}, false
	}
	info, err := os.Stat(filepath.Join(v.root, filepath.FromSlash(rel)))
	if err != nil || !info.Mode().IsRegular() {
		return File{}, false
	}
	return newFile(rel), true
}

func (v *Vault) cleanRel(p string) (string, bool) {
	p = strings.TrimSpace(filepath.ToSlash(p))
	if p == "" {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(p, "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func (v *Vault) readConfigJSON(name string, dst any) error {
	data, err := os.ReadFile(filepath.Join(v.ConfigDir(), filepath.FromSlash(name)))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
