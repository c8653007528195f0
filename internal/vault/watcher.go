package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Change is a bit set describing what a batch of filesystem events touched.
type Change uint8

const (
	// ChangeFiles: a file was created, removed or renamed.
	ChangeFiles Change = 1 << iota
	// ChangeContent: an existing file was written (frontmatter may differ).
	ChangeContent
	ChangeBookmarks
	ChangeOverrides
	// ChangeConfig: plugin state, ignore filters or daily note settings.
	ChangeConfig
)

func (c Change) Has(other Change) bool { return c&other != 0 }

const defaultDebounce = 150 * time.Millisecond

// Watcher reports debounced vault changes.
type Watcher struct {
	vault     *Vault
	fsWatcher *fsnotify.Watcher
	changes   chan Change
	stop      chan struct{}
	done      chan struct{}
	debounce  time.Duration
	log       *logrus.Entry
	closeOnce sync.Once
}

// Watch starts watching every visible directory of the vault plus its config
// directory.
func (v *Vault) Watch() (*Watcher, error) {
	return v.watch(defaultDebounce)
}

func (v *Vault) watch(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		vault:     v,
		fsWatcher: fsWatcher,
		changes:   make(chan Change, 8),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		debounce:  debounce,
		log:       logrus.WithField("component", "watcher"),
	}

	if err := w.addTree(v.root); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	for _, dir := range []string{v.ConfigDir(), filepath.Dir(v.overridesPath())} {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			if addErr := fsWatcher.Add(dir); addErr != nil {
				w.log.WithError(addErr).WithField("directory", dir).Warn("cannot watch config directory")
			}
		}
	}

	go w.run()
	return w, nil
}

// Changes delivers one merged Change per quiet period. The channel closes
// after Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		err = w.fsWatcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	ignore := w.vault.ignoreMatcher()
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.vault.root {
			rel, relErr := filepath.Rel(w.vault.root, p)
			if relErr != nil {
				return fs.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") || ignore.Match(filepath.ToSlash(rel), true) {
				return fs.SkipDir
			}
		}
		if addErr := w.fsWatcher.Add(p); addErr != nil {
			w.log.WithError(addErr).WithField("directory", p).Warn("cannot watch directory")
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)

	var pending Change
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			change := w.classify(event)
			if change == 0 {
				continue
			}
			pending |= change
			timer.Reset(w.debounce)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("fsnotify watcher error")

		case <-timer.C:
			if pending == 0 {
				continue
			}
			select {
			case w.changes <- pending:
				pending = 0
			case <-w.stop:
				return
			}

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) classify(event fsnotify.Event) Change {
	rel, err := filepath.Rel(w.vault.root, event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return 0
	}
	rel = filepath.ToSlash(rel)

	if rel == ConfigDirName || strings.HasPrefix(rel, ConfigDirName+"/") {
		switch strings.TrimPrefix(rel, ConfigDirName+"/") {
		case "bookmarks.json":
			return ChangeBookmarks
		case path.Join("plugins", IconOverridePlugin, "data.json"):
			return ChangeOverrides
		case "app.json", "core-plugins.json", "community-plugins.json", "daily-notes.json":
			return ChangeConfig
		}
		return 0
	}

	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return 0
		}
	}
	if w.vault.ignoreMatcher().Match(rel, false) {
		return 0
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			if addErr := w.addTree(event.Name); addErr != nil && !errors.Is(addErr, fs.ErrNotExist) {
				w.log.WithError(addErr).WithField("directory", rel).Warn("cannot watch new directory")
			}
		}
		return ChangeFiles
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return ChangeFiles
	case event.Op.Has(fsnotify.Write):
		return ChangeContent
	}
	return 0
}
