package panel

import (
	"path"
	"strings"

	"github.com/kk-code-lab/newtab/internal/icons"
	"github.com/kk-code-lab/newtab/internal/search"
	"github.com/kk-code-lab/newtab/internal/vault"
)

// Result is a ranked match enriched with its file handle and icon.
type Result struct {
	Match search.RankedMatch
	File  vault.File
	Icon  icons.IconInfo
}

// Highlights splits the match positions between the displayed title (the
// file name without extension) and the parent path.
func (r Result) Highlights() (title string, titleHits []int, parent string, parentHits []int) {
	full := []rune(r.Match.Candidate.Path)
	if len(full) == 0 {
		full = []rune(r.File.Path)
	}
	slash := -1
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == '/' {
			slash = i
			break
		}
	}
	nameStart := slash + 1
	name := string(full[nameStart:])
	titleLen := len([]rune(strings.TrimSuffix(name, path.Ext(name))))
	if titleLen == 0 {
		titleLen = len([]rune(name))
	}

	for _, pos := range r.Match.Positions {
		switch {
		case pos < 0 || pos >= len(full):
		case pos >= nameStart:
			if off := pos - nameStart; off < titleLen {
				titleHits = append(titleHits, off)
			}
		case pos < slash:
			parentHits = append(parentHits, pos)
		}
	}

	title = string(full[nameStart : nameStart+titleLen])
	if slash > 0 {
		parent = string(full[:slash])
	}
	return title, titleHits, parent, parentHits
}

// ResultList owns the selection over the latest result list. The selection
// is 0 after every Replace with a non-empty list and absent (-1) when the
// list is empty. Movement clamps and never wraps.
type ResultList struct {
	items    []Result
	selected int
}

// Replace installs a new list and resets the selection, even when the new
// list equals the old one.
func (l *ResultList) Replace(items []Result) {
	l.items = items
	l.selected = 0
}

func (l *ResultList) Items() []Result { return l.items }

func (l *ResultList) Len() int { return len(l.items) }

// Selected returns the selected index, or -1 when the list is empty.
func (l *ResultList) Selected() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.selected
}

// Move shifts the selection one row up or down. It reports whether the
// selection changed.
func (l *ResultList) Move(dir Direction) bool {
	if len(l.items) == 0 {
		return false
	}
	next := l.selected
	switch dir {
	case DirUp:
		next--
	case DirDown:
		next++
	default:
		return false
	}
	return l.Select(next)
}

// Select moves the selection to idx, clamped to the list bounds.
func (l *ResultList) Select(idx int) bool {
	if len(l.items) == 0 {
		return false
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(l.items)-1 {
		idx = len(l.items) - 1
	}
	if idx == l.selected {
		return false
	}
	l.selected = idx
	return true
}

// Commit returns the selected result without changing state.
func (l *ResultList) Commit() (Result, bool) {
	if len(l.items) == 0 {
		return Result{}, false
	}
	return l.items[l.selected], true
}
