package panel

import "github.com/kk-code-lab/newtab/internal/vault"

// Action is anything the event loop feeds into the panel or the app.
type Action interface{}

// Direction is a selection or cursor movement.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// ===== QUERY ACTIONS =====

type QueryCharAction struct {
	Char rune
}
type QueryBackspaceAction struct{}
type QueryDeleteAction struct{}
type QueryDeleteWordAction struct{}
type QueryResetAction struct{}
type QueryMoveCursorAction struct {
	Direction string // "left", "right", "word-left", "word-right", "home", "end"
}

// ===== SELECTION ACTIONS =====

type NavigateAction struct {
	Direction Direction
}
type CommitAction struct{}
type ToggleFocusAction struct{}
type SelectResultAction struct {
	Index int
	Open  bool
}
type SelectBookmarkAction struct {
	Index int
	Open  bool
}

// ===== ASYNC RESULTS =====

// ResultsReadyAction carries enriched results for the query issued with Gen.
type ResultsReadyAction struct {
	Gen     uint64
	Results []Result
	Err     error
}

// BookmarksReadyAction carries the flattened bookmark list loaded with Gen.
type BookmarksReadyAction struct {
	Gen     uint64
	Entries []BookmarkEntry
}

// ===== PANEL ACTIONS =====

type ActivateAction struct{}
type RefreshAction struct{}
type ReloadBookmarksAction struct{}
type OpenDailyNoteAction struct{}
type ResizeAction struct {
	Width  int
	Height int
}

// ===== APPLICATION ACTIONS =====

// ToggleSettingAction flips a persisted setting by its config key.
type ToggleSettingAction struct {
	Key string
}

// VaultChangedAction forwards a debounced watcher notification.
type VaultChangedAction struct {
	Change vault.Change
}

// TabEmptiedAction is posted after an opened file is closed again.
type TabEmptiedAction struct{}

type QuitAction struct{}
