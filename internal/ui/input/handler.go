package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/newtab/internal/panel"
)

// Setting keys toggled from the keyboard.
const (
	SettingReplaceNewTab = "replace_new_tab_on_empty_tab"
	SettingFocusSearch   = "focus_search_on_open"
)

// HelpToggleAction shows or hides the key reference.
type HelpToggleAction struct{}

// HelpHideAction closes the key reference.
type HelpHideAction struct{}

// SuspendAction hands the terminal back to the shell (Ctrl+Z).
type SuspendAction struct{}

// Context is the slice of UI state key handling depends on.
type Context struct {
	HelpVisible bool
	Focus       panel.Focus
	Query       string
}

// InputHandler converts tcell events to Actions. emit runs on the event
// loop goroutine and must not block.
type InputHandler struct {
	emit    func(panel.Action)
	context func() Context
}

// NewInputHandler creates a new input handler
func NewInputHandler(emit func(panel.Action)) *InputHandler {
	return &InputHandler{
		emit: emit,
	}
}

// SetContext installs the callback used to read the current UI state.
func (ih *InputHandler) SetContext(fn func() Context) {
	ih.context = fn
}

func (ih *InputHandler) current() Context {
	if ih.context == nil {
		return Context{}
	}
	return ih.context()
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the application should quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.emit(panel.ResizeAction{Width: w, Height: h})
		return true
	default:
		return true
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	ctx := ih.current()

	if ctx.HelpVisible {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			ih.emit(panel.QuitAction{})
			return false
		case tcell.KeyEscape, tcell.KeyF1:
			ih.emit(HelpHideAction{})
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.emit(HelpHideAction{})
			}
		}
		return true
	}

	inSearch := ctx.Focus == panel.FocusSearch
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyEscape:
		if ctx.Query != "" {
			ih.emit(panel.QueryResetAction{})
			return true
		}
		ih.emit(panel.QuitAction{})
		return false

	case tcell.KeyCtrlC:
		ih.emit(panel.QuitAction{})
		return false

	case tcell.KeyF1:
		ih.emit(HelpToggleAction{})
		return true

	case tcell.KeyUp:
		ih.emit(panel.NavigateAction{Direction: panel.DirUp})
		return true

	case tcell.KeyDown:
		ih.emit(panel.NavigateAction{Direction: panel.DirDown})
		return true

	case tcell.KeyLeft:
		if inSearch {
			dir := "left"
			if ctrl {
				dir = "word-left"
			}
			ih.emit(panel.QueryMoveCursorAction{Direction: dir})
		} else {
			ih.emit(panel.NavigateAction{Direction: panel.DirLeft})
		}
		return true

	case tcell.KeyRight:
		if inSearch {
			dir := "right"
			if ctrl {
				dir = "word-right"
			}
			ih.emit(panel.QueryMoveCursorAction{Direction: dir})
		} else {
			ih.emit(panel.NavigateAction{Direction: panel.DirRight})
		}
		return true

	case tcell.KeyHome, tcell.KeyCtrlA:
		ih.emit(panel.QueryMoveCursorAction{Direction: "home"})
		return true

	case tcell.KeyEnd, tcell.KeyCtrlE:
		ih.emit(panel.QueryMoveCursorAction{Direction: "end"})
		return true

	case tcell.KeyEnter:
		ih.emit(panel.CommitAction{})
		return true

	case tcell.KeyTab, tcell.KeyBacktab:
		ih.emit(panel.ToggleFocusAction{})
		return true

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(panel.QueryBackspaceAction{})
		return true

	case tcell.KeyDelete:
		ih.emit(panel.QueryDeleteAction{})
		return true

	case tcell.KeyCtrlW:
		ih.emit(panel.QueryDeleteWordAction{})
		return true

	case tcell.KeyCtrlD:
		ih.emit(panel.OpenDailyNoteAction{})
		return true

	case tcell.KeyCtrlT:
		ih.emit(panel.ActivateAction{})
		return true

	case tcell.KeyCtrlR:
		ih.emit(panel.ToggleSettingAction{Key: SettingReplaceNewTab})
		return true

	case tcell.KeyCtrlF:
		ih.emit(panel.ToggleSettingAction{Key: SettingFocusSearch})
		return true

	case tcell.KeyCtrlL:
		ih.emit(panel.RefreshAction{})
		return true

	case tcell.KeyCtrlZ:
		ih.emit(SuspendAction{})
		return true

	case tcell.KeyRune:
		r := ev.Rune()
		if ctrl {
			switch r {
			case 'a', 'A':
				ih.emit(panel.QueryMoveCursorAction{Direction: "home"})
			case 'e', 'E':
				ih.emit(panel.QueryMoveCursorAction{Direction: "end"})
			case 'w', 'W':
				ih.emit(panel.QueryDeleteWordAction{})
			case 'h', 'H':
				ih.emit(panel.QueryBackspaceAction{})
			}
			return true
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return true
		}
		if r == '?' && ctx.Query == "" && !inSearch {
			ih.emit(HelpToggleAction{})
			return true
		}
		ih.emit(panel.QueryCharAction{Char: r})
		return true

	default:
		return true
	}
}
