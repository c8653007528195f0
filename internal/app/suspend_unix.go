//go:build !windows

package app

import (
	"syscall"

	"github.com/gdamore/tcell/v2"

	renderui "github.com/kk-code-lab/newtab/internal/ui/render"
)

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	// Stop only this process so the launching shell keeps job control.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	// Re-enable mouse reporting after resume
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, _ := app.screen.Size(); w > 0 {
		app.controller.SetGridColumns(renderui.GridColumnsForWidth(w))
	}
	return true
}
