package app

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/newtab/internal/panel"
	"github.com/kk-code-lab/newtab/internal/vault"
	inputui "github.com/kk-code-lab/newtab/internal/ui/input"
	renderui "github.com/kk-code-lab/newtab/internal/ui/render"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run mounts the panel and processes events until quit.
func (app *Application) Run() {
	app.controller.OnMount(app.ctx)
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) render() {
	app.renderer.Render(app.controller.ViewModel(), renderui.Options{
		VaultName: app.vaultName,
		ShowHelp:  app.helpVisible,
	})
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps primary clicks and the wheel onto panel actions.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.post(panel.NavigateAction{Direction: panel.DirUp})
		return true
	case buttons&tcell.WheelDown != 0:
		app.post(panel.NavigateAction{Direction: panel.DirDown})
		return true
	case buttons&tcell.Button1 == 0:
		return false
	}
	if app.helpVisible {
		return false
	}

	x, y := ev.Position()
	w, h := app.screen.Size()
	layout := renderui.ComputeLayout(w, h)
	vm := app.controller.ViewModel()

	if layout.RibbonAt(x, y) {
		app.post(panel.ActivateAction{})
		return true
	}
	if layout.DailyNoteAt(x, y) {
		app.post(panel.OpenDailyNoteAction{})
		return true
	}

	if vm.ShowBookmarks {
		idx, ok := layout.BookmarkAt(x, y, len(vm.Bookmarks))
		if !ok {
			return false
		}
		app.rememberClick(fmt.Sprintf("bookmark-%d", idx))
		app.post(panel.SelectBookmarkAction{Index: idx, Open: true})
		return true
	}

	idx, ok := layout.ResultAt(x, y, len(vm.Results))
	if !ok {
		return false
	}
	doubleClick := app.rememberClick(fmt.Sprintf("result-%d", idx))
	app.post(panel.SelectResultAction{Index: idx, Open: doubleClick})
	return true
}

// rememberClick records a click and reports whether it completes a double
// click on the same target.
func (app *Application) rememberClick(key string) bool {
	doubleClick := app.lastClickKey == key && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickKey = key
	app.lastClickTime = time.Now()
	return doubleClick
}

func (app *Application) processActions() bool {
	changed := false
	for {
		if len(app.pending) > 0 {
			action := app.pending[0]
			app.pending = app.pending[1:]
			if app.handleAction(action) {
				changed = true
			}
			continue
		}
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action panel.Action) bool {
	if action == nil {
		return false
	}

	switch a := action.(type) {
	case panel.QuitAction:
		app.shouldQuit = true
		return false
	case inputui.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case inputui.HelpToggleAction:
		app.helpVisible = !app.helpVisible
		return true
	case inputui.HelpHideAction:
		app.helpVisible = false
		return true
	case panel.ResizeAction:
		app.controller.SetGridColumns(renderui.GridColumnsForWidth(a.Width))
		app.screen.Sync()
		return true
	case panel.ToggleSettingAction:
		app.toggleSetting(a.Key)
		return true
	case panel.VaultChangedAction:
		app.handleVaultChange(a.Change)
		return true
	case panel.TabEmptiedAction:
		return app.handleTabEmptied()
	case panel.ActivateAction:
		return app.runCommand(panel.OpenCommandID)
	}

	return app.controller.Apply(action)
}

func (app *Application) handleVaultChange(change vault.Change) {
	log := app.log.WithField("change", fmt.Sprintf("%05b", change))
	log.Debug("vault changed")

	if change.Has(vault.ChangeConfig) || change.Has(vault.ChangeOverrides) {
		app.vault.ReloadSettings()
	}
	if change.Has(vault.ChangeConfig) {
		app.registerDailyNoteCommand()
	}
	if change.Has(vault.ChangeFiles) || change.Has(vault.ChangeContent) ||
		change.Has(vault.ChangeOverrides) || change.Has(vault.ChangeConfig) {
		app.controller.Refresh()
	}
	if change.Has(vault.ChangeFiles) || change.Has(vault.ChangeBookmarks) ||
		change.Has(vault.ChangeOverrides) || change.Has(vault.ChangeConfig) {
		app.controller.ReloadBookmarks()
	}
}
