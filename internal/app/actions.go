package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kk-code-lab/newtab/internal/commands"
	"github.com/kk-code-lab/newtab/internal/config"
	"github.com/kk-code-lab/newtab/internal/panel"
	"github.com/kk-code-lab/newtab/internal/vault"
	inputui "github.com/kk-code-lab/newtab/internal/ui/input"
)

const (
	DailyNoteCommandID     = "daily-notes"
	ToggleReplaceCommandID = "newtab:toggle-replace-empty-tab"
	ToggleFocusCommandID   = "newtab:toggle-focus-search"

	dailyNotesPlugin = "daily-notes"
)

var errNoEditor = errors.New("no editor configured: set editor.command, $VISUAL or $EDITOR")

var commandBuilder = exec.Command

func (app *Application) registerCommands() {
	app.registry.Register(commands.Command{
		ID:   panel.OpenCommandID,
		Name: panel.OpenCommandName,
		Run: func(ctx context.Context) error {
			app.controller.Activate(ctx)
			return nil
		},
	})
	app.registry.Register(commands.Command{
		ID:   ToggleReplaceCommandID,
		Name: "Toggle reopening the new tab after the editor closes",
		Run: func(context.Context) error {
			return app.toggleSetting(inputui.SettingReplaceNewTab)
		},
	})
	app.registry.Register(commands.Command{
		ID:   ToggleFocusCommandID,
		Name: "Toggle focusing search on open",
		Run: func(context.Context) error {
			return app.toggleSetting(inputui.SettingFocusSearch)
		},
	})
	app.registerDailyNoteCommand()
}

// registerDailyNoteCommand follows the vault's core plugin state; it is
// called again whenever the vault configuration changes.
func (app *Application) registerDailyNoteCommand() {
	if !app.vault.CorePluginEnabled(dailyNotesPlugin) {
		app.registry.Unregister(DailyNoteCommandID)
		return
	}
	app.registry.Register(commands.Command{
		ID:   DailyNoteCommandID,
		Name: "Open today's daily note",
		Run: func(ctx context.Context) error {
			file, err := app.vault.OpenToday(ctx, time.Now())
			if err != nil {
				return err
			}
			return app.openFile(file)
		},
	})
}

func (app *Application) runCommand(id string) bool {
	if err := app.registry.Execute(app.ctx, id); err != nil {
		app.log.WithError(err).WithField("command", id).Warn("command failed")
		app.controller.SetStatus(err.Error())
	}
	return true
}

// toggleSetting flips one persisted setting and saves it right away.
func (app *Application) toggleSetting(key string) error {
	flip := func(s *config.Settings) error {
		switch key {
		case inputui.SettingReplaceNewTab:
			s.ReplaceNewTabOnEmptyTab = !s.ReplaceNewTabOnEmptyTab
		case inputui.SettingFocusSearch:
			s.FocusSearchOnOpen = !s.FocusSearchOnOpen
		default:
			return fmt.Errorf("%w: %s", config.ErrInvalidSetting, key)
		}
		return nil
	}

	settings := app.controller.Settings()
	if err := flip(&settings); err != nil {
		app.controller.SetStatus(err.Error())
		return err
	}

	if app.cfg != nil {
		saved, err := app.cfg.UpdateSettings(func(s *config.Settings) { _ = flip(s) })
		if err != nil {
			app.log.WithError(err).WithField("setting", key).Warn("cannot save settings")
			app.controller.SetStatus(fmt.Sprintf("settings not saved: %v", err))
		} else {
			settings = saved
		}
	}

	app.controller.SetSettings(settings)
	app.log.WithFields(logrus.Fields{
		"replace_new_tab": settings.ReplaceNewTabOnEmptyTab,
		"focus_search":    settings.FocusSearchOnOpen,
	}).Info("settings changed")
	return nil
}

// openFile hands the terminal to the editor. Once the editor exits the tab
// counts as empty again.
func (app *Application) openFile(file vault.File) error {
	if len(app.editorCmd) == 0 {
		return errNoEditor
	}
	filePath := app.vault.AbsPath(file)
	app.log.WithField("path", file.Path).Info("opening file")
	if err := app.runEditor(filePath); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	app.post(panel.TabEmptiedAction{})
	return nil
}

func (app *Application) handleTabEmptied() bool {
	if !app.controller.Settings().ReplaceNewTabOnEmptyTab {
		app.shouldQuit = true
		return false
	}
	app.controller.OnUnmount()
	app.controller.OnMount(app.ctx)
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.EnableMouse()
	app.screen.Sync()
	return runErr
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.EnableMouse()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
