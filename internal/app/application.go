package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/kk-code-lab/newtab/internal/commands"
	"github.com/kk-code-lab/newtab/internal/config"
	"github.com/kk-code-lab/newtab/internal/icons"
	"github.com/kk-code-lab/newtab/internal/panel"
	"github.com/kk-code-lab/newtab/internal/vault"
	inputui "github.com/kk-code-lab/newtab/internal/ui/input"
	renderui "github.com/kk-code-lab/newtab/internal/ui/render"
)

// Options configures a new Application.
type Options struct {
	VaultPath string
	Config    *config.Config
	// ConfigManager persists in-app setting toggles. Nil keeps them in memory.
	ConfigManager *config.Manager
	// Watch enables live reload from the filesystem.
	Watch bool
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	vault      *vault.Vault
	watcher    *vault.Watcher
	cfg        *config.Manager
	registry   *commands.Registry
	controller *panel.Controller
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan panel.Action
	// pending holds actions raised on the loop goroutine itself; it is
	// drained before actionCh.
	pending []panel.Action

	ctx    context.Context
	cancel context.CancelFunc

	vaultName   string
	editorCmd   []string
	runEditor   func(filePath string) error
	helpVisible bool
	shouldQuit  bool

	lastClickKey  string
	lastClickTime time.Time

	log *logrus.Entry
}

// NewApplication opens the vault and takes over the terminal.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	v, err := vault.Open(opts.VaultPath, cfg.Vault.Ignore)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	editorCmd, editorAvail := detectEditorCommand(cfg.Editor.Command)

	ctx, cancel := context.WithCancel(context.Background())
	actionCh := make(chan panel.Action, 10)

	app := &Application{
		screen:    screen,
		vault:     v,
		cfg:       opts.ConfigManager,
		registry:  commands.NewRegistry(),
		renderer:  renderui.NewRenderer(screen),
		actionCh:  actionCh,
		ctx:       ctx,
		cancel:    cancel,
		vaultName: filepath.Base(v.Root()),
		editorCmd: editorCmd,
		log:       logrus.WithField("component", "app"),
	}

	resolver := icons.NewResolver(v.IconOverrides, v)
	caps := panel.Capabilities{
		ListFiles:   v.ListFiles,
		ResolvePath: v.Resolve,
		ResolveIcon: func(ctx context.Context, file vault.File) icons.IconInfo {
			return resolver.Resolve(ctx, icons.Target{Path: file.Path, Extension: file.Extension})
		},
		GetBookmarks: v.Bookmarks,
		OpenFile:     app.openFile,
		RunCommand:   app.registry.ExecuteFirst,
	}
	app.runEditor = app.openFileInEditor
	app.input = inputui.NewInputHandler(app.dispatch)
	app.controller = panel.NewController(caps, cfg.Settings, app.post)
	app.registerCommands()

	app.input.SetContext(func() inputui.Context {
		return inputui.Context{
			HelpVisible: app.helpVisible,
			Focus:       app.controller.Focus(),
			Query:       app.controller.Query(),
		}
	})

	if w, _ := screen.Size(); w > 0 {
		app.controller.SetGridColumns(renderui.GridColumnsForWidth(w))
	}

	if opts.Watch {
		watcher, err := v.Watch()
		if err != nil {
			app.log.WithError(err).Warn("live reload disabled")
		} else {
			app.watcher = watcher
			go app.forwardVaultChanges(watcher)
		}
	}

	app.log.WithFields(logrus.Fields{
		"vault":  v.Root(),
		"editor": editorAvail,
	}).Info("application started")
	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.controller.OnUnmount()
	app.cancel()
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	app.screen.Fini()
	return err
}

// dispatch queues an action raised on the loop goroutine. It never touches
// actionCh, which the same goroutine reads.
func (app *Application) dispatch(action panel.Action) {
	app.pending = append(app.pending, action)
}

// post queues an action without ever blocking the caller.
func (app *Application) post(action panel.Action) {
	select {
	case app.actionCh <- action:
	default:
		go func() { app.actionCh <- action }()
	}
}

func (app *Application) forwardVaultChanges(w *vault.Watcher) {
	for change := range w.Changes() {
		select {
		case app.actionCh <- panel.VaultChangedAction{Change: change}:
		case <-app.ctx.Done():
			return
		}
	}
}
