package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/newtab/internal/app"
	"github.com/kk-code-lab/newtab/internal/config"
	"github.com/kk-code-lab/newtab/internal/logging"
)

type rootOptions struct {
	vault   string
	config  string
	logFile string
	debug   bool
	noWatch bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "newtab [vault]",
		Short:        "Fuzzy file search and bookmarks for a notes vault",
		SilenceUsage: true,
		Long: `newtab opens a launcher for a Markdown vault: type to fuzzy search every
file, pick from your bookmarks, or jump to today's daily note.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.vault = args[0]
			}
			return runPanel(opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.config, "config", "", "settings file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level")
	cmd.Flags().StringVar(&opts.vault, "vault", "", "vault directory (default: vault.path from config, else the working directory)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not watch the vault for changes")

	cmd.AddCommand(newSettingsCmd(opts))
	return cmd
}

func (o *rootOptions) manager() *config.Manager {
	path := o.config
	if path == "" {
		path = config.DefaultPath()
	}
	return config.NewManager(path)
}

func runPanel(opts *rootOptions) error {
	closer, err := logging.Setup(opts.logFile, opts.debug)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close()
	}()

	manager := opts.manager()
	cfg, err := manager.Load()
	if err != nil {
		return err
	}

	vaultPath := opts.vault
	if vaultPath == "" {
		vaultPath = cfg.Vault.Path
	}
	if vaultPath == "" {
		if vaultPath, err = os.Getwd(); err != nil {
			return err
		}
	}

	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(apppkg.Options{
		VaultPath:     vaultPath,
		Config:        cfg,
		ConfigManager: manager,
		Watch:         !opts.noWatch,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logrus.WithError(err).Warn("shutdown")
		}
	}()

	app.Run()
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
