package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kk-code-lab/newtab/internal/config"
)

func newSettingsCmd(root *rootOptions) *cobra.Command {
	var replaceNewTab, focusSearch bool

	cmd := &cobra.Command{
		Use:   "settings [key value]",
		Short: "Show or change the persisted settings",
		Long: `Without flags, prints the current settings. Pass --replace-new-tab or
--focus-search (or a key and a value) to change them; the file is rewritten
atomically.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("missing value for %q", args[0])
			}
			flags := cmd.Flags()
			changes := func(s *config.Settings) error {
				if flags.Changed("replace-new-tab") {
					s.ReplaceNewTabOnEmptyTab = replaceNewTab
				}
				if flags.Changed("focus-search") {
					s.FocusSearchOnOpen = focusSearch
				}
				if len(args) == 2 {
					return s.SetSetting(args[0], args[1])
				}
				return nil
			}

			manager := root.manager()
			if !flags.Changed("replace-new-tab") && !flags.Changed("focus-search") && len(args) == 0 {
				cfg, err := manager.Load()
				if err != nil {
					return err
				}
				printSettings(cmd.OutOrStdout(), manager.Path(), cfg.Settings)
				return nil
			}

			// Validate before taking the file lock.
			scratch := config.Default().Settings
			if err := changes(&scratch); err != nil {
				return err
			}

			saved, err := manager.UpdateSettings(func(s *config.Settings) { _ = changes(s) })
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), manager.Path(), saved)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replaceNewTab, "replace-new-tab", true, "reopen the panel after the editor closes")
	cmd.Flags().BoolVar(&focusSearch, "focus-search", true, "focus the search box when the panel opens")
	return cmd
}

func printSettings(w io.Writer, path string, s config.Settings) {
	fmt.Fprintf(w, "# %s\n", path)
	fmt.Fprintf(w, "replace_new_tab_on_empty_tab = %t\n", s.ReplaceNewTabOnEmptyTab)
	fmt.Fprintf(w, "focus_search_on_open = %t\n", s.FocusSearchOnOpen)
}
