package render

import (
	"strings"

	"github.com/kk-code-lab/newtab/internal/panel"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(vm panel.ViewModel) string {
	parts := buildFooterHelpSegments(vm)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(vm panel.ViewModel) []string {
	segments := contextualHelpSegments(vm)
	segments = append(segments, persistentHelpSegments(vm)...)
	return segments
}

func contextualHelpSegments(vm panel.ViewModel) []string {
	switch {
	case vm.Focus == panel.FocusBookmarks && vm.ShowBookmarks && len(vm.Bookmarks) > 0:
		return []string{
			"←↑↓→: move",
			"↵: open bookmark",
			"Tab: search",
			"type: search",
		}
	case !vm.ShowBookmarks:
		return []string{
			"↑↓: select",
			"↵: open",
			"Esc: clear",
		}
	default:
		hints := []string{"type: search"}
		if len(vm.Bookmarks) > 0 {
			hints = append(hints, "Tab: bookmarks")
		}
		return append(hints, "Esc: quit")
	}
}

func persistentHelpSegments(vm panel.ViewModel) []string {
	return []string{
		"^R: reopen " + onOff(vm.Settings.ReplaceNewTabOnEmptyTab),
		"^F: focus search " + onOff(vm.Settings.FocusSearchOnOpen),
		"F1: help",
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
