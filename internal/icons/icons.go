// Package icons resolves the icon and colour shown next to a file.
package icons

// IconInfo is a resolved icon. Icon is a symbolic identifier such as
// "lucide-file" or a literal emoji. An empty Color means no colour.
type IconInfo struct {
	Icon  string
	Color string
}

// Kind distinguishes the entity a ruling is evaluated for.
type Kind string

const KindFile Kind = "file"

// Override is an icon assignment from the override subsystem. Either field
// may be empty.
type Override struct {
	Icon  string
	Color string
}

// Target identifies the file being resolved.
type Target struct {
	Path      string
	Extension string
}

// OverrideSource is the optional icon-override subsystem: rule-based rulings
// plus manual per-file assignments.
type OverrideSource interface {
	CheckRuling(kind Kind, path string) (*Override, error)
	FileItem(path string) (*Override, error)
}

// FrontmatterSource returns the parsed frontmatter of a file, or nil when it
// has none.
type FrontmatterSource interface {
	Frontmatter(path string) (map[string]any, error)
}
