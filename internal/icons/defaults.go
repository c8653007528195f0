package icons

import "strings"

const (
	IconGeneric  = "lucide-file"
	IconDocument = "lucide-file-text"
	IconImage    = "lucide-image"
	IconCanvas   = "lucide-layout-dashboard"
)

var extensionIcons = map[string]string{
	"pdf":    IconDocument,
	"png":    IconImage,
	"jpg":    IconImage,
	"jpeg":   IconImage,
	"gif":    IconImage,
	"webp":   IconImage,
	"svg":    IconImage,
	"bmp":    IconImage,
	"canvas": IconCanvas,
}

// DefaultForExtension returns the static icon for an extension, with or
// without a leading dot. Unknown extensions get the generic file icon.
func DefaultForExtension(ext string) IconInfo {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if icon, ok := extensionIcons[ext]; ok {
		return IconInfo{Icon: icon}
	}
	return IconInfo{Icon: IconGeneric}
}
