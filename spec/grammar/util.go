package grammar

import (
	"path/filepath"
	"strings"
)

// FormatFromPath guesses a format from the extension of a file path.
// For example, FormatFromPath("expr.yml") returns FormatYAML. The default is FormatJSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
