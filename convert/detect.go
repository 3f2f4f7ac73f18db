package convert

import (
	"path/filepath"
	"strings"
)

// Source extensions recognized when walking directories. Plain ".txt" is
// accepted since many stories in the wild come that way.
var storyExtensions = map[string]bool{
	".story": true,
	".txt":   true,
}

func isStoryFile(path string) bool {
	return storyExtensions[strings.ToLower(filepath.Ext(path))]
}
