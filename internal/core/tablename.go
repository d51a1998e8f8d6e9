package core

import (
	"path/filepath"
	"strings"
)

// TableName derives a table name from a file path: the base name with its
// final extension removed. Leading dots never start an extension, so
// ".hidden" stays ".hidden". No case folding or escaping is applied.
func TableName(path string) string {
	base := filepath.Base(path)

	// Skip leading dots so dot-files keep their name.
	start := 0
	for start < len(base) && base[start] == '.' {
		start++
	}

	if dot := strings.LastIndexByte(base[start:], '.'); dot >= 0 {
		return base[:start+dot]
	}
	return base
}
