package conventions

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultDataDir is the default sendtovrc data directory name (relative to home).
	DefaultDataDir = ".sendtovrc"
	// DBFile is the SQLite database filename.
	DBFile = "sendtovrc.db"
	// CroppedSuffix is appended to the name of a capture to get its default crop output.
	CroppedSuffix = "-cropped"
)

// DBPath returns the database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// CroppedPath returns the default output path of a crop, next to the input
// and with the same format: `shot.png` -> `shot-cropped.png`.
func CroppedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + CroppedSuffix + ext
}
