// Package appdir locates the per-user state directory holding the log and
// run-history databases.
package appdir

import (
	"os"
	"path/filepath"
	"sync"
)

// Name is the directory created under the user's home.
const Name = ".cvsd"

var (
	once     sync.Once
	dirCache string
	dirErr   error
)

// AppDir returns ~/.cvsd, creating it on first use. CVSD_HOME overrides the
// location.
func AppDir() (string, error) {
	once.Do(func() {
		dir := os.Getenv("CVSD_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				dirErr = err
				return
			}
			dir = filepath.Join(home, Name)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			dirErr = err
			return
		}
		dirCache = dir
	})
	return dirCache, dirErr
}

// Path resolves name inside the app dir. Absolute names are returned as is.
func Path(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
