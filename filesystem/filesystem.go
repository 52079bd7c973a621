// Package filesystem holds the swappable afero backend every path-touching package goes through.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend. Used by tests.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Dump writes data to path, creating parent directories as needed.
func Dump(path string, data []byte) error {
	if err := backend.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	return backend.WriteFile(path, data, 0o644)
}
