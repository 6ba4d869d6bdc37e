package hostbridge

import (
	"os"
	"path/filepath"
)

// GetModulePath returns the absolute path of the running extension binary,
// or an empty string when it cannot be resolved.
func GetModulePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe
}

// GetModuleDir returns the directory holding the extension binary, or "."
func GetModuleDir() string {
	path := GetModulePath()
	if path == "" {
		return "."
	}
	return filepath.Dir(path)
}
