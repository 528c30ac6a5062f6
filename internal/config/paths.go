package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the directories the application writes to.
// All paths are relative to the executable, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExportsDir    string
	SnapshotsDir  string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths lays out the directory tree under base:
//
//	base/
//	  ├── data/
//	  │   ├── exports/    (CSV, XLS, XLSX, PDF, print HTML)
//	  │   └── snapshots/  (chart PNG and SVG downloads)
//	  └── logs/
func NewPaths(base string) *Paths {
	dataDir := filepath.Join(base, "data")
	return &Paths{
		ExecutableDir: base,
		DataDir:       dataDir,
		ExportsDir:    filepath.Join(dataDir, "exports"),
		SnapshotsDir:  filepath.Join(dataDir, "snapshots"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ExportsDir,
		p.SnapshotsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetExportPath returns the full path for an export artifact
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetSnapshotPath returns the full path for a chart snapshot
func (p *Paths) GetSnapshotPath(filename string) string {
	return filepath.Join(p.SnapshotsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
