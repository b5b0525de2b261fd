package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSnapshots saves store snapshots as files under a base directory.
// Useful for single-node deployments without Redis.
type FileSnapshots struct {
	basePath string
}

// NewFileSnapshots creates the base directory if missing.
func NewFileSnapshots(basePath string) (*FileSnapshots, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("snapshot base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileSnapshots{basePath: basePath}, nil
}

// Save writes the snapshot atomically via a temp file rename.
func (f *FileSnapshots) Save(name string, data []byte) error {
	target := filepath.Join(f.basePath, safeSnapshotName(name)+".json")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot for name.
func (f *FileSnapshots) Load(name string) ([]byte, bool, error) {
	target := filepath.Join(f.basePath, safeSnapshotName(name)+".json")
	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	return data, true, nil
}

func safeSnapshotName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.ReplaceAll(name, ":", "_")
	if name == "" {
		return "snapshot"
	}
	return name
}
