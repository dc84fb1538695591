// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// WriteCheckpoint serializes raw extraction results to path before any
// downstream stage runs. The format is internal: it only needs to be
// re-loadable by the same binary for crash recovery. The file is written
// to a temp name and renamed so a crash mid-write cannot leave a torn
// checkpoint behind.
func WriteCheckpoint(path string, results []types.HandleRefs) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating checkpoint directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a previously written checkpoint.
func LoadCheckpoint(path string) ([]types.HandleRefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %s: %w", path, err)
	}
	var results []types.HandleRefs
	if err := yaml.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}
	return results, nil
}
