package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

// LoadRegistry reads a tournaments.json file. A missing file yields no
// entries and no error.
func LoadRegistry(path string) ([]tournament.RegistryEntry, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tournaments file: %w", err)
	}

	var entries []tournament.RegistryEntry
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode tournaments file %s: %w", path, err)
	}
	return entries, nil
}
