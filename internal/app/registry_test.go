package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		entries, err := LoadRegistry(filepath.Join(dir, "absent.json"))
		if err != nil || entries != nil {
			t.Fatalf("expected no entries and no error, got %v %v", entries, err)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "tournaments.json")
		body := `[{"liquipedia_name":"MSC/2024","display_name":"MSC 2024","region":"International","split":"2024 Mid-Season"}]`
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
		entries, err := LoadRegistry(path)
		if err != nil {
			t.Fatalf("load registry: %v", err)
		}
		if len(entries) != 1 || entries[0].DisplayName != "MSC 2024" || entries[0].LiquipediaName != "MSC/2024" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte(`{"not":"a list"}`), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
		if _, err := LoadRegistry(path); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}
