package testsupport

import (
	"os"
	"path/filepath"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteContentTree materializes files (relative path -> body) under root,
// creating parent directories as needed. Used by sync tests to lay out
// content directories on disk.
func WriteContentTree(root string, files map[string]string) error {
	for rel, body := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}
