package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// sessionFileMode keeps session payloads readable by the server user only
const sessionFileMode os.FileMode = 0600

// writeSessionFile replaces the session file at path with data. The data is
// synced to a temp file in the same directory and then renamed over path, so
// readers see either the old session or the new one.
func writeSessionFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to %s session file: %w", step, err)
	}

	if err := tmp.Chmod(sessionFileMode); err != nil {
		return fail("chmod", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close session file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
