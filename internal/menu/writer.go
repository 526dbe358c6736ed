package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gyo-lab/weeklymenu/internal/schemas"
	"github.com/gyo-lab/weeklymenu/internal/types"
)

// WriteJSON writes record as two-space indented UTF-8 JSON with characters left unescaped.
func WriteJSON(w io.Writer, record *types.MenuRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode menu record: %w", err)
	}
	return nil
}

// WriteFile validates record against the menu record schema and replaces path with it.
func WriteFile(path string, record *types.MenuRecord) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, record); err != nil {
		return err
	}
	if err := schemas.ValidateMenuRecord(buf.Bytes()); err != nil {
		return fmt.Errorf("menu record failed schema check: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".menu-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write menu JSON %s: %w", path, err)
	}
	return nil
}
