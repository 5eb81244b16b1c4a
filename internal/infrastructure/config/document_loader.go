package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
)

// DocumentLoader reads profile, order and menu documents. YAML and JSON are
// both accepted.
type DocumentLoader struct{}

// NewDocumentLoader creates a new document loader.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// LoadProfile loads a dietary profile document.
func (l *DocumentLoader) LoadProfile(path string) (dto.ProfileDocument, error) {
	var doc dto.ProfileDocument
	if err := decodeFile(path, &doc); err != nil {
		return doc, fmt.Errorf("failed to load profile: %w", err)
	}
	return doc, nil
}

// LoadOrder loads an order document.
func (l *DocumentLoader) LoadOrder(path string) (dto.OrderDocument, error) {
	var doc dto.OrderDocument
	if err := decodeFile(path, &doc); err != nil {
		return doc, fmt.Errorf("failed to load order: %w", err)
	}
	return doc, nil
}

// LoadMenu loads a menu document. An empty path yields a nil menu.
func (l *DocumentLoader) LoadMenu(path string) (*dto.MenuDocument, error) {
	if path == "" {
		return nil, nil
	}
	var doc dto.MenuDocument
	if err := decodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	return &doc, nil
}

// ReadFile reads a file relative to its own directory.
func ReadFile(path string) ([]byte, error) {
	// os.OpenRoot keeps symlinks from escaping the document's directory
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return io.ReadAll(file)
}

func decodeFile(path string, out any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(data, out)
}

// Decode strictly decodes a YAML or JSON document; unknown fields are errors.
func Decode(data []byte, out any) error {
	if err := yaml.UnmarshalWithOptions(data, out, yaml.Strict()); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
