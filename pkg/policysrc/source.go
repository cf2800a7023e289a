package policysrc

import (
	"context"
	"fmt"
	"os"
)

// Source fetches the raw bytes of a requirement manifest.
type Source interface {
	// Fetch returns the manifest document.
	Fetch(ctx context.Context) ([]byte, error)

	// String names the source for logs and errors.
	String() string
}

// FileSource reads a manifest from the local filesystem.
type FileSource struct {
	// Path of the manifest file.
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading requirement manifest: %w", err)
	}
	return data, nil
}

func (s FileSource) String() string {
	return s.Path
}

// Load fetches a source and parses it into the manifest.
func (m *Manifest) Load(ctx context.Context, src Source) error {
	data, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := m.Parse(data); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	return nil
}
