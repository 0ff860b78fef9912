package database

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxRecordSize = 1 << 20

// FileStore keeps each collection in <dir>/<collection>.txt, one record per line
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing collection
func (s *FileStore) Path(collection Collection) string {
	return filepath.Join(s.dir, string(collection)+".txt")
}

// ReadRecords returns the lines of the collection file. A missing file is an empty collection.
func (s *FileStore) ReadRecords(ctx context.Context, collection Collection) ([]string, error) {
	file, err := os.Open(s.Path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.Path(collection), err)
	}
	defer file.Close()

	var records []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(collection), err)
	}
	return records, nil
}

// WriteRecords replaces the collection file. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (s *FileStore) WriteRecords(ctx context.Context, collection Collection, records []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.Path(collection)
	tmp, err := os.CreateTemp(s.dir, "."+string(collection)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", target, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, record := range records {
		w.WriteString(record)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", target, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}
