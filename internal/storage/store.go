package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storer provides read access to a loaded asset catalog.
type Storer[T ValidatingSpec] interface {
	Get(Identifier) T
	GetAll() map[Identifier]T
}

// FileStore loads a directory tree of JSON asset files into memory. Assets
// are read once at startup; the catalog is immutable afterwards.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[Identifier]T
}

func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[Identifier]T{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	return filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		// Load all json files in the assets path
		if !info.IsDir() && filepath.Ext(path) == ".json" {
			asset, err := s.loadAsset(path)
			if err != nil {
				return err
			}

			err = asset.Validate()
			if err != nil {
				return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
			}

			// Error if the key is already in use
			_, ok := s.records[asset.Id()]
			if ok {
				return fmt.Errorf("duplicate key detected: %s", asset.Id())
			}

			s.records[asset.Id()] = asset.Spec
		}

		return nil
	})
}

func (s *FileStore[T]) Get(id Identifier) T {
	val, ok := s.records[id]

	if !ok {
		var nilVal T
		return nilVal
	}

	return val
}

func (s *FileStore[T]) GetAll() map[Identifier]T {
	vals := map[Identifier]T{}
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

func (s *FileStore[T]) loadAsset(path string) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var spec T
	asset := &Asset[T]{
		Spec: spec,
	}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

// MapStore is an in-memory Storer, used by tests and by callers assembling a
// catalog without an asset directory.
type MapStore[T ValidatingSpec] map[Identifier]T

func (s MapStore[T]) Get(id Identifier) T {
	return s[id]
}

func (s MapStore[T]) GetAll() map[Identifier]T {
	vals := map[Identifier]T{}
	for id, v := range s {
		vals[id] = v
	}
	return vals
}
