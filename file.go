package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// FileStore keeps the dataset as a single JSON file on local disk.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (*Dataset, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading dataset file: %w", err)
		}
		log.Printf("%s not found, starting with an empty dataset", s.Path)
		return s.bootstrap()
	}
	var d Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		log.Printf("warning: dataset file %s is unparsable (%v), replacing it with an empty dataset", s.Path, err)
		return s.bootstrap()
	}
	return &d, nil
}

func (s *FileStore) bootstrap() (*Dataset, error) {
	d := emptyDataset()
	if err := s.Save(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Save writes the whole document through a temp file and renames it into
// place, so a crashed write never leaves a half-written file behind.
func (s *FileStore) Save(d *Dataset) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding dataset json: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing dataset file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("error replacing dataset file: %w", err)
	}
	return nil
}
