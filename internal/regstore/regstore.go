// SPDX-License-Identifier: EPL-2.0

// Package regstore persists the handler registration table as YAML.
//
// The file maps extensions to handler ids and descriptions:
//
//	byte_stream_handlers:
//	  .wav:
//	    b2c8b1af-a0cc-4a47-9f4c-9764cf1cbf6e: WAVE Source ByteStreamHandler
package regstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ik5/wavsource/audio"
)

type document struct {
	Handlers map[string]map[string]string `yaml:"byte_stream_handlers"`
}

// FileStore is an audio.RegistrationStore backed by a YAML file. Every
// change rewrites the file.
type FileStore struct {
	path string
	reg  *audio.Registry

	mtx *sync.Mutex
}

var _ audio.RegistrationStore = (*FileStore)(nil)

// Open loads the table at path. A missing file is an empty table.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		reg:  audio.NewRegistry(),
		mtx:  &sync.Mutex{},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("regstore: read %q: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("regstore: parse %q: %w", path, err)
	}

	for ext, byID := range doc.Handlers {
		for rawID, desc := range byID {
			id, err := uuid.Parse(rawID)
			if err != nil {
				return nil, fmt.Errorf("regstore: %q: handler id for %s: %w", path, ext, err)
			}
			if err := s.reg.Register(ext, id, desc); err != nil {
				return nil, fmt.Errorf("regstore: %q: extension %q: %w", path, ext, err)
			}
		}
	}
	return s, nil
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string { return s.path }

// Register adds the registration and rewrites the file. When the write
// fails the table is left as it was.
func (s *FileStore) Register(ext string, id uuid.UUID, description string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	prev, existed := s.description(ext, id)
	if err := s.reg.Register(ext, id, description); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		if existed {
			_ = s.reg.Register(ext, id, prev)
		} else {
			_ = s.reg.Unregister(ext, id)
		}
		return err
	}
	return nil
}

// Unregister removes the registration and rewrites the file. When the write
// fails the registration is restored.
func (s *FileStore) Unregister(ext string, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	prev, _ := s.description(ext, id)
	if err := s.reg.Unregister(ext, id); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		_ = s.reg.Register(ext, id, prev)
		return err
	}
	return nil
}

func (s *FileStore) description(ext string, id uuid.UUID) (string, bool) {
	regs, _ := s.reg.Lookup(ext)
	for _, r := range regs {
		if r.HandlerID == id {
			return r.Description, true
		}
	}
	return "", false
}

// Lookup returns the handlers registered for ext.
func (s *FileStore) Lookup(ext string) ([]audio.Registration, bool) {
	return s.reg.Lookup(ext)
}

// All returns every registration.
func (s *FileStore) All() []audio.Registration {
	return s.reg.All()
}

// save writes the table through a temporary file so readers never see a
// partial document.
func (s *FileStore) save() error {
	doc := document{Handlers: make(map[string]map[string]string)}
	for _, r := range s.reg.All() {
		byID, ok := doc.Handlers[r.Extension]
		if !ok {
			byID = make(map[string]string)
			doc.Handlers[r.Extension] = byID
		}
		byID[r.HandlerID.String()] = r.Description
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("regstore: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("regstore: write %q: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("regstore: write %q: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("regstore: write %q: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("regstore: write %q: %w", s.path, err)
	}
	return nil
}
