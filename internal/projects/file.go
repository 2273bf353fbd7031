package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".json"

// FileStore keeps one JSON document per project in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func (s *FileStore) List(ctx context.Context) ([]Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var list []Project
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		p, err := s.loadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			log.Printf("projects: skipping %s: %v", e.Name(), err)
			continue
		}
		list = append(list, p)
	}
	sortNewest(list)
	return list, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (Project, error) {
	if err := validID(id); err != nil {
		return Project{}, err
	}
	p, err := s.loadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return Project{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (s *FileStore) loadFile(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, err
	}
	if p.ID == "" {
		p.ID = strings.TrimSuffix(filepath.Base(path), fileExt)
	}
	return p, nil
}

func (s *FileStore) Put(ctx context.Context, p Project) (Project, error) {
	if err := validID(p.ID); err != nil {
		return Project{}, err
	}
	var existing *Project
	if old, err := s.loadFile(s.path(p.ID)); err == nil {
		existing = &old
	}
	out := merge(existing, p)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return Project{}, err
	}
	// Write then rename so a reader never sees half a document.
	tmp, err := os.CreateTemp(s.dir, "."+p.ID+"-*.tmp")
	if err != nil {
		return Project{}, err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return Project{}, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return Project{}, err
	}
	if err := os.Rename(tmp.Name(), s.path(p.ID)); err != nil {
		os.Remove(tmp.Name())
		return Project{}, err
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error {
	return nil
}
