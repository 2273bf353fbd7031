// Package projects persists named mind maps and publishes a live feed of
// the project list.
package projects

import (
	"context"
	"errors"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrInvalidID = errors.New("invalid project id")
)

// Project is one saved canvas. Timestamps are epoch milliseconds.
type Project struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Nodes       []mindmap.Node      `json:"nodes"`
	Orientation mindmap.Orientation `json:"orientation"`
	UpdatedAt   int64               `json:"updatedAt"`
	CreatedAt   int64               `json:"createdAt,omitempty"`
}

// Store is a keyed document store for projects.
type Store interface {
	// List returns every project, most recently updated first.
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	// Put upserts p, merging it over any existing document. CreatedAt
	// survives from the first write.
	Put(ctx context.Context, p Project) (Project, error)
	// Delete removes id. Deleting a missing project is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID allocates a project id.
func NewID() string {
	id, err := gonanoid.New()
	if err != nil {
		// Only fails if the system random source does.
		panic(err)
	}
	return id
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return ErrInvalidID
	}
	return nil
}

// merge lays p over existing the way a merging document write does.
func merge(existing *Project, p Project) Project {
	if existing == nil {
		if p.CreatedAt == 0 {
			p.CreatedAt = p.UpdatedAt
		}
		return p
	}
	out := *existing
	if p.Name != "" {
		out.Name = p.Name
	}
	if p.Nodes != nil {
		out.Nodes = p.Nodes
	}
	out.Orientation = p.Orientation
	if p.UpdatedAt != 0 {
		out.UpdatedAt = p.UpdatedAt
	}
	if out.CreatedAt == 0 {
		out.CreatedAt = out.UpdatedAt
	}
	return out
}

func sortNewest(list []Project) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].UpdatedAt > list[j].UpdatedAt
	})
}
