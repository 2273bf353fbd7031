// Package editor holds the state of one editing session: the node store,
// the canvas transform, the open project and any AI work in flight.
//
// A Session is owned by the UI event loop. Gateway calls happen elsewhere
// and report back through the methods here.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yash-srivastava19/canopy/internal/canvas"
	"github.com/yash-srivastava19/canopy/internal/export"
	"github.com/yash-srivastava19/canopy/internal/layout"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/projects"
	"github.com/yash-srivastava19/canopy/internal/templates"
)

const (
	DefaultName = "Untitled"

	// AutosaveDelay is the quiet period before an edit is persisted.
	AutosaveDelay = 1500 * time.Millisecond
	// RevealInterval staggers AI-suggested children as they appear.
	RevealInterval = 250 * time.Millisecond
)

var ErrExpansionInFlight = errors.New("expansion already in progress for this node")

type Session struct {
	Store  *mindmap.Store
	Canvas *canvas.Engine

	policy    *layout.Policy
	design    mindmap.Design
	viewportW float64

	projectID   string
	projectName string
	projects    []projects.Project
	initialDone bool

	gen     uint64
	syncing bool

	pending  map[string][]mindmap.Idea
	inflight map[string]bool
	canvas   uint64

	newProjectID func() string
	newNodeID    func() string
}

// New starts an unsaved session with the default root centred in a
// viewport of the given width.
func New(viewportWidth float64) *Session {
	policy := &layout.Policy{Orientation: mindmap.Vertical}
	store := mindmap.NewStore(policy)
	s := &Session{
		Store:        store,
		Canvas:       canvas.NewEngine(store),
		policy:       policy,
		design:       mindmap.DefaultDesign(),
		viewportW:    viewportWidth,
		projectName:  DefaultName,
		pending:      make(map[string][]mindmap.Idea),
		inflight:     make(map[string]bool),
		newProjectID: projects.NewID,
		newNodeID:    newNodeID,
	}
	store.Replace([]mindmap.Node{mindmap.DefaultRoot(viewportWidth)})
	return s
}

func (s *Session) SetViewportWidth(w float64) {
	s.viewportW = w
}

func (s *Session) Orientation() mindmap.Orientation {
	return s.policy.Orientation
}

func (s *Session) SetOrientation(o mindmap.Orientation) {
	s.policy.Orientation = o
}

func (s *Session) ToggleOrientation() mindmap.Orientation {
	s.policy.Orientation = s.policy.Orientation.Toggle()
	return s.policy.Orientation
}

func (s *Session) Design() mindmap.Design {
	return s.design
}

func (s *Session) SetDesign(d mindmap.Design) {
	s.design = d
}

func (s *Session) CycleDesign() mindmap.Design {
	s.design = mindmap.NextDesign(s.design)
	return s.design
}

func (s *Session) ProjectID() string {
	return s.projectID
}

func (s *Session) ProjectName() string {
	return s.projectName
}

// SetProjectName renames the open project locally. Blank names are ignored.
func (s *Session) SetProjectName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	s.projectName = name
	return true
}

// Projects is the latest list from the change feed.
func (s *Session) Projects() []projects.Project {
	return s.projects
}

func (s *Session) Visible() []mindmap.Node {
	return mindmap.Visible(s.Store.Snapshot())
}

// replace swaps the whole canvas. Queued and outstanding expansions belong
// to the old tree and are forgotten; their late responses are no-ops.
func (s *Session) replace(nodes []mindmap.Node) {
	s.Store.Replace(mindmap.Normalize(nodes))
	s.pending = make(map[string][]mindmap.Idea)
	s.inflight = make(map[string]bool)
	s.canvas++
	s.Canvas.Reset()
}

// CanvasGen changes every time the canvas is replaced. Async results
// stamped with an older value belong to a canvas that is gone.
func (s *Session) CanvasGen() uint64 {
	return s.canvas
}

// NewProject starts a fresh project from a starter template and gives it an
// id so it is saved from now on.
func (s *Session) NewProject(name, template string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("project name is required")
	}

	var nodes []mindmap.Node
	if templates.IsBlank(template) {
		root := mindmap.DefaultRoot(s.viewportW)
		root.SubLabel = "Root"
		nodes = []mindmap.Node{root}
	} else {
		x, y := layout.TreeOrigin(s.viewportW)
		nodes = layout.ImportTree(templates.Get(template, name), x, y, s.Orientation(), s.newNodeID)
	}

	s.replace(nodes)
	s.projectName = name
	s.projectID = s.newProjectID()
	return s.projectID, nil
}

// LoadProject makes p the open project.
func (s *Session) LoadProject(p projects.Project) {
	nodes := p.Nodes
	if len(nodes) == 0 {
		nodes = []mindmap.Node{mindmap.DefaultRoot(s.viewportW)}
	}
	s.replace(nodes)
	s.projectID = p.ID
	s.projectName = p.Name
	if s.projectName == "" {
		s.projectName = DefaultName
	}
	s.policy.Orientation = p.Orientation
}

// SaveAs forks the open canvas under a new id and name.
func (s *Session) SaveAs(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("project name is required")
	}
	s.projectID = s.newProjectID()
	s.projectName = name
	s.Canvas.Reset()
	return s.projectID, nil
}

// Rename applies a rename to the open project if id is current and reports
// whether it was. Renaming other projects is the gateway's job.
func (s *Session) Rename(id, name string) bool {
	if id == "" || id != s.projectID {
		return false
	}
	return s.SetProjectName(name)
}

// ProjectDeleted resets to an unsaved default canvas if id was open.
func (s *Session) ProjectDeleted(id string) bool {
	if id == "" || id != s.projectID {
		return false
	}
	s.projectID = ""
	s.projectName = DefaultName
	s.replace([]mindmap.Node{mindmap.DefaultRoot(s.viewportW)})
	return true
}

// ApplyFeed records a project list from the change feed. The first list
// that contains initialID opens that project; later lists never reload it,
// so local edits are not overwritten by their own echo.
func (s *Session) ApplyFeed(list []projects.Project, initialID string) bool {
	s.projects = list
	if initialID == "" || s.initialDone {
		return false
	}
	for _, p := range list {
		if p.ID == initialID {
			s.LoadProject(p)
			s.initialDone = true
			return true
		}
	}
	return false
}

// FindProject looks id up in the latest feed.
func (s *Session) FindProject(id string) (projects.Project, bool) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return projects.Project{}, false
}

// DeleteNode removes a subtree and drops expansions queued under it.
func (s *Session) DeleteNode(id string) ([]string, error) {
	removed, err := s.Store.Delete(id)
	if err != nil {
		return nil, err
	}
	for _, r := range removed {
		delete(s.pending, r)
	}
	return removed, nil
}

// ExportDocument snapshots the open canvas.
func (s *Session) ExportDocument() export.Document {
	return export.Document{
		ProjectName: s.projectName,
		Nodes:       s.Store.Snapshot(),
		Orientation: s.Orientation(),
	}
}

// ImportDocument opens doc as a new project.
func (s *Session) ImportDocument(doc export.Document) (string, error) {
	if err := mindmap.Validate(doc.Nodes); err != nil {
		return "", fmt.Errorf("import: %w", err)
	}
	s.replace(doc.Nodes)
	s.projectName = doc.ProjectName
	if strings.TrimSpace(s.projectName) == "" {
		s.projectName = DefaultName
	}
	s.policy.Orientation = doc.Orientation
	s.projectID = s.newProjectID()
	return s.projectID, nil
}
