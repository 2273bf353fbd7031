package editor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yash-srivastava19/canopy/internal/layout"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

func newNodeID() string {
	return uuid.NewString()
}

// ApplyGeneratedTree replaces the canvas with a generated tree, names the
// project after the prompt and allocates an id if none is open.
func (s *Session) ApplyGeneratedTree(prompt string, idea mindmap.Idea) string {
	x, y := layout.TreeOrigin(s.viewportW)
	s.replace(layout.ImportTree(idea, x, y, s.Orientation(), s.newNodeID))
	if p := strings.TrimSpace(prompt); p != "" {
		s.projectName = p
	}
	if s.projectID == "" {
		s.projectID = s.newProjectID()
	}
	return s.projectID
}

// BeginExpand marks id as loading and returns the text to expand on. A
// node that is already loading refuses a second request.
func (s *Session) BeginExpand(id string) (string, error) {
	n, ok := s.Store.Node(id)
	if !ok {
		return "", fmt.Errorf("expand %s: %w", id, mindmap.ErrNodeNotFound)
	}
	if n.Loading {
		return "", ErrExpansionInFlight
	}
	if len(n.ChildrenIDs)+len(s.pending[id]) >= mindmap.MaxChildren {
		return "", fmt.Errorf("expand %s: %w", id, mindmap.ErrFanoutLimit)
	}
	s.Store.SetLoading(id, true)
	s.inflight[id] = true
	return n.Text, nil
}

// FinishExpand clears the loading flag and queues as many ideas as still
// fit under the node, in response order. It returns how many were queued;
// each should be revealed RevealInterval after the previous one. A node
// that vanished meanwhile, or a request the canvas no longer knows about,
// queues nothing.
func (s *Session) FinishExpand(id string, ideas []mindmap.Idea) int {
	if !s.inflight[id] {
		return 0
	}
	delete(s.inflight, id)
	n, ok := s.Store.Node(id)
	if !ok {
		delete(s.pending, id)
		return 0
	}
	s.Store.SetLoading(id, false)

	room := max(0, mindmap.MaxChildren-len(n.ChildrenIDs)-len(s.pending[id]))
	if len(ideas) > room {
		ideas = ideas[:room]
	}
	if len(ideas) == 0 {
		return 0
	}
	s.pending[id] = append(s.pending[id], ideas...)
	return len(ideas)
}

// Pending is the number of ideas still queued under id.
func (s *Session) Pending(id string) int {
	return len(s.pending[id])
}

// RevealNext inserts the next queued idea under id. The parent is looked up
// again at this point; if it no longer exists the queue is dropped and
// nothing happens.
func (s *Session) RevealNext(id string) (mindmap.Node, bool) {
	queue := s.pending[id]
	if len(queue) == 0 {
		return mindmap.Node{}, false
	}
	idea := queue[0]
	if len(queue) == 1 {
		delete(s.pending, id)
	} else {
		s.pending[id] = queue[1:]
	}

	parent, ok := s.Store.Node(id)
	if !ok {
		delete(s.pending, id)
		return mindmap.Node{}, false
	}
	x, y := layout.ExpansionChild(layout.Context{
		Parent:       parent,
		SiblingIndex: len(parent.ChildrenIDs),
		SiblingCount: len(parent.ChildrenIDs) + 1,
		Orientation:  s.Orientation(),
	})
	child, err := s.Store.AppendChild(id, mindmap.Node{
		ID:     s.newNodeID(),
		Text:   idea.Text,
		Type:   idea.Type,
		Color:  idea.Type.DefaultColor(),
		X:      x,
		Y:      y,
		Width:  mindmap.NodeWidth,
		Height: mindmap.HeightForText(idea.Text, mindmap.NodeWidth),
	})
	if err != nil {
		delete(s.pending, id)
		return mindmap.Node{}, false
	}
	return child, true
}

// CancelExpand clears a loading flag left by a request that will never
// finish.
func (s *Session) CancelExpand(id string) {
	delete(s.inflight, id)
	s.Store.SetLoading(id, false)
}
