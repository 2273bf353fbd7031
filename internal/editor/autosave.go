package editor

import (
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

// SaveRequest is everything a persistence call needs, captured at the
// moment the debounce fired.
type SaveRequest struct {
	Gen         uint64
	ID          string
	Name        string
	Nodes       []mindmap.Node
	Orientation mindmap.Orientation
}

// Touch records an edit. It returns the new generation, or 0 when there is
// no open project to save into. Callers schedule a check of that generation
// after AutosaveDelay.
func (s *Session) Touch() uint64 {
	if s.projectID == "" || s.Store.Len() == 0 {
		return 0
	}
	s.gen++
	s.syncing = true
	return s.gen
}

// SaveDue reports whether gen is still the latest edit, i.e. the quiet
// period passed without another Touch.
func (s *Session) SaveDue(gen uint64) bool {
	return gen != 0 && gen == s.gen && s.projectID != ""
}

// PendingSave captures the open project for saving.
func (s *Session) PendingSave() (SaveRequest, bool) {
	if s.projectID == "" {
		return SaveRequest{}, false
	}
	return SaveRequest{
		Gen:         s.gen,
		ID:          s.projectID,
		Name:        s.projectName,
		Nodes:       s.Store.Snapshot(),
		Orientation: s.Orientation(),
	}, true
}

// SaveDone clears the sync flag unless newer edits are waiting. Failures
// are not retried; the next edit saves again.
func (s *Session) SaveDone(gen uint64) {
	if gen == s.gen {
		s.syncing = false
	}
}

func (s *Session) Syncing() bool {
	return s.syncing
}
