// Package export turns a canvas into portable formats and back.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

var ErrEmptyDocument = errors.New("document has no nodes")

// Document is the JSON export layout.
type Document struct {
	ProjectName string              `json:"projectName"`
	Nodes       []mindmap.Node      `json:"nodes"`
	Orientation mindmap.Orientation `json:"orientation"`
}

func WriteJSON(w io.Writer, doc Document) error {
	if doc.Nodes == nil {
		doc.Nodes = []mindmap.Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON decodes a document, normalizes its nodes and checks that they
// form a valid tree.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return Document{}, ErrEmptyDocument
	}
	doc.Nodes = mindmap.Normalize(doc.Nodes)
	if err := mindmap.Validate(doc.Nodes); err != nil {
		return Document{}, fmt.Errorf("invalid document: %w", err)
	}
	return doc, nil
}
