package export

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

func sampleDoc() Document {
	root := mindmap.DefaultRoot(1000)
	root.ChildrenIDs = []string{"a", "b"}
	a := mindmap.Node{ID: "a", Text: "Alpha *bold*", Type: mindmap.Action, Color: "#4ade80", X: 100, Y: 340, Width: 260, Height: 100, ParentID: "root", ChildrenIDs: []string{"a1"}, IsCollapsed: true}
	b := mindmap.Node{ID: "b", Text: "Beta", Type: mindmap.Problem, Color: "#f87171", X: 600, Y: 340, Width: 260, Height: 120, ParentID: "root", ChildrenIDs: []string{}}
	a1 := mindmap.Node{ID: "a1", Text: "Hidden <leaf>", Type: mindmap.Solution, Color: "#fbbf24", X: 100, Y: 560, Width: 260, Height: 100, ParentID: "a", ChildrenIDs: []string{}}
	return Document{ProjectName: "Plan & Do", Nodes: []mindmap.Node{root, a, b, a1}, Orientation: mindmap.Vertical}
}

func TestJSON_RoundTrip(t *testing.T) {
	doc := sampleDoc()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"projectName": "Plan & Do"`) {
		t.Errorf("layout: %s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip changed the document:\n got %+v\nwant %+v", got, doc)
	}
}

func TestReadJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"garbage", "nope"},
		{"empty", `{"projectName":"x","nodes":[]}`},
		{"dangling child", `{"nodes":[{"id":"r","type":"concept","childrenIds":["ghost"]}]}`},
		{"bad type", `{"nodes":[{"id":"r","type":"idea","childrenIds":[]}]}`},
	}
	for _, tc := range tests {
		if _, err := ReadJSON(strings.NewReader(tc.in)); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
	_, err := ReadJSON(strings.NewReader(`{"nodes":[]}`))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("empty: got %v", err)
	}
}

func TestReadJSON_Normalises(t *testing.T) {
	in := `{"projectName":"x","orientation":"horizontal","nodes":[{"id":"r","text":"t","type":"concept","height":10,"loading":true}]}`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	n := doc.Nodes[0]
	if n.Loading || n.Height != mindmap.MinNodeHeight || n.Width != mindmap.NodeWidth || n.ChildrenIDs == nil {
		t.Errorf("node not normalised: %+v", n)
	}
	if doc.Orientation != mindmap.Horizontal {
		t.Errorf("orientation: got %v", doc.Orientation)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleDoc()); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	want := "# Plan & Do\n\n" +
		"- **Start Your Journey** _(concept)_ Root Concept\n" +
		"  - **Alpha \\*bold\\*** _(action)_\n" +
		"    - **Hidden <leaf>** _(solution)_\n" +
		"  - **Beta** _(problem)_\n"
	if got := buf.String(); got != want {
		t.Errorf("markdown:\n got %q\nwant %q", got, want)
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sampleDoc(), mindmap.DefaultDesign()); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") || !strings.Contains(out, "</svg>") {
		t.Errorf("not an svg document: %.80s", out)
	}
	if strings.Count(out, "<path") != 2 {
		t.Errorf("expected 2 connectors, got %d", strings.Count(out, "<path"))
	}
	if strings.Contains(out, "Hidden") {
		t.Error("collapsed branch should not be drawn")
	}
	if strings.Contains(out, "stroke-dasharray") {
		t.Error("snowfall uses solid lines")
	}

	buf.Reset()
	midnight, _ := mindmap.DesignByName("midnight")
	if err := WriteSVG(&buf, sampleDoc(), midnight); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "stroke-dasharray:6 4") {
		t.Error("midnight connectors should be dashed")
	}
}

func TestWriteSVG_Empty(t *testing.T) {
	if err := WriteSVG(&bytes.Buffer{}, Document{}, mindmap.DefaultDesign()); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("got %v", err)
	}
}
