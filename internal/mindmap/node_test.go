package mindmap

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		input string
		want  NodeType
		ok    bool
	}{
		{"concept", Concept, true},
		{"Action", Action, true},
		{" problem ", Problem, true},
		{"solution", Solution, true},
		{"idea", Concept, false},
	}
	for _, tt := range tests {
		got, err := ParseNodeType(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ParseNodeType(%q) err = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseNodeType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNodeType_NextWraps(t *testing.T) {
	if Solution.Next() != Concept {
		t.Errorf("got %v", Solution.Next())
	}
	if Concept.Next() != Action {
		t.Errorf("got %v", Concept.Next())
	}
}

func TestNode_JSONLayout(t *testing.T) {
	n := Node{ID: "a", Text: "hi", Type: Problem, ParentID: "root", ChildrenIDs: []string{}}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"type":"problem"`, `"parentId":"root"`, `"childrenIds":[]`, `"isCollapsed":false`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "loading") {
		t.Errorf("loading should be omitted when false: %s", s)
	}
}

func TestIdea_unknownTypeFallsBackToConcept(t *testing.T) {
	var idea Idea
	raw := `{"text":"root","type":"opportunity","children":[{"text":"kid","type":"action"}]}`
	if err := json.Unmarshal([]byte(raw), &idea); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if idea.Type != Concept {
		t.Errorf("type: got %v", idea.Type)
	}
	if len(idea.Children) != 1 || idea.Children[0].Type != Action {
		t.Errorf("children: got %+v", idea.Children)
	}
	if idea.Count() != 2 {
		t.Errorf("Count: got %d", idea.Count())
	}
}

func TestOrientation_roundTrip(t *testing.T) {
	data, _ := json.Marshal(Horizontal)
	if string(data) != `"horizontal"` {
		t.Errorf("got %s", data)
	}
	var o Orientation
	if err := json.Unmarshal([]byte(`"vertical"`), &o); err != nil || o != Vertical {
		t.Errorf("got %v, %v", o, err)
	}
	if Vertical.Toggle() != Horizontal {
		t.Error("Toggle")
	}
}

func TestHeightForText(t *testing.T) {
	if h := HeightForText("", NodeWidth); h != MinNodeHeight {
		t.Errorf("empty: got %v", h)
	}
	if h := HeightForText(strings.Repeat("word ", 60), NodeWidth); h <= MinNodeHeight {
		t.Errorf("long: got %v", h)
	}
	lines := WrapText(strings.Repeat("x", 100), NodeWidth)
	for _, l := range lines {
		if len(l) > CharsPerLine(NodeWidth) {
			t.Errorf("line too long: %q", l)
		}
	}
}

func TestDesignByName(t *testing.T) {
	d, ok := DesignByName("midnight")
	if !ok || d.LineStyle != Dashed {
		t.Errorf("got %+v, %v", d, ok)
	}
	if NextDesign(d).Name != "Snowfall" {
		t.Errorf("NextDesign: got %s", NextDesign(d).Name)
	}
	if NextColor("#475569") != Palette[0] {
		t.Error("NextColor should wrap")
	}
}
