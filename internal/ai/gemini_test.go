package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

func geminiServer(t *testing.T, status int, text string) (*httptest.Server, *geminiRequest) {
	t.Helper()
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		if !strings.Contains(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("key: got %q", r.URL.Query().Get("key"))
		}
		w.WriteHeader(status)
		resp := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestExpand(t *testing.T) {
	srv, req := geminiServer(t, http.StatusOK, `[{"text":"Budget","type":"action"},{"text":"Risks","type":"weird"}]`)
	c := NewClient("k", "test-model").WithBaseURL(srv.URL)

	ideas, err := c.Expand(context.Background(), "Launch")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(ideas) != 2 {
		t.Fatalf("ideas: got %d", len(ideas))
	}
	if ideas[0].Text != "Budget" || ideas[0].Type != mindmap.Action {
		t.Errorf("first idea: %+v", ideas[0])
	}
	if ideas[1].Type != mindmap.Concept {
		t.Errorf("unknown type should fall back to concept, got %v", ideas[1].Type)
	}
	if req.GenerationConfig == nil || req.GenerationConfig.ResponseMimeType != "application/json" {
		t.Error("request should ask for a JSON response")
	}
	if !strings.Contains(req.Contents[0].Parts[0].Text, "Launch") {
		t.Error("prompt missing from request")
	}
}

func TestExpand_FallbackOnError(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusInternalServerError, "")
	c := NewClient("k", "test-model").WithBaseURL(srv.URL)

	ideas, err := c.Expand(context.Background(), "x")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(ideas) != 3 || ideas[0].Text != "Detailed Analysis" || ideas[2].Type != mindmap.Problem {
		t.Errorf("fallback: got %+v", ideas)
	}
}

func TestExpand_FallbackOnGarbage(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusOK, "not json at all")
	c := NewClient("k", "test-model").WithBaseURL(srv.URL)

	ideas, _ := c.Expand(context.Background(), "x")
	if len(ideas) != 3 {
		t.Errorf("fallback: got %d ideas", len(ideas))
	}
}

func TestExpand_NoKey(t *testing.T) {
	c := NewClient("", "")
	ideas, err := c.Expand(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err: got %v", err)
	}
	if len(ideas) != 3 {
		t.Errorf("fallback: got %d ideas", len(ideas))
	}
}

func TestGenerateTree(t *testing.T) {
	body := "```json\n" + `{"text":"Trip","type":"concept","children":[{"text":"Book","type":"action","children":[{"text":"Flights","type":"action"}]},{"text":"Cost","type":"problem"}]}` + "\n```"
	srv, _ := geminiServer(t, http.StatusOK, body)
	c := NewClient("k", "test-model").WithBaseURL(srv.URL)

	tree, err := c.GenerateTree(context.Background(), "Trip")
	if err != nil {
		t.Fatalf("GenerateTree: %v", err)
	}
	if tree.Text != "Trip" || len(tree.Children) != 2 {
		t.Errorf("tree: %+v", tree)
	}
	if tree.Count() != 4 {
		t.Errorf("Count: got %d", tree.Count())
	}
}

func TestGenerateTree_Failure(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusOK, `{"type":"concept"}`)
	c := NewClient("k", "test-model").WithBaseURL(srv.URL)

	_, err := c.GenerateTree(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err: got %v", err)
	}
	if !strings.Contains(err.Error(), "AI full map generation is not available") {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestGenerateTree_NoKey(t *testing.T) {
	_, err := NewClient("", "").GenerateTree(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err: got %v", err)
	}
}

func TestStripFence(t *testing.T) {
	tests := map[string]string{
		"[1]":               "[1]",
		"```json\n[1]\n```": "[1]",
		"```\n{\"a\":1}```": `{"a":1}`,
		"  \n[2]  ":         "[2]",
	}
	for in, want := range tests {
		if got := stripFence(in); got != want {
			t.Errorf("stripFence(%q): got %q, want %q", in, got, want)
		}
	}
}
