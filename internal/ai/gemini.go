package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"

	generatePath = "%s/models/%s:generateContent?key=%s"
)

// ErrUnavailable means no generated content could be produced, either
// because no key is configured or because the request failed.
var ErrUnavailable = errors.New("AI full map generation is not available")

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) Model() string {
	return c.model
}

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Fallback is the fixed suggestion set used when expansion fails.
func Fallback() []mindmap.Idea {
	return []mindmap.Idea{
		{Text: "Detailed Analysis", Type: mindmap.Concept},
		{Text: "Practical Implementation", Type: mindmap.Action},
		{Text: "Potential Challenges", Type: mindmap.Problem},
	}
}

// Expand asks for 2-4 sub-concepts of prompt. Any failure is logged and the
// fallback set is returned instead; without a key the fallback comes back
// together with ErrUnavailable.
func (c *Client) Expand(ctx context.Context, prompt string) ([]mindmap.Idea, error) {
	if !c.Available() {
		return Fallback(), ErrUnavailable
	}

	text := fmt.Sprintf(`You are a mind map assistant. For the given concept, provide a list of 2-4 relevant sub-concepts to expand the thought process.
Concept: %q
Return ONLY a JSON array of objects with 'text' and 'type' (concept, action, problem, or solution).`, prompt)

	raw, err := c.generate(ctx, text)
	if err != nil {
		log.Printf("ai: expand %q: %v", prompt, err)
		return Fallback(), nil
	}
	ideas, err := parseIdeas(raw)
	if err != nil || len(ideas) == 0 {
		log.Printf("ai: expand %q: unusable response: %v", prompt, err)
		return Fallback(), nil
	}
	return ideas, nil
}

// GenerateTree asks for a complete nested mind map about prompt. There is no
// fallback: every failure wraps ErrUnavailable.
func (c *Client) GenerateTree(ctx context.Context, prompt string) (mindmap.Idea, error) {
	if !c.Available() {
		return mindmap.Idea{}, ErrUnavailable
	}

	text := fmt.Sprintf(`You are an expert strategist. Create a comprehensive mind map for the following topic: %q
Return a deeply nested recursive structure in JSON. Every node MUST have a 'text' and 'type' (concept, action, problem, or solution) and may have 'children'.
Branches should be logical, splitting topics into meaningful sub-categories. Give each node at most two children. Go at least 3 levels deep.`, prompt)

	raw, err := c.generate(ctx, text)
	if err != nil {
		log.Printf("ai: generate tree %q: %v", prompt, err)
		return mindmap.Idea{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	tree, err := parseTree(raw)
	if err != nil {
		log.Printf("ai: generate tree %q: %v", prompt, err)
		return mindmap.Idea{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tree, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(generatePath, c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result geminiResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("API error: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API status %s", resp.Status)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	var parts []string
	for _, p := range result.Candidates[0].Content.Parts {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, ""), nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseIdeas(raw string) ([]mindmap.Idea, error) {
	var ideas []mindmap.Idea
	if err := json.Unmarshal([]byte(stripFence(raw)), &ideas); err != nil {
		return nil, err
	}
	out := ideas[:0]
	for _, i := range ideas {
		i.Text = strings.TrimSpace(i.Text)
		if i.Text == "" {
			continue
		}
		i.Children = nil
		out = append(out, i)
	}
	return out, nil
}

func parseTree(raw string) (mindmap.Idea, error) {
	s := stripFence(raw)
	var tree mindmap.Idea
	if strings.HasPrefix(s, "[") {
		var list []mindmap.Idea
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return tree, err
		}
		if len(list) == 0 {
			return tree, fmt.Errorf("empty tree")
		}
		tree = list[0]
	} else if err := json.Unmarshal([]byte(s), &tree); err != nil {
		return tree, err
	}
	if strings.TrimSpace(tree.Text) == "" {
		return tree, fmt.Errorf("tree root has no text")
	}
	return tree, nil
}
