// Package server exposes the project store over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/yash-srivastava19/canopy/internal/export"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/projects"
)

// Handler serves the API from a project gateway.
type Handler struct {
	Projects *projects.Gateway
}

// New returns the routed, CORS-wrapped API.
func New(gw *projects.Gateway, origins []string) http.Handler {
	h := &Handler{Projects: gw}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/projects", h.ListProjects)
	mux.HandleFunc("POST /api/projects", h.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.GetProject)
	mux.HandleFunc("PUT /api/projects/{id}", h.PutProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.DeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/export", h.ExportProject)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:         86400,
	}).Handler(logRequests(mux))
}

// ListenAndServe runs the API until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

// projectBody is what clients send when creating or replacing a project.
type projectBody struct {
	Name        string              `json:"name"`
	Nodes       []mindmap.Node      `json:"nodes"`
	Orientation mindmap.Orientation `json:"orientation"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, projects.ErrNotFound):
		http.Error(w, "Project not found", http.StatusNotFound)
	case errors.Is(err, projects.ErrInvalidID):
		http.Error(w, "Invalid project id", http.StatusBadRequest)
	default:
		log.Printf("server: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// GET /api/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.Projects.List(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	if list == nil {
		list = []projects.Project{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func decodeProject(w http.ResponseWriter, r *http.Request) (projectBody, bool) {
	var body projectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return body, false
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "Project name is required", http.StatusBadRequest)
		return body, false
	}
	if len(body.Nodes) == 0 {
		body.Nodes = []mindmap.Node{mindmap.DefaultRoot(800)}
	}
	body.Nodes = mindmap.Normalize(body.Nodes)
	if err := mindmap.Validate(body.Nodes); err != nil {
		http.Error(w, "Invalid node tree: "+err.Error(), http.StatusUnprocessableEntity)
		return body, false
	}
	return body, true
}

// POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeProject(w, r)
	if !ok {
		return
	}
	p, err := h.Projects.Save(r.Context(), projects.NewID(), body.Name, body.Nodes, body.Orientation)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// PUT /api/projects/{id}
func (h *Handler) PutProject(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeProject(w, r)
	if !ok {
		return
	}
	p, err := h.Projects.Save(r.Context(), r.PathValue("id"), body.Name, body.Nodes, body.Orientation)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DELETE /api/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/projects/{id}/export?format=json|markdown|svg&theme=name
func (h *Handler) ExportProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	doc := export.Document{ProjectName: p.Name, Nodes: p.Nodes, Orientation: p.Orientation}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteJSON(w, doc)
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		err = export.WriteMarkdown(w, doc)
	case "svg":
		design := mindmap.DefaultDesign()
		if d, ok := mindmap.DesignByName(r.URL.Query().Get("theme")); ok {
			design = d
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		err = export.WriteSVG(w, doc, design)
	default:
		http.Error(w, "Unknown format "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("server: export %s: %v", p.ID, err)
	}
}
