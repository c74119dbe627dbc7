package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jkarls/resgraph/pkg/logging"
	"github.com/jkarls/resgraph/pkg/pubsub"
	"github.com/jkarls/resgraph/pkg/store"
)

//go:embed static/*
var staticFiles embed.FS

// GraphNode represents a node in the dependency graph payload
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // "resource" (declared) or "external" (target-only)
}

// GraphEdge represents a directed dependency in the graph payload
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData holds one dataset version's graph for visualization
type GraphData struct {
	Version string      `json:"version"`
	Label   string      `json:"label,omitempty"`
	Nodes   []GraphNode `json:"nodes"`
	Edges   []GraphEdge `json:"edges"`
}

// VersionsResponse lists the available dataset versions
type VersionsResponse struct {
	Versions []string `json:"versions"`
	Latest   string   `json:"latest"`
}

// TypesResponse is the (optionally filtered) type listing for one version
type TypesResponse struct {
	Version string   `json:"version"`
	Query   string   `json:"query,omitempty"`
	Types   []string `json:"types"`
}

// TypeResponse is the neighbor view for one selected type
type TypeResponse struct {
	Version       string   `json:"version"`
	Type          string   `json:"type"`
	Declared      bool     `json:"declared"`
	DependsOn     []string `json:"dependsOn"`
	DependencyFor []string `json:"dependencyFor"`
}

// Server serves the JSON API and the embedded single-page UI
type Server struct {
	router    *mux.Router
	store     *store.Store
	publisher pubsub.Publisher
}

// NewServer creates a web server over a dataset store
func NewServer(st *store.Store) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// dataset: keep only the most recent event; a new subscriber just needs
	// the current version list
	ssePublisher.ConfigureTopic(pubsub.TopicDataset, pubsub.TopicConfig{
		BufferSize: 1,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		store:     st,
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// PublishDataset publishes the current version list to connected UIs
func (s *Server) PublishDataset(eventType string) error {
	latest, _ := s.store.Latest()
	return s.publisher.Publish(pubsub.TopicDataset, eventType, pubsub.DatasetEvent{
		Versions:  s.store.Versions(),
		Latest:    latest,
		Overrides: !s.store.Overrides().Empty(),
	})
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/dataset", s.handleSubscribeDataset).Methods("GET")

	s.router.HandleFunc("/api/versions", s.handleVersions).Methods("GET")
	s.router.HandleFunc("/api/types", s.handleTypes).Methods("GET")
	s.router.HandleFunc("/api/type/{name}", s.handleType).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("embedded static files missing", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// snapshot resolves the version query parameter, defaulting to latest.
// Writes a 404 and returns nil when the version is unknown or no dataset is
// loaded.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) *store.Snapshot {
	version := r.URL.Query().Get("version")
	snap, ok := s.store.Snapshot(version)
	if !ok {
		if version == "" {
			http.Error(w, "no dataset loaded", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("unknown version: %s", version), http.StatusNotFound)
		}
		return nil
	}
	return snap
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	latest, _ := s.store.Latest()
	writeJSON(w, VersionsResponse{
		Versions: s.store.Versions(),
		Latest:   latest,
	})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}

	query := r.URL.Query().Get("q")
	writeJSON(w, TypesResponse{
		Version: snap.Version,
		Query:   query,
		Types:   snap.Graph.Filter(query),
	})
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}

	// Unknown types are a valid query, not an error: the UI shows empty
	// neighbor sets either way
	name := mux.Vars(r)["name"]
	writeJSON(w, TypeResponse{
		Version:       snap.Version,
		Type:          name,
		Declared:      snap.Graph.Declared(name),
		DependsOn:     snap.Graph.DependsOn(name),
		DependencyFor: snap.Graph.DependencyFor(name),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}

	data := GraphData{
		Version: snap.Version,
		Label:   snap.Label,
		Nodes:   make([]GraphNode, 0),
		Edges:   make([]GraphEdge, 0),
	}
	for _, typ := range snap.Graph.Types() {
		nodeType := "external"
		if snap.Graph.Declared(typ) {
			nodeType = "resource"
		}
		data.Nodes = append(data.Nodes, GraphNode{ID: typ, Label: typ, Type: nodeType})
	}
	for _, edge := range snap.Graph.Edges() {
		data.Edges = append(data.Edges, GraphEdge{Source: edge[0], Target: edge[1]})
	}

	writeJSON(w, data)
}

func (s *Server) handleSubscribeDataset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment establishes the connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), pubsub.TopicDataset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.Debug("SSE write failed, dropping subscriber", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// Handler returns the full handler chain, for serving and for tests
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.Handler())
}
