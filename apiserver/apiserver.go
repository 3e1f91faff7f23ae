// Package apiserver exposes the query engine and prompt registry over HTTP.
package apiserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/bridgekit-ai/toolbridge/engine"
	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/pkg/prompts"
	"github.com/bridgekit-ai/toolbridge/store"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/effective-security/xlog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "apiserver")

// ServiceName is reported by the root endpoint.
const ServiceName = "toolbridge"

// Version is reported by the root endpoint.
const Version = "0.1.0"

// Deps are the shared components the server fronts.
type Deps struct {
	Registry  *toolserver.Registry
	Catalog   *toolserver.Catalog
	Prompts   *prompts.Manager
	Completer chat.Completer
	Messages  store.MessageStore
}

// Server routes HTTP requests to the engine. One orchestrator is kept per
// session ID.
type Server struct {
	deps   Deps
	router *chi.Mux

	mu       sync.Mutex
	sessions map[string]*engine.Orchestrator
}

// New constructs the server with middleware and routes configured.
func New(deps Deps) *Server {
	s := &Server{
		deps:     deps,
		router:   chi.NewRouter(),
		sessions: make(map[string]*engine.Orchestrator),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/chat", s.handleChat)
	s.router.Get("/tools", s.handleListTools)
	s.router.Get("/prompts", s.handleListPrompts)
	s.router.Get("/prompts/{templateID}", s.handleGetPrompt)
	s.router.Post("/prompts/render", s.handleRenderPrompt)

	return s
}

// Router exposes the root HTTP handler.
func (s *Server) Router() http.Handler { return s.router }

// orchestrator returns the per-session pipeline, creating it on first use.
func (s *Server) orchestrator(sessionID string) *engine.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if orch, ok := s.sessions[sessionID]; ok {
		return orch
	}
	session := engine.NewSessionWithID(sessionID, s.deps.Messages)
	orch := engine.NewOrchestrator(
		engine.NewPlanner(s.deps.Completer),
		engine.NewDispatcher(s.deps.Registry, s.deps.Catalog),
		engine.NewInterpreter(s.deps.Completer),
		s.deps.Registry,
		s.deps.Catalog,
		session,
	)
	s.sessions[sessionID] = orch
	return orch
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.KV(xlog.WARNING, "reason", "encode_failed", "err", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
		"version": Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"servers_connected": len(s.deps.Registry.Names()),
		"tools_available":   s.deps.Catalog.Len(),
		"prompts_available": len(s.deps.Prompts.ListAll()),
	})
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	answer := s.orchestrator(req.SessionID).Process(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  answer,
		SessionID: req.SessionID,
	})
}

// ToolInfo is one entry of GET /tools.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Server      string `json:"server"`
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	out := make([]ToolInfo, 0, s.deps.Catalog.Len())
	for _, t := range s.deps.Catalog.Tools() {
		out = append(out, ToolInfo{
			Name:        t.Qualified,
			Description: t.Description,
			Server:      t.Server,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPrompts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": s.deps.Prompts.ListAll(),
	})
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	tmpl, err := s.deps.Prompts.Get(templateID)
	if err != nil {
		writeError(w, http.StatusNotFound, "template not found: "+templateID)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// RenderRequest is the body of POST /prompts/render.
type RenderRequest struct {
	TemplateID string         `json:"template_id"`
	Variables  map[string]any `json:"variables,omitempty"`
}

func (s *Server) handleRenderPrompt(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rendered, err := s.deps.Prompts.Render(req.TemplateID, req.Variables)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"rendered": rendered})
}
