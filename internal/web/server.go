// Package web exposes the HTTP API: the NDJSON challenge stream, standalone
// evaluate/rewrite endpoints, and CRUD for sessions and research documents.
package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ishankgp/brainstorming-agent/internal/logging"
	"github.com/ishankgp/brainstorming-agent/internal/pipeline"
	"github.com/ishankgp/brainstorming-agent/internal/research"
	"github.com/ishankgp/brainstorming-agent/internal/session"
)

const maxUploadBytes = 32 << 20

// Server provides the HTTP API handlers and state.
type Server struct {
	orchestrator *pipeline.Orchestrator
	evaluator    *pipeline.Evaluator
	rewriter     *pipeline.Rewriter
	sessions     *session.Store
	docs         *research.Store
	uploader     research.Uploader
	docsDir      string
	log          zerolog.Logger
}

// NewServer creates a new API server. The uploader may be nil; uploaded
// documents are then pushed to the Files API lazily at generation time.
func NewServer(orchestrator *pipeline.Orchestrator, evaluator *pipeline.Evaluator, rewriter *pipeline.Rewriter,
	sessions *session.Store, docs *research.Store, uploader research.Uploader, docsDir string) *Server {
	return &Server{
		orchestrator: orchestrator,
		evaluator:    evaluator,
		rewriter:     rewriter,
		sessions:     sessions,
		docs:         docs,
		uploader:     uploader,
		docsDir:      docsDir,
		log:          logging.Component("web"),
	}
}

// Routes returns the router for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/challenges/stream", s.handleChallengeStream)
	mux.HandleFunc("POST /api/evaluate-statement", s.handleEvaluateStatement)
	mux.HandleFunc("POST /api/rewrite-statement", s.handleRewriteStatement)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/research-documents", s.handleListDocuments)
	mux.HandleFunc("POST /api/research-documents", s.handleUploadDocument)
	mux.HandleFunc("DELETE /api/research-documents/{id}", s.handleDeleteDocument)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type challengeRequest struct {
	BriefText           string   `json:"brief_text"`
	IncludeResearch     bool     `json:"include_research"`
	SelectedResearchIDs []string `json:"selected_research_ids"`
}

func (s *Server) handleChallengeStream(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.BriefText) == "" {
		writeError(w, http.StatusBadRequest, "brief_text is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Create(r.Context(), sessionID, req.BriefText, req.IncludeResearch, req.SelectedResearchIDs); err != nil {
		s.log.Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	recorder := session.NewRecorder(s.sessions, sessionID)
	// Persistence must survive a client disconnect mid-stream.
	recordCtx := context.WithoutCancel(r.Context())

	enc := json.NewEncoder(w)
	for ev := range s.orchestrator.Run(r.Context(), pipeline.RunInput{
		SessionID:       sessionID,
		Brief:           req.BriefText,
		IncludeResearch: req.IncludeResearch,
		ResearchRefs:    req.SelectedResearchIDs,
	}) {
		recorder.Record(recordCtx, ev)
		if err := enc.Encode(ev); err != nil {
			s.log.Debug().Err(err).Str("session_id", sessionID).Msg("client gone, draining run")
			continue
		}
		flusher.Flush()
	}
}

type evaluateRequest struct {
	Statement string `json:"statement"`
	BriefText string `json:"brief_text"`
}

func (s *Server) handleEvaluateStatement(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Statement) == "" {
		writeError(w, http.StatusBadRequest, "statement is required")
		return
	}
	writeJSON(w, http.StatusOK, s.evaluator.Evaluate(r.Context(), req.Statement, req.BriefText, false))
}

type rewriteRequest struct {
	Statement   string `json:"statement"`
	BriefText   string `json:"brief_text"`
	Instruction string `json:"instruction"`
}

func (s *Server) handleRewriteStatement(w http.ResponseWriter, r *http.Request) {
	var req rewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Statement) == "" {
		writeError(w, http.StatusBadRequest, "statement is required")
		return
	}
	rewritten := s.rewriter.Rewrite(r.Context(), req.Statement, req.BriefText, req.Instruction)
	writeJSON(w, http.StatusOK, map[string]string{"rewritten_statement": rewritten})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sums, err := s.sessions.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list sessions")
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sums == nil {
		sums = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sums})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get session")
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("delete session")
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list documents")
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []research.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	docType := r.FormValue("doc_type")
	if docType == "" {
		docType = "general"
	}

	path, size, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.log.Error().Err(err).Msg("save upload")
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	doc := research.Document{
		Name:        name,
		DocType:     docType,
		FileType:    strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		FilePath:    path,
		Description: r.FormValue("description"),
		SizeKB:      size / 1024,
	}
	id, err := s.docs.Add(r.Context(), doc)
	if err != nil {
		s.log.Error().Err(err).Msg("add document")
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}
	if s.uploader != nil {
		// Push to the Files API now and record the remote location. A failed
		// upload is retried lazily at generation time.
		if _, err := research.NewResolver(s.docs, s.uploader).Resolve(r.Context(), []string{id}); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("eager upload failed, will retry at generation time")
		}
	}
	stored, err := s.docs.Get(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Msg("load document")
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) saveUpload(src io.Reader, filename string) (string, int64, error) {
	if err := os.MkdirAll(s.docsDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create documents dir: %w", err)
	}
	path := filepath.Join(s.docsDir, uuid.NewString()+filepath.Ext(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()
	size, err := io.Copy(dst, src)
	if err != nil {
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return path, size, nil
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, err := s.docs.Get(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get document")
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	if err := s.docs.Delete(r.Context(), id); err != nil {
		s.log.Error().Err(err).Msg("delete document")
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", doc.FilePath).Msg("remove document file")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
