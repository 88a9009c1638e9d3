package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lewisedginton/course_materials_chatbot/internal/orchestrator"
	"github.com/lewisedginton/course_materials_chatbot/internal/searchtool"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type queryResponse struct {
	Answer    string              `json:"answer"`
	Sources   []searchtool.Source `json:"sources"`
	SessionID string              `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Security.MaxRequestSize)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.system.NewSession()
	}

	result, err := s.system.Query(r.Context(), sessionID, req.Query)
	if err != nil {
		s.log.Error("Query failed",
			logger.StringField("session_id", sessionID),
			logger.ErrorField(err))
		if errors.Is(err, orchestrator.ErrTooManyToolRounds) {
			s.writeError(w, http.StatusBadGateway, "the model could not produce an answer")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []searchtool.Source{}
	}
	s.writeJSON(w, http.StatusOK, queryResponse{
		Answer:    result.Answer,
		Sources:   sources,
		SessionID: sessionID,
	})
}

func (s *Server) handleCourses(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.system.Analytics())
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		s.writeError(w, http.StatusBadRequest, "session id is required")
		return
	}
	s.system.ClearSession(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
