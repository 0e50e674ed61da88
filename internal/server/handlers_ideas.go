package server

import (
	"net/http"
	"strings"

	"ideavault/internal/api"
)

func (s *Server) handleSubmitIdea(w http.ResponseWriter, r *http.Request) {
	var req api.IdeaSubmitRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.ideas.Submit(r.Context(), s.callerOwner(r), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.ideas.Get(r.Context(), s.callerOwner(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	caller := s.callerOwner(r)
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		owner = caller
	}

	resp, err := s.ideas.ListByOwner(r.Context(), caller, owner)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevealIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.ideas.Reveal(r.Context(), s.callerOwner(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
