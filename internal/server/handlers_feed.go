package server

import (
	"net/http"
	"strings"
)

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := queryIntDefault(r, "limit", 0)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	resp, err := s.ideas.Feed(r.Context(),
		strings.TrimSpace(query.Get("q")),
		strings.ToLower(strings.TrimSpace(query.Get("tag"))),
		strings.TrimSpace(query.Get("cursor")),
		limit,
	)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ideas.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.ideas.Tags(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tags)
}
