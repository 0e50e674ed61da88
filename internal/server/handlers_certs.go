package server

import (
	"net/http"

	"ideavault/internal/api"
)

func (s *Server) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	cert, err := s.certs.Generate(r.Context(), s.callerOwner(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.CertificateResponse{Certificate: *cert})
}

func (s *Server) handleVerifyCertificate(w http.ResponseWriter, r *http.Request) {
	live, err := queryBool(r, "live")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	var req api.VerifyRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if !live {
		s.writeJSON(w, http.StatusOK, s.certs.VerifyOffline(req.Certificate))
		return
	}

	resp, err := s.certs.VerifyAgainstStore(r.Context(), req.Certificate)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
