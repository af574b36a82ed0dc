package server

import (
	"fmt"
	"net/http"
	"strings"
)

func (s *Server) requireAuth(w http.ResponseWriter) bool {
	if s.auth == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "this store has no accounts"})
		return false
	}
	return true
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request, needName bool) (credentials, error) {
	var c credentials
	if err := decodeBody(r, &c); err != nil {
		return c, err
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		return c, fmt.Errorf("%w: email and password are required", errBadRequest)
	}
	if needName && strings.TrimSpace(c.Name) == "" {
		return c, fmt.Errorf("%w: name is required", errBadRequest)
	}
	return c, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w) {
		return
	}
	c, err := decodeCredentials(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.auth.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w) {
		return
	}
	c, err := decodeCredentials(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.auth.Register(r.Context(), strings.TrimSpace(c.Name), c.Email, c.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w) {
		return
	}
	user, err := s.auth.Me(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
