package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gompdf/notepdf/internal/auth"
	"github.com/gompdf/notepdf/internal/notes"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string        `json:"token,omitempty"`
	Session *auth.Session `json:"session"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeJSON(w, http.StatusOK, loginResponse{Session: auth.AnonymousSession()})
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Printf("[WARN] failed login for %q from %s", req.Username, r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		return
	}
	if err != nil {
		log.Printf("[ERROR] login: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		MaxAge:   int(s.auth.TTL() / time.Second),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Session: session})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session, ok := auth.SessionFrom(r.Context()); ok && s.auth != nil {
		if err := s.auth.Logout(r.Context(), session.ID); err != nil {
			log.Printf("[ERROR] logout: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "logout failed")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFrom(r.Context())
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var n notes.Note
	if !decodeJSON(w, r, &n) {
		return
	}
	n.ID = 0
	if err := s.store.Create(r.Context(), &n); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &n)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var n notes.Note
	if !decodeJSON(w, r, &n) {
		return
	}
	n.ID = id
	if err := s.store.Update(r.Context(), &n); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.renderNote(w, n)
}

// handleRender renders a note that has not been saved
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var n notes.Note
	if !decodeJSON(w, r, &n) {
		return
	}
	if err := n.Prepare(); err != nil {
		writeStoreError(w, err)
		return
	}
	s.renderNote(w, &n)
}

func (s *Server) renderNote(w http.ResponseWriter, n *notes.Note) {
	var buf bytes.Buffer
	result, err := s.renderer.Render(n.Record(), &buf)
	if err != nil {
		log.Printf("[ERROR] rendering note %d: %v", n.ID, err)
		writeError(w, http.StatusInternalServerError, "render_failed", "failed to render PDF")
		return
	}
	if result.FallbackUsed() {
		w.Header().Set("X-Font-Fallback", "true")
	}
	writePDF(w, n.FileName(), buf.Bytes())
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := s.store.Backup(r.Context(), &buf); err != nil {
		if errors.Is(err, notes.ErrBackupUnsupported) {
			writeError(w, http.StatusNotImplemented, "backup_unsupported", err.Error())
			return
		}
		log.Printf("[ERROR] backup: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "backup failed")
		return
	}
	writeAttachment(w, "application/x-sqlite3", s.store.BackupFileName(), buf.Bytes())
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "note id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notes.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, notes.ErrEventRequired),
		errors.Is(err, notes.ErrInvalidKind),
		errors.Is(err, notes.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_note", err.Error())
	default:
		log.Printf("[ERROR] notes store: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "database error")
	}
}
