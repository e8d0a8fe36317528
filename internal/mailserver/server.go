// Package mailserver is a development implementation of the mail API the
// front-end consumes, serving a single configured user.
package mailserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mailpane/internal/model"
	"mailpane/internal/store"
)

// Store is the storage the server needs. *store.SQLiteStore satisfies it.
type Store interface {
	ListMailbox(ctx context.Context, owner string, mailbox model.Mailbox) ([]model.Message, error)
	GetEmail(ctx context.Context, owner string, id int) (model.Message, error)
	CreateEmail(ctx context.Context, e store.NewEmail) (int, error)
	UpdateEmail(ctx context.Context, owner string, id int, patch model.Patch) error
}

// Error texts returned in {"error": ...} bodies.
const (
	errInvalidMailbox = "Invalid mailbox."
	errNotFound       = "Email not found."
	errNoRecipients   = "At least one recipient required."
	errUnknownUser    = "User with email %s does not exist."
	errPostRequired   = "POST request required."
	errGetOrPut       = "GET or PUT request required."
	errBadJSON        = "Invalid JSON body."
	errInternal       = "Internal server error."
)

type Server struct {
	store  Store
	user   string
	logger *slog.Logger
	now    func() time.Time
	mux    *http.ServeMux
}

func NewServer(st Store, user string, logger *slog.Logger) *Server {
	s := &Server{
		store:  st,
		user:   strings.ToLower(strings.TrimSpace(user)),
		logger: logger,
		now:    time.Now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/emails", s.handleCompose)
	mux.HandleFunc("/emails/", s.handleEmails)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	s.mux = mux
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", reqID)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	s.mux.ServeHTTP(rec, r)
	s.logger.Info("request",
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type composeRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusBadRequest, errPostRequired)
		return
	}
	var payload composeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&payload); err != nil {
		s.respondError(w, http.StatusBadRequest, errBadJSON)
		return
	}
	id, err := s.store.CreateEmail(r.Context(), store.NewEmail{
		Sender:     s.user,
		Recipients: payload.Recipients,
		Subject:    payload.Subject,
		Body:       payload.Body,
		At:         s.now(),
	})
	var unknown *store.UnknownUserError
	switch {
	case errors.Is(err, store.ErrNoRecipients):
		s.respondError(w, http.StatusBadRequest, errNoRecipients)
		return
	case errors.As(err, &unknown):
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf(errUnknownUser, unknown.Email))
		return
	case err != nil:
		s.logger.Error("create email", "error", err)
		s.respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Email sent successfully."})
}

// handleEmails serves /emails/<id> and /emails/<mailbox>.
func (s *Server) handleEmails(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/emails/"), "/")
	if key == "" || strings.Contains(key, "/") {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(key)
	if err != nil {
		s.handleMailbox(w, r, model.Mailbox(key))
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r, id)
	case http.MethodPut:
		s.handleUpdate(w, r, id)
	default:
		s.respondError(w, http.StatusBadRequest, errGetOrPut)
	}
}

func (s *Server) handleMailbox(w http.ResponseWriter, r *http.Request, mailbox model.Mailbox) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	msgs, err := s.store.ListMailbox(r.Context(), s.user, mailbox)
	if errors.Is(err, store.ErrInvalidMailbox) {
		s.respondError(w, http.StatusBadRequest, errInvalidMailbox)
		return
	}
	if err != nil {
		s.logger.Error("list mailbox", "mailbox", string(mailbox), "error", err)
		s.respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	s.respondJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, id int) {
	msg, err := s.store.GetEmail(r.Context(), s.user, id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, errNotFound)
		return
	}
	if err != nil {
		s.logger.Error("get email", "id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	s.respondJSON(w, http.StatusOK, msg)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, id int) {
	var patch model.Patch
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, errBadJSON)
		return
	}
	err := s.store.UpdateEmail(r.Context(), s.user, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, errNotFound)
		return
	}
	if err != nil {
		s.logger.Error("update email", "id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) respondError(w http.ResponseWriter, status int, text string) {
	s.respondJSON(w, status, map[string]string{"error": text})
}
