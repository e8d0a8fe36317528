// Package web serves the browser shell and bridges browser actions to the
// view program.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mailpane/internal/alert"
	"mailpane/internal/model"
	"mailpane/internal/sse"
	"mailpane/internal/view"
	webassets "mailpane/web"
)

// Dispatcher delivers an event to the view program. *tea.Program satisfies it.
type Dispatcher interface {
	Send(msg tea.Msg)
}

const defaultPingInterval = 20 * time.Second

type Server struct {
	events   Dispatcher
	hub      *sse.Hub
	logger   *slog.Logger
	mux      *http.ServeMux
	staticFS fs.FS
	staticOK bool

	// PingInterval is the keep-alive period of event streams.
	PingInterval time.Duration
}

func NewServer(events Dispatcher, hub *sse.Hub, logger *slog.Logger) *Server {
	staticFS, err := webassets.Dist()
	staticOK := err == nil
	if err != nil {
		logger.Warn("ui assets not embedded", "error", err)
	}
	server := &Server{
		events:       events,
		hub:          hub,
		logger:       logger,
		staticFS:     staticFS,
		staticOK:     staticOK,
		PingInterval: defaultPingInterval,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/action", server.handleAction)
	mux.HandleFunc("/api/view", server.handleView)
	mux.HandleFunc("/api/stream", server.handleStream)
	server.mux = mux
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if strings.HasPrefix(p, "/api/") {
		s.mux.ServeHTTP(w, r)
		return
	}
	if p == "/health" {
		s.respondText(w, http.StatusOK, "ok")
		return
	}
	s.serveStatic(w, r)
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.staticOK {
		s.respondText(w, http.StatusNotFound, "UI assets missing from this build.")
		return
	}
	cleaned := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if cleaned == "" {
		cleaned = "index.html"
	}
	if s.serveEmbeddedFile(w, r, cleaned) {
		return
	}
	http.NotFound(w, r)
}

func (s *Server) serveEmbeddedFile(w http.ResponseWriter, r *http.Request, name string) bool {
	file, err := s.staticFS.Open(name)
	if err != nil {
		return false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	if seeker, ok := file.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.Name(), info.ModTime(), seeker)
		return true
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return false
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), bytes.NewReader(data))
	return true
}

// actionRequest is the body of POST /api/action. Which fields matter
// depends on Action.
type actionRequest struct {
	Action     string `json:"action"`
	Mailbox    string `json:"mailbox"`
	ID         int    `json:"id"`
	Mode       string `json:"mode"`
	Kind       string `json:"kind"`
	Recipients string `json:"recipients"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

var errUnknownAction = errors.New("unknown action")

// toMsg maps a browser action onto a controller event.
func (a actionRequest) toMsg() (tea.Msg, error) {
	switch a.Action {
	case "select":
		mb := model.Mailbox(a.Mailbox)
		if !mb.Valid() {
			return nil, fmt.Errorf("invalid mailbox %q", a.Mailbox)
		}
		return view.SelectMailboxMsg{Mailbox: mb}, nil
	case "compose":
		mode, ok := view.ParseComposeMode(a.Mode)
		if a.Mode == "" {
			mode, ok = view.ComposeNew, true
		}
		if !ok {
			return nil, fmt.Errorf("invalid compose mode %q", a.Mode)
		}
		return view.ComposeMsg{Mode: mode}, nil
	case "open":
		if a.ID <= 0 {
			return nil, fmt.Errorf("invalid id %d", a.ID)
		}
		return view.OpenMessageMsg{ID: a.ID}, nil
	case "submit":
		return view.SubmitComposeMsg{Recipients: a.Recipients, Subject: a.Subject, Body: a.Body}, nil
	case "archive":
		return view.ToggleArchiveMsg{}, nil
	case "dismiss":
		kind := alert.Kind(a.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("invalid alert kind %q", a.Kind)
		}
		return view.DismissAlertMsg{Kind: kind}, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownAction, a.Action)
	}
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var payload actionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	msg, err := payload.toMsg()
	if err != nil {
		s.logger.Debug("action rejected", "action", payload.Action, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Debug("action", "action", payload.Action)
	s.events.Send(msg)
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"html": s.hub.Latest()})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	// A fresh stream starts from the current document.
	_, _ = w.Write(sse.Frame(s.hub.Latest()))
	flusher.Flush()

	ticker := time.NewTicker(s.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(payload)
			flusher.Flush()
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		}
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) respondText(w http.ResponseWriter, status int, payload string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}
