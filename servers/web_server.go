// servers/web_server.go
package servers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"guildbot/interfaces"
	"guildbot/rules"
	"guildbot/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// StatusStore is the storage the status endpoints read from.
type StatusStore interface {
	PingDB() error
	RecentColorChanges(guildID string, limit int) ([]storage.ColorChange, error)
}

// WebServer はヘルスチェック、メトリクス、ルール一覧を公開するHTTPサーバーです。
type WebServer struct {
	log   interfaces.Logger
	db    StatusStore
	book  *rules.Book
	http  *http.Server
	addr  string
	ln    net.Listener
	errCh chan error
}

// NewWebServer は新しいWebServerインスタンスを作成します。
func NewWebServer(addr string, log interfaces.Logger, db StatusStore, book *rules.Book) *WebServer {
	s := &WebServer{
		log:  log,
		db:   db,
		book: book,
		addr: addr,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/rules", s.listRules).Methods(http.MethodGet)
	r.HandleFunc("/rules/{name}", s.getRule).Methods(http.MethodGet)
	r.HandleFunc("/guilds/{guildID:[0-9]+}/colors", s.colorHistory).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *WebServer) Name() string { return "status" }

// Handler exposes the router, mainly for tests.
func (s *WebServer) Handler() http.Handler { return s.http.Handler }

// Addr returns the bound address once the server is started.
func (s *WebServer) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start はWebサーバーを起動します。待ち受けはバックグラウンドで行います。
func (s *WebServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.errCh = make(chan error, 1)
	s.log.Info("Status server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Status server stopped unexpectedly", "error", err)
			s.errCh <- err
		}
		close(s.errCh)
	}()
	return nil
}

// Stop はWebサーバーをシャットダウンします。
func (s *WebServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if s.errCh != nil {
		return <-s.errCh
	}
	return nil
}

func (s *WebServer) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingDB(); err != nil {
		s.log.Warn("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *WebServer) listRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.book.All())
}

func (s *WebServer) getRule(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.book.Lookup(mux.Vars(r)["name"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "rule not found"})
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *WebServer) colorHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	changes, err := s.db.RecentColorChanges(mux.Vars(r)["guildID"], limit)
	if err != nil {
		s.log.Error("Failed to read color history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
