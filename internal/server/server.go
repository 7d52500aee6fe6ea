package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"blog-api/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Articles is the set of operations the HTTP layer serves.
type Articles interface {
	List(ctx context.Context) ([]model.ResponseArticle, error)
	GetByID(ctx context.Context, rawID string) (model.ResponseArticle, error)
	Create(ctx context.Context, req model.RequestArticle) (string, error)
	Update(ctx context.Context, rawID string, req model.RequestArticle) (model.OperationType, error)
	Delete(ctx context.Context, rawID string) error
}

type Server struct {
	articles Articles
	logger   *zap.Logger
	validate *validator.Validate
	router   *mux.Router

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	closed   bool
}

func NewServer(articles Articles, logger *zap.Logger) *Server {
	s := &Server{
		articles: articles,
		logger:   logger,
		validate: newValidator(),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/", s.handleHello).Methods(http.MethodGet)
	s.router.HandleFunc("/articles", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/articles", s.handleCreate).Methods(http.MethodPost)
	s.router.HandleFunc("/articles/{id}", s.handleGet).Methods(http.MethodGet)
	s.router.HandleFunc("/articles/{id}", s.handleUpdate).Methods(http.MethodPut)
	s.router.HandleFunc("/articles/{id}", s.handleDelete).Methods(http.MethodDelete)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds addr. Once it returns, Stop is guaranteed to close the listener
// whether or not Serve has started.
func (s *Server) Listen(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return http.ErrServerClosed
	}
	if s.listener != nil {
		return errors.New("server already listening")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve handles requests on the listener bound by Listen until Stop.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, ln, closed := s.server, s.listener, s.closed
	s.mu.Unlock()

	if closed {
		return http.ErrServerClosed
	}
	if srv == nil {
		return errors.New("server is not listening")
	}
	return srv.Serve(ln)
}

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

// Stop gracefully shuts down. A server stopped before Listen never listens.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv, ln := s.server, s.listener
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	err := srv.Shutdown(ctx)
	// Shutdown only closes listeners Serve has picked up
	if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
		err = cerr
	}
	return err
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	articles, err := s.articles.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	article, err := s.articles.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeArticle(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.articles.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Consumers need the new id to reach the article again
	w.Header().Set("Location", articleLocation(id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	req, err := s.decodeArticle(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	op, err := s.articles.Update(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if op == model.OpCreated {
		w.Header().Set("Location", articleLocation(id))
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.articles.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errBadBody wraps request bodies that are not a JSON object.
var errBadBody = errors.New("request body must be a JSON article")

func (s *Server) decodeArticle(r *http.Request) (model.RequestArticle, error) {
	var body articleBody
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		return model.RequestArticle{}, errBadBody
	}
	// Exactly one JSON value, nothing after it
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.RequestArticle{}, errBadBody
	}
	if err := validateBody(s.validate, &body); err != nil {
		return model.RequestArticle{}, err
	}

	return model.RequestArticle{
		Title:    *body.Title,
		Content:  *body.Content,
		Creation: body.Creation,
		ID:       body.ID,
	}, nil
}

func articleLocation(id string) string {
	return "/articles/" + id
}
