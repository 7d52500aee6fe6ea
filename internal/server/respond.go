package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"blog-api/internal/model"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status line is already out, so the client just gets a short body
		s.logger.Debug("Failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

// writeError maps domain errors onto status codes. Anything unexpected is
// logged and reported as a 500 without its details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, model.ErrInvalidRequestedID):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: model.ErrInvalidRequestedID.Error()})
	case errors.Is(err, model.ErrArticleNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Article not found"})
	case errors.As(err, &verr), errors.Is(err, errBadBody):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
