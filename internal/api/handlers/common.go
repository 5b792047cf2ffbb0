package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"

	api "cifcheck/internal/api/application"
	"cifcheck/internal/enterprise/domain"
	"cifcheck/internal/shared/validation"
)

const maxBodyBytes = 1 << 20

// getLogger extracts the logger from the request context
// Falls back to slog.Default() if not found
func getLogger(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

type loggerKey struct{}

// WithLogger stores a logger for handlers to pick up.
func WithLogger(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, l)))
		})
	}
}

// annotate adds attributes to the request log line written by httplog
func annotate(r *http.Request, attrs ...slog.Attr) {
	httplog.SetAttrs(r.Context(), attrs...)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}

// respondDomainError maps registry and validation errors to HTTP statuses
func respondDomainError(w http.ResponseWriter, err error) {
	resp := api.ErrorResponse{Error: err.Error(), Kind: domain.KindName(err)}
	status := http.StatusInternalServerError

	var valErr *validation.ValidationError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		resp.Kind = "invalid_request"
		resp.Problems = valErr.Problems
	case errors.Is(err, domain.ErrRecordNotFound):
		status = http.StatusNotFound
		resp.Kind = "not_found"
	case errors.Is(err, domain.ErrMalformedDocument), errors.Is(err, domain.ErrMissingField):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidIdentifier):
		status = http.StatusUnprocessableEntity
	}

	respondJSON(w, status, resp)
}

// respondRequestError reports a request that could not be read, decoded or validated
func respondRequestError(w http.ResponseWriter, err error) {
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		respondDomainError(w, err)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	respondJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
}

// readBody reads a bounded request body, rejecting empty ones
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, errors.New("request body is required")
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("request body is required")
	}
	return body, nil
}

// decodeRequest reads a JSON body into dst and checks its validate tags
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return err
	}
	return validation.Struct(dst, "request")
}
