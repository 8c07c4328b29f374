package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/vbonduro/sitelog/internal/backup"
	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/report"
	"github.com/vbonduro/sitelog/internal/service"
)

const (
	maxBodySize   = 1 << 20          // 1 MB
	maxUploadSize = 50 * 1024 * 1024 // 50 MB
)

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response failed", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError maps service errors to HTTP statuses. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Field: verr.Field}, s.logger)
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, report.ErrProjectNotFound),
		errors.Is(err, service.ErrUnknownCollection),
		errors.Is(err, backup.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()}, s.logger)
	case errors.Is(err, service.ErrImportInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()}, s.logger)
	case errors.Is(err, service.ErrBackupsDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()}, s.logger)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"}, s.logger)
	}
}

func badRequest(w http.ResponseWriter, msg string, logger *slog.Logger) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg}, logger)
}

// decodeBody reads a JSON body, or a urlencoded/multipart form, into dst.
func (s *Server) decodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxBodySize); err != nil {
				return fmt.Errorf("invalid form: %w", err)
			}
		} else if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
		if err := s.decoder.Decode(dst, r.PostForm); err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
		return nil
	default:
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("invalid JSON body: %w", err)
		}
		return nil
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
