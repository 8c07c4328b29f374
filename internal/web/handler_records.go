package web

import (
	"context"
	"net/http"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
)

// listParams are the query parameters shared by every list endpoint.
type listParams struct {
	criteria query.Criteria
}

func parseListParams(r *http.Request) (listParams, error) {
	q := r.URL.Query()
	c := query.Criteria{
		ProjectID: q.Get("projectId"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}
	if err := domain.ValidateRange(c.From, c.To); err != nil {
		return listParams{}, err
	}
	return listParams{criteria: c}, nil
}

// resource wires one collection of the service to the JSON API.
type resource[T any] struct {
	name   string
	list   func(listParams) []T
	get    func(id string) (T, error)
	save   func(ctx context.Context, rec T) (T, error)
	delete func(ctx context.Context, id string) error
}

// register mounts list, create, read, replace and delete routes under
// /api/<name>.
func register[T any, P interface {
	*T
	domain.Record
}](s *Server, res resource[T]) {
	base := "/api/" + res.name

	s.mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		params, err := parseListParams(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res.list(params), s.logger)
	})

	s.mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := s.decodeBody(r, &rec); err != nil {
			badRequest(w, err.Error(), s.logger)
			return
		}
		saved, err := res.save(r.Context(), rec)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved, s.logger)
	})

	s.mux.HandleFunc("GET "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := res.get(r.PathValue("id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec, s.logger)
	})

	s.mux.HandleFunc("PUT "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, err := res.get(id); err != nil {
			s.writeError(w, r, err)
			return
		}
		var rec T
		if err := s.decodeBody(r, &rec); err != nil {
			badRequest(w, err.Error(), s.logger)
			return
		}
		P(&rec).RecordMeta().ID = id
		saved, err := res.save(r.Context(), rec)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, saved, s.logger)
	})

	s.mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := res.delete(r.Context(), r.PathValue("id")); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// handleAttachPhotos accepts a multipart form with one or more "photos"
// files. Unreadable or unsupported files are skipped.
func (s *Server) handleAttachPhotos(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			badRequest(w, "failed to parse form", s.logger)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				s.logger.Error("failed to remove upload files", "error", err)
			}
		}()

		headers := r.MultipartForm.File["photos"]
		if len(headers) == 0 {
			badRequest(w, "photos file required", s.logger)
			return
		}
		files := make([]attachment.Source, 0, len(headers))
		for _, fh := range headers {
			files = append(files, attachment.FromUpload(fh))
		}

		photos, err := s.service.AttachPhotos(r.Context(), collection, r.PathValue("id"), files)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"attached": photos,
			"skipped":  len(files) - len(photos),
		}, s.logger)
	}
}

func (s *Server) handleDetachPhoto(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.service.DetachPhoto(r.Context(), collection, r.PathValue("id"), r.PathValue("photoID"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
