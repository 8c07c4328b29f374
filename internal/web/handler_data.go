package web

import (
	"io"
	"mime"
	"net/http"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Settings(), s.logger)
}

// handleUpdateSettings merges the body over the current settings, so a
// partial document only changes the keys it names.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.service.Settings()
	if err := s.decodeBody(r, &settings); err != nil {
		badRequest(w, err.Error(), s.logger)
		return
	}
	saved, err := s.service.UpdateSettings(r.Context(), settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved, s.logger)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	saved, err := s.service.ToggleTheme(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved, s.logger)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": s.service.ExportFilename()}))
	if err := s.service.WriteExport(w); err != nil {
		s.logger.Error("export failed", "error", err)
	}
}

// handleImport accepts the export document either as the raw request body
// or as a "file" field of a multipart form.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = io.LimitReader(r.Body, maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			badRequest(w, "failed to parse form", s.logger)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "file required", s.logger)
			return
		}
		defer closeWithLog(file, "import file", s.logger)
		body = file
	}

	data, err := io.ReadAll(body)
	if err != nil {
		badRequest(w, "failed to read import", s.logger)
		return
	}
	if err := s.service.Import(r.Context(), data); err != nil {
		s.writeError(w, r, err)
		return
	}
	snapshot := s.service.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"counts": snapshot.Counts()}, s.logger)
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Wipe(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	id, err := s.service.LoadDemo(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"projectId": id}, s.logger)
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListBackups(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infos, s.logger)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	key, err := s.service.Backup(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key}, s.logger)
}

// handleRestore restores the backup named by the "key" query parameter, or
// the most recent one.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	key, err := s.service.Restore(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key}, s.logger)
}
