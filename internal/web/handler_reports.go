package web

import (
	"net/http"
	"strconv"
)

// intParam parses an optional integer query parameter. Missing means 0.
func intParam(r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(r, "days")
	if !ok {
		badRequest(w, "days must be a non-negative integer", s.logger)
		return
	}
	limit, ok := intParam(r, "limit")
	if !ok {
		badRequest(w, "limit must be a non-negative integer", s.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.service.Upcoming(days, limit), s.logger)
}

// reportParams reads projectId, from and to. projectId is required.
func reportParams(r *http.Request) (projectID, from, to string, ok bool) {
	q := r.URL.Query()
	projectID = q.Get("projectId")
	return projectID, q.Get("from"), q.Get("to"), projectID != ""
}

func (s *Server) handleJobReportJSON(w http.ResponseWriter, r *http.Request) {
	projectID, from, to, ok := reportParams(r)
	if !ok {
		badRequest(w, "projectId is required", s.logger)
		return
	}
	rep, err := s.service.JobReport(projectID, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep, s.logger)
}

// handleJobReportPage renders the printable job report.
func (s *Server) handleJobReportPage(w http.ResponseWriter, r *http.Request) {
	projectID, from, to, ok := reportParams(r)
	if !ok {
		http.Error(w, "projectId is required", http.StatusBadRequest)
		return
	}
	rep, err := s.service.JobReport(projectID, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.renderPage(w,
		map[string]any{"Report": rep, "Theme": s.service.Settings().Theme},
		"base.html", "job_report.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleInvoiceJSON(w http.ResponseWriter, r *http.Request) {
	projectID, from, to, ok := reportParams(r)
	if !ok {
		badRequest(w, "projectId is required", s.logger)
		return
	}
	x, err := s.service.BillableExport(projectID, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, x, s.logger)
}

// handleInvoiceText returns the billable export as a copy-paste block.
func (s *Server) handleInvoiceText(w http.ResponseWriter, r *http.Request) {
	projectID, from, to, ok := reportParams(r)
	if !ok {
		http.Error(w, "projectId is required", http.StatusBadRequest)
		return
	}
	x, err := s.service.BillableExport(projectID, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(x.Text() + "\n")); err != nil {
		s.logger.Error("write invoice failed", "error", err)
	}
}
