package web

import (
	"net/http"
)

func (s *Server) handleGeocodeProject(w http.ResponseWriter, r *http.Request) {
	out, err := s.service.GeocodeProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out, s.logger)
}

func (s *Server) handleProjectOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.service.Overview(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o, s.logger)
}

func (s *Server) handleProjectCCC(w http.ResponseWriter, r *http.Request) {
	stages, err := s.service.CCC(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stages, s.logger)
}

func (s *Server) handleProjectMap(w http.ResponseWriter, r *http.Request) {
	links, ok, err := s.service.MapLinks(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "project has no address or coordinates"}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, links, s.logger)
}

func (s *Server) handleProjectSubbies(w http.ResponseWriter, r *http.Request) {
	usage, err := s.service.SubbieUsage(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usage, s.logger)
}
