package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

func (s *Server) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/courses", s.handleCourses)
	mux.HandleFunc("GET /api/courses/{id}", s.handleCourse)
	mux.HandleFunc("GET /api/courses/{id}/prerequisites", s.handlePrerequisites)
	mux.HandleFunc("GET /api/courses/{id}/next", s.handleNext)
	mux.HandleFunc("GET /api/courses/{id}/cascade", s.handleCascade)
	mux.HandleFunc("POST /api/curriculum/{code}", s.handleLoad)
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	s.mux = mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Current().view())
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	c, found := s.Current().Graph.Course(id)
	if !found {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("course %d not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(c))
}

func (s *Server) handlePrerequisites(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Current().Graph.Prerequisites(id))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	recursive := false
	if raw := r.URL.Query().Get("recursive"); raw != "" {
		var err error
		recursive, err = strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid recursive flag %q", raw))
			return
		}
	}
	s.writeJSON(w, http.StatusOK, s.Current().Graph.NextCourses(id, recursive))
}

func (s *Server) handleCascade(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Current().cascade(id))
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	snap, err := s.Load(r.Context(), code)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownCurriculum) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.broadcastCurriculum(snap)
	s.writeJSON(w, http.StatusOK, snap.view())
}

// pathID parses the {id} path value, answering 400 when it is not a number.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid course id %q", raw))
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response.", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
