package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"projectmap/models"
	"projectmap/services"
)

type healthResponse struct {
	Status   string `json:"status"`
	Loaded   bool   `json:"loaded"`
	Projects int    `json:"projects"`
	Dropped  int    `json:"dropped"`
	Sessions int    `json:"sessions"`
	Error    string `json:"error,omitempty"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type selectionRequest struct {
	ID string `json:"id"`
}

type selectionResponse struct {
	Recenter *models.Recenter `json:"recenter,omitempty"`
	View     models.ViewState `json:"view"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Sessions: s.sessions.Len()}
	if c := s.dataset.Catalog(); c != nil {
		resp.Loaded = true
		resp.Projects = len(c.Projects())
		resp.Dropped = c.Dropped()
	}
	if err := s.dataset.Err(); err != nil {
		resp.Status = "error"
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	c := s.dataset.Catalog()
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, "loading")
		return
	}
	writeJSON(w, http.StatusOK, c.Options())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"id": s.sessions.Create()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *services.Session) error { return nil })
}

func (s *Server) handleChangeFilter(w http.ResponseWriter, r *http.Request) {
	var change models.FilterChange
	if !decodeBody(w, r, &change) {
		return
	}
	s.withSession(w, r, func(sess *services.Session) error {
		return sess.ChangeFilter(change)
	})
}

func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *services.Session) error {
		sess.ClearFilters()
		return nil
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.withSession(w, r, func(sess *services.Session) error {
		sess.SetSearch(req.Term)
		return nil
	})
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	var b models.Bounds
	if !decodeBody(w, r, &b) {
		return
	}
	if b.South > b.North || b.West > b.East {
		writeError(w, http.StatusBadRequest, "bounds: south/west must not exceed north/east")
		return
	}
	s.withSession(w, r, func(sess *services.Session) error {
		sess.SetBounds(b)
		return nil
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var resp selectionResponse
	err := s.sessions.With(mux.Vars(r)["id"], func(sess *services.Session) error {
		recenter, err := sess.Select(req.ID)
		if err != nil {
			return err
		}
		resp.Recenter = recenter
		resp.View = sess.View()
		return nil
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// withSession applies fn to the addressed session and answers with the
// recomputed view.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*services.Session) error) {
	var view models.ViewState
	err := s.sessions.With(mux.Vars(r)["id"], func(sess *services.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, services.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "loading")
	case errors.Is(err, services.ErrUnknownFilterKey),
		errors.Is(err, services.ErrInvalidFilterValue),
		errors.Is(err, services.ErrInvalidThreshold):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("[http] Unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg, "code": status})
}
