package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hamed0406/geocheck/internal/check"
	"github.com/hamed0406/geocheck/internal/location"
	"github.com/hamed0406/geocheck/internal/repo"
)

type checkRequest struct {
	URL     string `json:"url" validate:"required,max=2048"`
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"required"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Checks.Locations().Entries())
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if dec, err := url.PathUnescape(country); err == nil {
		country = dec
	}
	cities, err := s.Checks.Locations().Cities(country)
	if errors.Is(err, location.ErrUnknownCountry) {
		writeError(w, r, http.StatusNotFound, "unknown country")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "lookup failed")
		return
	}
	render.JSON(w, r, map[string]any{"country": country, "cities": cities})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Checks.State())
}

func (s *Server) handleRequestCheck(w http.ResponseWriter, r *http.Request) {
	var in checkRequest
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, 1<<16), &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.URL = strings.TrimSpace(in.URL)
	if err := s.validate.Struct(in); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid input", Fields: fieldErrors(err)})
		return
	}
	if !isValidHTTPURL(in.URL) {
		writeError(w, r, http.StatusBadRequest, "url must be http(s)")
		return
	}

	a, err := s.Checks.RequestCheck(r.Context(), normalizeHTTPURL(in.URL), in.Country, in.City)
	switch {
	case errors.Is(err, check.ErrBusy):
		writeError(w, r, http.StatusConflict, "a check is already in progress")
		return
	case errors.Is(err, check.ErrClosed):
		writeError(w, r, http.StatusServiceUnavailable, "shutting down")
		return
	case errors.Is(err, check.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.Logger.Error("request_check_failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "could not start check")
		return
	}

	w.Header().Set("Location", "/api/checks/"+a.ID)
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, a)
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	all, err := s.Checks.Attempts(r.Context())
	if err != nil {
		s.Logger.Error("list_checks_failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "list failed")
		return
	}
	render.JSON(w, r, all)
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	a, err := s.Checks.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "check not found")
		return
	}
	if err != nil {
		s.Logger.Error("get_check_failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "lookup failed")
		return
	}
	render.JSON(w, r, a)
}

func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}

func isValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// normalizeHTTPURL lowercases the host, drops default ports and a bare
// trailing slash (kept when a query or fragment follows). Unparseable input is returned unchanged.
func normalizeHTTPURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}
	if u.Path == "/" && u.RawQuery == "" && u.Fragment == "" {
		u.Path = ""
	}
	return u.String()
}
