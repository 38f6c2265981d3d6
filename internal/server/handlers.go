package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fgeck/wolrelay/internal/models"
)

const defaultStatusPort = 22

type wakeRequest struct {
	Mac        string `json:"mac"`
	MacAddress string `json:"mac_address"`
}

func (r wakeRequest) mac() string {
	if r.Mac != "" {
		return r.Mac
	}
	return r.MacAddress
}

type sleepRequest struct {
	Host      string `json:"host"`
	IPAddress string `json:"ip_address"`
	IP        string `json:"ip"`
	OS        string `json:"os"`
	Command   string `json:"command"`
}

func (r sleepRequest) host() string {
	switch {
	case r.Host != "":
		return r.Host
	case r.IPAddress != "":
		return r.IPAddress
	default:
		return r.IP
	}
}

type controlRequest struct {
	Action string `json:"action"`
	wakeRequest
	sleepRequest
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	wakeRequestsTotal.Inc()

	var req wakeRequest
	if !s.decodeBody(w, r, "wake", &req) {
		return
	}

	if req.mac() == "" {
		s.respondError(w, "wake", models.NewValidationError("missing 'mac' parameter"))
		return
	}

	if _, err := s.wakeSvc.Wake(r.Context(), req.mac()); err != nil {
		s.respondError(w, "wake", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	sleepRequestsTotal.Inc()

	var req sleepRequest
	if !s.decodeBody(w, r, "sleep", &req) {
		return
	}

	if req.host() == "" {
		s.respondError(w, "sleep", models.NewValidationError("missing 'host' or 'ip_address' parameter"))
		return
	}

	if _, err := s.sleepSvc.Sleep(r.Context(), req.host(), req.OS, req.Command); err != nil {
		s.respondError(w, "sleep", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	statusRequestsTotal.Inc()

	query := r.URL.Query()
	ip := query.Get("ip")
	if ip == "" {
		s.respondError(w, "status", models.NewValidationError("IP address required"))
		return
	}

	port := defaultStatusPort
	if raw := query.Get("port"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, "status", models.NewValidationError("invalid port value"))
			return
		}
		port = parsed
	}

	result, err := s.probeSvc.Classify(r.Context(), ip, port)
	if err != nil {
		s.respondError(w, "status", err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleControl multiplexes wake and sleep behind one endpoint; older
// callers of the relay use it instead of the dedicated paths.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if !s.decodeBody(w, r, "control", &req) {
		return
	}

	switch strings.ToLower(req.Action) {
	case "wake":
		wakeRequestsTotal.Inc()
		if req.mac() == "" {
			s.respondError(w, "control", models.NewValidationError("missing 'mac_address' parameter for wake action"))
			return
		}
		if _, err := s.wakeSvc.Wake(r.Context(), req.mac()); err != nil {
			s.respondError(w, "control", err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "action": "wake"})

	case "sleep":
		sleepRequestsTotal.Inc()
		if req.host() == "" {
			s.respondError(w, "control", models.NewValidationError("missing 'ip_address' or 'host' parameter for sleep action"))
			return
		}
		if _, err := s.sleepSvc.Sleep(r.Context(), req.host(), req.OS, req.Command); err != nil {
			s.respondError(w, "control", err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "action": "sleep"})

	default:
		s.respondError(w, "control", models.NewValidationError("unsupported 'action' value, use 'wake' or 'sleep'"))
	}
}

// decodeBody rejects malformed JSON with 400 before any service runs.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, route string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, route, models.NewValidationError("invalid JSON body"))
		return false
	}
	return true
}

// respondError maps the error taxonomy onto status codes: validation
// failures are 400, remote commands that exited non-zero are 502 with
// the command line surfaced, everything else is 500.
func (s *Server) respondError(w http.ResponseWriter, route string, err error) {
	requestErrorsTotal.WithLabelValues(route).Inc()

	var validationErr *models.ValidationError
	var cmdErr *models.CommandError

	switch {
	case errors.As(err, &validationErr):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Msg})
	case errors.As(err, &cmdErr):
		s.logger.Error().
			Str("command", cmdErr.CommandLine()).
			Int("returncode", cmdErr.ExitCode).
			Msg("sleep command failed")
		s.writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":      "sleep command failed: " + cmdErr.Error(),
			"command":    cmdErr.CommandLine(),
			"returncode": cmdErr.ExitCode,
		})
	default:
		s.logger.Error().Err(err).Str("route", route).Msg("request failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("writing response failed")
	}
}
