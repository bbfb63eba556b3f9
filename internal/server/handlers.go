package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/fgeck/wol-server/internal/services/probe"
)

const indexPage = `<html>
    <head>
        <title>WOL Server</title>
    </head>
    <body>
        <h1>WOL Server</h1>
        <p>Wake on LAN server</p>
    </body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write([]byte(indexPage))
}

func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	var req models.WakeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.wake.Send(r.Context(), req)
	if err != nil {
		s.metrics.dispatchErrors.WithLabelValues(dispatchKind(err)).Inc()
		s.logger.Error().Err(err).Str("mac", req.MACAddress).Msg("failed to send magic packet")
		writeStatus(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	s.metrics.packetsSent.Inc()
	s.logger.Info().
		Str("mac", result.MACAddress).
		Str("destination", result.Destination).
		Msg("magic packet sent")

	writeStatus(w, http.StatusOK, "Magic packet sent successfully")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	var req models.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.probe.Probe(r.Context(), req)
	if err != nil {
		if errors.Is(err, probe.ErrInvalidTarget) {
			s.metrics.statusProbes.WithLabelValues("invalid").Inc()
			writeStatus(w, http.StatusBadRequest, "Error: "+err.Error())
			return
		}
		s.logger.Error().Err(err).Str("ip", req.IP).Str("port", req.Port).Msg("status probe failed")
		writeStatus(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	s.logger.Info().
		Str("ip", req.IP).
		Str("port", req.Port).
		Bool("open", result.Open).
		Dur("probe_duration", result.Duration).
		Msg("status probe finished")

	if result.Open {
		s.metrics.statusProbes.WithLabelValues("open").Inc()
		writeText(w, http.StatusOK, fmt.Sprintf("Server is Online port %s is open on %s", req.Port, req.IP))
		return
	}

	s.metrics.statusProbes.WithLabelValues("closed").Inc()
	writeText(w, http.StatusOK, fmt.Sprintf("Server is Offline port %s is closed on %s", req.Port, req.IP))
}

// authorize writes a 401 and returns false when r lacks a valid cookie.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	if err := s.auth.CheckRequest(r); err != nil {
		s.metrics.authRejections.WithLabelValues(authReason(err)).Inc()
		writeStatus(w, http.StatusUnauthorized, "Unauthorized request")
		return false
	}
	return true
}

// decodeJSON decodes the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeStatus(w, http.StatusBadRequest, "Error: "+err.Error())
		return false
	}
	return true
}

// writeStatus writes a body of the form "Status: <code>, <message>".
func writeStatus(w http.ResponseWriter, status int, message string) {
	writeText(w, status, fmt.Sprintf("Status: %d, %s", status, message))
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write([]byte(body))
}
