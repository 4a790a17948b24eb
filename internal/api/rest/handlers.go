package rest

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tastebox/internal/app/report"
	"github.com/osa030/tastebox/internal/domain/track"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.Registered())
}

func (s *Server) handleNamedReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, ok := report.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Wrapf(report.ErrUnknownReport, "%q", name).Error())
		return
	}
	s.handleReport(def)(w, r)
}

func (s *Server) handleReport(def report.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		timeRange := s.defaultRange
		if def.TimeRanged {
			tr, err := track.ParseTimeRange(r.URL.Query().Get("time_range"), s.defaultRange)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			timeRange = tr
		}

		result, err := def.Run(r.Context(), s.aggregator, timeRange)
		if err != nil {
			logger.Error().Err(err).Str("report", def.Name).Msg("report failed")
			status := statusFor(err)
			writeError(w, status, http.StatusText(status))
			return
		}

		logger.Debug().Str("report", def.Name).Str("time_range", string(timeRange)).Msg("report computed")
		writeJSON(w, http.StatusOK, result)
	}
}

// statusFor maps a report error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, track.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrUnknownReport):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
