package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/emeprobe/emeprobe/internal/drm"
	"github.com/emeprobe/emeprobe/internal/history"
	"github.com/emeprobe/emeprobe/internal/log"
	"github.com/emeprobe/emeprobe/internal/probe"
	"github.com/emeprobe/emeprobe/internal/report"
)

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready once the prober is wired. The bridge itself is
// intentionally not pinged here: an unreachable web view host surfaces as
// unsupported probe results, not as service unreadiness.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.prober == nil {
		writeServiceUnavailable(w, "prober not initialized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type keySystemInfo struct {
	KeySystem    string `json:"keySystem"`
	FriendlyName string `json:"friendlyName"`
}

func (s *Server) handleKeySystems(w http.ResponseWriter, _ *http.Request) {
	systems := drm.KeySystems()
	out := make([]keySystemInfo, 0, len(systems))
	for _, ks := range systems {
		out = append(out, keySystemInfo{KeySystem: ks, FriendlyName: drm.FriendlyName(ks)})
	}
	writeJSON(w, http.StatusOK, out)
}

type checkRequest struct {
	KeySystem     string         `json:"keySystem"`
	Configuration map[string]any `json:"configuration,omitempty"`
	// Preset selects a builtin configuration ("software" or "hardware").
	// Ignored when an explicit configuration is given.
	Preset string `json:"preset,omitempty"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.KeySystem) == "" {
		writeError(w, errors.New("keySystem is required"))
		return
	}

	cfg, err := resolveConfiguration(req)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := log.ContextWithProbeID(r.Context(), uuid.New().String())
	result := s.prober.Check(ctx, req.KeySystem, cfg)
	writeJSON(w, http.StatusOK, result)
}

func resolveConfiguration(req checkRequest) (*drm.Configuration, error) {
	if req.Configuration != nil {
		return drm.ConfigFromMap(req.Configuration), nil
	}
	switch req.Preset {
	case "":
		return nil, nil
	case "software":
		return drm.SoftwareSecurityConfig(), nil
	case "hardware":
		return drm.HardwareSecurityConfig(), nil
	default:
		return nil, errors.New("unknown preset: " + req.Preset)
	}
}

type capabilitiesResponse struct {
	AnySupported bool         `json:"anySupported"`
	Results      []drm.Result `json:"results"`
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	ctx := log.ContextWithProbeID(r.Context(), uuid.New().String())
	results := s.prober.CheckAll(ctx)
	writeJSON(w, http.StatusOK, capabilitiesResponse{
		AnySupported: probe.AnySupported(results),
		Results:      results,
	})
}

func (s *Server) handleCapabilityMap(w http.ResponseWriter, r *http.Request) {
	ctx := log.ContextWithProbeID(r.Context(), uuid.New().String())
	results := s.prober.CheckAll(ctx)
	writeJSON(w, http.StatusOK, probe.CapabilityMap(results))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := log.ContextWithProbeID(r.Context(), uuid.New().String())
	results := s.prober.CheckAll(ctx)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(probe.Summary(results)))
}

func (s *Server) handleRecentProbes(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeServiceUnavailable(w, "probe history is disabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 1000 {
			writeError(w, errors.New("limit must be an integer within [1,1000]"))
			return
		}
		limit = parsed
	}

	recs, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query probe history")
		writeInternalError(w)
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	ctx := log.ContextWithProbeID(r.Context(), uuid.New().String())
	results := s.prober.CheckAll(ctx)
	rep := report.Build(results)

	if err := report.Write(ctx, s.cfg.ReportPath, rep); err != nil {
		s.logger.Error().Err(err).Str(log.FieldPath, s.cfg.ReportPath).Msg("failed to write capability report")
		writeInternalError(w)
		return
	}

	s.logger.Info().
		Str("event", "report.exported").
		Str(log.FieldPath, s.cfg.ReportPath).
		Bool("any_supported", rep.AnySupported).
		Msg("capability report exported")
	writeJSON(w, http.StatusOK, rep)
}
