// Package probe implements the capability probing facade. It shapes EME
// capability queries, delegates the actual check to the host web view through
// the bridge boundary, and reshapes the answers into uniform results.
package probe

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/emeprobe/emeprobe/internal/bridge"
	"github.com/emeprobe/emeprobe/internal/drm"
	"github.com/emeprobe/emeprobe/internal/log"
	"github.com/emeprobe/emeprobe/internal/metrics"
)

// Recorder receives every probe outcome for audit purposes. It must never
// influence an answer; failures to record are logged and ignored.
type Recorder interface {
	Record(ctx context.Context, r drm.Result) error
}

// Prober checks DRM capabilities through a bridge.Controller.
type Prober struct {
	controller bridge.Controller
	recorder   Recorder
	logger     zerolog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithRecorder attaches a probe audit recorder.
func WithRecorder(rec Recorder) Option {
	return func(p *Prober) {
		p.recorder = rec
	}
}

// New creates a Prober backed by the given web view controller.
func New(controller bridge.Controller, opts ...Option) *Prober {
	p := &Prober{
		controller: controller,
		logger:     log.WithComponent("probe"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check probes a single key system. The configuration is optional; nil asks
// the platform to use its defaults. Check resolves rather than fails: any
// bridge or platform error comes back as an unsupported result carrying the
// error text, never as a returned fault.
func (p *Prober) Check(ctx context.Context, keySystem string, cfg *drm.Configuration) drm.Result {
	start := time.Now()

	raw, err := p.controller.CheckDRMSupport(ctx, keySystem, cfg.ToMap())
	var result drm.Result
	if err != nil {
		result = drm.Result{KeySystem: keySystem, Supported: false, Error: err.Error()}
	} else {
		result = drm.ResultFromMap(raw)
		if result.KeySystem == "" {
			result.KeySystem = keySystem
		}
	}

	elapsed := time.Since(start)
	metrics.RecordProbe(keySystem, result.Supported, result.Error != "", elapsed)

	p.logger.Debug().
		Str(log.FieldKeySystem, keySystem).
		Bool(log.FieldSupported, result.Supported).
		Str(log.FieldSecurityLevel, result.SecurityLevel).
		Dur("elapsed", elapsed).
		Msg("capability probe finished")

	p.record(ctx, result)
	return result
}

// CheckAll probes every well-known key system in registry order, one at a
// time, and returns the results in that order.
func (p *Prober) CheckAll(ctx context.Context) []drm.Result {
	systems := drm.KeySystems()
	results := make([]drm.Result, 0, len(systems))
	for _, ks := range systems {
		results = append(results, p.Check(ctx, ks, nil))
	}
	return results
}

// AnySupported reports whether at least one result is supported.
func AnySupported(results []drm.Result) bool {
	for _, r := range results {
		if r.Supported {
			return true
		}
	}
	return false
}

// CapabilityMap reduces results into a map keyed by key system identifier.
// On duplicate identifiers the last result wins.
func CapabilityMap(results []drm.Result) map[string]drm.Result {
	out := make(map[string]drm.Result, len(results))
	for _, r := range results {
		out[r.KeySystem] = r
	}
	return out
}

func (p *Prober) record(ctx context.Context, r drm.Result) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(ctx, r); err != nil {
		p.logger.Warn().Err(err).
			Str(log.FieldKeySystem, r.KeySystem).
			Msg("failed to record probe outcome")
	}
}
