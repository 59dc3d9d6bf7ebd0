// Package report renders aggregated capability results into a JSON report
// file for operators and support bundles.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/renameio/v2"

	"github.com/emeprobe/emeprobe/internal/drm"
	"github.com/emeprobe/emeprobe/internal/log"
	"github.com/emeprobe/emeprobe/internal/probe"
)

// Entry is one key system in the report.
type Entry struct {
	KeySystem     string `json:"keySystem"`
	FriendlyName  string `json:"friendlyName"`
	Supported     bool   `json:"isSupported"`
	SecurityLevel string `json:"securityLevel,omitempty"`
	Description   string `json:"description,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Report is the exported capability report.
type Report struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	AnySupported bool      `json:"anySupported"`
	Summary      string    `json:"summary"`
	Systems      []Entry   `json:"systems"`
}

// Build assembles a report from aggregated probe results.
func Build(results []drm.Result) Report {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, Entry{
			KeySystem:     r.KeySystem,
			FriendlyName:  drm.FriendlyName(r.KeySystem),
			Supported:     r.Supported,
			SecurityLevel: r.SecurityLevel,
			Description:   r.Description,
			Error:         r.Error,
		})
	}
	return Report{
		GeneratedAt:  time.Now().UTC(),
		AnySupported: probe.AnySupported(results),
		Summary:      probe.Summary(results),
		Systems:      entries,
	}
}

// Write writes the report to path atomically: temp file, fsync, rename.
// A crashed write never leaves a truncated report behind.
func Write(ctx context.Context, path string, rep Report) error {
	logger := log.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending report file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending report file")
		}
	}()

	enc := json.NewEncoder(pendingFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("write report data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace report file: %w", err)
	}
	return nil
}
