package probe

import (
	"strings"

	"github.com/emeprobe/emeprobe/internal/drm"
)

// Summary renders aggregated results as human-readable text, one line per
// key system: a check or cross indicator, the friendly name, and the
// security level in parentheses when reported.
func Summary(results []drm.Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		if r.Supported {
			b.WriteString("✓ ")
		} else {
			b.WriteString("✗ ")
		}
		b.WriteString(drm.FriendlyName(r.KeySystem))
		if r.SecurityLevel != "" {
			b.WriteString(" (")
			b.WriteString(r.SecurityLevel)
			b.WriteByte(')')
		}
	}
	return b.String()
}
