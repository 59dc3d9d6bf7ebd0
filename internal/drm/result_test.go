package drm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestResult_MapRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
	}{
		{
			name:   "required fields only",
			result: Result{KeySystem: KeySystemWidevine, Supported: true},
		},
		{
			name: "all optional fields present",
			result: Result{
				KeySystem:     KeySystemPlayReadyHardware,
				Supported:     true,
				SecurityLevel: "3000",
				Description:   "hardware-backed",
			},
		},
		{
			name: "unsupported with error",
			result: Result{
				KeySystem: KeySystemFairPlay,
				Supported: false,
				Error:     "NotSupportedError: no matching key system",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ResultFromMap(tt.result.ToMap())
			if diff := cmp.Diff(tt.result, got); diff != "" {
				t.Errorf("round trip mismatch (-orig +got):\n%s", diff)
			}
		})
	}
}

func TestResult_ToMap_OmitsAbsentFields(t *testing.T) {
	t.Parallel()

	m := Result{KeySystem: KeySystemWidevine, Supported: false}.ToMap()
	assert.Equal(t, map[string]any{
		"keySystem":   KeySystemWidevine,
		"isSupported": false,
	}, m)
}

func TestResultFromMap_ToleratesBadTypes(t *testing.T) {
	t.Parallel()

	got := ResultFromMap(map[string]any{
		"keySystem":     KeySystemWidevine,
		"isSupported":   "yes", // mistyped, treated as absent
		"securityLevel": 2,     // mistyped, treated as absent
	})
	assert.Equal(t, Result{KeySystem: KeySystemWidevine}, got)
}
