// Package drm holds the value types for Encrypted Media Extensions (EME)
// capability probing: key system identifiers, media key system configurations
// and capability results.
package drm

import "strings"

// Well-known key system identifiers as exposed by browser EME implementations.
const (
	KeySystemPlayReady                   = "com.microsoft.playready"
	KeySystemPlayReadyRecommendation     = "com.microsoft.playready.recommendation"
	KeySystemPlayReadyRecommendation3000 = "com.microsoft.playready.recommendation.3000"
	KeySystemPlayReadyHardware           = "com.microsoft.playready.hardware"
	KeySystemWidevine                    = "com.widevine.alpha"
	KeySystemFairPlay                    = "com.apple.fps"
	KeySystemFairPlay1_0                 = "com.apple.fps.1_0"
)

// KeySystems returns the fixed, ordered registry of well-known key systems.
// Aggregate probes iterate this list in order.
func KeySystems() []string {
	return []string{
		KeySystemPlayReady,
		KeySystemPlayReadyRecommendation,
		KeySystemPlayReadyRecommendation3000,
		KeySystemPlayReadyHardware,
		KeySystemWidevine,
		KeySystemFairPlay,
		KeySystemFairPlay1_0,
	}
}

// FriendlyName maps a key system identifier to a display name.
// Precedence is fixed: the hardware variant wins over the recommendation
// variant, which wins over the generic PlayReady match. Unknown identifiers
// are returned unchanged.
func FriendlyName(keySystem string) string {
	id := strings.ToLower(strings.TrimSpace(keySystem))
	switch {
	case strings.Contains(id, "hardware"):
		return "PlayReady Hardware"
	case strings.Contains(id, "recommendation"):
		return "PlayReady Recommendation"
	case strings.Contains(id, "playready"):
		return "PlayReady"
	case strings.Contains(id, "widevine"):
		return "Widevine"
	case strings.Contains(id, "fairplay"), strings.Contains(id, "fps"):
		return "FairPlay"
	default:
		return keySystem
	}
}
