// Package bridge is the boundary to the host web view. The host owns the
// actual Encrypted Media Extensions query (requestMediaKeySystemAccess);
// this package only carries the request and hands back the raw answer.
package bridge

import "context"

// Controller asks the host web view whether a key system is supported.
// The configuration map uses the generic key-value form produced by
// drm.Configuration.ToMap; a nil map means "no configuration, platform
// defaults". The returned map is the platform's raw response and is decoded
// by the caller, never interpreted here.
type Controller interface {
	CheckDRMSupport(ctx context.Context, keySystem string, config map[string]any) (map[string]any, error)
}
