package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldProbeID   = "probe_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// DRM fields
	FieldKeySystem     = "key_system"
	FieldSupported     = "supported"
	FieldSecurityLevel = "security_level"

	// Path / URL fields
	FieldPath      = "path"
	FieldBridgeURL = "bridge_url"
)
