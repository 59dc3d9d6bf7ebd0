package drm

// Result is the outcome of a single capability probe. It is constructed from
// the raw response map handed back by the host web view and never mutated.
// KeySystem and Supported are always present; every other field means
// "not specified" when empty, not "false" or "none".
type Result struct {
	KeySystem     string `json:"keySystem"`
	Supported     bool   `json:"isSupported"`
	SecurityLevel string `json:"securityLevel,omitempty"`
	Description   string `json:"description,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ResultFromMap folds the platform's raw response map into a Result.
// Missing or mistyped optional fields are treated as absent.
func ResultFromMap(m map[string]any) Result {
	r := Result{
		KeySystem:     stringField(m, "keySystem"),
		SecurityLevel: stringField(m, "securityLevel"),
		Description:   stringField(m, "description"),
		Error:         stringField(m, "error"),
	}
	if v, ok := m["isSupported"].(bool); ok {
		r.Supported = v
	}
	return r
}

// ToMap renders the result as the generic key-value structure used on the
// bridge wire. Absent optional fields are omitted, not emitted empty.
func (r Result) ToMap() map[string]any {
	m := map[string]any{
		"keySystem":   r.KeySystem,
		"isSupported": r.Supported,
	}
	if r.SecurityLevel != "" {
		m["securityLevel"] = r.SecurityLevel
	}
	if r.Description != "" {
		m["description"] = r.Description
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	return m
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
