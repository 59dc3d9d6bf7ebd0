package drm

// Requirement mirrors the EME MediaKeysRequirement enum.
type Requirement string

const (
	RequirementRequired   Requirement = "required"
	RequirementOptional   Requirement = "optional"
	RequirementNotAllowed Requirement = "not-allowed"
)

// Capability describes one audio or video capability entry of a media key
// system configuration. ContentType is the only field the browser requires;
// Robustness and EncryptionScheme stay empty when unspecified.
type Capability struct {
	ContentType      string `json:"contentType"`
	Robustness       string `json:"robustness,omitempty"`
	EncryptionScheme string `json:"encryptionScheme,omitempty"`
}

// Configuration mirrors the EME MediaKeySystemConfiguration dictionary.
// Every field is optional; a nil slice or empty enum value means the field
// is left for the platform default, it is never sent as empty.
type Configuration struct {
	InitDataTypes         []string     `json:"initDataTypes,omitempty"`
	AudioCapabilities     []Capability `json:"audioCapabilities,omitempty"`
	VideoCapabilities     []Capability `json:"videoCapabilities,omitempty"`
	DistinctiveIdentifier Requirement  `json:"distinctiveIdentifier,omitempty"`
	PersistentState       Requirement  `json:"persistentState,omitempty"`
	SessionTypes          []string     `json:"sessionTypes,omitempty"`
}

// ToMap serializes the configuration into the generic key-value structure
// passed across the web view bridge. Only present fields appear in the map.
func (c *Configuration) ToMap() map[string]any {
	if c == nil {
		return nil
	}
	m := map[string]any{}
	if len(c.InitDataTypes) > 0 {
		m["initDataTypes"] = append([]string(nil), c.InitDataTypes...)
	}
	if len(c.AudioCapabilities) > 0 {
		m["audioCapabilities"] = capabilitiesToMaps(c.AudioCapabilities)
	}
	if len(c.VideoCapabilities) > 0 {
		m["videoCapabilities"] = capabilitiesToMaps(c.VideoCapabilities)
	}
	if c.DistinctiveIdentifier != "" {
		m["distinctiveIdentifier"] = string(c.DistinctiveIdentifier)
	}
	if c.PersistentState != "" {
		m["persistentState"] = string(c.PersistentState)
	}
	if len(c.SessionTypes) > 0 {
		m["sessionTypes"] = append([]string(nil), c.SessionTypes...)
	}
	return m
}

// ConfigFromMap rebuilds a Configuration from the bridge key-value form.
// Unknown keys are ignored; mistyped entries are skipped rather than failed,
// matching how the platform layer treats partial dictionaries.
func ConfigFromMap(m map[string]any) *Configuration {
	if m == nil {
		return nil
	}
	c := &Configuration{
		InitDataTypes:         stringSliceField(m, "initDataTypes"),
		AudioCapabilities:     capabilityField(m, "audioCapabilities"),
		VideoCapabilities:     capabilityField(m, "videoCapabilities"),
		DistinctiveIdentifier: Requirement(stringField(m, "distinctiveIdentifier")),
		PersistentState:       Requirement(stringField(m, "persistentState")),
		SessionTypes:          stringSliceField(m, "sessionTypes"),
	}
	return c
}

func capabilitiesToMaps(caps []Capability) []map[string]any {
	out := make([]map[string]any, 0, len(caps))
	for _, c := range caps {
		entry := map[string]any{"contentType": c.ContentType}
		if c.Robustness != "" {
			entry["robustness"] = c.Robustness
		}
		if c.EncryptionScheme != "" {
			entry["encryptionScheme"] = c.EncryptionScheme
		}
		out = append(out, entry)
	}
	return out
}

func capabilityField(m map[string]any, key string) []Capability {
	raw, ok := m[key].([]any)
	if !ok {
		// Allow the already-typed form produced by ToMap.
		if typed, ok := m[key].([]map[string]any); ok {
			out := make([]Capability, 0, len(typed))
			for _, entry := range typed {
				out = append(out, capabilityFromMap(entry))
			}
			if len(out) == 0 {
				return nil
			}
			return out
		}
		return nil
	}
	out := make([]Capability, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, capabilityFromMap(entry))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func capabilityFromMap(entry map[string]any) Capability {
	return Capability{
		ContentType:      stringField(entry, "contentType"),
		Robustness:       stringField(entry, "robustness"),
		EncryptionScheme: stringField(entry, "encryptionScheme"),
	}
}

func stringSliceField(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}
