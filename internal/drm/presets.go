package drm

// SoftwareSecurityConfig returns the fixed software-robustness probe
// configuration: CENC initialization data, baseline AVC video and AAC audio
// with software-level robustness, and a temporary session.
func SoftwareSecurityConfig() *Configuration {
	return &Configuration{
		InitDataTypes: []string{"cenc"},
		AudioCapabilities: []Capability{
			{ContentType: `audio/mp4; codecs="mp4a.40.2"`, Robustness: "SW_SECURE_CRYPTO"},
		},
		VideoCapabilities: []Capability{
			{ContentType: `video/mp4; codecs="avc1.42E01E"`, Robustness: "SW_SECURE_DECODE"},
		},
		DistinctiveIdentifier: RequirementOptional,
		PersistentState:       RequirementOptional,
		SessionTypes:          []string{"temporary"},
	}
}

// HardwareSecurityConfig returns the fixed hardware-robustness probe
// configuration. It differs from the software preset only in the requested
// robustness levels.
func HardwareSecurityConfig() *Configuration {
	return &Configuration{
		InitDataTypes: []string{"cenc"},
		AudioCapabilities: []Capability{
			{ContentType: `audio/mp4; codecs="mp4a.40.2"`, Robustness: "HW_SECURE_CRYPTO"},
		},
		VideoCapabilities: []Capability{
			{ContentType: `video/mp4; codecs="avc1.42E01E"`, Robustness: "HW_SECURE_ALL"},
		},
		DistinctiveIdentifier: RequirementOptional,
		PersistentState:       RequirementOptional,
		SessionTypes:          []string{"temporary"},
	}
}
