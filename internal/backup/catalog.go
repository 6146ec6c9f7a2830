package backup

// Section keys used in export options, backup documents, and the stores
// registry. The strings are part of the backup document format and must
// not change.
const (
	SectionSettings           = "settings"
	SectionServiceConfigs     = "serviceConfigs"
	SectionServiceCredentials = "serviceCredentials"
	SectionMDBCredentials     = "mdbCredentials"
	SectionNetworkHistory     = "networkHistory"
	SectionRecentIPs          = "recentIPs"
	SectionDownloadConfig     = "downloadConfig"
	SectionServicesViewState  = "servicesViewState"
)

// SectionDescriptor describes one optional backup section for UI rendering
// and default option construction.
type SectionDescriptor struct {
	// Enabled is whether the section is included by default.
	Enabled bool `json:"enabled"`

	// Sensitive marks sections containing credentials (service API keys,
	// usernames/passwords, third-party media-database keys).
	Sensitive bool `json:"sensitive"`
}

// sectionOrder is the stable field order of sections in assembled backup
// documents and rendered catalogs.
var sectionOrder = []string{
	SectionSettings,
	SectionServiceConfigs,
	SectionServiceCredentials,
	SectionMDBCredentials,
	SectionNetworkHistory,
	SectionRecentIPs,
	SectionDownloadConfig,
	SectionServicesViewState,
}

// catalog is the static registry of backup sections. The pure-credential
// sections default to excluded so a casual export does not leak secrets;
// everything else is included by default.
var catalog = map[string]SectionDescriptor{
	SectionSettings:           {Enabled: true, Sensitive: false},
	SectionServiceConfigs:     {Enabled: true, Sensitive: true},
	SectionServiceCredentials: {Enabled: false, Sensitive: true},
	SectionMDBCredentials:     {Enabled: false, Sensitive: true},
	SectionNetworkHistory:     {Enabled: true, Sensitive: false},
	SectionRecentIPs:          {Enabled: true, Sensitive: false},
	SectionDownloadConfig:     {Enabled: true, Sensitive: false},
	SectionServicesViewState:  {Enabled: true, Sensitive: false},
}

// SectionOrder returns the section keys in document order.
func SectionOrder() []string {
	out := make([]string, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// SelectionCatalog returns each section's default-enabled state and
// sensitivity flag, keyed by section.
func SelectionCatalog() map[string]SectionDescriptor {
	out := make(map[string]SectionDescriptor, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}

// ValidSection returns true if key names a known backup section.
func ValidSection(key string) bool {
	_, ok := catalog[key]
	return ok
}
