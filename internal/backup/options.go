package backup

// ExportOptions holds the user's per-section inclusion flags plus the
// encryption toggle and password. Constructed transiently per export
// request and validated once before assembly.
type ExportOptions struct {
	IncludeSettings           bool `json:"includeSettings"`
	IncludeServiceConfigs     bool `json:"includeServiceConfigs"`
	IncludeServiceCredentials bool `json:"includeServiceCredentials"`
	IncludeMDBCredentials     bool `json:"includeMDBCredentials"`
	IncludeNetworkHistory     bool `json:"includeNetworkHistory"`
	IncludeRecentIPs          bool `json:"includeRecentIPs"`
	IncludeDownloadConfig     bool `json:"includeDownloadConfig"`
	IncludeServicesViewState  bool `json:"includeServicesViewState"`

	// EncryptSensitive requests password encryption of the assembled
	// payload. Password must then be at least MinPasswordLength characters.
	EncryptSensitive bool   `json:"encryptSensitive"`
	Password         string `json:"-"`
}

// DefaultExportOptions returns options matching the selection catalog's
// per-section defaults, with encryption off.
func DefaultExportOptions() ExportOptions {
	opts := ExportOptions{}
	for key, desc := range catalog {
		if desc.Enabled {
			opts.setInclude(key, true)
		}
	}
	return opts
}

// Includes reports whether the given section is selected.
func (o ExportOptions) Includes(section string) bool {
	switch section {
	case SectionSettings:
		return o.IncludeSettings
	case SectionServiceConfigs:
		return o.IncludeServiceConfigs
	case SectionServiceCredentials:
		return o.IncludeServiceCredentials
	case SectionMDBCredentials:
		return o.IncludeMDBCredentials
	case SectionNetworkHistory:
		return o.IncludeNetworkHistory
	case SectionRecentIPs:
		return o.IncludeRecentIPs
	case SectionDownloadConfig:
		return o.IncludeDownloadConfig
	case SectionServicesViewState:
		return o.IncludeServicesViewState
	default:
		return false
	}
}

// Selected returns the selected section keys in document order.
func (o ExportOptions) Selected() []string {
	var out []string
	for _, key := range sectionOrder {
		if o.Includes(key) {
			out = append(out, key)
		}
	}
	return out
}

// setInclude flips one section flag by key. Unknown keys are ignored.
func (o *ExportOptions) setInclude(section string, v bool) {
	switch section {
	case SectionSettings:
		o.IncludeSettings = v
	case SectionServiceConfigs:
		o.IncludeServiceConfigs = v
	case SectionServiceCredentials:
		o.IncludeServiceCredentials = v
	case SectionMDBCredentials:
		o.IncludeMDBCredentials = v
	case SectionNetworkHistory:
		o.IncludeNetworkHistory = v
	case SectionRecentIPs:
		o.IncludeRecentIPs = v
	case SectionDownloadConfig:
		o.IncludeDownloadConfig = v
	case SectionServicesViewState:
		o.IncludeServicesViewState = v
	}
}

// SetInclude flips one section flag by key. Unknown keys are ignored.
// Used by commands translating --sections flags into options.
func (o *ExportOptions) SetInclude(section string, v bool) {
	o.setInclude(section, v)
}
