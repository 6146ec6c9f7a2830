package store

import (
	"github.com/skiffhq/skiff/internal/backup"
)

// Registry wires every store rooted at dir to its backup section key. The
// result plugs straight into backup.WithSources.
func Registry(dir string) backup.Sources {
	return backup.Sources{
		backup.SectionSettings:           NewSettingsStore(dir),
		backup.SectionServiceConfigs:     NewServiceStore(dir),
		backup.SectionServiceCredentials: NewCredentialStore(dir),
		backup.SectionMDBCredentials:     NewMDBCredentialStore(dir),
		backup.SectionNetworkHistory:     NewNetworkHistoryStore(dir),
		backup.SectionRecentIPs:          NewRecentIPStore(dir),
		backup.SectionDownloadConfig:     NewDownloadConfigStore(dir),
		backup.SectionServicesViewState:  NewViewStateStore(dir),
	}
}
