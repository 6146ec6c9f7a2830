// Package backup assembles, encrypts, exports, and restores skiff
// configuration backups.
//
// A backup collects snapshots from the section stores — app settings,
// service configurations and credentials, third-party media-database
// credentials, network scan history, recently used IPs, download
// configuration, and per-screen view state — into a single portable JSON
// document.
//
// # Sections and Options
//
// Each section is described by the selection catalog ([SelectionCatalog]):
// whether it is included by default and whether it contains credentials.
// An export request is an [ExportOptions] value with one inclusion flag
// per section plus the encryption toggle and password. Requests are
// validated once with [ValidateExportOptions] before any assembly work:
//
//	opts := backup.DefaultExportOptions()
//	opts.EncryptSensitive = true
//	opts.Password = password
//	if v := backup.ValidateExportOptions(opts); !v.Valid {
//	    // render v.Errors
//	}
//
// # Document Format
//
// An [Artifact] carries an unencrypted header (format tag, version, ID,
// creation time, app version, section list, codec tag) and either the
// plaintext [Payload] or one encrypted blob produced by the codec
// subpackage. Unselected sections are omitted from the payload entirely.
//
// # Exporting
//
//	mgr := backup.NewManager(
//	    backup.WithBackupDir(dir),
//	    backup.WithSources(sources),
//	)
//	artifact, err := mgr.Export(ctx, opts)
//
// Artifacts are written atomically (temp file + rename), so a cancelled
// or failed export never leaves a partial backup file.
//
// # Restoring
//
//	sections, err := mgr.Restore(ctx, id, password)
//
// Restore is all-or-nothing: the document is read, decrypted, parsed, and
// shape-validated in full before any store is written. A wrong password,
// a foreign file, or decrypted garbage that happens to parse as JSON all
// fail before application state changes.
//
// # Retention
//
// [Manager.List] returns artifacts newest first and [Manager.Prune]
// removes those beyond the retention count.
package backup
