// Package store holds the persistent section stores backing skiff's
// configuration: app settings, service configurations and credentials,
// third-party media-database credentials, network scan history, recently
// used IPs, download configuration, and per-screen view state.
//
// Each store persists one file under the stores directory and exposes the
// two accessors the backup assembler needs: Snapshot returns the current
// state as a JSON-serializable value, and Apply replaces the state from a
// snapshot. All writes are atomic; files holding credentials are written
// with private (0600) permissions.
//
// Missing files are not errors: a store without a file reports its zero
// state, so a fresh install can export immediately and a restore onto a
// clean machine creates the files as it applies sections.
package store
