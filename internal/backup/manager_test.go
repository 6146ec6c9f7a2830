package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/skiffhq/skiff/internal/backup/codec"
)

// memSource is an in-memory Source for tests.
type memSource struct {
	state    any
	applied  json.RawMessage
	snapErr  error
	applyErr error
}

func (s *memSource) Snapshot() (any, error) {
	if s.snapErr != nil {
		return nil, s.snapErr
	}
	return s.state, nil
}

func (s *memSource) Apply(snapshot json.RawMessage) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = slices.Clone(snapshot)
	return nil
}

func testSources() (Sources, map[string]*memSource) {
	stores := map[string]*memSource{
		SectionSettings:           {state: map[string]any{"theme": "light", "locale": "en"}},
		SectionServiceConfigs:     {state: []any{map[string]any{"id": "test-1", "type": "sonarr", "apiKey": "test-key-12345"}}},
		SectionServiceCredentials: {state: map[string]any{"test-1": map[string]any{"username": "admin"}}},
		SectionMDBCredentials:     {state: map[string]any{"tmdb": "mdb-key"}},
		SectionNetworkHistory:     {state: []any{map[string]any{"subnet": "192.168.1.0/24"}}},
		SectionRecentIPs:          {state: []any{"192.168.1.10"}},
		SectionDownloadConfig:     {state: map[string]any{"maxConcurrent": float64(3)}},
		SectionServicesViewState:  {state: map[string]any{"dashboard": map[string]any{"sort": "name"}}},
	}
	sources := make(Sources, len(stores))
	for k, v := range stores {
		sources[k] = v
	}
	return sources, stores
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithBackupDir(t.TempDir()),
		WithAppVersion("test"),
	}
	return NewManager(append(base, opts...)...)
}

func TestExport_PlaintextRoundTrip(t *testing.T) {
	sources, stores := testSources()
	mgr := newTestManager(t, WithSources(sources))

	opts := DefaultExportOptions()
	artifact, err := mgr.Export(context.Background(), opts)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if artifact.Format != FormatName {
		t.Errorf("Format = %q", artifact.Format)
	}
	if artifact.IsEncrypted() {
		t.Error("plaintext export should not be encrypted")
	}

	// Credential sections default off, so six sections in document order.
	wantSections := []string{
		SectionSettings, SectionServiceConfigs, SectionNetworkHistory,
		SectionRecentIPs, SectionDownloadConfig, SectionServicesViewState,
	}
	if !slices.Equal(artifact.Sections, wantSections) {
		t.Errorf("Sections = %v, want %v", artifact.Sections, wantSections)
	}

	applied, err := mgr.Restore(context.Background(), artifact.ID, "")
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !slices.Equal(applied, wantSections) {
		t.Errorf("Restore applied %v, want %v", applied, wantSections)
	}

	// Each store received a snapshot equal to its original state.
	for _, key := range wantSections {
		var got any
		if err := json.Unmarshal(stores[key].applied, &got); err != nil {
			t.Fatalf("%s: applied snapshot invalid: %v", key, err)
		}
		want := normalizeJSON(t, stores[key].state)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: applied %#v, want %#v", key, got, want)
		}
	}

	// Unselected sections were never applied.
	if stores[SectionServiceCredentials].applied != nil {
		t.Error("unselected section should not be applied on restore")
	}
}

func TestExport_EncryptedRoundTrip(t *testing.T) {
	const password = "TestPassword123!@#"

	for _, version := range []codec.Version{codec.VersionLegacy, codec.VersionAEAD} {
		t.Run(string(version), func(t *testing.T) {
			sources, stores := testSources()
			c, err := codec.New(version)
			if err != nil {
				t.Fatal(err)
			}
			mgr := newTestManager(t, WithSources(sources), WithCodec(c))

			opts := DefaultExportOptions()
			opts.EncryptSensitive = true
			opts.Password = password

			artifact, err := mgr.Export(context.Background(), opts)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if !artifact.IsEncrypted() {
				t.Fatal("artifact should be encrypted")
			}
			if artifact.Codec != version {
				t.Errorf("Codec = %q, want %q", artifact.Codec, version)
			}
			if artifact.Data != nil {
				t.Error("encrypted artifact must not embed plaintext data")
			}

			// The document on disk must not contain the API key in the clear.
			raw, err := os.ReadFile(filepath.Join(mgr.rootDir, artifact.ID+ArtifactExt))
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(string(raw), "test-key-12345") {
				t.Error("artifact file leaks plaintext credentials")
			}

			if _, err := mgr.Restore(context.Background(), artifact.ID, password); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}

			var got []any
			if err := json.Unmarshal(stores[SectionServiceConfigs].applied, &got); err != nil {
				t.Fatal(err)
			}
			svc := got[0].(map[string]any)
			if svc["apiKey"] != "test-key-12345" {
				t.Errorf("apiKey = %v after round trip", svc["apiKey"])
			}
		})
	}
}

func TestExport_PlaintextChecksum(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	artifact, err := mgr.Export(context.Background(), DefaultExportOptions())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if artifact.Checksum == "" {
		t.Fatal("plaintext export should record a payload checksum")
	}

	loaded, payload, err := mgr.Open(artifact.ID, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if loaded.Checksum != artifact.Checksum {
		t.Errorf("stored checksum = %q, want %q", loaded.Checksum, artifact.Checksum)
	}

	got, err := PayloadChecksum(payload)
	if err != nil {
		t.Fatal(err)
	}
	if got != artifact.Checksum {
		t.Errorf("recomputed checksum = %q, want %q", got, artifact.Checksum)
	}

	opts := DefaultExportOptions()
	opts.EncryptSensitive = true
	opts.Password = "TestPassword123!@#"
	encrypted, err := mgr.Export(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if encrypted.Checksum != "" {
		t.Error("encrypted export should not record a separate checksum")
	}
}

func TestOpen_TamperedPlaintextRejected(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	artifact, err := mgr.Export(context.Background(), DefaultExportOptions())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	path := mgr.ArtifactPath(artifact.ID)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), `"theme":"light"`, `"theme":"dark!"`, 1)
	if tampered == string(data) {
		t.Fatal("test document did not contain the expected settings value")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := mgr.Open(artifact.ID, ""); !errors.Is(err, ErrBackupCorrupted) {
		t.Errorf("Open() error = %v, want ErrBackupCorrupted", err)
	}
}

func TestRestore_WrongPasswordLeavesStoresUntouched(t *testing.T) {
	sources, stores := testSources()
	mgr := newTestManager(t, WithSources(sources))

	opts := DefaultExportOptions()
	opts.EncryptSensitive = true
	opts.Password = "correct horse"

	artifact, err := mgr.Export(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(context.Background(), artifact.ID, "wrong password"); err == nil {
		t.Fatal("restore with wrong password should fail")
	}

	for key, store := range stores {
		if store.applied != nil {
			t.Errorf("store %s was written despite failed restore", key)
		}
	}
}

func TestRestore_MissingPassword(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	opts := DefaultExportOptions()
	opts.EncryptSensitive = true
	opts.Password = "correct horse"

	artifact, err := mgr.Export(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(context.Background(), artifact.ID, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("error = %v, want ErrPasswordRequired", err)
	}
}

func TestRestore_ApplyErrorReported(t *testing.T) {
	sources, stores := testSources()
	stores[SectionSettings].applyErr = errors.New("disk full")
	mgr := newTestManager(t, WithSources(sources))

	artifact, err := mgr.Export(context.Background(), DefaultExportOptions())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(context.Background(), artifact.ID, ""); err == nil {
		t.Error("store failures must propagate, never be swallowed")
	}
}

func TestExport_InvalidOptions(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	if _, err := mgr.Export(context.Background(), ExportOptions{}); err == nil {
		t.Error("export with no sections selected should fail")
	}

	opts := ExportOptions{IncludeSettings: true, EncryptSensitive: true, Password: "shrt"}
	if _, err := mgr.Export(context.Background(), opts); err == nil {
		t.Error("export with a 4-character password should fail")
	}
}

func TestExport_SnapshotErrorAborts(t *testing.T) {
	sources, stores := testSources()
	stores[SectionSettings].snapErr = errors.New("store unavailable")
	mgr := newTestManager(t, WithSources(sources))

	if _, err := mgr.Export(context.Background(), DefaultExportOptions()); err == nil {
		t.Error("snapshot failures must abort the export")
	}

	// No artifact file may exist after a failed export.
	entries, err := os.ReadDir(mgr.rootDir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed export left %d files behind", len(entries))
	}
}

func TestExport_CancelledContext(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mgr.Export(ctx, DefaultExportOptions()); err == nil {
		t.Error("cancelled context should abort the export before writing")
	}
}

func TestList_NewestFirstAndPrune(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	for i := 0; i < 3; i++ {
		if _, err := mgr.Export(context.Background(), DefaultExportOptions()); err != nil {
			t.Fatal(err)
		}
	}

	artifacts, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("List() returned %d artifacts, want 3", len(artifacts))
	}
	for i := 1; i < len(artifacts); i++ {
		if artifacts[i].CreatedAt.After(artifacts[i-1].CreatedAt) {
			t.Error("List() should sort newest first")
		}
	}

	removed, err := mgr.Prune(1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("Prune(1) removed %d, want 2", len(removed))
	}

	remaining, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("%d artifacts remain, want 1", len(remaining))
	}
}

func TestList_KeepsEncryptionStatus(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	if _, err := mgr.Export(context.Background(), DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}

	opts := DefaultExportOptions()
	opts.EncryptSensitive = true
	opts.Password = "TestPassword123!@#"
	encrypted, err := mgr.Export(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("List() returned %d artifacts, want 2", len(artifacts))
	}
	for _, a := range artifacts {
		if a.Data != nil || a.Encrypted != nil {
			t.Errorf("List() should strip payloads, got %q with payload", a.ID)
		}
		if a.ID == encrypted.ID {
			if !a.IsEncrypted() {
				t.Errorf("listed artifact %q should report encrypted", a.ID)
			}
			if a.Codec != codec.VersionAEAD {
				t.Errorf("listed artifact %q codec = %q, want %q", a.ID, a.Codec, codec.VersionAEAD)
			}
		} else if a.IsEncrypted() {
			t.Errorf("plaintext artifact %q should not report encrypted", a.ID)
		}
	}
}

func TestList_SkipsForeignFiles(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	if _, err := mgr.Export(context.Background(), DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}

	// A foreign JSON file with the right extension must not break listing.
	foreign := filepath.Join(mgr.rootDir, "foreign"+ArtifactExt)
	if err := os.WriteFile(foreign, []byte(`{"format":"other"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	artifacts, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(artifacts) != 1 {
		t.Errorf("List() returned %d artifacts, want 1", len(artifacts))
	}
}

func TestGet_NotFound(t *testing.T) {
	mgr := newTestManager(t)
	if _, err := mgr.Get("20990101T000000-deadbeef"); !errors.Is(err, ErrNoBackupsFound) {
		t.Errorf("error = %v, want ErrNoBackupsFound", err)
	}
}

func TestPrune_NoBackups(t *testing.T) {
	mgr := newTestManager(t)
	removed, err := mgr.Prune(5)
	if err != nil {
		t.Errorf("Prune() with no backups should be a no-op, got %v", err)
	}
	if removed != nil {
		t.Errorf("removed = %v, want nil", removed)
	}
}

func TestArtifactIDs_Unique(t *testing.T) {
	sources, _ := testSources()
	mgr := newTestManager(t, WithSources(sources))

	a, err := mgr.Export(context.Background(), DefaultExportOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := mgr.Export(context.Background(), DefaultExportOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("two exports in the same second collided on ID %s", a.ID)
	}
}

// normalizeJSON runs v through a JSON round trip for comparison against
// decoded snapshots.
func normalizeJSON(t *testing.T, v any) any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	return out
}
