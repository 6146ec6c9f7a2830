package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	if got := ConfigDir(); got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}

	if got := StoresDir(); got != filepath.Join(dir, "stores") {
		t.Errorf("StoresDir() = %q", got)
	}
}

func TestDataDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	if got := DataDir(); got != dir {
		t.Errorf("DataDir() = %q, want %q", got, dir)
	}

	if got := BackupsDir(); got != filepath.Join(dir, "backups") {
		t.Errorf("BackupsDir() = %q", got)
	}
}

func TestConfigDir_Default(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	os.Unsetenv(EnvConfigDir)

	got := ConfigDir()
	if got == "" {
		t.Fatal("ConfigDir() should not be empty")
	}
	if filepath.Base(got) != AppDirName {
		t.Errorf("ConfigDir() = %q, want trailing %q", got, AppDirName)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b")

	if err := EnsureDir(target, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
	if perm := info.Mode().Perm(); perm != DefaultDirPerm {
		t.Errorf("perm = %o, want %o", perm, DefaultDirPerm)
	}

	// Idempotent
	if err := EnsureDir(target, 0); err != nil {
		t.Errorf("second EnsureDir() error = %v", err)
	}
}
