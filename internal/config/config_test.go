package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mappa-dev/mappa/internal/errors"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappa.yml")
	content := `
registry: http://localhost:8080/.mappa/resources
coverage: bolt:///tmp/coverage.db
ignore:
  - "@@DebugConsole"
  - "@@Legacy"
id_pattern: "R_[A-Z]+"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Registry:  "http://localhost:8080/.mappa/resources",
		Coverage:  "bolt:///tmp/coverage.db",
		Ignore:    []string{"@@DebugConsole", "@@Legacy"},
		IDPattern: "R_[A-Z]+",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.IsCode(err, errors.CodeConfigInvalid) {
		t.Errorf("err = %v, want code %s", err, errors.CodeConfigInvalid)
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with absent default file: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("registry: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.IsCode(err, errors.CodeConfigInvalid) {
		t.Errorf("err = %v, want code %s", err, errors.CodeConfigInvalid)
	}
}
