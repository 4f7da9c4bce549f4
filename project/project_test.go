package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasSevenPasses(t *testing.T) {
	cfg := Default()
	if cfg.MaxPasses != 7 {
		t.Fatalf("MaxPasses = %d, want 7", cfg.MaxPasses)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxPasses != 7 || cfg.FillValue != 0 {
		t.Fatalf("got %+v, want the default config", cfg)
	}
}

func TestLoadParsesTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asm8.toml")
	contents := `
fill_value = 234
output = "out.bin"
include = ["lib", "inc"]

[defines]
DEBUG = "1"
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FillValue != 234 {
		t.Fatalf("FillValue = %d, want 234", cfg.FillValue)
	}
	if cfg.OutputPath != "out.bin" {
		t.Fatalf("OutputPath = %q", cfg.OutputPath)
	}
	if len(cfg.Include) != 2 || cfg.Include[0] != "lib" || cfg.Include[1] != "inc" {
		t.Fatalf("Include = %v", cfg.Include)
	}
	if cfg.Defines["DEBUG"] != "1" {
		t.Fatalf("Defines = %v", cfg.Defines)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("ASM8_QUIET", "true")
	t.Setenv("ASM8_MAXPASSES", "3")
	t.Setenv("ASM8_INCLUDE", "a,b,c")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Quiet {
		t.Fatal("expected ASM8_QUIET=true to set Quiet")
	}
	if cfg.MaxPasses != 3 {
		t.Fatalf("MaxPasses = %d, want 3", cfg.MaxPasses)
	}
	if len(cfg.Include) != 3 {
		t.Fatalf("Include = %v", cfg.Include)
	}
}

func TestSaveWritesReadableTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asm8.toml")
	cfg := Config{FillValue: 1, OutputPath: "a.bin", MaxPasses: 5}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.FillValue != 1 || got.OutputPath != "a.bin" || got.MaxPasses != 5 {
		t.Fatalf("got %+v", got)
	}
}
