package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/timeit/internal/testutil"
)

// isolate points every config search path at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	testutil.Chdir(t, tmpDir)
	return tmpDir
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Run.Runs != 10 {
		t.Errorf("Expected default runs 10, got %d", cfg.Run.Runs)
	}
	if !cfg.Timer.Autostart || !cfg.Timer.DriftCorrection {
		t.Errorf("Expected autostart and drift correction enabled by default, got %+v", cfg.Timer)
	}
}

// TestLoadFromWorkingDirectory tests that timeit.yaml in the working directory is found.
func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "timeit.yaml"), []byte("run:\n  runs: 3\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Run.Runs != 3 {
		t.Errorf("Expected runs 3, got %d", cfg.Run.Runs)
	}
	if cfg.Run.Warmup != 1 {
		t.Errorf("Expected default warmup 1 for unset key, got %d", cfg.Run.Warmup)
	}
	if !strings.HasSuffix(loader.GetConfigFileUsed(), "timeit.yaml") {
		t.Errorf("Unexpected config file used: %s", loader.GetConfigFileUsed())
	}
}

// TestLoadWithValidYAMLFile tests loading from a valid YAML file.
func TestLoadWithValidYAMLFile(t *testing.T) {
	isolate(t)
	configFile := testutil.WriteConfigFixture(t, "custom.yaml", `
log_level: debug
verbose: true
timer:
  unit: ms
  cpu_clock: process
  drift_correction: false
run:
  runs: 25
  warmup: 0
  format: json
  metrics: true
`)

	cfg, err := NewLoader().LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" || !cfg.Verbose {
		t.Errorf("Unexpected global settings: %s %v", cfg.LogLevel, cfg.Verbose)
	}
	if cfg.Timer.Unit != "ms" || cfg.Timer.CPUClock != "process" || cfg.Timer.DriftCorrection {
		t.Errorf("Unexpected timer settings: %+v", cfg.Timer)
	}
	if !cfg.Timer.Autostart {
		t.Error("Expected autostart default to survive partial timer section")
	}
	if cfg.Run.Runs != 25 || cfg.Run.Warmup != 0 || cfg.Run.Format != "json" || !cfg.Run.Metrics {
		t.Errorf("Unexpected run settings: %+v", cfg.Run)
	}
}

// TestLoadWithEnvironmentVariables tests TIMEIT_ overrides.
func TestLoadWithEnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("TIMEIT_LOG_LEVEL", "warn")
	t.Setenv("TIMEIT_RUN_RUNS", "7")
	t.Setenv("TIMEIT_TIMER_CPU_CLOCK", "none")
	t.Setenv("TIMEIT_TIMER_LOCK_OS_THREAD", "false")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level from env, got %s", cfg.LogLevel)
	}
	if cfg.Run.Runs != 7 {
		t.Errorf("Expected runs from env, got %d", cfg.Run.Runs)
	}
	if cfg.Timer.CPUClock != "none" || cfg.Timer.LockOSThread {
		t.Errorf("Unexpected timer settings from env: %+v", cfg.Timer)
	}
}

// TestLoadValidation tests that invalid values are rejected unless validation is skipped.
func TestLoadValidation(t *testing.T) {
	isolate(t)
	configFile := testutil.WriteConfigFixture(t, "bad.yaml", "run:\n  runs: 0\n")

	if _, err := NewLoader().LoadWithFile(configFile); err == nil {
		t.Fatal("Expected validation error for run.runs = 0")
	} else if !strings.Contains(err.Error(), "run.runs") {
		t.Errorf("Expected error to name run.runs, got %v", err)
	}

	cfg, err := NewLoader().LoadWithFileWithoutValidation(configFile)
	if err != nil {
		t.Fatalf("LoadWithFileWithoutValidation() unexpected error: %v", err)
	}
	if cfg.Run.Runs != 0 {
		t.Errorf("Expected raw value 0, got %d", cfg.Run.Runs)
	}
}

// TestLoadWithMissingFile tests that an explicit missing file is an error.
func TestLoadWithMissingFile(t *testing.T) {
	_, err := NewLoader().LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected missing file error, got %v", err)
	}
}

// TestLoadWithMalformedFile tests that YAML syntax errors are reported.
func TestLoadWithMalformedFile(t *testing.T) {
	configFile := testutil.WriteConfigFixture(t, "broken.yaml", "run: [unterminated\n")

	if _, err := NewLoader().LoadWithFile(configFile); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

// TestGenerateDefaultConfigFile tests writing and re-reading the default file.
func TestGenerateDefaultConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "timeit.yaml")

	written, err := GenerateDefaultConfigFile(path)
	if err != nil {
		t.Fatalf("GenerateDefaultConfigFile() unexpected error: %v", err)
	}
	if written != path {
		t.Errorf("Expected %s, got %s", path, written)
	}

	cfg, err := NewLoader().LoadWithFile(path)
	if err != nil {
		t.Fatalf("Failed to load generated file: %v", err)
	}
	if *cfg != DefaultConfig() {
		t.Errorf("Generated config differs from defaults: %+v", cfg)
	}

	if _, err := GenerateDefaultConfigFile(path); err == nil {
		t.Error("Expected error when the file already exists")
	}
}

// TestGetConfigSearchPaths tests the search path order.
func TestGetConfigSearchPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	paths := GetConfigSearchPaths()
	expected := []string{
		".",
		home,
		filepath.Join("/xdg", "timeit"),
		filepath.Join(home, ".config", "timeit"),
		filepath.Join("/etc", "timeit"),
	}

	if len(paths) != len(expected) {
		t.Fatalf("Expected %d paths, got %v", len(expected), paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("Path %d: expected %s, got %s", i, expected[i], paths[i])
		}
	}
}
