package support

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/timeit/cmd/timeit/cmd"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	// Command execution state
	LastCommand   string
	LastOutput    string
	LastStderr    string
	LastError     error
	LastStartTime time.Time
	LastDuration  time.Duration

	// Test environment
	TempDir  string
	EnvVars  map[string]string
	savedEnv map[string]*string
	savedWd  string
}

// NewTestContext creates a context with a private temporary directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "timeit-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &TestContext{
		TempDir:  tempDir,
		EnvVars:  map[string]string{},
		savedEnv: map[string]*string{},
	}, nil
}

// Isolate points HOME and the working directory at the temp directory so no
// user configuration leaks into a scenario.
func (testCtx *TestContext) Isolate() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	testCtx.savedWd = wd
	if err := os.Chdir(testCtx.TempDir); err != nil {
		return fmt.Errorf("failed to enter temp directory: %w", err)
	}
	testCtx.setEnv("HOME", testCtx.TempDir)
	testCtx.setEnv("XDG_CONFIG_HOME", filepath.Join(testCtx.TempDir, ".config"))
	return nil
}

// AddEnvVar sets an environment variable until Cleanup.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars[name] = value
	testCtx.setEnv(name, value)
}

func (testCtx *TestContext) setEnv(name, value string) {
	if _, saved := testCtx.savedEnv[name]; !saved {
		if prev, ok := os.LookupEnv(name); ok {
			testCtx.savedEnv[name] = &prev
		} else {
			testCtx.savedEnv[name] = nil
		}
	}
	_ = os.Setenv(name, value)
}

// RunCLI executes timeit in-process with the given arguments.
func (testCtx *TestContext) RunCLI(ctx context.Context, args []string) {
	testCtx.LastCommand = "timeit " + strings.Join(args, " ")
	testCtx.LastStartTime = time.Now()

	root := cmd.NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	testCtx.LastError = root.ExecuteContext(ctx)
	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)
}

// Path returns name resolved inside the temp directory.
func (testCtx *TestContext) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(testCtx.TempDir, name)
}

// Cleanup restores the environment and removes the temp directory.
func (testCtx *TestContext) Cleanup() error {
	var errs []error

	for name, prev := range testCtx.savedEnv {
		if prev == nil {
			errs = append(errs, os.Unsetenv(name))
		} else {
			errs = append(errs, os.Setenv(name, *prev))
		}
	}
	if testCtx.savedWd != "" {
		errs = append(errs, os.Chdir(testCtx.savedWd))
	}
	if err := os.RemoveAll(testCtx.TempDir); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err))
	}

	return errors.Join(errs...)
}
