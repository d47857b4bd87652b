// Package install prepares a project environment before its notebooks run.
// It detects whether the project is conda-based (environment.yml) or
// pip-based (requirements.txt), runs the matching installer, and optionally
// exports a lock file afterwards so later runs are reproducible.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"nbcheck/internal/logging"
)

const (
	reqsTxt     = "requirements.txt"
	reqsLockTxt = "requirements.lock.txt"
	envYml      = "environment.yml"
	envLockYml  = "environment.lock.yml"
)

// ErrNoSpecFile means neither a conda nor a pip dependency file was found.
var ErrNoSpecFile = errors.New(
	"expected an environment.yml (conda) or requirements.txt (pip) in the project directory")

// Runner executes one installer command and returns its combined output.
// It exists so tests can record invocations instead of shelling out.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec with a timeout.
type ExecRunner struct {
	Dir     string
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, binary string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %v: %w", binary, args, err)
	}
	return string(out), nil
}

// Options configures an install run.
type Options struct {
	// UseLock prefers the *.lock.* variant when it exists.
	UseLock bool
	// CreateLock exports a lock file after a successful install.
	CreateLock bool
	// HaveConda overrides conda detection; nil means look it up in PATH.
	HaveConda *bool
}

// Installer drives one project's environment installation.
type Installer struct {
	dir    string
	runner Runner
	opts   Options
}

// New builds an Installer for the project rooted at dir.
func New(dir string, runner Runner, opts Options) *Installer {
	return &Installer{dir: dir, runner: runner, opts: opts}
}

// Install detects the project flavor and installs its dependencies.
// Conda wins over pip when both spec files exist and conda is available,
// matching the convention pipeline users expect.
func (i *Installer) Install(ctx context.Context) error {
	haveConda := i.haveConda()
	switch {
	case haveConda && i.exists(envYml):
		return i.installConda(ctx)
	case i.exists(reqsTxt):
		return i.installPip(ctx)
	case i.exists(envYml):
		return fmt.Errorf("found %s but conda is not installed; "+
			"install conda or add a %s to use pip instead", envYml, reqsTxt)
	default:
		return ErrNoSpecFile
	}
}

func (i *Installer) installPip(ctx context.Context) error {
	spec := reqsTxt
	if i.opts.UseLock && i.exists(reqsLockTxt) {
		spec = reqsLockTxt
	}
	logging.Infof(logging.CategoryInstall, "pip install -r %s", spec)
	out, err := i.runner.Run(ctx, "pip", "install", "-r", spec)
	if err != nil {
		return fmt.Errorf("pip install failed: %w\n%s", err, out)
	}
	if i.opts.CreateLock && spec == reqsTxt {
		frozen, err := i.runner.Run(ctx, "pip", "freeze")
		if err != nil {
			return fmt.Errorf("pip freeze failed: %w", err)
		}
		if err := os.WriteFile(filepath.Join(i.dir, reqsLockTxt), []byte(frozen), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", reqsLockTxt, err)
		}
		logging.Infof(logging.CategoryInstall, "wrote %s", reqsLockTxt)
	}
	return nil
}

func (i *Installer) installConda(ctx context.Context) error {
	spec := envYml
	if i.opts.UseLock && i.exists(envLockYml) {
		spec = envLockYml
	}
	logging.Infof(logging.CategoryInstall, "conda env update --file %s", spec)
	out, err := i.runner.Run(ctx, "conda", "env", "update", "--file", spec, "--prune")
	if err != nil {
		return fmt.Errorf("conda env update failed: %w\n%s", err, out)
	}
	if i.opts.CreateLock && spec == envYml {
		exported, err := i.runner.Run(ctx, "conda", "env", "export", "--no-builds")
		if err != nil {
			return fmt.Errorf("conda env export failed: %w", err)
		}
		if err := os.WriteFile(filepath.Join(i.dir, envLockYml), []byte(exported), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", envLockYml, err)
		}
		logging.Infof(logging.CategoryInstall, "wrote %s", envLockYml)
	}
	return nil
}

func (i *Installer) exists(name string) bool {
	_, err := os.Stat(filepath.Join(i.dir, name))
	return err == nil
}

func (i *Installer) haveConda() bool {
	if i.opts.HaveConda != nil {
		return *i.opts.HaveConda
	}
	_, err := exec.LookPath("conda")
	return err == nil
}
