// Package adb wraps the Android Debug Bridge command-line tool. All of the
// heuristic output scraping lives here, behind the DeviceRepository
// interface, so the rest of the pipeline never parses adb output.
package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/audit"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/security"
)

var (
	// ErrNotInstalled indicates the adb binary is not on PATH.
	ErrNotInstalled = errors.New("adb binary not found in PATH")

	// ErrNoDevices indicates no device is connected with USB debugging on.
	ErrNoDevices = errors.New("no adb devices found")

	// ErrPullFailed indicates no candidate database path could be pulled.
	ErrPullFailed = errors.New("could not pull a location database from any candidate path")
)

// DeviceRepository is the capability surface the extraction pipeline needs
// from a connected device.
type DeviceRepository interface {
	// Devices lists the IDs of connected, authorized devices.
	Devices(ctx context.Context) ([]string, error)

	// ListCandidateDatabases returns on-device paths that may hold a
	// location history database, most likely first.
	ListCandidateDatabases(ctx context.Context, deviceID string) ([]string, error)

	// PullDatabase copies the first readable candidate database into
	// destDir and returns the local path.
	PullDatabase(ctx context.Context, deviceID, destDir string) (string, error)
}

// Runner executes one adb invocation and returns its stdout and stderr.
// Production uses execRunner; tests inject canned output.
type Runner func(ctx context.Context, args ...string) (stdout, stderr string, err error)

// Bridge implements DeviceRepository by shelling out to adb.
type Bridge struct {
	run   Runner
	audit *audit.Log
	paths []string
}

// NewBridge creates a Bridge that probes the given candidate database paths
// in order. Actions are recorded to the audit log.
func NewBridge(log *audit.Log, candidatePaths []string) *Bridge {
	return &Bridge{
		run:   execRunner,
		audit: log,
		paths: candidatePaths,
	}
}

// NewBridgeWithRunner is like NewBridge but with an injected command runner.
func NewBridgeWithRunner(log *audit.Log, candidatePaths []string, run Runner) *Bridge {
	b := NewBridge(log, candidatePaths)
	b.run = run
	return b
}

func execRunner(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "adb", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) {
		return "", "", ErrNotInstalled
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// Devices lists connected device IDs by scraping `adb devices`. Lines for
// unauthorized or offline devices are skipped.
func (b *Bridge) Devices(ctx context.Context) ([]string, error) {
	b.audit.Recordf("checking for connected adb devices")

	stdout, stderr, err := b.run(ctx, "devices")
	if errors.Is(err, ErrNotInstalled) {
		return nil, ErrNotInstalled
	}
	if err != nil {
		return nil, fmt.Errorf("adb devices failed: %w (stderr: %s)", err, stderr)
	}

	var devices []string
	for _, line := range strings.Split(stdout, "\n")[1:] {
		if strings.Contains(line, "\tdevice") {
			devices = append(devices, strings.TrimSpace(strings.Split(line, "\t")[0]))
		}
	}

	if len(devices) == 0 {
		b.audit.Recordf("no adb devices found; ensure the device is connected and USB debugging is enabled")
		return nil, ErrNoDevices
	}
	b.audit.Recordf("found %d device(s): %s", len(devices), strings.Join(devices, ", "))
	return devices, nil
}

// ListCandidateDatabases returns the configured candidate paths plus any
// extra *.db files discovered by probing the GMS databases directory. The
// probe is best-effort: on unrooted devices the shell listing usually fails
// with a permission error, and the configured list is returned as-is.
func (b *Bridge) ListCandidateDatabases(ctx context.Context, deviceID string) ([]string, error) {
	candidates := append([]string(nil), b.paths...)

	seen := make(map[string]bool, len(candidates))
	dirs := make(map[string]bool)
	for _, p := range candidates {
		seen[p] = true
		dirs[filepath.Dir(p)] = true
	}

	for dir := range dirs {
		stdout, stderr, err := b.run(ctx, "-s", deviceID, "shell", "ls", dir)
		if err != nil || permissionProblem(stderr) || permissionProblem(stdout) {
			continue
		}
		for _, name := range strings.Fields(stdout) {
			if !strings.HasSuffix(name, ".db") {
				continue
			}
			full := dir + "/" + name
			if !seen[full] {
				seen[full] = true
				candidates = append(candidates, full)
			}
		}
	}

	b.audit.Recordf("device %s: %d candidate database path(s)", deviceID, len(candidates))
	return candidates, nil
}

// PullDatabase tries each candidate path in order and returns the local path
// of the first database pulled successfully.
func (b *Bridge) PullDatabase(ctx context.Context, deviceID, destDir string) (string, error) {
	candidates, err := b.ListCandidateDatabases(ctx, deviceID)
	if err != nil {
		return "", err
	}

	for _, remote := range candidates {
		base, err := security.SafeBaseName(remote)
		if err != nil {
			b.audit.Recordf("skipping unusable candidate path %q: %v", remote, err)
			continue
		}
		local := filepath.Join(destDir, base)
		if err := security.ValidatePathWithinDirectory(local, destDir); err != nil {
			b.audit.Recordf("skipping candidate path %q: %v", remote, err)
			continue
		}
		b.audit.Recordf("trying to pull %q to %q", remote, local)

		stdout, stderr, err := b.run(ctx, "-s", deviceID, "pull", remote, local)
		switch {
		case errors.Is(err, ErrNotInstalled):
			return "", ErrNotInstalled
		case permissionProblem(stderr):
			b.audit.Recordf("path %q unreadable (%s); trying next path", remote, firstLine(stderr))
			b.removePartial(local)
		case err != nil || stderr != "":
			b.audit.Recordf("adb pull error for %q: %s; trying next path", remote, firstLine(stderr))
			b.removePartial(local)
		case strings.Contains(stdout, "pulled"):
			b.audit.Recordf("successfully pulled %q to %q", remote, local)
			return local, nil
		default:
			b.removePartial(local)
		}
	}

	b.audit.Recordf("failed to pull a location database from device %q using any candidate path", deviceID)
	return "", ErrPullFailed
}

// permissionProblem reports whether adb output indicates the remote path is
// unreadable or missing, which on unrooted devices is the common case.
func permissionProblem(out string) bool {
	return strings.Contains(out, "Permission denied") ||
		strings.Contains(out, "failed to stat") ||
		strings.Contains(out, "No such file or directory")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// removePartial deletes the local leftovers of a failed pull. A failure to
// remove is recorded so the stale file is visible in the action trail.
func (b *Bridge) removePartial(path string) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			b.audit.Recordf("failed to remove partial pull %q: %v", path, err)
		}
	}
}
