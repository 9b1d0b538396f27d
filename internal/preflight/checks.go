package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"shoebox/internal/config"
	"shoebox/internal/journal"
	"shoebox/internal/notifications"
	"shoebox/internal/runlock"
	"shoebox/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputWritable verifies the output directory can be written to,
// walking up to the nearest existing ancestor when the directory does not
// exist yet. Missing output directories are created during the run.
func CheckOutputWritable(name, path string) Result {
	probe := path
	for {
		info, err := os.Stat(probe)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, probe)}
			}
			if accessErr := unix.Access(probe, unix.W_OK|unix.X_OK); accessErr != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions on %s: %v)", path, probe, accessErr)}
			}
			if probe == path {
				return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (write ok)", path)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created under %s)", path, probe)}
		}
		if !os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat %s: %v)", path, probe, err)}
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
		}
		probe = parent
	}
}

// CheckLockAvailable probes whether the run lock for an input tree can be
// taken right now. The probe lock is released immediately.
func CheckLockAvailable(cfg *config.Config, inputRoot string) Result {
	const name = "Run lock"

	lock := runlock.New(cfg.Paths.LockDir, inputRoot)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, services.ErrLocked) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: held by another run)", lock.Path())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", lock.Path(), err)}
	}
	if err := lock.Release(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: release: %v)", lock.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", lock.Path())}
}

// CheckJournal verifies the journal database can be opened and initialized.
func CheckJournal(cfg *config.Config) Result {
	const name = "Journal"

	store, err := journal.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Journal.Path, err)}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", store.Path())}
}

// CheckNotifications verifies that the configured ntfy endpoint is reachable.
func CheckNotifications(ctx context.Context, cfg *config.Config) Result {
	const name = "Notifications"

	endpoint := notifications.EndpointFor(cfg.Notifications.NtfyTopic)
	if endpoint == "" {
		return Result{Name: name, Detail: "no topic configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, endpoint, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("endpoint check failed (%v)", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("endpoint check failed (%v)", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", endpoint)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (topic requires credentials)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("endpoint check failed (%d)", resp.StatusCode)}
	}
}
