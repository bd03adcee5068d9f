package mirror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the conditions callers are expected to branch on.
// Everything else surfaces as a wrapped I/O or exec error.
var (
	// ErrUnknownTool is returned by the registry for an unrecognized tool id.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrNoBackup is returned when a restore is requested but no backup
	// exists and the tool has no documented factory default.
	ErrNoBackup = errors.New("no backup available")

	// ErrAllMirrorsTimedOut is returned by fastest-mirror selection when
	// every candidate failed its probe.
	ErrAllMirrorsTimedOut = errors.New("all mirrors timed out")

	// ErrMirrorNotFound is returned when a named mirror is not in a tool's
	// catalog.
	ErrMirrorNotFound = errors.New("mirror not found in catalog")
)

// ProbeError reports that an external process could not be spawned at all.
// A tool that runs but exits non-zero is not a ProbeError; that is the
// routine "not installed" outcome.
type ProbeError struct {
	Command string
	Err     error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("spawning %s: %v", e.Command, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// PartialSyncError reports a coupled multi-artifact apply where the rollback
// of already-written artifacts also failed, leaving the tool's configuration
// inconsistent. It must be surfaced loudly; the caller has to inspect the
// named paths by hand.
type PartialSyncError struct {
	Tool string
	// Dirty lists artifact paths whose rollback failed.
	Dirty []string
	// ApplyErr is the write failure that triggered the rollback.
	ApplyErr error
	// RollbackErr is the failure encountered while rolling back.
	RollbackErr error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf(
		"%s: partial apply could not be rolled back (inspect %s manually): apply: %v; rollback: %v",
		e.Tool, strings.Join(e.Dirty, ", "), e.ApplyErr, e.RollbackErr,
	)
}

func (e *PartialSyncError) Unwrap() error { return e.ApplyErr }
