// Package backup snapshots config artifacts before mutation and restores
// the most recent pre-DevHub state.
//
// Snapshots live beside the original file, named
// "<name>.bak.<unix-ts>[.<n>]". They are never overwritten and accumulate
// until externally pruned.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/devhub-labs/devhub/internal/mirror"
)

const bakInfix = ".bak."

// Record describes one written snapshot.
type Record struct {
	// Path is the config artifact the snapshot belongs to.
	Path string
	// BackupPath is the snapshot file.
	BackupPath string
	// Existed is false when the artifact was absent at backup time; no
	// snapshot file is written in that case.
	Existed bool
	// CreatedAt is the snapshot creation time.
	CreatedAt time.Time
}

// Manager writes and restores snapshots. The zero value is ready to use.
type Manager struct {
	// now can be overridden in tests; time.Now when nil.
	now func() time.Time
}

func (m *Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

// Backup captures the artifact's current bytes into a new sibling snapshot.
// An absent artifact is recorded as Existed=false without touching the
// filesystem; restoring from such a state means deleting the artifact.
func (m *Manager) Backup(path string) (Record, error) {
	ts := m.clock()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{Path: path, Existed: false, CreatedAt: ts}, nil
		}
		return Record{}, fmt.Errorf("reading %s for backup: %w", path, err)
	}

	base := fmt.Sprintf("%s%s%d", path, bakInfix, ts.Unix())
	backupPath := base
	// O_EXCL keeps every apply distinguishable even within one second.
	for n := 1; ; n++ {
		f, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := f.Write(data)
			cerr := f.Close()
			if werr != nil {
				return Record{}, fmt.Errorf("writing backup %s: %w", backupPath, werr)
			}
			if cerr != nil {
				return Record{}, fmt.Errorf("closing backup %s: %w", backupPath, cerr)
			}
			return Record{Path: path, BackupPath: backupPath, Existed: true, CreatedAt: ts}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return Record{}, fmt.Errorf("creating backup %s: %w", backupPath, err)
		}
		backupPath = fmt.Sprintf("%s.%d", base, n)
	}
}

// List returns the artifact's snapshots, oldest first.
func (m *Manager) List(path string) ([]string, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + bakInfix

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory %s: %w", dir, err)
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, e.Name()))
		}
	}
	// Timestamped suffixes sort lexically in creation order for any
	// realistic clock range.
	sort.Strings(backups)
	return backups, nil
}

// RestoreLatest copies the newest snapshot's bytes back over the artifact.
// mirror.ErrNoBackup when the artifact has no snapshots.
func (m *Manager) RestoreLatest(path string) error {
	backups, err := m.List(path)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("%s: %w", path, mirror.ErrNoBackup)
	}

	latest := backups[len(backups)-1]
	data, err := os.ReadFile(latest)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", latest, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", path, latest, err)
	}
	return nil
}

// RestoreRecord reverts the artifact to the state captured by rec: the
// snapshot's bytes when it existed, deletion when it did not. Used by the
// coupled-apply rollback path.
func (m *Manager) RestoreRecord(rec Record) error {
	if !rec.Existed {
		if err := os.Remove(rec.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", rec.Path, err)
		}
		return nil
	}
	data, err := os.ReadFile(rec.BackupPath)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", rec.BackupPath, err)
	}
	if err := os.WriteFile(rec.Path, data, 0o644); err != nil {
		return fmt.Errorf("restoring %s: %w", rec.Path, err)
	}
	return nil
}
