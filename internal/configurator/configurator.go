// Package configurator drives the mirror lifecycle for a single tool:
// inspect the current source, apply a catalog or custom mirror with a
// pre-mutation backup, restore the previous state, and pick the fastest
// candidate.
package configurator

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhub-labs/devhub/internal/adapter"
	"github.com/devhub-labs/devhub/internal/backup"
	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/speedtest"
)

// Artifact binds one adapter into a tool's apply sequence. Snapshot is
// false for command-backed adapters whose state lives outside a file we
// could copy (go env), in which case restore relies on the adapter's
// RestoreDefault.
type Artifact struct {
	Adapter  adapter.Adapter
	Snapshot bool
}

// staged is one artifact prepared for writing: its pre-mutation snapshot
// and the rendered replacement body.
type staged struct {
	art  Artifact
	rec  backup.Record
	body []byte
}

// Configurator manages one tool's mirror configuration. Tools with coupled
// artifacts (yarn keeps .yarnrc and .npmrc in sync) list several; the first
// artifact is authoritative for status reads.
type Configurator struct {
	tool      string
	artifacts []Artifact
	catalog   []mirror.Mirror
	backups   *backup.Manager
	speed     *speedtest.Service
}

// New builds a Configurator. At least one artifact is required.
func New(tool string, artifacts []Artifact, catalog []mirror.Mirror, backups *backup.Manager, speed *speedtest.Service) *Configurator {
	return &Configurator{
		tool:      tool,
		artifacts: artifacts,
		catalog:   catalog,
		backups:   backups,
		speed:     speed,
	}
}

// Tool returns the tool id this configurator serves.
func (c *Configurator) Tool() string { return c.tool }

// Mirrors returns the tool's catalog entries. The slice is shared; callers
// must not mutate it.
func (c *Configurator) Mirrors() []mirror.Mirror { return c.catalog }

// Paths lists the artifact locations this tool's apply touches.
func (c *Configurator) Paths() []string {
	paths := make([]string, len(c.artifacts))
	for i, art := range c.artifacts {
		paths[i] = art.Adapter.Path()
	}
	return paths
}

// Lookup resolves a catalog mirror by name, case-sensitively.
// mirror.ErrMirrorNotFound when absent.
func (c *Configurator) Lookup(name string) (mirror.Mirror, error) {
	for _, m := range c.catalog {
		if m.Name == name {
			return m, nil
		}
	}
	return mirror.Mirror{}, fmt.Errorf("%s: %q: %w", c.tool, name, mirror.ErrMirrorNotFound)
}

// Status reads the currently configured mirror from the authoritative
// artifact and resolves it against the catalog. A tool on its official
// default yields the zero status.
func (c *Configurator) Status() (mirror.ToolStatus, error) {
	current, err := c.artifacts[0].Adapter.ReadCurrent()
	if err != nil {
		return mirror.ToolStatus{}, fmt.Errorf("%s: reading current mirror: %w", c.tool, err)
	}
	if current == "" {
		return mirror.ToolStatus{}, nil
	}
	return mirror.ToolStatus{
		CurrentURL:  current,
		CurrentName: mirror.MatchCatalog(current, c.catalog),
	}, nil
}

// Apply switches every artifact to m as a two-phase sequence: back up and
// render all artifacts first, then write. A failure before the first write
// leaves everything untouched; a failure mid-write rolls the already
// written artifacts back to their snapshots. A rollback that itself fails
// surfaces as *mirror.PartialSyncError.
func (c *Configurator) Apply(m mirror.Mirror) error {
	stages := make([]staged, 0, len(c.artifacts))
	for _, art := range c.artifacts {
		st := staged{art: art}

		if art.Snapshot {
			rec, err := c.backups.Backup(art.Adapter.Path())
			if err != nil {
				return fmt.Errorf("%s: backing up %s: %w", c.tool, art.Adapter.Path(), err)
			}
			st.rec = rec
		}

		body, err := art.Adapter.Render(m)
		if err != nil {
			return fmt.Errorf("%s: rendering %s: %w", c.tool, art.Adapter.Path(), err)
		}
		st.body = body
		stages = append(stages, st)
	}

	for i, st := range stages {
		if err := st.art.Adapter.Write(st.body); err != nil {
			applyErr := fmt.Errorf("%s: writing %s: %w", c.tool, st.art.Adapter.Path(), err)
			return c.rollback(stages[:i], applyErr)
		}
	}
	return nil
}

// rollback reverts every artifact written before a mid-apply failure. When
// all reverts succeed the original apply error is returned unchanged.
func (c *Configurator) rollback(written []staged, applyErr error) error {
	var dirty []string
	var rollbackErr error

	for _, st := range written {
		var err error
		switch {
		case st.art.Snapshot:
			err = c.backups.RestoreRecord(st.rec)
		default:
			// Command-backed artifacts roll back to their documented
			// default.
			if dr, ok := st.art.Adapter.(adapter.DefaultRestorer); ok {
				err = dr.RestoreDefault()
			}
		}
		if err != nil {
			dirty = append(dirty, st.art.Adapter.Path())
			rollbackErr = errors.Join(rollbackErr, err)
		}
	}

	if len(dirty) > 0 {
		return &mirror.PartialSyncError{
			Tool:        c.tool,
			Dirty:       dirty,
			ApplyErr:    applyErr,
			RollbackErr: rollbackErr,
		}
	}
	return applyErr
}

// RestoreDefault reverts the tool to its pre-DevHub state. The newest
// backup of every artifact is restored; artifacts that have none fall back
// to the adapter's documented default when it implements DefaultRestorer.
// mirror.ErrNoBackup when neither exists for any artifact, in which case
// nothing was modified.
func (c *Configurator) RestoreDefault() error {
	type plan struct {
		art        Artifact
		useBackup  bool
		useDefault bool
	}

	plans := make([]plan, 0, len(c.artifacts))
	for _, art := range c.artifacts {
		p := plan{art: art}

		if art.Snapshot {
			backups, err := c.backups.List(art.Adapter.Path())
			if err != nil {
				return fmt.Errorf("%s: listing backups for %s: %w", c.tool, art.Adapter.Path(), err)
			}
			p.useBackup = len(backups) > 0
		}
		if !p.useBackup {
			_, p.useDefault = art.Adapter.(adapter.DefaultRestorer)
		}
		if !p.useBackup && !p.useDefault {
			return fmt.Errorf("%s: %s: %w", c.tool, art.Adapter.Path(), mirror.ErrNoBackup)
		}
		plans = append(plans, p)
	}

	for _, p := range plans {
		switch {
		case p.useBackup:
			if err := c.backups.RestoreLatest(p.art.Adapter.Path()); err != nil {
				return fmt.Errorf("%s: %w", c.tool, err)
			}
		default:
			if err := p.art.Adapter.(adapter.DefaultRestorer).RestoreDefault(); err != nil {
				return fmt.Errorf("%s: restoring default for %s: %w", c.tool, p.art.Adapter.Path(), err)
			}
		}
	}
	return nil
}

// TestSpeed probes every catalog mirror concurrently and returns the
// results ranked fastest first, timeouts last.
func (c *Configurator) TestSpeed(ctx context.Context) []mirror.SpeedResult {
	return speedtest.Rank(c.speed.Measure(ctx, c.catalog))
}

// ApplyFastest probes the catalog, applies the quickest reachable mirror,
// and reports which one won. mirror.ErrAllMirrorsTimedOut leaves the
// configuration untouched.
func (c *Configurator) ApplyFastest(ctx context.Context) (mirror.SpeedResult, error) {
	results := c.speed.Measure(ctx, c.catalog)
	best, err := speedtest.Fastest(results)
	if err != nil {
		return mirror.SpeedResult{}, fmt.Errorf("%s: %w", c.tool, err)
	}
	if err := c.Apply(mirror.Mirror{Name: best.Name, URL: best.URL}); err != nil {
		return mirror.SpeedResult{}, err
	}
	return best, nil
}
