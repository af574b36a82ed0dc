// Package importer loads training programs from TOML and JSON files into a
// schedule store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/store"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SchedulesCreated    int
	SchedulesDuplicated int
	SetsImported        int
}

// Importer reads program files and creates schedules in a store.
type Importer struct {
	st          store.Schedules
	log         *slog.Logger
	dryRun      bool
	defaultReps int
	stats       Stats
}

// New creates a new Importer.
func New(st store.Schedules, log *slog.Logger, defaultReps int, dryRun bool) *Importer {
	return &Importer{st: st, log: log, dryRun: dryRun, defaultReps: defaultReps}
}

// Import processes path, which is either a single .toml/.json file or a
// directory of them. Schedules whose name already exists in the store
// (case-insensitive) are skipped.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := programFiles(path)
	if err != nil {
		return &imp.stats, err
	}

	existing, err := imp.st.FetchSchedules(ctx)
	if err != nil {
		return &imp.stats, fmt.Errorf("fetching existing schedules: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[nameKey(s.Name)] = true
	}

	for _, f := range files {
		schedules, err := imp.parseFile(f)
		if err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if len(schedules) == 0 {
			imp.stats.FilesSkipped++
			continue
		}

		imp.stats.FilesProcessed++
		for _, s := range schedules {
			key := nameKey(s.Name)
			if seen[key] {
				imp.log.Info("skipping duplicate schedule", "name", s.Name, "file", filepath.Base(f))
				imp.stats.SchedulesDuplicated++
				continue
			}
			seen[key] = true

			if !imp.dryRun {
				created, err := imp.st.CreateSchedule(ctx, s)
				if err != nil {
					return &imp.stats, fmt.Errorf("creating %q from %s: %w", s.Name, filepath.Base(f), err)
				}
				imp.log.Info("schedule created", "id", created.ID, "name", created.Name)
			}
			imp.stats.SchedulesCreated++
			imp.stats.SetsImported += countSets(s)
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) parseFile(path string) ([]models.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseScheduleJSON(data)
	}
	s, err := ParseProgram(data, imp.defaultReps)
	if err != nil {
		return nil, err
	}
	return []models.Schedule{s}, nil
}

// programFiles lists the importable files under path in name order.
func programFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".toml", ".json":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func countSets(s models.Schedule) int {
	n := 0
	for _, w := range s.Workouts {
		for _, ex := range w.Exercises {
			n += len(ex.Sets)
		}
	}
	return n
}
