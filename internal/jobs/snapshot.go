package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"evcal/internal/event"
	"evcal/internal/ics"
)

const SnapshotFile = "calendar.ics"

// Snapshot writes every event to <Dir>/calendar.ics so a static server can
// publish the feed.
type Snapshot struct {
	Svc      *event.Service
	Exporter *ics.Exporter
	Dir      string
	Log      *zap.Logger
}

func (s *Snapshot) Path() string {
	return filepath.Join(s.Dir, SnapshotFile)
}

// Run exports once. The file is replaced with a rename, so readers see
// either the old or the new document.
func (s *Snapshot) Run(ctx context.Context) error {
	events, err := s.Svc.List(ctx, event.Query{})
	if err != nil {
		return err
	}
	body := s.Exporter.Export(events)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, ".calendar-*.ics")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	if s.Log != nil {
		s.Log.Info("export snapshot written", zap.String("path", s.Path()), zap.Int("events", len(events)))
	}
	return nil
}
