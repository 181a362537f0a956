// Package backup copies the catalog database aside, on demand and optionally
// on a cron schedule.
package backup

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Service produces timestamped copies of the SQLite catalog file.
type Service struct {
	dbPath string
	dir    string
	cron   *cron.Cron
}

// NewService creates a backup service writing into dir.
func NewService(dbPath, dir string) *Service {
	return &Service{dbPath: dbPath, dir: dir}
}

// SourcePath returns the path of the live database file.
func (s *Service) SourcePath() string {
	return s.dbPath
}

// Run writes one backup copy and returns its path.
func (s *Service) Run() (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("homeshelf-%s.db", time.Now().Format("20060102-150405"))
	target := filepath.Join(s.dir, name)

	src, err := os.Open(s.dbPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("copy database: %w", err)
	}

	return target, nil
}

// Start schedules periodic backups. Invalid schedules fail fast so a typo in
// the config is caught at startup, not at 3am.
func (s *Service) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		path, err := s.Run()
		if err != nil {
			log.Printf("Scheduled backup failed: %v", err)
			return
		}
		log.Printf("Scheduled backup written to %s", path)
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the schedule, waiting for a running backup to finish.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
