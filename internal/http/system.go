package http

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/backup"
	"github.com/booklore/homeshelf/internal/config"
	"github.com/booklore/homeshelf/internal/database"
)

// SystemController serves site identity, runtime info, database status and
// on-demand backups.
type SystemController struct {
	cfg       *config.Config
	db        *database.Database
	backups   *backup.Service
	startedAt time.Time
}

func NewSystemController(cfg *config.Config, db *database.Database, backups *backup.Service) *SystemController {
	return &SystemController{
		cfg:       cfg,
		db:        db,
		backups:   backups,
		startedAt: time.Now(),
	}
}

// SiteConfig returns the public site identity.
func (sc *SystemController) SiteConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":           sc.cfg.Site.Name,
		"version":        sc.cfg.Site.Version,
		"copyrightOwner": sc.cfg.Site.CopyrightOwner,
	})
}

// Info reports version, start time and uptime.
func (sc *SystemController) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   sc.cfg.Site.Version,
		"startedAt": sc.startedAt.UTC().Format(time.RFC3339),
		"uptime":    time.Since(sc.startedAt).Round(time.Second).String(),
	})
}

// DatabaseStatus reports store connectivity and row counts.
func (sc *SystemController) DatabaseStatus(c *gin.Context) {
	c.JSON(http.StatusOK, sc.db.Status())
}

// BackupDatabase writes a backup copy and streams it back as a download.
func (sc *SystemController) BackupDatabase(c *gin.Context) {
	path, err := sc.backups.Run()
	if err != nil {
		respondInternalError(c, err, "backup database")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(path))
	c.Header("Content-Type", "application/octet-stream")
	c.File(path)
}

// Health is the liveness probe.
func (sc *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ping answers pong.
func (sc *SystemController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
