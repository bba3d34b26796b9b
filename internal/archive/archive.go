// Package archive keeps a date-organized archive of fetched raw XML. Each
// snapshot gets its own timestamped file; when the date rolls over, files from
// earlier days are gzip-compressed in place.
package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Archive writes snapshots into a directory and compresses old ones.
type Archive struct {
	dir         string
	useUTC      bool
	logger      *logrus.Logger
	mu          sync.Mutex
	currentDate string
}

// New creates the archive directory if needed.
func New(dir string, useUTC bool, logger *logrus.Logger) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Archive{dir: dir, useUTC: useUTC, logger: logger}, nil
}

// Store writes one raw XML snapshot and returns its path. The filename
// carries the source name and a second-resolution timestamp, so repeated
// fetches never clobber each other. Crossing a date boundary compresses the
// previous days' snapshots.
func (a *Archive) Store(source string, raw []byte) (string, error) {
	now := a.now()
	date := now.Format("2006-01-02")

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentDate != "" && a.currentDate != date {
		a.logger.WithFields(logrus.Fields{
			"old_date": a.currentDate,
			"new_date": date,
		}).Info("Archive date rolled over, compressing older snapshots")
		a.compressBefore(date)
	}
	a.currentDate = date

	name := fmt.Sprintf("%s_%s.xml", source, now.Format("2006-01-02T150405"))
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file %s: %w", path, err)
	}

	a.logger.WithFields(logrus.Fields{
		"file":  path,
		"bytes": len(raw),
	}).Debug("Archived raw snapshot")

	return path, nil
}

// CompressOld gzips every snapshot not from today. Useful at startup before
// any Store has established the current date.
func (a *Archive) CompressOld() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.compressBefore(a.now().Format("2006-01-02"))
}

func (a *Archive) now() time.Time {
	if a.useUTC {
		return time.Now().UTC()
	}
	return time.Now()
}

// compressBefore gzips all .xml snapshots whose embedded date precedes the
// given date. Caller holds the lock.
func (a *Archive) compressBefore(date string) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		a.logger.WithError(err).Error("Failed to list archive directory")
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if fileDate(name) >= date {
			continue
		}
		if err := a.compressFile(filepath.Join(a.dir, name)); err != nil {
			a.logger.WithError(err).WithField("file", name).Error("Failed to compress snapshot")
		}
	}
}

// fileDate extracts the yyyy-mm-dd portion of a snapshot filename, or ""
// when the name does not carry one.
func fileDate(name string) string {
	i := strings.LastIndex(name, "_")
	if i < 0 || len(name) < i+11 {
		return ""
	}
	return name[i+1 : i+11]
}

func (a *Archive) compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	a.logger.WithField("file", path).Info("Compressed archived snapshot")
	return os.Remove(path)
}
