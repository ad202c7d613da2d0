package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rtui/config"
	"rtui/model"
)

// ReportExporter writes offered report artifacts to disk. It implements
// model.ReportWriter.
type ReportExporter struct {
	now func() time.Time
}

func NewReportExporter() *ReportExporter {
	return &ReportExporter{now: time.Now}
}

// SaveReport writes the artifact into dir and returns the path. An existing
// file is never overwritten; a timestamp suffix is added instead.
func (e *ReportExporter) SaveReport(dir string, artifact *model.Artifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("no report to save")
	}

	// Ensure directory exists (0700 - user-only access)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path, err := e.exportPath(dir, artifact.FileName)
	if err != nil {
		return "", err
	}

	// O_EXCL so a concurrent writer cannot be clobbered either
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	if _, err := f.WriteString(artifact.Content); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Storage] Saved report (%d bytes) to %s", len(artifact.Content), path)
	}
	return path, nil
}

// exportPath picks the first free name among name, name-<timestamp> and
// name-<timestamp>-<n>.
func (e *ReportExporter) exportPath(dir, name string) (string, error) {
	name = SanitizeFilename(name)
	path := filepath.Join(dir, name)
	if !config.FileExists(path) {
		return path, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	stamp := e.now().Format("20060102-150405")
	for n := 1; n < 100; n++ {
		candidate := fmt.Sprintf("%s-%s%s", base, stamp, ext)
		if n > 1 {
			candidate = fmt.Sprintf("%s-%s-%d%s", base, stamp, n, ext)
		}
		path = filepath.Join(dir, candidate)
		if !config.FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '\n', '\r':
			return '-'
		}
		return r
	}, name)

	// Remove leading/trailing hyphens and dots
	name = strings.Trim(name, "-.")

	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = model.ReportFileName
	}
	return name
}
