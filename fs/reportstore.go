// Package fs provides file-based storage for catalog reports.
package fs

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/crawl"
)

// ReportStore writes catalog reports as JSON files to a directory,
// one file per site and run. Writes are atomic: the report lands in a
// temporary file and is renamed into place, so a crash mid-write never
// leaves a truncated report behind.
type ReportStore struct {
	baseDir string
}

// NewReportStore creates a new ReportStore that writes to the given
// base directory.
func NewReportStore(baseDir string) *ReportStore {
	return &ReportStore{baseDir: baseDir}
}

// Save writes the report and returns the path it was written to.
func (s *ReportStore) Save(report *crawl.CatalogReport) (string, error) {
	name, err := reportFilename(report.SiteURL, time.Now())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	finalPath := filepath.Join(s.baseDir, name)
	tmpPath := finalPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return finalPath, nil
}

// reportFilename derives a stable file name from the site host and the
// run timestamp. Example: shop.example.com-20260831-154210.json
func reportFilename(siteURL string, at time.Time) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return "", catmap.Errorf(catmap.EINVALID, "invalid site URL %q: %v", siteURL, err)
	}
	host := u.Host
	if host == "" {
		return "", catmap.Errorf(catmap.EINVALID, "site URL %q has no host", siteURL)
	}
	host = strings.ReplaceAll(host, ":", "-")
	return host + "-" + at.Format("20060102-150405") + ".json", nil
}
