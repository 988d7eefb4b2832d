package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/crawl"
	"github.com/fwojciec/catmap/fs"
)

func TestReportStore_Save(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewReportStore(dir)

	report := &crawl.CatalogReport{
		SiteURL: "https://shop.example.com",
		Categories: []crawl.CategoryOutcome{
			{Label: "Shoes", URL: "https://shop.example.com/c/shoes", Kind: crawl.KindCategory},
		},
		Stats: crawl.ReportStats{CategoriesPlanned: 1, CategoriesExplored: 1},
	}

	path, err := store.Save(report)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "shop.example.com-"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded crawl.CatalogReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://shop.example.com", decoded.SiteURL)
	require.Len(t, decoded.Categories, 1)
	assert.Equal(t, "Shoes", decoded.Categories[0].Label)

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReportStore_Save_CreatesBaseDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports", "nested")
	store := fs.NewReportStore(dir)

	_, err := store.Save(&crawl.CatalogReport{SiteURL: "https://shop.example.com"})
	require.NoError(t, err)
}

func TestReportStore_Save_InvalidSiteURL(t *testing.T) {
	t.Parallel()

	store := fs.NewReportStore(t.TempDir())

	_, err := store.Save(&crawl.CatalogReport{SiteURL: "not a url"})
	require.Error(t, err)
	assert.Equal(t, catmap.EINVALID, catmap.ErrorCode(err))
}
