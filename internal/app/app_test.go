package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/cellcombo/internal/ui/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogsSample(t *testing.T) {
	set, err := LoadCatalogs("")
	require.NoError(t, err)
	assert.Equal(t, 6, set.Projects.Len())
	assert.Equal(t, 5, set.Types.Len())

	item, ok := set.Projects.ByID("20014")
	require.True(t, ok)
	assert.Equal(t, "20014 - Harbour wall", item.Long)
}

func TestLoadCatalogsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	content := "ProjectCodes:\n  - {Code: 1, Type: Design, Description: Pier}\nProjectTypes: [Design]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := LoadCatalogs(path)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Projects.Len())
	assert.Equal(t, 1, set.Types.Len())
}

func TestLoadCatalogsMissingFile(t *testing.T) {
	_, err := LoadCatalogs(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "load catalog")
}

func TestColumnsLayout(t *testing.T) {
	set, err := LoadCatalogs("")
	require.NoError(t, err)

	columns := Columns(set)
	require.Len(t, columns, 4+len(weekdays))
	assert.Equal(t, grid.KindFiltered, columns[1].Kind)
	assert.Same(t, set.Projects, columns[1].Catalog)
	assert.Equal(t, grid.KindChecked, columns[2].Kind)
	assert.Same(t, set.Types, columns[2].Catalog)
	assert.Error(t, columns[3].Validate("1000"))
	assert.NoError(t, columns[3].Validate("999"))
	assert.Equal(t, "Sun", columns[len(columns)-1].Title)
}

func TestNewGridDefaultsRows(t *testing.T) {
	set, err := LoadCatalogs("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRows, NewGrid(Config{}, set).Rows())
	assert.Equal(t, 3, NewGrid(Config{Rows: 3}, set).Rows())
}
