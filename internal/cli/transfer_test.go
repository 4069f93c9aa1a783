package cli_test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCommand(t *testing.T) {
	backend(t, http.HandlerFunc(itemsHandler))
	path := filepath.Join(t.TempDir(), "items.csv")

	out, err := run(t, "export", "items", "-o", path, "--search", "fasteners", "--sort", "quantity", "--desc")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 Items")

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"id", "sku", "name", "category", "unit", "quantity", "reorder_level", "cost", "price", "active"}, rows[0])
	assert.Equal(t, "N-200", rows[1][1])
	assert.Equal(t, "B-100", rows[2][1])
	assert.Equal(t, "W-300", rows[3][1])
	assert.Equal(t, "0.35", rows[2][8])
}

func TestExportCommand_RequiresOutput(t *testing.T) {
	backend(t, http.HandlerFunc(itemsHandler))

	_, err := run(t, "export", "items")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"out"`)
}

func TestExportCommand_DescNeedsSort(t *testing.T) {
	backend(t, http.HandlerFunc(itemsHandler))
	path := filepath.Join(t.TempDir(), "items.csv")

	_, err := run(t, "export", "items", "-o", path, "--desc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--desc needs --sort")
	assert.NoFileExists(t, path)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const importCSV = `id,sku,name,quantity,price
,C-1,Clamp,10,2.50
,,Nameless,1,1
7,C-2,Chain,,abc
,C-3,Cable,3,
`

func TestImportCommand(t *testing.T) {
	var mu sync.Mutex
	var bodies []map[string]any
	backend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))

	out, err := run(t, "import", "items", "-f", writeCSV(t, importCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "Created: C-1")
	assert.Contains(t, out, "Row 3: skipped (SKU is required)")
	assert.Contains(t, out, "Row 4: skipped (Price must be a non-negative number")
	assert.Contains(t, out, "Created: C-3")
	assert.Contains(t, out, "Summary: 2 created, 2 skipped, 0 failed")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, map[string]any{"sku": "C-1", "name": "Clamp", "quantity": float64(10), "price": 2.5}, bodies[0])
	assert.Equal(t, map[string]any{"sku": "C-3", "name": "Cable", "quantity": float64(3)}, bodies[1])
}

func TestImportCommand_DryRunNeedsNoBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "import", "items", "-f", writeCSV(t, importCSV), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY RUN] Would create: C-1")
	assert.Contains(t, out, "Summary: 2 created, 2 skipped, 0 failed")
}

func TestImportCommand_FailedRows(t *testing.T) {
	backend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	out, err := run(t, "import", "items", "-f", writeCSV(t, "sku,name\nC-1,Clamp\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 rows failed")
	assert.Contains(t, out, "Failed: C-1")
}

func TestImportCommand_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "import", "items", "-f", writeCSV(t, "sku,name\n"), "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")

	_, err = run(t, "import", "items", "-f", writeCSV(t, "sku,colour\nC-1,red\n"), "--dry-run")
	require.NoError(t, err, "unknown columns skip the row")
}

func TestExportImport_XLSX(t *testing.T) {
	backend(t, http.HandlerFunc(itemsHandler))
	path := filepath.Join(t.TempDir(), "items.xlsx")

	_, err := run(t, "export", "items", "-o", path, "--sort", "sku")
	require.NoError(t, err)

	out, err := run(t, "import", "items", "-f", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would create: B-100")
	assert.Contains(t, out, "Would create: W-300")
	assert.Contains(t, out, "Summary: 4 created, 0 skipped, 0 failed")
}
