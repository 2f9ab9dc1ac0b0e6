package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"amunoz/movimientos/internal/classifier"
	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
	"amunoz/movimientos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marchExport = `Cuenta;ES0600730100500123456789
Fecha Operación;Fecha Valor;Concepto;Importe;Saldo
15/03/2024;15/03/2024;COMPRA EN MERCADONA VALENCIA, CON LA TARJETA 5402XXXXXXXX1234;-42,17;1.234,56
16/03/2024;16/03/2024;XWZKQ ABONO SIN REGLA;-10,00;1.224,56
`

// aprilExport overlaps marchExport on the Mercadona purchase and adds one
// new movement, mimicking overlapping monthly downloads.
const aprilExport = `Cuenta;ES0600730100500123456789
Fecha Operación;Fecha Valor;Concepto;Importe;Saldo
15/03/2024;15/03/2024;COMPRA EN MERCADONA VALENCIA, CON LA TARJETA 5402XXXXXXXX1234;-42,17;1.234,56
02/04/2024;02/04/2024;RECIBO LUZ IBERDROLA;-85,20;1.139,36
`

func newTestRunner(t *testing.T) (*Runner, *store.Store) {
	t.Helper()
	logger := logging.NewMockLogger()

	st, err := store.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	cl := classifier.New(rules.DefaultTables(), st, logger)
	return NewRunner(st, cl, logger), st
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunIngestsAndClassifies(t *testing.T) {
	runner, st := newTestRunner(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "openbank_marzo.csv", marchExport)

	summary, err := runner.Run([]string{path})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 0, summary.Duplicates)
	assert.Equal(t, 1, summary.Unclassified, "the nonsense description falls through the cascade")
	assert.Empty(t, summary.FailedFiles())

	stored, err := st.ListTransactions()
	require.NoError(t, err)
	require.Len(t, stored, 2)

	var mercadona models.Transaction
	for _, tx := range stored {
		if tx.Merchant == "MERCADONA VALENCIA" {
			mercadona = tx
		}
	}
	assert.Equal(t, models.CategoryGroceries, mercadona.Category1)
	assert.Equal(t, models.LayerMerchant, mercadona.Layer)
	assert.NotEmpty(t, mercadona.Hash)
}

func TestRunFullReimportIsAllDuplicate(t *testing.T) {
	runner, _ := newTestRunner(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "openbank_marzo.csv", marchExport)

	first, err := runner.Run([]string{path})
	require.NoError(t, err)
	require.Equal(t, 2, first.Accepted)

	second, err := runner.Run([]string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Accepted)
	assert.Equal(t, 2, second.Duplicates)
}

func TestRunOverlappingExports(t *testing.T) {
	runner, st := newTestRunner(t)
	dir := t.TempDir()
	march := writeFile(t, dir, "openbank_marzo.csv", marchExport)
	april := writeFile(t, dir, "openbank_abril.csv", aprilExport)

	summary, err := runner.Run([]string{march, april})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Accepted, "the overlapping purchase is stored once")
	assert.Equal(t, 1, summary.Duplicates)

	stored, err := st.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestRunExcludesDefectiveFileOnly(t *testing.T) {
	runner, st := newTestRunner(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "openbank_marzo.csv", marchExport)
	bad := writeFile(t, dir, "notes.txt", "not a bank export at all")

	summary, err := runner.Run([]string{good, bad})
	require.NoError(t, err, "a defective file is a finding, not a batch failure")

	failed := summary.FailedFiles()
	require.Len(t, failed, 1)
	assert.Equal(t, bad, failed[0].File)
	assert.Equal(t, 2, summary.Accepted)

	stored, err := st.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestOrderFilesIsStable(t *testing.T) {
	dir := t.TempDir()
	big := writeFile(t, dir, "b_big.csv", "0123456789abcdef")
	small := writeFile(t, dir, "a_small.csv", "0123")
	sameSize := writeFile(t, dir, "c_big.csv", "fedcba9876543210")

	ordered, err := orderFiles([]string{small, sameSize, big})
	require.NoError(t, err)
	assert.Equal(t, []string{big, sameSize, small}, ordered, "size descending, then name")
}
