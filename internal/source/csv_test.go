package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `DIVISION,BRAND,BRANCH NAME,ITEM DESCRIPTION,2024 TOTAL SALES,2025 TOTAL SALES
Electronics,Acme,"Main, Downtown",Widget,100,150
Food,Tasty,East,"Choco, Large",50,
`

func TestCSVFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	rows, err := CSVFile{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Electronics", rows[0]["DIVISION"])
	// Quoted commas stay inside one cell.
	assert.Equal(t, "Main, Downtown", rows[0]["BRANCH NAME"])
	assert.Equal(t, "Choco, Large", rows[1]["ITEM DESCRIPTION"])
	assert.Equal(t, "", rows[1]["2025 TOTAL SALES"])
}

func TestParseCSVPadsShortRows(t *testing.T) {
	ragged := "DIVISION,BRAND,BRANCH NAME,ITEM DESCRIPTION,2025 TOTAL SALES\nA,X,Main\n"
	rows, err := ParseCSV(strings.NewReader(ragged))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["ITEM DESCRIPTION"])
	assert.Equal(t, "", rows[0]["2025 TOTAL SALES"])
}

func TestParseCSVMissingRequiredColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("DIVISION,BRAND\nA,X\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRANCH NAME")
	assert.Contains(t, err.Error(), "ITEM DESCRIPTION")
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	lower := "division,brand,branch name,item description\nA,X,Main,Widget\n"
	rows, err := ParseCSV(strings.NewReader(lower))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Keys pass through as-is; the normalizer owns case folding.
	assert.Equal(t, "A", rows[0]["division"])
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestCSVFileMissing(t *testing.T) {
	_, err := CSVFile{Path: filepath.Join(t.TempDir(), "nope.csv")}.Fetch(context.Background())
	require.Error(t, err)
}
