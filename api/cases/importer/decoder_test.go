package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestDecodeRejectsNonSpreadsheet(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("just some text"),
		[]byte("%PDF-1.4 not a workbook"),
		{0x00, 0x01, 0x02},
		{},
	} {
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrNotSpreadsheet)
	}
}

func TestDecodeRejectsHeaderOnlyWorkbook(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{{"brcd", "custnm"}})
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestDecodeKeysRowsByHeader(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"brcd", "custnm", "AQCCDFIN", "dsbsbal", "ofcno"},
		{"KH001", "Công ty TNHH A", "Nhóm 3", 1000000, "NV01"},
	})
	rows, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KH001", rows[0]["brcd"])
	assert.Equal(t, "Công ty TNHH A", rows[0]["custnm"])
	assert.Equal(t, "Nhóm 3", rows[0]["AQCCDFIN"])
}

func TestImportFromBufferScenario(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"brcd", "custnm", "AQCCDFIN", "dsbsbal", "ofcno"},
		{"KH002", "Công ty A", "Nhóm 3", 1000000, "NV01"},
		{"KH002", "Công ty A", "Nhóm 9", 2000000, "NV01"},
	})
	store := newFakeStore()

	res, err := ImportFromBuffer(context.Background(), store, data, InternalShape, "internal")
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.SkippedRows, "the group-9 row is filtered")
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.True(t, decimal.NewFromInt(1000000).Equal(store.cases["KH002|internal"].debt))

	// Re-importing the same file updates in place.
	res, err = ImportFromBuffer(context.Background(), store, data, InternalShape, "internal")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.True(t, decimal.NewFromInt(1000000).Equal(store.cases["KH002|internal"].debt))
}

func TestImportFromBufferReportsRowErrors(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"brcd", "custnm", "AQCCDFIN", "dsbsbal", "ofcno"},
		{"KH003", "Công ty B", "Nhóm 4", 500000, ""},
		{"KH004", "Công ty C", "Nhóm 5", 700000, "NV02"},
	})
	store := newFakeStore()
	res, err := ImportFromBuffer(context.Background(), store, data, InternalShape, "internal")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "KH003")
}
