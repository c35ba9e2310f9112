package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func internalRow(code, name, group, debt, employee string) map[string]string {
	return map[string]string{
		"brcd": code, "custnm": name, "AQCCDFIN": group, "dsbsbal": debt, "ofcno": employee,
	}
}

func TestAggregateFiltersDebtGroups(t *testing.T) {
	rows := []map[string]string{
		internalRow("KH002", "Công ty A", "Nhóm 3", "1000000", "NV01"),
		internalRow("KH002", "Công ty A", "Nhóm 9", "2000000", "NV01"),
	}
	customers, outcomes := Aggregate(rows, InternalShape, "internal")
	require.Len(t, customers, 1)
	assert.True(t, decimal.NewFromInt(1000000).Equal(customers[0].OutstandingDebt),
		"group-9 row must be filtered out, got %s", customers[0].OutstandingDebt)

	skipped := 0
	for _, o := range outcomes {
		if o.Skipped {
			skipped++
			assert.NotEmpty(t, o.Reason)
		}
	}
	assert.Equal(t, 1, skipped)
}

func TestAggregateExcludesFullyFilteredCustomers(t *testing.T) {
	rows := []map[string]string{
		internalRow("KH001", "A", "Nhóm 1", "100", "NV01"),
		internalRow("KH001", "A", "Nhóm 2", "200", "NV01"),
		internalRow("KH002", "B", "Nhóm 4", "300", "NV02"),
	}
	customers, _ := Aggregate(rows, InternalShape, "internal")
	require.Len(t, customers, 1)
	assert.Equal(t, "KH002", customers[0].CustomerCode)
}

func TestAggregateSumsDuplicatesFirstSeenWins(t *testing.T) {
	rows := []map[string]string{
		internalRow("KH003", "Tên đầu", "3", "1000", "NV01"),
		internalRow("KH003", "Tên sau", "4", "2500", "NV02"),
	}
	customers, _ := Aggregate(rows, InternalShape, "internal")
	require.Len(t, customers, 1)
	c := customers[0]
	assert.True(t, decimal.NewFromInt(3500).Equal(c.OutstandingDebt))
	assert.Equal(t, "Tên đầu", c.CustomerName, "first occurrence wins")
	assert.Equal(t, "NV01", c.AssignedEmployeeCode, "first occurrence wins")
}

func TestAggregateSkipsRowsWithoutCustomerCode(t *testing.T) {
	rows := []map[string]string{
		internalRow("", "A", "3", "100", "NV01"),
		internalRow("KH004", "B", "5", "700", "NV02"),
	}
	customers, outcomes := Aggregate(rows, InternalShape, "internal")
	require.Len(t, customers, 1)
	assert.Equal(t, "KH004", customers[0].CustomerCode)
	assert.True(t, outcomes[0].Skipped)
}

func TestAggregateExternalHasNoFilter(t *testing.T) {
	rows := []map[string]string{
		{"makh": "KH010", "TenKhachHang": "C", "Ngoaibang": "900", "cbtd": "NV05"},
		{"makh": "KH011", "TenKhachHang": "D", "Ngoaibang": "100", "cbtd": "NV06"},
	}
	customers, outcomes := Aggregate(rows, ExternalShape, "external")
	assert.Len(t, customers, 2)
	for _, o := range outcomes {
		assert.False(t, o.Skipped)
	}
	assert.Equal(t, "external", customers[0].CaseType)
}

func TestAggregatePreservesFileOrder(t *testing.T) {
	rows := []map[string]string{
		internalRow("KH-C", "C", "3", "1", "NV"),
		internalRow("KH-A", "A", "3", "1", "NV"),
		internalRow("KH-B", "B", "3", "1", "NV"),
	}
	customers, _ := Aggregate(rows, InternalShape, "internal")
	require.Len(t, customers, 3)
	assert.Equal(t, "KH-C", customers[0].CustomerCode)
	assert.Equal(t, "KH-A", customers[1].CustomerCode)
	assert.Equal(t, "KH-B", customers[2].CustomerCode)
}
