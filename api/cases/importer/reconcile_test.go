package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCase struct {
	id       string
	debt     decimal.Decimal
	employee string
	status   string
}

type fakeStore struct {
	cases   map[string]*fakeCase // customer_code|case_type
	nextID  int
	findErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{cases: make(map[string]*fakeCase)}
}

func (s *fakeStore) key(code, caseType string) string { return code + "|" + caseType }

func (s *fakeStore) FindByCustomerAndType(_ context.Context, code, caseType string) (*CaseRef, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if c, ok := s.cases[s.key(code, caseType)]; ok {
		return &CaseRef{CaseID: c.id}, nil
	}
	return nil, nil
}

func (s *fakeStore) CreateCase(_ context.Context, c *AggregatedCustomer) error {
	s.nextID++
	s.cases[s.key(c.CustomerCode, c.CaseType)] = &fakeCase{
		id:       fmt.Sprintf("case-%d", s.nextID),
		debt:     c.OutstandingDebt,
		employee: c.AssignedEmployeeCode,
		status:   "Mới",
	}
	return nil
}

func (s *fakeStore) UpdateDebtAndAssignee(_ context.Context, caseID string, debt decimal.Decimal, employee string) error {
	for _, c := range s.cases {
		if c.id == caseID {
			c.debt = debt
			c.employee = employee
			return nil
		}
	}
	return errors.New("case not found")
}

func agg(code, name, employee string, debt int64) *AggregatedCustomer {
	return &AggregatedCustomer{
		CustomerCode:         code,
		CustomerName:         name,
		OutstandingDebt:      decimal.NewFromInt(debt),
		AssignedEmployeeCode: employee,
		CaseType:             "internal",
	}
}

func TestReconcileCreatesThenUpdates(t *testing.T) {
	store := newFakeStore()
	customers := []*AggregatedCustomer{agg("KH002", "Công ty A", "NV01", 1000000)}

	res := Reconcile(context.Background(), store, customers, "internal")
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Errors)

	// An identical second run must update, not duplicate, and the stored debt
	// stays the aggregated value rather than a double-sum.
	res = Reconcile(context.Background(), store, customers, "internal")
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, store.cases, 1)
	assert.True(t, decimal.NewFromInt(1000000).Equal(store.cases["KH002|internal"].debt))
}

func TestReconcileDistinguishesCaseTypes(t *testing.T) {
	store := newFakeStore()
	internal := []*AggregatedCustomer{agg("KH005", "A", "NV01", 100)}
	external := []*AggregatedCustomer{{
		CustomerCode: "KH005", CustomerName: "A", AssignedEmployeeCode: "NV01",
		OutstandingDebt: decimal.NewFromInt(200), CaseType: "external",
	}}

	Reconcile(context.Background(), store, internal, "internal")
	res := Reconcile(context.Background(), store, external, "external")
	assert.Equal(t, 1, res.Created, "same customer code, different classification is a distinct case")
	assert.Len(t, store.cases, 2)
}

func TestReconcileRecordsMissingFieldErrors(t *testing.T) {
	store := newFakeStore()
	customers := []*AggregatedCustomer{
		agg("KH006", "B", "", 100), // missing assigned employee
		agg("KH007", "C", "NV02", 200),
	}
	res := Reconcile(context.Background(), store, customers, "internal")
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Updated)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "KH006")
	_, exists := store.cases["KH006|internal"]
	assert.False(t, exists, "bad row must not be written")
	_, exists = store.cases["KH007|internal"]
	assert.True(t, exists, "valid rows in the same batch still succeed")
}

func TestReconcileStoreErrorsDoNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection reset")
	customers := []*AggregatedCustomer{agg("KH008", "D", "NV03", 1)}
	res := Reconcile(context.Background(), store, customers, "internal")
	assert.Equal(t, 0, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "KH008")
}

func TestReconcileUpdatesOnlyDebtAndAssignee(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.CreateCase(context.Background(), agg("KH009", "E", "NV04", 500)))
	store.cases["KH009|internal"].status = "Đang khởi kiện"

	res := Reconcile(context.Background(), store,
		[]*AggregatedCustomer{agg("KH009", "E", "NV09", 750)}, "internal")
	assert.Equal(t, 1, res.Updated)
	c := store.cases["KH009|internal"]
	assert.True(t, decimal.NewFromInt(750).Equal(c.debt))
	assert.Equal(t, "NV09", c.employee)
	assert.Equal(t, "Đang khởi kiện", c.status, "status must survive re-import")
}
