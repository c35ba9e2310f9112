package importer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// CaseRef is the slice of an existing case the reconciler needs to see.
type CaseRef struct {
	CaseID string
}

// CaseStore is the persistence surface the reconciler runs against. A nil
// CaseRef with a nil error means "no such case".
type CaseStore interface {
	FindByCustomerAndType(ctx context.Context, customerCode, caseType string) (*CaseRef, error)
	CreateCase(ctx context.Context, c *AggregatedCustomer) error
	UpdateDebtAndAssignee(ctx context.Context, caseID string, debt decimal.Decimal, employeeCode string) error
}

// Result is the batch audit trail, returned even when some rows failed.
type Result struct {
	TotalRows          int      `json:"totalRowsInFile"`
	SkippedRows        int      `json:"skippedRows"`
	ProcessedCustomers int      `json:"processedCustomers"`
	Created            int      `json:"created"`
	Updated            int      `json:"updated"`
	Errors             []string `json:"errors"`
}

// Reconcile upserts aggregated customers against existing cases keyed by
// (customer_code, case_type). Existing cases keep their status, history and
// creation date; only debt and assignment are overwritten. Per-customer
// failures become error strings, never aborts: each write is its own unit
// of work, so an abandoned batch leaves a consistent partial result.
func Reconcile(ctx context.Context, store CaseStore, customers []*AggregatedCustomer, caseType string) Result {
	res := Result{
		ProcessedCustomers: len(customers),
		Errors:             []string{},
	}
	for _, c := range customers {
		if c.CustomerCode == "" || c.CustomerName == "" || c.AssignedEmployeeCode == "" {
			res.Errors = append(res.Errors,
				fmt.Sprintf("Khách hàng với mã %s bị thiếu thông tin Tên hoặc CBTD.", c.CustomerCode))
			continue
		}
		existing, err := store.FindByCustomerAndType(ctx, c.CustomerCode, caseType)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Lỗi xử lý khách hàng %s: %v", c.CustomerCode, err))
			continue
		}
		if existing != nil {
			if err := store.UpdateDebtAndAssignee(ctx, existing.CaseID, c.OutstandingDebt, c.AssignedEmployeeCode); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Lỗi xử lý khách hàng %s: %v", c.CustomerCode, err))
				continue
			}
			res.Updated++
			continue
		}
		if err := store.CreateCase(ctx, c); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Lỗi xử lý khách hàng %s: %v", c.CustomerCode, err))
			continue
		}
		res.Created++
	}
	return res
}

// ImportFromBuffer runs the full pipeline for one uploaded extract:
// signature check, decode, aggregate, reconcile. Only an unreadable file
// returns an error; row-level problems land in the Result.
func ImportFromBuffer(ctx context.Context, store CaseStore, data []byte, shape RowShape, caseType string) (Result, error) {
	rows, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	customers, outcomes := Aggregate(rows, shape, caseType)
	res := Reconcile(ctx, store, customers, caseType)
	res.TotalRows = len(rows)
	for _, o := range outcomes {
		if o.Skipped {
			res.SkippedRows++
		}
	}
	return res, nil
}
