package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RowShape maps an extract's column headers onto the fields the aggregator
// needs. The internal and external extracts name the same concepts
// differently, so each import path declares its own shape instead of one
// reader guessing from headers.
type RowShape struct {
	CustomerCode string
	CustomerName string
	Debt         string
	Employee     string
	// DebtGroup is empty for extracts that are pre-filtered upstream and
	// carry no classification column.
	DebtGroup string
}

var (
	// InternalShape reads the raw core-banking extract, which contains all
	// loan statuses and therefore needs the debt-group filter.
	InternalShape = RowShape{
		CustomerCode: "brcd",
		CustomerName: "custnm",
		Debt:         "dsbsbal",
		Employee:     "ofcno",
		DebtGroup:    "AQCCDFIN",
	}
	// ExternalShape reads the off-balance extract, already filtered upstream.
	ExternalShape = RowShape{
		CustomerCode: "makh",
		CustomerName: "TenKhachHang",
		Debt:         "Ngoaibang",
		Employee:     "cbtd",
	}
)

// AllowedDebtGroups is the fixed set of actionable collection groups
// (substandard, doubtful, loss). Hardcoded bank policy, not configuration.
var AllowedDebtGroups = map[int]bool{3: true, 4: true, 5: true}

// AggregatedCustomer is one customer's merged position within a single
// import batch.
type AggregatedCustomer struct {
	CustomerCode         string
	CustomerName         string
	OutstandingDebt      decimal.Decimal
	AssignedEmployeeCode string
	CaseType             string
}

// RowOutcome records what happened to one data row during aggregation, so
// filtered rows are visible in the batch summary instead of silently gone.
type RowOutcome struct {
	Row     int
	Skipped bool
	Reason  string
}

// Aggregate folds spreadsheet rows into one record per customer code, in
// file order. When the shape carries a debt-group column, only groups 3-5
// qualify. Duplicate customers sum their debt; the first-seen name and
// employee win, since the extract does not guarantee they repeat
// consistently across a customer's rows.
func Aggregate(rows []map[string]string, shape RowShape, caseType string) ([]*AggregatedCustomer, []RowOutcome) {
	byCode := make(map[string]*AggregatedCustomer)
	order := make([]string, 0, len(rows))
	outcomes := make([]RowOutcome, 0, len(rows))

	for i, row := range rows {
		if shape.DebtGroup != "" {
			group := DebtGroup(row[shape.DebtGroup])
			if !AllowedDebtGroups[group] {
				outcomes = append(outcomes, RowOutcome{
					Row: i, Skipped: true,
					Reason: fmt.Sprintf("nhóm nợ %d không thuộc nhóm 3-5", group),
				})
				continue
			}
		}
		code := strings.TrimSpace(row[shape.CustomerCode])
		if code == "" {
			outcomes = append(outcomes, RowOutcome{Row: i, Skipped: true, Reason: "thiếu mã khách hàng"})
			continue
		}
		debt := Amount(row[shape.Debt])
		if agg, ok := byCode[code]; ok {
			agg.OutstandingDebt = agg.OutstandingDebt.Add(debt)
		} else {
			byCode[code] = &AggregatedCustomer{
				CustomerCode:         code,
				CustomerName:         strings.TrimSpace(row[shape.CustomerName]),
				OutstandingDebt:      debt,
				AssignedEmployeeCode: strings.TrimSpace(row[shape.Employee]),
				CaseType:             caseType,
			}
			order = append(order, code)
		}
		outcomes = append(outcomes, RowOutcome{Row: i})
	}

	out := make([]*AggregatedCustomer, 0, len(order))
	for _, code := range order {
		out = append(out, byCode[code])
	}
	return out, outcomes
}
