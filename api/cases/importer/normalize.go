package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"XuLyNoSaas/api/constants"
)

var digitRun = regexp.MustCompile(`\d+`)

// DebtGroup extracts the numeric debt classification from a cell. The core
// banking extract writes it as free text ("Nhóm 3", "3 - Dưới tiêu chuẩn"),
// so the first contiguous digit run wins; a cell without digits is group 0.
// Total function: any input yields a number, never a panic.
func DebtGroup(cell string) int {
	m := digitRun.FindString(cell)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Amount coerces a currency cell into a non-negative decimal. Thousands
// separators and non-breaking spaces are stripped first; anything still
// unparsable becomes zero so one bad cell cannot abort a whole batch.
func Amount(cell string) decimal.Decimal {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, constants.NBSP, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
