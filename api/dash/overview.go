package dash

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"XuLyNoSaas/api/auth"
	"XuLyNoSaas/api/constants"
)

func respondWithError(w http.ResponseWriter, status int, errMsg string) {
	log.Println("[ERROR]", errMsg)
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	json.NewEncoder(w).Encode(v)
}

// requireLeader gates every dashboard endpoint: only leadership roles get
// branch-wide aggregates.
func requireLeader(w http.ResponseWriter, r *http.Request) *auth.UserSession {
	employeeCode := r.FormValue("user_id")
	if employeeCode == "" {
		respondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
		return nil
	}
	session := auth.SessionByEmployee(employeeCode)
	if session == nil {
		respondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
		return nil
	}
	if !constants.LeadershipRoles[session.Role] {
		respondWithError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
		return nil
	}
	return session
}

func parseDebt(raw sql.NullString) decimal.Decimal {
	if !raw.Valid {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw.String)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// GetOverview returns the headline numbers: total cases and debt, split by
// case classification.
func GetOverview(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireLeader(w, r) == nil {
			return
		}

		rows, err := db.Query(`
			SELECT case_type, COUNT(case_id), SUM(outstanding_debt)::text
			FROM debt_cases
			GROUP BY case_type`)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "DB error")
			return
		}
		defer rows.Close()

		totalCases := 0
		totalDebt := decimal.Zero
		byType := map[string]map[string]interface{}{}
		for rows.Next() {
			var caseType string
			var count int
			var debt sql.NullString
			if err := rows.Scan(&caseType, &count, &debt); err != nil {
				continue
			}
			d := parseDebt(debt)
			totalCases += count
			totalDebt = totalDebt.Add(d)
			byType[caseType] = map[string]interface{}{
				"cases": count,
				"debt":  d,
			}
		}
		respondJSON(w, map[string]interface{}{
			"totalCases": totalCases,
			"totalDebt":  totalDebt,
			"byCaseType": byType,
		})
	}
}

// GetCasesByStatus returns case counts and debt totals per workflow state.
func GetCasesByStatus(db *sql.DB) http.HandlerFunc {
	return groupedAggregate(db, `
		SELECT state, COUNT(case_id), SUM(outstanding_debt)::text
		FROM debt_cases
		GROUP BY state
		ORDER BY COUNT(case_id) DESC`, "status")
}

// GetCasesByDepartment groups by the assigned officer's department.
func GetCasesByDepartment(db *sql.DB) http.HandlerFunc {
	return groupedAggregate(db, `
		SELECT COALESCE(u.dept, 'Chưa phân công'), COUNT(c.case_id), SUM(c.outstanding_debt)::text
		FROM debt_cases c
		LEFT JOIN users u ON u.employee_code = c.assigned_employee_code
		GROUP BY COALESCE(u.dept, 'Chưa phân công')
		ORDER BY COUNT(c.case_id) DESC`, "department")
}

// GetCasesByBranch groups by the assigned officer's branch.
func GetCasesByBranch(db *sql.DB) http.HandlerFunc {
	return groupedAggregate(db, `
		SELECT COALESCE(u.branch_code, 'Chưa phân công'), COUNT(c.case_id), SUM(c.outstanding_debt)::text
		FROM debt_cases c
		LEFT JOIN users u ON u.employee_code = c.assigned_employee_code
		GROUP BY COALESCE(u.branch_code, 'Chưa phân công')
		ORDER BY COUNT(c.case_id) DESC`, "branch")
}

// GetCasesByOfficer returns per-officer workload with names resolved.
func GetCasesByOfficer(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireLeader(w, r) == nil {
			return
		}

		rows, err := db.Query(`
			SELECT c.assigned_employee_code, COALESCE(u.fullname, ''),
			       COUNT(c.case_id), SUM(c.outstanding_debt)::text
			FROM debt_cases c
			LEFT JOIN users u ON u.employee_code = c.assigned_employee_code
			WHERE c.assigned_employee_code IS NOT NULL
			GROUP BY c.assigned_employee_code, u.fullname
			ORDER BY COUNT(c.case_id) DESC`)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "DB error")
			return
		}
		defer rows.Close()

		type officerRow struct {
			EmployeeCode string          `json:"employee_code"`
			Fullname     string          `json:"fullname"`
			Cases        int             `json:"cases"`
			Debt         decimal.Decimal `json:"debt"`
		}
		out := make([]officerRow, 0)
		for rows.Next() {
			var row officerRow
			var debt sql.NullString
			if err := rows.Scan(&row.EmployeeCode, &row.Fullname, &row.Cases, &debt); err != nil {
				continue
			}
			row.Debt = parseDebt(debt)
			out = append(out, row)
		}
		respondJSON(w, map[string]interface{}{"officers": out})
	}
}

// GetRecentActivity lists the latest audit-trail entries across all cases.
func GetRecentActivity(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireLeader(w, r) == nil {
			return
		}

		rows, err := db.Query(`
			SELECT cu.update_content, cu.created_by_employee_code, cu.created_date,
			       c.customer_code, c.customer_name
			FROM case_updates cu
			JOIN debt_cases c ON c.case_id = cu.case_id
			ORDER BY cu.created_date DESC
			LIMIT 20`)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "DB error")
			return
		}
		defer rows.Close()

		type activityRow struct {
			Content      string `json:"content"`
			EmployeeCode string `json:"employee_code"`
			CreatedDate  string `json:"created_date"`
			CustomerCode string `json:"customer_code"`
			CustomerName string `json:"customer_name"`
		}
		out := make([]activityRow, 0)
		for rows.Next() {
			var row activityRow
			if err := rows.Scan(&row.Content, &row.EmployeeCode, &row.CreatedDate,
				&row.CustomerCode, &row.CustomerName); err != nil {
				continue
			}
			out = append(out, row)
		}
		respondJSON(w, map[string]interface{}{"activity": out})
	}
}

func groupedAggregate(db *sql.DB, query, keyName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireLeader(w, r) == nil {
			return
		}

		rows, err := db.Query(query)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "DB error")
			return
		}
		defer rows.Close()

		type groupRow struct {
			Key   string          `json:"-"`
			Cases int             `json:"cases"`
			Debt  decimal.Decimal `json:"debt"`
		}
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var row groupRow
			var debt sql.NullString
			if err := rows.Scan(&row.Key, &row.Cases, &debt); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				keyName: row.Key,
				"cases": row.Cases,
				"debt":  parseDebt(debt),
			})
		}
		respondJSON(w, map[string]interface{}{"groups": out})
	}
}
