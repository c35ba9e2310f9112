package cases

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"XuLyNoSaas/api/constants"
	"XuLyNoSaas/api/utils"
	"XuLyNoSaas/internal/logger"
)

// ListCases returns every case, for leadership roles only.
func ListCases(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		if !constants.LeadershipRoles[user.Role] {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		list, err := store.ListAll(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    list,
		})
	}
}

// ListMyCases returns the cases assigned to the calling officer.
func ListMyCases(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}

		list, err := store.ListByEmployee(r.Context(), user.EmployeeCode)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    list,
		})
	}
}

// canSeeCase is the per-case read rule: leadership sees everything, an
// officer only what is assigned to them.
func canSeeCase(role, employeeCode string, c *DebtCase) bool {
	if constants.LeadershipRoles[role] {
		return true
	}
	return c.AssignedEmployeeCode == employeeCode
}

func GetCaseDetail(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		caseID := mux.Vars(r)["caseId"]

		c, err := store.GetByID(r.Context(), caseID)
		if errors.Is(err, ErrCaseNotFound) {
			httpError(w, http.StatusNotFound, constants.ErrMsgCaseNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !canSeeCase(user.Role, user.EmployeeCode, c) {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		documents, err := store.DocumentsByCase(r.Context(), caseID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"case":      c,
				"documents": documents,
			},
		})
	}
}

func ListCaseUpdates(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		caseID := mux.Vars(r)["caseId"]

		c, err := store.GetByID(r.Context(), caseID)
		if errors.Is(err, ErrCaseNotFound) {
			httpError(w, http.StatusNotFound, constants.ErrMsgCaseNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !canSeeCase(user.Role, user.EmployeeCode, c) {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := store.CountUpdatesByCase(r.Context(), caseID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pagination.SetPaginationStats(total)

		updates, err := store.UpdatesByCase(r.Context(), caseID, pagination.Limit, pagination.Offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"data":       updates,
			"pagination": pagination,
		})
	}
}

func AddCaseUpdate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		caseID := mux.Vars(r)["caseId"]

		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if strings.TrimSpace(body.Content) == "" {
			httpError(w, http.StatusBadRequest, constants.ErrMsgMissingContent)
			return
		}

		if _, err := store.GetByID(r.Context(), caseID); err != nil {
			if errors.Is(err, ErrCaseNotFound) {
				httpError(w, http.StatusNotFound, constants.ErrMsgCaseNotFound)
				return
			}
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		update := &CaseUpdate{
			CaseID:                caseID,
			UpdateContent:         body.Content,
			CreatedByEmployeeCode: user.EmployeeCode,
		}
		if err := store.CreateUpdate(r.Context(), update); err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := store.Touch(r.Context(), caseID); err != nil {
			logger.Audit(fmt.Sprintf("touch after update failed case=%s: %v", caseID, err))
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Cập nhật hồ sơ thành công!",
			"data":    update,
		})
	}
}

func UpdateCaseStatus(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		caseID := mux.Vars(r)["caseId"]

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if !constants.ValidStatuses[body.Status] {
			httpError(w, http.StatusBadRequest, constants.ErrMsgInvalidStatus)
			return
		}

		c, err := store.GetByID(r.Context(), caseID)
		if errors.Is(err, ErrCaseNotFound) {
			httpError(w, http.StatusNotFound, constants.ErrMsgCaseNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !canSeeCase(user.Role, user.EmployeeCode, c) {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}
		if c.State == body.Status {
			httpError(w, http.StatusBadRequest, constants.ErrMsgStatusUnchanged)
			return
		}

		if err := store.UpdateStatus(r.Context(), caseID, body.Status); err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		update := &CaseUpdate{
			CaseID: caseID,
			UpdateContent: fmt.Sprintf("Cập nhật trạng thái từ %q sang %q",
				c.State, body.Status),
			CreatedByEmployeeCode: user.EmployeeCode,
		}
		if err := store.CreateUpdate(r.Context(), update); err != nil {
			logger.Audit(fmt.Sprintf("status audit row failed case=%s: %v", caseID, err))
		}

		updated, err := store.GetByID(r.Context(), caseID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Cập nhật trạng thái hồ sơ thành công!",
			"data":    updated,
		})
	}
}
