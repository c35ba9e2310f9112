package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/lib/pq"

	"XuLyNoSaas/api/auth"
	"XuLyNoSaas/api/constants"
	"XuLyNoSaas/internal/logger"
)

const (
	errMsgUserNotFound    = "Không tìm thấy người dùng."
	errMsgUserExists      = "Tên đăng nhập hoặc Mã nhân viên đã tồn tại."
	errMsgMissingEmployee = "Mã nhân viên là bắt buộc."
	errMsgShortUsername   = "Tên đăng nhập phải có ít nhất 4 ký tự."
	errMsgShortPassword   = "Mật khẩu phải có ít nhất 6 ký tự."
	errMsgMissingFullname = "Họ và tên là bắt buộc."
	errMsgInvalidDept     = "Phòng ban không hợp lệ."
	errMsgInvalidRole     = "Vai trò không hợp lệ."
)

const pgUniqueViolation = "23505"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// requireUser resolves the caller from the user_id form/query value against
// the active session table, same contract as the case endpoints.
func requireUser(w http.ResponseWriter, r *http.Request) *auth.UserSession {
	employeeCode := r.FormValue("user_id")
	if employeeCode == "" {
		httpError(w, http.StatusBadRequest, constants.ErrMissingUserID)
		return nil
	}
	session := auth.SessionByEmployee(employeeCode)
	if session == nil {
		httpError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
		return nil
	}
	return session
}

func roleAllowed(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func requireRole(w http.ResponseWriter, r *http.Request, roles ...string) *auth.UserSession {
	session := requireUser(w, r)
	if session == nil {
		return nil
	}
	if !roleAllowed(session.Role, roles...) {
		httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
		return nil
	}
	return session
}

type createUserRequest struct {
	EmployeeCode string `json:"employee_code"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Fullname     string `json:"fullname"`
	Dept         string `json:"dept"`
	Role         string `json:"role"`
	BranchCode   string `json:"branch_code"`
}

func validateCreateUser(req *createUserRequest) string {
	switch {
	case strings.TrimSpace(req.EmployeeCode) == "":
		return errMsgMissingEmployee
	case len(req.Username) < 4:
		return errMsgShortUsername
	case len(req.Password) < 6:
		return errMsgShortPassword
	case strings.TrimSpace(req.Fullname) == "":
		return errMsgMissingFullname
	case !constants.ValidDepts[req.Dept]:
		return errMsgInvalidDept
	case !constants.ValidRoles[req.Role]:
		return errMsgInvalidRole
	}
	return ""
}

// CreateUser registers a new officer account. Administrators only.
func CreateUser(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := requireRole(w, r, constants.RoleAdministrator)
		if admin == nil {
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if msg := validateCreateUser(&req); msg != "" {
			httpError(w, http.StatusBadRequest, msg)
			return
		}

		taken, err := store.Exists(req.Username, req.EmployeeCode)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if taken {
			httpError(w, http.StatusConflict, errMsgUserExists)
			return
		}

		u := &User{
			EmployeeCode: req.EmployeeCode,
			Username:     req.Username,
			Fullname:     req.Fullname,
			Dept:         req.Dept,
			Role:         req.Role,
			BranchCode:   req.BranchCode,
		}
		if err := store.Create(u, req.Password); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
				httpError(w, http.StatusConflict, errMsgUserExists)
				return
			}
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logger.Audit("User created: " + u.EmployeeCode + " by " + admin.EmployeeCode)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Tạo người dùng thành công!",
			"user":    u,
		})
	}
}

// ListUsers returns every account. Senior leadership only.
func ListUsers(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireRole(w, r, constants.RoleAdministrator,
			constants.RoleDirector, constants.RoleDeputyDirector) == nil {
			return
		}
		list, err := store.ListAll()
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

// ListManagedOfficers returns the officers in the caller's own department
// and branch. Department heads only.
func ListManagedOfficers(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		head := requireRole(w, r, constants.RoleManager, constants.RoleDeputyManager)
		if head == nil {
			return
		}
		list, err := store.ListManagedOfficers(head.Dept, head.BranchCode)
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

func GetUser(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireRole(w, r, constants.RoleAdministrator,
			constants.RoleDirector, constants.RoleDeputyDirector) == nil {
			return
		}
		u, err := store.ByEmployeeCode(mux.Vars(r)["employeeCode"])
		if errors.Is(err, ErrUserNotFound) {
			httpError(w, http.StatusNotFound, errMsgUserNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    u,
		})
	}
}

// UpdateUser overwrites profile fields on an account. Administrators only.
// Empty fields in the body keep their current value.
func UpdateUser(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := requireRole(w, r, constants.RoleAdministrator)
		if admin == nil {
			return
		}

		var req struct {
			Fullname   string `json:"fullname"`
			Dept       string `json:"dept"`
			Role       string `json:"role"`
			BranchCode string `json:"branch_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if req.Dept != "" && !constants.ValidDepts[req.Dept] {
			httpError(w, http.StatusBadRequest, errMsgInvalidDept)
			return
		}
		if req.Role != "" && !constants.ValidRoles[req.Role] {
			httpError(w, http.StatusBadRequest, errMsgInvalidRole)
			return
		}

		employeeCode := mux.Vars(r)["employeeCode"]
		u, err := store.Update(employeeCode, req.Fullname, req.Dept, req.Role, req.BranchCode)
		if errors.Is(err, ErrUserNotFound) {
			httpError(w, http.StatusNotFound, errMsgUserNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logger.Audit("User updated: " + employeeCode + " by " + admin.EmployeeCode)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Cập nhật người dùng thành công!",
			"user":    u,
		})
	}
}

// ChangePassword resets an account password. Everyone may change their own;
// administrators may change anyone's.
func ChangePassword(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := requireUser(w, r)
		if caller == nil {
			return
		}
		employeeCode := mux.Vars(r)["employeeCode"]
		if caller.EmployeeCode != employeeCode && caller.Role != constants.RoleAdministrator {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if len(req.Password) < 6 {
			httpError(w, http.StatusBadRequest, errMsgShortPassword)
			return
		}

		err := store.SetPassword(employeeCode, req.Password)
		if errors.Is(err, ErrUserNotFound) {
			httpError(w, http.StatusNotFound, errMsgUserNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logger.Audit("Password changed for " + employeeCode + " by " + caller.EmployeeCode)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Đổi mật khẩu thành công!",
		})
	}
}

// DeleteUser removes an account. Administrators only, and never their own.
func DeleteUser(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := requireRole(w, r, constants.RoleAdministrator)
		if admin == nil {
			return
		}
		employeeCode := mux.Vars(r)["employeeCode"]
		if employeeCode == admin.EmployeeCode {
			httpError(w, http.StatusBadRequest, "Không thể tự xóa tài khoản của chính mình.")
			return
		}

		err := store.Delete(employeeCode)
		if errors.Is(err, ErrUserNotFound) {
			httpError(w, http.StatusNotFound, errMsgUserNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logger.Audit("User deleted: " + employeeCode + " by " + admin.EmployeeCode)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Xóa người dùng thành công!",
		})
	}
}
