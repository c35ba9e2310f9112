package users

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"XuLyNoSaas/api/constants"
)

func validRequest() createUserRequest {
	return createUserRequest{
		EmployeeCode: "NV100",
		Username:     "nguyenvana",
		Password:     "secret123",
		Fullname:     "Nguyễn Văn A",
		Dept:         "KHCN",
		Role:         constants.RoleEmployee,
		BranchCode:   "CN01",
	}
}

func TestValidateCreateUser(t *testing.T) {
	req := validRequest()
	assert.Empty(t, validateCreateUser(&req))

	req = validRequest()
	req.EmployeeCode = "  "
	assert.Equal(t, errMsgMissingEmployee, validateCreateUser(&req))

	req = validRequest()
	req.Username = "abc"
	assert.Equal(t, errMsgShortUsername, validateCreateUser(&req))

	req = validRequest()
	req.Password = "12345"
	assert.Equal(t, errMsgShortPassword, validateCreateUser(&req))

	req = validRequest()
	req.Fullname = ""
	assert.Equal(t, errMsgMissingFullname, validateCreateUser(&req))

	req = validRequest()
	req.Dept = "Kho quỹ"
	assert.Equal(t, errMsgInvalidDept, validateCreateUser(&req))

	req = validRequest()
	req.Role = "superuser"
	assert.Equal(t, errMsgInvalidRole, validateCreateUser(&req))
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, roleAllowed(constants.RoleAdministrator, constants.RoleAdministrator))
	assert.True(t, roleAllowed(constants.RoleDirector,
		constants.RoleAdministrator, constants.RoleDirector, constants.RoleDeputyDirector))
	assert.False(t, roleAllowed(constants.RoleEmployee,
		constants.RoleAdministrator, constants.RoleDirector))
	assert.False(t, roleAllowed(constants.RoleManager, constants.RoleAdministrator))
}

func TestRequireUserMissingUserID(t *testing.T) {
	r := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()

	assert.Nil(t, requireUser(w, r))
	assert.Equal(t, 400, w.Code)
}

func TestRequireUserNoActiveSession(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?user_id=NV404", nil)
	w := httptest.NewRecorder()

	assert.Nil(t, requireUser(w, r))
	assert.Equal(t, 401, w.Code)
}
