package cases

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"XuLyNoSaas/api/constants"
	"XuLyNoSaas/internal/checksum"
	"XuLyNoSaas/internal/config"
)

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestCanSeeCase(t *testing.T) {
	c := &DebtCase{AssignedEmployeeCode: "NV001"}

	assert.True(t, canSeeCase(constants.RoleEmployee, "NV001", c))
	assert.False(t, canSeeCase(constants.RoleEmployee, "NV002", c))

	for role := range constants.LeadershipRoles {
		assert.True(t, canSeeCase(role, "NV999", c), "role %s should see every case", role)
	}
}

func TestSizeKB(t *testing.T) {
	assert.Equal(t, int64(0), sizeKB(0))
	assert.Equal(t, int64(1), sizeKB(700))
	assert.Equal(t, int64(1), sizeKB(1024))
	assert.Equal(t, int64(2), sizeKB(1600))
}

func TestStoredFileIntact(t *testing.T) {
	data := []byte("%PDF-1.4 report")

	assert.True(t, storedFileIntact(data, checksum.Sum(data)))
	assert.False(t, storedFileIntact([]byte("tampered"), checksum.Sum(data)))
	assert.True(t, storedFileIntact(data, ""))
}

func TestParseUploadRejectsDeclaredOversizedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/cases/import/internal", strings.NewReader("tiny"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	r.ContentLength = config.MaxUploadBytes + 1
	w := httptest.NewRecorder()

	assert.False(t, parseUpload(w, r, config.MaxUploadBytes))
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgFileTooLarge)
}

func TestParseUploadRejectsUndeclaredOversizedBody(t *testing.T) {
	body, contentType := multipartBody(t, "file", "big.xlsx", bytes.Repeat([]byte("x"), 4096))

	r := httptest.NewRequest("POST", "/cases/import/internal", body)
	r.Header.Set("Content-Type", contentType)
	// No declared length, the reader cap has to catch it.
	r.ContentLength = -1
	w := httptest.NewRecorder()

	assert.False(t, parseUpload(w, r, 1024))
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgFileTooLarge)
}

func TestParseUploadAcceptsBodyWithinLimit(t *testing.T) {
	body, contentType := multipartBody(t, "file", "small.xlsx", []byte("ok"))

	r := httptest.NewRequest("POST", "/cases/import/internal", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	assert.True(t, parseUpload(w, r, config.MaxUploadBytes))
	assert.Equal(t, 200, w.Code)
}

func TestImportRejectsOversizedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/cases/import/internal", strings.NewReader("tiny"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	r.ContentLength = config.MaxUploadBytes + 1
	w := httptest.NewRecorder()

	ImportInternalCases(&Store{})(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgFileTooLarge)
}

func TestRequireUserMissingUserID(t *testing.T) {
	r := httptest.NewRequest("GET", "/cases/my", nil)
	w := httptest.NewRecorder()

	session := requireUser(w, r)

	assert.Nil(t, session)
	assert.Equal(t, 400, w.Code)
}

func TestRequireUserNoActiveSession(t *testing.T) {
	r := httptest.NewRequest("GET", "/cases/my?user_id=NV404", nil)
	w := httptest.NewRecorder()

	session := requireUser(w, r)

	assert.Nil(t, session)
	assert.Equal(t, 401, w.Code)
}
