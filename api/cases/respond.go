package cases

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"XuLyNoSaas/api/auth"
	"XuLyNoSaas/api/constants"
)

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

// parseUpload parses a multipart request with a hard cap on the total body.
// The declared length is checked before any read; MaxBytesReader backstops
// chunked bodies that never declare one.
func parseUpload(w http.ResponseWriter, r *http.Request, limit int64) bool {
	if r.ContentLength > limit {
		httpError(w, http.StatusBadRequest, constants.ErrMsgFileTooLarge)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			httpError(w, http.StatusBadRequest, constants.ErrMsgFileTooLarge)
			return false
		}
		httpError(w, http.StatusBadRequest, "multipart parse error: "+err.Error())
		return false
	}
	return true
}

// requireUser resolves the caller from the user_id form/query value against
// the active session table. Handlers never trust the value alone; a code
// without a live session is treated as unauthenticated.
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
