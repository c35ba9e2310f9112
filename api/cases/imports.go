package cases

import (
	"errors"
	"io"
	"net/http"

	"XuLyNoSaas/api/cases/importer"
	"XuLyNoSaas/api/constants"
	"XuLyNoSaas/internal/config"
	"XuLyNoSaas/internal/logger"
)

// ImportInternalCases ingests the on-balance-sheet extract. Only rows in
// debt groups 3, 4 and 5 become cases.
func ImportInternalCases(store *Store) http.HandlerFunc {
	return importHandler(store, importer.InternalShape, constants.CaseTypeInternal)
}

// ImportExternalCases ingests the off-balance-sheet extract. No debt-group
// filter applies; the extract is already scoped.
func ImportExternalCases(store *Store) http.HandlerFunc {
	return importHandler(store, importer.ExternalShape, constants.CaseTypeExternal)
}

func importHandler(store *Store, shape importer.RowShape, caseType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseUpload(w, r, config.MaxUploadBytes) {
			return
		}

		user := requireUser(w, r)
		if user == nil {
			return
		}
		if !constants.LeadershipRoles[user.Role] {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, constants.ErrMsgNoFileUploaded)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpError(w, http.StatusBadRequest, "read file: "+err.Error())
			return
		}

		result, err := importer.ImportFromBuffer(r.Context(), store, data, shape, caseType)
		if err != nil {
			// Only a completely unreadable file lands here; row-level
			// problems ride back inside the result.
			switch {
			case errors.Is(err, importer.ErrNotSpreadsheet):
				httpError(w, http.StatusBadRequest, constants.ErrMsgNotSpreadsheet)
			case errors.Is(err, importer.ErrNoDataRows):
				httpError(w, http.StatusBadRequest, constants.ErrMsgNoDataRows)
			default:
				httpError(w, http.StatusBadRequest, err.Error())
			}
			return
		}

		logger.Audit("case import " + caseType + " file=" + header.Filename +
			" by=" + user.EmployeeCode)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Import hoàn tất!",
			"data":    result,
		})
	}
}
