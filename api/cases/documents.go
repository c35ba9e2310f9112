package cases

import (
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"XuLyNoSaas/api/constants"
	"XuLyNoSaas/internal/checksum"
	"XuLyNoSaas/internal/config"
	"XuLyNoSaas/internal/logger"
	"XuLyNoSaas/internal/storage"
)

const errMsgFileAccessDenied = "Truy cập file bị từ chối."

func sizeKB(bytes int64) int64 {
	return (bytes + 512) / 1024
}

// storedFileIntact checks stored bytes against the fingerprint recorded at
// upload time. Records written before fingerprinting carry no checksum and
// pass unchecked.
func storedFileIntact(data []byte, expected string) bool {
	if expected == "" {
		return true
	}
	ok, err := checksum.NewMatcher(expected).Match(data)
	return err == nil && ok
}

// UploadDocument stages the incoming file, relocates it under the case's
// folder chain and records metadata plus an audit-trail row. The stored
// path is relative to the storage root; the original filename is kept
// verbatim for display and download.
func UploadDocument(store *Store, staging *storage.StagingArea, relocator *storage.Relocator, root *storage.SafeRoot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseUpload(w, r, config.MaxUploadBytes) {
			return
		}

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

		documentType := r.FormValue("document_type")
		if documentType == "" {
			documentType = "other"
		}

		file, header, err := r.FormFile("document")
		if err != nil {
			httpError(w, http.StatusBadRequest, constants.ErrMsgNoFileUploaded)
			return
		}
		defer file.Close()

		staged, err := staging.Stage(file, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			if errors.Is(err, storage.ErrMimeNotAllowed) || errors.Is(err, storage.ErrExtensionNotAllowed) {
				httpError(w, http.StatusBadRequest, constants.ErrMsgUploadRejected+err.Error())
				return
			}
			httpError(w, http.StatusInternalServerError, constants.ErrMsgStorageFailure)
			return
		}

		uploaderName := user.Fullname
		if uploaderName == "" {
			uploaderName = user.EmployeeCode
		}
		finalAbs, err := relocator.Relocate(staged, uploaderName, c.CustomerCode, c.CaseType, documentType)
		if err != nil {
			logger.Audit(fmt.Sprintf("relocate failed case=%s file=%s: %v",
				caseID, staged.StoredName, err))
			httpError(w, http.StatusInternalServerError, constants.ErrMsgStorageFailure)
			return
		}

		relPath, ok := root.RelativeTo(finalAbs)
		if !ok {
			logger.Security("relocated file resolved outside root: " + finalAbs)
			httpError(w, http.StatusInternalServerError, constants.ErrMsgStorageFailure)
			return
		}

		doc := &CaseDocument{
			CaseID:             caseID,
			OriginalFilename:   staged.OriginalName,
			FilePath:           relPath,
			MimeType:           staged.MimeType,
			FileSize:           staged.Size,
			DocumentType:       documentType,
			FileChecksum:       staged.Checksum,
			UploadedByEmployee: user.EmployeeCode,
		}
		if err := store.CreateDocument(r.Context(), doc); err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		update := &CaseUpdate{
			CaseID: caseID,
			UpdateContent: fmt.Sprintf("Đã tải lên tài liệu %q (%s, %d KB)",
				doc.OriginalFilename, constants.DocumentTypeName(documentType),
				sizeKB(doc.FileSize)),
			CreatedByEmployeeCode: user.EmployeeCode,
		}
		if err := store.CreateUpdate(r.Context(), update); err != nil {
			logger.Audit(fmt.Sprintf("upload audit row failed case=%s: %v", caseID, err))
		}
		if err := store.Touch(r.Context(), caseID); err != nil {
			logger.Audit(fmt.Sprintf("touch after upload failed case=%s: %v", caseID, err))
		}

		logger.Audit(fmt.Sprintf("document uploaded case=%s doc=%s path=%s sha256=%s by=%s",
			caseID, doc.DocumentID, doc.FilePath, staged.Checksum, user.EmployeeCode))
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success":  true,
			"message":  "Tải file lên thành công!",
			"document": doc,
		})
	}
}

// DownloadDocument streams a stored file back. The recorded path is
// re-validated against the root on every download; records are data, not
// trusted input.
func DownloadDocument(store *Store, root *storage.SafeRoot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		documentID := mux.Vars(r)["documentId"]

		doc, err := store.DocumentByID(r.Context(), documentID)
		if errors.Is(err, ErrDocumentNotFound) {
			httpError(w, http.StatusNotFound, constants.ErrMsgDocumentNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		c, err := store.GetByID(r.Context(), doc.CaseID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !canSeeCase(user.Role, user.EmployeeCode, c) {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		abs, ok := root.ResolveWithinRoot(doc.FilePath)
		if !ok {
			logger.Security(fmt.Sprintf("download blocked doc=%s path=%s", documentID, doc.FilePath))
			httpError(w, http.StatusForbidden, errMsgFileAccessDenied)
			return
		}
		if !root.FileExists(doc.FilePath) {
			httpError(w, http.StatusNotFound, "File không tồn tại trên server.")
			return
		}

		data, err := afero.ReadFile(root.Fs(), abs)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "Lỗi khi đọc file.")
			return
		}
		if !storedFileIntact(data, doc.FileChecksum) {
			logger.Security(fmt.Sprintf("checksum mismatch doc=%s path=%s", documentID, doc.FilePath))
			httpError(w, http.StatusInternalServerError, "File trên server đã bị thay đổi.")
			return
		}

		contentType := doc.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		// FormatMediaType emits the RFC 5987 filename* form when the
		// original name carries non-ASCII characters.
		disposition := mime.FormatMediaType("attachment",
			map[string]string{"filename": doc.OriginalFilename})
		w.Header().Set("Content-Disposition", disposition)
		w.Header().Set(constants.HeaderContentType, contentType)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		if _, err := w.Write(data); err != nil {
			log.Printf("[ERROR] stream document %s: %v", documentID, err)
		}
	}
}

// DeleteDocument removes the physical file first, then the record. A file
// that is already gone does not block the record delete.
func DeleteDocument(store *Store, root *storage.SafeRoot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r)
		if user == nil {
			return
		}
		documentID := mux.Vars(r)["documentId"]

		doc, err := store.DocumentByID(r.Context(), documentID)
		if errors.Is(err, ErrDocumentNotFound) {
			httpError(w, http.StatusNotFound, constants.ErrMsgDocumentNotFound)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		c, err := store.GetByID(r.Context(), doc.CaseID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !canSeeCase(user.Role, user.EmployeeCode, c) {
			httpError(w, http.StatusForbidden, constants.ErrMsgAccessDenied)
			return
		}

		if abs, ok := root.ResolveWithinRoot(doc.FilePath); ok {
			if err := root.Fs().Remove(abs); err != nil {
				logger.Audit(fmt.Sprintf("file removal failed doc=%s path=%s: %v",
					documentID, doc.FilePath, err))
			}
		} else {
			logger.Security(fmt.Sprintf("delete skipped unsafe path doc=%s path=%s",
				documentID, doc.FilePath))
		}

		if err := store.DeleteDocument(r.Context(), documentID); err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		update := &CaseUpdate{
			CaseID: doc.CaseID,
			UpdateContent: fmt.Sprintf("Đã xóa tài liệu %q (%s, %d KB)",
				doc.OriginalFilename, constants.DocumentTypeName(doc.DocumentType),
				sizeKB(doc.FileSize)),
			CreatedByEmployeeCode: user.EmployeeCode,
		}
		if err := store.CreateUpdate(r.Context(), update); err != nil {
			logger.Audit(fmt.Sprintf("delete audit row failed case=%s: %v", doc.CaseID, err))
		}
		if err := store.Touch(r.Context(), doc.CaseID); err != nil {
			logger.Audit(fmt.Sprintf("touch after delete failed case=%s: %v", doc.CaseID, err))
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Xóa tài liệu thành công!",
		})
	}
}
