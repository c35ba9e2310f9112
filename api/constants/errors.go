package constants

// User-displayable messages. Vietnamese is the product language; internal
// log lines stay English.

const (
	ErrMissingUserID    = "user_id is required in the request"
	ErrInvalidSession   = "Your session has expired or is invalid. Please login again"
	ErrMethodNotAllowed = "Method Not Allowed"
)

const (
	ErrMsgCaseNotFound     = "Không tìm thấy hồ sơ."
	ErrMsgDocumentNotFound = "Không tìm thấy tài liệu."
	ErrMsgNoFileUploaded   = "Không có file nào được tải lên."
	ErrMsgNotSpreadsheet   = "File không phải là bảng tính Excel hợp lệ."
	ErrMsgNoDataRows       = "File không có dòng dữ liệu nào đọc được."
	ErrMsgStatusUnchanged  = "Trạng thái mới giống với trạng thái hiện tại."
	ErrMsgInvalidStatus    = "Trạng thái không hợp lệ."
	ErrMsgUploadRejected   = "File bị từ chối: "
	ErrMsgFileTooLarge     = "File quá lớn. Kích thước tối đa là 50MB."
	ErrMsgStorageFailure   = "Lỗi lưu trữ file. Vui lòng thử lại."
	ErrMsgAccessDenied     = "Bạn không có quyền thực hiện thao tác này."
	ErrMsgMissingContent   = "Nội dung cập nhật không được để trống."
)
