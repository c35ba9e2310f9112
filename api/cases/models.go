package cases

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtCase is one collection case. A customer can have at most one case per
// classification: the (customer_code, case_type) pair is the business key.
type DebtCase struct {
	CaseID               string          `json:"case_id"`
	CustomerCode         string          `json:"customer_code"`
	CustomerName         string          `json:"customer_name"`
	Address              string          `json:"address,omitempty"`
	OutstandingDebt      decimal.Decimal `json:"outstanding_debt"`
	CaseType             string          `json:"case_type"`
	State                string          `json:"state"`
	AssignedEmployeeCode string          `json:"assigned_employee_code"`
	CreatedDate          time.Time       `json:"created_date"`
	LastModifiedDate     time.Time       `json:"last_modified_date"`
}

// CaseDocument is an uploaded file attached to a case. FilePath is relative
// to the storage root; OriginalFilename is the user-facing name, kept
// verbatim even when the on-disk name had to be sanitized.
type CaseDocument struct {
	DocumentID         string    `json:"document_id"`
	CaseID             string    `json:"case_id"`
	OriginalFilename   string    `json:"original_filename"`
	FilePath           string    `json:"file_path"`
	MimeType           string    `json:"mime_type"`
	FileSize           int64     `json:"file_size"`
	DocumentType       string    `json:"document_type"`
	FileChecksum       string    `json:"file_checksum"`
	UploadedByEmployee string    `json:"uploaded_by_employee_code"`
	UploadDate         time.Time `json:"upload_date"`
}

// CaseUpdate is one audit-trail note on a case.
type CaseUpdate struct {
	UpdateID              string    `json:"update_id"`
	CaseID                string    `json:"case_id"`
	UpdateContent         string    `json:"update_content"`
	CreatedByEmployeeCode string    `json:"created_by_employee_code"`
	CreatedDate           time.Time `json:"created_date"`
}
