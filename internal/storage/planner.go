package storage

import "XuLyNoSaas/api/constants"

// Folder layout exposed to operators:
//
//	<root>/<uploader>/<customer code>/<Nội bảng|Ngoại bảng>/<document folder>/<file>
//
// Backup and archival tooling walks this tree, so the folder names below are
// a contract and must stay stable.

var documentTypeFolders = map[string]string{
	"court":                "Tài liệu Tòa án",
	"enforcement":          "Tài liệu Thi hành án",
	"notification":         "Tài liệu Bán nợ",
	"proactive":            "Tài liệu Chủ động xử lý tài sản",
	"collateral":           "Tài sản đảm bảo",
	"processed_collateral": "Tài liệu tài sản đã xử lý",
	"other":                "Tài liệu khác",
}

const fallbackDocumentFolder = "Tài liệu khác"

// DocumentTypeFolder maps a document-type code to its folder name. Unknown
// codes land in the catch-all folder instead of failing.
func DocumentTypeFolder(documentType string) string {
	if folder, ok := documentTypeFolders[documentType]; ok {
		return folder
	}
	return fallbackDocumentFolder
}

// CaseTypeFolder returns the localized on-balance/off-balance folder name.
// Anything that is not explicitly external counts as internal.
func CaseTypeFolder(caseType string) string {
	if caseType == constants.CaseTypeExternal {
		return constants.CaseTypeExternalLabel
	}
	return constants.CaseTypeInternalLabel
}

// PlanSegments computes the four directory segments for a document: uploader
// identity, customer code, case-type folder, document-type folder. Each
// segment is sanitized and the result always has four non-empty entries;
// downstream code relies on that and never sees a partial plan.
func PlanSegments(uploaderName, customerCode, caseType, documentType string) [4]string {
	return [4]string{
		SanitizeSegment(uploaderName),
		SanitizeSegment(customerCode),
		SanitizeSegment(CaseTypeFolder(caseType)),
		SanitizeSegment(DocumentTypeFolder(documentType)),
	}
}
