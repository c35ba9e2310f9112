package constants

// Case classifications. The code values are what the API and the database
// speak; the labels are what users (and the folder tree) see.
const (
	CaseTypeInternal = "internal"
	CaseTypeExternal = "external"

	CaseTypeInternalLabel = "Nội bảng"
	CaseTypeExternalLabel = "Ngoại bảng"
)

// Case statuses, Vietnamese as the storage standard.
const (
	StatusNew                    = "Mới"
	StatusProcessing             = "Đang xử lý"
	StatusBeingFollowedUp        = "Đang đôn đốc"
	StatusBeingSued              = "Đang khởi kiện"
	StatusAwaitingJudgmentEffect = "Chờ hiệu lực án"
	StatusBeingExecuted          = "Đang thi hành án"
	StatusProactivelySettled     = "Chủ động XLTS"
	StatusDebtSold               = "Bán nợ"
	StatusAMCHired               = "Thuê AMC XLN"
	StatusCompleted              = "Hoàn thành"
)

// ValidStatuses gates status transitions coming in over the API.
var ValidStatuses = map[string]bool{
	StatusNew:                    true,
	StatusProcessing:             true,
	StatusBeingFollowedUp:        true,
	StatusBeingSued:              true,
	StatusAwaitingJudgmentEffect: true,
	StatusBeingExecuted:          true,
	StatusProactivelySettled:     true,
	StatusDebtSold:               true,
	StatusAMCHired:               true,
	StatusCompleted:              true,
}

// User roles. Leadership roles see every case; everyone else only their own.
const (
	RoleEmployee       = "employee"
	RoleDeputyManager  = "deputy_manager"
	RoleManager        = "manager"
	RoleDeputyDirector = "deputy_director"
	RoleDirector       = "director"
	RoleAdministrator  = "administrator"
)

var LeadershipRoles = map[string]bool{
	RoleDeputyManager:  true,
	RoleManager:        true,
	RoleDeputyDirector: true,
	RoleDirector:       true,
	RoleAdministrator:  true,
}

// ValidRoles gates the role value on account creation and updates.
var ValidRoles = map[string]bool{
	RoleEmployee:       true,
	RoleDeputyManager:  true,
	RoleManager:        true,
	RoleDeputyDirector: true,
	RoleDirector:       true,
	RoleAdministrator:  true,
}

// ValidDepts lists the branch departments accounts can belong to.
var ValidDepts = map[string]bool{
	"KHCN":    true,
	"KHDN":    true,
	"KH":      true,
	"KH&QLRR": true,
	"BGĐ":     true,
	"IT":      true,
}

// Document type codes accepted on upload. Unknown codes are not rejected;
// the placement planner folds them into the catch-all folder.
var DocumentTypeNames = map[string]string{
	"court":                "Tòa án",
	"enforcement":          "Thi hành án",
	"notification":         "Bán nợ",
	"proactive":            "Chủ động xử lý tài sản",
	"collateral":           "Tài sản đảm bảo",
	"processed_collateral": "Tài sản đã xử lý",
	"other":                "Tài liệu khác",
}

// DocumentTypeName returns the display label for a document type code.
func DocumentTypeName(code string) string {
	if name, ok := DocumentTypeNames[code]; ok {
		return name
	}
	return "Không xác định"
}

// Content types
const (
	ContentTypeJSON   = "application/json"
	HeaderContentType = "Content-Type"
)

// NBSP shows up in pasted Excel cells and must normalize to plain space.
const NBSP = " "
