package auth

const (
	PermTemplatesRead   = "templates.read"
	PermTemplatesImport = "templates.import"
	PermCyclesRead      = "cycles.read"
	PermCyclesManage    = "cycles.manage"
	PermSheetsRead      = "sheets.read"
	PermSheetsAct       = "sheets.act"
	PermEvidenceRead    = "evidence.read"
	PermEvidenceWrite   = "evidence.write"
	PermReportsRead     = "reports.read"
	PermDirectoryRead   = "directory.read"
	PermDirectoryWrite  = "directory.write"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermCyclesRead,
		PermSheetsRead,
		PermSheetsAct,
		PermEvidenceRead,
		PermEvidenceWrite,
		PermDirectoryRead,
	},
	RoleManager: {
		PermCyclesRead,
		PermSheetsRead,
		PermSheetsAct,
		PermEvidenceRead,
		PermReportsRead,
		PermDirectoryRead,
	},
	RoleHR: {
		PermTemplatesRead,
		PermTemplatesImport,
		PermCyclesRead,
		PermCyclesManage,
		PermSheetsRead,
		PermSheetsAct,
		PermEvidenceRead,
		PermReportsRead,
		PermDirectoryRead,
		PermDirectoryWrite,
	},
}

// HasPermission resolves role permissions from the static table. Admin holds
// every permission.
func HasPermission(role, permission string) bool {
	if NormalizeRole(role) == RoleAdmin {
		return true
	}
	for _, candidate := range RolePermissions[NormalizeRole(role)] {
		if candidate == permission {
			return true
		}
	}
	return false
}
