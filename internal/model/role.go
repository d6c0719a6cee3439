package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin            = "ADMIN"
	RoleWarehouseManager = "WAREHOUSE_MANAGER"
	RoleWarehouseStaff   = "WAREHOUSE_STAFF"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleWarehouseManager,
		Name:        "Warehouse Manager",
		Description: "Manages products, stock and reports",
	},
	{
		Code:        RoleWarehouseStaff,
		Name:        "Warehouse Staff",
		Description: "Records stock transactions",
	},
}

// DefaultRolePrivileges maps each default role to its privilege codes
var DefaultRolePrivileges = map[string][]string{
	RoleAdmin:            {CapManageProducts, CapManageStock, CapViewReports, CapManageUsers},
	RoleWarehouseManager: {CapManageProducts, CapManageStock, CapViewReports},
	RoleWarehouseStaff:   {CapManageStock},
}

// HasPrivilege checks if the role grants a specific privilege
func (r *Role) HasPrivilege(code string) bool {
	for _, p := range r.Privileges {
		if p.Code == code {
			return true
		}
	}
	return false
}
