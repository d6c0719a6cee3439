package model

// Privilege is a capability that can be granted to a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:manage"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Capability codes checked before mutating calls
const (
	CapManageProducts = "product:manage"
	CapManageStock    = "stock:manage"
	CapViewReports    = "report:view"
	CapManageUsers    = "user:manage"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: CapManageProducts, Name: "Manage Products"},
	{Code: CapManageStock, Name: "Manage Stock"},
	{Code: CapViewReports, Name: "View Reports"},
	{Code: CapManageUsers, Name: "Manage Users"},
}
