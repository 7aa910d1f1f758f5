package model

// Role represents an analyzed IAM role. TrustPolicy and PermissionsSummary
// hold serialized JSON documents.
type Role struct {
	ID                 int    `gorm:"column:id;primaryKey;autoIncrement"`
	RoleName           string `gorm:"column:role_name"`
	TrustPolicy        string `gorm:"column:trust_policy"`
	PermissionsSummary string `gorm:"column:permissions_summary"`
	AccountID          string `gorm:"column:account_id"`
}

func (Role) TableName() string {
	return "roles"
}
