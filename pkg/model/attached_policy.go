package model

// AttachedPolicy is a managed policy attached to a role. Document is the
// serialized policy document of the policy's default version.
type AttachedPolicy struct {
	ID       int    `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name"`
	Document string `gorm:"column:document"`
	RoleID   int    `gorm:"column:role_id"`
}

func (AttachedPolicy) TableName() string {
	return "attached_policies"
}
