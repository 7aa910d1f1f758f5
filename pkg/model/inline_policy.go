package model

// InlinePolicy is a policy embedded directly in a role.
type InlinePolicy struct {
	ID       int    `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name"`
	Document string `gorm:"column:document"`
	RoleID   int    `gorm:"column:role_id"`
}

func (InlinePolicy) TableName() string {
	return "inline_policies"
}
