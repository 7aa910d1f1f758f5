package model

// UserInlinePolicy is a policy embedded directly in a user.
type UserInlinePolicy struct {
	ID       int    `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name"`
	Document string `gorm:"column:document"`
	UserID   int    `gorm:"column:user_id"`
}

func (UserInlinePolicy) TableName() string {
	return "user_inline_policies"
}
