package model

// UserAttachedPolicy is a managed policy attached to a user. Unlike role
// policies, the stored document is refreshed on every sync.
type UserAttachedPolicy struct {
	ID       int    `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name"`
	Document string `gorm:"column:document"`
	UserID   int    `gorm:"column:user_id"`
}

func (UserAttachedPolicy) TableName() string {
	return "user_attached_policies"
}
