package model

// User represents an IAM user in a watched account.
type User struct {
	ID        int    `gorm:"column:id;primaryKey;autoIncrement"`
	UserName  string `gorm:"column:user_name"`
	AccountID string `gorm:"column:account_id"`
}

func (User) TableName() string {
	return "users"
}
